package diagrams

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"arch-agent/internal/application/port/output"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)                          {}
func (nopLogger) Info(string, ...any)                           {}
func (nopLogger) Warn(string, ...any)                           {}
func (nopLogger) Error(string, ...any)                          {}
func (l nopLogger) WithField(string, any) output.LoggerPort     { return l }
func (l nopLogger) WithFields(map[string]any) output.LoggerPort { return l }
func (nopLogger) Close() error                                  { return nil }

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), nopLogger{})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(800, 600, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestNewStore_CreatesPlaceholder(t *testing.T) {
	s := newStore(t)

	if s.Placeholder() != "/diagram/sample.png" {
		t.Errorf("placeholder ref = %q", s.Placeholder())
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), PlaceholderName)); err != nil {
		t.Errorf("placeholder file missing: %v", err)
	}
}

func TestSaveImage(t *testing.T) {
	s := newStore(t)

	ref, err := s.SaveImage(pngBytes(t))
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	if !strings.HasPrefix(ref, "/diagram/architecture_") || !strings.HasSuffix(ref, ".png") {
		t.Errorf("ref = %q", ref)
	}

	name := strings.TrimPrefix(ref, "/diagram/")
	if _, err := os.Stat(filepath.Join(s.Dir(), name)); err != nil {
		t.Errorf("full image missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), "thumb_"+name)); err != nil {
		t.Errorf("thumbnail missing: %v", err)
	}

	thumb, err := imaging.Open(filepath.Join(s.Dir(), "thumb_"+name))
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	if thumb.Bounds().Dx() != 320 {
		t.Errorf("thumbnail width = %d, want 320", thumb.Bounds().Dx())
	}
}

func TestSaveImage_RejectsGarbage(t *testing.T) {
	s := newStore(t)
	if _, err := s.SaveImage([]byte("not an image")); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestCopyFile_Raster(t *testing.T) {
	s := newStore(t)

	src := filepath.Join(t.TempDir(), "rendered.png")
	if err := os.WriteFile(src, pngBytes(t), 0644); err != nil {
		t.Fatal(err)
	}

	ref, err := s.CopyFile(src)
	if err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}
	if !strings.HasSuffix(ref, ".png") {
		t.Errorf("ref = %q", ref)
	}
}

func TestCopyFile_SVGCopiedVerbatim(t *testing.T) {
	s := newStore(t)

	src := filepath.Join(t.TempDir(), "diagram.svg")
	svg := `<svg xmlns="http://www.w3.org/2000/svg"></svg>`
	if err := os.WriteFile(src, []byte(svg), 0644); err != nil {
		t.Fatal(err)
	}

	ref, err := s.CopyFile(src)
	if err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}
	if !strings.HasSuffix(ref, ".svg") {
		t.Errorf("ref = %q", ref)
	}

	name := strings.TrimPrefix(ref, "/diagram/")
	data, err := os.ReadFile(filepath.Join(s.Dir(), name))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != svg {
		t.Error("svg content changed during copy")
	}
}

func TestSaveImage_UniqueNames(t *testing.T) {
	s := newStore(t)

	ref1, err := s.SaveImage(pngBytes(t))
	if err != nil {
		t.Fatal(err)
	}
	ref2, err := s.SaveImage(pngBytes(t))
	if err != nil {
		t.Fatal(err)
	}
	if ref1 == ref2 {
		t.Errorf("expected unique names, got %q twice", ref1)
	}
}
