package diagrams

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"arch-agent/internal/application/port/output"
)

var _ output.DiagramStore = (*Store)(nil)

const (
	// PlaceholderName is the pre-existing sentinel image served when no
	// diagram could be produced.
	PlaceholderName = "sample.png"
	baseURL         = "/diagram"
	thumbWidth      = 320
)

// Store keeps rendered diagrams in one append-only directory. Filenames
// are unique per generation, so concurrent pipelines never contend.
type Store struct {
	dir    string
	logger output.LoggerPort
}

func NewStore(dir string, logger output.LoggerPort) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create diagrams dir: %w", err)
	}

	s := &Store{dir: dir, logger: logger}
	if err := s.ensurePlaceholder(); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveImage decodes raw image bytes, re-encodes them as PNG under a
// generated filename and writes a thumbnail next to the full image.
func (s *Store) SaveImage(data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode diagram payload: %w", err)
	}

	name := s.generateName(".png")
	full := filepath.Join(s.dir, name)
	if err := imaging.Save(img, full); err != nil {
		return "", fmt.Errorf("save diagram: %w", err)
	}

	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(s.dir, "thumb_"+name)); err != nil {
		s.logger.Warn("Thumbnail write failed", "name", name, "error", err)
	}

	s.logger.Info("Diagram saved", "name", name)
	return path.Join(baseURL, name), nil
}

// CopyFile imports an image a rendering tool left on disk. SVG files are
// copied verbatim; raster formats go through the same decode path as
// SaveImage.
func (s *Store) CopyFile(src string) (string, error) {
	if strings.EqualFold(filepath.Ext(src), ".svg") {
		return s.copyRaw(src, ".svg")
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("read diagram file: %w", err)
	}
	return s.SaveImage(data)
}

func (s *Store) Placeholder() string {
	return path.Join(baseURL, PlaceholderName)
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) copyRaw(src, ext string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open diagram file: %w", err)
	}
	defer in.Close()

	name := s.generateName(ext)
	out, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create diagram copy: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", fmt.Errorf("copy diagram: %w", err)
	}
	return path.Join(baseURL, name), nil
}

func (s *Store) generateName(ext string) string {
	return fmt.Sprintf("architecture_%s_%s%s",
		time.Now().Format("20060102_150405"), uuid.NewString()[:8], ext)
}

// ensurePlaceholder writes a neutral placeholder image on first start so
// the sentinel reference always resolves.
func (s *Store) ensurePlaceholder() error {
	target := filepath.Join(s.dir, PlaceholderName)
	if _, err := os.Stat(target); err == nil {
		return nil
	}

	img := imaging.New(640, 400, color.NRGBA{R: 235, G: 238, B: 241, A: 255})
	if err := imaging.Save(img, target); err != nil {
		return fmt.Errorf("write placeholder: %w", err)
	}
	return nil
}
