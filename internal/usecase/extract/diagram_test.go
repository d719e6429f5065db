package extract

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

type mockDiagramStore struct {
	savedData   []byte
	copiedPath  string
	saveErr     error
	placeholder string
}

func (m *mockDiagramStore) SaveImage(data []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.savedData = data
	return "/diagram/architecture_test.png", nil
}

func (m *mockDiagramStore) CopyFile(path string) (string, error) {
	m.copiedPath = path
	return "/diagram/architecture_copied.png", nil
}

func (m *mockDiagramStore) Placeholder() string {
	if m.placeholder != "" {
		return m.placeholder
	}
	return "/diagram/sample.png"
}

func (m *mockDiagramStore) Dir() string { return "" }

func TestDiagram_InlineBase64(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	text := "Here is the diagram: data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	store := &mockDiagramStore{}
	ref, ok := Diagram(text, store)
	if !ok {
		t.Fatal("expected inline extraction to succeed")
	}
	if ref != "/diagram/architecture_test.png" {
		t.Errorf("ref = %q", ref)
	}
	if string(store.savedData) != string(payload) {
		t.Errorf("decoded payload mismatch: %v", store.savedData)
	}
}

func TestDiagram_OnDiskPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "generated-diagram.png")
	if err := os.WriteFile(path, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	text := "The diagram was written to " + path + " by the rendering tool."
	store := &mockDiagramStore{}

	ref, ok := Diagram(text, store)
	if !ok {
		t.Fatal("expected path extraction to succeed")
	}
	if ref != "/diagram/architecture_copied.png" {
		t.Errorf("ref = %q", ref)
	}
	if store.copiedPath != path {
		t.Errorf("copied path = %q, want %q", store.copiedPath, path)
	}
}

func TestDiagram_MissingPathFallsBack(t *testing.T) {
	store := &mockDiagramStore{}
	ref, ok := Diagram("I saved it to /nonexistent/dir/output.png", store)
	if ok {
		t.Fatal("expected the placeholder sentinel")
	}
	if ref != "/diagram/sample.png" {
		t.Errorf("ref = %q, want placeholder", ref)
	}
}

func TestDiagram_NoArtifactFallsBack(t *testing.T) {
	store := &mockDiagramStore{}
	ref, ok := Diagram("I was unable to render a diagram.", store)
	if ok {
		t.Fatal("expected the placeholder sentinel")
	}
	if ref != store.Placeholder() {
		t.Errorf("ref = %q", ref)
	}
}

func TestDiagram_SaveFailureFallsBack(t *testing.T) {
	text := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("img"))
	store := &mockDiagramStore{saveErr: os.ErrPermission}

	ref, ok := Diagram(text, store)
	if ok {
		t.Fatal("expected the placeholder sentinel when persistence fails")
	}
	if ref != "/diagram/sample.png" {
		t.Errorf("ref = %q", ref)
	}
}
