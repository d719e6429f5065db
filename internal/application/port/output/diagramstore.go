package output

// DiagramStore persists rendered diagram images and hands back
// server-relative references for the static file route.
type DiagramStore interface {
	// SaveImage decodes raw image bytes and writes them under a generated
	// filename, returning the diagram reference.
	SaveImage(data []byte) (string, error)
	// CopyFile imports an image that a tool left on disk.
	CopyFile(path string) (string, error)
	// Placeholder returns the sentinel reference used when no diagram
	// could be produced.
	Placeholder() string
	// Dir is the directory served by the static file route.
	Dir() string
}
