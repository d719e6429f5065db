package extract

import (
	"encoding/base64"
	"os"
	"regexp"

	"arch-agent/internal/application/port/output"
)

var (
	inlineImageRe = regexp.MustCompile(`data:image/[^;]+;base64,([A-Za-z0-9+/=]+)`)
	imagePathRe   = regexp.MustCompile(`(?i)[\w./~-]+\.(?:png|jpe?g|svg)\b`)
)

// Diagram locates a diagram artifact in session text and persists it into
// the store: an inline base64 payload first, then an on-disk image path the
// rendering tool may have written. The second return value is false when
// the placeholder sentinel was substituted. The reference is never empty.
func Diagram(text string, store output.DiagramStore) (string, bool) {
	if ref, ok := diagramFromInlineData(text, store); ok {
		return ref, true
	}
	if ref, ok := diagramFromPath(text, store); ok {
		return ref, true
	}
	return store.Placeholder(), false
}

func diagramFromInlineData(text string, store output.DiagramStore) (string, bool) {
	m := inlineImageRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	data, err := base64.StdEncoding.DecodeString(m[1])
	if err != nil {
		return "", false
	}
	ref, err := store.SaveImage(data)
	if err != nil {
		return "", false
	}
	return ref, true
}

func diagramFromPath(text string, store output.DiagramStore) (string, bool) {
	for _, candidate := range imagePathRe.FindAllString(text, -1) {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		ref, err := store.CopyFile(candidate)
		if err != nil {
			continue
		}
		return ref, true
	}
	return "", false
}
