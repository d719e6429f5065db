package entity

import (
	"strings"
	"time"
)

// SavedSolution is a generation result the user chose to keep, stored one
// JSON file per record.
type SavedSolution struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Requirements string             `json:"requirementsText"`
	Tags         []string           `json:"tags"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
	Result       ArchitectureResult `json:"result"`
}

func (s *SavedSolution) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// MatchesQuery does a case-insensitive substring search over the text fields.
func (s *SavedSolution) MatchesQuery(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(s.Title), q) ||
		strings.Contains(strings.ToLower(s.Description), q) ||
		strings.Contains(strings.ToLower(s.Requirements), q)
}
