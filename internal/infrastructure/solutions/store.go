package solutions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"arch-agent/internal/application/port/output"
	"arch-agent/internal/domain/entity"
)

var _ output.SolutionStore = (*Store)(nil)

// Record ids double as filenames; anything else is rejected up front.
var validID = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// Store persists saved solutions one JSON file per record.
type Store struct {
	dir    string
	mu     sync.Mutex
	logger output.LoggerPort
}

func NewStore(dir string, logger output.LoggerPort) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create solutions dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) Create(_ context.Context, solution *entity.SavedSolution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if solution.ID == "" {
		solution.ID = uuid.NewString()
	}
	if !validID.MatchString(solution.ID) {
		return fmt.Errorf("invalid solution id %q", solution.ID)
	}

	now := time.Now().UTC()
	if solution.CreatedAt.IsZero() {
		solution.CreatedAt = now
	}
	solution.UpdatedAt = now
	if solution.Tags == nil {
		solution.Tags = []string{}
	}

	data, err := json.MarshalIndent(solution, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal solution: %w", err)
	}
	if err := os.WriteFile(s.path(solution.ID), data, 0644); err != nil {
		return fmt.Errorf("write solution: %w", err)
	}

	s.logger.Info("Solution saved", "id", solution.ID, "title", solution.Title)
	return nil
}

// List returns all solutions matching the optional text query and tag
// filter, newest first. Corrupt records are skipped, not fatal.
func (s *Store) List(_ context.Context, query, tag string) ([]*entity.SavedSolution, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read solutions dir: %w", err)
	}

	result := make([]*entity.SavedSolution, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		solution, err := s.read(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.logger.Warn("Skipping unreadable solution record", "file", entry.Name(), "error", err)
			continue
		}
		if !solution.MatchesQuery(query) {
			continue
		}
		if tag != "" && !solution.HasTag(tag) {
			continue
		}
		result = append(result, solution)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) Get(_ context.Context, id string) (*entity.SavedSolution, error) {
	if !validID.MatchString(id) {
		return nil, output.ErrSolutionNotFound
	}
	solution, err := s.read(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, output.ErrSolutionNotFound
		}
		return nil, err
	}
	return solution, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	if !validID.MatchString(id) {
		return output.ErrSolutionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return output.ErrSolutionNotFound
		}
		return fmt.Errorf("delete solution: %w", err)
	}
	s.logger.Info("Solution deleted", "id", id)
	return nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) read(path string) (*entity.SavedSolution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var solution entity.SavedSolution
	if err := json.Unmarshal(data, &solution); err != nil {
		return nil, fmt.Errorf("unmarshal solution: %w", err)
	}
	return &solution, nil
}
