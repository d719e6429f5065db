package output

import (
	"context"
	"errors"

	"arch-agent/internal/domain/entity"
)

// ErrSolutionNotFound is returned by Get and Delete when no record
// exists for the given id.
var ErrSolutionNotFound = errors.New("solution not found")

type SolutionStore interface {
	Create(ctx context.Context, solution *entity.SavedSolution) error
	List(ctx context.Context, query, tag string) ([]*entity.SavedSolution, error)
	Get(ctx context.Context, id string) (*entity.SavedSolution, error)
	Delete(ctx context.Context, id string) error
}
