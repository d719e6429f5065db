package input

import (
	"context"

	"arch-agent/internal/domain/entity"
)

// GenerationService is the core contract consumed by the HTTP layer.
//
// Generate runs the full pipeline synchronously and never fails once the
// tool providers are connected: stage failures degrade to fallback values.
// Submit starts the same pipeline on its own goroutine and returns a task
// id for polling.
type GenerationService interface {
	Generate(ctx context.Context, requirements string) (*entity.ArchitectureResult, error)
	Submit(requirements string) (string, error)
	Task(id string) (*entity.GenerationTask, error)
	Ready() bool
}
