package service

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"arch-agent/internal/domain/entity"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskTracker is the process-wide map from task id to generation progress.
// Records accumulate for the process lifetime; there is no eviction and no
// persistence. Each record is mutated only by the goroutine running its
// pipeline; pollers always receive copies.
type TaskTracker struct {
	mu    sync.RWMutex
	tasks map[string]*entity.GenerationTask
}

func NewTaskTracker() *TaskTracker {
	return &TaskTracker{
		tasks: make(map[string]*entity.GenerationTask),
	}
}

func (t *TaskTracker) Create(requirements string) *entity.GenerationTask {
	task := &entity.GenerationTask{
		ID:           uuid.NewString(),
		Requirements: requirements,
		Status:       entity.TaskStatusStarted,
		Progress:     0,
		StartedAt:    time.Now().UTC(),
	}

	t.mu.Lock()
	t.tasks[task.ID] = task
	t.mu.Unlock()

	snapshot := *task
	return &snapshot
}

func (t *TaskTracker) Get(id string) (*entity.GenerationTask, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	task, ok := t.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	snapshot := *task
	return &snapshot, nil
}

// SetProgress advances a task's status and progress. Progress never
// decreases and terminal tasks are never modified.
func (t *TaskTracker) SetProgress(id string, status entity.TaskStatus, progress int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[id]
	if !ok || task.Status.Terminal() {
		return
	}
	task.Status = status
	if progress > task.Progress {
		task.Progress = progress
	}
}

func (t *TaskTracker) Complete(id string, result *entity.ArchitectureResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[id]
	if !ok || task.Status.Terminal() {
		return
	}
	now := time.Now().UTC()
	task.Status = entity.TaskStatusCompleted
	task.Progress = 100
	task.Result = result
	task.CompletedAt = &now
}

func (t *TaskTracker) Fail(id string, cause error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[id]
	if !ok || task.Status.Terminal() {
		return
	}
	now := time.Now().UTC()
	task.Status = entity.TaskStatusFailed
	task.Progress = 0
	task.Error = cause.Error()
	task.CompletedAt = &now
}
