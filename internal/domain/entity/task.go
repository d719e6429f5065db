package entity

import "time"

type TaskStatus string

const (
	TaskStatusStarted            TaskStatus = "started"
	TaskStatusGeneratingCF       TaskStatus = "generating_cf"
	TaskStatusGeneratingDiagram  TaskStatus = "generating_diagram"
	TaskStatusCalculatingPricing TaskStatus = "calculating_pricing"
	TaskStatusCompleted          TaskStatus = "completed"
	TaskStatusFailed             TaskStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// GenerationTask is the pollable record tracking one asynchronous
// generation request. Mutated only by the goroutine running the pipeline;
// pollers receive copies.
type GenerationTask struct {
	ID           string              `json:"id"`
	Requirements string              `json:"requirements"`
	Status       TaskStatus          `json:"status"`
	Progress     int                 `json:"progress"`
	Result       *ArchitectureResult `json:"result,omitempty"`
	Error        string              `json:"error,omitempty"`
	StartedAt    time.Time           `json:"startedAt"`
	CompletedAt  *time.Time          `json:"completedAt,omitempty"`
}
