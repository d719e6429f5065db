package service

import (
	"errors"
	"sync"
	"testing"

	"arch-agent/internal/domain/entity"
)

func TestTaskTracker_CreateAndGet(t *testing.T) {
	tracker := NewTaskTracker()

	task := tracker.Create("3-tier web app")
	if task.ID == "" {
		t.Fatal("expected a generated id")
	}
	if task.Status != entity.TaskStatusStarted || task.Progress != 0 {
		t.Errorf("new task should be started/0, got %s/%d", task.Status, task.Progress)
	}

	got, err := tracker.Get(task.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != task.ID {
		t.Errorf("got id %s, want %s", got.ID, task.ID)
	}
}

func TestTaskTracker_UnknownID(t *testing.T) {
	tracker := NewTaskTracker()

	_, err := tracker.Get("never-issued")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskTracker_ProgressIsMonotonic(t *testing.T) {
	tracker := NewTaskTracker()
	task := tracker.Create("req")

	tracker.SetProgress(task.ID, entity.TaskStatusGeneratingDiagram, 45)
	tracker.SetProgress(task.ID, entity.TaskStatusGeneratingCF, 10)

	got, _ := tracker.Get(task.ID)
	if got.Progress != 45 {
		t.Errorf("progress regressed to %d", got.Progress)
	}
}

func TestTaskTracker_TerminalStateIsImmutable(t *testing.T) {
	tracker := NewTaskTracker()
	task := tracker.Create("req")

	result := &entity.ArchitectureResult{Template: "tpl", DiagramURL: "/diagram/sample.png"}
	tracker.Complete(task.ID, result)

	tracker.SetProgress(task.ID, entity.TaskStatusGeneratingCF, 10)
	tracker.Fail(task.ID, errors.New("late failure"))

	got, _ := tracker.Get(task.ID)
	if got.Status != entity.TaskStatusCompleted {
		t.Errorf("terminal status changed to %s", got.Status)
	}
	if got.Progress != 100 {
		t.Errorf("terminal progress changed to %d", got.Progress)
	}
	if got.Error != "" {
		t.Errorf("completed task gained an error: %q", got.Error)
	}
	if got.CompletedAt == nil {
		t.Error("completedAt not set on terminal transition")
	}
}

func TestTaskTracker_FailSetsErrorAndZeroProgress(t *testing.T) {
	tracker := NewTaskTracker()
	task := tracker.Create("req")

	tracker.SetProgress(task.ID, entity.TaskStatusGeneratingCF, 10)
	tracker.Fail(task.ID, errors.New("tool servers unreachable"))

	got, _ := tracker.Get(task.ID)
	if got.Status != entity.TaskStatusFailed {
		t.Errorf("status = %s, want failed", got.Status)
	}
	if got.Progress != 0 {
		t.Errorf("failed task progress = %d, want 0", got.Progress)
	}
	if got.Error == "" {
		t.Error("failed task must carry an error message")
	}
	if got.Result != nil {
		t.Error("failed task must not carry a result")
	}
}

func TestTaskTracker_PollersReceiveCopies(t *testing.T) {
	tracker := NewTaskTracker()
	task := tracker.Create("req")

	got, _ := tracker.Get(task.ID)
	got.Progress = 99
	got.Status = entity.TaskStatusFailed

	again, _ := tracker.Get(task.ID)
	if again.Progress != 0 || again.Status != entity.TaskStatusStarted {
		t.Error("mutating a polled snapshot leaked into the tracker")
	}
}

func TestTaskTracker_ConcurrentAccess(t *testing.T) {
	tracker := NewTaskTracker()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task := tracker.Create("req")
			tracker.SetProgress(task.ID, entity.TaskStatusGeneratingCF, 10)
			tracker.Complete(task.ID, &entity.ArchitectureResult{})
			if _, err := tracker.Get(task.ID); err != nil {
				t.Errorf("Get failed: %v", err)
			}
		}()
	}
	wg.Wait()
}
