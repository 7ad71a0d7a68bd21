package tasks

import (
	"errors"
	"testing"
	"time"
)

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker()
	id := tr.Create("ann-1", "AAPL", "2024-01-05", "price spike on heavy volume", "pro")
	if id == "" {
		t.Fatalf("expected a task id")
	}

	task, ok := tr.Get(id)
	if !ok {
		t.Fatalf("task not found")
	}
	if task.Status != StatusPending || task.Ticker != "AAPL" || task.InputLength != len("price spike on heavy volume") {
		t.Fatalf("unexpected task: %+v", task)
	}

	tr.SetProcessing(id, "calling_workflow")
	task, _ = tr.Get(id)
	if task.Status != StatusProcessing || task.Progress != "calling_workflow" {
		t.Fatalf("unexpected processing state: %+v", task)
	}

	tr.Complete(id, map[string]interface{}{"text": "analysis"}, 3*time.Second)
	task, _ = tr.Get(id)
	if task.Status != StatusCompleted || task.Result["text"] != "analysis" {
		t.Fatalf("unexpected completed state: %+v", task)
	}
	if task.Duration != 3 {
		t.Fatalf("expected duration 3s, got %v", task.Duration)
	}
}

func TestTrackerFail(t *testing.T) {
	tr := NewTracker()
	id := tr.Create("ann-2", "MSFT", "2024-01-06", "gap down", "pro")
	tr.Fail(id, errors.New("workflow timeout"))

	task, _ := tr.Get(id)
	if task.Status != StatusFailed || task.Error != "workflow timeout" {
		t.Fatalf("unexpected failed state: %+v", task)
	}
}

func TestTrackerExpiry(t *testing.T) {
	tr := NewTracker()
	id := tr.Create("ann-3", "GOOG", "2024-01-07", "input", "fast")

	tr.mu.Lock()
	tr.tasks[id].CreatedAt = time.Now().Add(-25 * time.Hour)
	tr.mu.Unlock()

	if _, ok := tr.Get(id); ok {
		t.Fatalf("expected expired task to be cleaned up")
	}
}

func TestTrackerGetReturnsCopy(t *testing.T) {
	tr := NewTracker()
	id := tr.Create("ann-4", "TSLA", "2024-01-08", "x", "pro")

	task, _ := tr.Get(id)
	task.Status = "mutated"

	fresh, _ := tr.Get(id)
	if fresh.Status != StatusPending {
		t.Fatalf("internal state leaked: %+v", fresh)
	}
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker()
	id := tr.Create("ann-5", "NVDA", "2024-01-09", "volume surge", "pro")

	if tr.Reset(id) {
		t.Fatalf("reset must be rejected for a pending task")
	}

	tr.Fail(id, errors.New("gateway timeout"))
	if !tr.Reset(id) {
		t.Fatalf("expected reset of a failed task to succeed")
	}

	task, _ := tr.Get(id)
	if task.Status != StatusPending || task.Error != "" || task.Input != "volume surge" {
		t.Fatalf("unexpected state after reset: %+v", task)
	}
}
