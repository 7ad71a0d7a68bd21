package tasks

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status values follow the task lifecycle.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// maxAge is how long finished and stale tasks stay queryable.
const maxAge = 24 * time.Hour

// Task is a tracked AI analysis run. Input is kept so failed tasks can be
// re-run, but never serialized into status payloads.
type Task struct {
	ID           string                 `json:"task_id"`
	AnnotationID string                 `json:"annotation_id"`
	Ticker       string                 `json:"ticker"`
	Date         string                 `json:"date"`
	Input        string                 `json:"-"`
	Mode         string                 `json:"mode,omitempty"`
	Status       string                 `json:"status"`
	Progress     string                 `json:"progress,omitempty"`
	Result       map[string]interface{} `json:"result,omitempty"`
	Error        string                 `json:"error,omitempty"`
	InputLength  int                    `json:"input_length"`
	Duration     float64                `json:"duration,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// RunningSeconds reports how long the task has existed.
func (t *Task) RunningSeconds(now time.Time) float64 {
	return now.Sub(t.CreatedAt).Seconds()
}

// Tracker keeps AI task state in memory, safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	tasks map[string]*Task
}

// NewTracker creates an empty task tracker.
func NewTracker() *Tracker {
	return &Tracker{tasks: make(map[string]*Task)}
}

// Create registers a new pending task and returns its id.
func (tr *Tracker) Create(annotationID, ticker, date, input, mode string) string {
	id := uuid.NewString()
	now := time.Now()

	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.tasks[id] = &Task{
		ID:           id,
		AnnotationID: annotationID,
		Ticker:       ticker,
		Date:         date,
		Input:        input,
		Mode:         mode,
		Status:       StatusPending,
		InputLength:  len(input),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return id
}

// Reset returns a failed task to pending so it can be re-run. It reports
// false when the task does not exist or is not in a failed state.
func (tr *Tracker) Reset(id string) bool {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	t, ok := tr.tasks[id]
	if !ok || t.Status != StatusFailed {
		return false
	}
	t.Status = StatusPending
	t.Progress = ""
	t.Error = ""
	t.Result = nil
	t.Duration = 0
	t.UpdatedAt = time.Now()
	return true
}

// Get returns a copy of the task, cleaning expired entries first.
func (tr *Tracker) Get(id string) (*Task, bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.cleanupLocked()

	t, ok := tr.tasks[id]
	if !ok {
		return nil, false
	}
	cp := *t
	return &cp, true
}

// List returns copies of all live tasks.
func (tr *Tracker) List() []*Task {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.cleanupLocked()

	out := make([]*Task, 0, len(tr.tasks))
	for _, t := range tr.tasks {
		cp := *t
		out = append(out, &cp)
	}
	return out
}

// SetProcessing marks the task as running with a progress marker.
func (tr *Tracker) SetProcessing(id, progress string) {
	tr.update(id, func(t *Task) {
		t.Status = StatusProcessing
		t.Progress = progress
	})
}

// Complete records a successful result.
func (tr *Tracker) Complete(id string, result map[string]interface{}, duration time.Duration) {
	tr.update(id, func(t *Task) {
		t.Status = StatusCompleted
		t.Progress = "completed"
		t.Result = result
		t.Duration = duration.Seconds()
	})
}

// Fail records a failed run.
func (tr *Tracker) Fail(id string, err error) {
	tr.update(id, func(t *Task) {
		t.Status = StatusFailed
		t.Progress = "failed"
		if err != nil {
			t.Error = err.Error()
		}
	})
}

func (tr *Tracker) update(id string, fn func(*Task)) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if t, ok := tr.tasks[id]; ok {
		fn(t)
		t.UpdatedAt = time.Now()
	}
}

func (tr *Tracker) cleanupLocked() {
	cutoff := time.Now().Add(-maxAge)
	for id, t := range tr.tasks {
		if t.CreatedAt.Before(cutoff) {
			delete(tr.tasks, id)
		}
	}
}
