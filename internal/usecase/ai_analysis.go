package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TrendLens/internal/domain/models"
	domrepo "TrendLens/internal/domain/repository"
	domservice "TrendLens/internal/domain/service"
	"TrendLens/internal/service/tasks"
	applogger "TrendLens/pkg/logger"
	"TrendLens/pkg/queue"
)

// AnalysisJobType routes async analysis payloads to their queue handler.
const AnalysisJobType = "ai_analysis_run"

// ErrTaskNotFound is returned for unknown or expired task ids.
var ErrTaskNotFound = errors.New("task not found")

// ErrTaskNotRetryable is returned when a retry targets a non-failed task.
var ErrTaskNotRetryable = errors.New("only failed tasks can be retried")

// AnalysisJobPayload is the queued request for one workflow run.
type AnalysisJobPayload struct {
	TaskID       string `json:"task_id"`
	AnnotationID string `json:"annotation_id"`
	Input        string `json:"input"`
	Ticker       string `json:"ticker"`
	Date         string `json:"date"`
	Mode         string `json:"mode"`
}

// AIAnalysisUseCase proxies AI workflow runs, synchronously or through the
// job queue with task tracking.
type AIAnalysisUseCase struct {
	workflow domservice.AIWorkflow
	tracker  *tasks.Tracker
	jobs     queue.QueueService
	metrics  domrepo.Metrics
	logger   *applogger.Logger
}

// NewAIAnalysisUseCase wires the AI proxy. A nil jobs queue degrades async
// runs to in-process goroutines.
func NewAIAnalysisUseCase(
	workflow domservice.AIWorkflow,
	tracker *tasks.Tracker,
	jobs queue.QueueService,
	m domrepo.Metrics,
	lgr *applogger.Logger,
) *AIAnalysisUseCase {
	return &AIAnalysisUseCase{
		workflow: workflow,
		tracker:  tracker,
		jobs:     jobs,
		metrics:  m,
		logger:   lgr,
	}
}

// RunSync executes the workflow in blocking mode and returns its outputs.
func (uc *AIAnalysisUseCase) RunSync(ctx context.Context, req models.DifyRunRequest) (*models.AIRunResult, error) {
	started := time.Now()
	outputs, err := uc.workflow.Run(ctx, req.Input, req.Mode)
	if err != nil {
		uc.metrics.RecordError("ai_workflow")
		return nil, err
	}

	duration := time.Since(started)
	uc.metrics.RecordLatency("ai_workflow", duration.Seconds())
	uc.logger.Info("ai workflow finished",
		applogger.String("ticker", req.Ticker),
		applogger.String("date", req.Date),
		applogger.Int("input_length", len(req.Input)),
		applogger.Duration("took", duration))

	return &models.AIRunResult{
		Data:        outputs,
		Duration:    duration.Seconds(),
		InputLength: len(req.Input),
	}, nil
}

// StartAsync registers a task and dispatches the workflow run to the queue.
func (uc *AIAnalysisUseCase) StartAsync(ctx context.Context, req models.DifyAsyncRequest) (string, error) {
	taskID := uc.tracker.Create(req.AnnotationID, req.Ticker, req.Date, req.Input, req.Mode)
	payload := AnalysisJobPayload{
		TaskID:       taskID,
		AnnotationID: req.AnnotationID,
		Input:        req.Input,
		Ticker:       req.Ticker,
		Date:         req.Date,
		Mode:         req.Mode,
	}
	if err := uc.dispatch(ctx, payload); err != nil {
		uc.tracker.Fail(taskID, err)
		return "", fmt.Errorf("dispatch analysis task: %w", err)
	}

	uc.logger.Info("ai analysis task started",
		applogger.String("task_id", taskID),
		applogger.String("annotation_id", req.AnnotationID),
		applogger.String("ticker", req.Ticker))
	return taskID, nil
}

// Task returns one tracked task.
func (uc *AIAnalysisUseCase) Task(id string) (*tasks.Task, error) {
	t, ok := uc.tracker.Get(id)
	if !ok {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

// Tasks returns all live tracked tasks.
func (uc *AIAnalysisUseCase) Tasks() []*tasks.Task {
	return uc.tracker.List()
}

// Retry re-dispatches a failed task with its original input.
func (uc *AIAnalysisUseCase) Retry(ctx context.Context, id string) error {
	t, ok := uc.tracker.Get(id)
	if !ok {
		return ErrTaskNotFound
	}
	if !uc.tracker.Reset(id) {
		return fmt.Errorf("%w: status %s", ErrTaskNotRetryable, t.Status)
	}

	payload := AnalysisJobPayload{
		TaskID:       id,
		AnnotationID: t.AnnotationID,
		Input:        t.Input,
		Ticker:       t.Ticker,
		Date:         t.Date,
		Mode:         t.Mode,
	}
	if err := uc.dispatch(ctx, payload); err != nil {
		uc.tracker.Fail(id, err)
		return fmt.Errorf("dispatch analysis retry: %w", err)
	}
	uc.logger.Info("ai analysis task retried", applogger.String("task_id", id))
	return nil
}

func (uc *AIAnalysisUseCase) dispatch(ctx context.Context, payload AnalysisJobPayload) error {
	if uc.jobs != nil {
		return uc.jobs.PublishMessage(ctx, AnalysisJobType, payload)
	}
	go uc.Process(context.Background(), payload)
	return nil
}

// Process runs one queued analysis and records the outcome on the tracker.
func (uc *AIAnalysisUseCase) Process(ctx context.Context, payload AnalysisJobPayload) {
	started := time.Now()
	uc.tracker.SetProcessing(payload.TaskID, "calling_ai_workflow")

	outputs, err := uc.workflow.Run(ctx, payload.Input, payload.Mode)
	if err != nil {
		uc.metrics.RecordError("ai_workflow")
		uc.tracker.Fail(payload.TaskID, err)
		uc.logger.Error("ai analysis task failed",
			applogger.String("task_id", payload.TaskID),
			applogger.Error(err))
		return
	}

	duration := time.Since(started)
	uc.metrics.RecordLatency("ai_workflow", duration.Seconds())
	uc.tracker.Complete(payload.TaskID, outputs, duration)
	uc.logger.Info("ai analysis task completed",
		applogger.String("task_id", payload.TaskID),
		applogger.String("annotation_id", payload.AnnotationID),
		applogger.Duration("took", duration))
}

// AnalysisJob adapts the use case to the queue's job interface.
type AnalysisJob struct {
	uc *AIAnalysisUseCase
}

func NewAnalysisJob(uc *AIAnalysisUseCase) *AnalysisJob {
	return &AnalysisJob{uc: uc}
}

func (j *AnalysisJob) Name() string { return "ai-analysis" }

func (j *AnalysisJob) Type() string { return AnalysisJobType }

func (j *AnalysisJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[AnalysisJobPayload](payload)
	if err != nil {
		return fmt.Errorf("parse analysis payload: %w", err)
	}
	j.uc.Process(ctx, *p)
	return nil
}
