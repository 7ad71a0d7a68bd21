package api

import (
	"time"

	models "TrendLens/internal/domain/models"
	"TrendLens/internal/service/tasks"
	"TrendLens/internal/usecase"
	xhttp "TrendLens/pkg/http"
	xlogger "TrendLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AIHandler proxies AI workflow runs and exposes task tracking.
type AIHandler struct {
	logger *xlogger.Logger
	ai     *usecase.AIAnalysisUseCase
}

func NewAIHandler(lgr *xlogger.Logger, ai *usecase.AIAnalysisUseCase) *AIHandler {
	return &AIHandler{logger: lgr, ai: ai}
}

func (h *AIHandler) Register(g *echo.Group) {
	g.POST("/ai/dify-run", h.Run)
	g.POST("/ai/dify-async", h.RunAsync)
	g.GET("/ai/task/:id", h.TaskStatus)
	g.GET("/ai/tasks/status", h.TasksOverview)
	g.POST("/ai/task/:id/retry", h.Retry)
}

func (h *AIHandler) Run(c echo.Context) error {
	req := &models.DifyRunRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.ai.RunSync(c.Request().Context(), *req)
	if err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AIHandler) RunAsync(c echo.Context) error {
	req := &models.DifyAsyncRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	taskID, err := h.ai.StartAsync(c.Request().Context(), *req)
	if err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.SuccessResponse(c, map[string]string{
		"task_id": taskID,
		"status":  tasks.StatusPending,
	})
}

func (h *AIHandler) TaskStatus(c echo.Context) error {
	task, err := h.ai.Task(c.Param("id"))
	if err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.SuccessResponse(c, taskView(task))
}

func (h *AIHandler) TasksOverview(c echo.Context) error {
	all := h.ai.Tasks()

	stats := map[string]int{
		tasks.StatusPending:    0,
		tasks.StatusProcessing: 0,
		tasks.StatusCompleted:  0,
		tasks.StatusFailed:     0,
	}
	failed := make([]map[string]interface{}, 0)
	longRunning := make([]map[string]interface{}, 0)

	for _, t := range all {
		stats[t.Status]++
		v := taskView(t)
		if t.Status == tasks.StatusFailed {
			failed = append(failed, v)
		}
		running := v["running_time"].(float64)
		if (t.Status == tasks.StatusPending || t.Status == tasks.StatusProcessing) && running > 600 {
			longRunning = append(longRunning, v)
		}
	}
	stats["total"] = len(all)

	return xhttp.SuccessResponse(c, map[string]interface{}{
		"stats":              stats,
		"failed_tasks":       failed,
		"long_running_tasks": longRunning,
	})
}

func (h *AIHandler) Retry(c echo.Context) error {
	if err := h.ai.Retry(c.Request().Context(), c.Param("id")); err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.SuccessResponse(c, map[string]string{
		"task_id": c.Param("id"),
		"status":  tasks.StatusPending,
	})
}

func taskView(t *tasks.Task) map[string]interface{} {
	return map[string]interface{}{
		"task_id":       t.ID,
		"annotation_id": t.AnnotationID,
		"ticker":        t.Ticker,
		"date":          t.Date,
		"status":        t.Status,
		"progress":      t.Progress,
		"result":        t.Result,
		"error":         t.Error,
		"input_length":  t.InputLength,
		"duration":      t.Duration,
		"created_at":    t.CreatedAt,
		"updated_at":    t.UpdatedAt,
		"running_time":  t.RunningSeconds(time.Now()),
	}
}
