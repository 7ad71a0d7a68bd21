package api

import (
	"errors"

	domrepo "TrendLens/internal/domain/repository"
	"TrendLens/internal/service/dify"
	"TrendLens/internal/usecase"
	xhttp "TrendLens/pkg/http"
	xlogger "TrendLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// errorResponse maps use case errors onto HTTP statuses.
func errorResponse(c echo.Context, lgr *xlogger.Logger, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidTicker),
		errors.Is(err, usecase.ErrTaskNotRetryable):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	case errors.Is(err, usecase.ErrNoData),
		errors.Is(err, usecase.ErrTaskNotFound),
		errors.Is(err, domrepo.ErrAnnotationNotFound):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
	case errors.Is(err, dify.ErrNotConfigured):
		lgr.Error("ai workflow not configured", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("AI workflow is not configured"))
	default:
		lgr.Error("request failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
}
