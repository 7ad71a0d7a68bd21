package api

import (
	"net/url"

	models "TrendLens/internal/domain/models"
	"TrendLens/internal/usecase"
	xhttp "TrendLens/pkg/http"
	xlogger "TrendLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnnotationsHandler serves annotation CRUD, favorites, the recycle bin and
// exports.
type AnnotationsHandler struct {
	logger *xlogger.Logger
	ann    *usecase.AnnotationUseCase
}

func NewAnnotationsHandler(lgr *xlogger.Logger, ann *usecase.AnnotationUseCase) *AnnotationsHandler {
	return &AnnotationsHandler{logger: lgr, ann: ann}
}

func (h *AnnotationsHandler) Register(g *echo.Group) {
	g.POST("/annotation", h.Create)
	g.PUT("/annotation/:id", h.Update)
	g.DELETE("/annotation/:id", h.Delete)
	g.PUT("/annotation/:id/ai-analysis", h.ApplyAIAnalysis)

	g.GET("/annotations/:ticker", h.List)
	g.GET("/annotations/export", h.Export)
	g.POST("/annotations/favorite/:id", h.Favorite)
	g.DELETE("/annotations/favorite/:id", h.Unfavorite)

	g.GET("/recycle/annotations", h.ListDeleted)
	g.POST("/recycle/restore/:id", h.Restore)
	g.DELETE("/recycle/permanent-delete/:id", h.PermanentDelete)
}

func (h *AnnotationsHandler) Create(c echo.Context) error {
	req := &models.CreateAnnotationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	a, err := h.ann.Create(c.Request().Context(), *req)
	if err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.CreatedResponse(c, a)
}

func (h *AnnotationsHandler) Update(c echo.Context) error {
	id, err := annotationID(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid annotation id"))
	}
	req := &models.UpdateAnnotationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.ann.UpdateText(c.Request().Context(), id, req.Text); err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.SuccessResponse(c, map[string]string{"id": id})
}

func (h *AnnotationsHandler) Delete(c echo.Context) error {
	id, err := annotationID(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid annotation id"))
	}
	if err := h.ann.Delete(c.Request().Context(), id); err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *AnnotationsHandler) ApplyAIAnalysis(c echo.Context) error {
	id, err := annotationID(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid annotation id"))
	}
	req := &models.UpdateAIAnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	a, err := h.ann.ApplyAIAnalysis(c.Request().Context(), id, req.AIAnalysis)
	if err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.SuccessResponse(c, a)
}

func (h *AnnotationsHandler) List(c echo.Context) error {
	rows, err := h.ann.List(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.SuccessResponse(c, rows)
}

func (h *AnnotationsHandler) Export(c echo.Context) error {
	req := &models.ExportAnnotationsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.ann.Export(c.Request().Context(), *req)
	if err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnnotationsHandler) Favorite(c echo.Context) error {
	return h.setFavorite(c, true)
}

func (h *AnnotationsHandler) Unfavorite(c echo.Context) error {
	return h.setFavorite(c, false)
}

func (h *AnnotationsHandler) setFavorite(c echo.Context, favorite bool) error {
	id, err := annotationID(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid annotation id"))
	}
	if err := h.ann.SetFavorite(c.Request().Context(), id, favorite); err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{"id": id, "is_favorite": favorite})
}

func (h *AnnotationsHandler) ListDeleted(c echo.Context) error {
	ticker := c.QueryParam("ticker")
	if ticker == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("ticker is required"))
	}
	rows, err := h.ann.ListDeleted(c.Request().Context(), ticker)
	if err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.SuccessResponse(c, rows)
}

func (h *AnnotationsHandler) Restore(c echo.Context) error {
	id, err := annotationID(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid annotation id"))
	}
	if err := h.ann.Restore(c.Request().Context(), id); err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.SuccessResponse(c, map[string]string{"id": id})
}

func (h *AnnotationsHandler) PermanentDelete(c echo.Context) error {
	id, err := annotationID(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid annotation id"))
	}
	if err := h.ann.PermanentDelete(c.Request().Context(), id); err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.NoContentResponse(c)
}

// annotationID decodes the path parameter; ids may contain url-encoded
// characters when generated client-side.
func annotationID(c echo.Context) (string, error) {
	id, err := url.PathUnescape(c.Param("id"))
	if err != nil || id == "" {
		if err == nil {
			err = echo.ErrBadRequest
		}
		return "", err
	}
	return id, nil
}
