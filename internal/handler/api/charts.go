package api

import (
	models "TrendLens/internal/domain/models"
	"TrendLens/internal/usecase"
	xhttp "TrendLens/pkg/http"
	xlogger "TrendLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ChartsHandler serves the chart, analysis and trend endpoints.
type ChartsHandler struct {
	logger *xlogger.Logger
	charts *usecase.ChartDataUseCase
	trends *usecase.TrendAnalysisUseCase
}

func NewChartsHandler(lgr *xlogger.Logger, charts *usecase.ChartDataUseCase, trends *usecase.TrendAnalysisUseCase) *ChartsHandler {
	return &ChartsHandler{logger: lgr, charts: charts, trends: trends}
}

func (h *ChartsHandler) Register(g *echo.Group) {
	g.GET("/stock_data", h.StockData)
	g.GET("/stock_data/:ticker/:date", h.StockDataForDate)
	g.GET("/analysis_data", h.AnalysisData)
	g.GET("/trend-analysis", h.TrendAnalysis)
}

func (h *ChartsHandler) StockData(c echo.Context) error {
	req := &models.ChartDataRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.charts.GetChartData(c.Request().Context(), *req)
	if err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ChartsHandler) StockDataForDate(c echo.Context) error {
	ticker := c.Param("ticker")
	date := c.Param("date")
	if ticker == "" || date == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("ticker and date are required"))
	}

	res, err := h.charts.GetBarSnapshot(c.Request().Context(), ticker, date)
	if err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ChartsHandler) AnalysisData(c echo.Context) error {
	req := &models.ChartDataRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.charts.GetAnalysisData(c.Request().Context(), *req)
	if err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ChartsHandler) TrendAnalysis(c echo.Context) error {
	req := &models.TrendAnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.trends.Analyze(c.Request().Context(), *req)
	if err != nil {
		return errorResponse(c, h.logger, err)
	}
	return xhttp.SuccessResponse(c, res)
}
