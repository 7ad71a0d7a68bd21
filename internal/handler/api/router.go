package api

import (
	"net/http"

	appmw "TrendLens/internal/middleware"
	xlogger "TrendLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Router bundles all API handlers behind the token-guarded /api group.
type Router struct {
	logger      *xlogger.Logger
	charts      *ChartsHandler
	annotations *AnnotationsHandler
	ai          *AIHandler
	apiToken    string
}

func NewRouter(lgr *xlogger.Logger, charts *ChartsHandler, annotations *AnnotationsHandler, ai *AIHandler, apiToken string) *Router {
	return &Router{
		logger:      lgr,
		charts:      charts,
		annotations: annotations,
		ai:          ai,
		apiToken:    apiToken,
	}
}

// RegisterRoutes implements the HTTP handler registration interface.
func (r *Router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	g := e.Group("/api", appmw.RateLimit(30, 10), appmw.APITokenAuth(r.apiToken))
	r.charts.Register(g)
	r.annotations.Register(g)
	r.ai.Register(g)
}
