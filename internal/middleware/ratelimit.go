package middleware

import (
	"net/http"

	"TrendLens/internal/service/ratelimit"

	"github.com/labstack/echo/v4"
)

// RateLimit throttles API calls per client IP with a token bucket. Chart
// requests fan out to the upstream data provider, so runaway clients are
// rejected here before they translate into provider traffic.
func RateLimit(capacity, refillPerSec float64) echo.MiddlewareFunc {
	limiter := ratelimit.New()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow(c.RealIP(), capacity, refillPerSec) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error":   "Too many requests",
					"message": "request rate limit exceeded, slow down",
				})
			}
			return next(c)
		}
	}
}
