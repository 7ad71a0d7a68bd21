package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// APITokenAuth guards the API group with a shared token, accepted either as
// an X-API-Token header or a bearer token. An empty configured token
// disables the check, matching local development setups.
func APITokenAuth(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token == "" {
				return next(c)
			}

			provided := c.Request().Header.Get("X-API-Token")
			if provided == "" {
				auth := c.Request().Header.Get(echo.HeaderAuthorization)
				if strings.HasPrefix(auth, "Bearer ") {
					provided = strings.TrimPrefix(auth, "Bearer ")
				}
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) == 1 {
				return next(c)
			}

			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error":   "Authentication required",
				"message": "provide the API token via X-API-Token or a bearer token",
			})
		}
	}
}
