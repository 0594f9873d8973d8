package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/ims-console/internal/infrastructure/gateway"
)

// RequestContext forwards the console request id to every backend call made
// while serving the request. It must run after echo's RequestID middleware.
func RequestContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id == "" {
				id = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			if id != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(gateway.WithRequestID(req.Context(), id)))
			}
			return next(c)
		}
	}
}
