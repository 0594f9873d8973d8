package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
)

// Tokener yields the bearer token of the signed-in user.
type Tokener interface {
	Token(ctx context.Context) (string, error)
}

// RequireSession rejects requests made without a live session. The error is
// left to the HTTP error handler, which sends the caller to the login screen.
func RequireSession(session Tokener) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := session.Token(c.Request().Context()); err != nil {
				return err
			}
			return next(c)
		}
	}
}
