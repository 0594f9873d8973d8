package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/infrastructure/gateway"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Sends unauthenticated callers to the login screen.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "authentication required", Redirect: domain.RouteLogin}
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, errorResponse{Error: "session expired", Redirect: domain.RouteLogin}
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, errorResponse{Error: domain.MessageOf(err, err.Error())}
	case errors.Is(err, domain.ErrInvalidSession):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrViewClosed):
		return http.StatusGone, errorResponse{Error: err.Error()}
	}

	var gerr *gateway.Error
	if errors.As(err, &gerr) {
		if gerr.Status == http.StatusUnauthorized {
			return http.StatusUnauthorized, errorResponse{Error: gerr.Message, Redirect: domain.RouteLogin}
		}
		return http.StatusBadGateway, errorResponse{Error: gerr.Message}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
