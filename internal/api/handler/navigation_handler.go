package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const maxNavigationWait = 30 * time.Second

// Navigator is the console's navigation state.
type Navigator interface {
	Router
	Next() <-chan string
}

// NavigationHandler lets the page follow navigation triggered by dismissed
// notifications.
type NavigationHandler struct {
	nav Navigator
}

func NewNavigationHandler(nav Navigator) *NavigationHandler {
	return &NavigationHandler{nav: nav}
}

type routeResponse struct {
	Route   string `json:"route"`
	Changed bool   `json:"changed"`
}

// Current returns the current route.
//
// @Summary      Current route
// @Tags         navigation
// @Produce      json
// @Success      200  {object}  routeResponse
// @Router       /api/navigation [get]
func (h *NavigationHandler) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, routeResponse{Route: h.nav.Route()})
}

// Wait blocks until the next navigation or the wait times out.
//
// @Summary      Wait for navigation
// @Tags         navigation
// @Produce      json
// @Param        timeout  query     string  false  "Go duration, at most 30s"
// @Success      200      {object}  routeResponse
// @Router       /api/navigation/next [get]
func (h *NavigationHandler) Wait(c echo.Context) error {
	wait := maxNavigationWait
	if raw := c.QueryParam("timeout"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid timeout")
		}
		wait = min(d, maxNavigationWait)
	}

	next := h.nav.Next()
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case route := <-next:
		return c.JSON(http.StatusOK, routeResponse{Route: route, Changed: true})
	case <-timer.C:
		return c.JSON(http.StatusOK, routeResponse{Route: h.nav.Route()})
	case <-c.Request().Context().Done():
		return c.Request().Context().Err()
	}
}
