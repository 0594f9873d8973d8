package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/ims-console/internal/core/domain"
)

// Router reports the route the console is currently on.
type Router interface {
	Route() string
}

// notifying is satisfied by every view controller.
type notifying interface {
	Notification() (domain.Notification, bool)
}

// viewResponse is the envelope returned by every view action.
type viewResponse struct {
	State        any                  `json:"state,omitempty"`
	Notification *domain.Notification `json:"notification,omitempty"`
	Route        string               `json:"route"`
}

func render(c echo.Context, nav Router, v notifying, state any) error {
	resp := viewResponse{State: state, Route: nav.Route()}
	if n, ok := v.Notification(); ok {
		resp.Notification = &n
	}
	return c.JSON(http.StatusOK, resp)
}

func bindJSON(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return nil
}

func pathID(c echo.Context) (int64, error) {
	return parseID(c.Param("id"))
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
