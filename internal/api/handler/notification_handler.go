package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/ims-console/internal/core/service"
)

type dismisser interface {
	Name() string
	Dismiss() bool
}

// NotificationHandler closes a view's notification when the user clicks it.
type NotificationHandler struct {
	views map[string]dismisser
	nav   Router
}

func NewNotificationHandler(views *service.Views, nav Router) *NotificationHandler {
	h := &NotificationHandler{views: map[string]dismisser{}, nav: nav}
	for _, v := range []dismisser{
		views.Login, views.SignUp, views.Profile, views.EditProfile,
		views.Products, views.Orders, views.Suppliers, views.Reports,
	} {
		h.views[v.Name()] = v
	}
	return h
}

type dismissResponse struct {
	Dismissed bool   `json:"dismissed"`
	Route     string `json:"route"`
}

// Dismiss removes the notification of a view without waiting for it to
// fade. Navigation that follows the notification starts right away.
//
// @Summary      Dismiss notification
// @Tags         navigation
// @Produce      json
// @Param        view  path      string  true  "View name, e.g. login or products"
// @Success      200   {object}  dismissResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/notifications/{view} [delete]
func (h *NotificationHandler) Dismiss(c echo.Context) error {
	v, ok := h.views[c.Param("view")]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown view")
	}
	dismissed := v.Dismiss()
	return c.JSON(http.StatusOK, dismissResponse{Dismissed: dismissed, Route: h.nav.Route()})
}
