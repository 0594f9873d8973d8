package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/service"
)

// OrderHandler serves the order screen.
type OrderHandler struct {
	view *service.OrderView
	nav  Router
}

func NewOrderHandler(view *service.OrderView, nav Router) *OrderHandler {
	return &OrderHandler{view: view, nav: nav}
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// List mounts the screen and returns the filtered listing.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        search  query     string  false  "Status or product name filter"
// @Success      200     {object}  viewResponse
// @Failure      401     {object}  errorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	if err := h.view.Mount(c.Request().Context()); err != nil {
		return err
	}
	h.view.SetSearch(c.QueryParam("search"))
	return render(c, h.nav, h.view, h.view.State())
}

// Create places an order.
//
// @Summary      Create order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      service.OrderForm  true  "Order"
// @Success      200   {object}  viewResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var form service.OrderForm
	if err := bindJSON(c, &form); err != nil {
		return err
	}
	if err := h.view.Submit(c.Request().Context(), form); err != nil {
		return err
	}
	return render(c, h.nav, h.view, h.view.State())
}

// UpdateStatus replaces the status of order id.
//
// @Summary      Update order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "Order id"
// @Param        body  body      statusRequest  true  "New status"
// @Success      200   {object}  viewResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		return err
	}
	if err := h.view.UpdateStatus(c.Request().Context(), id, status); err != nil {
		return err
	}
	return render(c, h.nav, h.view, h.view.State())
}

// Advance moves order id to its next status.
//
// @Summary      Advance order
// @Tags         orders
// @Produce      json
// @Param        id  path      int  true  "Order id"
// @Success      200 {object}  viewResponse
// @Failure      404 {object}  errorResponse
// @Failure      422 {object}  errorResponse
// @Router       /api/orders/{id}/advance [post]
func (h *OrderHandler) Advance(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	err = h.view.Advance(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		if err := h.view.Refresh(ctx); err != nil {
			return err
		}
		err = h.view.Advance(ctx, id)
	}
	if err != nil {
		return err
	}
	return render(c, h.nav, h.view, h.view.State())
}

// Cancel deletes order id.
//
// @Summary      Cancel order
// @Tags         orders
// @Produce      json
// @Param        id  path      int  true  "Order id"
// @Success      200 {object}  viewResponse
// @Failure      502 {object}  errorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Cancel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.view.Cancel(c.Request().Context(), id); err != nil {
		return err
	}
	return render(c, h.nav, h.view, h.view.State())
}

// OpenForm opens the create form defaulted to today.
//
// @Summary      Open order form
// @Tags         orders
// @Produce      json
// @Success      200 {object}  viewResponse
// @Router       /api/orders/form [post]
func (h *OrderHandler) OpenForm(c echo.Context) error {
	h.view.OpenCreate()
	return render(c, h.nav, h.view, h.view.State())
}

// CloseForm discards the open form.
//
// @Summary      Close order form
// @Tags         orders
// @Produce      json
// @Success      200 {object}  viewResponse
// @Router       /api/orders/form [delete]
func (h *OrderHandler) CloseForm(c echo.Context) error {
	h.view.CloseForm()
	return render(c, h.nav, h.view, h.view.State())
}
