package handler

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/service"
)

// SupplierHandler serves the supplier screen.
type SupplierHandler struct {
	view *service.SupplierView
	nav  Router
}

func NewSupplierHandler(view *service.SupplierView, nav Router) *SupplierHandler {
	return &SupplierHandler{view: view, nav: nav}
}

// List mounts the screen and returns the filtered listing.
//
// @Summary      List suppliers
// @Tags         suppliers
// @Produce      json
// @Param        search  query     string  false  "Name or supplied product filter"
// @Success      200     {object}  viewResponse
// @Failure      401     {object}  errorResponse
// @Router       /api/suppliers [get]
func (h *SupplierHandler) List(c echo.Context) error {
	if err := h.view.Mount(c.Request().Context()); err != nil {
		return err
	}
	h.view.SetSearch(c.QueryParam("search"))
	return render(c, h.nav, h.view, h.view.State())
}

// Create adds a supplier.
//
// @Summary      Create supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        body  body      service.SupplierForm  true  "Supplier"
// @Success      200   {object}  viewResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/suppliers [post]
func (h *SupplierHandler) Create(c echo.Context) error {
	var form service.SupplierForm
	if err := bindJSON(c, &form); err != nil {
		return err
	}
	h.view.OpenCreate()
	if err := h.view.Submit(c.Request().Context(), form); err != nil {
		return err
	}
	return render(c, h.nav, h.view, h.view.State())
}

// Update replaces supplier id.
//
// @Summary      Update supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id    path      int                   true  "Supplier id"
// @Param        body  body      service.SupplierForm  true  "Supplier"
// @Success      200   {object}  viewResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/suppliers/{id} [put]
func (h *SupplierHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form service.SupplierForm
	if err := bindJSON(c, &form); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.open(ctx, id); err != nil {
		return err
	}
	if err := h.view.Submit(ctx, form); err != nil {
		return err
	}
	return render(c, h.nav, h.view, h.view.State())
}

// Delete removes supplier id.
//
// @Summary      Delete supplier
// @Tags         suppliers
// @Produce      json
// @Param        id  path      int  true  "Supplier id"
// @Success      200 {object}  viewResponse
// @Router       /api/suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.view.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return render(c, h.nav, h.view, h.view.State())
}

// OpenForm opens the create form, or the edit form when id is given.
//
// @Summary      Open supplier form
// @Tags         suppliers
// @Produce      json
// @Param        id  query     int  false  "Supplier to edit"
// @Success      200 {object}  viewResponse
// @Failure      404 {object}  errorResponse
// @Router       /api/suppliers/form [post]
func (h *SupplierHandler) OpenForm(c echo.Context) error {
	raw := c.QueryParam("id")
	if raw == "" {
		h.view.OpenCreate()
		return render(c, h.nav, h.view, h.view.State())
	}
	id, err := parseID(raw)
	if err != nil {
		return err
	}
	if err := h.open(c.Request().Context(), id); err != nil {
		return err
	}
	return render(c, h.nav, h.view, h.view.State())
}

// CloseForm discards the open form.
//
// @Summary      Close supplier form
// @Tags         suppliers
// @Produce      json
// @Success      200 {object}  viewResponse
// @Router       /api/suppliers/form [delete]
func (h *SupplierHandler) CloseForm(c echo.Context) error {
	h.view.CloseForm()
	return render(c, h.nav, h.view, h.view.State())
}

// open starts editing id, loading the listing first when it is not known yet.
func (h *SupplierHandler) open(ctx context.Context, id int64) error {
	err := h.view.OpenEdit(id)
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if err := h.view.Refresh(ctx); err != nil {
		return err
	}
	return h.view.OpenEdit(id)
}
