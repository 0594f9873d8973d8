package handler

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/service"
)

// ProductHandler serves the product screen.
type ProductHandler struct {
	view *service.ProductView
	nav  Router
}

func NewProductHandler(view *service.ProductView, nav Router) *ProductHandler {
	return &ProductHandler{view: view, nav: nav}
}

// List mounts the screen and returns the filtered listing.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        search  query     string  false  "Name or description filter"
// @Success      200     {object}  viewResponse
// @Failure      401     {object}  errorResponse
// @Failure      502     {object}  errorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	if err := h.view.Mount(c.Request().Context()); err != nil {
		return err
	}
	h.view.SetSearch(c.QueryParam("search"))
	return render(c, h.nav, h.view, h.view.State())
}

// Create adds a product.
//
// @Summary      Create product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body      service.ProductForm  true  "Product"
// @Success      200   {object}  viewResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var form service.ProductForm
	if err := bindJSON(c, &form); err != nil {
		return err
	}
	h.view.OpenCreate()
	if err := h.view.Submit(c.Request().Context(), form); err != nil {
		return err
	}
	return render(c, h.nav, h.view, h.view.State())
}

// Update replaces product id.
//
// @Summary      Update product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Product id"
// @Param        body  body      service.ProductForm  true  "Product"
// @Success      200   {object}  viewResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form service.ProductForm
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

// Delete removes product id and its stock record.
//
// @Summary      Delete product
// @Tags         products
// @Produce      json
// @Param        id  path      int  true  "Product id"
// @Success      200 {object}  viewResponse
// @Failure      502 {object}  errorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
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
// @Summary      Open product form
// @Tags         products
// @Produce      json
// @Param        id  query     int  false  "Product to edit"
// @Success      200 {object}  viewResponse
// @Failure      404 {object}  errorResponse
// @Router       /api/products/form [post]
func (h *ProductHandler) OpenForm(c echo.Context) error {
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
// @Summary      Close product form
// @Tags         products
// @Produce      json
// @Success      200 {object}  viewResponse
// @Router       /api/products/form [delete]
func (h *ProductHandler) CloseForm(c echo.Context) error {
	h.view.CloseForm()
	return render(c, h.nav, h.view, h.view.State())
}

// Describe opens the description modal of product id.
//
// @Summary      Show product description
// @Tags         products
// @Produce      json
// @Param        id  path      int  true  "Product id"
// @Success      200 {object}  viewResponse
// @Failure      404 {object}  errorResponse
// @Router       /api/products/{id}/description [get]
func (h *ProductHandler) Describe(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.view.ShowDescription(id); err != nil {
		return err
	}
	return render(c, h.nav, h.view, h.view.State())
}

// HideDescription closes the description modal.
//
// @Summary      Hide product description
// @Tags         products
// @Produce      json
// @Success      200 {object}  viewResponse
// @Router       /api/products/description [delete]
func (h *ProductHandler) HideDescription(c echo.Context) error {
	h.view.HideDescription()
	return render(c, h.nav, h.view, h.view.State())
}

// open starts editing id, loading the listing first when it is not known yet.
func (h *ProductHandler) open(ctx context.Context, id int64) error {
	err := h.view.OpenEdit(id)
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if err := h.view.Refresh(ctx); err != nil {
		return err
	}
	return h.view.OpenEdit(id)
}
