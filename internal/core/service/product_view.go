package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
)

const productFieldsRequired = "Please fill in all required product fields (Name, Price, Image URL)."

// ProductForm holds the raw product form inputs.
type ProductForm struct {
	Name                 string `json:"name"`
	Description          string `json:"description"`
	Price                string `json:"price"`
	ImageURL             string `json:"imageUrl"`
	InitialStockQuantity string `json:"initialStockQuantity"`
	ReorderLevel         string `json:"reorderLevel"`
}

func (f ProductForm) input() (domain.ProductInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.ImageURL) == "" || err != nil || !price.IsPositive() {
		return domain.ProductInput{}, domain.Invalid(productFieldsRequired)
	}
	stock, err := optionalCount("Initial stock quantity", f.InitialStockQuantity)
	if err != nil {
		return domain.ProductInput{}, err
	}
	reorder, err := optionalCount("Reorder level", f.ReorderLevel)
	if err != nil {
		return domain.ProductInput{}, err
	}
	return domain.ProductInput{
		Name:                 strings.TrimSpace(f.Name),
		Description:          strings.TrimSpace(f.Description),
		Price:                price,
		ImageURL:             strings.TrimSpace(f.ImageURL),
		InitialStockQuantity: stock,
		ReorderLevel:         reorder,
	}, nil
}

func optionalCount(label, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, domain.Invalid("%s must be a whole number of at least 0.", label)
	}
	return &n, nil
}

func productForm(p domain.Product) ProductForm {
	f := ProductForm{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		ImageURL:    p.ImageURL,
	}
	if p.Stock != nil {
		f.InitialStockQuantity = strconv.Itoa(p.Stock.Quantity)
		f.ReorderLevel = strconv.Itoa(p.Stock.ReorderLevel)
	}
	return f
}

// ProductState is the renderable state of the product screen.
type ProductState struct {
	Products    []domain.Product `json:"products"`
	Total       int              `json:"total"`
	Search      string           `json:"search"`
	FormOpen    bool             `json:"formOpen"`
	EditingID   *int64           `json:"editingId,omitempty"`
	Form        ProductForm      `json:"form"`
	Description *domain.Product  `json:"description,omitempty"`
}

// ProductView lists and edits products.
type ProductView struct {
	*view
	gw ports.ProductGateway

	products    []domain.Product
	search      string
	formOpen    bool
	editing     *int64
	form        ProductForm
	description *domain.Product
}

func NewProductView(gw ports.ProductGateway, deps ViewDeps) *ProductView {
	return &ProductView{view: newView("products", deps), gw: gw}
}

// Mount requires a session and loads the listing.
func (v *ProductView) Mount(ctx context.Context) error {
	v.reopen()
	if _, err := v.authorize(ctx, "Please log in to view products."); err != nil {
		return err
	}
	return v.Refresh(ctx)
}

// Refresh reloads the listing.
func (v *ProductView) Refresh(ctx context.Context) error {
	tok, err := v.authorize(ctx, "Please log in to view products.")
	if err != nil {
		return err
	}
	list, err := v.gw.List(ctx, tok)
	if err != nil {
		return v.fail(err, "Failed to fetch products.")
	}
	return v.commit(func() { v.products = list })
}

// SetSearch filters the listing by name or description.
func (v *ProductView) SetSearch(term string) {
	v.mu.Lock()
	v.search = term
	v.mu.Unlock()
}

// Filtered returns products matching the search term.
func (v *ProductView) Filtered() []domain.Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filteredLocked()
}

func (v *ProductView) filteredLocked() []domain.Product {
	out := make([]domain.Product, 0, len(v.products))
	for _, p := range v.products {
		if matches(v.search, p.Name, p.Description) {
			out = append(out, p)
		}
	}
	return out
}

// OpenCreate shows an empty form.
func (v *ProductView) OpenCreate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.formOpen, v.editing, v.form = true, nil, ProductForm{}
}

// OpenEdit shows the form pre-filled with product id.
func (v *ProductView) OpenEdit(id int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, ok := v.findLocked(id)
	if !ok {
		return domain.ErrNotFound
	}
	v.formOpen, v.editing, v.form = true, &id, productForm(p)
	return nil
}

// CloseForm hides the form and drops its inputs.
func (v *ProductView) CloseForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.formOpen, v.editing, v.form = false, nil, ProductForm{}
}

// ShowDescription opens the description modal for product id.
func (v *ProductView) ShowDescription(id int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, ok := v.findLocked(id)
	if !ok {
		return domain.ErrNotFound
	}
	v.description = &p
	return nil
}

func (v *ProductView) HideDescription() {
	v.mu.Lock()
	v.description = nil
	v.mu.Unlock()
}

// Submit creates a product, or updates the one being edited, then reloads
// the listing.
func (v *ProductView) Submit(ctx context.Context, form ProductForm) error {
	v.mu.Lock()
	v.form = form
	editing := v.editing
	v.mu.Unlock()

	in, err := form.input()
	if err != nil {
		return v.fail(err, productFieldsRequired)
	}
	tok, err := v.authorize(ctx, "Please log in to manage products.")
	if err != nil {
		return err
	}

	msg := "Product added successfully!"
	if editing != nil {
		err = v.gw.Update(ctx, tok, *editing, in)
		msg = "Product updated successfully!"
	} else {
		err = v.gw.Create(ctx, tok, in)
	}
	if err != nil {
		return v.fail(err, "Failed to save product. Please try again.")
	}

	if err := v.commit(func() { v.formOpen, v.editing, v.form = false, nil, ProductForm{} }); err != nil {
		return err
	}
	v.show(msg, domain.KindSuccess)
	return v.Refresh(ctx)
}

// Delete removes product id and its stock record.
func (v *ProductView) Delete(ctx context.Context, id int64) error {
	tok, err := v.authorize(ctx, "Please log in to manage products.")
	if err != nil {
		return err
	}
	if err := v.gw.Delete(ctx, tok, id); err != nil {
		return v.fail(err, "Failed to delete product. Please try again.")
	}
	if err := v.commit(func() {
		kept := v.products[:0]
		for _, p := range v.products {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		v.products = kept
	}); err != nil {
		return err
	}
	v.show("Product and associated stock deleted successfully!", domain.KindSuccess)
	return nil
}

// State snapshots the screen.
func (v *ProductView) State() ProductState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ProductState{
		Products:    v.filteredLocked(),
		Total:       len(v.products),
		Search:      v.search,
		FormOpen:    v.formOpen,
		EditingID:   v.editing,
		Form:        v.form,
		Description: v.description,
	}
}

func (v *ProductView) findLocked(id int64) (domain.Product, bool) {
	for _, p := range v.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
