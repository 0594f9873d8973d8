package service

import (
	"context"
	"strings"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
	"github.com/99minutos/ims-console/internal/core/validation"
)

// SupplierForm holds the raw supplier form inputs. ProvidedProductIDs is a
// comma separated list.
type SupplierForm struct {
	Name               string `json:"name"`
	ContactInfo        string `json:"contactInfo"`
	ProvidedProductIDs string `json:"providedProductIds"`
}

func (f SupplierForm) input() (domain.SupplierInput, error) {
	in := domain.SupplierInput{
		Name:               strings.TrimSpace(f.Name),
		ContactInfo:        strings.TrimSpace(f.ContactInfo),
		ProvidedProductIDs: domain.ParseProductIDs(f.ProvidedProductIDs),
	}
	if err := validation.Struct(in); err != nil {
		return domain.SupplierInput{}, err
	}
	return in, nil
}

// SupplierState is the renderable state of the supplier screen.
type SupplierState struct {
	Suppliers []domain.Supplier `json:"suppliers"`
	Total     int               `json:"total"`
	Search    string            `json:"search"`
	FormOpen  bool              `json:"formOpen"`
	EditingID *int64            `json:"editingId,omitempty"`
	Form      SupplierForm      `json:"form"`
}

// SupplierView lists and edits suppliers.
type SupplierView struct {
	*view
	gw ports.SupplierGateway

	suppliers []domain.Supplier
	search    string
	formOpen  bool
	editing   *int64
	form      SupplierForm
}

func NewSupplierView(gw ports.SupplierGateway, deps ViewDeps) *SupplierView {
	return &SupplierView{view: newView("suppliers", deps), gw: gw}
}

func (v *SupplierView) Mount(ctx context.Context) error {
	v.reopen()
	if _, err := v.authorize(ctx, "Please log in to view suppliers."); err != nil {
		return err
	}
	return v.Refresh(ctx)
}

func (v *SupplierView) Refresh(ctx context.Context) error {
	tok, err := v.authorize(ctx, "Please log in to view suppliers.")
	if err != nil {
		return err
	}
	list, err := v.gw.List(ctx, tok)
	if err != nil {
		return v.fail(err, "Failed to fetch suppliers.")
	}
	return v.commit(func() { v.suppliers = list })
}

// SetSearch filters by supplier name or supplied product names.
func (v *SupplierView) SetSearch(term string) {
	v.mu.Lock()
	v.search = term
	v.mu.Unlock()
}

func (v *SupplierView) Filtered() []domain.Supplier {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filteredLocked()
}

func (v *SupplierView) filteredLocked() []domain.Supplier {
	out := make([]domain.Supplier, 0, len(v.suppliers))
	for _, s := range v.suppliers {
		fields := []string{s.Name}
		for _, p := range s.SuppliedProducts {
			fields = append(fields, p.Name)
		}
		if matches(v.search, fields...) {
			out = append(out, s)
		}
	}
	return out
}

func (v *SupplierView) OpenCreate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.formOpen, v.editing, v.form = true, nil, SupplierForm{}
}

// OpenEdit pre-fills the form with supplier id.
func (v *SupplierView) OpenEdit(id int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, s := range v.suppliers {
		if s.SupplierID == id {
			v.formOpen, v.editing = true, &id
			v.form = SupplierForm{
				Name:               s.Name,
				ContactInfo:        s.ContactInfo,
				ProvidedProductIDs: domain.FormatProductIDs(s.ProductIDs()),
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (v *SupplierView) CloseForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.formOpen, v.editing, v.form = false, nil, SupplierForm{}
}

// Submit creates a supplier, or updates the one being edited, then reloads.
func (v *SupplierView) Submit(ctx context.Context, form SupplierForm) error {
	v.mu.Lock()
	v.form = form
	editing := v.editing
	v.mu.Unlock()

	in, err := form.input()
	if err != nil {
		return v.fail(err, "")
	}
	tok, err := v.authorize(ctx, "Please log in to manage suppliers.")
	if err != nil {
		return err
	}

	msg := "Supplier added successfully!"
	if editing != nil {
		err = v.gw.Update(ctx, tok, *editing, in)
		msg = "Supplier updated successfully!"
	} else {
		err = v.gw.Create(ctx, tok, in)
	}
	if err != nil {
		return v.fail(err, "Failed to save supplier. Please try again.")
	}
	if err := v.commit(func() { v.formOpen, v.editing, v.form = false, nil, SupplierForm{} }); err != nil {
		return err
	}
	v.show(msg, domain.KindSuccess)
	return v.Refresh(ctx)
}

// Delete removes supplier id and reloads the listing.
func (v *SupplierView) Delete(ctx context.Context, id int64) error {
	tok, err := v.authorize(ctx, "Please log in to manage suppliers.")
	if err != nil {
		return err
	}
	if err := v.gw.Delete(ctx, tok, id); err != nil {
		return v.fail(err, "Failed to delete supplier. Please try again.")
	}
	v.show("Supplier deleted successfully!", domain.KindSuccess)
	return v.Refresh(ctx)
}

func (v *SupplierView) State() SupplierState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return SupplierState{
		Suppliers: v.filteredLocked(),
		Total:     len(v.suppliers),
		Search:    v.search,
		FormOpen:  v.formOpen,
		EditingID: v.editing,
		Form:      v.form,
	}
}
