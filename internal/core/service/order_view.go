package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
	"github.com/99minutos/ims-console/internal/core/validation"
)

// OrderForm holds the raw order form inputs.
type OrderForm struct {
	CustomerID string `json:"customerId"`
	ProductID  string `json:"productId"`
	Quantity   string `json:"quantity"`
	OrderDate  string `json:"orderDate"`
	Status     string `json:"status"`
}

func (f OrderForm) input() (domain.OrderInput, error) {
	customer, err := wholeNumber("Customer ID", f.CustomerID)
	if err != nil {
		return domain.OrderInput{}, err
	}
	product, err := wholeNumber("Product ID", f.ProductID)
	if err != nil {
		return domain.OrderInput{}, err
	}
	qty, err := wholeNumber("Quantity", f.Quantity)
	if err != nil {
		return domain.OrderInput{}, err
	}

	status := domain.OrderPending
	if strings.TrimSpace(f.Status) != "" {
		st, err := domain.ParseOrderStatus(f.Status)
		if err != nil {
			return domain.OrderInput{}, err
		}
		status = st
	}
	in := domain.OrderInput{
		CustomerID: customer,
		ProductID:  product,
		Quantity:   int(qty),
		OrderDate:  strings.TrimSpace(f.OrderDate),
		Status:     status,
	}
	if err := validation.Struct(in); err != nil {
		return domain.OrderInput{}, err
	}
	return in, nil
}

// wholeNumber parses a numeric form field. Blank input is zero and left for
// the required check.
func wholeNumber(label, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.Invalid("%s must be a whole number.", label)
	}
	return n, nil
}

// OrderState is the renderable state of the order screen.
type OrderState struct {
	Orders   []domain.Order `json:"orders"`
	Total    int            `json:"total"`
	Search   string         `json:"search"`
	FormOpen bool           `json:"formOpen"`
	Form     OrderForm      `json:"form"`
}

// OrderView lists, creates and advances orders.
type OrderView struct {
	*view
	gw ports.OrderGateway

	orders   []domain.Order
	search   string
	formOpen bool
	form     OrderForm
}

func NewOrderView(gw ports.OrderGateway, deps ViewDeps) *OrderView {
	return &OrderView{view: newView("orders", deps), gw: gw}
}

// Mount requires a session and loads the enriched listing.
func (v *OrderView) Mount(ctx context.Context) error {
	v.reopen()
	if _, err := v.authorize(ctx, "Please log in to view orders."); err != nil {
		return err
	}
	return v.Refresh(ctx)
}

// Refresh reloads the listing.
func (v *OrderView) Refresh(ctx context.Context) error {
	tok, err := v.authorize(ctx, "Please log in to view orders.")
	if err != nil {
		return err
	}
	list, err := v.gw.List(ctx, tok)
	if err != nil {
		return v.fail(err, "Failed to fetch orders. Please try again.")
	}
	return v.commit(func() { v.orders = list })
}

// SetSearch filters by status or product name.
func (v *OrderView) SetSearch(term string) {
	v.mu.Lock()
	v.search = term
	v.mu.Unlock()
}

func (v *OrderView) Filtered() []domain.Order {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filteredLocked()
}

func (v *OrderView) filteredLocked() []domain.Order {
	out := make([]domain.Order, 0, len(v.orders))
	for _, o := range v.orders {
		if matches(v.search, o.Status, o.ProductName) {
			out = append(out, o)
		}
	}
	return out
}

// OpenCreate shows the form defaulted to today and Pending.
func (v *OrderView) OpenCreate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.formOpen = true
	v.form = OrderForm{OrderDate: v.now().Format(domain.DateLayout), Status: string(domain.OrderPending)}
}

func (v *OrderView) CloseForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.formOpen, v.form = false, OrderForm{}
}

// Submit creates an order and reloads the listing.
func (v *OrderView) Submit(ctx context.Context, form OrderForm) error {
	v.mu.Lock()
	v.form = form
	v.mu.Unlock()

	in, err := form.input()
	if err != nil {
		return v.fail(err, "")
	}
	tok, err := v.authorize(ctx, "Please log in to create orders.")
	if err != nil {
		return err
	}
	if err := v.gw.Create(ctx, tok, in); err != nil {
		return v.fail(err, "Failed to create order. Please try again.")
	}
	if err := v.commit(func() { v.formOpen, v.form = false, OrderForm{} }); err != nil {
		return err
	}
	v.show("Order created successfully!", domain.KindSuccess)
	return v.Refresh(ctx)
}

// UpdateStatus replaces the status of order id and applies it locally.
func (v *OrderView) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	tok, err := v.authorize(ctx, "Please log in to update orders.")
	if err != nil {
		return err
	}
	if err := v.gw.UpdateStatus(ctx, tok, id, status); err != nil {
		return v.fail(err, "Failed to update order status. Please try again.")
	}
	if err := v.commit(func() {
		for i := range v.orders {
			if v.orders[i].OrderID == id {
				v.orders[i].Status = string(status)
			}
		}
	}); err != nil {
		return err
	}
	v.show(fmt.Sprintf("Order status updated to %q", string(status)), domain.KindSuccess)
	return nil
}

// Advance moves order id to the next status in Pending, Shipped, Completed.
func (v *OrderView) Advance(ctx context.Context, id int64) error {
	v.mu.Lock()
	var current string
	found := false
	for _, o := range v.orders {
		if o.OrderID == id {
			current, found = o.Status, true
			break
		}
	}
	v.mu.Unlock()
	if !found {
		return domain.ErrNotFound
	}

	st, err := domain.ParseOrderStatus(current)
	if err != nil {
		return v.fail(err, "")
	}
	next, ok := st.Next()
	if !ok {
		return v.fail(domain.Invalid("Order %d is already %s.", id, st), "")
	}
	return v.UpdateStatus(ctx, id, next)
}

// Cancel deletes order id.
func (v *OrderView) Cancel(ctx context.Context, id int64) error {
	tok, err := v.authorize(ctx, "Please log in to cancel orders.")
	if err != nil {
		return err
	}
	if err := v.gw.Delete(ctx, tok, id); err != nil {
		return v.fail(err, "Failed to cancel order. Please try again.")
	}
	if err := v.commit(func() {
		kept := v.orders[:0]
		for _, o := range v.orders {
			if o.OrderID != id {
				kept = append(kept, o)
			}
		}
		v.orders = kept
	}); err != nil {
		return err
	}
	v.show("Order canceled successfully!", domain.KindSuccess)
	return nil
}

func (v *OrderView) State() OrderState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return OrderState{
		Orders:   v.filteredLocked(),
		Total:    len(v.orders),
		Search:   v.search,
		FormOpen: v.formOpen,
		Form:     v.form,
	}
}
