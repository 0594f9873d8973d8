package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of report dates.
const DateLayout = "2006-01-02"

// ReportType selects which report the backend generates.
type ReportType string

const (
	ReportInventory ReportType = "inventory"
	ReportOrder     ReportType = "order"
	ReportSupplier  ReportType = "supplier"
)

// ParseReportType accepts one of the three report identifiers.
func ParseReportType(s string) (ReportType, error) {
	switch t := ReportType(strings.ToLower(strings.TrimSpace(s))); t {
	case ReportInventory, ReportOrder, ReportSupplier:
		return t, nil
	case "":
		return "", Invalid("Please select a report type.")
	default:
		return "", Invalid("unknown report type %q", s)
	}
}

// Parameters holds report filters. A key is present only when it carries a
// value; values are either string or int64.
type Parameters map[string]any

// Keys returns the parameter names in lexical order.
func (p Parameters) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set stores value under name.
func (p Parameters) Set(name string, value any) { p[name] = value }

// Delete removes name; missing names are ignored.
func (p Parameters) Delete(name string) { delete(p, name) }

// Clone returns an independent copy, never nil.
func (p Parameters) Clone() Parameters {
	out := make(Parameters, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ReportQuery is a validated report request.
type ReportQuery struct {
	Type       ReportType
	StartDate  time.Time
	EndDate    time.Time
	Parameters Parameters
}

// InventoryRow is one product line of the inventory report.
type InventoryRow struct {
	ProductID    int64  `json:"productId"`
	ProductName  string `json:"productName"`
	InitialStock int    `json:"initialStock"`
	StockAdded   int    `json:"stockAdded"`
	StockRemoved int    `json:"stockRemoved"`
	FinalStock   int    `json:"finalStock"`
	ReorderLevel int    `json:"reorderLevel"`
	IsLowStock   bool   `json:"isLowStock"`
}

// TopSellingProduct is nested in the order report.
type TopSellingProduct struct {
	ProductName  string          `json:"productName"`
	UnitsSold    int64           `json:"unitsSold"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// OrderSummary is the aggregate shape of the order report.
type OrderSummary struct {
	TotalOrders        int64               `json:"totalOrders"`
	PendingOrders      int64               `json:"pendingOrders"`
	ShippedOrders      int64               `json:"shippedOrders"`
	DeliveredOrders    int64               `json:"deliveredOrders"`
	TotalRevenue       decimal.Decimal     `json:"totalRevenue"`
	TopSellingProducts []TopSellingProduct `json:"topSellingProducts"`
}

// SupplierRow is one line of the supplier report.
type SupplierRow struct {
	SupplierID       int64    `json:"supplierId"`
	Name             string   `json:"name"`
	ContactInfo      string   `json:"contactInfo"`
	ProductsSupplied []string `json:"productsSupplied"`
}

// Report is the decoded result; only the field matching Type is set.
type Report struct {
	Type      ReportType     `json:"reportType"`
	Inventory []InventoryRow `json:"inventory,omitempty"`
	Orders    *OrderSummary  `json:"orders,omitempty"`
	Suppliers []SupplierRow  `json:"suppliers,omitempty"`
}

// Empty reports whether the result has no data to show.
func (r Report) Empty() bool {
	switch r.Type {
	case ReportInventory:
		return len(r.Inventory) == 0
	case ReportSupplier:
		return len(r.Suppliers) == 0
	case ReportOrder:
		return r.Orders == nil || r.Orders.TotalOrders == 0
	}
	return true
}
