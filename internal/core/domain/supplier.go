package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// SuppliedProduct is a product attached to a supplier listing.
type SuppliedProduct struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Supplier mirrors the supplier service listing item.
type Supplier struct {
	SupplierID         int64             `json:"supplierId"`
	Name               string            `json:"name"`
	ContactInfo        string            `json:"contactInfo"`
	ProvidedProductIDs []int64           `json:"providedProductIds,omitempty"`
	SuppliedProducts   []SuppliedProduct `json:"suppliedProducts"`
}

// SupplierInput is the create/update payload.
type SupplierInput struct {
	Name               string  `json:"name"               validate:"required"`
	ContactInfo        string  `json:"contactInfo"`
	ProvidedProductIDs []int64 `json:"providedProductIds"`
}

// ParseProductIDs reads a comma separated id list. Tokens that are not
// positive integers are dropped.
func ParseProductIDs(input string) []int64 {
	ids := make([]int64, 0)
	for _, tok := range strings.Split(input, ",") {
		n, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil || n <= 0 {
			continue
		}
		ids = append(ids, n)
	}
	return ids
}

// FormatProductIDs renders ids back into the edit-form representation.
func FormatProductIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

// ProductIDs returns the provided ids, falling back to the supplied products.
func (s Supplier) ProductIDs() []int64 {
	if len(s.ProvidedProductIDs) > 0 {
		return s.ProvidedProductIDs
	}
	ids := make([]int64, 0, len(s.SuppliedProducts))
	for _, p := range s.SuppliedProducts {
		ids = append(ids, p.ID)
	}
	return ids
}
