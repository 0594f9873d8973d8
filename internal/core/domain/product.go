package domain

import "github.com/shopspring/decimal"

// Stock status labels reported for a product.
const (
	StockIn          = "In Stock"
	StockLow         = "Low Stock"
	StockOut         = "Out of Stock"
	StockNoRecord    = "No Stock Record"
	DefaultOrderName = "Unknown Product"
)

// StockDetails is the stock record nested in a product listing.
type StockDetails struct {
	ProductID    int64 `json:"productId"`
	Quantity     int   `json:"quantity"`
	ReorderLevel int   `json:"reorderLevel"`
	LowStock     bool  `json:"lowStock"`
}

// Product mirrors the product service listing item.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Stock       *StockDetails   `json:"stockDetails,omitempty"`
	StockStatus string          `json:"stockStatus"`
}

// ProductInput is the create/update payload. Stock fields are optional and
// sent as null when unset.
type ProductInput struct {
	Name                 string          `json:"name"                 validate:"required"`
	Description          string          `json:"description"`
	Price                decimal.Decimal `json:"price"`
	ImageURL             string          `json:"imageUrl"             validate:"required"`
	InitialStockQuantity *int            `json:"initialStockQuantity" validate:"omitempty,min=0"`
	ReorderLevel         *int            `json:"reorderLevel"         validate:"omitempty,min=0"`
}

// DeriveStockStatus labels a stock record the way the product service does.
func DeriveStockStatus(stock *StockDetails) string {
	switch {
	case stock == nil:
		return StockNoRecord
	case stock.Quantity <= 0:
		return StockOut
	case stock.LowStock || stock.Quantity <= stock.ReorderLevel:
		return StockLow
	default:
		return StockIn
	}
}
