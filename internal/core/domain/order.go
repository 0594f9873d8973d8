package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state shown on the order screen.
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderShipped   OrderStatus = "Shipped"
	OrderCompleted OrderStatus = "Completed"
)

var nextStatus = map[OrderStatus]OrderStatus{
	OrderPending: OrderShipped,
	OrderShipped: OrderCompleted,
}

// ParseOrderStatus accepts the three screen statuses, case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range []OrderStatus{OrderPending, OrderShipped, OrderCompleted} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", Invalid("unknown order status %q", s)
}

// Next returns the following status in Pending -> Shipped -> Completed.
func (s OrderStatus) Next() (OrderStatus, bool) {
	n, ok := nextStatus[s]
	return n, ok
}

// Order mirrors an order listing item after enrichment.
type Order struct {
	OrderID      int64           `json:"orderId"`
	CustomerID   int64           `json:"customerId"`
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	Quantity     int             `json:"quantity"`
	OrderDate    string          `json:"orderDate"`
	Status       string          `json:"status"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
}

// OrderInput is the create payload.
type OrderInput struct {
	CustomerID int64       `json:"customerId" validate:"required,gt=0"`
	ProductID  int64       `json:"productId"  validate:"required,gt=0"`
	Quantity   int         `json:"quantity"   validate:"required,gt=0"`
	OrderDate  string      `json:"orderDate"  validate:"required,datetime=2006-01-02"`
	Status     OrderStatus `json:"status"     validate:"required,oneof=Pending Shipped Completed"`
}
