package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
	"github.com/99minutos/ims-console/internal/metrics"
)

const defaultEnrichWorkers = 8

// OrderGateway talks to /api/orders and enriches listings with prices.
type OrderGateway struct {
	c       *Client
	limiter *rate.Limiter
	workers int
}

var _ ports.OrderGateway = (*OrderGateway)(nil)

// OrderOption configures enrichment.
type OrderOption func(*OrderGateway)

// WithEnrichmentRate throttles per-order price lookups to rps with burst.
// A non-positive rps disables throttling.
func WithEnrichmentRate(rps float64, burst int) OrderOption {
	return func(g *OrderGateway) {
		if rps <= 0 {
			g.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithEnrichmentWorkers caps concurrent enrichment lookups.
func WithEnrichmentWorkers(n int) OrderOption {
	return func(g *OrderGateway) {
		if n > 0 {
			g.workers = n
		}
	}
}

func NewOrderGateway(c *Client, opts ...OrderOption) *OrderGateway {
	g := &OrderGateway{c: c, workers: defaultEnrichWorkers}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// List fetches the orders and resolves unit and total price for each one
// concurrently. A record whose lookups fail keeps zero prices; the slice
// is returned once every record has settled.
func (g *OrderGateway) List(ctx context.Context, token string) ([]domain.Order, error) {
	var orders []domain.Order
	if err := g.c.do(ctx, call{op: "list", method: http.MethodGet, path: "/api/orders", token: token}, &orders); err != nil {
		return nil, err
	}

	var eg errgroup.Group
	eg.SetLimit(g.workers)
	for i := range orders {
		o := &orders[i]
		eg.Go(func() error {
			g.enrich(ctx, token, o)
			return nil
		})
	}
	_ = eg.Wait()

	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (g *OrderGateway) enrich(ctx context.Context, token string, o *domain.Order) {
	if strings.HasPrefix(strings.TrimSpace(o.Status), "{") {
		metrics.ContractViolationsTotal.WithLabelValues("order.status").Inc()
		g.c.log.Warn().Int64("order_id", o.OrderID).Str("status", o.Status).Msg("order status is JSON-encoded")
	}

	price, err := g.PriceOf(ctx, token, o.OrderID)
	var total decimal.Decimal
	if err == nil {
		total, err = g.TotalOf(ctx, token, o.OrderID)
	}
	if err != nil {
		metrics.EnrichmentFallbacksTotal.WithLabelValues(g.c.name).Inc()
		g.c.log.Warn().Err(err).Int64("order_id", o.OrderID).Msg("order enrichment failed")
		o.ProductPrice, o.TotalPrice = decimal.Zero, decimal.Zero
		if o.ProductName == "" {
			o.ProductName = domain.DefaultOrderName
		}
		return
	}
	o.ProductPrice, o.TotalPrice = price, total
}

func (g *OrderGateway) wait(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}
	return g.limiter.Wait(ctx)
}

// PriceOf returns the unit price of the product in order id.
func (g *OrderGateway) PriceOf(ctx context.Context, token string, id int64) (decimal.Decimal, error) {
	return g.amount(ctx, "price_of", fmt.Sprintf("/api/orders/%d/product-price", id), token)
}

// TotalOf returns quantity times unit price for order id.
func (g *OrderGateway) TotalOf(ctx context.Context, token string, id int64) (decimal.Decimal, error) {
	return g.amount(ctx, "total_of", fmt.Sprintf("/api/orders/%d/total-price", id), token)
}

func (g *OrderGateway) amount(ctx context.Context, op, path, token string) (decimal.Decimal, error) {
	if err := g.wait(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	var d decimal.Decimal
	if err := g.c.do(ctx, call{op: op, method: http.MethodGet, path: path, token: token}, &d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

func (g *OrderGateway) Create(ctx context.Context, token string, in domain.OrderInput) error {
	return g.c.do(ctx, call{op: "create", method: http.MethodPost, path: "/api/orders", token: token, json: in}, nil)
}

// UpdateStatus replaces the status of order id.
func (g *OrderGateway) UpdateStatus(ctx context.Context, token string, id int64, status domain.OrderStatus) error {
	return g.c.do(ctx, call{
		op:     "update_status",
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/orders/%d/status", id),
		token:  token,
		json:   map[string]string{"status": string(status)},
	}, nil)
}

func (g *OrderGateway) Delete(ctx context.Context, token string, id int64) error {
	return g.c.do(ctx, call{op: "delete", method: http.MethodDelete, path: fmt.Sprintf("/api/orders/%d", id), token: token}, nil)
}
