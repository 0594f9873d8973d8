package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
)

// ProductGateway talks to /api/products.
type ProductGateway struct {
	c *Client
}

var _ ports.ProductGateway = (*ProductGateway)(nil)

func NewProductGateway(c *Client) *ProductGateway {
	return &ProductGateway{c: c}
}

// List returns all products. A missing stock status is derived from the
// nested stock record.
func (g *ProductGateway) List(ctx context.Context, token string) ([]domain.Product, error) {
	var out []domain.Product
	if err := g.c.do(ctx, call{op: "list", method: http.MethodGet, path: "/api/products", token: token}, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].StockStatus == "" {
			out[i].StockStatus = domain.DeriveStockStatus(out[i].Stock)
		}
	}
	if out == nil {
		out = []domain.Product{}
	}
	return out, nil
}

func (g *ProductGateway) Create(ctx context.Context, token string, in domain.ProductInput) error {
	return g.c.do(ctx, call{op: "create", method: http.MethodPost, path: "/api/products", token: token, json: in}, nil)
}

func (g *ProductGateway) Update(ctx context.Context, token string, id int64, in domain.ProductInput) error {
	return g.c.do(ctx, call{
		op:     "update",
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/products/%d", id),
		token:  token,
		json:   in,
	}, nil)
}

func (g *ProductGateway) Delete(ctx context.Context, token string, id int64) error {
	return g.c.do(ctx, call{op: "delete", method: http.MethodDelete, path: fmt.Sprintf("/api/products/%d", id), token: token}, nil)
}
