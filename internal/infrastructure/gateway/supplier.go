package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
)

// SupplierGateway talks to /api/suppliers.
type SupplierGateway struct {
	c *Client
}

var _ ports.SupplierGateway = (*SupplierGateway)(nil)

func NewSupplierGateway(c *Client) *SupplierGateway {
	return &SupplierGateway{c: c}
}

func (g *SupplierGateway) List(ctx context.Context, token string) ([]domain.Supplier, error) {
	var out []domain.Supplier
	if err := g.c.do(ctx, call{op: "list", method: http.MethodGet, path: "/api/suppliers", token: token}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Supplier{}
	}
	return out, nil
}

func (g *SupplierGateway) Create(ctx context.Context, token string, in domain.SupplierInput) error {
	return g.c.do(ctx, call{op: "create", method: http.MethodPost, path: "/api/suppliers", token: token, json: supplierPayload(in)}, nil)
}

func (g *SupplierGateway) Update(ctx context.Context, token string, id int64, in domain.SupplierInput) error {
	return g.c.do(ctx, call{
		op:     "update",
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/suppliers/%d", id),
		token:  token,
		json:   supplierPayload(in),
	}, nil)
}

func (g *SupplierGateway) Delete(ctx context.Context, token string, id int64) error {
	return g.c.do(ctx, call{op: "delete", method: http.MethodDelete, path: fmt.Sprintf("/api/suppliers/%d", id), token: token}, nil)
}

// supplierPayload always sends providedProductIds as an array.
func supplierPayload(in domain.SupplierInput) domain.SupplierInput {
	if in.ProvidedProductIDs == nil {
		in.ProvidedProductIDs = []int64{}
	}
	return in
}
