package gateway

import (
	"context"
	"net/http"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
)

// ReportGateway talks to /api/reports.
type ReportGateway struct {
	c *Client
}

var _ ports.ReportGateway = (*ReportGateway)(nil)

func NewReportGateway(c *Client) *ReportGateway {
	return &ReportGateway{c: c}
}

type reportRequest struct {
	ReportType string            `json:"reportType"`
	StartDate  string            `json:"startDate"`
	EndDate    string            `json:"endDate"`
	Parameters domain.Parameters `json:"parameters"`
}

// Generate posts q and decodes the result shape of its type: rows for
// inventory and supplier reports, an aggregate for order reports.
func (g *ReportGateway) Generate(ctx context.Context, token string, q domain.ReportQuery) (*domain.Report, error) {
	params := q.Parameters
	if params == nil {
		params = domain.Parameters{}
	}
	cl := call{
		op:     "generate",
		method: http.MethodPost,
		path:   "/api/reports/generate",
		token:  token,
		json: reportRequest{
			ReportType: string(q.Type),
			StartDate:  q.StartDate.Format(domain.DateLayout),
			EndDate:    q.EndDate.Format(domain.DateLayout),
			Parameters: params,
		},
	}

	r := &domain.Report{Type: q.Type}
	var err error
	switch q.Type {
	case domain.ReportInventory:
		err = g.c.do(ctx, cl, &r.Inventory)
	case domain.ReportSupplier:
		err = g.c.do(ctx, cl, &r.Suppliers)
	case domain.ReportOrder:
		r.Orders = &domain.OrderSummary{}
		err = g.c.do(ctx, cl, r.Orders)
	default:
		return nil, domain.Invalid("Please select a report type.")
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}
