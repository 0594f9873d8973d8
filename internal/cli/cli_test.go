package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/service"
	"github.com/99minutos/ims-console/internal/output"
)

func TestReadSecret(t *testing.T) {
	got, err := readSecret("flag", false, strings.NewReader("ignored\n"))
	if err != nil || got != "flag" {
		t.Fatalf("flag value: got %q, %v", got, err)
	}
	got, err = readSecret("", true, strings.NewReader("s3cret\r\nmore\n"))
	if err != nil || got != "s3cret" {
		t.Fatalf("stdin value: got %q, %v", got, err)
	}
	got, err = readSecret("", true, strings.NewReader("no-newline"))
	if err != nil || got != "no-newline" {
		t.Fatalf("stdin without newline: got %q, %v", got, err)
	}
}

func TestParseIDArg(t *testing.T) {
	if id, err := parseIDArg("42"); err != nil || id != 42 {
		t.Fatalf("got %d, %v", id, err)
	}
	for _, raw := range []string{"", "0", "-1", "abc"} {
		if _, err := parseIDArg(raw); err == nil {
			t.Fatalf("%q must be rejected", raw)
		}
	}
}

func TestOverlay_OnlyChangedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "update"}
	productFlags(cmd.Flags())
	if err := cmd.Flags().Parse([]string{"--price", "12.50"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	form := service.ProductForm{Name: "Widget", Price: "10", ImageURL: "http://img"}
	overlay(cmd.Flags(), productFields(&form))

	if form.Price != "12.50" {
		t.Fatalf("price not overlaid: %q", form.Price)
	}
	if form.Name != "Widget" || form.ImageURL != "http://img" {
		t.Fatalf("unchanged fields overwritten: %+v", form)
	}
}

func TestProductRows_Table(t *testing.T) {
	rows := productRows{
		{ID: 1, Name: "Widget", Price: decimal.RequireFromString("9.5"),
			Stock:       &domain.StockDetails{Quantity: 3, ReorderLevel: 5},
			StockStatus: domain.StockLow},
		{ID: 2, Name: "Gadget", Price: decimal.NewFromInt(4), StockStatus: domain.StockNoRecord},
	}
	var buf bytes.Buffer
	if err := output.NewPrinter(&buf, output.FormatTable).Print(rows); err != nil {
		t.Fatalf("print: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"NAME", "Widget", "9.50", "Low Stock", "Gadget", "No Stock Record"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}

func TestReportResult_OrderSummary(t *testing.T) {
	r := reportResult{
		Type: domain.ReportOrder,
		Orders: &domain.OrderSummary{
			TotalOrders: 3, PendingOrders: 1, ShippedOrders: 2,
			TotalRevenue: decimal.NewFromInt(30),
			TopSellingProducts: []domain.TopSellingProduct{
				{ProductName: "Widget", UnitsSold: 4, TotalRevenue: decimal.NewFromInt(20)},
			},
		},
	}
	tbl := r.Table()
	if len(tbl.Rows) != 6 {
		t.Fatalf("expected 5 metrics and 1 top seller, got %d rows", len(tbl.Rows))
	}
	if tbl.Rows[4][1] != "30.00" {
		t.Fatalf("revenue row: %v", tbl.Rows[4])
	}

	empty := reportResult{Type: domain.ReportOrder, Orders: &domain.OrderSummary{}}
	if len(empty.Table().Rows) != 0 {
		t.Fatalf("an order report without orders has no rows")
	}
}

// --- Stubs ---

type stubNotifying struct {
	n  domain.Notification
	ok bool
}

func (s stubNotifying) Notification() (domain.Notification, bool) { return s.n, s.ok }

func TestCheck_UsesShownError(t *testing.T) {
	rt := &runtime{}
	shown := stubNotifying{n: domain.Notification{Kind: domain.KindError, Message: "Please log in to view products."}, ok: true}

	err := rt.check(shown, domain.ErrUnauthenticated)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("cause lost: %v", err)
	}
	if got := domain.MessageOf(err, ""); got != "Please log in to view products." {
		t.Fatalf("message: %q", got)
	}

	if err := rt.check(stubNotifying{}, domain.ErrNotFound); err != domain.ErrNotFound {
		t.Fatalf("error without notification must pass through, got %v", err)
	}
	if rt.check(shown, nil) != nil {
		t.Fatalf("nil stays nil")
	}
}

func TestNewRootCmd_Tree(t *testing.T) {
	root := NewRootCmd()
	for _, path := range [][]string{
		{"login"}, {"serve"}, {"products", "update"}, {"orders", "advance"},
		{"suppliers", "delete"}, {"reports", "generate"}, {"profile", "edit"},
	} {
		cmd, _, err := root.Find(path)
		if err != nil || cmd.Name() != path[len(path)-1] {
			t.Fatalf("command %v not registered: %v", path, err)
		}
	}
}
