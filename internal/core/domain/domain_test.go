package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseProductIDs(t *testing.T) {
	cases := map[string][]int64{
		"1, 5, abc, -2, 10": {1, 5, 10},
		"":                  {},
		" 3 ,,0, 4.5,7":     {3, 7},
	}
	for in, want := range cases {
		got := ParseProductIDs(in)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ParseProductIDs(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFormatProductIDs_RoundTrip(t *testing.T) {
	ids := []int64{1, 5, 10}
	if got := ParseProductIDs(FormatProductIDs(ids)); !reflect.DeepEqual(got, ids) {
		t.Fatalf("round trip = %v", got)
	}
}

func TestOrderStatus_Next(t *testing.T) {
	if n, ok := OrderPending.Next(); !ok || n != OrderShipped {
		t.Fatalf("Pending.Next = %v %v", n, ok)
	}
	if n, ok := OrderShipped.Next(); !ok || n != OrderCompleted {
		t.Fatalf("Shipped.Next = %v %v", n, ok)
	}
	if _, ok := OrderCompleted.Next(); ok {
		t.Fatalf("Completed must be terminal")
	}
}

func TestParseOrderStatus(t *testing.T) {
	if s, err := ParseOrderStatus(" shipped "); err != nil || s != OrderShipped {
		t.Fatalf("got %v %v", s, err)
	}
	if _, err := ParseOrderStatus("lost"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseReportType(t *testing.T) {
	if rt, err := ParseReportType("Order"); err != nil || rt != ReportOrder {
		t.Fatalf("got %v %v", rt, err)
	}
	_, err := ParseReportType("")
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Message != "Please select a report type." {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeriveStockStatus(t *testing.T) {
	cases := []struct {
		stock *StockDetails
		want  string
	}{
		{nil, StockNoRecord},
		{&StockDetails{Quantity: 0, ReorderLevel: 5}, StockOut},
		{&StockDetails{Quantity: 4, ReorderLevel: 5}, StockLow},
		{&StockDetails{Quantity: 20, ReorderLevel: 5}, StockIn},
	}
	for _, tc := range cases {
		if got := DeriveStockStatus(tc.stock); got != tc.want {
			t.Errorf("DeriveStockStatus(%+v) = %q, want %q", tc.stock, got, tc.want)
		}
	}
}

func TestSession_Valid(t *testing.T) {
	if (Session{Username: "alice"}).Valid() {
		t.Fatalf("identity without token must be invalid")
	}
	if (Session{Token: "t"}).Valid() {
		t.Fatalf("token without identity must be invalid")
	}
	if !(Session{Username: "alice", Token: "t"}).Valid() {
		t.Fatalf("expected valid session")
	}
}

func TestParameters_SetDeleteKeys(t *testing.T) {
	p := Parameters{}
	p.Set("status", "Shipped")
	p.Set("customerId", int64(7))
	p.Delete("missing")
	if got := p.Keys(); !reflect.DeepEqual(got, []string{"customerId", "status"}) {
		t.Fatalf("keys = %v", got)
	}

	c := p.Clone()
	p.Delete("status")
	if _, ok := c["status"]; !ok {
		t.Fatalf("clone must not share storage")
	}
	if _, ok := p["status"]; ok {
		t.Fatalf("status not deleted")
	}
}
