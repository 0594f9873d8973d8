package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

type item struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatTable, "JSON": FormatJSON, " yaml ": FormatYAML, "table": FormatTable} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	err := NewPrinter(&buf, FormatTable).Print(Table{
		Headers: []string{"ID", "NAME"},
		Rows:    [][]string{{"1", "Widget"}, {"22", "Gadget"}},
	})
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %q", buf.String())
	}
	if lines[0] != "ID  NAME" || lines[1] != "--  ----" || lines[3] != "22  Gadget" {
		t.Fatalf("unexpected layout:\n%s", buf.String())
	}
}

func TestPrinter_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatTable).Print(Table{Headers: []string{"ID"}}); err != nil {
		t.Fatalf("print: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No data found" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestPrinter_YAMLUsesJSONNames(t *testing.T) {
	var buf bytes.Buffer
	err := NewPrinter(&buf, FormatYAML).Print(item{Name: "Widget", Price: decimal.RequireFromString("7.5")})
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	want := "name: Widget\nprice: \"7.5\"\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatJSON).Print([]item{{Name: "A", Price: decimal.NewFromInt(2)}}); err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(buf.String(), `"price": "2"`) {
		t.Fatalf("unexpected json: %s", buf.String())
	}
}
