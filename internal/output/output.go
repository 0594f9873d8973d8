// Package output renders command results as a table, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v2"
)

// Format selects how results are written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts table, json or yaml; empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (table, json, yaml)", s)
	}
}

// Tabular is implemented by results that have a table rendering.
type Tabular interface {
	Table() Table
}

// Table is a header row plus data rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Table lets a Table be printed directly.
func (t Table) Table() Table { return t }

// Printer writes results to w in one format.
type Printer struct {
	w      io.Writer
	format Format
}

func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format}
}

// Print writes v. Values without a table rendering fall back to YAML in
// table mode.
func (p *Printer) Print(v any) error {
	switch p.format {
	case FormatJSON:
		return p.json(v)
	case FormatYAML:
		return p.yaml(v)
	}
	if t, ok := v.(Tabular); ok {
		return p.table(t.Table())
	}
	return p.yaml(v)
}

func (p *Printer) table(t Table) error {
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(p.w, "No data found")
		return err
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	sep := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		sep[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func (p *Printer) json(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(p.w, string(out))
	return err
}

// yaml goes through JSON first so json tags and custom marshalers (money,
// dates) are honoured. Key order is kept.
func (p *Printer) yaml(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal YAML: %w", err)
	}
	var doc any
	if len(raw) > 0 && raw[0] == '{' {
		var ms yaml.MapSlice
		if err := yaml.Unmarshal(raw, &ms); err != nil {
			return fmt.Errorf("marshal YAML: %w", err)
		}
		doc = ms
	} else if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("marshal YAML: %w", err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal YAML: %w", err)
	}
	_, err = p.w.Write(out)
	return err
}
