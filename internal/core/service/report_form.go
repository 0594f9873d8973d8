package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/99minutos/ims-console/internal/core/domain"
)

type reportParam struct {
	name  string
	label string
	parse func(label, raw string) (any, error)
}

// reportParams lists the optional filters of each report type, in display order.
var reportParams = map[domain.ReportType][]reportParam{
	domain.ReportInventory: {
		{name: "minStock", label: "Min. Final Stock", parse: intAtLeast(0)},
	},
	domain.ReportOrder: {
		{name: "status", label: "Order Status", parse: oneOf("Pending", "Shipped", "Delivered", "Cancelled")},
		{name: "customerId", label: "Customer ID", parse: intAtLeast(1)},
	},
	domain.ReportSupplier: {
		{name: "minProductsSupplied", label: "Min. Products Supplied", parse: intAtLeast(0)},
	},
}

func intAtLeast(lo int64) func(label, raw string) (any, error) {
	return func(label, raw string) (any, error) {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < lo {
			return nil, domain.Invalid("%s must be a whole number of at least %d.", label, lo)
		}
		return n, nil
	}
}

func oneOf(values ...string) func(label, raw string) (any, error) {
	return func(label, raw string) (any, error) {
		for _, v := range values {
			if strings.EqualFold(raw, v) {
				return v, nil
			}
		}
		return nil, domain.Invalid("%s must be one of %s.", label, strings.Join(values, ", "))
	}
}

// ReportForm accumulates the report selection and filters and turns them
// into a ReportQuery. The zero value is not usable; use NewReportForm.
type ReportForm struct {
	reportType domain.ReportType
	start      time.Time
	end        time.Time
	params     domain.Parameters
}

// ReportFormState is the serialisable view of a ReportForm.
type ReportFormState struct {
	ReportType     domain.ReportType `json:"reportType"`
	StartDate      string            `json:"startDate"`
	EndDate        string            `json:"endDate"`
	Parameters     domain.Parameters `json:"parameters"`
	AvailableParam []string          `json:"availableParameters"`
	AppliedFilters []string          `json:"appliedFilters"`
	CanSubmit      bool              `json:"canSubmit"`
}

func NewReportForm() *ReportForm {
	return &ReportForm{params: domain.Parameters{}}
}

// Type returns the selected report type, empty when none.
func (f *ReportForm) Type() domain.ReportType { return f.reportType }

// SetReportType selects the report. Blank input clears the selection.
// Any change of type drops all parameters.
func (f *ReportForm) SetReportType(raw string) error {
	var t domain.ReportType
	if strings.TrimSpace(raw) != "" {
		parsed, err := domain.ParseReportType(raw)
		if err != nil {
			return err
		}
		t = parsed
	}
	if t != f.reportType {
		f.reportType = t
		f.params = domain.Parameters{}
	}
	return nil
}

// SetStartDate sets the start date from a YYYY-MM-DD string; blank clears it.
func (f *ReportForm) SetStartDate(raw string) error {
	d, err := parseDate("Start date", raw)
	if err != nil {
		return err
	}
	f.start = d
	return nil
}

// SetEndDate sets the end date from a YYYY-MM-DD string; blank clears it.
func (f *ReportForm) SetEndDate(raw string) error {
	d, err := parseDate("End date", raw)
	if err != nil {
		return err
	}
	f.end = d
	return nil
}

func parseDate(label, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return time.Time{}, domain.Invalid("%s must be formatted YYYY-MM-DD.", label)
	}
	return d, nil
}

// SetParameter stores a filter for the selected type. Blank input removes
// the key; input that fails to parse also removes it and returns the reason.
func (f *ReportForm) SetParameter(name, raw string) error {
	spec, ok := f.lookup(name)
	if !ok {
		if f.reportType == "" {
			return domain.Invalid("Please select a report type.")
		}
		return domain.Invalid("%q is not a filter of the %s report.", name, f.reportType)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		f.params.Delete(spec.name)
		return nil
	}
	v, err := spec.parse(spec.label, raw)
	if err != nil {
		f.params.Delete(spec.name)
		return err
	}
	f.params.Set(spec.name, v)
	return nil
}

func (f *ReportForm) lookup(name string) (reportParam, bool) {
	for _, p := range reportParams[f.reportType] {
		if p.name == name {
			return p, true
		}
	}
	return reportParam{}, false
}

// Parameters returns a copy of the current filters.
func (f *ReportForm) Parameters() domain.Parameters { return f.params.Clone() }

// CanSubmit reports whether the required fields are filled in.
func (f *ReportForm) CanSubmit() bool {
	return f.reportType != "" && !f.start.IsZero() && !f.end.IsZero()
}

// Query validates the form against today's date and builds the request.
func (f *ReportForm) Query(today time.Time) (domain.ReportQuery, error) {
	if f.reportType == "" {
		return domain.ReportQuery{}, domain.Invalid("Please select a report type.")
	}
	if f.start.IsZero() || f.end.IsZero() {
		return domain.ReportQuery{}, domain.Invalid("Please select both start and end dates.")
	}
	if f.start.After(f.end) {
		return domain.ReportQuery{}, domain.Invalid("Start date cannot be after end date.")
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if f.end.After(day) {
		return domain.ReportQuery{}, domain.Invalid("End date cannot be in the future.")
	}
	return domain.ReportQuery{
		Type:       f.reportType,
		StartDate:  f.start,
		EndDate:    f.end,
		Parameters: f.params.Clone(),
	}, nil
}

// AppliedFilters renders the set filters as "Label: value" in catalogue order.
func (f *ReportForm) AppliedFilters() []string {
	var out []string
	for _, p := range reportParams[f.reportType] {
		if v, ok := f.params[p.name]; ok {
			out = append(out, fmt.Sprintf("%s: %v", p.label, v))
		}
	}
	return out
}

// State snapshots the form.
func (f *ReportForm) State() ReportFormState {
	st := ReportFormState{
		ReportType:     f.reportType,
		Parameters:     f.params.Clone(),
		AppliedFilters: f.AppliedFilters(),
		CanSubmit:      f.CanSubmit(),
	}
	if !f.start.IsZero() {
		st.StartDate = f.start.Format(domain.DateLayout)
	}
	if !f.end.IsZero() {
		st.EndDate = f.end.Format(domain.DateLayout)
	}
	for _, p := range reportParams[f.reportType] {
		st.AvailableParam = append(st.AvailableParam, p.name)
	}
	return st
}
