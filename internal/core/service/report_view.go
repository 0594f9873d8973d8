package service

import (
	"context"
	"fmt"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
)

// ReportState is the renderable state of the report screen.
type ReportState struct {
	Form      ReportFormState `json:"form"`
	Report    *domain.Report  `json:"report,omitempty"`
	Loading   bool            `json:"loading"`
	CanSubmit bool            `json:"canSubmit"`
}

// ReportView collects report filters and generates reports.
type ReportView struct {
	*view
	gw ports.ReportGateway

	form    *ReportForm
	report  *domain.Report
	loading bool
}

func NewReportView(gw ports.ReportGateway, deps ViewDeps) *ReportView {
	return &ReportView{view: newView("reports", deps), gw: gw, form: NewReportForm()}
}

func (v *ReportView) Mount(ctx context.Context) error {
	v.reopen()
	_, err := v.authorize(ctx, "Please log in to generate reports.")
	return err
}

// SetReportType selects the report and drops the previous result when the
// type changes.
func (v *ReportView) SetReportType(raw string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	before := v.form.Type()
	if err := v.form.SetReportType(raw); err != nil {
		return err
	}
	if v.form.Type() != before {
		v.report = nil
	}
	return nil
}

func (v *ReportView) SetStartDate(raw string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form.SetStartDate(raw)
}

func (v *ReportView) SetEndDate(raw string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form.SetEndDate(raw)
}

func (v *ReportView) SetParameter(name, raw string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form.SetParameter(name, raw)
}

// Generate validates the form locally and requests the report. Only one
// request runs at a time.
func (v *ReportView) Generate(ctx context.Context) (*domain.Report, error) {
	tok, err := v.authorize(ctx, "Please log in to generate reports.")
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	if v.loading {
		v.mu.Unlock()
		return nil, domain.ErrBusy
	}
	q, err := v.form.Query(v.now())
	if err != nil {
		v.mu.Unlock()
		return nil, v.fail(err, "")
	}
	v.loading = true
	v.report = nil
	v.mu.Unlock()

	report, err := v.gw.Generate(ctx, tok, q)

	v.mu.Lock()
	v.loading = false
	closed := v.closed
	if err == nil && !closed {
		v.report = report
	}
	v.mu.Unlock()

	if closed {
		return nil, domain.ErrViewClosed
	}
	if err != nil {
		return nil, v.fail(err, "Failed to generate report. Please try again.")
	}
	v.show(fmt.Sprintf("Report generated successfully for %s!", q.Type), domain.KindSuccess)
	return report, nil
}

func (v *ReportView) State() ReportState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ReportState{
		Form:      v.form.State(),
		Report:    v.report,
		Loading:   v.loading,
		CanSubmit: v.form.CanSubmit() && !v.loading,
	}
}
