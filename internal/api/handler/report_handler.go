package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/ims-console/internal/core/service"
)

// ReportHandler serves the report screen.
type ReportHandler struct {
	view *service.ReportView
	nav  Router
}

func NewReportHandler(view *service.ReportView, nav Router) *ReportHandler {
	return &ReportHandler{view: view, nav: nav}
}

// reportFormRequest updates the report filters. Absent fields are left as
// they are; an empty string clears a field.
type reportFormRequest struct {
	ReportType *string           `json:"reportType"`
	StartDate  *string           `json:"startDate"`
	EndDate    *string           `json:"endDate"`
	Parameters map[string]string `json:"parameters"`
}

func (r reportFormRequest) apply(v *service.ReportView) error {
	if r.ReportType != nil {
		if err := v.SetReportType(*r.ReportType); err != nil {
			return err
		}
	}
	if r.StartDate != nil {
		if err := v.SetStartDate(*r.StartDate); err != nil {
			return err
		}
	}
	if r.EndDate != nil {
		if err := v.SetEndDate(*r.EndDate); err != nil {
			return err
		}
	}
	names := make([]string, 0, len(r.Parameters))
	for name := range r.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := v.SetParameter(name, r.Parameters[name]); err != nil {
			return err
		}
	}
	return nil
}

// Show mounts the screen and returns the current filters and result.
//
// @Summary      Report screen
// @Tags         reports
// @Produce      json
// @Success      200  {object}  viewResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/reports [get]
func (h *ReportHandler) Show(c echo.Context) error {
	if err := h.view.Mount(c.Request().Context()); err != nil {
		return err
	}
	return render(c, h.nav, h.view, h.view.State())
}

// UpdateForm changes the report filters.
//
// @Summary      Update report filters
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        body  body      reportFormRequest  true  "Filters"
// @Success      200   {object}  viewResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/reports/form [put]
func (h *ReportHandler) UpdateForm(c echo.Context) error {
	var req reportFormRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := req.apply(h.view); err != nil {
		return err
	}
	return render(c, h.nav, h.view, h.view.State())
}

// Generate requests the report for the current filters. A body, when sent,
// is applied to the filters first.
//
// @Summary      Generate report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        body  body      reportFormRequest  false  "Filters"
// @Success      200   {object}  viewResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/reports [post]
func (h *ReportHandler) Generate(c echo.Context) error {
	if c.Request().ContentLength != 0 {
		var req reportFormRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		if err := req.apply(h.view); err != nil {
			return err
		}
	}
	if _, err := h.view.Generate(c.Request().Context()); err != nil {
		return err
	}
	return render(c, h.nav, h.view, h.view.State())
}

// Export returns the last generated report as a download.
//
// @Summary      Download report
// @Tags         reports
// @Produce      json
// @Success      200  {object}  domain.Report
// @Failure      404  {object}  errorResponse
// @Router       /api/reports/export [get]
func (h *ReportHandler) Export(c echo.Context) error {
	st := h.view.State()
	if st.Report == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no report generated yet")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("%s-report.json", st.Report.Type)))
	return c.JSON(http.StatusOK, st.Report)
}
