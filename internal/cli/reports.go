package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/99minutos/ims-console/internal/core/service"
)

type reportOptions struct {
	reportType string
	start, end string
	params     map[string]string
	save       string
}

// apply fills the form in dependency order: the type first since changing
// it drops parameters.
func (o reportOptions) apply(v *service.ReportView) error {
	if err := v.SetReportType(o.reportType); err != nil {
		return err
	}
	if err := v.SetStartDate(o.start); err != nil {
		return err
	}
	if err := v.SetEndDate(o.end); err != nil {
		return err
	}
	names := make([]string, 0, len(o.params))
	for k := range o.params {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := v.SetParameter(k, o.params[k]); err != nil {
			return err
		}
	}
	return nil
}

func newReportsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reports",
		Aliases: []string{"report"},
		Short:   "Generate inventory, order and supplier reports",
	}

	var opts reportOptions
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate a report for a date range",
		Example: `  ims reports generate --type inventory --start 2024-01-01 --end 2024-01-31 --param minStock=5
  ims reports generate --type order --start 2024-01-01 --end 2024-01-31 --param status=Shipped -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := rt.app.Views.Reports
			if err := v.Mount(cmd.Context()); err != nil {
				return rt.check(v, err)
			}
			if err := opts.apply(v); err != nil {
				return err
			}
			report, err := v.Generate(cmd.Context())
			if err != nil {
				return rt.check(v, err)
			}
			if opts.save != "" {
				raw, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("encode report: %w", err)
				}
				if err := os.WriteFile(opts.save, raw, 0o644); err != nil {
					return fmt.Errorf("save report: %w", err)
				}
			}
			return rt.finish(v, reportResult(*report))
		},
	}
	f := generate.Flags()
	f.StringVarP(&opts.reportType, "type", "t", "", "inventory, order or supplier")
	f.StringVar(&opts.start, "start", "", "start date, YYYY-MM-DD")
	f.StringVar(&opts.end, "end", "", "end date, YYYY-MM-DD, not after today")
	f.StringToStringVar(&opts.params, "param", nil, "report filter as name=value, repeatable")
	f.StringVar(&opts.save, "save", "", "also write the report as JSON to this file")

	cmd.AddCommand(generate)
	return cmd
}
