package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/ogurasousui/hiring-insights/internal/adapters/export"
	"github.com/ogurasousui/hiring-insights/internal/core/report"
	"github.com/ogurasousui/hiring-insights/internal/platform/config"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	xlsxPath string
	year     int
}

func newReportCmd(root *rootOptions) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print hiring reports for the configured year",
	}
	cmd.PersistentFlags().StringVar(&opts.xlsxPath, "xlsx", "", "write the report to this XLSX file instead of stdout")
	cmd.PersistentFlags().IntVar(&opts.year, "year", 0, "override report.year")

	cmd.AddCommand(&cobra.Command{
		Use:   "quarterly",
		Short: "Hires per department and job for each quarter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, root, opts, func(ctx context.Context, svc report.UseCase, w io.Writer) error {
				rows, err := svc.HiresByQuarter(ctx)
				if err != nil {
					return withCode(exitDB, err)
				}
				if opts.xlsxPath != "" {
					return writeXLSXFile(opts.xlsxPath, func(w io.Writer) error { return export.WriteQuarterly(w, rows) })
				}
				return printQuarterly(w, rows)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "above-average",
		Short: "Departments that hired more than the mean",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, root, opts, func(ctx context.Context, svc report.UseCase, w io.Writer) error {
				rows, err := svc.AboveAverageByDepartment(ctx)
				if err != nil {
					return withCode(exitDB, err)
				}
				if opts.xlsxPath != "" {
					return writeXLSXFile(opts.xlsxPath, func(w io.Writer) error { return export.WriteAboveAverage(w, rows) })
				}
				return printAboveAverage(w, rows)
			})
		},
	})

	return cmd
}

func runReport(cmd *cobra.Command, root *rootOptions, opts reportOptions, fn func(context.Context, report.UseCase, io.Writer) error) error {
	ctx, cfg, err := loadConfig(cmd.Context(), root)
	if err != nil {
		return err
	}
	if err := applyYear(cfg, opts.year); err != nil {
		return err
	}

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a.Reports, cmd.OutOrStdout())
}

func applyYear(cfg *config.Config, year int) error {
	if year == 0 {
		return nil
	}
	if year < 1 || year > 9999 {
		return withCode(exitUsage, fmt.Errorf("%w: %d", report.ErrInvalidYear, year))
	}
	cfg.Report.Year = year
	return nil
}

func printQuarterly(w io.Writer, rows []report.QuarterlyHires) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEPARTMENT\tJOB\tQ1\tQ2\tQ3\tQ4")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n", r.Department, r.Job, r.Q1, r.Q2, r.Q3, r.Q4)
	}
	return tw.Flush()
}

func printAboveAverage(w io.Writer, rows []report.DepartmentHires) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDEPARTMENT\tHIRED")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", r.ID, r.Department, r.Hired)
	}
	return tw.Flush()
}

func writeXLSXFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return withCode(exitUsage, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return write(f)
}
