package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/milad/energyreport/internal/domain"
	"github.com/milad/energyreport/internal/service"
)

var errNoData = errors.New("no data available to generate reports")

func newReportCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print one report and optionally write it to a file",
	}
	cmd.PersistentFlags().String("write", "", "also write the report: overwrite or new")

	daily := &cobra.Command{
		Use:     "daily",
		Short:   "Report on a range of calendar days",
		Example: "  energyreport report daily --from 01.01.2025 --to 07.01.2025",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			start, err := service.ParseDate(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			end, err := service.ParseDate(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			return c.runReport(cmd, func(ctx context.Context, svc *service.ReportService) (domain.Report, error) {
				return svc.Daily(ctx, start, end)
			})
		},
	}
	daily.Flags().String("from", "", "first day (dd.mm.yyyy)")
	daily.Flags().String("to", "", "last day, inclusive (dd.mm.yyyy)")
	_ = daily.MarkFlagRequired("from")
	_ = daily.MarkFlagRequired("to")

	monthly := &cobra.Command{
		Use:   "monthly",
		Short: "Report on one month of the report year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			month, _ := cmd.Flags().GetInt("month")
			return c.runReport(cmd, func(ctx context.Context, svc *service.ReportService) (domain.Report, error) {
				return svc.Monthly(ctx, month)
			})
		},
	}
	monthly.Flags().Int("month", 0, "month number, 1-12")
	_ = monthly.MarkFlagRequired("month")

	yearly := &cobra.Command{
		Use:   "yearly",
		Short: "Report on the whole report year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReport(cmd, func(ctx context.Context, svc *service.ReportService) (domain.Report, error) {
				return svc.Yearly(ctx)
			})
		},
	}

	cmd.AddCommand(daily, monthly, yearly)
	return cmd
}

func (c *cli) runReport(cmd *cobra.Command, build func(context.Context, *service.ReportService) (domain.Report, error)) error {
	mode, _ := cmd.Flags().GetString("write")
	if mode != "" && mode != "overwrite" && mode != "new" {
		return fmt.Errorf("--write %q: want overwrite or new", mode)
	}

	a, err := c.open(c.logger)
	if err != nil {
		return err
	}
	if a.repo.Len() == 0 {
		return errNoData
	}

	rep, err := build(cmd.Context(), a.svc)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, line := range rep.Lines {
		fmt.Fprintln(out, line)
	}

	var path string
	switch mode {
	case "overwrite":
		path, err = a.sink.WriteOverwrite(rep)
	case "new":
		path, err = a.sink.WriteNew(rep)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Report written to '%s'.\n", filepath.Base(path))
	return nil
}
