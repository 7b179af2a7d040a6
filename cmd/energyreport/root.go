package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/milad/energyreport/internal/config"
	"github.com/milad/energyreport/internal/locale"
	"github.com/milad/energyreport/internal/logging"
	"github.com/milad/energyreport/internal/metrics"
	"github.com/milad/energyreport/internal/repo/csvrepo"
	"github.com/milad/energyreport/internal/service"
	"github.com/milad/energyreport/internal/session"
	"github.com/milad/energyreport/internal/sink"
)

// cli carries what PersistentPreRunE loads to the command that runs.
type cli struct {
	cfg    *config.Config
	logger *slog.Logger
}

// app is the wired dataset, report service and sink for one run.
type app struct {
	repo *csvrepo.Repo
	svc  *service.ReportService
	sink *sink.Sink
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "energyreport",
		Short: "Interactive electricity consumption and production reports",
		Long: `energyreport loads a semicolon-delimited file of hourly readings
(timestamp;consumption;production;temperature) and builds daily, monthly and
yearly reports. Without a subcommand it starts an interactive menu.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg == nil {
				return nil
			}
			if err := metrics.WriteTextfile(c.cfg.Metrics.Textfile); err != nil {
				return fmt.Errorf("write metrics textfile: %w", err)
			}
			return nil
		},
		RunE: c.runSession,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file path (default: ./config/config.yaml)")
	pf.String("data", "", "dataset file (default: 2025.csv)")
	pf.String("report-dir", "", "directory report files are written to")
	pf.String("format", "", "report file format: txt, xlsx or pdf")
	pf.Int("year", 0, "year for monthly and yearly reports (default: year of the earliest reading)")
	pf.String("locale", "", "month and weekday names: en, fi or one from --locale-file")
	pf.String("locale-file", "", "YAML file with extra locales")
	pf.Bool("breakdown", false, "append a per-day breakdown to every report")
	pf.String("log-level", "", "log level override (debug, info, warn, error)")
	pf.String("log-format", "", "log format (text, json)")
	pf.String("metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(newReportCmd(c))
	root.AddCommand(newVersionCmd())
	return root
}

func (c *cli) load(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	c.cfg = cfg
	c.logger = logger
	return nil
}

// open loads the dataset and wires the report pipeline. An unreadable
// dataset is logged and yields an empty repository rather than an error.
func (c *cli) open(logger *slog.Logger) (*app, error) {
	cfg := c.cfg
	dataLog := logger.With(logging.FieldComponent, "csvrepo", logging.FieldPath, cfg.Data.Path)

	repo, stats, err := csvrepo.NewFromFile(cfg.Data.Path)
	switch {
	case err == nil:
	case errors.Is(err, csvrepo.ErrDataNotFound), errors.Is(err, csvrepo.ErrPermissionDenied):
		dataLog.Error("dataset unavailable", logging.FieldError, err)
	default:
		var first *csvrepo.DataFormatError
		if errors.As(err, &first) {
			err = first
		}
		dataLog.Warn("dataset has unusable lines",
			"valid", stats.Valid, "skipped", stats.Skipped, "malformed", stats.Malformed,
			logging.FieldError, err)
	}
	dataLog.Info("dataset loaded", "readings", repo.Len(), "lines", stats.Lines)

	reg := locale.NewRegistry()
	if cfg.Report.LocaleFile != "" {
		if err := reg.LoadFile(cfg.Report.LocaleFile); err != nil {
			return nil, err
		}
	}
	loc, err := reg.Get(cfg.Report.Locale)
	if err != nil {
		return nil, fmt.Errorf("%w (have %v)", err, reg.Names())
	}

	enc, err := sink.EncoderFor(cfg.Report.Format)
	if err != nil {
		return nil, err
	}

	svc := service.NewReportService(repo, service.Options{
		Year:           cfg.Report.Year,
		Locale:         loc,
		DailyBreakdown: cfg.Report.DailyBreakdown,
		Logger:         logger,
	})
	return &app{
		repo: repo,
		svc:  svc,
		sink: sink.New(sink.Config{
			Dir:           cfg.Report.Dir,
			OverwriteName: cfg.Report.OverwriteName,
			Prefix:        cfg.Report.Prefix,
			Encoder:       enc,
			Logger:        logger,
		}),
	}, nil
}

func (c *cli) runSession(cmd *cobra.Command, _ []string) error {
	logger, _ := logging.WithSession(c.logger)
	a, err := c.open(logger)
	if err != nil {
		return err
	}

	logger.Info("session started", "year", a.svc.Year(), "readings", a.repo.Len())
	ctrl := session.NewController(a.svc, a.sink, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	err = ctrl.Run(cmd.Context(), a.repo.Len())
	if errors.Is(err, context.Canceled) {
		logger.Info("session interrupted")
		return nil
	}
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Skip config loading; version must work with a broken config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "energyreport %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
		},
	}
}
