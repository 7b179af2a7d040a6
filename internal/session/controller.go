package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/milad/energyreport/internal/domain"
)

const separator = "----------------------------------------"

// ReportBuilder renders the three report kinds.
type ReportBuilder interface {
	Daily(ctx context.Context, start, end time.Time) (domain.Report, error)
	Monthly(ctx context.Context, month int) (domain.Report, error)
	Yearly(ctx context.Context) (domain.Report, error)
}

// ReportWriter persists a report and returns the path it wrote.
type ReportWriter interface {
	OverwritePath() string
	WriteOverwrite(rep domain.Report) (string, error)
	WriteNew(rep domain.Report) (string, error)
}

// Controller runs a Session against a line-oriented reader and writer.
type Controller struct {
	builder ReportBuilder
	writer  ReportWriter
	in      *bufio.Scanner
	out     io.Writer
	logger  *slog.Logger
}

func NewController(b ReportBuilder, w ReportWriter, in io.Reader, out io.Writer, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		builder: b,
		writer:  w,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger.With("component", "session"),
	}
}

// Run blocks until the user exits, input ends or ctx is cancelled. With an
// empty dataset it prints a notice and returns without showing the menu.
func (c *Controller) Run(ctx context.Context, readings int) error {
	if readings == 0 {
		fmt.Fprintln(c.out, "No data available to generate reports.")
		return nil
	}

	s := Session{}
	c.prompt(s)
	for s.State != Exit {
		if err := ctx.Err(); err != nil {
			return err
		}

		var input string
		if s.State != ReportDisplay {
			if !c.in.Scan() {
				if err := c.in.Err(); err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				c.logger.DebugContext(ctx, "input closed", "state", s.State)
				fmt.Fprintln(c.out)
				fmt.Fprintln(c.out, "Exiting the program. Goodbye!")
				return nil
			}
			input = c.in.Text()
		}

		next, act := Transition(s, input)
		c.logger.DebugContext(ctx, "transition", "from", s.State, "to", next.State)
		s = c.perform(ctx, next, act)
	}
	return nil
}

func (c *Controller) perform(ctx context.Context, s Session, act Action) Session {
	switch act.Kind {
	case ActPrompt:
		c.prompt(s)

	case ActInvalidSelection:
		fmt.Fprintln(c.out, "Invalid selection. Please choose a valid option (1-4).")
		c.prompt(s)

	case ActInvalidOutputSelection:
		fmt.Fprintln(c.out, "Invalid selection. Please choose a valid option (1-3).")
		fmt.Fprint(c.out, "Please select an option (1-3): ")

	case ActInvalidDate:
		fmt.Fprintln(c.out, "Invalid date format. Please try again.")
		c.prompt(s)

	case ActEndBeforeStart:
		fmt.Fprintln(c.out, "End date cannot be before the start date. Please try again.")
		c.prompt(s)

	case ActInvalidMonth:
		fmt.Fprintln(c.out, "Invalid month. Please enter a number between 1 and 12.")

	case ActBuildDaily:
		return c.built(ctx, s, func() (domain.Report, error) { return c.builder.Daily(ctx, act.Start, act.End) })

	case ActBuildMonthly:
		return c.built(ctx, s, func() (domain.Report, error) { return c.builder.Monthly(ctx, act.Month) })

	case ActBuildYearly:
		return c.built(ctx, s, func() (domain.Report, error) { return c.builder.Yearly(ctx) })

	case ActDisplay:
		c.display(s.Report)
		c.prompt(s)

	case ActWriteOverwrite:
		return c.written(ctx, s, "overwrite", c.writer.WriteOverwrite)

	case ActWriteNew:
		return c.written(ctx, s, "new", c.writer.WriteNew)

	case ActDiscard:
		fmt.Fprintln(c.out, "Returning to Main Menu...")
		c.prompt(s)

	case ActExit:
		fmt.Fprintln(c.out, "Exiting the program. Goodbye!")
	}
	return s
}

func (c *Controller) built(ctx context.Context, s Session, build func() (domain.Report, error)) Session {
	rep, err := build()
	if err != nil {
		c.logger.WarnContext(ctx, "build report", "err", err)
		fmt.Fprintf(c.out, "Could not create the report: %v\n", err)
		c.prompt(s)
		return s
	}
	return Built(rep)
}

func (c *Controller) written(ctx context.Context, s Session, mode string, write func(domain.Report) (string, error)) Session {
	path, err := write(s.Report)
	if err != nil {
		// The report stays in the session so the user can retry.
		c.logger.ErrorContext(ctx, "write report", "mode", mode, "err", err)
		fmt.Fprintf(c.out, "Could not write the report: %v\n", err)
		fmt.Fprint(c.out, "Please select an option (1-3): ")
		return s
	}
	c.logger.InfoContext(ctx, "report written", "mode", mode, "path", path, "kind", s.Report.Kind)
	fmt.Fprintf(c.out, "Report written to '%s'.\n", filepath.Base(path))

	next := Written(s)
	c.prompt(next)
	return next
}

func (c *Controller) display(rep domain.Report) {
	var b strings.Builder
	b.WriteString("\nReport:\n")
	for _, line := range rep.Lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(separator)
	b.WriteString("\n\n")
	fmt.Fprint(c.out, b.String())
}

func (c *Controller) prompt(s Session) {
	switch s.State {
	case MainMenu:
		fmt.Fprint(c.out, "Main Menu:\n"+
			"1. Create Daily Report for a Date Range\n"+
			"2. Create Monthly Report for one Month\n"+
			"3. Create Yearly Report for one Year\n"+
			"4. Exit\n"+
			"Please select an option (1-4): ")
	case DailyStartPrompt:
		fmt.Fprintln(c.out, "Please enter the start date (dd.mm.yyyy):")
	case DailyEndPrompt:
		fmt.Fprintln(c.out, "Please enter the end date (dd.mm.yyyy):")
	case MonthlyPrompt:
		fmt.Fprintln(c.out, "Please enter the month for the report (MM):")
	case OutputMenu:
		fmt.Fprintf(c.out, "Report Output Menu:\n"+
			"1. Write report to '%s'\n"+
			"2. Write report to a new numbered file\n"+
			"3. Discard and return to Main Menu\n"+
			"Please select an option (1-3): ", filepath.Base(c.writer.OverwritePath()))
	}
}
