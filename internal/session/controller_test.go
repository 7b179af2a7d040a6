package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/milad/energyreport/internal/domain"
)

type fakeBuilder struct {
	dailyCalls []time.Time
	months     []int
	err        error
}

func (f *fakeBuilder) Daily(_ context.Context, start, end time.Time) (domain.Report, error) {
	f.dailyCalls = append(f.dailyCalls, start, end)
	if f.err != nil {
		return domain.Report{}, f.err
	}
	return domain.Report{Kind: domain.ReportDaily, Lines: []string{
		"Daily Report for " + start.Format(dateLayout) + " to " + end.Format(dateLayout),
		"Total Consumption: 3,00 kWh",
		"Total Production: 1,50 kWh",
		"Average Temperature: 3,00 °C",
	}}, nil
}

func (f *fakeBuilder) Monthly(_ context.Context, month int) (domain.Report, error) {
	f.months = append(f.months, month)
	return domain.Report{Kind: domain.ReportMonthly, Lines: []string{"Monthly Report for February"}}, nil
}

func (f *fakeBuilder) Yearly(context.Context) (domain.Report, error) {
	return domain.Report{Kind: domain.ReportYearly, Lines: []string{"Yearly Report for 2025"}}, nil
}

type fakeWriter struct {
	overwrites []domain.Report
	news       []domain.Report
	failures   int
}

func (f *fakeWriter) OverwritePath() string { return "/tmp/out/report.txt" }

func (f *fakeWriter) WriteOverwrite(rep domain.Report) (string, error) {
	if f.failures > 0 {
		f.failures--
		return "", errors.New("disk full")
	}
	f.overwrites = append(f.overwrites, rep)
	return "/tmp/out/report.txt", nil
}

func (f *fakeWriter) WriteNew(rep domain.Report) (string, error) {
	f.news = append(f.news, rep)
	return "/tmp/out/report_1.txt", nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func run(t *testing.T, input string, readings int, b *fakeBuilder, w *fakeWriter) string {
	t.Helper()
	var out bytes.Buffer
	c := NewController(b, w, strings.NewReader(input), &out, discardLogger())
	if err := c.Run(context.Background(), readings); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestController_DailyReportWrittenToNewFile(t *testing.T) {
	t.Parallel()

	b, w := &fakeBuilder{}, &fakeWriter{}
	out := run(t, "1\n01.01.2025\n01.01.2025\n2\n4\n", 3, b, w)

	for _, want := range []string{
		"\nReport:\nDaily Report for 01.01.2025 to 01.01.2025\n",
		"Total Consumption: 3,00 kWh\nTotal Production: 1,50 kWh\nAverage Temperature: 3,00 °C\n" + separator + "\n",
		"1. Write report to 'report.txt'",
		"Report written to 'report_1.txt'.",
		"Exiting the program. Goodbye!",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if len(w.news) != 1 || len(w.overwrites) != 0 {
		t.Fatalf("writes new=%d overwrite=%d", len(w.news), len(w.overwrites))
	}
	if len(b.dailyCalls) != 2 {
		t.Fatalf("daily calls=%v", b.dailyCalls)
	}
}

func TestController_InvalidSelectionRedisplaysMenu(t *testing.T) {
	t.Parallel()

	out := run(t, "9\n4\n", 1, &fakeBuilder{}, &fakeWriter{})

	if got := strings.Count(out, "Main Menu:"); got != 2 {
		t.Fatalf("menu shown %d times want 2:\n%s", got, out)
	}
	if !strings.Contains(out, "Invalid selection. Please choose a valid option (1-4).") {
		t.Fatalf("missing invalid selection message:\n%s", out)
	}
}

func TestController_EmptyDatasetSkipsMenu(t *testing.T) {
	t.Parallel()

	out := run(t, "1\n", 0, &fakeBuilder{}, &fakeWriter{})

	if out != "No data available to generate reports.\n" {
		t.Fatalf("out=%q", out)
	}
}

func TestController_MonthlyRepromptsOnInvalidMonth(t *testing.T) {
	t.Parallel()

	b := &fakeBuilder{}
	out := run(t, "2\n13\nfeb\n2\n3\n4\n", 1, b, &fakeWriter{})

	if got := strings.Count(out, "Invalid month. Please enter a number between 1 and 12."); got != 2 {
		t.Fatalf("invalid month messages=%d want 2:\n%s", got, out)
	}
	if len(b.months) != 1 || b.months[0] != 2 {
		t.Fatalf("months=%v", b.months)
	}
	if !strings.Contains(out, "Returning to Main Menu...") {
		t.Fatalf("missing discard message:\n%s", out)
	}
}

func TestController_WriteFailureAllowsRetry(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{failures: 1}
	out := run(t, "3\n1\n1\n4\n", 1, &fakeBuilder{}, w)

	if !strings.Contains(out, "Could not write the report: disk full") {
		t.Fatalf("missing write error:\n%s", out)
	}
	if len(w.overwrites) != 1 || w.overwrites[0].Title() != "Yearly Report for 2025" {
		t.Fatalf("overwrites=%+v", w.overwrites)
	}
}

func TestController_BuildErrorReturnsToMenu(t *testing.T) {
	t.Parallel()

	b := &fakeBuilder{err: domain.ErrTimezoneMismatch}
	out := run(t, "1\n01.01.2025\n02.01.2025\n4\n", 1, b, &fakeWriter{})

	if !strings.Contains(out, "Could not create the report:") {
		t.Fatalf("missing build error:\n%s", out)
	}
	if strings.Contains(out, "Report Output Menu:") {
		t.Fatalf("output menu shown after failed build:\n%s", out)
	}
}

func TestController_EOFExits(t *testing.T) {
	t.Parallel()

	out := run(t, "1\n", 1, &fakeBuilder{}, &fakeWriter{})

	if !strings.HasSuffix(out, "Exiting the program. Goodbye!\n") {
		t.Fatalf("out=%q", out)
	}
}

func TestController_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewController(&fakeBuilder{}, &fakeWriter{}, strings.NewReader("4\n"), io.Discard, discardLogger())
	if err := c.Run(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want context.Canceled", err)
	}
}
