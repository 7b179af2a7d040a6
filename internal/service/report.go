package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/milad/energyreport/internal/aggregate"
	"github.com/milad/energyreport/internal/domain"
	"github.com/milad/energyreport/internal/locale"
	"github.com/milad/energyreport/internal/metrics"
	"github.com/milad/energyreport/internal/repo"
)

var (
	ErrInvalidTimeRange = domain.ErrInvalidTimeRange
	ErrInvalidMonth     = errors.New("invalid month")
)

// DateLayout is the external date format used in titles and user input.
const DateLayout = "02.01.2006"

type Options struct {
	// Year for monthly and yearly reports. Zero means the year of the
	// earliest reading in the dataset.
	Year           int
	Locale         locale.Locale
	DailyBreakdown bool
	Logger         *slog.Logger
}

// ReportService renders daily, monthly and yearly reports over a dataset.
type ReportService struct {
	repo      repo.ReadingRepository
	year      int
	loc       locale.Locale
	breakdown bool
	logger    *slog.Logger
}

func NewReportService(r repo.ReadingRepository, opts Options) *ReportService {
	year := opts.Year
	if year == 0 {
		if y, ok := r.FirstYear(); ok {
			year = y
		} else {
			year = time.Now().Year()
		}
	}
	if opts.Locale.Name == "" {
		opts.Locale = locale.English
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		repo:      r,
		year:      year,
		loc:       opts.Locale,
		breakdown: opts.DailyBreakdown,
		logger:    logger.With("component", "service"),
	}
}

// Year is the calendar year monthly and yearly reports cover.
func (s *ReportService) Year() int { return s.year }

// Daily reports on the calendar days start..end inclusive. Only the dates of
// start and end are used; the range is built in the dataset's zone.
func (s *ReportService) Daily(ctx context.Context, start, end time.Time) (domain.Report, error) {
	tr, err := DayRange(start, end, s.repo.Location())
	if err != nil {
		return domain.Report{}, err
	}
	title := fmt.Sprintf("Daily Report for %s to %s", tr.Start.Format(DateLayout), tr.End.Format(DateLayout))
	return s.build(ctx, domain.ReportDaily, title, tr)
}

func (s *ReportService) Monthly(ctx context.Context, month int) (domain.Report, error) {
	tr, err := MonthRange(s.year, month, s.repo.Location())
	if err != nil {
		return domain.Report{}, err
	}
	title := fmt.Sprintf("Monthly Report for %s", s.loc.Month(time.Month(month)))
	return s.build(ctx, domain.ReportMonthly, title, tr)
}

func (s *ReportService) Yearly(ctx context.Context) (domain.Report, error) {
	tr := YearRange(s.year, s.repo.Location())
	title := fmt.Sprintf("Yearly Report for %d", s.year)
	return s.build(ctx, domain.ReportYearly, title, tr)
}

func (s *ReportService) build(ctx context.Context, kind domain.ReportKind, title string, tr domain.TimeRange) (domain.Report, error) {
	started := time.Now()

	readings, err := s.repo.List(ctx, tr)
	if err != nil {
		return domain.Report{}, fmt.Errorf("list readings: %w", err)
	}
	sum, err := aggregate.Summarize(readings, tr)
	if err != nil {
		return domain.Report{}, fmt.Errorf("summarize: %w", err)
	}

	lines := []string{
		title,
		fmt.Sprintf("Total Consumption: %s kWh", FormatDecimal(sum.TotalConsumption)),
		fmt.Sprintf("Total Production: %s kWh", FormatDecimal(sum.TotalProduction)),
		fmt.Sprintf("Average Temperature: %s °C", FormatDecimal(sum.AverageTemperature)),
	}
	if s.breakdown {
		days, err := aggregate.Daily(readings, tr)
		if err != nil {
			return domain.Report{}, fmt.Errorf("daily breakdown: %w", err)
		}
		lines = append(lines, breakdownLines(days, s.loc)...)
	}

	dur := time.Since(started)
	metrics.ObserveReport(string(kind), dur)
	s.logger.DebugContext(ctx, "report built",
		"kind", kind, "readings", sum.Count, "start", tr.Start, "end", tr.End, "duration", dur)

	return domain.Report{
		Kind:    kind,
		Range:   tr,
		Summary: sum,
		Lines:   lines,
	}, nil
}

func breakdownLines(days []aggregate.DaySummary, loc locale.Locale) []string {
	if len(days) == 0 {
		return nil
	}
	out := make([]string, 0, len(days)+1)
	out = append(out, "")
	for _, d := range days {
		out = append(out, fmt.Sprintf("%-12s %s  %s kWh  %s kWh  %s °C",
			loc.Weekday(d.Date.Weekday()),
			d.Date.Format(DateLayout),
			FormatDecimal(d.Summary.TotalConsumption),
			FormatDecimal(d.Summary.TotalProduction),
			FormatDecimal(d.Summary.AverageTemperature),
		))
	}
	return out
}
