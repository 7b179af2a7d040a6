package aggregate

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/milad/energyreport/internal/domain"
)

func at(day, hour int) time.Time {
	return time.Date(2025, 1, day, hour, 0, 0, 0, domain.Naive)
}

func fixture() []domain.Reading {
	return []domain.Reading{
		{Time: at(1, 0), Consumption: 1.0, Production: 0.5, Temperature: 2.0},
		{Time: at(1, 12), Consumption: 2.0, Production: 1.0, Temperature: 4.0},
		{Time: at(2, 0), Consumption: 3.0, Production: 1.5, Temperature: 6.0},
	}
}

func TestSummarize_ClosedRange(t *testing.T) {
	t.Parallel()

	got, err := Summarize(fixture(), domain.TimeRange{Start: at(1, 0), End: at(1, 12)})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got.Count != 2 {
		t.Fatalf("Count=%d want 2", got.Count)
	}
	if got.TotalConsumption != 3.0 || got.TotalProduction != 1.5 || got.AverageTemperature != 3.0 {
		t.Fatalf("unexpected summary: %+v", got)
	}
}

func TestSummarize_EmptyIsZero(t *testing.T) {
	t.Parallel()

	ranges := []domain.TimeRange{
		{Start: at(5, 0), End: at(6, 0)},
		{Start: at(1, 1), End: at(1, 11)},
	}
	for _, r := range ranges {
		got, err := Summarize(fixture(), r)
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		if got != (domain.PeriodSummary{}) {
			t.Fatalf("summary=%+v want zero value", got)
		}
	}

	got, err := Summarize(nil, ranges[0])
	if err != nil {
		t.Fatalf("Summarize(nil): %v", err)
	}
	if got.Count != 0 || got.AverageTemperature != 0.0 || math.IsNaN(got.AverageTemperature) {
		t.Fatalf("summary=%+v want zero value", got)
	}
}

func TestSummarize_TotalsAreAdditive(t *testing.T) {
	t.Parallel()

	full := domain.TimeRange{Start: at(1, 0), End: at(2, 23)}
	left := domain.TimeRange{Start: at(1, 0), End: at(1, 23)}
	right := domain.TimeRange{Start: at(2, 0), End: at(2, 23)}

	whole, _ := Summarize(fixture(), full)
	a, _ := Summarize(fixture(), left)
	b, _ := Summarize(fixture(), right)
	combined := Combine(a, b)

	if math.Abs(a.TotalConsumption+b.TotalConsumption-whole.TotalConsumption) > 1e-9 {
		t.Fatalf("consumption not additive: %v + %v != %v", a.TotalConsumption, b.TotalConsumption, whole.TotalConsumption)
	}
	if math.Abs(a.TotalProduction+b.TotalProduction-whole.TotalProduction) > 1e-9 {
		t.Fatalf("production not additive")
	}
	// The average is not additive; Combine recomputes it from sum and count.
	if math.Abs(combined.AverageTemperature-whole.AverageTemperature) > 1e-9 {
		t.Fatalf("combined avg=%v want %v", combined.AverageTemperature, whole.AverageTemperature)
	}
	if combined.Count != whole.Count {
		t.Fatalf("combined count=%d want %d", combined.Count, whole.Count)
	}
}

func TestSummarize_TimezoneMismatchFailsFast(t *testing.T) {
	t.Parallel()

	r := domain.TimeRange{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	if _, err := Summarize(fixture(), r); !errors.Is(err, domain.ErrTimezoneMismatch) {
		t.Fatalf("err=%v want ErrTimezoneMismatch", err)
	}
}

func TestDaily_GroupsByCalendarDay(t *testing.T) {
	t.Parallel()

	days, err := Daily(fixture(), domain.TimeRange{Start: at(1, 0), End: at(31, 23)})
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if got, want := len(days), 2; got != want {
		t.Fatalf("len(days)=%d want %d", got, want)
	}
	if !days[0].Date.Equal(at(1, 0)) || !days[1].Date.Equal(at(2, 0)) {
		t.Fatalf("unexpected dates: %v, %v", days[0].Date, days[1].Date)
	}
	if got, want := days[0].Summary.TotalConsumption, 3.0; got != want {
		t.Fatalf("day 1 consumption=%v want %v", got, want)
	}
	if got, want := days[1].Summary.AverageTemperature, 6.0; got != want {
		t.Fatalf("day 2 avg temp=%v want %v", got, want)
	}
}
