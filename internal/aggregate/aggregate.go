// Package aggregate computes period summaries over readings.
//
// All functions are pure: they take the readings and the range explicitly and
// never touch I/O.
package aggregate

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/milad/energyreport/internal/domain"
)

// Summarize totals consumption and production and averages temperature over
// the readings inside the closed range r. An empty selection yields a zero
// summary, including a 0.0 average.
//
// The range and every reading must agree on being naive or offset-aware;
// otherwise nothing is summed and domain.ErrTimezoneMismatch is returned.
func Summarize(readings []domain.Reading, r domain.TimeRange) (domain.PeriodSummary, error) {
	if err := checkZones(readings, r); err != nil {
		return domain.PeriodSummary{}, err
	}
	in := lo.Filter(readings, func(rd domain.Reading, _ int) bool { return r.Contains(rd.Time) })
	return summarize(in), nil
}

// Combine merges two summaries of disjoint ranges. Totals add up; the average
// is recomputed from the combined temperature sum and count.
func Combine(a, b domain.PeriodSummary) domain.PeriodSummary {
	out := domain.PeriodSummary{
		TotalConsumption: a.TotalConsumption + b.TotalConsumption,
		TotalProduction:  a.TotalProduction + b.TotalProduction,
		TemperatureSum:   a.TemperatureSum + b.TemperatureSum,
		Count:            a.Count + b.Count,
	}
	out.AverageTemperature = average(out.TemperatureSum, out.Count)
	return out
}

// DaySummary is the summary of one calendar day.
type DaySummary struct {
	Date    time.Time // midnight, in the readings' location
	Summary domain.PeriodSummary
}

// Daily splits the readings inside r into calendar days, ascending by date.
// Days without readings are omitted.
func Daily(readings []domain.Reading, r domain.TimeRange) ([]DaySummary, error) {
	if err := checkZones(readings, r); err != nil {
		return nil, err
	}
	in := lo.Filter(readings, func(rd domain.Reading, _ int) bool { return r.Contains(rd.Time) })
	byDay := lo.GroupBy(in, func(rd domain.Reading) time.Time {
		y, m, d := rd.Time.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, rd.Time.Location())
	})

	days := lo.Keys(byDay)
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	out := make([]DaySummary, 0, len(days))
	for _, day := range days {
		out = append(out, DaySummary{Date: day, Summary: summarize(byDay[day])})
	}
	return out, nil
}

func summarize(in []domain.Reading) domain.PeriodSummary {
	s := domain.PeriodSummary{
		TotalConsumption: lo.SumBy(in, func(rd domain.Reading) float64 { return rd.Consumption }),
		TotalProduction:  lo.SumBy(in, func(rd domain.Reading) float64 { return rd.Production }),
		TemperatureSum:   lo.SumBy(in, func(rd domain.Reading) float64 { return rd.Temperature }),
		Count:            len(in),
	}
	s.AverageTemperature = average(s.TemperatureSum, s.Count)
	return s
}

func average(sum float64, n int) float64 {
	if n == 0 {
		return 0.0
	}
	return sum / float64(n)
}

func checkZones(readings []domain.Reading, r domain.TimeRange) error {
	naive := domain.IsNaive(r.Start)
	if domain.IsNaive(r.End) != naive {
		return domain.ErrTimezoneMismatch
	}
	if lo.ContainsBy(readings, func(rd domain.Reading) bool { return domain.IsNaive(rd.Time) != naive }) {
		return domain.ErrTimezoneMismatch
	}
	return nil
}
