package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	// ErrTimezoneMismatch is returned when naive and offset-aware timestamps
	// would be compared.
	ErrTimezoneMismatch = errors.New("naive and offset-aware timestamps cannot be compared")
)

// Naive is the location given to timestamps whose source carried no UTC offset.
// Comparing a Naive timestamp with an offset-aware one is a caller error.
var Naive = time.FixedZone("naive", 0)

// Reading represents a single electricity sample at a point in time.
type Reading struct {
	Time        time.Time
	Consumption float64 // net consumption, kWh
	Production  float64 // net production, kWh
	Temperature float64 // °C
}

// IsNaive reports whether t was parsed without a UTC offset.
func IsNaive(t time.Time) bool {
	return t.Location() == Naive
}

// TimeRange is the closed interval [Start, End].
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if end.Before(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	if IsNaive(start) != IsNaive(end) {
		return TimeRange{}, ErrTimezoneMismatch
	}
	return TimeRange{Start: start, End: end}, nil
}

// Contains reports whether start <= t <= end.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// PeriodSummary is the aggregate of the readings inside one TimeRange.
type PeriodSummary struct {
	TotalConsumption   float64
	TotalProduction    float64
	AverageTemperature float64
	TemperatureSum     float64
	Count              int
}
