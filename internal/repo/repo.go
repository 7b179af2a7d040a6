package repo

import (
	"context"
	"time"

	"github.com/milad/energyreport/internal/domain"
)

// ReadingRepository provides access to the loaded dataset.
type ReadingRepository interface {
	// List returns readings inside the closed range r in ascending time order.
	// The returned slice must be treated as read-only by callers.
	List(ctx context.Context, r domain.TimeRange) ([]domain.Reading, error)

	// Len returns the number of readings; zero means there is nothing to report on.
	Len() int

	// Location is the time zone range boundaries must be built in.
	Location() *time.Location

	// FirstYear is the calendar year of the earliest reading.
	FirstYear() (year int, ok bool)
}
