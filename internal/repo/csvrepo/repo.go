package csvrepo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/milad/energyreport/internal/domain"
	"github.com/milad/energyreport/internal/metrics"
	"github.com/milad/energyreport/internal/repo"
)

var _ repo.ReadingRepository = (*Repo)(nil)

var (
	ErrDataNotFound     = errors.New("data file not found")
	ErrPermissionDenied = errors.New("data file permission denied")
)

// Repo is an in-memory repository backed by a delimited file loaded at startup.
type Repo struct {
	sorted []domain.Reading // ascending by Time
	loc    *time.Location   // zone of the first reading in file order
	mixed  bool             // naive and aware timestamps both present
}

// NewFromFile loads the dataset at path. It never returns a nil Repo: when
// the file cannot be opened or read, the Repo is empty and the error says why
// (ErrDataNotFound, ErrPermissionDenied, or the read failure). Malformed data
// lines are skipped and reported through the error next to a usable Repo.
func NewFromFile(path string) (*Repo, ParseStats, error) {
	f, err := os.Open(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			err = fmt.Errorf("%w: %q", ErrDataNotFound, path)
		case errors.Is(err, fs.ErrPermission):
			err = fmt.Errorf("%w: %q", ErrPermissionDenied, path)
		default:
			err = fmt.Errorf("open %q: %w", path, err)
		}
		return New(nil), ParseStats{}, err
	}
	defer f.Close()

	readings, stats, parseErr := ParseReadings(f)
	metrics.ObserveParse(stats.Valid, stats.Skipped, stats.Malformed)
	if parseErr != nil {
		return New(readings), stats, fmt.Errorf("parse %q: %w", path, parseErr)
	}
	return New(readings), stats, nil
}

func New(readings []domain.Reading) *Repo {
	cp := append([]domain.Reading(nil), readings...)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Time.Before(cp[j].Time) })

	r := &Repo{sorted: cp, loc: time.UTC}
	if len(readings) > 0 {
		r.loc = readings[0].Time.Location()
	}
	for i := 1; i < len(cp); i++ {
		if domain.IsNaive(cp[i].Time) != domain.IsNaive(cp[0].Time) {
			r.mixed = true
			break
		}
	}
	return r
}

func (r *Repo) List(ctx context.Context, tr domain.TimeRange) ([]domain.Reading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(r.sorted) == 0 {
		return []domain.Reading{}, nil
	}
	if r.mixed || domain.IsNaive(tr.Start) != domain.IsNaive(r.sorted[0].Time) || domain.IsNaive(tr.End) != domain.IsNaive(tr.Start) {
		return nil, domain.ErrTimezoneMismatch
	}

	readings := r.sorted
	i := sort.Search(len(readings), func(i int) bool { return !readings[i].Time.Before(tr.Start) })
	readings = readings[i:]
	j := sort.Search(len(readings), func(i int) bool { return readings[i].Time.After(tr.End) })
	readings = readings[:j]

	out := append([]domain.Reading(nil), readings...)
	return out, nil
}

func (r *Repo) Len() int {
	return len(r.sorted)
}

// Location returns the zone of the first reading in file order, or UTC for an
// empty dataset.
func (r *Repo) Location() *time.Location {
	return r.loc
}

// FirstYear is the calendar year of the earliest reading; ok is false when
// the dataset is empty.
func (r *Repo) FirstYear() (year int, ok bool) {
	if len(r.sorted) == 0 {
		return 0, false
	}
	return r.sorted[0].Time.Year(), true
}
