package csvrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milad/energyreport/internal/domain"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	got, ok := parseTimestamp(s)
	if !ok {
		t.Fatalf("parse time %q", s)
	}
	return got
}

func TestRepo_ListIsClosedOnBothEnds(t *testing.T) {
	t.Parallel()

	r := New([]domain.Reading{
		{Time: mustTime(t, "2025-01-01T00:45:00"), Consumption: 3},
		{Time: mustTime(t, "2025-01-01T00:15:00"), Consumption: 1},
		{Time: mustTime(t, "2025-01-01T00:30:00"), Consumption: 2},
		{Time: mustTime(t, "2025-01-01T01:00:00"), Consumption: 4},
	})

	tr := domain.TimeRange{Start: mustTime(t, "2025-01-01T00:30:00"), End: mustTime(t, "2025-01-01T00:45:00")}
	out, err := r.List(context.Background(), tr)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got, want := len(out), 2; got != want {
		t.Fatalf("len(out)=%d want %d", got, want)
	}
	if out[0].Consumption != 2 || out[1].Consumption != 3 {
		t.Fatalf("unexpected readings: %#v", out)
	}
}

func TestRepo_FirstYearUsesEarliestReading(t *testing.T) {
	t.Parallel()

	r := New([]domain.Reading{
		{Time: mustTime(t, "2025-01-02T00:00:00"), Consumption: 2},
		{Time: mustTime(t, "2024-12-31T23:00:00"), Consumption: 1},
	})
	if year, ok := r.FirstYear(); !ok || year != 2024 {
		t.Fatalf("FirstYear()=%d,%v want 2024,true", year, ok)
	}
	if _, ok := New(nil).FirstYear(); ok {
		t.Fatalf("FirstYear() on empty repo reported ok")
	}
}

func TestRepo_ListRejectsTimezoneMismatch(t *testing.T) {
	t.Parallel()

	r := New([]domain.Reading{{Time: mustTime(t, "2025-01-01T00:00:00")}})
	tr := domain.TimeRange{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	if _, err := r.List(context.Background(), tr); !errors.Is(err, domain.ErrTimezoneMismatch) {
		t.Fatalf("err=%v want ErrTimezoneMismatch", err)
	}
}

func TestRepo_LocationFollowsFirstReading(t *testing.T) {
	t.Parallel()

	r := New([]domain.Reading{{Time: mustTime(t, "2025-01-01T00:00:00+02:00")}})
	_, offset := time.Date(2025, 1, 1, 0, 0, 0, 0, r.Location()).Zone()
	if offset != 2*60*60 {
		t.Fatalf("offset=%d want %d", offset, 2*60*60)
	}
}

func TestNewFromFile_NotFound(t *testing.T) {
	t.Parallel()

	r, _, err := NewFromFile(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, ErrDataNotFound) {
		t.Fatalf("err=%v want ErrDataNotFound", err)
	}
	if r == nil || r.Len() != 0 {
		t.Fatalf("expected empty, non-nil repo")
	}
}

func TestNewFromFile_PermissionDenied(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	path := filepath.Join(t.TempDir(), "locked.csv")
	if err := os.WriteFile(path, []byte("timestamp;a;b;c\n"), 0o000); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, _, err := NewFromFile(path)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err=%v want ErrPermissionDenied", err)
	}
	if r.Len() != 0 {
		t.Fatalf("Len()=%d want 0", r.Len())
	}
}

func TestNewFromFile_PartialParseKeepsGoodLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "2025.csv")
	data := "timestamp;consumption;production;temperature\n" +
		"2025-01-01T00:00:00;1,0;0,5;2,0\n" +
		"2025-01-01T01:00:00;oops;0,5;2,0\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, stats, err := NewFromFile(path)
	if err == nil {
		t.Fatalf("expected parse warning, got nil")
	}
	if got, want := r.Len(), 1; got != want {
		t.Fatalf("Len()=%d want %d", got, want)
	}
	if got, want := stats.Malformed, 1; got != want {
		t.Fatalf("stats.Malformed=%d want %d", got, want)
	}
}
