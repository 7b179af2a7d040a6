package csvrepo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/milad/energyreport/internal/domain"
)

const (
	fieldSep   = ";"
	fieldCount = 4
)

var (
	awareLayouts = []string{
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02T15:04Z07:00",
		"2006-01-02T15:04:05Z0700",
		"2006-01-02 15:04:05Z0700",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
	}
)

// DataFormatError describes a data line whose timestamp parsed but whose
// remaining fields did not.
type DataFormatError struct {
	Line  int // 1-based; 0 when unknown
	Field string
	Value string
	Err   error
}

func (e *DataFormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s %q: %v", e.Line, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

var (
	errFieldCount = errors.New("wrong number of fields")
	errNotFinite  = errors.New("value is not finite")
	errNegative   = errors.New("value must not be negative")
)

// OutcomeKind tags the result of parsing one line.
type OutcomeKind int

const (
	Valid OutcomeKind = iota
	Skip
	Malformed
)

func (k OutcomeKind) String() string {
	switch k {
	case Valid:
		return "valid"
	case Skip:
		return "skip"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of ParseLine. Reading is set for Valid,
// Err for Malformed.
type Outcome struct {
	Kind    OutcomeKind
	Reading domain.Reading
	Err     *DataFormatError
}

// ParseStats counts what ParseReadings saw.
type ParseStats struct {
	Lines     int
	Valid     int
	Skipped   int
	Malformed int
}

// ParseLine parses one raw line of the form
//
//	timestamp;consumption;production;temperature
//
// A line whose first field is not a timestamp (the header, a blank line) is
// Skip. Numeric fields accept ',' as the decimal separator.
func ParseLine(line string) Outcome {
	return parseLine(0, line)
}

func parseLine(lineNum int, line string) Outcome {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, fieldSep)

	ts, ok := parseTimestamp(strings.TrimSpace(fields[0]))
	if !ok {
		return Outcome{Kind: Skip}
	}
	if len(fields) != fieldCount {
		return malformed(lineNum, "fields", line, fmt.Errorf("%w: got %d, want %d", errFieldCount, len(fields), fieldCount))
	}

	cons, err := parseDecimal(fields[1])
	if err != nil {
		return malformed(lineNum, "consumption", fields[1], err)
	}
	if cons < 0 {
		return malformed(lineNum, "consumption", fields[1], errNegative)
	}
	prod, err := parseDecimal(fields[2])
	if err != nil {
		return malformed(lineNum, "production", fields[2], err)
	}
	if prod < 0 {
		return malformed(lineNum, "production", fields[2], errNegative)
	}
	temp, err := parseDecimal(fields[3])
	if err != nil {
		return malformed(lineNum, "temperature", fields[3], err)
	}

	return Outcome{
		Kind: Valid,
		Reading: domain.Reading{
			Time:        ts,
			Consumption: cons,
			Production:  prod,
			Temperature: temp,
		},
	}
}

func malformed(lineNum int, field, value string, err error) Outcome {
	return Outcome{
		Kind: Malformed,
		Err:  &DataFormatError{Line: lineNum, Field: field, Value: strings.TrimSpace(value), Err: err},
	}
}

// parseTimestamp accepts ISO-8601-like date-times. Values without an offset
// are placed in domain.Naive.
func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range awareLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, domain.Naive); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseDecimal(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}

// ParseReadings parses a whole time series.
//
// Header and blank lines are skipped silently. Malformed data lines are
// skipped and returned as a joined error (errors.Join) next to the readings
// that did parse. If the stream itself cannot be read, the dataset is
// discarded: the result is empty and the read error is returned.
func ParseReadings(r io.Reader) ([]domain.Reading, ParseStats, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		readings []domain.Reading
		stats    ParseStats
		lineErrs []error
	)
	for sc.Scan() {
		stats.Lines++
		out := parseLine(stats.Lines, sc.Text())
		switch out.Kind {
		case Valid:
			stats.Valid++
			readings = append(readings, out.Reading)
		case Skip:
			stats.Skipped++
		case Malformed:
			stats.Malformed++
			lineErrs = append(lineErrs, out.Err)
		}
	}
	if err := sc.Err(); err != nil {
		return []domain.Reading{}, stats, fmt.Errorf("read line %d: %w", stats.Lines+1, err)
	}

	// Ensure we return stable, non-nil slice.
	if readings == nil {
		readings = []domain.Reading{}
	}
	return readings, stats, errors.Join(lineErrs...)
}
