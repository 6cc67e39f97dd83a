// Package daterange holds the dashboard's selected reporting interval.
package daterange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxSpanDays bounds how many days a single range may cover.
const MaxSpanDays = 5 * 366

const secondsPerDay = 24 * 60 * 60

var (
	ErrMissingBound  = errors.New("please select both start and end dates")
	ErrStartAfterEnd = errors.New("start date must not be after end date")
	ErrRangeTooLong  = fmt.Errorf("date range must not exceed %d days", MaxSpanDays)
)

// Range is an inclusive interval of calendar days. Both bounds are UTC midnights.
type Range struct {
	Start time.Time
	End   time.Time
}

// Day truncates t to its calendar day, keeping the wall-clock date of t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DefaultFor returns the first and last calendar day of now's month.
func DefaultFor(now time.Time) Range {
	y, m, _ := now.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return Range{Start: first, End: first.AddDate(0, 1, -1)}
}

func New(start, end time.Time) (Range, error) {
	if start.IsZero() || end.IsZero() {
		return Range{}, ErrMissingBound
	}
	r := Range{Start: Day(start), End: Day(end)}
	if err := r.Check(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Parse reads two YYYY-MM-DD bounds.
func Parse(start, end string) (Range, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return Range{}, ErrMissingBound
	}
	s, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return Range{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return Range{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return New(s, e)
}

// ParseKey is the inverse of Key.
func ParseKey(key string) (Range, error) {
	start, end, ok := strings.Cut(key, "|")
	if !ok {
		return Range{}, ErrMissingBound
	}
	return Parse(start, end)
}

// Days is the inclusive number of calendar days. It counts whole days
// between the two midnights, so it holds for spans beyond time.Duration.
func (r Range) Days() int {
	if r.Start.IsZero() || r.End.IsZero() || r.Start.After(r.End) {
		return 0
	}
	return int((Day(r.End).Unix()-Day(r.Start).Unix())/secondsPerDay) + 1
}

// Each calls fn for every day in ascending order.
func (r Range) Each(fn func(day time.Time)) {
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

func (r Range) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r Range) StartString() string { return r.Start.Format(time.DateOnly) }
func (r Range) EndString() string   { return r.End.Format(time.DateOnly) }

// Key identifies the range in sessions, request tags and the backend's "value" parameter.
func (r Range) Key() string {
	return r.StartString() + "|" + r.EndString()
}

func (r Range) String() string {
	return r.StartString() + " to " + r.EndString()
}

// Check reports why r cannot be used as a reporting interval.
func (r Range) Check() error {
	switch {
	case r.Start.IsZero() || r.End.IsZero():
		return ErrMissingBound
	case r.Start.After(r.End):
		return ErrStartAfterEnd
	case r.Days() > MaxSpanDays:
		return ErrRangeTooLong
	}
	return nil
}

func (r Range) Valid() bool {
	return r.Check() == nil
}
