// Package interval implements half-open time ranges [From, To) and the
// overlap rule used to keep a technician's active locations and
// availability windows from colliding.
package interval

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is returned when From is not strictly before To.
var ErrInvalid = errors.New("invalid interval")

// Interval is a half-open range: From is included, To is not.
type Interval struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Precision is the resolution intervals are stored at.
const Precision = time.Microsecond

// New builds an interval at storage precision and validates it, so a
// range that collapses when truncated is rejected here.
func New(from, to time.Time) (Interval, error) {
	iv := Interval{From: from.UTC().Truncate(Precision), To: to.UTC().Truncate(Precision)}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// Validate reports ErrInvalid unless From < To.
func (iv Interval) Validate() error {
	if iv.From.IsZero() || iv.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalid)
	}
	if !iv.From.Before(iv.To) {
		return fmt.Errorf("%w: from %s must be before to %s", ErrInvalid,
			iv.From.Format(time.RFC3339), iv.To.Format(time.RFC3339))
	}
	return nil
}

// Overlaps uses the half-open rule, so [a,b) and [b,c) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.From.Before(other.To) && other.From.Before(iv.To)
}

// Contains reports whether t falls inside [From, To).
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.From) && t.Before(iv.To)
}

// FirstOverlap returns the index of the first element of existing that
// overlaps iv, or -1.
func FirstOverlap(iv Interval, existing []Interval) int {
	for i, e := range existing {
		if iv.Overlaps(e) {
			return i
		}
	}
	return -1
}

// Parse reads an interval from two RFC3339 strings. A bare
// "2006-01-02T15:04" form is also accepted and treated as UTC.
func Parse(from, to string) (Interval, error) {
	f, err := parseTime(from)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: from: %v", ErrInvalid, err)
	}
	t, err := parseTime(to)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: to: %v", ErrInvalid, err)
	}
	return New(f, t)
}

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseTime(s string) (time.Time, error) {
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q", s)
}
