package model

import (
	"fmt"
	"time"
)

// Horizon is the inclusive date range slots are generated for.
type Horizon struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewHorizon normalizes both bounds to midnight UTC.
func NewHorizon(start, end time.Time) Horizon {
	return Horizon{Start: DateOnly(start), End: DateOnly(end)}
}

// HorizonFrom builds a horizon of days consecutive dates starting at start.
func HorizonFrom(start time.Time, days int) Horizon {
	s := DateOnly(start)
	return Horizon{Start: s, End: s.AddDate(0, 0, days-1)}
}

// Contains reports whether the date falls within the horizon.
func (h Horizon) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(h.Start) && !d.After(h.End)
}

// Days returns the number of dates covered, or 0 for an inverted range.
func (h Horizon) Days() int {
	n := int(h.End.Sub(h.Start).Hours()/24) + 1
	if n < 0 {
		return 0
	}
	return n
}

// Validate rejects inverted horizons.
func (h Horizon) Validate() error {
	if h.End.Before(h.Start) {
		return fmt.Errorf("horizon end %s before start %s",
			h.End.Format("2006-01-02"), h.Start.Format("2006-01-02"))
	}
	return nil
}

// DateOnly strips the time-of-day component, normalizing to midnight UTC.
// All slot dates and lateness arithmetic work on these normalized values.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextMonday returns the next Monday on or after the given date. Weekly
// planning horizons conventionally start there.
func NextMonday(from time.Time) time.Time {
	d := DateOnly(from)
	offset := (int(time.Monday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}
