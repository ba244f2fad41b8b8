// Package slottime is the single authority for turning a recurring slot's
// time of day into a wall-clock instant on a concrete calendar date.
//
// Slot times are stored as minutes since midnight. Older data anchored the
// time of day on a timestamp in an arbitrary reference year; FromLegacy reads
// those by UTC hour and minute only, so the storage year never leaks into the
// projected appointment time.
package slottime

import (
	"errors"
	"fmt"
	"time"
)

const (
	MinutesPerDay = 24 * 60

	// DefaultSlotMinutes is the span assumed for a slot configured without an end.
	DefaultSlotMinutes = 60

	DateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// TimeOfDay counts minutes since midnight. MinutesPerDay itself is accepted
// as an end-of-day bound.
type TimeOfDay int

func New(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || minute < 0 || minute > 59 {
		return 0, ErrInvalidTimeOfDay
	}
	tod := TimeOfDay(hour*60 + minute)
	if !tod.Valid() {
		return 0, ErrInvalidTimeOfDay
	}
	return tod, nil
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t <= MinutesPerDay
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Parse reads an "HH:MM" string. "24:00" is allowed as an end bound.
func Parse(s string) (TimeOfDay, error) {
	if s == "24:00" {
		return MinutesPerDay, nil
	}
	p, err := time.Parse(timeLayout, s)
	if err != nil {
		return 0, ErrInvalidTimeOfDay
	}
	return New(p.Hour(), p.Minute())
}

// FromLegacy extracts the time of day from an epoch-anchored timestamp using
// its UTC components. The result does not depend on which year the
// timestamp was stored in.
func FromLegacy(stored time.Time) TimeOfDay {
	u := stored.UTC()
	return TimeOfDay(u.Hour()*60 + u.Minute())
}

// Project anchors tod on the calendar day of date in loc. Only the year,
// month and day of date are read; its own clock and zone are ignored.
func Project(tod TimeOfDay, date time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), 0, 0, loc)
}

// ProjectUTC is Project in UTC.
func ProjectUTC(tod TimeOfDay, date time.Time) time.Time {
	return Project(tod, date, time.UTC)
}

// Span is a slot's window. End is derived from DefaultSlotMinutes when the slot
// has no configured end.
type Span struct {
	Start  TimeOfDay
	End    TimeOfDay
	HasEnd bool
}

func NewSpan(startMinute int, endMinute *int) (Span, error) {
	start := TimeOfDay(startMinute)
	if !start.Valid() || start == MinutesPerDay {
		return Span{}, ErrInvalidTimeOfDay
	}
	if endMinute == nil {
		end := start + DefaultSlotMinutes
		if end > MinutesPerDay {
			end = MinutesPerDay
		}
		return Span{Start: start, End: end}, nil
	}
	end := TimeOfDay(*endMinute)
	if !end.Valid() || end <= start {
		return Span{}, ErrInvalidTimeOfDay
	}
	return Span{Start: start, End: end, HasEnd: true}, nil
}

// Overlaps treats spans as half-open intervals, so back-to-back slots do not
// collide.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Display renders the span's start and configured end ("" when the slot has
// no end) exactly as configured. A wall-clock time skipped by a DST change
// still reads as configured; only Project shifts it.
func (s Span) Display() (string, string) {
	if !s.HasEnd {
		return s.Start.String(), ""
	}
	return s.Start.String(), s.End.String()
}

// ParseDate reads a YYYY-MM-DD calendar date. The result is midnight UTC and
// should only be used for its calendar components.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func DateKey(date time.Time) string {
	return date.Format(DateLayout)
}
