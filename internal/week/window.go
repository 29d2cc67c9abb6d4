// Package week derives calendar-week boundaries under a fixed week-start convention.
package week

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the key format used for per-day groupings.
const DateLayout = "2006-01-02"

// Calendar holds the week-start convention shared by every weekly operation.
type Calendar struct {
	FirstDay time.Weekday
	Location *time.Location
}

// Window is an inclusive [Start, End] range covering one calendar week.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewCalendar builds a calendar from a weekday name ("sunday", "Mon", ...) and an IANA zone name.
func NewCalendar(firstDay, timezone string) (Calendar, error) {
	day, err := ParseWeekday(firstDay)
	if err != nil {
		return Calendar{}, err
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Calendar{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	return Calendar{FirstDay: day, Location: loc}, nil
}

// ParseWeekday accepts full or three-letter English weekday names, case-insensitive.
func ParseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if n == full || n == full[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("invalid weekday %q", name)
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// WindowAt returns the week containing now.
// End is the last microsecond of the seventh day, the resolution of a postgres timestamptz.
func (c Calendar) WindowAt(now time.Time) Window {
	local := now.In(c.location())

	offset := (int(local.Weekday()) - int(c.FirstDay) + 7) % 7
	day := local.AddDate(0, 0, -offset)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, c.location())

	// AddDate keeps wall-clock midnight across DST changes.
	next := start.AddDate(0, 0, 7)

	return Window{
		Start: start,
		End:   next.Add(-time.Microsecond),
	}
}

// DateKey renders the calendar date of t in the window's location.
func (w Window) DateKey(t time.Time) string {
	return t.In(w.Start.Location()).Format(DateLayout)
}

// Days lists the seven date keys of the window in order.
func (w Window) Days() []string {
	days := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, w.Start.AddDate(0, 0, i).Format(DateLayout))
	}
	return days
}
