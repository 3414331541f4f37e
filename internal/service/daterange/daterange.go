// Package daterange turns the dashboard range tokens into inclusive calendar-day bounds.
package daterange

import (
	"strings"
	"time"

	"github.com/sowmensarker/ambika/internal/domain/models"
)

// DayLayout is the calendar-day format used for every stored date.
const DayLayout = "2006-01-02"

// Supported range tokens.
const (
	Today     = "today"
	SevenDays = "7 days"
	OneMonth  = "1 month"
	SixMonths = "6 month"
	OneYear   = "1 year"
)

// Default is used when a request does not name a range.
const Default = SevenDays

// Tokens lists the accepted range tokens in display order.
var Tokens = []string{Today, SevenDays, OneMonth, SixMonths, OneYear}

// Day formats t as a calendar-day string in t's own location.
func Day(t time.Time) string {
	return t.Format(DayLayout)
}

// Resolve maps a range token to its [from, to] calendar days relative to now.
// Bounds are computed in now's location.
func Resolve(token string, now time.Time) (string, string, error) {
	y, m, d := now.Date()
	loc := now.Location()

	var from, to time.Time
	switch strings.ToLower(strings.TrimSpace(token)) {
	case Today:
		from, to = now, now
	case SevenDays:
		from, to = time.Date(y, m, d-7, 0, 0, 0, 0, loc), now
	case OneMonth:
		from = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		to = time.Date(y, m+1, 0, 0, 0, 0, 0, loc)
	case SixMonths:
		from = time.Date(y, m-5, 1, 0, 0, 0, 0, loc)
		to = time.Date(y, m+1, 0, 0, 0, 0, 0, loc)
	case OneYear:
		from = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		to = time.Date(y, time.December, 31, 0, 0, 0, 0, loc)
	default:
		return "", "", models.InvalidRangeError(token)
	}
	return Day(from), Day(to), nil
}

// Clock resolves ranges and stamps records in the shop's timezone.
type Clock struct {
	now      func() time.Time
	location *time.Location
}

// NewClock returns a Clock reading the wall time in loc. A nil loc means UTC.
func NewClock(loc *time.Location) *Clock {
	return NewClockAt(loc, time.Now)
}

// NewClockAt returns a Clock driven by now, mostly for tests.
func NewClockAt(loc *time.Location, now func() time.Time) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{now: now, location: loc}
}

// Now returns the current time in the shop's location.
func (c *Clock) Now() time.Time {
	return c.now().In(c.location)
}

// Today returns the current calendar day.
func (c *Clock) Today() string {
	return Day(c.Now())
}

// Millis returns the current Unix time in milliseconds.
func (c *Clock) Millis() int64 {
	return c.now().UnixMilli()
}

// Resolve resolves token against the current time. An empty token means Default.
func (c *Clock) Resolve(token string) (string, string, error) {
	if strings.TrimSpace(token) == "" {
		token = Default
	}
	return Resolve(token, c.Now())
}
