// Package timeutil formats server timestamps and durations for display.
package timeutil

import (
	"fmt"
	"time"

	"github.com/hollowbeak/clockin/internal/model"
)

const (
	// DisplayLayout renders timestamps the way the service displays them.
	DisplayLayout = "2006-01-02 Mon 15:04"
	// DateLayout is the strict format for explicit report dates.
	DateLayout = "2006-01-02"
)

// FormatLocal renders a server timestamp in the user's local time zone.
func FormatLocal(t time.Time) string {
	return FormatIn(t, time.Local)
}

// FormatIn renders a timestamp in the given location.
func FormatIn(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DisplayLayout)
}

// ParseDate parses a YYYY-MM-DD date at midnight in the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

const (
	hourMinutes = 60
	dayMinutes  = 24 * hourMinutes
)

// FormatDuration renders a duration at minute resolution: 0:MM under an
// hour, H:MM under a day, D:HH:MM beyond.
func FormatDuration(d time.Duration) string {
	minutes := int64(d.Minutes())
	if minutes < 0 {
		minutes = 0
	}
	switch {
	case minutes < hourMinutes:
		return fmt.Sprintf("0:%02d", minutes)
	case minutes < dayMinutes:
		return fmt.Sprintf("%d:%02d", minutes/hourMinutes, minutes%hourMinutes)
	default:
		rem := minutes % dayMinutes
		return fmt.Sprintf("%d:%02d:%02d", minutes/dayMinutes, rem/hourMinutes, rem%hourMinutes)
	}
}

// DaysBetween returns the calendar-day difference from a to b in loc,
// positive when b falls on a later day.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// NewDetail attaches display strings to a fetched session. EndDisplay stays
// empty while the session is open.
func NewDetail(s model.Session, loc *time.Location) model.Detail {
	d := model.Detail{
		Session:      s,
		StartDisplay: FormatIn(s.Start, loc),
	}
	if s.End != nil {
		d.EndDisplay = FormatIn(*s.End, loc)
	}
	return d
}
