// Package report normalizes report queries into the canonical request shape.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hollowbeak/clockin/internal/model"
	"github.com/hollowbeak/clockin/internal/timeutil"
)

// QuickPick is a preset query offered by the UI.
type QuickPick struct {
	Label  string
	Offset int
	Days   int
}

// QuickPicks returns the preset queries in menu order. Days 0 means the range
// runs from the offset day through now.
func QuickPicks() []QuickPick {
	return []QuickPick{
		{Label: "Today", Offset: 0, Days: 0},
		{Label: "Yesterday", Offset: 1, Days: 1},
		{Label: "Last 7 days", Offset: 6, Days: 0},
		{Label: "Last 30 days", Offset: 29, Days: 0},
	}
}

// Normalize turns raw offset and day-count text into a canonical query.
// Anything that does not parse as a usable number falls back to the lenient
// default: offset 0 (today) and an unbounded day span. The view must be one
// of the enumerated types; anything else is a bug in the caller.
func Normalize(offsetRaw, daysRaw string, view model.ViewType) model.ReportQuery {
	if !view.Valid() {
		panic(fmt.Sprintf("report: invalid view type %q", view))
	}

	offset, err := strconv.Atoi(strings.TrimSpace(offsetRaw))
	if err != nil || offset < 0 {
		offset = 0
	}
	days, err := strconv.Atoi(strings.TrimSpace(daysRaw))
	if err != nil || days < 1 {
		days = 0
	}
	return model.ReportQuery{Offset: offset, Days: days, View: view}
}

// Summary describes a canonical query in one line for report headings.
func Summary(q model.ReportQuery) string {
	if !q.Bounded() {
		return fmt.Sprintf("offset %d, open-ended (%s)", q.Offset, q.View)
	}
	return fmt.Sprintf("offset %d, %d day(s) (%s)", q.Offset, q.Days, q.View)
}

// FromDates turns an inclusive local date range into a canonical query
// anchored on now. The range must not start after today or end before it
// starts.
func FromDates(from, to string, now time.Time, loc *time.Location, view model.ViewType) (model.ReportQuery, error) {
	if !view.Valid() {
		panic(fmt.Sprintf("report: invalid view type %q", view))
	}

	fromDay, err := timeutil.ParseDate(strings.TrimSpace(from), loc)
	if err != nil {
		return model.ReportQuery{}, fmt.Errorf("invalid start date %q: expected %s", from, timeutil.DateLayout)
	}
	toDay, err := timeutil.ParseDate(strings.TrimSpace(to), loc)
	if err != nil {
		return model.ReportQuery{}, fmt.Errorf("invalid end date %q: expected %s", to, timeutil.DateLayout)
	}
	if toDay.Before(fromDay) {
		return model.ReportQuery{}, fmt.Errorf("invalid date range: end date is before start date")
	}

	offset := timeutil.DaysBetween(fromDay, now, loc)
	if offset < 0 {
		return model.ReportQuery{}, fmt.Errorf("invalid date range: start date is in the future")
	}
	days := timeutil.DaysBetween(fromDay, toDay, loc) + 1
	return model.ReportQuery{Offset: offset, Days: days, View: view}, nil
}
