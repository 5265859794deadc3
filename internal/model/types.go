// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// ViewType selects the server-side report rendering mode.
type ViewType string

// Report view types understood by the service.
const (
	ViewDailyDetail ViewType = "daily_detail"
	ViewDaily       ViewType = "daily"
	ViewDetail      ViewType = "detail"
	ViewDist        ViewType = "dist"
)

// Valid reports whether v is one of the known view types.
func (v ViewType) Valid() bool {
	switch v {
	case ViewDailyDetail, ViewDaily, ViewDetail, ViewDist:
		return true
	default:
		return false
	}
}

// ParseViewType converts free-form input (config file, form field) into a
// ViewType.
func ParseViewType(s string) (ViewType, error) {
	v := ViewType(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown view type %q (expected daily_detail, daily, detail, or dist)", s)
	}
	return v, nil
}

// Session is one tracked activity interval. End is nil while the session is
// still open; Notes carries server-resident notes for finished sessions only.
type Session struct {
	Title string
	Start time.Time
	End   *time.Time
	Notes string
}

// Open reports whether the session has no end timestamp yet.
func (s Session) Open() bool {
	return s.End == nil
}

// Detail pairs a fetched session with locale-formatted display strings.
// EndDisplay stays empty while the session is open; rendering must branch on
// End presence, never invent a closing timestamp.
type Detail struct {
	Session
	StartDisplay string
	EndDisplay   string
}

// ReportQuery is the canonical report request shape. Days == 0 means the
// span is unbounded, running from the offset day through now.
type ReportQuery struct {
	Offset int
	Days   int
	View   ViewType
}

// Bounded reports whether the query covers a fixed number of days.
func (q ReportQuery) Bounded() bool {
	return q.Days > 0
}
