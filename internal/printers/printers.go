// Package printers renders sessions and reports for the command line.
package printers

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"golang.org/x/term"

	"github.com/hollowbeak/clockin/internal/model"
	"github.com/hollowbeak/clockin/internal/timeutil"
)

const terminalWidthBackup = 80

// OngoingTable renders the open sessions as a table. Elapsed times are
// computed against now; start instants are shown in loc.
func OngoingTable(sessions []model.Session, now time.Time, loc *time.Location) string {
	if len(sessions) == 0 {
		return "No ongoing sessions."
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 50
	tbl.Wrap = true
	tbl.AddRow(bold.Sprint("TITLE"), bold.Sprint("STARTED"), bold.Sprint("ELAPSED"))
	for _, session := range sessions {
		tbl.AddRow(
			session.Title,
			timeutil.FormatIn(session.Start, loc),
			timeutil.FormatDuration(now.Sub(session.Start)),
		)
	}
	return tbl.String()
}

// RecentList renders recent titles as a numbered pick list, most recent
// first.
func RecentList(titles []string) string {
	if len(titles) == 0 {
		return "No recent sessions."
	}

	var b strings.Builder
	for i, title := range titles {
		fmt.Fprintf(&b, "%d: %s\n", i+1, title)
	}
	return strings.TrimRight(b.String(), "\n")
}

// DetailText renders a single session the way the service's own tooling
// does: title line, then either the start instant for an open session or the
// full span for a finished one, then the notes block when present.
func DetailText(d model.Detail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", color.New(color.Bold).Sprint(d.Title))
	if d.Open() {
		fmt.Fprintf(&b, "\tStarted at: %s\n", d.StartDisplay)
	} else {
		fmt.Fprintf(&b, "\t%s ~ %s\n", d.StartDisplay, d.EndDisplay)
	}
	if d.Notes != "" {
		b.WriteString("\tNotes:\n")
		for _, line := range strings.Split(d.Notes, "\n") {
			fmt.Fprintf(&b, "\t  %s\n", line)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// ReportHeading renders a bold, underlined heading above report output.
func ReportHeading(label string) string {
	return color.New(color.Bold, color.Underline).Sprint(label)
}

// Rule draws a horizontal separator of the given width.
func Rule(width int) string {
	if width <= 0 {
		width = terminalWidthBackup
	}
	return strings.Repeat("-", width)
}

// TerminalWidth returns the current terminal width, or a default when stdout
// is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
