// Package tui provides the Bubble Tea dashboard.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText wraps s to width display columns, preferring to break at spaces
// and preserving existing line breaks.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out strings.Builder
	for i, paragraph := range strings.Split(s, "\n") {
		if i > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(wrapParagraph(paragraph, width))
	}
	return out.String()
}

func wrapParagraph(s string, width int) string {
	runes := []rune(s)
	var out strings.Builder
	line := make([]rune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		r := runes[i]
		w := runewidth.RuneWidth(r)
		if lineWidth+w > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(string(line[:lastSpaceIdx]))
				out.WriteByte('\n')
				line = append([]rune{}, line[lastSpaceIdx+1:]...)
				lineWidth = runesWidth(line)
				lastSpaceIdx = lastSpaceIn(line)
			} else {
				out.WriteString(string(line))
				out.WriteByte('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, r)
		lineWidth += w
		if r == ' ' {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(string(line))
	return out.String()
}

func runesWidth(runes []rune) int {
	total := 0
	for _, r := range runes {
		total += runewidth.RuneWidth(r)
	}
	return total
}

func lastSpaceIn(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}

// truncateLine shortens s to width display columns, appending an ellipsis
// when anything was cut.
func truncateLine(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
