package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const resetSGR = "\x1b[0m"

// Overlay draws fg on top of bg with fg's top-left corner at (col, row).
// Both may contain ANSI styling; bg is padded when fg reaches past it.
func Overlay(bg, fg string, col, row int) string {
	col, row = max(col, 0), max(row, 0)
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")

	for len(bgLines) < row+len(fgLines) {
		bgLines = append(bgLines, "")
	}

	for i, line := range fgLines {
		target := bgLines[row+i]
		width := ansi.StringWidth(target)
		if width < col {
			target += strings.Repeat(" ", col-width)
			width = col
		}

		left := ansi.Truncate(target, col, "")
		end := col + ansi.StringWidth(line)
		right := ""
		if width > end {
			right = ansi.TruncateLeft(target, end, "")
		}
		bgLines[row+i] = left + resetSGR + line + resetSGR + right
	}

	return strings.Join(bgLines, "\n")
}
