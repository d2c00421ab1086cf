package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/kerbaras/bookshelf/pkg/app/styles"
	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/kerbaras/bookshelf/pkg/services"
)

// ReadingProgress lists each book with a percentage bar and its page count.
func ReadingProgress(books []data.Book, width int) string {
	if len(books) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render("Reading progress"))
	b.WriteString("\n\n")

	barWidth := max(width-8, 10)
	for _, book := range books {
		pct := min(max(book.Progress, 0), 100)
		b.WriteString(styles.TextStyle.Render(book.Title))
		b.WriteString("\n")
		b.WriteString(renderProgressBar(pct, 100, barWidth))
		b.WriteString(fmt.Sprintf(" %3d%%\n", pct))
		b.WriteString(styles.MutedStyle.Render(humanize.Comma(int64(book.Pages)) + " pages"))
		b.WriteString("\n")
	}
	return b.String()
}

// ExportTracker keeps the latest export status per book.
type ExportTracker struct {
	exports map[string]*services.ExportProgress
	width   int
}

func NewExportTracker(width int) *ExportTracker {
	return &ExportTracker{
		exports: make(map[string]*services.ExportProgress),
		width:   width,
	}
}

func (p *ExportTracker) Update(progress services.ExportProgress) {
	prog := progress
	p.exports[progress.BookID] = &prog
}

func (p *ExportTracker) Clear() {
	p.exports = make(map[string]*services.ExportProgress)
}

func (p *ExportTracker) HasActive() bool {
	for _, e := range p.exports {
		if e.Status == "exporting" {
			return true
		}
	}
	return false
}

func (p *ExportTracker) View() string {
	if len(p.exports) == 0 {
		return ""
	}

	ids := make([]string, 0, len(p.exports))
	for id := range p.exports {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render("Exports"))
	b.WriteString("\n")

	for _, id := range ids {
		progress := p.exports[id]
		title := progress.Title
		if title == "" {
			title = "Book " + progress.BookID
		}

		line := fmt.Sprintf("%s: %s", title, progress.Status)
		if progress.Path != "" {
			line += " → " + progress.Path
		}
		b.WriteString(styles.StatusStyle(progress.Status).Render(line))
		b.WriteString("\n")

		if progress.Error != nil {
			b.WriteString(styles.StatusError.Render(fmt.Sprintf("Error: %s", progress.Error)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func renderProgressBar(current, total, width int) string {
	if total == 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}

	return styles.ProgressBarStyle.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// SimpleProgress renders a simple progress bar
func SimpleProgress(current, total, width int) string {
	return renderProgressBar(current, total, width)
}
