package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/kerbaras/bookshelf/pkg/app/styles"
	"github.com/kerbaras/bookshelf/pkg/data"
)

const cardWidth = 24

// BookGrid lays book cards out in rows. The selected card reveals the
// "Read Now" affordance.
type BookGrid struct {
	Items         []data.Book
	SelectedIndex int
	Width         int
	Focused       bool
}

func NewBookGrid() *BookGrid {
	return &BookGrid{
		Items: []data.Book{},
		Width: 80,
	}
}

func (g *BookGrid) SetItems(items []data.Book) {
	g.Items = items
	if g.SelectedIndex >= len(items) && len(items) > 0 {
		g.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		g.SelectedIndex = 0
	}
}

func (g *BookGrid) Next() {
	if len(g.Items) == 0 {
		return
	}
	g.SelectedIndex++
	if g.SelectedIndex >= len(g.Items) {
		g.SelectedIndex = 0
	}
}

func (g *BookGrid) Prev() {
	if len(g.Items) == 0 {
		return
	}
	g.SelectedIndex--
	if g.SelectedIndex < 0 {
		g.SelectedIndex = len(g.Items) - 1
	}
}

func (g *BookGrid) Selected() *data.Book {
	if len(g.Items) == 0 || g.SelectedIndex >= len(g.Items) {
		return nil
	}
	return &g.Items[g.SelectedIndex]
}

// Columns is how many cards fit in a row.
func (g *BookGrid) Columns() int {
	return max(g.Width/(cardWidth+2), 1)
}

func (g *BookGrid) View() string {
	if len(g.Items) == 0 {
		return styles.MutedStyle.Render("No books in the catalogue")
	}

	cols := g.Columns()
	var rows []string
	for start := 0; start < len(g.Items); start += cols {
		end := min(start+cols, len(g.Items))
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, g.renderCard(g.Items[i], i == g.SelectedIndex))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(rows, "\n")
}

func (g *BookGrid) renderCard(book data.Book, selected bool) string {
	cardStyle := styles.CardStyle
	if selected && g.Focused {
		cardStyle = styles.ActiveCardStyle
	}

	inner := cardWidth - 4
	cover := styles.MutedStyle.Render(strings.Repeat("▒", inner))
	action := " "
	if selected {
		action = styles.ReadNowStyle.Render("Read Now")
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		cover,
		cover,
		styles.SelectedStyle.Render(ansi.Truncate(book.Title, inner, "…")),
		styles.MutedStyle.Render(ansi.Truncate(book.Author, inner, "…")),
		action,
	)
	return cardStyle.Width(cardWidth - 2).Render(content)
}
