package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/bookshelf/pkg/app/styles"
	"github.com/kerbaras/bookshelf/pkg/data"
)

type SearchScreen struct {
	catalogue *data.Catalogue
	input     textinput.Model
	results   []data.SearchHit
	selected  int
	searched  bool
	width     int
	height    int
}

func NewSearchScreen(catalogue *data.Catalogue) *SearchScreen {
	ti := textinput.New()
	ti.Placeholder = "Search books, authors, chapters..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50

	return &SearchScreen{
		catalogue: catalogue,
		input:     ti,
		results:   []data.SearchHit{},
	}
}

func (s *SearchScreen) Init() tea.Cmd {
	return textinput.Blink
}

func (s *SearchScreen) Typing() bool { return s.input.Focused() }

// Query runs a search as if it had been typed into the box.
func (s *SearchScreen) Query(query string) tea.Cmd {
	s.input.SetValue(query)
	return s.performSearch(query)
}

func (s *SearchScreen) Results() []data.SearchHit { return s.results }

func (s *SearchScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if s.input.Focused() {
				query := strings.TrimSpace(s.input.Value())
				if query != "" {
					return s, s.performSearch(query)
				}
			} else if len(s.results) > 0 {
				hit := s.results[s.selected]
				return s, func() tea.Msg {
					return SwitchScreenMsg{Screen: "reader", Data: ReaderTarget{BookID: hit.Book.ID, ChapterID: hit.Chapter}}
				}
			}

		case "esc":
			// Switch focus between input and results
			if s.input.Focused() {
				s.input.Blur()
			} else {
				cmd = s.input.Focus()
			}
			return s, cmd

		case "up", "k":
			if !s.input.Focused() && len(s.results) > 0 {
				s.selected--
				if s.selected < 0 {
					s.selected = len(s.results) - 1
				}
			}

		case "down", "j":
			if !s.input.Focused() && len(s.results) > 0 {
				s.selected++
				if s.selected >= len(s.results) {
					s.selected = 0
				}
			}
		}

	case searchResultMsg:
		s.searched = true
		s.results = msg.results
		s.selected = 0
		if len(s.results) > 0 {
			s.input.Blur()
		}
	}

	if s.input.Focused() {
		s.input, cmd = s.input.Update(msg)
	}

	return s, cmd
}

func (s *SearchScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("🔍 Search")

	inputStyle := styles.InputStyle
	if s.input.Focused() {
		inputStyle = styles.FocusedInputStyle
	}
	inputView := inputStyle.Render(s.input.View())

	var resultsView string
	if len(s.results) > 0 {
		resultsView = s.renderResults()
	} else if s.searched {
		resultsView = styles.MutedStyle.Render("No results found")
	}

	help := styles.HelpStyle.Render(
		"enter: search/read • esc: switch focus • ↑/k ↓/j: navigate • tab: switch view • q: quit",
	)

	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s", header, inputView, resultsView, help)
}

func (s *SearchScreen) renderResults() string {
	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("Found %d results:", len(s.results))))
	b.WriteString("\n\n")

	for i, hit := range s.results {
		cardStyle := styles.CardStyle
		if i == s.selected && !s.input.Focused() {
			cardStyle = styles.ActiveCardStyle
		}

		location := "by " + hit.Book.Author
		if hit.Chapter != "" {
			location = "in " + chapterTitle(hit.Book, hit.Chapter)
		}

		cardContent := lipgloss.JoinVertical(
			lipgloss.Left,
			styles.SelectedStyle.Render(hit.Book.Title),
			styles.TextStyle.Render(hit.Snippet),
			styles.MutedStyle.Render(location),
		)

		b.WriteString(cardStyle.Width(max(s.width-6, 20)).Render(cardContent))
		b.WriteString("\n")
	}

	return b.String()
}

func chapterTitle(book data.Book, id string) string {
	for _, ch := range book.Chapters {
		if ch.ID == id {
			return ch.Title
		}
	}
	return id
}

// Messages
type searchResultMsg struct {
	results []data.SearchHit
}

// SwitchScreenMsg asks the root to change the active screen. Data carries the
// search query for "search" and a ReaderTarget for "reader".
type SwitchScreenMsg struct {
	Screen string
	Data   any
}

// Commands
func (s *SearchScreen) performSearch(query string) tea.Cmd {
	catalogue := s.catalogue
	return func() tea.Msg {
		return searchResultMsg{results: catalogue.Search(query)}
	}
}
