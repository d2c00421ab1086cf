package screens

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/bookshelf/pkg/app/components"
	"github.com/kerbaras/bookshelf/pkg/app/styles"
	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/kerbaras/bookshelf/pkg/services"
)

// LibraryTab is the dashboard's tab selector. It is display-only: the book
// grid shows the whole catalogue whichever tab is active.
type LibraryTab int

const (
	TabPopular LibraryTab = iota
	TabTopSelling
	TabFollowing
	TabNew
)

var tabNames = []string{"Popular", "Top Selling", "Following", "New"}

func (t LibraryTab) String() string { return tabNames[t] }

const sideColumnWidth = 36

type LibraryScreen struct {
	catalogue *data.Catalogue
	exporter  *services.Exporter
	grid      *components.BookGrid
	authors   *components.AuthorList
	blogs     []data.Blog
	tracker   *components.ExportTracker
	search    textinput.Model
	activeTab LibraryTab
	keys      KeyMap
	listening bool
	width     int
	height    int
	err       error
}

// NewLibraryScreen builds the dashboard. exporter may be nil, which disables
// EPUB export.
func NewLibraryScreen(catalogue *data.Catalogue, exporter *services.Exporter) *LibraryScreen {
	ti := textinput.New()
	ti.Placeholder = "Search books, authors, chapters..."
	ti.CharLimit = 100
	ti.Width = 40

	grid := components.NewBookGrid()
	grid.Focused = true

	return &LibraryScreen{
		catalogue: catalogue,
		exporter:  exporter,
		grid:      grid,
		authors:   components.NewAuthorList(data.TrendingAuthors()),
		blogs:     data.PopularBlogs(),
		tracker:   components.NewExportTracker(80),
		search:    ti,
		keys:      DefaultKeyMap(),
	}
}

func (s *LibraryScreen) Init() tea.Cmd {
	return s.loadLibrary
}

func (s *LibraryScreen) ActiveTab() LibraryTab { return s.activeTab }

// SetActiveTab switches the highlighted tab. The grid is not refiltered.
func (s *LibraryScreen) SetActiveTab(tab LibraryTab) { s.activeTab = tab }

func (s *LibraryScreen) Typing() bool { return s.search.Focused() }

func (s *LibraryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.grid.Width = s.mainWidth()
		s.tracker = components.NewExportTracker(s.mainWidth())

	case tea.KeyMsg:
		if s.search.Focused() {
			return s, s.updateSearch(msg)
		}

		switch {
		case key.Matches(msg, s.keys.Search):
			s.grid.Focused = false
			return s, s.search.Focus()
		case key.Matches(msg, s.keys.Left):
			s.grid.Prev()
		case key.Matches(msg, s.keys.Right):
			s.grid.Next()
		case key.Matches(msg, s.keys.Up):
			for range s.grid.Columns() {
				s.grid.Prev()
			}
		case key.Matches(msg, s.keys.Down):
			for range s.grid.Columns() {
				s.grid.Next()
			}
		case key.Matches(msg, s.keys.NextTab):
			s.SetActiveTab((s.activeTab + 1) % LibraryTab(len(tabNames)))
		case key.Matches(msg, s.keys.PrevAuthor):
			s.authors.Prev()
		case key.Matches(msg, s.keys.NextAuthor):
			s.authors.Next()
		case key.Matches(msg, s.keys.Follow):
			s.authors.ToggleSelected()
		case key.Matches(msg, s.keys.Export):
			if selected := s.grid.Selected(); selected != nil {
				return s, s.exportBook(selected.ID)
			}
		case key.Matches(msg, s.keys.Enter):
			if selected := s.grid.Selected(); selected != nil {
				id := selected.ID
				return s, func() tea.Msg {
					return SwitchScreenMsg{Screen: "reader", Data: ReaderTarget{BookID: id}}
				}
			}
		}

	case libraryLoadedMsg:
		s.grid.SetItems(msg.books)
		s.err = msg.err

	case services.ExportProgress:
		s.tracker.Update(msg)
		return s, s.listenForProgress

	case exportDoneMsg:
		if msg.err != nil {
			s.err = msg.err
		}
	}

	return s, nil
}

func (s *LibraryScreen) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.search.Blur()
		s.grid.Focused = true
		return nil
	case "enter":
		query := strings.TrimSpace(s.search.Value())
		s.search.Blur()
		s.search.Reset()
		s.grid.Focused = true
		if query == "" {
			return nil
		}
		return func() tea.Msg {
			return SwitchScreenMsg{Screen: "search", Data: query}
		}
	}
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	return cmd
}

func (s *LibraryScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("📚 Bookshelf")

	inputStyle := styles.InputStyle
	if s.search.Focused() {
		inputStyle = styles.FocusedInputStyle
	}
	searchView := inputStyle.Render(s.search.View())

	var errorMsg string
	if s.err != nil {
		errorMsg = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err)) + "\n\n"
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		searchView,
		"",
		s.renderTabs(),
		"",
		errorMsg+s.grid.View(),
		s.tracker.View(),
	)

	side := lipgloss.JoinVertical(lipgloss.Left,
		components.ReadingProgress(s.grid.Items, sideColumnWidth),
		"",
		s.authors.View(),
		"",
		components.BlogList(s.blogs),
	)

	var body string
	if s.wide() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, s.renderNavRail(), "  ", main, "  ", side)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, main, "", side)
	}

	help := styles.HelpStyle.Render(helpLine(
		s.keys.Left, s.keys.Right, s.keys.Enter, s.keys.Search, s.keys.NextTab,
		s.keys.Follow, s.keys.Export, s.keys.Assistant, s.keys.Avatar, s.keys.Move,
		s.keys.Tab, s.keys.Quit,
	))

	return fmt.Sprintf("%s\n\n%s\n%s", header, body, help)
}

func (s *LibraryScreen) wide() bool { return s.width >= 100 }

func (s *LibraryScreen) mainWidth() int {
	if !s.wide() {
		return max(s.width-4, 20)
	}
	return max(s.width-sideColumnWidth-navRailWidth-10, 26)
}

const navRailWidth = 12

func (s *LibraryScreen) renderNavRail() string {
	items := []string{
		styles.SelectedStyle.Render("Home"),
		styles.MutedStyle.Render("Library"),
		styles.MutedStyle.Render("Search"),
		styles.MutedStyle.Render("Settings"),
	}
	return styles.NavRailStyle.Width(navRailWidth).Render(strings.Join(items, "\n\n"))
}

func (s *LibraryScreen) renderTabs() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if LibraryTab(i) == s.activeTab {
			tabs[i] = styles.ActiveTabStyle.Render(name)
		} else {
			tabs[i] = styles.InactiveTabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// Messages
type libraryLoadedMsg struct {
	books []data.Book
	err   error
}

type exportDoneMsg struct {
	path string
	err  error
}

// ReaderTarget selects the book, and optionally the chapter, the reader opens.
type ReaderTarget struct {
	BookID    string
	ChapterID string
}

// Commands
func (s *LibraryScreen) loadLibrary() tea.Msg {
	return libraryLoadedMsg{books: s.catalogue.GetAllBooks()}
}

func (s *LibraryScreen) exportBook(id string) tea.Cmd {
	if s.exporter == nil {
		return func() tea.Msg {
			return exportDoneMsg{err: fmt.Errorf("EPUB export is not available")}
		}
	}

	exporter := s.exporter
	export := func() tea.Msg {
		path, err := exporter.ExportBook(context.Background(), id)
		return exportDoneMsg{path: path, err: err}
	}
	if s.listening {
		return export
	}
	s.listening = true
	return tea.Batch(export, s.listenForProgress)
}

func (s *LibraryScreen) listenForProgress() tea.Msg {
	progress, ok := <-s.exporter.Progress()
	if !ok {
		return nil
	}
	return progress
}
