package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/bookshelf/pkg/app/components"
	"github.com/kerbaras/bookshelf/pkg/app/styles"
	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/kerbaras/bookshelf/pkg/integrations"
	"github.com/kerbaras/bookshelf/pkg/services"
	"go.uber.org/zap"
)

type screenType int

const (
	libraryView screenType = iota
	searchView
	readerView
)

// Options carries what the screens need from the application.
type Options struct {
	Catalogue  *data.Catalogue
	Exporter   *services.Exporter
	Controller *services.AssistantController
	Thumbnails integrations.ImageRenderer
	Logger     *zap.Logger
}

type page interface {
	tea.Model
	Typing() bool
}

// RootScreen switches between the pages and draws the floating assistant on
// top of whichever is active.
type RootScreen struct {
	catalogue *data.Catalogue
	logger    *zap.Logger
	keys      KeyMap

	currentView screenType
	library     *LibraryScreen
	search      *SearchScreen
	reader      *ReaderScreen
	assistant   *AssistantScreen

	width  int
	height int
}

func NewRootScreen(opts Options) *RootScreen {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RootScreen{
		catalogue:   opts.Catalogue,
		logger:      logger,
		keys:        DefaultKeyMap(),
		currentView: libraryView,
		library:     NewLibraryScreen(opts.Catalogue, opts.Exporter),
		search:      NewSearchScreen(opts.Catalogue),
		assistant:   NewAssistantScreen(opts.Controller, opts.Thumbnails, logger),
	}
}

func (r *RootScreen) Init() tea.Cmd {
	return tea.Batch(r.library.Init(), r.assistant.Init())
}

func (r *RootScreen) Assistant() *AssistantScreen { return r.assistant }

func (r *RootScreen) active() page {
	switch r.currentView {
	case searchView:
		return r.search
	case readerView:
		if r.reader != nil {
			return r.reader
		}
	}
	return r.library
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		return r, r.broadcast(msg)

	case tea.KeyMsg:
		return r, r.handleKey(msg)

	case tea.MouseMsg:
		if handled, cmd := r.assistant.HandleMouse(msg); handled {
			return r, cmd
		}
		return r, r.updateActive(msg)

	case ChapterChangedMsg:
		return r, r.assistant.SetContext(msg.Book, msg.Chapter)

	case SwitchScreenMsg:
		switch msg.Screen {
		case "library":
			r.currentView = libraryView
			cmd = r.library.Init()
		case "search":
			r.currentView = searchView
			cmd = r.search.Init()
			if query, ok := msg.Data.(string); ok {
				cmd = tea.Batch(cmd, r.search.Query(query))
			}
		case "reader":
			if target, ok := msg.Data.(ReaderTarget); ok {
				book, err := r.catalogue.GetBook(target.BookID)
				if err != nil {
					r.logger.Warn("cannot open book", zap.String("book_id", target.BookID), zap.Error(err))
					break
				}
				r.reader = NewReaderScreen(book, target.ChapterID)
				r.reader.Update(tea.WindowSizeMsg{Width: r.width, Height: r.height})
				r.currentView = readerView
				cmd = r.reader.Init()
			}
		}
		return r, cmd
	}

	return r, r.broadcast(msg)
}

// handleKey routes a key: the assistant first while it holds focus, then
// root bindings, then the active page.
func (r *RootScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if r.assistant.Capturing() {
		_, cmd := r.assistant.Update(msg)
		return cmd
	}

	if key.Matches(msg, r.keys.Tab) && r.currentView != readerView {
		// Cycle library and search; the reader is left with esc
		if r.currentView == libraryView {
			r.currentView = searchView
			return r.search.Init()
		}
		r.currentView = libraryView
		return r.library.Init()
	}

	if r.active().Typing() {
		return r.updateActive(msg)
	}

	switch {
	case key.Matches(msg, r.keys.Quit):
		return tea.Quit
	case key.Matches(msg, r.keys.Assistant):
		return r.assistant.TogglePrimary()
	case key.Matches(msg, r.keys.Avatar):
		return r.assistant.ActivateAvatar()
	case key.Matches(msg, r.keys.Move):
		r.assistant.StartMove()
		return nil
	}
	return r.updateActive(msg)
}

func (r *RootScreen) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch r.currentView {
	case libraryView:
		_, cmd = r.library.Update(msg)
	case searchView:
		_, cmd = r.search.Update(msg)
	case readerView:
		if r.reader != nil {
			_, cmd = r.reader.Update(msg)
		}
	}
	return cmd
}

// broadcast hands a message to every screen. Screens ignore what is not
// theirs; export progress must reach the library even while another page
// is showing.
func (r *RootScreen) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	_, cmd := r.library.Update(msg)
	cmds = append(cmds, cmd)
	_, cmd = r.search.Update(msg)
	cmds = append(cmds, cmd)
	if r.reader != nil {
		_, cmd = r.reader.Update(msg)
		cmds = append(cmds, cmd)
	}
	_, cmd = r.assistant.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (r *RootScreen) View() string {
	tabs := r.renderTabs()

	content := r.active().View()
	page := content
	if tabs != "" {
		page = fmt.Sprintf("%s\n\n%s", tabs, content)
	}
	page = r.fitPage(page)

	col, row := r.assistant.Controller().Placement.Origin()
	return components.Overlay(page, r.assistant.View(), col, row)
}

// fitPage cuts the page to the terminal height so the widget's bottom-right
// dock lines up with the screen.
func (r *RootScreen) fitPage(page string) string {
	if r.height <= 0 {
		return page
	}
	lines := strings.Split(page, "\n")
	if len(lines) > r.height {
		lines = lines[:r.height]
	}
	return strings.Join(lines, "\n")
}

func (r *RootScreen) renderTabs() string {
	if r.currentView == readerView {
		return ""
	}

	libraryTab := "Library"
	searchTab := "Search"

	if r.currentView == libraryView {
		libraryTab = styles.ActiveTabStyle.Render(libraryTab)
		searchTab = styles.InactiveTabStyle.Render(searchTab)
	} else {
		libraryTab = styles.InactiveTabStyle.Render(libraryTab)
		searchTab = styles.ActiveTabStyle.Render(searchTab)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, libraryTab, searchTab)
}
