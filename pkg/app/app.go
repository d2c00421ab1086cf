package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/bookshelf/pkg/app/screens"
	"github.com/kerbaras/bookshelf/pkg/data"
)

type App struct {
	deps *Deps
}

func NewApp(deps *Deps) *App {
	return &App{deps: deps}
}

// Model builds the root screen. The assistant starts on the first book of
// the catalogue and follows the reader from there.
func (a *App) Model() *screens.RootScreen {
	var (
		book    data.Book
		chapter data.Chapter
	)
	if books := a.deps.Catalogue.GetAllBooks(); len(books) > 0 {
		book = books[0]
		if len(book.Chapters) > 0 {
			chapter = book.Chapters[0]
		}
	}

	return screens.NewRootScreen(screens.Options{
		Catalogue:  a.deps.Catalogue,
		Exporter:   a.deps.Exporter,
		Controller: a.deps.Controller(book, chapter),
		Thumbnails: a.deps.Thumbnails,
		Logger:     a.deps.Logger,
	})
}

func (a *App) Run() error {
	p := tea.NewProgram(a.Model(), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
