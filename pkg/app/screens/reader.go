package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/kerbaras/bookshelf/pkg/app/styles"
	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/muesli/reflow/wordwrap"
)

const chapterListWidth = 28

// ReaderScreen shows one book: the chapter list and the wrapped text of the
// selected chapter.
type ReaderScreen struct {
	book            data.Book
	selectedChapter int
	content         viewport.Model
	keys            KeyMap
	width           int
	height          int
}

// NewReaderScreen opens book at chapterID, or at its first chapter when the
// id is empty or unknown.
func NewReaderScreen(book data.Book, chapterID string) *ReaderScreen {
	s := &ReaderScreen{
		book:    book,
		content: viewport.New(60, 20),
		keys:    DefaultKeyMap(),
	}
	for i, ch := range book.Chapters {
		if ch.ID == chapterID {
			s.selectedChapter = i
		}
	}
	s.content.MouseWheelEnabled = true
	s.refreshContent()
	return s
}

func (s *ReaderScreen) Init() tea.Cmd {
	return s.chapterChanged
}

func (s *ReaderScreen) Book() data.Book { return s.book }

// Chapter returns the chapter being read, zero when the book has none.
func (s *ReaderScreen) Chapter() data.Chapter {
	if s.selectedChapter < len(s.book.Chapters) {
		return s.book.Chapters[s.selectedChapter]
	}
	return data.Chapter{}
}

func (s *ReaderScreen) Typing() bool { return false }

func (s *ReaderScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.content.Width = max(msg.Width-chapterListWidth-6, 20)
		s.content.Height = max(msg.Height-8, 5)
		s.refreshContent()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Up):
			if s.selectedChapter > 0 {
				s.selectedChapter--
				s.refreshContent()
				return s, s.chapterChanged
			}
			return s, nil
		case key.Matches(msg, s.keys.Down):
			if s.selectedChapter < len(s.book.Chapters)-1 {
				s.selectedChapter++
				s.refreshContent()
				return s, s.chapterChanged
			}
			return s, nil
		case key.Matches(msg, s.keys.Back):
			return s, func() tea.Msg {
				return SwitchScreenMsg{Screen: "library"}
			}
		}
		s.content, cmd = s.content.Update(msg)

	case tea.MouseMsg:
		s.content, cmd = s.content.Update(msg)
	}

	return s, cmd
}

func (s *ReaderScreen) View() string {
	header := styles.TitleStyle.Render(fmt.Sprintf("📖 %s", s.book.Title))
	byline := styles.MutedStyle.Render("by " + s.book.Author)

	chapters := styles.NavRailStyle.Width(chapterListWidth).Render(s.renderChapterList())
	text := lipgloss.JoinVertical(lipgloss.Left,
		styles.SubtitleStyle.Render(s.Chapter().Title),
		"",
		s.content.View(),
		styles.MutedStyle.Render(fmt.Sprintf("%3.0f%%", s.content.ScrollPercent()*100)),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, chapters, "  ", text)

	help := styles.HelpStyle.Render(helpLine(s.keys.Up, s.keys.Down, s.keys.Back, s.keys.Assistant, s.keys.Quit) + " • pgup/pgdn: scroll")
	return fmt.Sprintf("%s\n%s\n\n%s\n%s", header, byline, body, help)
}

func (s *ReaderScreen) renderChapterList() string {
	if len(s.book.Chapters) == 0 {
		return styles.MutedStyle.Render("No chapters available")
	}

	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("Chapters (%d)", len(s.book.Chapters))))
	b.WriteString("\n\n")
	for i, ch := range s.book.Chapters {
		title := ansi.Truncate(ch.Title, chapterListWidth-4, "…")
		if i == s.selectedChapter {
			b.WriteString(styles.SelectedStyle.Render("● " + title))
		} else {
			b.WriteString(styles.MutedStyle.Render("○ " + title))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *ReaderScreen) refreshContent() {
	text := s.Chapter().Content
	if text == "" {
		text = "This chapter has no text."
	}
	s.content.SetContent(wordwrap.String(text, s.content.Width))
	s.content.GotoTop()
}

// ChapterChangedMsg reports the chapter the reader is on. The assistant
// follows it.
type ChapterChangedMsg struct {
	Book    data.Book
	Chapter data.Chapter
}

func (s *ReaderScreen) chapterChanged() tea.Msg {
	return ChapterChangedMsg{Book: s.book, Chapter: s.Chapter()}
}
