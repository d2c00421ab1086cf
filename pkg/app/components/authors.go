package components

import (
	"strings"

	"github.com/kerbaras/bookshelf/pkg/app/styles"
	"github.com/kerbaras/bookshelf/pkg/data"
)

// AuthorCard shows one author with a follow toggle. Following is the card's
// own state and is never reported to the page.
type AuthorCard struct {
	author data.Author
}

func NewAuthorCard(author data.Author) *AuthorCard {
	return &AuthorCard{author: author}
}

func (c *AuthorCard) Toggle() { c.author.Following = !c.author.Following }

func (c *AuthorCard) Following() bool { return c.author.Following }

func (c *AuthorCard) Name() string { return c.author.Name }

func (c *AuthorCard) View(highlighted bool) string {
	button := styles.InactiveTabStyle.Render("Follow")
	if c.author.Following {
		button = styles.ActiveTabStyle.Render("Following")
	}
	name := styles.TextStyle.Render(c.author.Name)
	if highlighted {
		name = styles.SelectedStyle.Render("› " + c.author.Name)
	}
	return name + " " + button
}

// AuthorList is the trending-authors panel.
type AuthorList struct {
	Cards         []*AuthorCard
	SelectedIndex int
}

func NewAuthorList(authors []data.Author) *AuthorList {
	cards := make([]*AuthorCard, len(authors))
	for i, a := range authors {
		cards[i] = NewAuthorCard(a)
	}
	return &AuthorList{Cards: cards}
}

func (l *AuthorList) Next() {
	if len(l.Cards) > 0 {
		l.SelectedIndex = (l.SelectedIndex + 1) % len(l.Cards)
	}
}

func (l *AuthorList) Prev() {
	if len(l.Cards) > 0 {
		l.SelectedIndex = (l.SelectedIndex - 1 + len(l.Cards)) % len(l.Cards)
	}
}

// ToggleSelected flips the highlighted card's follow state.
func (l *AuthorList) ToggleSelected() {
	if l.SelectedIndex < len(l.Cards) {
		l.Cards[l.SelectedIndex].Toggle()
	}
}

func (l *AuthorList) View() string {
	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render("Trending authors"))
	b.WriteString("\n\n")
	for i, card := range l.Cards {
		b.WriteString(card.View(i == l.SelectedIndex))
		b.WriteString("\n")
	}
	return b.String()
}
