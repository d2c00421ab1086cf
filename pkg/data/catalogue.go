package data

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("not found")

// Catalogue is the read-only content store. Books keep declaration order and
// chapters keep reading order.
type Catalogue struct {
	books []Book
	index map[string]int
}

// SearchHit is a catalogue search result. Chapter is empty when the match was
// on the book's title or author.
type SearchHit struct {
	Book    Book
	Chapter string
	Snippet string
}

func NewCatalogue() *Catalogue {
	return newCatalogue(builtinBooks)
}

// LoadCatalogue replaces the built-in catalogue with the books declared in a
// YAML file. The file is read wholesale.
func LoadCatalogue(path string) (*Catalogue, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue: %w", err)
	}

	var doc struct {
		Books []Book `yaml:"books"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}
	if len(doc.Books) == 0 {
		return nil, fmt.Errorf("catalogue %s declares no books", path)
	}

	seen := make(map[string]bool, len(doc.Books))
	for _, b := range doc.Books {
		if b.ID == "" {
			return nil, fmt.Errorf("catalogue book %q has no id", b.Title)
		}
		if seen[b.ID] {
			return nil, fmt.Errorf("duplicate book id %q", b.ID)
		}
		seen[b.ID] = true
	}

	return newCatalogue(doc.Books), nil
}

// CatalogueOf builds a catalogue from books already in memory.
func CatalogueOf(books []Book) *Catalogue {
	return newCatalogue(books)
}

func newCatalogue(books []Book) *Catalogue {
	c := &Catalogue{
		books: make([]Book, len(books)),
		index: make(map[string]int, len(books)),
	}
	for i, b := range books {
		c.books[i] = cloneBook(b)
		c.index[b.ID] = i
	}
	return c
}

func (c *Catalogue) GetAllBooks() []Book {
	out := make([]Book, len(c.books))
	for i, b := range c.books {
		out[i] = cloneBook(b)
	}
	return out
}

func (c *Catalogue) GetBook(id string) (Book, error) {
	i, ok := c.index[id]
	if !ok {
		return Book{}, fmt.Errorf("book %q: %w", id, ErrNotFound)
	}
	return cloneBook(c.books[i]), nil
}

func (c *Catalogue) GetChapters(bookID string) ([]Chapter, error) {
	book, err := c.GetBook(bookID)
	if err != nil {
		return nil, err
	}
	return book.Chapters, nil
}

// Search matches query words case-insensitively against titles, authors and
// chapter text. Results follow catalogue order.
func (c *Catalogue) Search(query string) []SearchHit {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var hits []SearchHit
	for _, b := range c.books {
		if strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Author), q) {
			hits = append(hits, SearchHit{Book: cloneBook(b), Snippet: b.Author})
			continue
		}
		for _, ch := range b.Chapters {
			if pos, n := indexFold(ch.Content, q); pos >= 0 {
				hits = append(hits, SearchHit{
					Book:    cloneBook(b),
					Chapter: ch.ID,
					Snippet: snippet(ch.Content, pos, n),
				})
				break
			}
		}
	}
	return hits
}

// indexFold returns the byte offset and byte length of the first
// case-insensitive match of query in text. Offsets refer to text itself,
// whose case variants may differ in encoded length from query.
func indexFold(text, query string) (int, int) {
	runes := utf8.RuneCountInString(query)
	for i := range text {
		end := i
		for k := 0; k < runes && end < len(text); k++ {
			_, size := utf8.DecodeRuneInString(text[end:])
			end += size
		}
		if strings.EqualFold(text[i:end], query) {
			return i, end - i
		}
	}
	return -1, 0
}

func snippet(text string, pos, n int) string {
	const context = 40
	start := pos - context
	if start < 0 {
		start = 0
	}
	end := pos + n + context
	if end > len(text) {
		end = len(text)
	}
	// keep byte offsets on rune boundaries
	for start > 0 && !isRuneStart(text[start]) {
		start--
	}
	for end < len(text) && !isRuneStart(text[end]) {
		end++
	}

	out := strings.Join(strings.Fields(text[start:end]), " ")
	if start > 0 {
		out = "…" + out
	}
	if end < len(text) {
		out += "…"
	}
	return out
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

func cloneBook(b Book) Book {
	chapters := make([]Chapter, len(b.Chapters))
	copy(chapters, b.Chapters)
	b.Chapters = chapters
	return b
}

// TrendingAuthors returns the dashboard's author list. Each call returns a
// fresh copy so follow toggles stay local to the caller.
func TrendingAuthors() []Author {
	return []Author{
		{Name: "James Elijah"},
		{Name: "William Henry"},
		{Name: "Aria Abigail"},
		{Name: "Mia Evelyn"},
		{Name: "Mateo Levi", Following: true},
	}
}

func PopularBlogs() []Blog {
	return []Blog{
		{Title: "The Week: all you need to know about", Author: "Published by Sheila", Stats: BlogStats{Views: 122, Comments: 44}},
		{Title: "Mobile with new app for designers", Author: "Published by Malik", Stats: BlogStats{Views: 88, Comments: 22}},
		{Title: "Five ways to find more time in business", Author: "Published by Sonic", Stats: BlogStats{Views: 12, Comments: 4}},
	}
}

var builtinBooks = []Book{
	{
		ID:       "1",
		Title:    "A Brief History of Tomorrow: Surviving the Age of AI",
		Author:   "Lin Weilai",
		CoverURL: "https://picsum.photos/seed/bookshelf-1/200/300",
		Pages:    121,
		Progress: 64,
		Chapters: []Chapter{
			{
				ID:    "1-1",
				Title: "Chapter 1: Dawn of the Intelligence Revolution",
				Content: `We are standing at a turning point in history. Artificial intelligence is no longer science fiction; it is part of everyday life. From the assistant in your phone to recommendation engines and self-driving cars, AI is reshaping how we live.

The revolution moves faster than any before it. The steam engine took a century to change society. Electricity took decades. AI may do the same in a few short years.

The change brings opportunity and challenge together. Productivity climbs while some jobs disappear. Information flows freely while privacy becomes harder to protect.`,
			},
			{
				ID:    "1-2",
				Title: "Chapter 2: Living Digitally",
				Content: `In a digital world our identities are being redefined. Every one of us lives in two worlds at once, the physical and the virtual.

Social networks have changed the way we connect. Online payments have changed the way we spend. Remote work has changed the way we collaborate.

Digital life asks for new skills. Digital literacy, critical thinking and the ability to keep learning decide who thrives in the new age.`,
			},
			{
				ID:    "1-3",
				Title: "Chapter 3: Reinventing Education",
				Content: `Traditional schooling is being challenged. Memorising knowledge matters less when any fact is a search away.

Education for the AI age should cultivate creativity, critical thinking and emotional intelligence, the abilities machines find hardest to copy.

Personalised learning becomes possible. Adaptive systems can shape a curriculum around each learner's pace and interests.`,
			},
		},
	},
	{
		ID:       "2",
		Title:    "A Symphony of Technology and the Humanities",
		Author:   "Wang Renwen",
		CoverURL: "https://picsum.photos/seed/bookshelf-2/200/300",
		Pages:    11,
		Progress: 45,
		Chapters: []Chapter{
			{
				ID:    "2-1",
				Title: "Chapter 1: The Poetry of Technology",
				Content: `Technology and the humanities are often seen as opposites, one cold and rational, the other warm and emotional. In truth they are deeply connected.

Every breakthrough carries a trace of the human spirit. The curiosity that drives invention is the same curiosity that drives art.

When engineers write elegant code they are composing, and when poets use new media they are experimenting.`,
			},
			{
				ID:    "2-2",
				Title: "Chapter 2: Digital Humanism",
				Content: `Digital humanism puts people at the centre of technology. Tools should serve human flourishing, not the other way round.

Algorithms shape what we read and whom we meet. Making them transparent and fair is a humanistic task as much as a technical one.`,
			},
			{
				ID:    "2-3",
				Title: "Chapter 3: Literacy for the Future",
				Content: `What does a well-rounded person need in the future? First, critical thinking: the ability to tell true from false in an age of information overload.

Second, creativity. As routine work moves to machines, creativity becomes our most valuable asset.

Third, empathy. Real human connection matters more as the virtual and the physical intertwine.

Finally, lifelong learning. Curiosity and the habit of learning decide whether we adapt to change.`,
			},
		},
	},
	{
		ID:       "3",
		Title:    "Ecological Civilisation Revisited",
		Author:   "Zhang Shengtai",
		CoverURL: "https://picsum.photos/seed/bookshelf-3/200/300",
		Pages:    21,
		Progress: 52,
		Chapters: []Chapter{
			{
				ID:    "3-1",
				Title: "Chapter 1: A New Relationship Between People and Nature",
				Content: `After the ecological crises of the industrial era, humanity has begun to rethink its relationship with nature. Climate change, collapsing biodiversity and pollution all warn us that we must move towards an ecological civilisation.

Ecological civilisation is more than environmental protection. It asks us to redefine development itself, caring for the balance and sustainability of ecosystems while the economy grows.

Innovation plays a key role. Clean energy, carbon capture and ecological restoration open new possibilities, but technology alone cannot solve everything; we also need to change how we think and live.`,
			},
		},
	},
}
