package data

type Book struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Author   string    `yaml:"author"`
	CoverURL string    `yaml:"cover"`
	Chapters []Chapter `yaml:"chapters"`
	Pages    int       `yaml:"pages"`
	Progress int       `yaml:"progress"` // 0-100, display only
}

type Chapter struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// Author is a trending author shown on the dashboard. Following is session
// state owned by the author card.
type Author struct {
	Name      string
	Following bool
}

type BlogStats struct {
	Views    int
	Comments int
}

type Blog struct {
	Title  string
	Author string // attribution, e.g. "Published by Sheila"
	Stats  BlogStats
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatMessage struct {
	Role Role
	Text string
}

type NFTItem struct {
	TokenID string
	Image   string
	Name    string
}

// WidgetPosition is the floating widget's offset from its docked corner, in cells.
type WidgetPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}
