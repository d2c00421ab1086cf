package screens

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the page-level bindings. Keys typed into a focused input or
// the open assistant never reach these.
type KeyMap struct {
	Quit      key.Binding
	Tab       key.Binding
	Assistant key.Binding
	Avatar    key.Binding
	Move      key.Binding

	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Back   key.Binding
	Search key.Binding

	NextTab    key.Binding
	PrevAuthor key.Binding
	NextAuthor key.Binding
	Follow     key.Binding
	Export     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		Assistant: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "assistant")),
		Avatar:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "avatar")),
		Move:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move assistant")),

		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read now")),
		Back:   key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),

		NextTab:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tab")),
		PrevAuthor: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev author")),
		NextAuthor: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next author")),
		Follow:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "follow")),
		Export:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export EPUB")),
	}
}

// helpLine renders bindings as "key: desc" pairs.
func helpLine(bindings ...key.Binding) string {
	line := ""
	for i, b := range bindings {
		if i > 0 {
			line += " • "
		}
		h := b.Help()
		line += h.Key + ": " + h.Desc
	}
	return line
}
