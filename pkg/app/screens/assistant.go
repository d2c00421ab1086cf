package screens

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/kerbaras/bookshelf/pkg/app/styles"
	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/kerbaras/bookshelf/pkg/integrations"
	"github.com/kerbaras/bookshelf/pkg/services"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"
)

const (
	panelWidth       = 46
	transcriptHeight = 10
)

type thumbTarget int

const (
	avatarThumb thumbTarget = iota
	nftThumb
)

// AssistantScreen is the floating assistant: a draggable ball with an
// avatar, and either the chat panel or the NFT selector above it.
type AssistantScreen struct {
	ctrl   *services.AssistantController
	thumbs integrations.ImageRenderer
	logger *zap.Logger

	input      textinput.Model
	transcript viewport.Model
	spinner    spinner.Model

	nfts        []data.NFTItem
	nftIndex    int
	loadingNFTs bool
	nftErr      error
	nftPreview  string

	avatarURL   string
	avatarCells string

	moving           bool
	pressed          bool
	dragged          bool
	pressOnAvatar    bool
	pressX, pressY   int
	widgetW, widgetH int
	ballW, ballH     int
	avatarW          int
}

func NewAssistantScreen(ctrl *services.AssistantController, thumbs integrations.ImageRenderer, logger *zap.Logger) *AssistantScreen {
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask about this book..."
	ti.CharLimit = 500
	ti.Width = panelWidth - 8

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := &AssistantScreen{
		ctrl:       ctrl,
		thumbs:     thumbs,
		logger:     logger,
		input:      ti,
		transcript: viewport.New(panelWidth-4, transcriptHeight),
		spinner:    sp,
	}
	ctrl.Chat.OnChange(a.refreshTranscript)
	a.refreshTranscript()
	a.layout()
	return a
}

func (a *AssistantScreen) Init() tea.Cmd {
	return a.loadAvatar()
}

func (a *AssistantScreen) Controller() *services.AssistantController { return a.ctrl }

// Capturing reports whether keys should go to the assistant before the page.
func (a *AssistantScreen) Capturing() bool {
	return a.ctrl.State() != services.StateClosed || a.moving || a.pressed
}

func (a *AssistantScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.ctrl.Placement.Resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		cmd = a.handleKey(msg)

	case tea.MouseMsg:
		_, cmd = a.HandleMouse(msg)

	case answerMsg:
		a.ctrl.Chat.Resolve(msg.reply, msg.err)
		if a.ctrl.State() == services.StateOpen {
			cmd = a.input.Focus()
		}

	case nftsLoadedMsg:
		a.loadingNFTs = false
		a.nfts, a.nftErr = msg.items, msg.err
		a.nftIndex = 0
		if msg.err != nil {
			a.logger.Warn("NFT enumeration failed", zap.Error(msg.err))
		}
		cmd = a.loadNFTPreview()

	case thumbMsg:
		cmd = a.handleThumb(msg)

	case spinner.TickMsg:
		if a.ctrl.Chat.Pending() || a.loadingNFTs {
			a.spinner, cmd = a.spinner.Update(msg)
		}
	}

	a.layout()
	return a, cmd
}

func (a *AssistantScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.moving {
		switch msg.String() {
		case "left", "h":
			a.ctrl.Placement.Move(-1, 0)
		case "right", "l":
			a.ctrl.Placement.Move(1, 0)
		case "up", "k":
			a.ctrl.Placement.Move(0, -1)
		case "down", "j":
			a.ctrl.Placement.Move(0, 1)
		case "shift+left":
			a.ctrl.Placement.Move(-5, 0)
		case "shift+right":
			a.ctrl.Placement.Move(5, 0)
		case "shift+up":
			a.ctrl.Placement.Move(0, -5)
		case "shift+down":
			a.ctrl.Placement.Move(0, 5)
		case "enter", "esc", "m":
			a.endMove()
		}
		return nil
	}

	switch a.ctrl.State() {
	case services.StateOpen:
		switch msg.String() {
		case "esc":
			a.ctrl.Close()
			a.input.Blur()
			return nil
		case "ctrl+n":
			return a.ActivateAvatar()
		case "enter":
			return a.send()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			a.transcript, cmd = a.transcript.Update(msg)
			return cmd
		}
		if a.ctrl.Chat.Pending() {
			return nil
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return cmd

	case services.StateNFTSelecting:
		switch msg.String() {
		case "up", "k":
			if len(a.nfts) > 0 {
				a.nftIndex = (a.nftIndex - 1 + len(a.nfts)) % len(a.nfts)
				return a.loadNFTPreview()
			}
		case "down", "j":
			if len(a.nfts) > 0 {
				a.nftIndex = (a.nftIndex + 1) % len(a.nfts)
				return a.loadNFTPreview()
			}
		case "enter":
			return a.selectNFT()
		case "esc", "v":
			a.ctrl.Dismiss()
		case "a":
			a.ctrl.TogglePrimary()
		}
	}
	return nil
}

// TogglePrimary is the round button: open or close the chat.
func (a *AssistantScreen) TogglePrimary() tea.Cmd {
	if a.ctrl.TogglePrimary() == services.StateOpen {
		a.refreshTranscript()
		return a.input.Focus()
	}
	a.input.Blur()
	return nil
}

// ActivateAvatar opens the NFT selector and starts enumeration, or dismisses
// the selector when it is already showing.
func (a *AssistantScreen) ActivateAvatar() tea.Cmd {
	a.input.Blur()
	if !a.ctrl.ActivateAvatar() {
		return nil
	}
	a.loadingNFTs = true
	a.nfts, a.nftErr, a.nftPreview = nil, nil, ""
	collector := a.ctrl.NFTs
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		items, err := collector.Collect(context.Background())
		return nftsLoadedMsg{items: items, err: err}
	})
}

// StartMove enters keyboard move mode.
func (a *AssistantScreen) StartMove() {
	a.moving = true
	a.ctrl.Placement.Grab()
}

func (a *AssistantScreen) endMove() {
	a.moving = false
	if err := a.ctrl.Placement.Release(); err != nil {
		a.logger.Warn("failed to save widget position", zap.Error(err))
	}
}

// SetContext follows the reader to another book or chapter.
func (a *AssistantScreen) SetContext(book data.Book, chapter data.Chapter) tea.Cmd {
	a.ctrl.SetContext(book, chapter)
	return a.loadAvatar()
}

func (a *AssistantScreen) send() tea.Cmd {
	question, err := a.ctrl.Chat.Begin(a.input.Value())
	if err != nil {
		return nil
	}
	a.input.Reset()
	a.input.Blur()

	chat := a.ctrl.Chat
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		reply, err := chat.Ask(context.Background(), question)
		return answerMsg{reply: reply, err: err}
	})
}

func (a *AssistantScreen) selectNFT() tea.Cmd {
	if a.nftIndex >= len(a.nfts) {
		return nil
	}
	if err := a.ctrl.SelectNFT(a.nfts[a.nftIndex]); err != nil {
		a.logger.Warn("failed to save avatar", zap.Error(err))
	}
	return a.loadAvatar()
}

// HandleMouse handles a mouse event in screen coordinates. It reports
// whether the event belonged to the widget.
func (a *AssistantScreen) HandleMouse(msg tea.MouseMsg) (bool, tea.Cmd) {
	col, row := a.ctrl.Placement.Origin()
	lx, ly := msg.X-col, msg.Y-row
	inWidget := lx >= 0 && lx < a.widgetW && ly >= 0 && ly < a.widgetH
	ballLeft := a.widgetW - a.ballW
	inBall := inWidget && lx >= ballLeft && ly >= a.widgetH-a.ballH

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
			if inWidget && a.ctrl.State() == services.StateOpen {
				var cmd tea.Cmd
				a.transcript, cmd = a.transcript.Update(msg)
				return true, cmd
			}
			return inWidget, nil
		}
		if msg.Button != tea.MouseButtonLeft {
			return inWidget, nil
		}
		if inBall {
			a.pressed, a.dragged = true, false
			a.pressOnAvatar = lx < ballLeft+a.avatarW
			a.pressX, a.pressY = msg.X, msg.Y
			a.ctrl.Placement.Grab()
			return true, nil
		}
		if !inWidget && a.ctrl.State() == services.StateNFTSelecting {
			a.ctrl.Dismiss()
		}
		return inWidget, nil

	case tea.MouseActionMotion:
		if !a.pressed {
			return false, nil
		}
		dx, dy := msg.X-a.pressX, msg.Y-a.pressY
		if dx != 0 || dy != 0 {
			a.dragged = true
			a.ctrl.Placement.Move(dx, dy)
			a.pressX, a.pressY = msg.X, msg.Y
		}
		return true, nil

	case tea.MouseActionRelease:
		if !a.pressed {
			return false, nil
		}
		a.pressed = false
		if a.dragged {
			if err := a.ctrl.Placement.Release(); err != nil {
				a.logger.Warn("failed to save widget position", zap.Error(err))
			}
			return true, nil
		}
		a.ctrl.Placement.Cancel()
		if a.pressOnAvatar {
			return true, a.ActivateAvatar()
		}
		return true, a.TogglePrimary()
	}
	return false, nil
}

func (a *AssistantScreen) loadAvatar() tea.Cmd {
	url := a.ctrl.Avatar.URL()
	if a.thumbs == nil || url == a.avatarURL {
		return nil
	}
	return a.renderThumb(url, "", avatarThumb)
}

func (a *AssistantScreen) loadNFTPreview() tea.Cmd {
	a.nftPreview = ""
	if a.thumbs == nil || a.nftIndex >= len(a.nfts) {
		return nil
	}
	item := a.nfts[a.nftIndex]
	return a.renderThumb(item.Image, item.TokenID, nftThumb)
}

func (a *AssistantScreen) renderThumb(url, seed string, target thumbTarget) tea.Cmd {
	thumbs := a.thumbs
	return func() tea.Msg {
		cells, err := thumbs.Render(context.Background(), url)
		return thumbMsg{url: url, seed: seed, target: target, cells: cells, err: err}
	}
}

// handleThumb applies a rendered image. A failed avatar falls back to the
// seeded default; a failed NFT tile falls back to one seeded by token id.
func (a *AssistantScreen) handleThumb(msg thumbMsg) tea.Cmd {
	switch msg.target {
	case avatarThumb:
		if msg.url != a.ctrl.Avatar.URL() {
			return nil
		}
		if msg.err != nil {
			a.logger.Debug("avatar image failed", zap.String("url", msg.url), zap.Error(msg.err))
			if !a.ctrl.Avatar.IsDefault() {
				a.ctrl.Avatar.Fallback()
				return a.loadAvatar()
			}
			a.avatarURL, a.avatarCells = msg.url, ""
			return nil
		}
		a.avatarURL, a.avatarCells = msg.url, msg.cells

	case nftThumb:
		if a.nftIndex >= len(a.nfts) || a.nfts[a.nftIndex].TokenID != msg.seed {
			return nil
		}
		if msg.err != nil {
			fallback := services.DefaultAvatar(msg.seed)
			if msg.url != fallback {
				return a.renderThumb(fallback, msg.seed, nftThumb)
			}
			return nil
		}
		a.nftPreview = msg.cells
	}
	return nil
}

// refreshTranscript re-renders the transcript and scrolls to the latest
// message.
func (a *AssistantScreen) refreshTranscript() {
	width := a.transcript.Width
	var parts []string
	for _, m := range a.ctrl.Chat.Transcript() {
		text := wordwrap.String(m.Text, width-6)
		if m.Role == data.RoleUser {
			parts = append(parts, lipgloss.PlaceHorizontal(width, lipgloss.Right, styles.UserBubbleStyle.Render(text)))
		} else {
			parts = append(parts, styles.AssistantBubbleStyle.Render(text))
		}
	}
	a.transcript.SetContent(strings.Join(parts, "\n\n"))
	a.transcript.GotoBottom()
}

// layout measures the widget and hands its footprint to the placement.
func (a *AssistantScreen) layout() {
	view := a.View()
	a.widgetW, a.widgetH = lipgloss.Width(view), lipgloss.Height(view)
	a.ctrl.Placement.SetFootprint(a.widgetW, a.widgetH)
}

func (a *AssistantScreen) View() string {
	ball := a.renderBall()
	a.ballW, a.ballH = lipgloss.Width(ball), lipgloss.Height(ball)

	var panel string
	switch a.ctrl.State() {
	case services.StateOpen:
		panel = a.renderChat()
	case services.StateNFTSelecting:
		panel = a.renderSelector()
	}
	if panel == "" {
		return ball
	}
	return lipgloss.JoinVertical(lipgloss.Right, panel, ball)
}

func (a *AssistantScreen) renderBall() string {
	avatar := a.avatarCells
	if avatar == "" {
		avatar = styles.SelectedStyle.Render("◉")
	}
	a.avatarW = lipgloss.Width(avatar) + 2

	label := "Ask"
	if a.ctrl.State() == services.StateOpen {
		label = "Close"
	}
	content := lipgloss.JoinHorizontal(lipgloss.Center, avatar, " ", styles.TextStyle.Render(label))

	style := styles.BallStyle
	if a.ctrl.Placement.Dragging() {
		style = styles.DraggingBallStyle
	}
	return style.Render(content)
}

func (a *AssistantScreen) renderChat() string {
	header := styles.SelectedStyle.Render("Reading assistant") +
		styles.MutedStyle.Render(" · "+ansi.Truncate(a.ctrl.Chapter().Title, panelWidth-24, "…"))

	footer := a.input.View()
	if a.ctrl.Chat.Pending() {
		footer = a.spinner.View() + styles.StatusBusy.Render(" "+services.ThinkingText)
	}

	help := styles.MutedStyle.Render("enter send • esc close • ctrl+n avatar")
	content := lipgloss.JoinVertical(lipgloss.Left, header, "", a.transcript.View(), "", footer, help)
	return styles.ChatPanelStyle.Width(panelWidth).Render(content)
}

func (a *AssistantScreen) renderSelector() string {
	var b strings.Builder
	b.WriteString(styles.SelectedStyle.Render("Choose an NFT"))
	b.WriteString("\n\n")

	switch {
	case a.loadingNFTs:
		b.WriteString(a.spinner.View() + " Loading your NFTs...")
	case a.nftErr != nil:
		b.WriteString(styles.StatusError.Render("Could not load your NFTs"))
	case len(a.nfts) == 0:
		b.WriteString(styles.MutedStyle.Render("No NFTs found"))
	default:
		var names []string
		for i, item := range a.nfts {
			name := item.Name
			if name == "" {
				name = "#" + item.TokenID
			}
			line := fmt.Sprintf("  %s", ansi.Truncate(name, 22, "…"))
			if i == a.nftIndex {
				line = styles.SelectedStyle.Render("› " + ansi.Truncate(name, 22, "…"))
			}
			names = append(names, line)
		}
		list := strings.Join(names, "\n")
		if a.nftPreview != "" {
			list = lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", a.nftPreview)
		}
		b.WriteString(list)
	}

	b.WriteString("\n\n")
	b.WriteString(styles.MutedStyle.Render("enter use • esc cancel"))
	return styles.ChatPanelStyle.Width(panelWidth).Render(b.String())
}

// Messages
type answerMsg struct {
	reply string
	err   error
}

type nftsLoadedMsg struct {
	items []data.NFTItem
	err   error
}

type thumbMsg struct {
	url    string
	seed   string
	target thumbTarget
	cells  string
	err    error
}
