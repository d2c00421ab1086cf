package services

import (
	"time"

	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/kerbaras/bookshelf/pkg/wallet"
	"go.uber.org/zap"
)

// OverlayState is which view the floating assistant shows. Dragging is
// tracked separately by Placement.
type OverlayState int

const (
	StateClosed OverlayState = iota
	StateOpen
	StateNFTSelecting
)

func (s OverlayState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateNFTSelecting:
		return "nft-selecting"
	default:
		return "closed"
	}
}

type ControllerConfig struct {
	Prefs         *data.Preferences
	Gateway       wallet.Gateway
	Answerer      Answerer
	SnapThreshold int
	Margin        int
	AskTimeout    time.Duration
	Logger        *zap.Logger
}

// AssistantController wires the floating assistant's parts together and
// owns its overlay state.
type AssistantController struct {
	state    OverlayState
	book     data.Book
	chapter  data.Chapter
	answerer Answerer

	Chat      *ChatSession
	Placement *Placement
	Avatar    *Avatar
	NFTs      *NFTCollector
}

// NewAssistantController builds the widget for a book and restores its
// persisted position and avatar.
func NewAssistantController(cfg ControllerConfig, book data.Book, chapter data.Chapter) *AssistantController {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	prefs := cfg.Prefs
	if prefs == nil {
		prefs = data.NewPreferences(data.NewMemoryStore())
	}
	answerer := cfg.Answerer
	if answerer == nil {
		answerer = ExcerptAnswerer{}
	}

	c := &AssistantController{
		state:     StateClosed,
		book:      book,
		chapter:   chapter,
		answerer:  answerer,
		Chat:      NewChatSession(book, chapter, Bind(answerer, book, chapter), logger),
		Placement: NewPlacement(prefs, cfg.SnapThreshold, cfg.Margin, logger),
		Avatar:    NewAvatar(prefs, book.Title, logger),
		NFTs:      NewNFTCollector(cfg.Gateway, logger),
	}
	c.Chat.SetTimeout(cfg.AskTimeout)
	c.Placement.Restore()
	c.Avatar.Restore()
	return c
}

func (c *AssistantController) State() OverlayState { return c.state }

func (c *AssistantController) Book() data.Book { return c.book }

func (c *AssistantController) Chapter() data.Chapter { return c.chapter }

// TogglePrimary handles the round button: it opens or closes the chat, and
// dismisses the NFT selector.
func (c *AssistantController) TogglePrimary() OverlayState {
	switch c.state {
	case StateClosed:
		c.state = StateOpen
	default:
		c.state = StateClosed
	}
	return c.state
}

// Close handles the chat's explicit close control.
func (c *AssistantController) Close() {
	if c.state == StateOpen {
		c.state = StateClosed
	}
}

// ActivateAvatar toggles the NFT selector. Opening it closes the chat. It
// reports whether the selector is now showing, in which case the caller
// should start NFT enumeration.
func (c *AssistantController) ActivateAvatar() bool {
	if c.state == StateNFTSelecting {
		c.state = StateClosed
		return false
	}
	c.state = StateNFTSelecting
	return true
}

// SelectNFT persists the token image as the avatar. Selection always leaves
// the widget closed, interrupting an open chat.
func (c *AssistantController) SelectNFT(item data.NFTItem) error {
	c.state = StateClosed
	return c.Avatar.Select(item.Image)
}

// Dismiss closes the NFT selector without choosing.
func (c *AssistantController) Dismiss() {
	if c.state == StateNFTSelecting {
		c.state = StateClosed
	}
}

// SetContext points the assistant at another book or chapter. The
// transcript is kept.
func (c *AssistantController) SetContext(book data.Book, chapter data.Chapter) {
	c.book, c.chapter = book, chapter
	c.Chat.SetContext(book, chapter, Bind(c.answerer, book, chapter))
	c.Avatar.SetSeed(book.Title)
}
