package services

import (
	"testing"
	"time"

	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, prefs *data.Preferences) *AssistantController {
	t.Helper()
	book, chapter := testBook()
	return NewAssistantController(ControllerConfig{
		Prefs:         prefs,
		SnapThreshold: 3,
		Margin:        1,
	}, book, chapter)
}

func TestControllerStartsClosed(t *testing.T) {
	c := newTestController(t, newTestPrefs())
	assert.Equal(t, StateClosed, c.State())
	assert.Equal(t, "closed", c.State().String())
}

func TestControllerPrimaryToggle(t *testing.T) {
	c := newTestController(t, newTestPrefs())

	assert.Equal(t, StateOpen, c.TogglePrimary())
	assert.Equal(t, StateClosed, c.TogglePrimary())

	c.TogglePrimary()
	c.Close()
	assert.Equal(t, StateClosed, c.State())
}

func TestControllerAvatarClosesChat(t *testing.T) {
	c := newTestController(t, newTestPrefs())
	c.TogglePrimary()

	assert.True(t, c.ActivateAvatar())
	assert.Equal(t, StateNFTSelecting, c.State())

	// a second activation is a dismiss
	assert.False(t, c.ActivateAvatar())
	assert.Equal(t, StateClosed, c.State())
}

func TestControllerDismiss(t *testing.T) {
	c := newTestController(t, newTestPrefs())
	c.ActivateAvatar()
	c.Dismiss()
	assert.Equal(t, StateClosed, c.State())

	c.ActivateAvatar()
	assert.Equal(t, StateClosed, c.TogglePrimary())

	// dismiss outside the selector changes nothing
	c.TogglePrimary()
	c.Dismiss()
	assert.Equal(t, StateOpen, c.State())
}

func TestControllerSelectNFTPersistsAndCloses(t *testing.T) {
	prefs := newTestPrefs()
	c := newTestController(t, prefs)
	c.TogglePrimary()
	require.Equal(t, StateOpen, c.State())

	c.ActivateAvatar()
	require.NoError(t, c.SelectNFT(data.NFTItem{TokenID: "7", Image: "https://img.test/7.png"}))
	assert.Equal(t, StateClosed, c.State())
	assert.Equal(t, "https://img.test/7.png", c.Avatar.URL())

	// a fresh mount restores the choice
	again := newTestController(t, prefs)
	assert.Equal(t, "https://img.test/7.png", again.Avatar.URL())
}

func TestControllerSelectNFTFromOpenChat(t *testing.T) {
	c := newTestController(t, newTestPrefs())
	c.TogglePrimary()

	require.NoError(t, c.SelectNFT(data.NFTItem{TokenID: "1", Image: "https://img.test/1.png"}))
	assert.Equal(t, StateClosed, c.State())
}

func TestControllerRestoresPosition(t *testing.T) {
	prefs := newTestPrefs()
	require.NoError(t, prefs.SavePosition(data.WidgetPosition{X: -12, Y: -4}))

	c := newTestController(t, prefs)
	assert.Equal(t, data.WidgetPosition{X: -12, Y: -4}, c.Placement.Offset())
}

func TestControllerSetContext(t *testing.T) {
	answerer := &mockAnswerer{}
	book, chapter := testBook()
	c := NewAssistantController(ControllerConfig{Answerer: answerer, AskTimeout: time.Second}, book, chapter)
	assert.Equal(t, DefaultAvatar(book.Title), c.Avatar.URL())

	other, _ := data.NewCatalogue().GetBook("3")
	c.SetContext(other, other.Chapters[0])
	assert.Equal(t, other.ID, c.Book().ID)
	assert.Equal(t, DefaultAvatar(other.Title), c.Avatar.URL())

	require.NoError(t, c.Chat.Send(t.Context(), "what now?"))
	assert.Equal(t, 1, answerer.calls)
	assert.Equal(t, other.ID, answerer.lastBook.ID)
	assert.Equal(t, other.Chapters[0].ID, answerer.lastChap.ID)
}

func TestAvatarDefaultAndFallback(t *testing.T) {
	prefs := newTestPrefs()
	a := NewAvatar(prefs, "My Book", nil)
	assert.Equal(t, "https://api.dicebear.com/7.x/bottts/png?seed=My+Book", a.URL())

	require.NoError(t, a.Select("https://broken.test/x.png"))
	a.Fallback()
	assert.Equal(t, DefaultAvatar("My Book"), a.URL())

	// the persisted choice survives the fallback
	saved, ok, err := prefs.LoadAvatar()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://broken.test/x.png", saved)
}

func TestAvatarSeedDoesNotOverrideSelection(t *testing.T) {
	a := NewAvatar(newTestPrefs(), "A", nil)
	require.NoError(t, a.Select("https://img.test/nft.png"))

	a.SetSeed("B")
	assert.Equal(t, "https://img.test/nft.png", a.URL())
}
