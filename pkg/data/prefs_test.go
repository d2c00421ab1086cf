package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionRoundTrip(t *testing.T) {
	prefs := NewPreferences(NewMemoryStore())

	_, ok, err := prefs.LoadPosition()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, prefs.SavePosition(WidgetPosition{X: 15, Y: -10}))

	pos, ok, err := prefs.LoadPosition()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, WidgetPosition{X: 15, Y: -10}, pos)
}

func TestPositionStoredAsRecord(t *testing.T) {
	store := NewMemoryStore()
	prefs := NewPreferences(store)

	require.NoError(t, prefs.SavePosition(WidgetPosition{X: -3, Y: 4}))

	raw, ok, _ := store.Get(PositionKey)
	require.True(t, ok)
	assert.JSONEq(t, `{"x":-3,"y":4}`, raw)
}

func TestLoadPositionCorrupt(t *testing.T) {
	store := NewMemoryStore()
	store.Set(PositionKey, "not json")

	_, ok, err := NewPreferences(store).LoadPosition()
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestAvatarRoundTrip(t *testing.T) {
	prefs := NewPreferences(NewMemoryStore())

	_, ok, _ := prefs.LoadAvatar()
	assert.False(t, ok)

	require.NoError(t, prefs.SaveAvatar("ipfs://avatar.png"))

	url, ok, err := prefs.LoadAvatar()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ipfs://avatar.png", url)
}
