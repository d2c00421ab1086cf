package services

import (
	"testing"

	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacementRestoreThenSnap(t *testing.T) {
	prefs := newTestPrefs()
	require.NoError(t, prefs.SavePosition(data.WidgetPosition{X: 15, Y: -10}))

	p := NewPlacement(prefs, 20, 20, nil)
	p.Restore()
	assert.Equal(t, data.WidgetPosition{X: 15, Y: -10}, p.Offset())

	p.Resize(200, 100)
	p.SetFootprint(10, 5)
	assert.Equal(t, data.WidgetPosition{X: 15, Y: -10}, p.Offset())

	p.Grab()
	p.MoveTo(data.WidgetPosition{X: 5, Y: -3})
	require.NoError(t, p.Release())
	assert.Equal(t, data.WidgetPosition{X: 0, Y: 0}, p.Offset())

	saved, ok, err := prefs.LoadPosition()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, data.WidgetPosition{X: 0, Y: 0}, saved)
}

func TestPlacementSnapIsPerAxis(t *testing.T) {
	p := NewPlacement(newTestPrefs(), 3, 1, nil)
	p.Resize(80, 24)
	p.SetFootprint(8, 4)

	p.MoveTo(data.WidgetPosition{X: -30, Y: -2})
	require.NoError(t, p.Release())
	assert.Equal(t, data.WidgetPosition{X: -30, Y: 0}, p.Offset())
}

func TestPlacementBounds(t *testing.T) {
	p := NewPlacement(newTestPrefs(), 3, 1, nil)
	_, ok := p.Bounds()
	assert.False(t, ok)

	p.Resize(80, 24)
	p.SetFootprint(8, 4)
	b, ok := p.Bounds()
	require.True(t, ok)
	assert.Equal(t, Bounds{MinX: -71, MaxX: 1, MinY: -19, MaxY: 1}, b)
}

func TestPlacementStaysOnScreen(t *testing.T) {
	p := NewPlacement(newTestPrefs(), 3, 1, nil)
	p.Resize(80, 24)
	p.SetFootprint(8, 4)

	p.Grab()
	p.Move(-500, -500)
	assert.Equal(t, data.WidgetPosition{X: -71, Y: -19}, p.Offset())
	col, row := p.Origin()
	assert.Equal(t, 0, col)
	assert.Equal(t, 0, row)

	p.Move(1000, 1000)
	assert.Equal(t, data.WidgetPosition{X: 1, Y: 1}, p.Offset())
	assert.True(t, p.Dragging())
}

func TestPlacementClampsOnResize(t *testing.T) {
	prefs := newTestPrefs()
	require.NoError(t, prefs.SavePosition(data.WidgetPosition{X: -150, Y: -60}))

	p := NewPlacement(prefs, 3, 1, nil)
	p.Restore()
	// unsized viewport keeps the stored offset
	assert.Equal(t, data.WidgetPosition{X: -150, Y: -60}, p.Offset())

	p.SetFootprint(8, 4)
	p.Resize(80, 24)
	assert.Equal(t, data.WidgetPosition{X: -71, Y: -19}, p.Offset())

	p.Resize(40, 10)
	assert.Equal(t, data.WidgetPosition{X: -31, Y: -5}, p.Offset())
}

func TestPlacementTinyViewportPinsToDock(t *testing.T) {
	p := NewPlacement(newTestPrefs(), 3, 1, nil)
	p.SetFootprint(20, 10)
	p.Resize(10, 5)

	b, ok := p.Bounds()
	require.True(t, ok)
	assert.Equal(t, 0, b.MinX)
	assert.Equal(t, 0, b.MinY)
}

func TestPlacementCorruptStoreKeepsDock(t *testing.T) {
	store := data.NewMemoryStore()
	require.NoError(t, store.Set(data.PositionKey, "{broken"))

	p := NewPlacement(data.NewPreferences(store), 3, 1, nil)
	p.Restore()
	assert.Equal(t, data.WidgetPosition{}, p.Offset())
}
