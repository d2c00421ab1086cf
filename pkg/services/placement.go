package services

import (
	"github.com/kerbaras/bookshelf/pkg/data"
	"go.uber.org/zap"
)

// Bounds are the inclusive offsets the widget may take. Offsets are measured
// from the docked position in the bottom-right corner, so they are mostly
// negative.
type Bounds struct {
	MinX, MaxX int
	MinY, MaxY int
}

func (b Bounds) clamp(p data.WidgetPosition) data.WidgetPosition {
	return data.WidgetPosition{X: clampInt(p.X, b.MinX, b.MaxX), Y: clampInt(p.Y, b.MinY, b.MaxY)}
}

// Placement owns the widget's offset: drag bounds from the viewport and the
// widget footprint, snap-to-dock on release, and persistence.
type Placement struct {
	prefs     *data.Preferences
	threshold int
	margin    int
	logger    *zap.Logger

	viewW, viewH int
	footW, footH int
	offset       data.WidgetPosition
	dragging     bool
}

func NewPlacement(prefs *data.Preferences, threshold, margin int, logger *zap.Logger) *Placement {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Placement{prefs: prefs, threshold: threshold, margin: margin, logger: logger}
}

// Restore loads the persisted offset. A missing or unreadable entry leaves
// the widget docked.
func (p *Placement) Restore() {
	pos, ok, err := p.prefs.LoadPosition()
	if err != nil {
		p.logger.Warn("failed to restore widget position", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	p.offset = pos
	p.clamp()
}

// Resize records the viewport size and pulls the widget back inside it.
func (p *Placement) Resize(width, height int) {
	p.viewW, p.viewH = width, height
	p.clamp()
}

// SetFootprint records the widget's rendered size in cells.
func (p *Placement) SetFootprint(width, height int) {
	if width == p.footW && height == p.footH {
		return
	}
	p.footW, p.footH = width, height
	p.clamp()
}

// Bounds reports false until the viewport size is known.
func (p *Placement) Bounds() (Bounds, bool) {
	if p.viewW <= 0 || p.viewH <= 0 {
		return Bounds{}, false
	}
	b := Bounds{
		MinX: -(p.viewW - p.footW - p.margin),
		MaxX: p.margin,
		MinY: -(p.viewH - p.footH - p.margin),
		MaxY: p.margin,
	}
	// A widget larger than the viewport pins to the dock.
	if b.MinX > 0 {
		b.MinX = 0
	}
	if b.MinY > 0 {
		b.MinY = 0
	}
	return b, true
}

func (p *Placement) Offset() data.WidgetPosition { return p.offset }

func (p *Placement) Dragging() bool { return p.dragging }

// Grab starts a drag gesture.
func (p *Placement) Grab() { p.dragging = true }

// Move shifts the widget by a delta, staying in bounds.
func (p *Placement) Move(dx, dy int) {
	p.MoveTo(data.WidgetPosition{X: p.offset.X + dx, Y: p.offset.Y + dy})
}

func (p *Placement) MoveTo(pos data.WidgetPosition) {
	p.offset = pos
	p.clamp()
}

// Cancel ends a gesture that never moved. Nothing is persisted.
func (p *Placement) Cancel() { p.dragging = false }

// Release ends a drag gesture: each axis closer to the dock than the snap
// threshold returns to zero, then the offset is persisted.
func (p *Placement) Release() error {
	p.dragging = false
	p.offset = data.WidgetPosition{
		X: snapTo(p.offset.X, p.threshold),
		Y: snapTo(p.offset.Y, p.threshold),
	}
	p.clamp()
	return p.prefs.SavePosition(p.offset)
}

// Origin returns the widget's top-left cell in the viewport.
func (p *Placement) Origin() (col, row int) {
	col = p.viewW - p.footW - p.margin + p.offset.X
	row = p.viewH - p.footH - p.margin + p.offset.Y
	return max(col, 0), max(row, 0)
}

func (p *Placement) clamp() {
	if b, ok := p.Bounds(); ok {
		p.offset = b.clamp(p.offset)
	}
}

func snapTo(v, threshold int) int {
	if abs(v) < threshold {
		return 0
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
