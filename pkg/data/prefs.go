package data

import (
	"encoding/json"
	"fmt"
	"sync"
)

const (
	PositionKey = "floatingBallPosition"
	AvatarKey   = "selectedNFTAvatar"
)

// Preferences reads and writes the widget's two persisted entries. Writes are
// serialized so a widget instance never interleaves them.
type Preferences struct {
	store KeyValueStore
	mu    sync.Mutex
}

func NewPreferences(store KeyValueStore) *Preferences {
	return &Preferences{store: store}
}

// LoadPosition returns ok=false when no position was saved yet.
func (p *Preferences) LoadPosition() (WidgetPosition, bool, error) {
	raw, ok, err := p.store.Get(PositionKey)
	if err != nil || !ok {
		return WidgetPosition{}, false, err
	}
	var pos WidgetPosition
	if err := json.Unmarshal([]byte(raw), &pos); err != nil {
		return WidgetPosition{}, false, fmt.Errorf("failed to decode %s: %w", PositionKey, err)
	}
	return pos, true, nil
}

func (p *Preferences) SavePosition(pos WidgetPosition) error {
	raw, err := json.Marshal(pos)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Set(PositionKey, string(raw))
}

func (p *Preferences) LoadAvatar() (string, bool, error) {
	v, ok, err := p.store.Get(AvatarKey)
	if err != nil || !ok || v == "" {
		return "", false, err
	}
	return v, true, nil
}

func (p *Preferences) SaveAvatar(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Set(AvatarKey, url)
}
