package services

import (
	"net/url"

	"github.com/kerbaras/bookshelf/pkg/data"
	"go.uber.org/zap"
)

// DefaultAvatar is the placeholder image seeded by a book title or token id.
func DefaultAvatar(seed string) string {
	return "https://api.dicebear.com/7.x/bottts/png?seed=" + url.QueryEscape(seed)
}

// Avatar tracks the widget's avatar image: the seeded default unless the
// viewer picked an NFT.
type Avatar struct {
	prefs  *data.Preferences
	seed   string
	url    string
	logger *zap.Logger
}

func NewAvatar(prefs *data.Preferences, seed string, logger *zap.Logger) *Avatar {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Avatar{prefs: prefs, seed: seed, url: DefaultAvatar(seed), logger: logger}
}

// Restore prefers a previously selected avatar over the default.
func (a *Avatar) Restore() {
	saved, ok, err := a.prefs.LoadAvatar()
	if err != nil {
		a.logger.Warn("failed to restore avatar", zap.Error(err))
		return
	}
	if ok {
		a.url = saved
	}
}

func (a *Avatar) URL() string { return a.url }

func (a *Avatar) IsDefault() bool { return a.url == DefaultAvatar(a.seed) }

// SetSeed changes the seed. A default avatar follows the new seed.
func (a *Avatar) SetSeed(seed string) {
	wasDefault := a.IsDefault()
	a.seed = seed
	if wasDefault {
		a.url = DefaultAvatar(seed)
	}
}

// Select makes imageURL the avatar and persists it.
func (a *Avatar) Select(imageURL string) error {
	a.url = imageURL
	return a.prefs.SaveAvatar(imageURL)
}

// Fallback swaps in the seeded default after the current image failed to
// load. The persisted choice is left alone.
func (a *Avatar) Fallback() {
	a.url = DefaultAvatar(a.seed)
}
