package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/kerbaras/bookshelf/pkg/config"
	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/kerbaras/bookshelf/pkg/integrations"
	"github.com/kerbaras/bookshelf/pkg/services"
	"github.com/kerbaras/bookshelf/pkg/utils"
	"github.com/kerbaras/bookshelf/pkg/wallet"
	"go.uber.org/zap"
)

// Avatar thumbnails are drawn in a small box inside the floating ball.
const (
	thumbnailCols = 6
	thumbnailRows = 2
)

// Deps is everything built from the config that the TUI and the CLI share.
type Deps struct {
	Config     *config.Config
	Logger     *zap.Logger
	Catalogue  *data.Catalogue
	Prefs      *data.Preferences
	Gateway    wallet.Gateway
	Answerer   services.Answerer
	Exporter   *services.Exporter
	Thumbnails *integrations.Thumbnailer

	closers []func()
}

// NewDeps wires the application. Only a broken catalogue file is fatal:
// an unusable database falls back to memory and an unreachable wallet to
// the disconnected gateway, both with a warning.
func NewDeps(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Deps, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Deps{Config: cfg, Logger: logger}

	catalogue := data.NewCatalogue()
	if cfg.Data.Catalogue != "" {
		loaded, err := data.LoadCatalogue(cfg.Data.Catalogue)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalogue: %w", err)
		}
		catalogue = loaded
	}
	d.Catalogue = catalogue

	var store data.KeyValueStore
	duck, err := data.NewDuckDBStore(cfg.Data.Database)
	if err != nil {
		logger.Warn("preferences database unavailable, using memory",
			zap.String("path", cfg.Data.Database), zap.Error(err))
		store = data.NewMemoryStore()
	} else {
		store = duck
		d.closers = append(d.closers, func() { duck.Close() })
	}
	d.Prefs = data.NewPreferences(store)

	d.Gateway = wallet.Disconnected{}
	if cfg.WalletConfigured() {
		resolver := wallet.NewMetadataResolver(cfg.Wallet.IPFSGateway)
		gw, err := wallet.NewERC721Gateway(ctx, cfg.Wallet.RPCURL, cfg.Wallet.Contract, cfg.Wallet.Owner, resolver)
		if err != nil {
			logger.Warn("wallet unavailable", zap.String("rpc", cfg.Wallet.RPCURL), zap.Error(err))
		} else {
			d.Gateway = gw
			d.closers = append(d.closers, gw.Close)
		}
	}

	if cfg.Assistant.OpenAIKey != "" {
		d.Answerer = services.NewOpenAIAnswerer(cfg.Assistant.OpenAIKey, cfg.Assistant.OpenAIModel, cfg.Assistant.OpenAIBaseURL, logger)
	} else {
		d.Answerer = services.ExcerptAnswerer{}
	}

	api := utils.NewAPI("")
	d.Exporter = services.NewExporter(catalogue, integrations.NewEPubExporter(filepath.Join(cfg.Data.Dir, "exports")), api, logger)
	d.closers = append(d.closers, d.Exporter.Close)
	d.Thumbnails = integrations.NewThumbnailer(api, thumbnailCols, thumbnailRows)

	return d, nil
}

// Controller builds the floating assistant for a book, opened at chapter.
func (d *Deps) Controller(book data.Book, chapter data.Chapter) *services.AssistantController {
	return services.NewAssistantController(services.ControllerConfig{
		Prefs:         d.Prefs,
		Gateway:       d.Gateway,
		Answerer:      d.Answerer,
		SnapThreshold: d.Config.Assistant.SnapThreshold,
		Margin:        d.Config.Assistant.Margin,
		AskTimeout:    d.Config.Assistant.AskTimeout,
		Logger:        d.Logger,
	}, book, chapter)
}

// Close releases the database and the wallet connection.
func (d *Deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}
