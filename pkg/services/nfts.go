package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/kerbaras/bookshelf/pkg/wallet"
	"go.uber.org/zap"
)

// NFTCollector enumerates the connected wallet's tokens one at a time.
type NFTCollector struct {
	gateway wallet.Gateway
	logger  *zap.Logger
}

func NewNFTCollector(gateway wallet.Gateway, logger *zap.Logger) *NFTCollector {
	if gateway == nil {
		gateway = wallet.Disconnected{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NFTCollector{gateway: gateway, logger: logger}
}

// Collect returns every token whose metadata resolves. Tokens that fail are
// logged and skipped. No wallet means no tokens, not an error.
func (c *NFTCollector) Collect(ctx context.Context) ([]data.NFTItem, error) {
	items := []data.NFTItem{}

	owner, err := c.gateway.Owner(ctx)
	if errors.Is(err, wallet.ErrNotConnected) {
		return items, nil
	}
	if err != nil {
		return items, fmt.Errorf("failed to get wallet owner: %w", err)
	}

	balance, err := c.gateway.BalanceOf(ctx, owner)
	if errors.Is(err, wallet.ErrNotConnected) {
		return items, nil
	}
	if err != nil {
		return items, fmt.Errorf("failed to get balance: %w", err)
	}

	for i := 0; i < balance; i++ {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		tokenID, err := c.gateway.TokenOfOwnerByIndex(ctx, owner, i)
		if err != nil {
			c.logger.Warn("skipping token", zap.Int("index", i), zap.Error(err))
			continue
		}

		meta, err := c.gateway.Metadata(ctx, tokenID)
		if err != nil {
			c.logger.Warn("skipping token metadata",
				zap.Int("index", i),
				zap.String("token_id", tokenID),
				zap.Error(err),
			)
			continue
		}

		items = append(items, data.NFTItem{TokenID: tokenID, Image: meta.Image, Name: meta.Name})
	}

	c.logger.Debug("collected NFTs", zap.Int("balance", balance), zap.Int("resolved", len(items)))
	return items, nil
}
