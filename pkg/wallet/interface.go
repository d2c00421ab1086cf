package wallet

import (
	"context"
	"errors"
)

// ErrNotConnected means no wallet is available. Callers treat it as an empty
// inventory, not a failure.
var ErrNotConnected = errors.New("wallet not connected")

type Metadata struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Gateway supplies the connected wallet's NFT inventory.
type Gateway interface {
	// Owner returns the connected address or ErrNotConnected.
	Owner(ctx context.Context) (string, error)
	BalanceOf(ctx context.Context, owner string) (int, error)
	TokenOfOwnerByIndex(ctx context.Context, owner string, index int) (string, error)
	Metadata(ctx context.Context, tokenID string) (Metadata, error)
}

// Disconnected is the gateway used when no wallet is configured.
type Disconnected struct{}

func (Disconnected) Owner(context.Context) (string, error) { return "", ErrNotConnected }

func (Disconnected) BalanceOf(context.Context, string) (int, error) { return 0, ErrNotConnected }

func (Disconnected) TokenOfOwnerByIndex(context.Context, string, int) (string, error) {
	return "", ErrNotConnected
}

func (Disconnected) Metadata(context.Context, string) (Metadata, error) {
	return Metadata{}, ErrNotConnected
}
