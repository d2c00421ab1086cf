package wallet

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Only the enumerable and metadata views of ERC-721 are needed.
const erc721ABI = `[
	{"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"owner","type":"address"},{"name":"index","type":"uint256"}],"name":"tokenOfOwnerByIndex","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"tokenId","type":"uint256"}],"name":"tokenURI","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}
]`

type contractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// ERC721Gateway reads an enumerable ERC-721 contract over JSON-RPC.
type ERC721Gateway struct {
	caller   contractCaller
	client   *ethclient.Client
	contract common.Address
	owner    string
	abi      abi.ABI
	resolver *MetadataResolver
}

func NewERC721Gateway(ctx context.Context, rpcURL, contract, owner string, resolver *MetadataResolver) (*ERC721Gateway, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rpcURL, err)
	}
	g, err := newERC721Gateway(client, contract, owner, resolver)
	if err != nil {
		client.Close()
		return nil, err
	}
	g.client = client
	return g, nil
}

func newERC721Gateway(caller contractCaller, contract, owner string, resolver *MetadataResolver) (*ERC721Gateway, error) {
	if !common.IsHexAddress(contract) {
		return nil, fmt.Errorf("invalid contract address %q", contract)
	}
	if owner != "" && !common.IsHexAddress(owner) {
		return nil, fmt.Errorf("invalid owner address %q", owner)
	}
	parsed, err := abi.JSON(strings.NewReader(erc721ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC-721 ABI: %w", err)
	}
	if resolver == nil {
		resolver = NewMetadataResolver("")
	}
	return &ERC721Gateway{
		caller:   caller,
		contract: common.HexToAddress(contract),
		owner:    owner,
		abi:      parsed,
		resolver: resolver,
	}, nil
}

func (g *ERC721Gateway) Owner(context.Context) (string, error) {
	if g.owner == "" {
		return "", ErrNotConnected
	}
	return g.owner, nil
}

func (g *ERC721Gateway) BalanceOf(ctx context.Context, owner string) (int, error) {
	out, err := g.call(ctx, "balanceOf", common.HexToAddress(owner))
	if err != nil {
		return 0, err
	}
	balance, ok := out.(*big.Int)
	if !ok || !balance.IsInt64() {
		return 0, fmt.Errorf("unexpected balanceOf result %v", out)
	}
	return int(balance.Int64()), nil
}

func (g *ERC721Gateway) TokenOfOwnerByIndex(ctx context.Context, owner string, index int) (string, error) {
	out, err := g.call(ctx, "tokenOfOwnerByIndex", common.HexToAddress(owner), big.NewInt(int64(index)))
	if err != nil {
		return "", err
	}
	id, ok := out.(*big.Int)
	if !ok {
		return "", fmt.Errorf("unexpected tokenOfOwnerByIndex result %v", out)
	}
	return id.String(), nil
}

func (g *ERC721Gateway) Metadata(ctx context.Context, tokenID string) (Metadata, error) {
	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return Metadata{}, fmt.Errorf("invalid token id %q", tokenID)
	}
	out, err := g.call(ctx, "tokenURI", id)
	if err != nil {
		return Metadata{}, err
	}
	uri, ok := out.(string)
	if !ok {
		return Metadata{}, fmt.Errorf("unexpected tokenURI result %v", out)
	}
	return g.resolver.Resolve(ctx, uri)
}

func (g *ERC721Gateway) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

// call runs a single-output view method.
func (g *ERC721Gateway) call(ctx context.Context, method string, args ...any) (any, error) {
	input, err := g.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	raw, err := g.caller.CallContract(ctx, ethereum.CallMsg{To: &g.contract, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}
	values, err := g.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%s returned %d values", method, len(values))
	}
	return values[0], nil
}
