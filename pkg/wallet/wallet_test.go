package wallet

import (
	"context"
	"encoding/base64"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testContract = "0x00000000000000000000000000000000000000aa"
	testOwner    = "0x00000000000000000000000000000000000000bb"
)

func TestResolveInlineJSON(t *testing.T) {
	r := NewMetadataResolver("")

	meta, err := r.Resolve(context.Background(), `{"name":"Cat","image":"https://img.test/cat.png"}`)
	require.NoError(t, err)
	assert.Equal(t, "Cat", meta.Name)
	assert.Equal(t, "https://img.test/cat.png", meta.Image)
}

func TestResolveDataURI(t *testing.T) {
	r := NewMetadataResolver("https://gw.test/ipfs")
	payload := base64.StdEncoding.EncodeToString([]byte(`{"name":"Dog","image":"ipfs://Qm123/dog.png"}`))

	meta, err := r.Resolve(context.Background(), "data:application/json;base64,"+payload)
	require.NoError(t, err)
	assert.Equal(t, "Dog", meta.Name)
	assert.Equal(t, "https://gw.test/ipfs/Qm123/dog.png", meta.Image)
}

func TestResolveHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/meta/7.json", r.URL.Path)
		w.Write([]byte(`{"name":"Seven","image":"https://img.test/7.png"}`))
	}))
	defer server.Close()

	meta, err := NewMetadataResolver("").Resolve(context.Background(), server.URL+"/meta/7.json")
	require.NoError(t, err)
	assert.Equal(t, "Seven", meta.Name)
}

func TestResolveIPFSThroughGateway(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ipfs/QmMeta/1", r.URL.Path)
		w.Write([]byte(`{"name":"One","image":"https://img.test/1.png"}`))
	}))
	defer server.Close()

	meta, err := NewMetadataResolver(server.URL+"/ipfs/").Resolve(context.Background(), "ipfs://ipfs/QmMeta/1")
	require.NoError(t, err)
	assert.Equal(t, "One", meta.Name)
}

func TestResolveFailures(t *testing.T) {
	r := NewMetadataResolver("")
	for _, uri := range []string{"", "ftp://x", "{not json", `{"name":"no image"}`} {
		_, err := r.Resolve(context.Background(), uri)
		assert.Error(t, err, "uri %q", uri)
	}
}

func TestDisconnected(t *testing.T) {
	_, err := Disconnected{}.Owner(context.Background())
	assert.True(t, errors.Is(err, ErrNotConnected))
}

// fakeChain answers eth_call requests for a tiny ERC-721 contract.
type fakeChain struct {
	abi    abi.ABI
	tokens []int64
	uris   map[string]string
	calls  []string
}

func newFakeChain(t *testing.T, tokens []int64, uris map[string]string) *fakeChain {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(erc721ABI))
	require.NoError(t, err)
	return &fakeChain{abi: parsed, tokens: tokens, uris: uris}
}

func (f *fakeChain) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	method, err := f.abi.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return nil, err
	}
	f.calls = append(f.calls, method.Name)

	switch method.Name {
	case "balanceOf":
		return method.Outputs.Pack(big.NewInt(int64(len(f.tokens))))
	case "tokenOfOwnerByIndex":
		idx := args[1].(*big.Int).Int64()
		if idx >= int64(len(f.tokens)) {
			return nil, errors.New("execution reverted")
		}
		return method.Outputs.Pack(big.NewInt(f.tokens[idx]))
	case "tokenURI":
		uri, ok := f.uris[args[0].(*big.Int).String()]
		if !ok {
			return nil, errors.New("execution reverted")
		}
		return method.Outputs.Pack(uri)
	}
	return nil, errors.New("unknown method")
}

func TestERC721Gateway(t *testing.T) {
	chain := newFakeChain(t, []int64{42, 7}, map[string]string{
		"42": `{"name":"Answer","image":"https://img.test/42.png"}`,
	})
	g, err := newERC721Gateway(chain, testContract, testOwner, nil)
	require.NoError(t, err)
	ctx := context.Background()

	owner, err := g.Owner(ctx)
	require.NoError(t, err)
	assert.Equal(t, testOwner, owner)

	balance, err := g.BalanceOf(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, balance)

	id, err := g.TokenOfOwnerByIndex(ctx, owner, 1)
	require.NoError(t, err)
	assert.Equal(t, "7", id)

	meta, err := g.Metadata(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "Answer", meta.Name)

	_, err = g.Metadata(ctx, "7")
	assert.Error(t, err)
}

func TestERC721GatewayWithoutOwner(t *testing.T) {
	g, err := newERC721Gateway(newFakeChain(t, nil, nil), testContract, "", nil)
	require.NoError(t, err)

	_, err = g.Owner(context.Background())
	assert.True(t, errors.Is(err, ErrNotConnected))
}

func TestERC721GatewayRejectsBadAddress(t *testing.T) {
	_, err := newERC721Gateway(newFakeChain(t, nil, nil), "not-an-address", testOwner, nil)
	assert.Error(t, err)
}
