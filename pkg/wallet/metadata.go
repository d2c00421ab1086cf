package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kerbaras/bookshelf/pkg/utils"
	"github.com/vincent-petithory/dataurl"
)

const DefaultIPFSGateway = "https://ipfs.io/ipfs/"

// MetadataResolver turns a token URI into token metadata. The URI may hold
// inline JSON, a data: URI, an ipfs:// URI or an http(s) URL.
type MetadataResolver struct {
	api         *utils.API
	ipfsGateway string
}

func NewMetadataResolver(ipfsGateway string) *MetadataResolver {
	if ipfsGateway == "" {
		ipfsGateway = DefaultIPFSGateway
	}
	if !strings.HasSuffix(ipfsGateway, "/") {
		ipfsGateway += "/"
	}
	return &MetadataResolver{api: utils.NewAPI(""), ipfsGateway: ipfsGateway}
}

func (r *MetadataResolver) Resolve(ctx context.Context, uri string) (Metadata, error) {
	uri = strings.TrimSpace(uri)

	var raw []byte
	switch {
	case uri == "":
		return Metadata{}, fmt.Errorf("empty token uri")
	case strings.HasPrefix(uri, "{"):
		raw = []byte(uri)
	case strings.HasPrefix(uri, "data:"):
		d, err := dataurl.DecodeString(uri)
		if err != nil {
			return Metadata{}, fmt.Errorf("failed to decode data uri: %w", err)
		}
		raw = d.Data
	case strings.HasPrefix(uri, "ipfs://"), strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		var meta Metadata
		if err := r.api.Get(ctx, r.GatewayURL(uri), nil, &meta); err != nil {
			return Metadata{}, fmt.Errorf("failed to fetch metadata: %w", err)
		}
		return r.finish(meta)
	default:
		return Metadata{}, fmt.Errorf("unsupported token uri %q", uri)
	}

	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return r.finish(meta)
}

// GatewayURL rewrites ipfs:// references through the configured gateway and
// returns anything else unchanged.
func (r *MetadataResolver) GatewayURL(uri string) string {
	if !strings.HasPrefix(uri, "ipfs://") {
		return uri
	}
	path := strings.TrimPrefix(uri, "ipfs://")
	path = strings.TrimPrefix(path, "ipfs/")
	return r.ipfsGateway + path
}

func (r *MetadataResolver) finish(meta Metadata) (Metadata, error) {
	if meta.Image == "" {
		return Metadata{}, fmt.Errorf("metadata has no image")
	}
	meta.Image = r.GatewayURL(meta.Image)
	return meta, nil
}
