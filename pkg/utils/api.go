package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type API struct {
	client  *http.Client
	baseURL string
}

func NewAPI(baseURL string) *API {
	return &API{client: http.DefaultClient, baseURL: baseURL}
}

// WithClient swaps the underlying HTTP client.
func (a *API) WithClient(client *http.Client) *API {
	a.client = client
	return a
}

// Get decodes a JSON response. path may be relative to the base URL or an
// absolute http(s) URL.
func (a *API) Get(ctx context.Context, path string, params url.Values, v any) error {
	body, _, err := a.fetch(ctx, path, params, "application/json")
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetBytes returns the raw body and its content type.
func (a *API) GetBytes(ctx context.Context, path string) ([]byte, string, error) {
	body, contentType, err := a.fetch(ctx, path, nil, "*/*")
	if err != nil {
		return nil, "", err
	}
	defer body.Close()
	content, err := io.ReadAll(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}
	return content, contentType, nil
}

func (a *API) fetch(ctx context.Context, path string, params url.Values, accept string) (io.ReadCloser, string, error) {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = a.baseURL + path
	}
	if params != nil {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", accept)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("bad status: %s", resp.Status)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}
