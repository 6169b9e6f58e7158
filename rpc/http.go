package rpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// httpConnection POSTs each JSON-RPC envelope to the node endpoint. It is
// stateless between calls, so Connect only validates reachability lazily.
type httpConnection struct {
	url    string
	opts   Options
	client *http.Client
}

func newHTTPConnection(url string, opts Options) *httpConnection {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.CallTimeout}
	}
	return &httpConnection{url: url, opts: opts, client: client}
}

func (h *httpConnection) URL() string {
	return h.url
}

func (h *httpConnection) Connect(ctx context.Context) error {
	// No persistent state to establish; the HTTP client dials per request.
	return nil
}

func (h *httpConnection) Send(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range h.opts.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", h.url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("post %s: unexpected status %d", h.url, resp.StatusCode)
	}
	return body, nil
}

func (h *httpConnection) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
