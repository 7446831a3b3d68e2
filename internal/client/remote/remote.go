// Package remote implements the HTTP collaborators the client talks to:
// the auth provider, the snippet document store and the AI completion
// endpoint. All of them share one http.Client, so when that client carries
// the gateway's partitioned transport every call is subject to the same
// offline arbitration as the rest of the application's traffic.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type httpClient struct {
	http *http.Client
	base string
}

func newHTTPClient(base string, hc *http.Client) *httpClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &httpClient{http: hc, base: strings.TrimRight(base, "/")}
}

// do executes one JSON request and returns the status code and raw body.
// Transport-level failures map to ErrNetworkUnavailable; status handling is
// the caller's job because the mapping differs per collaborator.
func (c *httpClient) do(ctx context.Context, method, path, token string, in any) (int, []byte, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, b, nil
}
