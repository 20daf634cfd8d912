// internal/adapters/out/mallapi/client.go
package mallapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	coll "mallsync/internal/domain/collection"
	"mallsync/internal/domain/identity"
)

// mall API (Cloud Run) を叩く HTTP クライアント。
// タイムアウトはこのトランスポート層の責務（マネージャは成功/失敗しか見ない）。
type Client struct {
	http    *http.Client
	baseURL string // 例: "https://narratives-mall-api-xxxx.asia-northeast1.run.app"
	apiKey  string // サービス識別用（不要なら空でOK）
	tokens  identity.TokenSource
	log     *zap.SugaredLogger
}

// NewClient builds the shared HTTP client for all mall collection endpoints.
func NewClient(baseURL, apiKey string, tokens identity.TokenSource, log *zap.SugaredLogger) *Client {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")

	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		tokens:  tokens,
		log:     log,
	}
}

// do runs one request and decodes a JSON body into out (when out != nil and
// the response has content). It returns the HTTP status for callers that need
// to distinguish 204/404, and coll.ErrUnauthorized for 401-class responses.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) (int, error) {
	if c == nil || c.http == nil {
		return 0, fmt.Errorf("mallapi: client is nil")
	}
	if c.baseURL == "" {
		return 0, fmt.Errorf("mallapi: baseURL is empty; mall endpoint not configured")
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("mallapi: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("mallapi: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// correlation id for log matching across client and server
	callID := uuid.NewString()
	req.Header.Set("X-Request-Id", callID)

	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	if c.tokens != nil {
		if token, ok := c.tokens.BearerToken(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debugw("[mallapi] request failed", "method", method, "path", path, "callId", callID, "err", err)
		return 0, fmt.Errorf("mallapi: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return resp.StatusCode, fmt.Errorf("mallapi: %s %s: status %d: %w", method, path, resp.StatusCode, coll.ErrUnauthorized)
	case resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, fmt.Errorf("mallapi: %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out != nil && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("mallapi: decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
