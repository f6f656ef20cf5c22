// Package remote implements the Tokenizer interface against an HTTP
// tokenization service.
//
// The service receives POST {"text": "..."} and answers
// {"tokens": [{"surface": "...", "kana": "..."}]}.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nadzzz/readalong/internal/config"
	"github.com/nadzzz/readalong/internal/kana"
	"github.com/nadzzz/readalong/internal/tokenizer"
)

// Tokenizer calls a remote tokenization endpoint.
type Tokenizer struct {
	endpoint string
	token    string
	client   *http.Client
}

// New creates a remote tokenizer from config.
func New(cfg config.RemoteConfig) *Tokenizer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Tokenizer{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name returns the backend identifier.
func (t *Tokenizer) Name() string { return "remote" }

// Tokenize sends text to the remote endpoint.
func (t *Tokenizer) Tokenize(ctx context.Context, text string) ([]tokenizer.Token, error) {
	bodyBytes, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &tokenizer.TokenizationError{Backend: t.Name(), Err: fmt.Errorf("request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &tokenizer.TokenizationError{
			Backend: t.Name(),
			Err:     fmt.Errorf("status %d: %s", resp.StatusCode, respBody),
		}
	}

	var result struct {
		Tokens []tokenizer.Token `json:"tokens"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &tokenizer.TokenizationError{Backend: t.Name(), Err: fmt.Errorf("decoding response: %w", err)}
	}

	tokens := make([]tokenizer.Token, 0, len(result.Tokens))
	for _, tk := range result.Tokens {
		if strings.TrimSpace(tk.Surface) == "" {
			continue
		}
		tk.Kana = kana.Normalize(strings.TrimSpace(tk.Kana))
		if tokenizer.Punctuation(strings.TrimSpace(tk.Surface)) || !kana.Valid(tk.Kana) {
			tk.Kana = ""
		}
		tokens = append(tokens, tk)
	}
	slog.Debug("remote tokenization complete", "tokens", len(tokens))
	return tokens, nil
}

// Close releases idle connections.
func (t *Tokenizer) Close() error {
	t.client.CloseIdleConnections()
	return nil
}
