package tokenizer

import (
	"context"
	"log/slog"

	"github.com/nadzzz/readalong/internal/store"
)

// Cache is the subset of *store.Store used for caching tokens.
type Cache interface {
	Get(ctx context.Context, key string, v any) (bool, error)
	Put(ctx context.Context, key string, v any) error
}

// Cached memoizes another tokenizer. Cache failures are logged and the
// call falls through to the wrapped tokenizer.
type Cached struct {
	next  Tokenizer
	cache Cache
}

// NewCached wraps next with cache.
func NewCached(next Tokenizer, cache Cache) *Cached {
	return &Cached{next: next, cache: cache}
}

// Name returns the wrapped backend's name.
func (c *Cached) Name() string { return c.next.Name() }

// Tokenize returns cached tokens for text or tokenizes and stores them.
func (c *Cached) Tokenize(ctx context.Context, text string) ([]Token, error) {
	key := store.Key("tokens", c.next.Name(), text)

	var tokens []Token
	ok, err := c.cache.Get(ctx, key, &tokens)
	if err != nil {
		slog.Warn("token cache read failed", "backend", c.next.Name(), "error", err)
	} else if ok {
		return tokens, nil
	}

	tokens, err = c.next.Tokenize(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Put(ctx, key, tokens); err != nil {
		slog.Warn("token cache write failed", "backend", c.next.Name(), "error", err)
	}
	return tokens, nil
}

// Close closes the wrapped tokenizer. The cache is owned by the caller.
func (c *Cached) Close() error { return c.next.Close() }
