package tokenizer

import (
	"context"
	"fmt"
	"sync"
)

// Static serves tokens from a fixed table. It backs the CLI when
// tokenizer output is supplied as a file, and tests.
type Static struct {
	mu    sync.Mutex
	table map[string][]Token
	calls int
}

// NewStatic creates a tokenizer answering from table.
func NewStatic(table map[string][]Token) *Static {
	return &Static{table: table}
}

// Name returns "static".
func (s *Static) Name() string { return "static" }

// Tokenize returns the tokens registered for text.
func (s *Static) Tokenize(ctx context.Context, text string) ([]Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	tokens, ok := s.table[text]
	if !ok {
		return nil, &TokenizationError{Backend: "static", Err: fmt.Errorf("no tokens for %q", text)}
	}
	return append([]Token(nil), tokens...), nil
}

// Calls returns how many times Tokenize was invoked.
func (s *Static) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Close is a no-op.
func (s *Static) Close() error { return nil }
