// Package kagome implements the Tokenizer interface with the pure Go
// kagome morphological analyzer and its bundled IPA dictionary.
package kagome

import (
	"context"
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	kt "github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/nadzzz/readalong/internal/config"
	"github.com/nadzzz/readalong/internal/kana"
	"github.com/nadzzz/readalong/internal/tokenizer"
)

// Tokenizer analyses text in process.
type Tokenizer struct {
	t    *kt.Tokenizer
	mode kt.TokenizeMode
}

// New loads the IPA dictionary and creates a tokenizer.
func New(cfg config.KagomeConfig) (*Tokenizer, error) {
	mode, err := parseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	t, err := kt.New(ipa.Dict(), kt.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("creating kagome tokenizer: %w", err)
	}
	return &Tokenizer{t: t, mode: mode}, nil
}

func parseMode(mode string) (kt.TokenizeMode, error) {
	switch strings.ToLower(mode) {
	case "", "normal":
		return kt.Normal, nil
	case "search":
		return kt.Search, nil
	case "extended":
		return kt.Extended, nil
	default:
		return kt.Normal, fmt.Errorf("unknown kagome mode %q", mode)
	}
}

// Name returns the backend identifier.
func (t *Tokenizer) Name() string { return "kagome" }

// Tokenize splits text into tokens. Whitespace-only tokens are dropped.
// ctx is checked once up front; analysis itself is not interruptible.
func (t *Tokenizer) Tokenize(ctx context.Context, text string) ([]tokenizer.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	analysed := t.t.Analyze(text, t.mode)
	tokens := make([]tokenizer.Token, 0, len(analysed))
	for _, tok := range analysed {
		if tok.Class == kt.DUMMY {
			continue
		}
		surface := strings.TrimSpace(tok.Surface)
		if surface == "" {
			continue
		}
		tokens = append(tokens, tokenizer.Token{Surface: surface, Kana: reading(tok)})
	}
	return tokens, nil
}

// reading returns the katakana reading of tok, or "" for symbols and for
// readings that fall outside the alignment alphabet.
func reading(tok kt.Token) string {
	if pos := tok.POS(); len(pos) > 0 && tokenizer.SymbolPOS(pos[0]) {
		return ""
	}
	r, ok := tok.Reading()
	if !ok || r == "*" {
		return ""
	}
	r = kana.Normalize(strings.TrimSpace(r))
	if !kana.Valid(r) {
		return ""
	}
	return r
}

// Close is a no-op for the in-process tokenizer.
func (t *Tokenizer) Close() error { return nil }
