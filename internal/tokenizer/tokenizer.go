// Package tokenizer defines the interface for morphological analysis.
//
// A tokenizer splits text into ordered tokens, each carrying its literal
// surface and a katakana reading. The alignment pipeline only depends on
// this contract; backends live in sub-packages.
package tokenizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/nadzzz/readalong/internal/align"
)

// Token is one morpheme. Kana is empty for punctuation, symbols and words
// the dictionary has no reading for.
type Token struct {
	Surface string `json:"surface"`
	Kana    string `json:"kana"`
}

// Tokenizer splits text into tokens in document order.
type Tokenizer interface {
	// Name returns the backend identifier (e.g., "kagome", "mecab").
	Name() string

	// Tokenize analyses text. Errors from the backend are returned as
	// *TokenizationError.
	Tokenize(ctx context.Context, text string) ([]Token, error)

	// Close releases any resources held by the tokenizer.
	Close() error
}

// ErrTokenization marks a failure inside a tokenizer backend.
var ErrTokenization = errors.New("tokenization failed")

// TokenizationError wraps a backend failure.
type TokenizationError struct {
	Backend string
	Err     error
}

func (e *TokenizationError) Error() string {
	return fmt.Sprintf("%s tokenizer: %v", e.Backend, e.Err)
}

func (e *TokenizationError) Unwrap() []error { return []error{ErrTokenization, e.Err} }

// Kana returns the trimmed reading of every token, parallel to tokens.
func Kana(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.TrimSpace(t.Kana)
	}
	return out
}

// JoinKana concatenates the readings of tokens.
func JoinKana(tokens []Token) string {
	return strings.Join(Kana(tokens), "")
}

// Units converts tokens to the aligner's input, trimming both fields.
func Units(tokens []Token) []align.Unit {
	out := make([]align.Unit, len(tokens))
	for i, t := range tokens {
		out[i] = align.Unit{
			Surface: strings.TrimSpace(t.Surface),
			Kana:    strings.TrimSpace(t.Kana),
		}
	}
	return out
}

// SymbolPOS reports whether pos is the top-level part of speech IPADIC
// (記号) or UniDic (補助記号) assign to punctuation and symbols.
func SymbolPOS(pos string) bool {
	return pos == "記号" || pos == "補助記号"
}

// Punctuation reports whether surface is made only of punctuation and
// symbol runes. Such tokens carry no reading, whatever the backend says.
func Punctuation(surface string) bool {
	if surface == "" {
		return false
	}
	for _, r := range surface {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}
