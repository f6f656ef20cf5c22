// Package kana maps the closed katakana/punctuation alphabet used for
// phonetic alignment to compact integer symbols and back.
//
// The alphabet is exhaustive for readings produced by the tokenizer
// backends. Any other rune is an error, never a silent fallback.
package kana

import (
	"errors"
	"fmt"
	"strings"
)

// Symbol is the integer code of one alphabet glyph.
type Symbol uint8

// alphabet holds every supported glyph; a glyph's code is its index.
const alphabet = "ァアィイゥウェエォオカガキギクグケゲコゴサザシジスズ" +
	"セゼソゾタダチヂッツヅテデトドナニヌネノハバパヒビピ" +
	"フブプヘベペホボポマミムメモャヤュユョヨラリルレロワ" +
	"ヲンーヮヰヱヵヶヴヽヾ・「」。、"

// ErrUnknownSymbol is returned for a rune outside the alphabet.
var ErrUnknownSymbol = errors.New("unknown kana symbol")

// UnknownSymbolError reports the offending rune and its rune offset in the
// encoded string (-1 when encoding a single rune).
type UnknownSymbolError struct {
	Rune   rune
	Offset int
}

func (e *UnknownSymbolError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("unknown kana symbol %q (U+%04X)", e.Rune, e.Rune)
	}
	return fmt.Sprintf("unknown kana symbol %q (U+%04X) at offset %d", e.Rune, e.Rune, e.Offset)
}

func (e *UnknownSymbolError) Unwrap() error { return ErrUnknownSymbol }

var (
	runes   = []rune(alphabet)
	symbols = make(map[rune]Symbol, len(runes))
)

func init() {
	for i, r := range runes {
		symbols[r] = Symbol(i)
	}
}

// Size is the number of glyphs in the alphabet.
func Size() int { return len(runes) }

// Alphabet returns the glyphs in code order.
func Alphabet() []rune {
	return append([]rune(nil), runes...)
}

// Contains reports whether r belongs to the alphabet.
func Contains(r rune) bool {
	_, ok := symbols[r]
	return ok
}

// Code returns the symbol for r.
func Code(r rune) (Symbol, error) {
	s, ok := symbols[r]
	if !ok {
		return 0, &UnknownSymbolError{Rune: r, Offset: -1}
	}
	return s, nil
}

// Rune returns the glyph for s.
func Rune(s Symbol) (rune, error) {
	if int(s) >= len(runes) {
		return 0, fmt.Errorf("kana symbol %d out of range", s)
	}
	return runes[s], nil
}

// Encode converts text to one symbol per rune.
func Encode(text string) ([]Symbol, error) {
	out := make([]Symbol, 0, len(text)/3)
	offset := 0
	for _, r := range text {
		s, ok := symbols[r]
		if !ok {
			return nil, &UnknownSymbolError{Rune: r, Offset: offset}
		}
		out = append(out, s)
		offset++
	}
	return out, nil
}

// Decode converts symbols back into text.
func Decode(seq []Symbol) (string, error) {
	var sb strings.Builder
	sb.Grow(len(seq) * 3)
	for _, s := range seq {
		r, err := Rune(s)
		if err != nil {
			return "", err
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

// MustDecode is Decode for symbols known to be valid, such as those
// produced by Encode. It is meant for diagnostics output.
func MustDecode(seq []Symbol) string {
	s, err := Decode(seq)
	if err != nil {
		panic(err)
	}
	return s
}

// Normalize folds hiragana to katakana. Other runes pass through unchanged.
func Normalize(text string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ぁ' && r <= 'ゖ' {
			return r + ('ァ' - 'ぁ')
		}
		if r == 'ゝ' || r == 'ゞ' {
			return r + ('ヽ' - 'ゝ')
		}
		return r
	}, text)
}

// Valid reports whether every rune of text is in the alphabet.
func Valid(text string) bool {
	for _, r := range text {
		if !Contains(r) {
			return false
		}
	}
	return true
}
