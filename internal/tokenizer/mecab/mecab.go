// Package mecab implements the Tokenizer interface by running an external
// mecab binary, which lets deployments use UniDic or custom dictionaries.
package mecab

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/nadzzz/readalong/internal/config"
	"github.com/nadzzz/readalong/internal/kana"
	"github.com/nadzzz/readalong/internal/tokenizer"
)

// Tokenizer pipes text through mecab and parses its default output format.
type Tokenizer struct {
	binary    string
	args      []string
	kanaField int
}

// New creates a mecab tokenizer from config.
func New(cfg config.MeCabConfig) *Tokenizer {
	bin := cfg.Binary
	if bin == "" {
		bin = "mecab"
	}
	return &Tokenizer{binary: bin, args: cfg.Args, kanaField: cfg.KanaField}
}

// Name returns the backend identifier.
func (t *Tokenizer) Name() string { return "mecab" }

// Tokenize runs mecab over text.
func (t *Tokenizer) Tokenize(ctx context.Context, text string) ([]tokenizer.Token, error) {
	cmd := exec.CommandContext(ctx, t.binary, t.args...)
	cmd.Stdin = strings.NewReader(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &tokenizer.TokenizationError{
			Backend: t.Name(),
			Err:     fmt.Errorf("running %s: %w: %s", t.binary, err, strings.TrimSpace(stderr.String())),
		}
	}

	tokens, err := Parse(&stdout, t.kanaField)
	if err != nil {
		return nil, &tokenizer.TokenizationError{Backend: t.Name(), Err: err}
	}
	slog.Debug("mecab tokenization complete", "tokens", len(tokens))
	return tokens, nil
}

// Parse reads mecab output. Each line is a surface, a tab, then comma
// separated features; "EOS" ends a sentence. Punctuation and symbols, and
// readings outside the alignment alphabet, get "".
func Parse(r io.Reader, kanaField int) ([]tokenizer.Token, error) {
	var tokens []tokenizer.Token
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Text()
		if raw == "EOS" || raw == "" {
			continue
		}
		surface, features, ok := strings.Cut(raw, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: missing feature column", line)
		}
		if strings.TrimSpace(surface) == "" {
			continue
		}
		fields, err := splitFeatures(features)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		var reading string
		symbol := tokenizer.SymbolPOS(fields[0]) || tokenizer.Punctuation(surface)
		if !symbol && kanaField >= 0 && kanaField < len(fields) && fields[kanaField] != "*" {
			reading = kana.Normalize(strings.TrimSpace(fields[kanaField]))
			if !kana.Valid(reading) {
				reading = ""
			}
		}
		tokens = append(tokens, tokenizer.Token{Surface: surface, Kana: reading})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading mecab output: %w", err)
	}
	return tokens, nil
}

// splitFeatures splits the feature column. UniDic quotes fields that
// contain commas, so a plain strings.Split is not enough.
func splitFeatures(s string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(s))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	fields, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("parsing features %q: %w", s, err)
	}
	return fields, nil
}

// Close is a no-op; each call spawns its own process.
func (t *Tokenizer) Close() error { return nil }
