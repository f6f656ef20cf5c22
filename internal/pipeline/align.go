package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/nadzzz/readalong/internal/align"
	"github.com/nadzzz/readalong/internal/tokenizer"
)

const defaultConcurrency = 8

type settings struct {
	concurrency int
	maxCells    int
}

// Option configures AlignWordsToText.
type Option func(*settings)

// WithConcurrency bounds how many words are tokenized at once.
func WithConcurrency(n int) Option {
	return func(s *settings) { s.concurrency = n }
}

// WithMaxGridCells rejects alignments whose grid would exceed n cells.
// Zero disables the limit.
func WithMaxGridCells(n int) Option {
	return func(s *settings) { s.maxCells = n }
}

func newSettings(opts []Option) settings {
	s := settings{concurrency: defaultConcurrency}
	for _, o := range opts {
		o(&s)
	}
	if s.concurrency <= 0 {
		s.concurrency = defaultConcurrency
	}
	return s
}

// AlignWordsToText maps each recognized word to the span of text it was
// spoken from. The result has one entry per word; an entry is nil when the
// word matched no part of the text.
//
// Every word and the text are tokenized to kana, the kana sequences are
// aligned, and the alignment is replayed to turn per-token text spans into
// per-word spans.
func AlignWordsToText(ctx context.Context, tok tokenizer.Tokenizer, words []string, text string, opts ...Option) ([]*align.Interval, error) {
	s := newSettings(opts)

	wordTokens, err := tokenizeWords(ctx, tok, words, s.concurrency)
	if err != nil {
		return nil, err
	}
	wordKana := make([]string, len(wordTokens))
	for i, tokens := range wordTokens {
		wordKana[i] = tokenizer.JoinKana(tokens)
	}

	textTokens, err := tok.Tokenize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("tokenizing text: %w", err)
	}
	textKana := tokenizer.Kana(textTokens)
	textIntervals, err := align.AlignBySurface(tokenizer.Units(textTokens), text)
	if err != nil {
		return nil, fmt.Errorf("locating text tokens: %w", err)
	}
	if err := align.CheckLength("text intervals", len(textKana), len(textIntervals)); err != nil {
		return nil, err
	}

	joinedText := strings.Join(textKana, "")
	joinedWords := strings.Join(wordKana, "")
	cells := align.Cells(utf8.RuneCountInString(joinedText), utf8.RuneCountInString(joinedWords))
	if s.maxCells > 0 && cells > s.maxCells {
		return nil, fmt.Errorf("%w: %d cells, limit %d", align.ErrGridTooLarge, cells, s.maxCells)
	}

	path, err := align.AlignKana(joinedText, joinedWords)
	if err != nil {
		return nil, fmt.Errorf("aligning kana: %w", err)
	}

	intervals, err := align.Reconstruct(path, textKana, textIntervals, wordKana)
	if err != nil {
		return nil, err
	}
	slog.Debug("words aligned",
		"words", len(words),
		"text_tokens", len(textTokens),
		"grid_cells", cells,
		"path_steps", len(path))
	return intervals, nil
}

// tokenizeWords tokenizes every word concurrently, keeping word order.
func tokenizeWords(ctx context.Context, tok tokenizer.Tokenizer, words []string, limit int) ([][]tokenizer.Token, error) {
	out := make([][]tokenizer.Token, len(words))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, w := range words {
		i, w := i, w
		g.Go(func() error {
			tokens, err := tok.Tokenize(gctx, w)
			if err != nil {
				return fmt.Errorf("tokenizing word %d %q: %w", i, w, err)
			}
			out[i] = tokens
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
