// Package pipeline implements the composed alignment engine.
//
// The pipeline receives requests from transports, obtains recognized
// words (given directly, as recognizer output, or by running the
// recognizer over audio), aligns them to the request text and attaches
// the text's paragraph spans. Failures are reported in the result so the
// sender always gets an answer.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nadzzz/readalong/internal/align"
	"github.com/nadzzz/readalong/internal/message"
	"github.com/nadzzz/readalong/internal/recognizer"
	"github.com/nadzzz/readalong/internal/tokenizer"
)

// ErrNoWords is reported when a request carries no word source.
var ErrNoWords = errors.New("request has no words, results or audio")

// ErrNoRecognizer is reported for audio requests when recognition is disabled.
var ErrNoRecognizer = errors.New("no recognizer configured")

// Pipeline is the central alignment engine.
type Pipeline struct {
	tokenizer  tokenizer.Tokenizer
	recognizer recognizer.Recognizer // nil if recognition is disabled
	opts       []Option
}

// New creates a Pipeline. rec may be nil.
func New(tok tokenizer.Tokenizer, rec recognizer.Recognizer, opts ...Option) *Pipeline {
	return &Pipeline{tokenizer: tok, recognizer: rec, opts: opts}
}

// Handle processes a single request. It is passed as the transport.Handler
// to each transport. progress may be nil.
func (p *Pipeline) Handle(ctx context.Context, req *message.Request, progress recognizer.ProgressFunc) (*message.Result, error) {
	start := time.Now()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	logger := slog.With("request_id", req.ID)
	logger.Info("alignment started", "text_length", len(req.Text))

	result := &message.Result{
		RequestID:  req.ID,
		Paragraphs: align.FindParagraphIntervals(req.Text),
	}

	words, results, err := p.words(ctx, req, progress, logger)
	if err != nil {
		result.Error = err.Error()
		logger.Error("obtaining words failed", "error", err)
		return result, nil
	}
	result.Words = words
	result.Results = results

	intervals, err := AlignWordsToText(ctx, p.tokenizer, words, req.Text, p.opts...)
	if err != nil {
		result.Error = fmt.Sprintf("alignment failed: %v", err)
		logger.Error("alignment failed", "error", err)
		return result, nil
	}
	result.Intervals = intervals

	matched := 0
	for _, iv := range intervals {
		if iv != nil {
			matched++
		}
	}
	logger.Info("alignment complete",
		"duration", time.Since(start),
		"words", len(words),
		"matched", matched,
		"paragraphs", len(result.Paragraphs))
	return result, nil
}

// words returns the request's words and, when audio was recognized, the
// recognizer output they came from.
func (p *Pipeline) words(ctx context.Context, req *message.Request, progress recognizer.ProgressFunc, logger *slog.Logger) ([]string, []recognizer.Result, error) {
	switch {
	case len(req.Words) > 0:
		logger.Debug("using request words", "words", len(req.Words))
		return req.Words, nil, nil
	case len(req.Results) > 0:
		logger.Debug("using request recognizer output", "results", len(req.Results))
		return recognizer.ExtractWords(req.Results), nil, nil
	case req.HasAudio():
		if p.recognizer == nil {
			return nil, nil, ErrNoRecognizer
		}
		logger.Debug("recognizing audio", "backend", p.recognizer.Name(), "bytes", len(req.Audio))
		results, err := p.recognizer.Recognize(ctx, req.Audio, recognizer.Options{Progress: progress})
		if err != nil {
			return nil, nil, fmt.Errorf("recognition failed: %w", err)
		}
		logger.Info("recognition complete", "results", len(results))
		return recognizer.ExtractWords(results), results, nil
	default:
		return nil, nil, ErrNoWords
	}
}
