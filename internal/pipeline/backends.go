package pipeline

import (
	"fmt"

	"github.com/nadzzz/readalong/internal/config"
	"github.com/nadzzz/readalong/internal/recognizer"
	"github.com/nadzzz/readalong/internal/recognizer/vosk"
	"github.com/nadzzz/readalong/internal/recognizer/whisper"
	"github.com/nadzzz/readalong/internal/tokenizer"
	"github.com/nadzzz/readalong/internal/tokenizer/kagome"
	"github.com/nadzzz/readalong/internal/tokenizer/mecab"
	"github.com/nadzzz/readalong/internal/tokenizer/remote"
)

// NewTokenizer builds the configured tokenizer backend. When cache is
// non-nil and caching is enabled, results are memoized in it.
func NewTokenizer(cfg config.TokenizerConfig, cache tokenizer.Cache) (tokenizer.Tokenizer, error) {
	var tok tokenizer.Tokenizer
	switch cfg.Backend {
	case "kagome":
		k, err := kagome.New(cfg.Kagome)
		if err != nil {
			return nil, err
		}
		tok = k
	case "mecab":
		tok = mecab.New(cfg.MeCab)
	case "remote":
		tok = remote.New(cfg.Remote)
	default:
		return nil, fmt.Errorf("unknown tokenizer backend %q", cfg.Backend)
	}
	if cfg.Cache && cache != nil {
		tok = tokenizer.NewCached(tok, cache)
	}
	return tok, nil
}

// NewRecognizer builds the configured recognizer backend. It returns nil
// for the "none" backend.
func NewRecognizer(cfg config.RecognizerConfig) (recognizer.Recognizer, error) {
	switch cfg.Backend {
	case "vosk":
		return vosk.New(cfg.Vosk), nil
	case "whisper":
		return whisper.New(cfg.Whisper), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown recognizer backend %q", cfg.Backend)
	}
}

// Options translates pipeline config into alignment options.
func Options(cfg config.PipelineConfig) []Option {
	return []Option{
		WithConcurrency(cfg.Concurrency),
		WithMaxGridCells(cfg.MaxGridCells),
	}
}
