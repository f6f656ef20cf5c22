// Package whisper implements the Recognizer interface using a
// Whisper-compatible transcription endpoint (OpenAI API, whisper.cpp
// server, faster-whisper) with word-level timestamps.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/nadzzz/readalong/internal/config"
	"github.com/nadzzz/readalong/internal/recognizer"
)

// Recognizer posts audio to a Whisper-compatible endpoint.
type Recognizer struct {
	endpoint string
	apiKey   string
	model    string
	language string
	client   *http.Client
}

// New creates a whisper recognizer from config.
func New(cfg config.WhisperConfig) *Recognizer {
	model := cfg.Model
	if model == "" {
		model = "whisper-1"
	}
	lang := cfg.Language
	if lang == "" {
		lang = "ja"
	}
	return &Recognizer{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    model,
		language: lang,
		client:   &http.Client{},
	}
}

// Name returns the backend identifier.
func (r *Recognizer) Name() string { return "whisper" }

// Recognize transcribes audio in one request. The endpoint does not stream,
// so the whole transcript is reported once as result 0.
func (r *Recognizer) Recognize(ctx context.Context, audio []byte, opts recognizer.Options) ([]recognizer.Result, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(audio)); err != nil {
		return nil, fmt.Errorf("writing audio: %w", err)
	}

	lang := opts.Language
	if lang == "" {
		lang = r.language
	}
	_ = writer.WriteField("model", r.model)
	_ = writer.WriteField("language", lang)
	_ = writer.WriteField("response_format", "verbose_json")
	_ = writer.WriteField("timestamp_granularities[]", "word")
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &recognizer.RecognitionError{Backend: r.Name(), Err: fmt.Errorf("transcription request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &recognizer.RecognitionError{
			Backend: r.Name(),
			Err:     fmt.Errorf("transcription failed (status %d): %s", resp.StatusCode, respBody),
		}
	}

	var result struct {
		Text  string `json:"text"`
		Words []struct {
			Word  string  `json:"word"`
			Start float64 `json:"start"`
			End   float64 `json:"end"`
		} `json:"words"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &recognizer.RecognitionError{Backend: r.Name(), Err: fmt.Errorf("decoding transcription: %w", err)}
	}

	words := make([]recognizer.WordResult, 0, len(result.Words))
	for _, w := range result.Words {
		word := strings.TrimSpace(w.Word)
		if word == "" {
			continue
		}
		words = append(words, recognizer.WordResult{Word: word, Start: w.Start, End: w.End, Conf: 1})
	}
	text := strings.TrimSpace(result.Text)
	opts.Report(text, 0)

	slog.Debug("whisper transcription complete", "words", len(words), "text_length", len(text))
	return []recognizer.Result{{Result: words, Text: text}}, nil
}

// Close releases idle connections.
func (r *Recognizer) Close() error {
	r.client.CloseIdleConnections()
	return nil
}
