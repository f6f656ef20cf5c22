// Package recognizer defines the interface for speech recognition backends.
//
// A recognizer turns audio into a sequence of final results, each holding
// timed words. The alignment pipeline only needs the word strings; timing
// is carried along for clients that want to seek in the audio.
package recognizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// SampleRate is the PCM sample rate recognizers expect, in Hz. Audio is
// 16-bit little endian mono.
const SampleRate = 16000

// WordResult is one recognized word with its timing in seconds.
type WordResult struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Conf  float64 `json:"conf"`
}

// Result is one final recognition result, usually an utterance.
type Result struct {
	Result []WordResult `json:"result"`
	Text   string       `json:"text"`
}

// ProgressFunc receives partial and final text as recognition proceeds.
// index identifies the result being built and increments after each final
// result, so a partial and the final that follows share an index.
type ProgressFunc func(text string, index int)

// Options controls a single recognition call.
type Options struct {
	Progress ProgressFunc
	Language string
}

// Report invokes the progress callback if one is set.
func (o Options) Report(text string, index int) {
	if o.Progress != nil {
		o.Progress(text, index)
	}
}

// Recognizer converts audio to timed words.
type Recognizer interface {
	// Name returns the backend identifier (e.g., "vosk", "whisper").
	Name() string

	// Recognize runs recognition over the whole of audio and returns the
	// final results in order.
	Recognize(ctx context.Context, audio []byte, opts Options) ([]Result, error)

	// Close releases any resources held by the recognizer.
	Close() error
}

// ErrRecognition marks a failure inside a recognizer backend.
var ErrRecognition = errors.New("recognition failed")

// RecognitionError wraps a backend failure.
type RecognitionError struct {
	Backend string
	Err     error
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("%s recognizer: %v", e.Backend, e.Err)
}

func (e *RecognitionError) Unwrap() []error { return []error{ErrRecognition, e.Err} }

// ExtractWords returns every recognized word in order.
func ExtractWords(results []Result) []string {
	var words []string
	for _, r := range results {
		for _, w := range r.Result {
			words = append(words, w.Word)
		}
	}
	return words
}

// Flatten concatenates every recognized word.
func Flatten(results []Result) string {
	return strings.Join(ExtractWords(results), "")
}
