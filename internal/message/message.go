// Package message defines the request and result types exchanged with
// readalong over every transport.
package message

import (
	"time"

	"github.com/nadzzz/readalong/internal/align"
	"github.com/nadzzz/readalong/internal/recognizer"
)

// Request asks readalong to align recognized words with a text.
//
// Exactly one word source is used, in this order of precedence: Words,
// Results, Audio.
type Request struct {
	// ID is a unique identifier for this request (UUID). Assigned by the
	// pipeline when empty.
	ID string `json:"id,omitempty"`

	// Text is the reference text the words are aligned to.
	Text string `json:"text"`

	// Words are recognized words in spoken order.
	Words []string `json:"words,omitempty"`

	// Results is raw recognizer output; its words are used in order.
	Results []recognizer.Result `json:"results,omitempty"`

	// Audio is 16 kHz mono 16-bit PCM to run through the configured
	// recognizer. Encoded as base64 in JSON.
	Audio []byte `json:"audio,omitempty"`

	// ContentType is the MIME type of Audio (e.g., "audio/wav").
	ContentType string `json:"content_type,omitempty"`

	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`
}

// HasAudio returns true if the request carries an audio payload.
func (r *Request) HasAudio() bool {
	return len(r.Audio) > 0
}

// Result is the outcome of aligning one request.
type Result struct {
	// RequestID is the original request ID.
	RequestID string `json:"request_id"`

	// Words are the recognized words that were aligned.
	Words []string `json:"words"`

	// Intervals holds, for every word, its [start, end) rune span in Text
	// or null when the word matched nothing.
	Intervals []*align.Interval `json:"intervals"`

	// Paragraphs are the newline-delimited spans of Text.
	Paragraphs []align.Interval `json:"paragraphs"`

	// Results is the recognizer output when the request carried audio.
	Results []recognizer.Result `json:"results,omitempty"`

	// Error is set if processing failed at any stage.
	Error string `json:"error,omitempty"`
}

// ParagraphsRequest asks for the paragraph spans of a text.
type ParagraphsRequest struct {
	Text string `json:"text"`
}

// ParagraphsResult lists the paragraph spans of a text.
type ParagraphsResult struct {
	Paragraphs []align.Interval `json:"paragraphs"`
}

// Event is one frame of a streamed alignment. Type is "progress" while
// the recognizer runs, then a single "result" or "error".
type Event struct {
	Type   string  `json:"type"`
	Text   string  `json:"text,omitempty"`
	Index  int     `json:"index"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}
