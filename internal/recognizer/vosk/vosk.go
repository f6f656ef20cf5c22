// Package vosk implements the Recognizer interface against vosk-server
// over its WebSocket protocol.
//
// The client sends a config message, then raw 16-bit PCM in binary frames,
// then {"eof": 1}. The server answers every frame with either a partial
// ({"partial": "..."}) or a final result ({"result": [...], "text": "..."}).
package vosk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nadzzz/readalong/internal/config"
	"github.com/nadzzz/readalong/internal/recognizer"
)

const (
	defaultChunkSize = 8000
	writeWait        = 10 * time.Second
)

// Recognizer streams audio to a vosk-server instance.
type Recognizer struct {
	endpoint   string
	sampleRate int
	chunkSize  int
	dialer     *websocket.Dialer
}

// New creates a vosk recognizer from config.
func New(cfg config.VoskConfig) *Recognizer {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = recognizer.SampleRate
	}
	chunk := cfg.ChunkSize
	if chunk <= 0 {
		chunk = defaultChunkSize
	}
	return &Recognizer{
		endpoint:   cfg.Endpoint,
		sampleRate: rate,
		chunkSize:  chunk,
		dialer:     websocket.DefaultDialer,
	}
}

// Name returns the backend identifier.
func (r *Recognizer) Name() string { return "vosk" }

// serverMessage is either a partial or a final result.
type serverMessage struct {
	Partial *string                 `json:"partial"`
	Result  []recognizer.WordResult `json:"result"`
	Text    *string                 `json:"text"`
}

type session struct {
	conn    *websocket.Conn
	opts    recognizer.Options
	results []recognizer.Result
	index   int
}

// Recognize sends audio to the server and collects every final result.
func (r *Recognizer) Recognize(ctx context.Context, audio []byte, opts recognizer.Options) ([]recognizer.Result, error) {
	conn, _, err := r.dialer.DialContext(ctx, r.endpoint, nil)
	if err != nil {
		return nil, r.fail(ctx, fmt.Errorf("dialing %s: %w", r.endpoint, err))
	}
	defer conn.Close()

	// Closing the connection unblocks a pending read on cancellation.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	s := &session{conn: conn, opts: opts}

	cfgMsg := map[string]any{"config": map[string]any{"sample_rate": r.sampleRate, "words": 1}}
	if err := s.writeJSON(cfgMsg); err != nil {
		return nil, r.fail(ctx, err)
	}

	for off := 0; off < len(audio); off += r.chunkSize {
		end := min(off+r.chunkSize, len(audio))
		if err := s.write(websocket.BinaryMessage, audio[off:end]); err != nil {
			return nil, r.fail(ctx, err)
		}
		if err := s.readOne(); err != nil {
			return nil, r.fail(ctx, err)
		}
	}

	if err := s.writeJSON(map[string]int{"eof": 1}); err != nil {
		return nil, r.fail(ctx, err)
	}
	if err := s.drain(); err != nil {
		return nil, r.fail(ctx, err)
	}

	slog.Debug("vosk recognition complete", "results", len(s.results), "audio_bytes", len(audio))
	return s.results, nil
}

// fail wraps err, preferring the context error when the call was cancelled.
func (r *Recognizer) fail(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return &recognizer.RecognitionError{Backend: r.Name(), Err: err}
}

func (s *session) write(kind int, data []byte) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(kind, data); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

func (s *session) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling message: %w", err)
	}
	return s.write(websocket.TextMessage, data)
}

// readOne reads and handles a single server message.
func (s *session) readOne() error {
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return err
	}
	return s.handle(data)
}

// drain reads until the server closes the connection after eof.
func (s *session) drain() error {
	before := s.index
	for {
		_, data, err := s.conn.ReadMessage()
		if err == nil {
			if err := s.handle(data); err != nil {
				return err
			}
			continue
		}
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil
		}
		var closeErr *websocket.CloseError
		if !errors.As(err, &closeErr) && s.index > before {
			// The server may drop the socket without a close frame once
			// the final result is out.
			return nil
		}
		return err
	}
}

func (s *session) handle(data []byte) error {
	var msg serverMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("decoding server message: %w", err)
	}
	switch {
	case msg.Partial != nil:
		s.opts.Report(*msg.Partial, s.index)
	case msg.Text != nil:
		s.results = append(s.results, recognizer.Result{Result: msg.Result, Text: *msg.Text})
		s.opts.Report(*msg.Text, s.index)
		s.index++
	}
	return nil
}

// Close is a no-op; each call owns its connection.
func (r *Recognizer) Close() error { return nil }
