// Package http implements the HTTP/WebSocket transport for readalong.
//
// This transport exposes a REST API for alignment and paragraph splitting
// and a WebSocket endpoint that streams recognizer progress while audio is
// aligned. It is best suited for web clients and reading apps.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/nadzzz/readalong/internal/align"
	"github.com/nadzzz/readalong/internal/message"
	"github.com/nadzzz/readalong/internal/transport"

	_ "github.com/nadzzz/readalong/docs" // registers the OpenAPI document
)

const defaultMaxBody = 64 << 20

// Transport implements transport.Transport over HTTP and WebSocket.
type Transport struct {
	port     int
	maxBody  int64
	upgrader websocket.Upgrader

	mu     sync.Mutex
	server *http.Server
}

// New creates a new HTTP transport on the given port. maxBody bounds
// request bodies in bytes; zero selects the default.
func New(port int, maxBody int64) *Transport {
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	return &Transport{
		port:    port,
		maxBody: maxBody,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Routes returns the transport's request multiplexer.
func (t *Transport) Routes(handler transport.Handler) http.Handler {
	mux := http.NewServeMux()

	// POST /align aligns words, recognizer output or audio with a text.
	mux.HandleFunc("POST /align", func(w http.ResponseWriter, r *http.Request) {
		t.handleAlign(w, r, handler)
	})

	// POST /paragraphs splits a text into paragraph spans.
	mux.HandleFunc("POST /paragraphs", t.handleParagraphs)

	// GET /ws streams progress events, then the result.
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		t.handleWebSocket(w, r, handler)
	})

	// Swagger UI for the registered OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	return mux
}

// Listen starts the HTTP server and routes incoming requests to the handler.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", t.port),
		Handler:           t.Routes(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}
	t.mu.Lock()
	t.server = srv
	t.mu.Unlock()

	slog.Info("http transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// handleAlign processes a POST /align request.
//
// @Summary     Align recognized words with a text
// @Description Accepts a JSON request carrying the reference text and one word source: words, recognizer
// @Description results, or base64 audio. Raw audio may be POSTed directly with an audio Content-Type and
// @Description the text in the "text" query parameter. Returns one interval per word.
// @Tags        align
// @Accept      json
// @Accept      audio/wav
// @Produce     json
// @Param       request  body      message.Request  true   "Alignment request (JSON)"
// @Param       text     query     string           false  "Reference text (used with raw audio uploads)"
// @Success     200  {object}  message.Result  "Per-word intervals"
// @Failure     400  {string}  string  "Invalid request body"
// @Failure     413  {string}  string  "Request body too large"
// @Failure     500  {string}  string  "Internal processing error"
// @Router      /align [post]
func (t *Transport) handleAlign(w http.ResponseWriter, r *http.Request, handler transport.Handler) {
	r.Body = http.MaxBytesReader(w, r.Body, t.maxBody)
	var req message.Request

	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "application/json"):
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBodyError(w, "invalid json", err)
			return
		}
	default:
		// Treat body as raw audio; the text comes from the query string.
		audio, err := io.ReadAll(r.Body)
		if err != nil {
			writeBodyError(w, "reading audio", err)
			return
		}
		req.Audio = audio
		req.ContentType = contentType
		req.Text = r.URL.Query().Get("text")
	}
	req.Timestamp = time.Now()

	result, err := handler(r.Context(), &req, nil)
	if err != nil {
		slog.Error("alignment failed", "error", err)
		http.Error(w, "alignment error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

// handleParagraphs processes a POST /paragraphs request.
//
// @Summary     Split a text into paragraphs
// @Description Returns the [start, end) rune spans of every non-empty line of the text.
// @Tags        align
// @Accept      json
// @Produce     json
// @Param       request  body      message.ParagraphsRequest  true  "Text to split"
// @Success     200  {object}  message.ParagraphsResult
// @Failure     400  {string}  string  "Invalid request body"
// @Router      /paragraphs [post]
func (t *Transport) handleParagraphs(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, t.maxBody)
	var req message.ParagraphsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyError(w, "invalid json", err)
		return
	}
	writeJSON(w, &message.ParagraphsResult{Paragraphs: align.FindParagraphIntervals(req.Text)})
}

// handleWebSocket runs one alignment per connection. The client sends a
// single JSON request; the server answers with "progress" events while
// audio is recognized and closes after one "result" or "error" event.
//
// @Summary     Streamed alignment over WebSocket
// @Description Send one message.Request as a text frame. Receive message.Event frames: zero or more
// @Description "progress" events, then a single "result" or "error" event.
// @Tags        align
// @Success     101  {object}  message.Event
// @Router      /ws [get]
func (t *Transport) handleWebSocket(w http.ResponseWriter, r *http.Request, handler transport.Handler) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(t.maxBody)

	var writeMu sync.Mutex
	send := func(ev message.Event) {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(ev); err != nil {
			slog.Debug("websocket write failed", "error", err)
		}
	}
	defer func() {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}()

	var req message.Request
	if err := conn.ReadJSON(&req); err != nil {
		send(message.Event{Type: "error", Error: "invalid request: " + err.Error()})
		return
	}
	req.Timestamp = time.Now()

	result, err := handler(r.Context(), &req, func(text string, index int) {
		send(message.Event{Type: "progress", Text: text, Index: index})
	})
	switch {
	case err != nil:
		send(message.Event{Type: "error", Error: err.Error()})
	case result.Error != "":
		send(message.Event{Type: "error", Error: result.Error, Result: result})
	default:
		send(message.Event{Type: "result", Result: result})
	}
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	t.mu.Lock()
	srv := t.server
	t.mu.Unlock()
	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeBodyError(w http.ResponseWriter, msg string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, msg+": "+err.Error(), http.StatusBadRequest)
}
