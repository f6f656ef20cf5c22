// Package transport defines the interface for pluggable request transports.
//
// Each transport (gRPC, HTTP/WebSocket) implements this interface and hands
// every request to the pipeline. The pipeline doesn't care how requests
// arrive; it only works with the Handler contract.
package transport

import (
	"context"

	"github.com/nadzzz/readalong/internal/message"
	"github.com/nadzzz/readalong/internal/recognizer"
)

// Handler processes an incoming request and returns its result. progress,
// when non-nil, receives recognizer progress for audio requests.
// The pipeline provides this handler to each transport.
type Handler func(ctx context.Context, req *message.Request, progress recognizer.ProgressFunc) (*message.Result, error)

// Transport is the interface that every transport adapter must implement.
type Transport interface {
	// Name returns the transport identifier (e.g., "grpc", "http").
	Name() string

	// Listen starts accepting requests and passes them to the handler.
	// It blocks until the context is cancelled.
	Listen(ctx context.Context, handler Handler) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}
