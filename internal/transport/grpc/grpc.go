// Package grpc implements the gRPC transport for readalong.
//
// This transport exposes the readalong.v1.Aligner service with unary Align
// and Paragraphs methods. Messages travel as JSON through a registered
// codec, and the standard gRPC health service reports the aligner's
// serving status.
package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/nadzzz/readalong/internal/align"
	"github.com/nadzzz/readalong/internal/message"
	"github.com/nadzzz/readalong/internal/transport"
)

// Transport implements transport.Transport over gRPC.
type Transport struct {
	port int

	mu     sync.Mutex
	server *grpc.Server
	health *health.Server
}

// New creates a new gRPC transport on the given port.
func New(port int) *Transport {
	return &Transport{port: port}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "grpc" }

// Listen starts the gRPC server and routes incoming requests to the handler.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	slog.Info("grpc transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("grpc transport shutting down")
		_ = t.Close()
	}()

	return t.Serve(lis, handler)
}

// Serve accepts connections on lis until Close is called.
func (t *Transport) Serve(lis net.Listener, handler transport.Handler) error {
	srv := grpc.NewServer()
	hs := health.NewServer()
	RegisterAlignerServer(srv, &alignerServer{handler: handler})
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	t.mu.Lock()
	t.server = srv
	t.health = hs
	t.mu.Unlock()

	if err := srv.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

// Close gracefully stops the gRPC server.
func (t *Transport) Close() error {
	t.mu.Lock()
	srv, hs := t.server, t.health
	t.mu.Unlock()
	if hs != nil {
		hs.Shutdown()
	}
	if srv != nil {
		srv.GracefulStop()
	}
	return nil
}

// alignerServer adapts the transport handler to the Aligner service.
type alignerServer struct {
	handler transport.Handler
}

func (s *alignerServer) Align(ctx context.Context, req *message.Request) (*message.Result, error) {
	res, err := s.handler(ctx, req, nil)
	if err != nil {
		slog.Error("alignment failed", "error", err)
		return nil, status.Errorf(codes.Internal, "alignment error: %v", err)
	}
	return res, nil
}

func (s *alignerServer) Paragraphs(_ context.Context, req *message.ParagraphsRequest) (*message.ParagraphsResult, error) {
	return &message.ParagraphsResult{Paragraphs: align.FindParagraphIntervals(req.Text)}, nil
}
