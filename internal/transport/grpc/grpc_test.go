package grpc

import (
	"context"
	"errors"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/nadzzz/readalong/internal/align"
	"github.com/nadzzz/readalong/internal/message"
	"github.com/nadzzz/readalong/internal/recognizer"
	"github.com/nadzzz/readalong/internal/transport"
)

func startServer(t *testing.T, handler transport.Handler) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	tr := New(0)
	done := make(chan error, 1)
	go func() { done <- tr.Serve(lis, handler) }()
	t.Cleanup(func() {
		_ = tr.Close()
		if err := <-done; err != nil {
			t.Errorf("Serve: %v", err)
		}
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestAlign(t *testing.T) {
	var got *message.Request
	conn := startServer(t, func(_ context.Context, req *message.Request, progress recognizer.ProgressFunc) (*message.Result, error) {
		got = req
		if progress != nil {
			t.Error("unary calls should not receive a progress callback")
		}
		return &message.Result{
			RequestID: "r1",
			Words:     req.Words,
			Intervals: []*align.Interval{{Start: 0, End: 4}, nil},
		}, nil
	})

	res, err := NewClient(conn).Align(context.Background(), &message.Request{
		Text:  "これは、私",
		Words: []string{"これは", "えー"},
	})
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if got == nil || got.Text != "これは、私" {
		t.Errorf("handler saw %+v", got)
	}
	if res.RequestID != "r1" || len(res.Intervals) != 2 {
		t.Fatalf("result = %+v", res)
	}
	if *res.Intervals[0] != (align.Interval{Start: 0, End: 4}) || res.Intervals[1] != nil {
		t.Errorf("intervals = %v", res.Intervals)
	}
}

func TestAlignHandlerError(t *testing.T) {
	conn := startServer(t, func(context.Context, *message.Request, recognizer.ProgressFunc) (*message.Result, error) {
		return nil, errors.New("boom")
	})
	_, err := NewClient(conn).Align(context.Background(), &message.Request{Text: "x"})
	if status.Code(err) != codes.Internal {
		t.Fatalf("err = %v, want Internal", err)
	}
}

func TestParagraphs(t *testing.T) {
	conn := startServer(t, nil)
	res, err := NewClient(conn).Paragraphs(context.Background(), &message.ParagraphsRequest{Text: "一\n\n二三"})
	if err != nil {
		t.Fatalf("Paragraphs: %v", err)
	}
	want := []align.Interval{{Start: 0, End: 1}, {Start: 3, End: 5}}
	if len(res.Paragraphs) != len(want) || res.Paragraphs[0] != want[0] || res.Paragraphs[1] != want[1] {
		t.Errorf("paragraphs = %v, want %v", res.Paragraphs, want)
	}
}

func TestHealth(t *testing.T) {
	conn := startServer(t, nil)
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING", resp.GetStatus())
	}
}
