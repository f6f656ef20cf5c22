package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/nadzzz/readalong/internal/message"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "readalong.v1.Aligner"

const (
	alignMethod      = "/" + ServiceName + "/Align"
	paragraphsMethod = "/" + ServiceName + "/Paragraphs"
)

// AlignerServer is the server API for the Aligner service.
type AlignerServer interface {
	Align(context.Context, *message.Request) (*message.Result, error)
	Paragraphs(context.Context, *message.ParagraphsRequest) (*message.ParagraphsResult, error)
}

// RegisterAlignerServer registers srv on s.
func RegisterAlignerServer(s grpc.ServiceRegistrar, srv AlignerServer) {
	s.RegisterService(&alignerServiceDesc, srv)
}

var alignerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlignerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Align", Handler: alignHandler},
		{MethodName: "Paragraphs", Handler: paragraphsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "readalong/v1/aligner",
}

func alignHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(message.Request)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AlignerServer).Align(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: alignMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AlignerServer).Align(ctx, req.(*message.Request))
	}
	return interceptor(ctx, in, info, handler)
}

func paragraphsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(message.ParagraphsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AlignerServer).Paragraphs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: paragraphsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AlignerServer).Paragraphs(ctx, req.(*message.ParagraphsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls the Aligner service over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Align aligns a request remotely.
func (c *Client) Align(ctx context.Context, req *message.Request, opts ...grpc.CallOption) (*message.Result, error) {
	out := new(message.Result)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, alignMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Paragraphs splits a text remotely.
func (c *Client) Paragraphs(ctx context.Context, req *message.ParagraphsRequest, opts ...grpc.CallOption) (*message.ParagraphsResult, error) {
	out := new(message.ParagraphsResult)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, paragraphsMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
