package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "valuation.v1.ValuationService"

// Full method names
const (
	MethodGetValues     = "/" + ServiceName + "/GetValues"
	MethodGetLiveValues = "/" + ServiceName + "/GetLiveValues"
	MethodRecordPick    = "/" + ServiceName + "/RecordPick"
	MethodUndoPick      = "/" + ServiceName + "/UndoPick"
	MethodStreamEvents  = "/" + ServiceName + "/StreamEvents"
)

// ValuationServiceServer is the server API for the valuation service.
// Every message is a google.protobuf.Struct so the service needs no
// generated code.
type ValuationServiceServer interface {
	GetValues(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetLiveValues(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordPick(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UndoPick(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StreamEvents(*structpb.Struct, EventStream) error
}

// EventStream is the server side of StreamEvents
type EventStream interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type eventStream struct {
	grpc.ServerStream
}

func (s *eventStream) Send(m *structpb.Struct) error {
	return s.ServerStream.SendMsg(m)
}

type unaryCall func(ValuationServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ValuationServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ValuationServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func streamEventsHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(ValuationServiceServer).StreamEvents(in, &eventStream{stream})
}

// ValuationServiceDesc describes the service to grpc.Server
var ValuationServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ValuationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetValues", Handler: unaryHandler(MethodGetValues, ValuationServiceServer.GetValues)},
		{MethodName: "GetLiveValues", Handler: unaryHandler(MethodGetLiveValues, ValuationServiceServer.GetLiveValues)},
		{MethodName: "RecordPick", Handler: unaryHandler(MethodRecordPick, ValuationServiceServer.RecordPick)},
		{MethodName: "UndoPick", Handler: unaryHandler(MethodUndoPick, ValuationServiceServer.UndoPick)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "StreamEvents", Handler: streamEventsHandler, ServerStreams: true},
	},
	Metadata: "valuation/v1/valuation.proto",
}

// RegisterValuationServiceServer registers srv with s
func RegisterValuationServiceServer(s grpc.ServiceRegistrar, srv ValuationServiceServer) {
	s.RegisterService(&ValuationServiceDesc, srv)
}

// Client calls the valuation service over a connection
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) unary(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetValues(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.unary(ctx, MethodGetValues, in, opts...)
}

func (c *Client) GetLiveValues(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.unary(ctx, MethodGetLiveValues, in, opts...)
}

func (c *Client) RecordPick(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.unary(ctx, MethodRecordPick, in, opts...)
}

func (c *Client) UndoPick(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.unary(ctx, MethodUndoPick, in, opts...)
}

// EventStreamClient receives events from StreamEvents
type EventStreamClient struct {
	grpc.ClientStream
}

func (s *EventStreamClient) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := s.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// StreamEvents opens an event stream; in may carry a "types" filter list
func (c *Client) StreamEvents(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*EventStreamClient, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	stream, err := c.cc.NewStream(ctx, &ValuationServiceDesc.Streams[0], MethodStreamEvents, opts...)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &EventStreamClient{stream}, nil
}
