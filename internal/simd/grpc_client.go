package simd

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// QueueingClient calls a QueueingService over an established connection.
type QueueingClient struct {
	cc grpc.ClientConnInterface
}

// NewQueueingClient wraps a client connection.
func NewQueueingClient(cc grpc.ClientConnInterface) *QueueingClient {
	return &QueueingClient{cc: cc}
}

func (c *QueueingClient) invoke(ctx context.Context, method string, in map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+QueueingServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *QueueingClient) Solve(ctx context.Context, in map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Solve", in, opts...)
}

func (c *QueueingClient) Simulate(ctx context.Context, in map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Simulate", in, opts...)
}

func (c *QueueingClient) GetRun(ctx context.Context, runID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetRun", map[string]any{"run_id": runID}, opts...)
}

func (c *QueueingClient) ListRuns(ctx context.Context, in map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListRuns", in, opts...)
}

// RunWatcher receives run events from WatchRuns.
type RunWatcher struct {
	stream grpc.ClientStream
}

// Recv blocks for the next event.
func (w *RunWatcher) Recv() (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := w.stream.RecvMsg(out); err != nil {
		return nil, err
	}
	return out, nil
}

// WatchRuns opens the event stream; runID may be empty for all runs.
func (c *QueueingClient) WatchRuns(ctx context.Context, runID string, opts ...grpc.CallOption) (*RunWatcher, error) {
	stream, err := c.cc.NewStream(ctx, &QueueingServiceDesc.Streams[0], "/"+QueueingServiceName+"/WatchRuns", opts...)
	if err != nil {
		return nil, err
	}
	req, err := structpb.NewStruct(map[string]any{"run_id": runID})
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(req); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &RunWatcher{stream: stream}, nil
}
