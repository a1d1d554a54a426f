package simd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GoSim-25-26J-441/queueing-core/pkg/logger"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
)

// QueueingServiceName is the fully-qualified gRPC service name.
const QueueingServiceName = "queueing.v1.QueueingService"

// QueueingServiceServer is the server API. Every message is a
// google.protobuf.Struct carrying the same JSON shapes as the HTTP API.
type QueueingServiceServer interface {
	Solve(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRun(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListRuns(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WatchRuns(*structpb.Struct, grpc.ServerStream) error
}

func unaryMethod(name string, call func(QueueingServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(QueueingServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + QueueingServiceName + "/" + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(QueueingServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// QueueingServiceDesc describes the service for grpc.Server.RegisterService.
var QueueingServiceDesc = grpc.ServiceDesc{
	ServiceName: QueueingServiceName,
	HandlerType: (*QueueingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("Solve", QueueingServiceServer.Solve),
		unaryMethod("Simulate", QueueingServiceServer.Simulate),
		unaryMethod("GetRun", QueueingServiceServer.GetRun),
		unaryMethod("ListRuns", QueueingServiceServer.ListRuns),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName: "WatchRuns",
			Handler: func(srv any, stream grpc.ServerStream) error {
				in := new(structpb.Struct)
				if err := stream.RecvMsg(in); err != nil {
					return err
				}
				return srv.(QueueingServiceServer).WatchRuns(in, stream)
			},
			ServerStreams: true,
		},
	},
	Metadata: "queueing/v1/queueing.proto",
}

// RegisterQueueingServiceServer registers srv on s.
func RegisterQueueingServiceServer(s grpc.ServiceRegistrar, srv QueueingServiceServer) {
	s.RegisterService(&QueueingServiceDesc, srv)
}

// QueueingGRPCServer implements QueueingServiceServer on top of a Service.
type QueueingGRPCServer struct {
	service *Service

	done     chan struct{}
	stopOnce sync.Once
}

// NewQueueingGRPCServer creates the gRPC adapter.
func NewQueueingGRPCServer(service *Service) *QueueingGRPCServer {
	return &QueueingGRPCServer{service: service, done: make(chan struct{})}
}

// Shutdown ends every open WatchRuns stream with an OK status. Call it before
// grpc.Server.GracefulStop, which otherwise waits for those streams forever.
func (s *QueueingGRPCServer) Shutdown() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *QueueingGRPCServer) Solve(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var body solveBody
	if err := fromStruct(req, &body); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	rec, err := s.service.Solve(ctx, SolveRequest{RunID: body.RunID, Params: body.params(), CallbackURL: body.CallbackURL})
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(map[string]any{"run": rec.Run, "measures": rec.Measures})
}

func (s *QueueingGRPCServer) Simulate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var body SimulateRequest
	if err := fromStruct(req, &body); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	rec, err := s.service.Simulate(ctx, body)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(map[string]any{"run": rec.Run, "stats": rec.Stats})
}

func (s *QueueingGRPCServer) GetRun(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	runID := req.GetFields()["run_id"].GetStringValue()
	if runID == "" {
		return nil, status.Error(codes.InvalidArgument, "run_id is required")
	}
	rec, err := s.service.Get(runID)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(rec)
}

func (s *QueueingGRPCServer) ListRuns(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	filter := ListFilter{
		Kind:   models.RunKind(fields["kind"].GetStringValue()),
		Status: models.RunStatus(fields["status"].GetStringValue()),
		Limit:  int(fields["limit"].GetNumberValue()),
	}
	recs := s.service.List(filter)
	runs := make([]models.Run, 0, len(recs))
	for _, rec := range recs {
		runs = append(runs, rec.Run)
	}
	return toStruct(map[string]any{"runs": runs})
}

// WatchRuns streams run events, optionally for one run_id. The first message
// is a {"subscribed": true} marker sent once the subscription is live. The
// stream ends when the client goes away or Shutdown is called.
func (s *QueueingGRPCServer) WatchRuns(req *structpb.Struct, stream grpc.ServerStream) error {
	runID := req.GetFields()["run_id"].GetStringValue()
	ctx := stream.Context()

	events, err := s.service.Bus().Subscribe(ctx)
	if err != nil {
		return status.Error(codes.Unavailable, err.Error())
	}
	marker, _ := structpb.NewStruct(map[string]any{"subscribed": true, "at": time.Now().UTC().Format(time.RFC3339Nano)})
	if err := stream.SendMsg(marker); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if runID != "" && ev.RunID != runID {
				continue
			}
			msg, err := toStruct(ev)
			if err != nil {
				logger.Warn("dropping run event", "run_id", ev.RunID, "error", err)
				continue
			}
			if err := stream.SendMsg(msg); err != nil {
				return err
			}
		}
	}
}

// grpcError maps service errors to gRPC status codes.
func grpcError(err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidParameter), errors.Is(err, ErrRunIDMissing):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrRunNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrRunExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, ErrNoSimulation), errors.Is(err, models.ErrDegenerateComputation):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ErrStoreFull):
		return status.Error(codes.ResourceExhausted, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encoding response: %v", err))
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encoding response: %v", err))
	}
	return out, nil
}

func fromStruct(in *structpb.Struct, v any) error {
	raw, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}
	return nil
}
