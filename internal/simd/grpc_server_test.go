package simd

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1024 * 1024

type testGRPC struct {
	svc    *Service
	impl   *QueueingGRPCServer
	srv    *grpc.Server
	client *QueueingClient
}

func newTestGRPC(t *testing.T) (*Service, *QueueingClient) {
	t.Helper()
	g := startTestGRPC(t)
	return g.svc, g.client
}

func startTestGRPC(t *testing.T) *testGRPC {
	t.Helper()
	svc := newTestService(t)

	lis := bufconn.Listen(bufSize)
	srv := grpc.NewServer()
	impl := NewQueueingGRPCServer(svc)
	RegisterQueueingServiceServer(srv, impl)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &testGRPC{svc: svc, impl: impl, srv: srv, client: NewQueueingClient(conn)}
}

func TestGRPCSolve(t *testing.T) {
	_, client := newTestGRPC(t)
	ctx := context.Background()

	resp, err := client.Solve(ctx, map[string]any{"run_id": "g1", "arrival_rate": 6, "service_rate": 2, "servers": 4})
	require.NoError(t, err)
	measures := resp.GetFields()["measures"].GetStructValue().GetFields()
	assert.Equal(t, "M/M/c", measures["variant"].GetStringValue())
	assert.Greater(t, measures["lq"].GetNumberValue(), 0.0)

	run, err := client.GetRun(ctx, "g1")
	require.NoError(t, err)
	got := run.GetFields()["run"].GetStructValue().GetFields()["status"].GetStringValue()
	assert.Equal(t, "completed", got)
}

func TestGRPCErrors(t *testing.T) {
	_, client := newTestGRPC(t)
	ctx := context.Background()

	_, err := client.Solve(ctx, map[string]any{"arrival_rate": 5, "service_rate": 5})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.GetRun(ctx, "missing")
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.GetRun(ctx, "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Solve(ctx, map[string]any{"run_id": "same", "arrival_rate": 1, "service_rate": 5})
	require.NoError(t, err)
	_, err = client.Solve(ctx, map[string]any{"run_id": "same", "arrival_rate": 1, "service_rate": 5})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestGRPCSimulateAndList(t *testing.T) {
	_, client := newTestGRPC(t)
	ctx := context.Background()

	resp, err := client.Simulate(ctx, map[string]any{"arrival_rate": 3, "service_rate": 5, "customers": 25, "seed": 11})
	require.NoError(t, err)
	run := resp.GetFields()["run"].GetStructValue().GetFields()
	assert.Equal(t, float64(25), run["customers"].GetNumberValue())
	assert.NotNil(t, resp.GetFields()["stats"].GetStructValue())

	_, err = client.Solve(ctx, map[string]any{"arrival_rate": 1, "service_rate": 5})
	require.NoError(t, err)

	list, err := client.ListRuns(ctx, map[string]any{"kind": "simulate"})
	require.NoError(t, err)
	runs := list.GetFields()["runs"].GetListValue().GetValues()
	require.Len(t, runs, 1)
	assert.Equal(t, "simulate", runs[0].GetStructValue().GetFields()["kind"].GetStringValue())
}

func TestGRPCWatchRuns(t *testing.T) {
	svc, client := newTestGRPC(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	watcher, err := client.WatchRuns(ctx, "watched")
	require.NoError(t, err)

	marker, err := watcher.Recv()
	require.NoError(t, err)
	assert.True(t, marker.GetFields()["subscribed"].GetBoolValue())

	// events for other runs are filtered out
	_, err = svc.Solve(ctx, SolveRequest{RunID: "other", Params: solveBody{ArrivalRate: 1, ServiceRate: 5}.params()})
	require.NoError(t, err)
	_, err = svc.Solve(ctx, SolveRequest{RunID: "watched", Params: solveBody{ArrivalRate: 2, ServiceRate: 5}.params()})
	require.NoError(t, err)

	var statuses []string
	for len(statuses) < 2 {
		ev, err := watcher.Recv()
		require.NoError(t, err)
		assert.Equal(t, "watched", ev.GetFields()["run_id"].GetStringValue())
		statuses = append(statuses, ev.GetFields()["status"].GetStringValue())
	}
	assert.Equal(t, []string{"running", "completed"}, statuses)
}

func TestGRPCShutdownEndsWatchStreams(t *testing.T) {
	g := startTestGRPC(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	watcher, err := g.client.WatchRuns(ctx, "")
	require.NoError(t, err)
	marker, err := watcher.Recv()
	require.NoError(t, err)
	require.True(t, marker.GetFields()["subscribed"].GetBoolValue())

	g.impl.Shutdown()
	g.impl.Shutdown()

	stopped := make(chan struct{})
	go func() {
		g.srv.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("GracefulStop blocked on an open WatchRuns stream")
	}

	_, err = watcher.Recv()
	assert.ErrorIs(t, err, io.EOF)
}
