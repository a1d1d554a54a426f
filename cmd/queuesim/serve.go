package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/GoSim-25-26J-441/queueing-core/internal/metrics"
	"github.com/GoSim-25-26J-441/queueing-core/internal/simd"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve solve, simulate and compare runs over gRPC and HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().String("grpc-addr", "", "gRPC listen address, empty disables gRPC")
	cmd.Flags().String("http-addr", "", "HTTP listen address, empty disables HTTP")
	_ = a.v.BindPFlag("server.grpc_addr", cmd.Flags().Lookup("grpc-addr"))
	_ = a.v.BindPFlag("server.http_addr", cmd.Flags().Lookup("http-addr"))
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	shutdownTimeout, err := cfg.Server.GetShutdownTimeout()
	if err != nil {
		return err
	}

	store := simd.NewRunStore(cfg.Server.MaxRuns)
	bus := simd.NewEventBus(a.log)
	defer bus.Close()
	service := simd.NewService(store, bus, metrics.NewCollector(), cfg.Simulation, a.log)

	var notifier *simd.Notifier
	if cfg.Notifications.Enabled {
		notifier = simd.NewNotifier(cfg.Notifications, store, a.log)
		if err := notifier.Start(ctx, bus); err != nil {
			return fmt.Errorf("starting notifier: %w", err)
		}
	}

	errCh := make(chan error, 2)

	var (
		grpcServer *grpc.Server
		grpcImpl   *simd.QueueingGRPCServer
	)
	if cfg.Server.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listening for gRPC on %s: %w", cfg.Server.GRPCAddr, err)
		}
		grpcServer = grpc.NewServer()
		grpcImpl = simd.NewQueueingGRPCServer(service)
		simd.RegisterQueueingServiceServer(grpcServer, grpcImpl)
		go func() {
			a.log.Info("gRPC server listening", "addr", lis.Addr().String())
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("gRPC server: %w", err)
			}
		}()
	}

	var httpSrv *http.Server
	if cfg.Server.HTTPAddr != "" {
		httpSrv = &http.Server{
			Addr:              cfg.Server.HTTPAddr,
			Handler:           simd.NewHTTPServer(service).Handler(),
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
		}
		go func() {
			a.log.Info("HTTP server listening", "addr", cfg.Server.HTTPAddr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("HTTP server: %w", err)
			}
		}()
	}

	var serveErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown requested")
	case serveErr = <-errCh:
		a.log.Error("server stopped", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if grpcServer != nil {
		grpcImpl.Shutdown()
		stopGRPC(shutdownCtx, grpcServer, a)
	}
	if httpSrv != nil {
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			a.log.Error("HTTP shutdown error", "error", err)
		}
	}
	if notifier != nil {
		// the notifier loop exits once its subscription context is done
		_ = bus.Close()
		notifier.Wait()
	}
	a.log.Info("stopped")
	return serveErr
}

// stopGRPC drains in-flight calls and falls back to a hard stop once ctx
// expires.
func stopGRPC(ctx context.Context, srv *grpc.Server, a *app) {
	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		a.log.Warn("gRPC graceful stop timed out, closing open calls")
		srv.Stop()
		<-stopped
	}
}
