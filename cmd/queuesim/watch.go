package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/GoSim-25-26J-441/queueing-core/internal/simd"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream run events from a running server",
		Example: `  queuesim watch --grpc-addr localhost:50051
  queuesim watch --run-id 7f9c...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("grpc-addr")
			runID, _ := cmd.Flags().GetString("run-id")

			conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return fmt.Errorf("connecting to %s: %w", addr, err)
			}
			defer conn.Close()

			watcher, err := simd.NewQueueingClient(conn).WatchRuns(cmd.Context(), runID)
			if err != nil {
				return err
			}
			a.log.Debug("watching runs", "addr", addr, "run_id", runID)

			out := cmd.OutOrStdout()
			for {
				ev, err := watcher.Recv()
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				if ev.GetFields()["subscribed"].GetBoolValue() {
					continue
				}
				line, err := protojson.Marshal(ev)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(line))
			}
		},
	}
	cmd.Flags().String("grpc-addr", "localhost:50051", "server gRPC address")
	cmd.Flags().String("run-id", "", "only show events for this run")
	return cmd
}
