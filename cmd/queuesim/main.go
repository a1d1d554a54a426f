// Command queuesim solves Markovian queueing models, simulates single-server
// queues and serves both over HTTP and gRPC.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
