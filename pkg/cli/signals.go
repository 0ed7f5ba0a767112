package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalContext creates a context that is canceled on SIGINT or SIGTERM,
// so an in-flight request or stream is torn down cleanly when the user
// interrupts the command. A second signal kills the process immediately.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
		<-sigChan
		os.Exit(1)
	}()

	return ctx
}
