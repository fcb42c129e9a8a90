package main

import (
	"context"
	"os"
	"os/signal"
)

// signalExitCtx returns a context that's cancelled when one of signals is received.
// A second signal exits the process with a non-zero code.
func signalExitCtx(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	if len(signals) == 0 {
		panic("no signals passed to signalExitCtx")
	}
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, signals...)
	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
			return
		}
		<-sigs
		os.Exit(1)
	}()
	return ctx, cancel
}
