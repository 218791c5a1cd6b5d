package app

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/jkasimotto/file-combiner/pkg/logger"
)

// exit is swapped out in tests
var exit = os.Exit

// signalState tracks the state of signal handling
type signalState struct {
	shutdownInitiated atomic.Bool
}

// handleSignals returns a context cancelled by the first SIGINT or SIGTERM.
// A second signal exits immediately with status 1. The returned stop
// function releases the handler.
func (a *App) handleSignals(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	a.log.Debug("Initializing signal handlers")

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go a.watchSignals(sigChan, cancel, done)

	return ctx, func() {
		signal.Stop(sigChan)
		close(done)
		cancel()
	}
}

// watchSignals processes incoming system signals until done is closed
func (a *App) watchSignals(sigChan <-chan os.Signal, cancel context.CancelFunc, done <-chan struct{}) {
	state := &signalState{}

	for {
		select {
		case <-done:
			return
		case sig := <-sigChan:
			a.log.WithFields(logger.Fields{
				"signal": sig.String(),
			}).Debug("Received system signal")

			if !state.shutdownInitiated.CompareAndSwap(false, true) {
				a.log.Warn("Received second interrupt, exiting")
				exit(1)
				return
			}

			a.log.Info("Interrupt received, stopping run")
			cancel()
		}
	}
}
