/*
Package stress runs a concurrent workload against a chain of buses to check that deliveries are neither lost nor duplicated.

Each worker owns one bus in a chain (root, child, grandchild, ...), fires signals at it, and finally disposes it.
Disposal cascades, so workers lower in the chain may find their bus disposed early and stop.
When every worker is done, the number of deliveries reported by [signalbus.Fire] must equal the number of handler invocations.
*/
package stress

import (
	"context"
	"errors"
	"fmt"
	"github.com/saylorsolutions/signalbus"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidConfig = errors.New("invalid stress configuration")
	ErrMismatch      = errors.New("sent and received deliveries differ")
)

// Ping is the signal fired by workers.
type Ping struct {
	Worker    int
	Iteration int
}

type Config struct {
	Workers    int // Workers is the number of goroutines, which is also the length of the bus chain.
	Iterations int // Iterations is the number of fires each worker attempts before disposing its bus.
	Logger     *slog.Logger
	Options    []signalbus.ConfigFunc // Options are passed to the root bus.
}

func (c Config) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1", ErrInvalidConfig)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations must be >= 0", ErrInvalidConfig)
	}
	return nil
}

type Report struct {
	Nodes       int
	Sent        int64 // Sent is the sum of delivery counts returned by Fire.
	Received    int64 // Received is the number of handler invocations.
	Fires       int64
	CutShort    int // CutShort is the number of workers whose bus was disposed by an ancestor before they finished.
	AllDisposed bool
	Elapsed     time.Duration
}

// Balanced reports whether every reported delivery was received exactly once.
func (r Report) Balanced() bool {
	return r.Sent == r.Received
}

// Run executes the workload.
// Cancelling ctx stops workers early, but they still dispose their buses, so the report remains consistent.
func Run(ctx context.Context, conf Config) (Report, error) {
	if err := conf.validate(); err != nil {
		return Report{}, err
	}
	logger := conf.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts := append([]signalbus.ConfigFunc{signalbus.WithLogger(logger), signalbus.WithLabel("stress")}, conf.Options...)

	var (
		report   = Report{Nodes: conf.Workers}
		received atomic.Int64
		sent     atomic.Int64
		fires    atomic.Int64
		cutShort atomic.Int64
		chain    = make([]*signalbus.Bus, conf.Workers)
	)
	chain[0] = signalbus.NewBus(opts...)
	for i := 1; i < conf.Workers; i++ {
		child, err := chain[i-1].CreateChild(fmt.Sprintf("worker-%d", i))
		if err != nil {
			chain[0].Dispose()
			return report, err
		}
		chain[i] = child
	}
	for _, b := range chain {
		if err := signalbus.Subscribe(b, signalbus.Action(func(Ping) {
			received.Add(1)
		})); err != nil {
			chain[0].Dispose()
			return report, err
		}
	}

	start := time.Now()
	group, gctx := errgroup.WithContext(ctx)
	ready := make(chan struct{})
	for i, b := range chain {
		group.Go(func() error {
			defer b.Dispose()
			<-ready
			for n := 0; n < conf.Iterations; n++ {
				if gctx.Err() != nil {
					return nil
				}
				delivered, err := signalbus.Fire(b, Ping{Worker: i, Iteration: n})
				if errors.Is(err, signalbus.ErrDisposed) {
					cutShort.Add(1)
					logger.Debug("Worker bus disposed early", "worker", i, "iteration", n)
					return nil
				}
				if err != nil {
					return fmt.Errorf("worker %d: %w", i, err)
				}
				fires.Add(1)
				sent.Add(int64(delivered))
			}
			return nil
		})
	}
	close(ready)
	err := group.Wait()

	report.Elapsed = time.Since(start)
	report.Sent = sent.Load()
	report.Received = received.Load()
	report.Fires = fires.Load()
	report.CutShort = int(cutShort.Load())
	report.AllDisposed = true
	for _, b := range chain {
		if !b.IsDisposed() {
			report.AllDisposed = false
		}
	}
	if err != nil {
		return report, err
	}
	if !report.Balanced() {
		return report, fmt.Errorf("%w: sent %d, received %d", ErrMismatch, report.Sent, report.Received)
	}
	logger.Info("Stress run complete",
		"nodes", report.Nodes,
		"fires", report.Fires,
		"deliveries", report.Sent,
		"cut_short", report.CutShort,
		"elapsed", report.Elapsed,
	)
	return report, nil
}
