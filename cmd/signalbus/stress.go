package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/saylorsolutions/signalbus"
	"github.com/saylorsolutions/signalbus/cli"
	"github.com/saylorsolutions/signalbus/metrics"
	"github.com/saylorsolutions/signalbus/stress"
	flag "github.com/spf13/pflag"
	"strconv"
	"time"
)

func (e *environment) stressCommand(tlc *cli.CommandSet) {
	cmd := tlc.AddCommand("stress", "Runs concurrent fires against a chain of buses and checks that no delivery is lost", "s").
		Usage("stress [FLAGS]").
		Does(e.execStress)
	flags := cmd.Flags()
	flags.IntP("workers", "w", e.vars.Int("WORKERS", 8), "Number of workers, one per bus in the chain. Env: "+e.vars.Key("WORKERS"))
	flags.IntP("iterations", "n", e.vars.Int("ITERATIONS", 1000), "Fires attempted by each worker. Env: "+e.vars.Key("ITERATIONS"))
	flags.DurationP("timeout", "t", e.vars.Duration("TIMEOUT", 0), "Stops the run after this long, zero means no limit. Env: "+e.vars.Key("TIMEOUT"))
	addLogFlags(flags, e.vars)
}

func (e *environment) execStress(ctx context.Context, flags *flag.FlagSet, out *cli.Printer) error {
	timeout := cli.MustGet(flags.GetDuration("timeout"))
	conf := stress.Config{
		Workers:    cli.MustGet(flags.GetInt("workers")),
		Iterations: cli.MustGet(flags.GetInt("iterations")),
	}
	logger, closeLog, err := e.commandLogger(flags)
	if err != nil {
		return err
	}
	defer closeLog()
	conf.Logger = logger

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	collector := metrics.NewCollector("", "stress")
	conf.Options = []signalbus.ConfigFunc{signalbus.WithMetrics(collector)}
	report, err := stress.Run(ctx, conf)
	switch {
	case errors.Is(err, stress.ErrInvalidConfig):
		return cli.NewUsageError("%w", err)
	case err != nil && !errors.Is(err, stress.ErrMismatch):
		return err
	}
	printReport(out, report)
	if serr := printSnapshot(out, collector); serr != nil {
		return serr
	}
	return err
}

func printReport(out *cli.Printer, report stress.Report) {
	out.Table("", [][2]string{
		{"Nodes:", strconv.Itoa(report.Nodes)},
		{"Fires:", fmt.Sprint(report.Fires)},
		{"Sent:", fmt.Sprint(report.Sent)},
		{"Received:", fmt.Sprint(report.Received)},
		{"Cut short:", strconv.Itoa(report.CutShort)},
		{"All disposed:", strconv.FormatBool(report.AllDisposed)},
		{"Elapsed:", report.Elapsed.Round(time.Millisecond).String()},
	})
}
