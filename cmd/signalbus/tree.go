package main

import (
	"context"
	"fmt"
	"github.com/saylorsolutions/signalbus"
	"github.com/saylorsolutions/signalbus/cli"
	"github.com/saylorsolutions/signalbus/metrics"
	"github.com/saylorsolutions/signalbus/observe"
	flag "github.com/spf13/pflag"
	"sort"
	"strings"
)

// treeSignal is fired by the tree command.
type treeSignal struct {
	Origin string
}

func (e *environment) treeCommand(tlc *cli.CommandSet) {
	cmd := tlc.AddCommand("tree", "Builds a chain of buses, fires at one of them, and shows which buses received the signal", "t").
		Usage("tree [FLAGS]").
		Does(e.execTree)
	flags := cmd.Flags()
	flags.IntP("depth", "d", e.vars.Int("DEPTH", 4), "Number of buses in the chain. Env: "+e.vars.Key("DEPTH"))
	flags.IntP("fire-at", "f", 1, "Zero-based index of the bus to fire at")
	addLogFlags(flags, e.vars)
}

func (e *environment) execTree(_ context.Context, flags *flag.FlagSet, out *cli.Printer) error {
	depth := cli.MustGet(flags.GetInt("depth"))
	fireAt := cli.MustGet(flags.GetInt("fire-at"))
	if depth < 1 {
		return cli.NewUsageError("depth must be >= 1, got %d", depth)
	}
	if fireAt < 0 || fireAt >= depth {
		return cli.NewUsageError("fire-at must be in [0, %d), got %d", depth, fireAt)
	}
	logger, closeLog, err := e.commandLogger(flags)
	if err != nil {
		return err
	}
	defer closeLog()

	collector := metrics.NewCollector("", "tree")
	root := signalbus.NewBus(
		signalbus.WithLabel("level-0"),
		signalbus.WithLogger(logger),
		signalbus.WithMetrics(collector),
	)
	defer root.Dispose()

	chain := []*signalbus.Bus{root}
	for i := 1; i < depth; i++ {
		child, err := chain[i-1].CreateChild(fmt.Sprintf("level-%d", i))
		if err != nil {
			return err
		}
		chain = append(chain, child)
	}
	received := make([]int, depth)
	for i, b := range chain {
		if err := signalbus.Subscribe(b, signalbus.Action(func(treeSignal) {
			received[i]++
		})); err != nil {
			return err
		}
	}

	leaf, err := observe.Observe[treeSignal](chain[depth-1])
	if err != nil {
		return err
	}
	defer func() {
		_ = leaf.Dispose()
	}()
	var observed []string
	if _, err := leaf.Subscribe(func(sig treeSignal) {
		observed = append(observed, sig.Origin)
	}); err != nil {
		return err
	}

	origin := chain[fireAt]
	delivered, err := signalbus.Fire(origin, treeSignal{Origin: origin.Label()})
	if err != nil {
		return err
	}

	out.Printf("Fired at %s: %d deliveries\n", origin.Label(), delivered)
	for i, b := range chain {
		out.Printf("  %s%s received %d\n", strings.Repeat("  ", i), b.Label(), received[i])
	}
	if len(observed) > 0 {
		out.Printf("Leaf observer saw signal from %s\n", strings.Join(observed, ", "))
	}
	return printSnapshot(out, collector)
}

func printSnapshot(out *cli.Printer, collector *metrics.Collector) error {
	snap, err := collector.Snapshot()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([][2]string, len(names))
	for i, name := range names {
		rows[i] = [2]string{name, fmt.Sprintf("%g", snap[name])}
	}
	out.Println("Metrics:")
	out.Table("  ", rows)
	return nil
}
