package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/saylorsolutions/signalbus/cli"
	"github.com/saylorsolutions/signalbus/env"
	flag "github.com/spf13/pflag"
	"io"
	"log/slog"
	"os"
)

const appName = "signalbus"

// environment holds what commands need beyond their flags, so tests can run commands without touching process state.
type environment struct {
	logOut io.Writer
	vars   *env.Source
}

func main() {
	ctx, cancel := signalExitCtx(context.Background(), os.Interrupt)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stderr, os.Stderr))
}

func run(ctx context.Context, args []string, out, logOut io.Writer) int {
	e := &environment{
		logOut: logOut,
		vars:   env.Prefixed(appName),
	}
	tlc := newCommandSet(e)
	tlc.Printer().Redirect(out)
	if tlc.RespondUsage(args, "Exercises a hierarchical signal bus.") {
		return 0
	}
	if err := tlc.Exec(ctx, args); err != nil {
		// Usage errors have already been reported along with usage information.
		if !errors.Is(err, &cli.UsageError{}) {
			tlc.Printer().Printf("error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newCommandSet(e *environment) *cli.CommandSet {
	tlc := cli.NewCommandSet(appName)
	tlc.AddPreExec(validateLogFlags)
	e.treeCommand(tlc)
	e.stressCommand(tlc)
	return tlc
}

// addLogFlags adds logging flags shared by all commands.
func addLogFlags(flags *flag.FlagSet, vars *env.Source) {
	flags.String("log-level", vars.Val("LOG_LEVEL", "warn"), "Minimum log level (debug, info, warn, error). Env: "+vars.Key("LOG_LEVEL"))
	flags.Bool("log-json", vars.Bool("LOG_JSON", false), "Always log as JSON, even to a terminal. Env: "+vars.Key("LOG_JSON"))
	flags.String("log-file", vars.Val("LOG_FILE", ""), "Also write JSON logs to this file. Env: "+vars.Key("LOG_FILE"))
}

func validateLogFlags(flags *flag.FlagSet) error {
	if _, err := parseLevel(cli.MustGet(flags.GetString("log-level"))); err != nil {
		return cli.NewUsageError("%w", err)
	}
	return nil
}

// commandLogger creates the logger described by the log flags.
// The returned close function must be called when the command is done.
func (e *environment) commandLogger(flags *flag.FlagSet) (*slog.Logger, func(), error) {
	level, err := parseLevel(cli.MustGet(flags.GetString("log-level")))
	if err != nil {
		return nil, nil, err
	}
	forceJSON := cli.MustGet(flags.GetBool("log-json"))
	logPath := cli.MustGet(flags.GetString("log-file"))
	if len(logPath) == 0 {
		return newLogger(e.logOut, nil, level, forceJSON), func() {}, nil
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return newLogger(e.logOut, f, level, forceJSON), func() { _ = f.Close() }, nil
}
