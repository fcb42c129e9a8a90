package cli

import (
	flag "github.com/spf13/pflag"
)

// PreExec is a function that runs right before a [Command] is executed, with that command's parsed flags.
// It's useful for validating flags shared by many commands.
type PreExec func(flags *flag.FlagSet) error

// AddPreExec registers a [PreExec] for every [Command] under this [CommandSet], including nested sub-commands.
// If an error is returned from a [PreExec], then the [Command] will not be executed, and the error will be returned from Exec instead.
// Note that nothing runs when the [CommandSet] only prints usage.
//
// Passing a nil [PreExec] function to this method will panic.
func (s *CommandSet) AddPreExec(fn PreExec) {
	if fn == nil {
		panic("nil pre-exec function")
	}
	s.preExec = append(s.preExec, fn)
}

// runPreExec runs the hooks of every enclosing [CommandSet], outermost first.
func (c *Command) runPreExec() error {
	var chain []*CommandSet
	for s := c.owner; s != nil; s = s.owner {
		chain = append(chain, s)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for _, fn := range chain[i].preExec {
			if err := fn(c.flags); err != nil {
				return err
			}
		}
	}
	return nil
}
