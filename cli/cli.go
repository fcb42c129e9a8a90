package cli

import (
	"context"
	"errors"
	"fmt"
	flag "github.com/spf13/pflag"
	"regexp"
	"slices"
	"strings"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	HelpPatterns      = []string{"--help", "-h", "help"} // HelpPatterns is a slice of arguments that trigger the output of usage information with the top-level [CommandSet].

	keyCleansePattern = regexp.MustCompile(`\s`)
)

// CommandFunc is a function that may be executed within a [Command].
// The context is the one passed to [CommandSet.Exec], so long-running commands should stop when it's cancelled.
type CommandFunc = func(ctx context.Context, flags *flag.FlagSet, out *Printer) error

// Command is an executable function in a CLI.
// It should be linked to a [CommandSet] to establish a tree of commands available to the user.
type Command struct {
	CommandSet
	flags      *flag.FlagSet
	exec       CommandFunc
	key        string
	parent     string
	shortUsage string
	aliases    []string
}

func cleanseKey(key string) string {
	return keyCleansePattern.ReplaceAllString(strings.ToLower(key), "")
}

func newCommand(key, parent, shortUsage string, owner *CommandSet) *Command {
	key = cleanseKey(key)
	fs := flag.NewFlagSet(key, flag.ContinueOnError)
	fs.BoolP("help", "h", false, "Prints this usage information")
	fs.SetInterspersed(false)
	cmd := &Command{flags: fs, key: key, parent: parent, shortUsage: shortUsage}
	cmd.CommandSet.printer = owner.Printer()
	cmd.CommandSet.owner = owner
	if len(parent) > 0 {
		cmd.CommandSet.parent = strings.Join([]string{parent, key}, " ")
	} else {
		cmd.CommandSet.parent = key
	}
	cmd.Usage("").Does(func(_ context.Context, flags *flag.FlagSet, _ *Printer) error {
		flags.Usage()
		return nil
	})
	return cmd
}

// Does specifies the [CommandFunc] that should be executed by this [Command].
func (c *Command) Does(commandFunc CommandFunc) *Command {
	if commandFunc == nil {
		return c
	}
	c.exec = commandFunc
	return c
}

// Parent retrieves the parent [Command] name.
func (c *Command) Parent() string {
	return c.parent
}

// CommandPath returns the reference chain for this [Command].
func (c *Command) CommandPath() string {
	if len(c.parent) == 0 {
		return c.key
	}
	return c.parent + " " + c.key
}

// Flags returns the [flag.FlagSet] for this [Command].
func (c *Command) Flags() *flag.FlagSet {
	return c.flags
}

// Usage allows specifying a longer description of the [Command] that will be output when a [HelpPatterns] flag is passed.
//
// The short description, flag usages, and sub-command usages will be appended to this description.
func (c *Command) Usage(format string, args ...any) *Command {
	text := fmt.Sprintf(format, args...)
	if len(c.Parent()) > 0 && len(text) > 0 {
		text = c.Parent() + " " + text
	}
	if len(text) > 0 {
		text = "USAGE:\n" + text
	}
	c.flags.Usage = func() {
		var buf strings.Builder
		if len(text) == 0 {
			buf.WriteString("\n" + c.shortUsage + "\n")
		} else {
			if !strings.HasSuffix(text, "\n") {
				text += "\n"
			}
			buf.WriteString(fmt.Sprintf("%s\n\n%s", c.shortUsage, text))
		}
		buf.WriteString("\nFLAGS\n")
		buf.WriteString(c.flags.FlagUsages())
		if len(c.CommandSet.commands) > 0 {
			buf.WriteString("\nCOMMANDS\n")
			buf.WriteString(c.CommandUsages())
		}
		c.Printer().Print(buf.String())
	}
	return c
}

// Exec executes the command with given arguments, parsing flags.
// If a [PreExec] or the [CommandFunc] returns a [UsageError], then the error and usage information are printed before it's returned.
func (c *Command) Exec(ctx context.Context, args []string) error {
	if err := c.CommandSet.Exec(ctx, args); err != nil {
		if !errors.Is(err, ErrUnknownCommand) {
			return err
		}
	} else {
		return nil
	}
	c.flags.SetOutput(c.Printer().out)
	if err := c.flags.Parse(args); err != nil {
		return err
	}
	if val, _ := c.flags.GetBool("help"); val {
		c.flags.Usage()
		return nil
	}
	err := c.runPreExec()
	if err == nil {
		err = c.exec(ctx, c.flags, c.Printer())
	}
	if errors.Is(err, &UsageError{}) {
		c.Printer().Printf("%v\n\n", err)
		c.flags.Usage()
	}
	return err
}

// CommandSet is a group of [Command].
type CommandSet struct {
	commands map[string]*Command
	aliases  map[string]*Command
	printer  *Printer
	parent   string
	owner    *CommandSet
	preExec  []PreExec
}

// NewCommandSet is used to set up a top level [CommandSet] as the root of a CLI's command structure.
//
// Note: the parent(s) passed to this function will be used to populate sub-command usage information.
// So they should only contain the commands used to invoke this [CommandSet].
func NewCommandSet(parent ...string) *CommandSet {
	var _parent string
	if len(parent) > 0 {
		_parent = strings.Join(parent, " ")
	}
	return &CommandSet{printer: NewPrinter(), parent: _parent}
}

// Parent retrieves the parent [CommandSet] name.
func (s *CommandSet) Parent() string {
	return s.parent
}

// AddCommand adds a sub-command to this [CommandSet].
// The key parameter will be cleansed to remove spaces, and normalize to lower-case.
// Aliases may be added as a way to support shorter variants of the same [Command].
func (s *CommandSet) AddCommand(key, shortUsage string, aliases ...string) *Command {
	key = cleanseKey(key)
	cmd := newCommand(key, s.parent, shortUsage, s)
	if s.commands == nil {
		s.commands = map[string]*Command{}
	}
	s.commands[key] = cmd
	if len(aliases) > 0 {
		_aliases := make([]string, 0, len(aliases))
		for _, alias := range aliases {
			alias = cleanseKey(alias)
			if len(alias) == 0 {
				continue
			}
			if s.aliases == nil {
				s.aliases = map[string]*Command{}
			}
			s.aliases[alias] = cmd
			_aliases = append(_aliases, alias)
		}
		slices.Sort(_aliases)
		cmd.aliases = _aliases
	}
	return cmd
}

// Printer returns the [Printer] for this [CommandSet], which is shared with all of its sub-commands.
func (s *CommandSet) Printer() *Printer {
	if s.printer == nil {
		s.printer = NewPrinter()
	}
	return s.printer
}

// Exec executes this [CommandSet].
// It's expected that the first 1+ arguments include the key/alias for a sub-command.
func (s *CommandSet) Exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no arguments", ErrUnknownCommand)
	}
	key := strings.ToLower(args[0])
	cmd, ok := s.commands[key]
	if !ok {
		cmd, ok = s.aliases[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
		}
	}
	return cmd.Exec(ctx, args[1:])
}

// RespondUsage will print usage information with the [Printer] if args is empty, or one of [HelpPatterns] is given as the first argument.
// If usage information was printed, then true will be returned.
func (s *CommandSet) RespondUsage(args []string, format string, vals ...any) bool {
	if len(args) > 0 && !slices.Contains(HelpPatterns, args[0]) {
		return false
	}
	text := fmt.Sprintf(format, vals...)
	if len(text) > 0 {
		text = strings.TrimSuffix("\n\n"+text, "\n")
	}
	s.Printer().Printf("%s%s\n\nCOMMANDS:\n%s", s.parent, text, s.CommandUsages())
	return true
}

// CommandUsages returns a string including the usage information for sub-commands in this [CommandSet].
//
// The sub-command keys will be sorted alphabetically before output.
func (s *CommandSet) CommandUsages() string {
	var (
		buf         strings.Builder
		keys        = make([]string, 0, len(s.commands))
		withAliases = make([]string, 0, len(s.commands))
		maxLen      int
	)
	for key := range s.commands {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		label := key
		if aliases := s.commands[key].aliases; len(aliases) > 0 {
			label = strings.Join(append([]string{key}, aliases...), ", ")
		}
		withAliases = append(withAliases, label)
		maxLen = max(maxLen, len(label))
	}
	fmtStr := fmt.Sprintf("  %%-%ds\t%%s\n", maxLen)
	for i, key := range keys {
		buf.WriteString(fmt.Sprintf(fmtStr, withAliases[i], s.commands[key].shortUsage))
	}
	return buf.String()
}
