/*
Package cli provides an opinionated package for how a CLI with sub-commands can be structured.

There are a few policies for how this operates.

  - User-visible output should go to STDERR by default. This is supported with a configurable [Printer].
  - This package uses [pflag] for posix style flags.
  - Flags should NOT be interspersed by default. This makes flag and argument parsing much more consistent and predictable.
  - Global flags are often confusing and not necessary. Flags apply to the command at hand, while shared validation may be done with [CommandSet.AddPreExec].
  - Sub-command aliases are supported as additional, optional parameters to [CommandSet.AddCommand].

# Invocation

Invoking a CLI with sub-commands can always follow this form:

	CLI_NAME [SUB-COMMAND...] [FLAGS...] [ARGS...]

Just calling CLI_NAME will print usage information for the tool, see [CommandSet.RespondUsage].

# Usage by default

The '-h' and '--help' flags are set up by default, with input from the developer with the [Command.Usage] method.
Flag usage and sub-command usage is included in a usage template along with developer-provided usage information.

Commands don't respond with usage when an error is returned, unless that error is a [UsageError].

# Cancellation

A [context.Context] is passed to [CommandSet.Exec] and on to each [CommandFunc].
Commands that run for a while should return when it's cancelled.

[pflag]: https://github.com/spf13/pflag
*/
package cli
