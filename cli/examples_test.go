package cli

import (
	"context"
	"fmt"
	flag "github.com/spf13/pflag"
	"os"
)

func ExampleNewCommandSet() {
	// The NewCommandSet function is called to get a top level command set.
	// The string used should be the name used to invoke your CLI.
	tlc := NewCommandSet("my-cli")
	// Done for testing purposes, output goes to STDERR by default.
	tlc.Printer().Redirect(os.Stdout)

	// Sub-commands can be added easily.
	sub := tlc.AddCommand("sub-command", "Shows an example of a sub-command")

	// The flags for a Command can be accessed to set up whatever flags are needed.
	sub.Flags().Bool("do-something", false, "Makes the sub-command do something")

	// Parent command references will automatically be prepended to this string.
	// In this case the actual usage string will be 'my-cli sub-command [FLAGS]'.
	sub.Usage("sub-command [FLAGS]")

	// Functionality is defined with the Does method.
	sub.Does(func(_ context.Context, flags *flag.FlagSet, out *Printer) error {
		// Flags are already parsed by the time this function is executed.
		if MustGet(flags.GetBool("do-something")) {
			out.Println("sub-command ran")
		}
		return nil
	})

	// Sub-commands will be matched case-insensitive.
	ctx := context.Background()
	if err := tlc.Exec(ctx, []string{"suB-ComMAnd", "--do-something"}); err != nil {
		fmt.Println("Something bad happened!")
	}
	fmt.Println()

	// Help flags are automatically set up for each command.
	_ = tlc.Exec(ctx, []string{"sub-command", "-h"})

	// Output:
	// sub-command ran
	//
	// Shows an example of a sub-command
	//
	// USAGE:
	// my-cli sub-command [FLAGS]
	//
	// FLAGS
	//       --do-something   Makes the sub-command do something
	//   -h, --help           Prints this usage information
}
