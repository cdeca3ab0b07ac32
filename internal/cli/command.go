package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command is one bytemut subcommand (mutate, gen, corpus, strategies,
// print-config). Help text for "bytemut <cmd> --help" and the top-level
// listing is built from its fields.
type Command struct {
	// Flags are the subcommand's own flags. Global flags (-C, -c, -v) are
	// parsed before the subcommand is looked up.
	Flags *flag.FlagSet

	// Usage follows "bytemut" in help; its first word is the command name,
	// e.g. "mutate [flags]" or "corpus <add|import|ls|rm> [args]".
	Usage string

	// Short is the line shown in the command listing.
	Short string

	// Long is shown by --help; Short is used when empty.
	Long string

	// Exec receives the remaining positional args, e.g. the files for
	// "corpus add". ctx is cancelled on SIGINT/SIGTERM.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name is the first word of Usage.
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

// HelpLine formats the command for the top-level listing.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-28s %s", c.Usage, c.Short)
}

// PrintHelp prints usage, description and flag defaults to stdout.
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: bytemut", c.Usage)
	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Println(desc)

	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")

		var buf strings.Builder
		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		o.Printf("%s", buf.String())
	}
}

// Run parses flags, executes the command and returns the exit code. Flag
// and exec errors print as "error: ..." on stderr and exit 1; otherwise the
// code comes from [IO.Finish].
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(&strings.Builder{})

	err := c.Flags.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)
			return 0
		}

		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.PrintHelp(o)

		return 1
	}

	if err := c.Exec(ctx, o, c.Flags.Args()); err != nil {
		o.ErrPrintln("error:", err)
		return 1
	}

	return o.Finish()
}
