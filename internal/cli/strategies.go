package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/bytemut/pkg/bytemut"
)

// StrategiesCmd returns the strategies command.
func StrategiesCmd() *Command {
	return &Command{
		Flags: flag.NewFlagSet("strategies", flag.ContinueOnError),
		Usage: "strategies",
		Short: "List mutation strategies",
		Long:  "List every mutation strategy with its effect on buffer length.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			for _, s := range bytemut.AllStrategies() {
				io.Printf("%-18s %s\n", s, s.SizeEffect())
			}

			return nil
		},
	}
}
