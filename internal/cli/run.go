// Package cli implements the bytemut command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/bytemut/internal/config"
)

// env carries everything a command needs besides its own flags.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	stdin  io.Reader
	errOut io.Writer
}

// Run is the main entry point. Returns exit code.
//
// A signal on sigCh cancels the command's context; long running commands
// stop at the next mutant. sigCh may be nil.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, environ map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("bytemut", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use specified config `file`")
	verbose := globals.BoolP("verbose", "v", false, "Log debug output to stderr")
	help := globals.BoolP("help", "h", false, "Show help")

	if len(args) > 0 {
		args = args[1:]
	}

	err := globals.Parse(args)
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, nil)

		return 1
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: *workDir,
		ConfigPath:      *configPath,
		Env:             environ,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}

	e := &env{
		cfg:    &cfg,
		logger: slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level})),
		stdin:  in,
		errOut: errOut,
	}

	commands := []*Command{
		MutateCmd(e),
		GenCmd(e),
		CorpusCmd(e),
		StrategiesCmd(),
		PrintConfigCmd(e.cfg),
	}

	rest := globals.Args()
	if *help || len(rest) == 0 {
		printUsage(out, commands)

		return 0
	}

	name := rest[0]

	var cmd *Command

	for _, c := range commands {
		if c.Name() == name {
			cmd = c
		}
	}

	if cmd == nil {
		fprintln(errOut, "error: unknown command:", name)
		printUsage(errOut, commands)

		return 1
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	if sigCh != nil {
		go func() {
			select {
			case sig := <-sigCh:
				cancel(fmt.Errorf("%w: %s", errInterrupted, sig))
			case <-ctx.Done():
			}
		}()
	}

	return cmd.Run(ctx, NewIO(out, errOut), rest[1:])
}

var errInterrupted = errors.New("interrupted")

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, commands []*Command) {
	fprintln(w, `bytemut - byte-level mutation engine for fuzzing

Usage: bytemut [options] <command> [args]

Options:
  -C, --cwd <dir>      Run as if started in <dir>
  -c, --config <file>  Use specified config file
  -v, --verbose        Log debug output to stderr

Commands:`)

	for _, c := range commands {
		fprintln(w, c.HelpLine())
	}
}
