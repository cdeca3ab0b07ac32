package cli

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/bytemut/pkg/bytemut"
)

// MutateCmd returns the mutate command.
func MutateCmd(e *env) *Command {
	fs := flag.NewFlagSet("mutate", flag.ContinueOnError)
	fs.StringP("input", "i", "", "Seed input `file` (\"-\" reads stdin; default: random bytes)")
	fs.StringP("strategy", "s", "", "Force one strategy instead of a random pick")
	fs.Bool("hex", false, "Print a hex dump instead of raw bytes")
	fs.StringP("output", "o", "", "Write the mutant to `file` instead of stdout")
	addResourceFlags(fs)

	return &Command{
		Flags: fs,
		Usage: "mutate [flags]",
		Short: "Produce one mutant",
		Long: `Produce one mutant of the input and write it to stdout.

Without --input the base is random bytes, or a corpus entry with --corpus.
The chosen strategy and effective seed are printed to stderr so the mutant
can be reproduced with --seed.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execMutate(o, e, fs)
		},
	}
}

func execMutate(o *IO, e *env, fs *flag.FlagSet) error {
	res, err := loadResources(e, fs)
	if err != nil {
		return err
	}

	var input []byte

	inputPath, _ := fs.GetString("input")
	if inputPath != "" {
		input, err = readInput(e, inputPath)
		if err != nil {
			return err
		}
	}

	allow, err := e.cfg.ParsedStrategies()
	if err != nil {
		return err
	}

	forcedName, _ := fs.GetString("strategy")

	var forced *bytemut.Strategy

	if forcedName != "" {
		s, err := bytemut.ParseStrategy(forcedName)
		if err != nil {
			return err
		}

		forced = &s
		// The engine validates the resource for the forced strategy.
		allow = []bytemut.Strategy{s}
	}

	eng, err := bytemut.New(bytemut.Options{
		Seed:       res.seed,
		Corpus:     res.corpus,
		Dictionary: res.dict,
		Strategies: allow,
		Logger:     e.logger,
	})
	if err != nil {
		return err
	}

	var mutant []byte

	switch {
	case forced != nil && input != nil:
		mutant = eng.ApplyInput(*forced, input)
	case forced != nil:
		mutant = eng.Apply(*forced)
	case input != nil:
		mutant = eng.MutateInput(input)
	default:
		mutant = eng.Mutate()
	}

	o.ErrPrintf("strategy=%s seed=%d len=%d\n", eng.Strategy(), eng.Seed(), len(mutant))

	asHex, _ := fs.GetBool("hex")

	outPath, _ := fs.GetString("output")
	if outPath != "" {
		outPath = e.cfg.Abs(outPath)

		err := os.MkdirAll(filepath.Dir(outPath), 0o750)
		if err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		err = atomic.WriteFile(outPath, bytes.NewReader(mutant))
		if err != nil {
			return fmt.Errorf("write mutant: %w", err)
		}

		o.Println("wrote", outPath)

		return nil
	}

	if asHex {
		o.Printf("%s", hex.Dump(mutant))

		return nil
	}

	_, err = o.Write(mutant)

	return err
}

func readInput(e *env, path string) ([]byte, error) {
	if path == "-" {
		if e.stdin == nil {
			return []byte{}, nil
		}

		return io.ReadAll(e.stdin)
	}

	data, err := os.ReadFile(e.cfg.Abs(path))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return data, nil
}
