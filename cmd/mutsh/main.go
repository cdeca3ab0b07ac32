// mutsh is an interactive shell for stepping a mutation engine by hand.
//
// Usage:
//
//	mutsh [flags]
//
// Flags:
//
//	-i, --input       Start from this file instead of random bytes
//	    --seed        PRNG seed (default: random)
//	-d, --dict        Token dictionary file
//	    --corpus-db   Corpus db to resample and splice from
//
// Commands (in REPL):
//
//	next [n]              Apply n mutations (default 1)
//	force <strategy|off>  Pin every following mutation to one strategy
//	show                  Print the buffer as a quoted string
//	hex                   Hex dump of the buffer
//	strategies            List active strategies
//	stats                 Per-strategy counts so far
//	save <path>           Write the buffer to a file
//	help                  Show this help
//	exit / quit / q       Exit
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/bytemut/internal/corpusdb"
	"github.com/calvinalkan/bytemut/internal/dictfile"
	"github.com/calvinalkan/bytemut/pkg/bytemut"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("mutsh", flag.ContinueOnError)
	input := fs.StringP("input", "i", "", "start from this `file`")
	seed := fs.Uint64("seed", 0, "PRNG seed (0 = random)")
	dictPath := fs.StringP("dict", "d", "", "token dictionary `file`")
	corpusPath := fs.String("corpus-db", "", "corpus db `path`")

	err := fs.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}

		return err
	}

	opts := bytemut.Options{Seed: *seed}

	if *input != "" {
		opts.Input, err = os.ReadFile(*input)
		if err != nil {
			return err
		}
	}

	if *dictPath != "" {
		opts.Dictionary, err = dictfile.Load(*dictPath)
		if err != nil {
			return err
		}
	}

	if *corpusPath != "" {
		store, err := corpusdb.Open(*corpusPath)
		if err != nil {
			return err
		}

		opts.Corpus, err = store.Corpus()
		_ = store.Close()

		if err != nil {
			return err
		}
	}

	engine, err := bytemut.New(opts)
	if err != nil {
		return err
	}

	repl := &REPL{sess: newSession(engine, os.Stdout)}

	return repl.Run()
}

// REPL is the interactive command loop.
type REPL struct {
	sess  *session
	liner *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".mutsh_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.sess.complete)

	if f, err := os.Open(historyFile()); err == nil {
		_, _ = r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("mutsh - bytemut shell (seed=%d, len=%d, active=%d)\n",
		r.sess.engine.Seed(), len(r.sess.engine.Bytes()), len(r.sess.engine.Active()))
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	defer r.saveHistory()

	for {
		line, err := r.liner.Prompt("mutsh> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println("\nBye!")

				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		quit, err := r.sess.exec(line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
		}

		if quit {
			fmt.Println("Bye!")

			return nil
		}
	}
}

func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			_, _ = r.liner.WriteHistory(f)
			f.Close()
		}
	}
}
