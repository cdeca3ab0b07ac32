package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/bytemut/internal/corpusdb"
)

var (
	errSubcommandRequired = errors.New("subcommand required: add, import, ls or rm")
	errArgsRequired       = errors.New("missing arguments")
)

// CorpusCmd returns the corpus command.
func CorpusCmd(e *env) *Command {
	fs := flag.NewFlagSet("corpus", flag.ContinueOnError)
	fs.String("corpus-db", "", "Corpus db `path` (default from config)")

	return &Command{
		Flags: fs,
		Usage: "corpus <add|import|ls|rm> [args]",
		Short: "Manage the persistent corpus",
		Long: `Manage the persistent corpus used by --corpus.

  corpus add <file>...   Store files as corpus entries
  corpus import <dir>    Store every regular file in dir
  corpus ls              List entries
  corpus rm <id>...      Remove entries`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execCorpus(o, e, fs, args)
		},
	}
}

func execCorpus(o *IO, e *env, fs *flag.FlagSet, args []string) error {
	if len(args) == 0 {
		return errSubcommandRequired
	}

	dbPath := e.cfg.CorpusDBAbs
	if fs.Changed("corpus-db") {
		dbPath, _ = fs.GetString("corpus-db")
		dbPath = e.cfg.Abs(dbPath)
	}

	sub, rest := args[0], args[1:]

	switch sub {
	case "add", "import", "rm":
		if len(rest) == 0 {
			return fmt.Errorf("corpus %s: %w", sub, errArgsRequired)
		}
	case "ls":
	default:
		return fmt.Errorf("unknown corpus subcommand %q: %w", sub, errSubcommandRequired)
	}

	store, err := corpusdb.Open(dbPath)
	if err != nil {
		return err
	}

	err = runCorpus(o, e, store, sub, rest)

	return errors.Join(err, store.Close())
}

func runCorpus(o *IO, e *env, store *corpusdb.Store, sub string, args []string) error {
	switch sub {
	case "add":
		for _, path := range args {
			data, err := os.ReadFile(e.cfg.Abs(path))
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			meta, err := store.Add(data, path)
			if err != nil {
				return err
			}

			o.Println(meta.ID, humanize.Bytes(uint64(meta.Size)), path)
		}

	case "import":
		added, err := store.Import(e.cfg.Abs(args[0]))
		if err != nil {
			return err
		}

		if len(added) == 0 {
			o.Warn("no regular files in "+args[0], "point import at a directory of seed inputs")
		}

		o.Printf("imported %d entries\n", len(added))

	case "ls":
		list, err := store.List()
		if err != nil {
			return err
		}

		for _, meta := range list {
			o.Printf("%s  %8s  %s  %s\n",
				meta.ID,
				humanize.Bytes(uint64(meta.Size)),
				humanize.Time(meta.Added),
				meta.Source)
		}

	case "rm":
		for _, id := range args {
			err := store.Remove(id)
			if err != nil {
				return err
			}

			o.Println("removed", id)
		}
	}

	return nil
}
