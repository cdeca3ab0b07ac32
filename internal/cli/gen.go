package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/calvinalkan/bytemut/internal/campaign"
	"github.com/calvinalkan/bytemut/pkg/bytemut"
)

// GenCmd returns the gen command.
func GenCmd(e *env) *Command {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.IntP("count", "n", 0, "Number of mutants (default from config)")
	fs.IntP("workers", "w", 0, "Parallel engines (default from config, 0 = all CPUs)")
	fs.StringP("out", "o", "", "Output `dir` (default from config)")
	fs.StringP("input", "i", "", "Mutate this `file` instead of resampling")
	fs.StringSliceP("strategy", "s", nil, "Restrict to these strategies (repeatable)")
	fs.Bool("no-progress", false, "Disable the progress bar")
	addResourceFlags(fs)

	return &Command{
		Flags: fs,
		Usage: "gen [flags]",
		Short: "Write a batch of mutants to a directory",
		Long: `Write a batch of mutants to a directory using parallel engines.

Files are named <index>-<strategy>.bin. Worker w is seeded with seed+w, so a
run is reproducible from the printed seed and worker count.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execGen(ctx, o, e, fs)
		},
	}
}

func execGen(ctx context.Context, o *IO, e *env, fs *flag.FlagSet) error {
	cfg := *e.cfg

	if fs.Changed("count") {
		cfg.Count, _ = fs.GetInt("count")
	}

	if fs.Changed("workers") {
		cfg.Workers, _ = fs.GetInt("workers")
	}

	if fs.Changed("out") {
		cfg.OutDir, _ = fs.GetString("out")
	}

	if fs.Changed("strategy") {
		cfg.Strategies, _ = fs.GetStringSlice("strategy")
	}

	err := cfg.Resolve()
	if err != nil {
		return err
	}

	allow, err := cfg.ParsedStrategies()
	if err != nil {
		return err
	}

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

	var progress io.Writer

	noProgress, _ := fs.GetBool("no-progress")
	if !noProgress && isTerminal(e.errOut) {
		progress = e.errOut
	}

	start := time.Now()

	result, runErr := campaign.Run(ctx, campaign.Options{
		OutDir:     cfg.OutDirAbs,
		Count:      cfg.Count,
		Workers:    cfg.Workers,
		Seed:       res.seed,
		Input:      input,
		Corpus:     res.corpus,
		Dictionary: res.dict,
		Strategies: allow,
		Logger:     e.logger,
		Progress:   progress,
	})

	if runErr != nil && result.Written == 0 {
		return runErr
	}

	if runErr != nil {
		o.Warn("run stopped early: "+runErr.Error(), "rerun with the same --seed and --workers to regenerate")
	}

	o.Printf("wrote %s mutants (%s) to %s in %s\n",
		humanize.Comma(int64(result.Written)),
		humanize.Bytes(result.Stats.Bytes),
		cfg.OutDirAbs,
		time.Since(start).Round(time.Millisecond))
	o.Printf("seed=%d workers=%d\n", result.Seed, result.Workers)

	for _, s := range bytemut.AllStrategies() {
		n := result.Stats.Count(s)
		if n == 0 {
			continue
		}

		o.Printf("  %-18s %s\n", s, humanize.Comma(int64(n)))
	}

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
