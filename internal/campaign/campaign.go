// Package campaign writes batches of mutants to disk using parallel engines.
package campaign

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/natefinch/atomic"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/calvinalkan/bytemut/pkg/bytemut"
)

var ErrCountInvalid = errors.New("campaign: count must be positive")

// Options configures [Run].
type Options struct {
	OutDir  string
	Count   int
	Workers int // <= 0 means GOMAXPROCS

	// Seed is the base seed. Worker w uses Seed+w. Zero picks a random base,
	// reported in [Result.Seed].
	Seed uint64

	// Input, when set, is the base of every mutant instead of a resample.
	Input []byte

	Corpus     *bytemut.Corpus
	Dictionary *bytemut.Dictionary
	Strategies []bytemut.Strategy

	Logger *slog.Logger

	// Progress receives a progress bar. Nil disables it.
	Progress io.Writer
}

// Result summarizes a finished or cancelled run.
type Result struct {
	Seed    uint64 // effective base seed
	Workers int
	Written int
	Stats   bytemut.Stats
}

// Run generates opts.Count mutants into opts.OutDir as
// "<index>-<strategy>.bin". Mutant i is produced by worker i % Workers, so
// a run is reproducible from its base seed and worker count.
//
// On cancellation Run stops between mutants and returns the partial result
// with ctx's error.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Count <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrCountInvalid, opts.Count)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	workers = min(workers, opts.Count)

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	base := opts.Seed
	if base == 0 {
		base = bytemut.NewRand(0).Seed()
	}

	err := os.MkdirAll(opts.OutDir, 0o750)
	if err != nil {
		return Result{}, fmt.Errorf("create out dir: %w", err)
	}

	engines := make([]*bytemut.Engine, workers)
	for w := range workers {
		engines[w], err = bytemut.New(bytemut.Options{
			Input:      opts.Input,
			Seed:       workerSeed(base, w),
			Corpus:     opts.Corpus,
			Dictionary: opts.Dictionary,
			Strategies: opts.Strategies,
			Logger:     logger.With(slog.Int("worker", w)),
		})
		if err != nil {
			return Result{}, fmt.Errorf("worker %d: %w", w, err)
		}
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(opts.Count,
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("mutating"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	logger.Info("campaign start",
		slog.Uint64("seed", base),
		slog.Int("workers", workers),
		slog.Int("count", opts.Count),
		slog.String("out", opts.OutDir))

	written := make([]int, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			eng := engines[w]

			for i := w; i < opts.Count; i += workers {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				var mutant []byte
				if opts.Input != nil {
					mutant = eng.MutateInput(opts.Input)
				} else {
					mutant = eng.Mutate()
				}

				path := filepath.Join(opts.OutDir, FileName(i, eng.Strategy()))

				err := atomic.WriteFile(path, bytes.NewReader(mutant))
				if err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}

				written[w]++

				if bar != nil {
					_ = bar.Add(1)
				}
			}

			return nil
		})
	}

	runErr := g.Wait()

	if bar != nil {
		_ = bar.Finish()
	}

	res := Result{Seed: base, Workers: workers}
	for w, eng := range engines {
		res.Written += written[w]
		res.Stats = res.Stats.Merge(eng.Stats())
	}

	logger.Info("campaign done", slog.Int("written", res.Written), slog.Uint64("bytes", res.Stats.Bytes))

	return res, runErr
}

// FileName returns the output name for mutant index produced by s.
func FileName(index int, s bytemut.Strategy) string {
	return fmt.Sprintf("%06d-%s.bin", index, s)
}

// workerSeed skips zero, which would mean "unseeded".
func workerSeed(base uint64, w int) uint64 {
	s := base + uint64(w)
	if s < base {
		s++
	}

	return s
}
