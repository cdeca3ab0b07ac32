package bytemut

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// Options configures [New].
type Options struct {
	// Input is the initial buffer. It is copied. When nil the engine starts
	// from DefaultBufferSize random bytes.
	Input []byte

	// Seed for the generator. Zero draws from a monotonic counter.
	Seed uint64

	// Dictionary enables [InsertFromDict].
	Dictionary *Dictionary

	// Corpus enables [Splice] and makes every call resample from it.
	Corpus *Corpus

	// Strategies narrows the active list. Order is irrelevant; the active
	// list keeps tag order. Empty means all available strategies.
	Strategies []Strategy

	// Logger receives a debug record per mutation. Nil discards.
	Logger *slog.Logger
}

// Engine produces mutants. It is not safe for concurrent use.
type Engine struct {
	rand   *Rand
	seed   uint64
	buf    *Buffer
	corpus *Corpus
	dict   *Dictionary
	active []Strategy
	last   Strategy
	stats  Stats
	logger *slog.Logger
}

// New builds an engine.
//
// The active list is the fourteen resource-free strategies, then
// InsertFromDict if a dictionary is supplied, then Splice if a corpus is
// supplied, filtered by opts.Strategies.
//
// Returns [ErrUnknownStrategy] for an invalid tag in opts.Strategies,
// [ErrStrategyUnavailable] when it names Splice or InsertFromDict without
// the matching resource, and [ErrNoStrategies] if nothing is left.
func New(opts Options) (*Engine, error) {
	active := slices.Clone(baseStrategies)
	if opts.Dictionary != nil {
		active = append(active, InsertFromDict)
	}

	if opts.Corpus != nil {
		active = append(active, Splice)
	}

	if len(opts.Strategies) > 0 {
		for _, s := range opts.Strategies {
			if !s.Valid() {
				return nil, fmt.Errorf("allow-list: %w: %d", ErrUnknownStrategy, uint8(s))
			}

			if !slices.Contains(active, s) {
				return nil, fmt.Errorf("allow-list: %s: %w", s, ErrStrategyUnavailable)
			}
		}

		active = slices.DeleteFunc(active, func(s Strategy) bool {
			return !slices.Contains(opts.Strategies, s)
		})
	}

	if len(active) == 0 {
		return nil, ErrNoStrategies
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := NewRand(opts.Seed)

	e := &Engine{
		rand:   r,
		seed:   r.Seed(),
		corpus: opts.Corpus,
		dict:   opts.Dictionary,
		active: active,
		last:   BitFlip,
		logger: logger,
	}

	if opts.Input != nil {
		e.buf = BufferFrom(opts.Input)
	} else {
		e.buf = NewBuffer(DefaultBufferSize)
		e.buf.refill(r, DefaultBufferSize)
	}

	return e, nil
}

// Mutate selects a strategy, resamples the buffer and applies the strategy.
//
// The returned slice aliases the engine's buffer.
func (e *Engine) Mutate() []byte {
	s := e.selectStrategy()
	e.resample()

	return e.apply(s)
}

// MutateInput is Mutate with a copy of input as the base instead of a
// resample.
func (e *Engine) MutateInput(input []byte) []byte {
	s := e.selectStrategy()
	e.buf.reset(input)

	return e.apply(s)
}

// Apply resamples the buffer and applies s without drawing a selection.
//
// Panics if s is invalid or needs a resource the engine was built without.
func (e *Engine) Apply(s Strategy) []byte {
	e.checkForced(s)
	e.resample()

	return e.apply(s)
}

// ApplyInput applies s to a copy of input.
//
// Panics under the same conditions as Apply.
func (e *Engine) ApplyInput(s Strategy, input []byte) []byte {
	e.checkForced(s)
	e.buf.reset(input)

	return e.apply(s)
}

// Strategy returns the strategy used by the last call. Before the first
// call it is [BitFlip].
func (e *Engine) Strategy() Strategy {
	return e.last
}

// Bytes returns the current buffer: the initial input before the first
// call, the last mutant afterwards.
func (e *Engine) Bytes() []byte {
	return e.buf.Bytes()
}

// Active returns a copy of the active strategy list.
func (e *Engine) Active() []Strategy {
	return slices.Clone(e.active)
}

// Seed returns the effective seed. Passing it back as Options.Seed with the
// same resources reproduces the run.
func (e *Engine) Seed() uint64 {
	return e.seed
}

// Stats returns a copy of the per-strategy counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// selectStrategy draws Range(0, len(active)-1), inclusive of both ends.
func (e *Engine) selectStrategy() Strategy {
	idx := rangeInt(e.rand, 0, len(e.active)-1)

	return e.active[idx]
}

func (e *Engine) resample() {
	if e.corpus != nil {
		e.buf.reset(e.corpus.pick(e.rand))

		return
	}

	e.buf.refill(e.rand, DefaultBufferSize)
}

func (e *Engine) checkForced(s Strategy) {
	switch {
	case !s.Valid():
		panic(fmt.Sprintf("bytemut: apply %s", s))
	case s == Splice && e.corpus == nil:
		panic("bytemut: splice without corpus")
	case s == InsertFromDict && e.dict == nil:
		panic("bytemut: insert-from-dict without dictionary")
	}
}

func (e *Engine) apply(s Strategy) []byte {
	e.logger.Log(context.Background(), slog.LevelDebug, "mutate",
		slog.String("strategy", s.String()),
		slog.Int("len", e.buf.Len()))

	m := mutation{src: e.rand, buf: e.buf, corpus: e.corpus, dict: e.dict}
	strategyTable[s](&m)

	e.last = s
	e.stats.record(s, e.buf.Len())

	return e.buf.Bytes()
}
