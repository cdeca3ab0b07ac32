// Package bytemut provides a byte-level mutation engine for fuzz testing.
//
// An [Engine] turns a seed input into a stream of randomized variants. Every
// call to [Engine.Mutate] picks one of sixteen [Strategy] values, resamples
// the working buffer and applies the strategy to it.
//
// # Basic Usage
//
//	eng, err := bytemut.New(bytemut.Options{
//	    Input: []byte("GET / HTTP/1.1\r\n"),
//	    Seed:  1234,
//	})
//	if err != nil {
//	    // ErrNoStrategies, ErrStrategyUnavailable, ...
//	}
//
//	for range 1000 {
//	    mutant := eng.Mutate()
//	    target(mutant)
//	    log.Println(eng.Strategy())
//	}
//
// # Determinism
//
// Two engines built with the same non-zero Seed and the same resources
// produce the same mutants in the same order. A zero Seed draws entropy from
// a monotonic counter; [Engine.Seed] reports the effective seed so a run can
// be reproduced.
//
// # Concurrency
//
// An [Engine] is not safe for concurrent use. [Corpus] and [Dictionary] are
// immutable and may be shared by any number of engines across goroutines:
//   - one engine per worker
//   - one *Corpus / *Dictionary for all of them
//
// # Buffer Lifetime
//
// The slice returned by Mutate aliases the engine's buffer. It stays valid
// until the next Mutate, Apply, MutateInput or ApplyInput call.
package bytemut
