package bytemut

import "errors"

// Sentinel errors returned by constructors.
//
// Callers should use [errors.Is] to check error types:
//
//	if errors.Is(err, bytemut.ErrEmptyCorpus) {
//	    // run without splicing
//	}
var (
	// ErrEmptyCorpus indicates [NewCorpus] was given no entries.
	ErrEmptyCorpus = errors.New("bytemut: empty corpus")

	// ErrEmptyDictionary indicates [NewDictionary] was given no tokens.
	ErrEmptyDictionary = errors.New("bytemut: empty dictionary")

	// ErrEmptyToken indicates a dictionary token of length zero.
	ErrEmptyToken = errors.New("bytemut: empty dictionary token")

	// ErrUnknownStrategy indicates a strategy name or tag outside the
	// closed set.
	ErrUnknownStrategy = errors.New("bytemut: unknown strategy")

	// ErrStrategyUnavailable indicates [Options.Strategies] names a strategy
	// whose resource (corpus or dictionary) was not supplied.
	ErrStrategyUnavailable = errors.New("bytemut: strategy unavailable")

	// ErrNoStrategies indicates the active strategy list ended up empty.
	ErrNoStrategies = errors.New("bytemut: no strategies enabled")
)
