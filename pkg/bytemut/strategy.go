package bytemut

import (
	"fmt"
	"strings"
)

// Strategy identifies one mutation transform.
type Strategy uint8

// The sixteen strategies. The first fourteen are always available; Splice
// needs a [Corpus] and InsertFromDict needs a [Dictionary].
const (
	BitFlip Strategy = iota
	ByteFlip
	NegateByte
	SwapNeighbors
	SwapEndianness
	Arithmetic
	DeleteBytes
	DeleteRange
	CopyBytes
	CopyRange
	InsertConstants
	Truncate
	Append
	Set
	Splice
	InsertFromDict

	numStrategies
)

// SizeEffect describes how a strategy can change the buffer length.
type SizeEffect uint8

const (
	SizePreserving SizeEffect = iota
	SizeShrinking
	SizeGrowing
	SizeArbitrary
)

func (e SizeEffect) String() string {
	switch e {
	case SizePreserving:
		return "preserving"
	case SizeShrinking:
		return "shrinking"
	case SizeGrowing:
		return "growing"
	case SizeArbitrary:
		return "arbitrary"
	default:
		return fmt.Sprintf("SizeEffect(%d)", uint8(e))
	}
}

var strategyNames = [numStrategies]string{
	BitFlip:         "bit-flip",
	ByteFlip:        "byte-flip",
	NegateByte:      "negate-byte",
	SwapNeighbors:   "swap-neighbors",
	SwapEndianness:  "swap-endianness",
	Arithmetic:      "arithmetic",
	DeleteBytes:     "delete-bytes",
	DeleteRange:     "delete-range",
	CopyBytes:       "copy-bytes",
	CopyRange:       "copy-range",
	InsertConstants: "insert-constants",
	Truncate:        "truncate",
	Append:          "append",
	Set:             "set",
	Splice:          "splice",
	InsertFromDict:  "insert-from-dict",
}

var sizeEffects = [numStrategies]SizeEffect{
	DeleteBytes: SizeShrinking,
	DeleteRange: SizeShrinking,
	Truncate:    SizeShrinking,
	Append:      SizeGrowing,
	Splice:      SizeArbitrary,
}

// String returns the kebab-case name, e.g. "swap-endianness".
func (s Strategy) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}

	return strategyNames[s]
}

// Valid reports whether s is one of the sixteen strategies.
func (s Strategy) Valid() bool {
	return s < numStrategies
}

// SizeEffect reports how s can change the buffer length.
func (s Strategy) SizeEffect() SizeEffect {
	if !s.Valid() {
		return SizeArbitrary
	}

	return sizeEffects[s]
}

// ParseStrategy resolves a strategy name.
//
// Matching ignores case and treats '_', ' ' and '-' alike, and accepts the
// name with separators dropped ("BitFlip", "bit_flip" and "bit-flip" all
// resolve to [BitFlip]).
func ParseStrategy(name string) (Strategy, error) {
	want := normalizeName(name)

	for s := range numStrategies {
		if normalizeName(strategyNames[s]) == want {
			return s, nil
		}
	}

	return 0, fmt.Errorf("%q: %w", name, ErrUnknownStrategy)
}

// AllStrategies returns all sixteen strategies in tag order.
func AllStrategies() []Strategy {
	out := make([]Strategy, 0, numStrategies)
	for s := range numStrategies {
		out = append(out, s)
	}

	return out
}

func normalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}

		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}

		return r
	}, strings.TrimSpace(name))
}

// baseStrategies is the resource-free prefix of every active list.
var baseStrategies = []Strategy{
	BitFlip, ByteFlip, NegateByte, SwapNeighbors, SwapEndianness, Arithmetic,
	DeleteBytes, DeleteRange, CopyBytes, CopyRange, InsertConstants,
	Truncate, Append, Set,
}
