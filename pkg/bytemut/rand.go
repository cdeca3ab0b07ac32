package bytemut

import (
	"encoding/binary"
	"math"
)

// defaultSeed is mixed with the monotonic counter when no seed is given.
const defaultSeed uint64 = 0x5fd89eda3130256d

// drawer is the single entropy source every strategy consumes.
//
// *Rand implements it. Tests substitute scripted sources to force specific
// offsets and values.
type drawer interface {
	Next() uint64
}

// Rand is a xorshift64 generator.
//
// It is fast and reproducible. It is not cryptographically secure.
type Rand struct {
	state uint64
}

// NewRand returns a generator seeded with seed.
//
// A zero seed means "no seed": the state is derived from a monotonic clock
// read, so two calls almost certainly diverge.
func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = defaultSeed ^ monotonicCounter()
		if seed == 0 {
			// xorshift never leaves the zero state.
			seed = defaultSeed
		}
	}

	return &Rand{state: seed}
}

// Seed returns the current state. Before the first draw it is the seed.
func (r *Rand) Seed() uint64 {
	return r.state
}

// Next returns the current state, then advances it.
func (r *Rand) Next() uint64 {
	v := r.state

	s := r.state
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 43
	r.state = s

	return v
}

// Range returns a value in [lo, hi], both ends inclusive.
//
// Panics if hi < lo.
func (r *Rand) Range(lo, hi uint64) uint64 {
	return rangeOf(r, lo, hi)
}

// Byte returns Next() % 255.
//
// The result is never 255 and 0 is twice as likely as any other value.
func (r *Rand) Byte() byte {
	return byteOf(r)
}

// Bool returns a uniformly chosen boolean.
func (r *Rand) Bool() bool {
	return boolOf(r)
}

// Fill appends 8-byte words of Next() in native byte order until
// len(buf) >= n. The result may overshoot n by up to 7 bytes.
func (r *Rand) Fill(buf []byte, n int) []byte {
	return fillOf(r, buf, n)
}

func rangeOf(d drawer, lo, hi uint64) uint64 {
	if hi < lo {
		panic("bytemut: Range bounds check failed")
	}

	if lo == hi {
		return lo
	}

	if lo == 0 && hi == math.MaxUint64 {
		return d.Next()
	}

	return lo + d.Next()%(hi-lo+1)
}

// rangeInt is rangeOf for non-negative int bounds.
func rangeInt(d drawer, lo, hi int) int {
	if hi < lo {
		panic("bytemut: Range bounds check failed")
	}

	return int(rangeOf(d, uint64(lo), uint64(hi)))
}

func byteOf(d drawer) byte {
	return byte(d.Next() % 255)
}

func boolOf(d drawer) bool {
	return choose(d, []bool{true, false})
}

// choose returns items[Next() % len(items)]. items must not be empty.
func choose[T any](d drawer, items []T) T {
	return items[d.Next()%uint64(len(items))]
}

func fillOf(d drawer, buf []byte, n int) []byte {
	for len(buf) < n {
		buf = binary.NativeEndian.AppendUint64(buf, d.Next())
	}

	return buf
}
