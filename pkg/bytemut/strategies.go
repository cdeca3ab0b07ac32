package bytemut

import (
	"encoding/binary"
	"slices"
)

// mutation is the state one strategy works on.
type mutation struct {
	src    drawer
	buf    *Buffer
	corpus *Corpus
	dict   *Dictionary
}

type strategyFunc func(m *mutation)

// strategyTable is indexed by Strategy tag.
var strategyTable = [numStrategies]strategyFunc{
	BitFlip:         bitFlip,
	ByteFlip:        byteFlip,
	NegateByte:      negateByte,
	SwapNeighbors:   swapNeighbors,
	SwapEndianness:  swapEndianness,
	Arithmetic:      arithmetic,
	DeleteBytes:     deleteBytes,
	DeleteRange:     deleteRange,
	CopyBytes:       copyBytes,
	CopyRange:       copyRange,
	InsertConstants: insertConstants,
	Truncate:        truncate,
	Append:          appendRange,
	Set:             set,
	Splice:          splice,
	InsertFromDict:  insertFromDict,
}

// dictIterations and constIterations are the fixed write counts of the
// token and constant strategies.
const (
	dictIterations  = 10
	constIterations = 10
)

var (
	bitMasks = []byte{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80}
	widths   = []int{2, 4, 8}
)

// mutationSize returns floor(len * (r+1) / 100) + 1 for r in [0, 9]:
// roughly 1% to 10% of the buffer, never less than one.
func (m *mutation) mutationSize() int {
	r := rangeInt(m.src, 0, 9)

	return m.buf.Len()*(r+1)/100 + 1
}

// index returns a random index for a window of width bytes. The caller
// must have checked width <= Len().
func (m *mutation) index(width int) int {
	return rangeInt(m.src, 0, m.buf.Len()-width)
}

func bitFlip(m *mutation) {
	for range m.mutationSize() {
		if m.buf.Len() < 1 {
			return
		}

		i := m.index(1)
		m.buf.data[i] ^= choose(m.src, bitMasks)
	}
}

func byteFlip(m *mutation) {
	for range m.mutationSize() {
		if m.buf.Len() < 1 {
			return
		}

		i := m.index(1)
		m.buf.data[i] ^= byteOf(m.src)
	}
}

func negateByte(m *mutation) {
	for range m.mutationSize() {
		if m.buf.Len() < 1 {
			return
		}

		i := m.index(1)
		m.buf.data[i] = ^m.buf.data[i]
	}
}

func swapNeighbors(m *mutation) {
	for range m.mutationSize() {
		if m.buf.Len() < 2 {
			return
		}

		i := m.index(2)
		m.buf.data[i], m.buf.data[i+1] = m.buf.data[i+1], m.buf.data[i]
	}
}

func swapEndianness(m *mutation) {
	for range m.mutationSize() {
		w := choose(m.src, widths)
		if m.buf.Len() < w {
			continue
		}

		i := m.index(w)
		slices.Reverse(m.buf.data[i : i+w])
	}
}

// arithmetic adds or subtracts one from a big-endian integer window.
// Two's complement makes signed and unsigned wraparound identical, so the
// window is handled as unsigned.
func arithmetic(m *mutation) {
	for range m.mutationSize() {
		w := choose(m.src, widths)
		if m.buf.Len() < w {
			continue
		}

		i := m.index(w)
		window := m.buf.data[i : i+w]

		delta := uint64(1)
		if !boolOf(m.src) {
			delta = ^uint64(0)
		}

		switch w {
		case 2:
			binary.BigEndian.PutUint16(window, binary.BigEndian.Uint16(window)+uint16(delta))
		case 4:
			binary.BigEndian.PutUint32(window, binary.BigEndian.Uint32(window)+uint32(delta))
		case 8:
			binary.BigEndian.PutUint64(window, binary.BigEndian.Uint64(window)+delta)
		}
	}
}

// deleteBytes draws every index against the already shrunk length.
func deleteBytes(m *mutation) {
	for range m.mutationSize() {
		if m.buf.Len() < 1 {
			return
		}

		i := m.index(1)
		m.buf.data = slices.Delete(m.buf.data, i, i+1)
	}
}

func deleteRange(m *mutation) {
	n := m.mutationSize()
	if m.buf.Len() < n {
		return
	}

	i := m.index(n)
	m.buf.data = slices.Delete(m.buf.data, i, i+n)
}

func copyBytes(m *mutation) {
	for range m.mutationSize() {
		if m.buf.Len() < 1 {
			return
		}

		from := m.index(1)
		to := m.index(1)
		m.buf.data[to] = m.buf.data[from]
	}
}

// copyRange relies on copy having memmove semantics for overlapping windows.
func copyRange(m *mutation) {
	n := m.mutationSize()
	if m.buf.Len() < n {
		return
	}

	from := m.index(n)
	to := m.index(n)
	copy(m.buf.data[to:to+n], m.buf.data[from:from+n])
}

func insertConstants(m *mutation) {
	for range constIterations {
		var enc [8]byte

		var w int

		switch rangeInt(m.src, 0, 3) {
		case 0:
			w = 1
			enc[0] = byte(choose(m.src, interesting8))
		case 1:
			w = 2
			binary.BigEndian.PutUint16(enc[:], uint16(choose(m.src, interesting16)))
		case 2:
			w = 4
			binary.BigEndian.PutUint32(enc[:], uint32(choose(m.src, interesting32)))
		default:
			w = 8
			binary.BigEndian.PutUint64(enc[:], uint64(choose(m.src, interesting64)))
		}

		if m.buf.Len() < w {
			continue
		}

		to := m.index(w)
		copy(m.buf.data[to:to+w], enc[:w])
	}
}

func truncate(m *mutation) {
	p := rangeInt(m.src, 0, 49)
	drop := m.buf.Len() * p / 100
	m.buf.data = m.buf.data[:m.buf.Len()-drop]
}

func appendRange(m *mutation) {
	n := m.mutationSize()
	if m.buf.Len() < n {
		return
	}

	from := m.index(n)
	m.buf.data = append(m.buf.data, m.buf.data[from:from+n]...)
}

// set overwrites a run in [0, len-offset) with one repeated byte value.
func set(m *mutation) {
	if m.buf.Len() < 1 {
		return
	}

	v := byteOf(m.src)
	off := m.index(1)
	run := rangeInt(m.src, 0, m.buf.Len()-off-1)

	for i := off; i < off+run; i++ {
		m.buf.data[i] = v
	}
}

func splice(m *mutation) {
	if m.corpus == nil {
		panic("bytemut: splice without corpus")
	}

	if m.buf.Len() < 1 {
		return
	}

	split := m.index(1)

	entry := m.corpus.pick(m.src)
	if len(entry) == 0 {
		return
	}

	off := rangeInt(m.src, 0, len(entry)-1)

	out := make([]byte, 0, split+len(entry)-off)
	out = append(out, m.buf.data[:split]...)
	out = append(out, entry[off:]...)
	m.buf.data = out
}

func insertFromDict(m *mutation) {
	if m.dict == nil {
		panic("bytemut: insert-from-dict without dictionary")
	}

	for range dictIterations {
		tok := choose(m.src, m.dict.tokens)
		if m.buf.Len() < len(tok) {
			continue
		}

		to := m.index(len(tok))
		copy(m.buf.data[to:], tok)
	}
}
