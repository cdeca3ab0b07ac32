// Package testutil holds helpers shared by fuzz tests.
package testutil

import "encoding/binary"

// ByteStream replays fuzz input as a sequence of random draws.
//
// Exhausted streams keep returning zero so every input maps to exactly one
// draw sequence.
type ByteStream struct {
	bytes []byte
	pos   int
}

// NewByteStream creates a stream over b. b is not copied.
func NewByteStream(b []byte) *ByteStream {
	return &ByteStream{bytes: b}
}

// Remaining reports how many unread bytes are left.
func (s *ByteStream) Remaining() int {
	return len(s.bytes) - s.pos
}

// NextByte returns the next byte, or 0 if exhausted.
func (s *ByteStream) NextByte() byte {
	if s.pos >= len(s.bytes) {
		return 0
	}

	v := s.bytes[s.pos]
	s.pos++

	return v
}

// Next returns the next 8 bytes as a big-endian word, zero-padded at the
// end of the stream. It satisfies the engine's draw source.
func (s *ByteStream) Next() uint64 {
	var word [8]byte

	n := copy(word[:], s.bytes[min(s.pos, len(s.bytes)):])
	s.pos += n

	return binary.BigEndian.Uint64(word[:])
}
