package bytemut

// DefaultBufferSize is the size of a buffer generated from random words when
// neither an input nor a corpus supplies one.
const DefaultBufferSize = 4096

// Buffer is the engine's working byte sequence.
//
// Its logical length is always len(b.data). There is no separate size
// field that could fall out of step with the contents.
type Buffer struct {
	data []byte
}

// NewBuffer returns an empty buffer with the given reserved capacity.
// A non-positive capacity reserves [DefaultBufferSize].
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}

	return &Buffer{data: make([]byte, 0, capacity)}
}

// BufferFrom returns a buffer holding a copy of src.
func BufferFrom(src []byte) *Buffer {
	b := NewBuffer(len(src))
	b.data = append(b.data, src...)

	return b
}

// Bytes returns the contents. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the logical length.
func (b *Buffer) Len() int {
	return len(b.data)
}

// reset replaces the contents with a copy of src, reusing the backing array
// when it is large enough.
func (b *Buffer) reset(src []byte) {
	b.data = append(b.data[:0], src...)
}

// refill replaces the contents with random words until at least n bytes.
func (b *Buffer) refill(d drawer, n int) {
	b.data = fillOf(d, b.data[:0], n)
}
