package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calvinalkan/bytemut/internal/testutil"
)

func Test_ByteStream_Next_Pads_With_Zero_When_Exhausted(t *testing.T) {
	t.Parallel()

	s := testutil.NewByteStream([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0xAA})

	assert.Equal(t, uint64(0x0102030405060708), s.Next())
	assert.Equal(t, 1, s.Remaining())
	assert.Equal(t, uint64(0xAA00000000000000), s.Next())
	assert.Equal(t, uint64(0), s.Next())
	assert.Equal(t, byte(0), s.NextByte())
	assert.Equal(t, 0, s.Remaining())
}
