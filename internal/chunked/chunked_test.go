package chunked

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeWholeBodyAtOnce(t *testing.T) {
	data := []byte("5\r\nHello\r\n6\r\n World\r\n0\r\n\r\n")
	d := NewDecoder(1<<20, 10000, 1<<20)
	n, done, err := d.Feed(data, 0, len(data))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, len(data), n)
	assert.Equal(t, "Hello World", string(d.Body()))
}

func TestDecodeByteByByte(t *testing.T) {
	full := []byte("5\r\nHello\r\n6\r\n World\r\n0\r\n\r\n")
	d := NewDecoder(1<<20, 10000, 1<<20)

	// Mirrors how the streaming parser drives the decoder: bytes arrive
	// into a single growing buffer, and Feed is re-invoked from the last
	// consumed offset against the buffer's current length.
	var buf []byte
	pos := 0
	for i := 0; i < len(full); i++ {
		buf = append(buf, full[i])
		n, done, err := d.Feed(buf, pos, len(buf))
		require.NoError(t, err)
		pos += n
		if done {
			break
		}
	}
	assert.True(t, d.Done())
	assert.Equal(t, "Hello World", string(d.Body()))
}

func TestDecodeSplitAtEveryPosition(t *testing.T) {
	full := []byte("5\r\nHello\r\n6\r\n World\r\n0\r\n\r\n")
	for split := 1; split < len(full); split++ {
		d := NewDecoder(1<<20, 10000, 1<<20)

		n1, done1, err := d.Feed(full, 0, split)
		require.NoError(t, err, "split=%d", split)

		n2, done2, err := d.Feed(full, n1, len(full))
		require.NoError(t, err, "split=%d", split)
		assert.True(t, done1 || done2, "split=%d", split)
		assert.True(t, done2, "split=%d", split)
		assert.Equal(t, "Hello World", string(d.Body()), "split=%d", split)
	}
}

func TestChunkExtensionsIgnored(t *testing.T) {
	data := []byte("5;foo=bar\r\nHello\r\n0\r\n\r\n")
	d := NewDecoder(1<<20, 10000, 1<<20)
	_, done, err := d.Feed(data, 0, len(data))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "Hello", string(d.Body()))
}

func TestNoTrailerFieldsTerminatesOnBareCRLF(t *testing.T) {
	data := []byte("5\r\nHello\r\n0\r\n\r\n")
	d := NewDecoder(1<<20, 10000, 1<<20)
	n, done, err := d.Feed(data, 0, len(data))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, len(data), n)
	assert.Equal(t, "Hello", string(d.Body()))
}

func TestNoTrailerFieldsByteByByte(t *testing.T) {
	full := []byte("5\r\nHello\r\n0\r\n\r\n")
	d := NewDecoder(1<<20, 10000, 1<<20)

	var buf []byte
	pos := 0
	for i := 0; i < len(full); i++ {
		buf = append(buf, full[i])
		n, done, err := d.Feed(buf, pos, len(buf))
		require.NoError(t, err)
		pos += n
		if done {
			break
		}
	}
	assert.True(t, d.Done())
	assert.Equal(t, "Hello", string(d.Body()))
}

func TestTrailerDiscarded(t *testing.T) {
	data := []byte("5\r\nHello\r\n0\r\nX-Trailer: ignored\r\n\r\n")
	d := NewDecoder(1<<20, 10000, 1<<20)
	_, done, err := d.Feed(data, 0, len(data))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "Hello", string(d.Body()))
}

func TestInvalidChunkSize(t *testing.T) {
	data := []byte("zz\r\nHello\r\n0\r\n\r\n")
	d := NewDecoder(1<<20, 10000, 1<<20)
	_, _, err := d.Feed(data, 0, len(data))
	assert.Error(t, err)
}

func TestChunkSizeExceedsCapFails(t *testing.T) {
	data := []byte("ffffffff\r\n")
	d := NewDecoder(100, 10000, 1<<20)
	_, _, err := d.Feed(data, 0, len(data))
	assert.Error(t, err)
}

func TestTooManyChunksFails(t *testing.T) {
	data := []byte("1\r\nA\r\n1\r\nB\r\n1\r\nC\r\n0\r\n\r\n")
	d := NewDecoder(1<<20, 2, 1<<20)
	_, _, err := d.Feed(data, 0, len(data))
	assert.Error(t, err)
}

func TestBodyTooLargeFails(t *testing.T) {
	data := []byte("a\r\n0123456789\r\n0\r\n\r\n")
	d := NewDecoder(1<<20, 10000, 5)
	_, _, err := d.Feed(data, 0, len(data))
	assert.Error(t, err)
}
