package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMethod(t *testing.T) {
	assert.True(t, Method([]byte("GET")))
	assert.True(t, Method([]byte("PROPFIND"))) // not standard, but a valid token
	assert.False(t, Method([]byte("")))
	assert.False(t, Method([]byte("GE T")))
	assert.False(t, Method([]byte("GET\x00")))
	assert.False(t, Method(make([]byte, 101)))
}

func TestVersion(t *testing.T) {
	assert.True(t, Version([]byte("HTTP/1.0")))
	assert.True(t, Version([]byte("HTTP/1.1")))
	assert.False(t, Version([]byte("HTTP/2.0")))
	assert.False(t, Version([]byte("http/1.1")))
	assert.False(t, Version([]byte("HTTP/1.1 ")))
}

func TestStatusCode(t *testing.T) {
	assert.True(t, StatusCode(100))
	assert.True(t, StatusCode(999))
	assert.False(t, StatusCode(99))
	assert.False(t, StatusCode(1000))
}

func TestHeaderName(t *testing.T) {
	assert.True(t, HeaderName([]byte("Content-Type"), true))
	assert.True(t, HeaderName([]byte("X_Custom"), true))
	assert.False(t, HeaderName([]byte("X_Custom"), false))
	assert.False(t, HeaderName([]byte(""), true))
	assert.False(t, HeaderName([]byte("Bad Name"), true))
	assert.False(t, HeaderName(make([]byte, 257), true))
}

func TestHeaderValue(t *testing.T) {
	assert.True(t, HeaderValue([]byte("text/plain")))
	assert.True(t, HeaderValue([]byte("a\tb")))
	assert.False(t, HeaderValue([]byte{0x01}))
	assert.False(t, HeaderValue(make([]byte, 8193)))
}

func TestRequestTarget(t *testing.T) {
	assert.True(t, RequestTarget([]byte("/api/data")))
	assert.True(t, RequestTarget([]byte("http://example.com/x")))
	assert.True(t, RequestTarget([]byte("*")))
	assert.True(t, RequestTarget([]byte("example.com:80")))
	assert.False(t, RequestTarget([]byte("")))
	assert.False(t, RequestTarget([]byte("example.com/no-scheme")))
}

func TestContentLength(t *testing.T) {
	n, ok := ContentLength("123")
	assert.True(t, ok)
	assert.Equal(t, int64(123), n)

	_, ok = ContentLength("+123")
	assert.False(t, ok)
	_, ok = ContentLength("-1")
	assert.False(t, ok)
	_, ok = ContentLength("1 2")
	assert.False(t, ok)
	_, ok = ContentLength("")
	assert.False(t, ok)

	n, ok = ContentLength("  15  ")
	assert.True(t, ok)
	assert.Equal(t, int64(15), n)
}

func TestChunkSize(t *testing.T) {
	n, ok := ChunkSize("1A", 1<<20)
	assert.True(t, ok)
	assert.Equal(t, int64(26), n)

	n, ok = ChunkSize("ff", 1<<20)
	assert.True(t, ok)
	assert.Equal(t, int64(255), n)

	_, ok = ChunkSize("zz", 1<<20)
	assert.False(t, ok)

	_, ok = ChunkSize("ffffffff", 100)
	assert.False(t, ok)

	_, ok = ChunkSize("", 100)
	assert.False(t, ok)
}
