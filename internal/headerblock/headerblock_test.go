package headerblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/httpwire/internal/headers"
)

func defaultLimits() Limits {
	return Limits{
		MaxHeaders:               256,
		MaxHeaderLineLength:      8192,
		ValidateHeaderNames:      true,
		ValidateHeaderValues:     true,
		AllowUnderscoreInHeaders: true,
	}
}

func TestSplitLine(t *testing.T) {
	name, value, err := SplitLine([]byte("Host: example.com"))
	require.NoError(t, err)
	assert.Equal(t, "Host", string(name))
	assert.Equal(t, "example.com", string(value))
}

func TestSplitLineRejectsMissingColon(t *testing.T) {
	_, _, err := SplitLine([]byte("Host example.com"))
	assert.Error(t, err)
}

func TestSplitLineRejectsEmptyValue(t *testing.T) {
	_, _, err := SplitLine([]byte("Host: "))
	assert.Error(t, err)
}

func TestParseBlockSimple(t *testing.T) {
	h := headers.New()
	data := []byte("Host: example.com\r\nContent-Type: application/json\r\n\r\n")
	n, done, err := ParseBlock(h, data, 0, len(data), defaultLimits())
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, len(data), n)

	v, ok := h.Get("host")
	require.True(t, ok)
	assert.Equal(t, "example.com", v)
}

func TestParseBlockNeedsMoreData(t *testing.T) {
	h := headers.New()
	data := []byte("Host: example.com\r\nContent-T")
	n, done, err := ParseBlock(h, data, 0, len(data), defaultLimits())
	require.NoError(t, err)
	assert.False(t, done)
	// The complete "Host" line is folded into h and its bytes reported as
	// consumed, even though the block itself is not yet terminated — the
	// caller must advance past them so a later call does not re-append.
	assert.Equal(t, len("Host: example.com\r\n"), n)
	v, ok := h.Get("host")
	require.True(t, ok)
	assert.Equal(t, "example.com", v)
}

func TestParseBlockAcrossFragmentsDoesNotDuplicateHeaders(t *testing.T) {
	h := headers.New()
	limits := defaultLimits()

	first := []byte("Host: example.com\r\n")
	n1, done1, err := ParseBlock(h, first, 0, len(first), limits)
	require.NoError(t, err)
	assert.False(t, done1)
	assert.Equal(t, len(first), n1)

	second := append(append([]byte{}, first[n1:]...), []byte("\r\n")...)
	n2, done2, err := ParseBlock(h, second, 0, len(second), limits)
	require.NoError(t, err)
	assert.True(t, done2)
	assert.Equal(t, len(second), n2)

	assert.Equal(t, 1, h.TotalEntries())
	v, ok := h.Get("host")
	require.True(t, ok)
	assert.Equal(t, "example.com", v)
}

func TestParseBlockRejectsObsFold(t *testing.T) {
	h := headers.New()
	data := []byte("Host: example.com\r\n Continuation\r\n\r\n")
	_, _, err := ParseBlock(h, data, 0, len(data), defaultLimits())
	assert.Error(t, err)
}

func TestParseBlockEnforcesMaxHeaders(t *testing.T) {
	h := headers.New()
	data := []byte("A: 1\r\nB: 2\r\nC: 3\r\n\r\n")
	limits := defaultLimits()
	limits.MaxHeaders = 2
	_, _, err := ParseBlock(h, data, 0, len(data), limits)
	assert.Error(t, err)
}

func TestParseBlockEnforcesLineLength(t *testing.T) {
	h := headers.New()
	longValue := make([]byte, 100)
	for i := range longValue {
		longValue[i] = 'a'
	}
	data := append([]byte("X: "), longValue...)
	data = append(data, '\r', '\n', '\r', '\n')

	limits := defaultLimits()
	limits.MaxHeaderLineLength = 50
	_, _, err := ParseBlock(h, data, 0, len(data), limits)
	assert.Error(t, err)
}

func TestParseBlockRejectsInvalidHeaderName(t *testing.T) {
	h := headers.New()
	data := []byte("Bad Name: value\r\n\r\n")
	_, _, err := ParseBlock(h, data, 0, len(data), defaultLimits())
	assert.Error(t, err)
}
