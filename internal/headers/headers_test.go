package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndGet(t *testing.T) {
	h := New()
	h.Append("Host", "localhost:42069")
	v, ok := h.Get("host")
	require.True(t, ok)
	assert.Equal(t, "localhost:42069", v)
	assert.Equal(t, 1, h.Size())
	assert.Equal(t, 1, h.TotalEntries())
}

func TestDuplicateNamesPreserveEntriesAndJoinOnGet(t *testing.T) {
	h := New()
	h.Append("X-Person", "some1")
	h.Append("X-Person", "some2")
	h.Append("X-Person", "some3")

	assert.Equal(t, []string{"some1", "some2", "some3"}, h.GetAll("x-person"))
	v, ok := h.Get("X-PERSON")
	require.True(t, ok)
	assert.Equal(t, "some1, some2, some3", v)
	assert.Equal(t, 1, h.Size())
	assert.Equal(t, 3, h.TotalEntries())
}

func TestCaseInsensitivity(t *testing.T) {
	h := New()
	h.Append("Content-Type", "text/plain")
	for _, variant := range []string{"content-type", "CONTENT-TYPE", "Content-Type", "cOnTeNt-TyPe"} {
		v, ok := h.Get(variant)
		require.True(t, ok)
		assert.Equal(t, "text/plain", v)
	}
}

func TestSetReplacesAllEntriesSharingName(t *testing.T) {
	h := New()
	h.Append("Vary", "accept")
	h.Append("Vary", "encoding")
	h.Set("Vary", "origin")

	assert.Equal(t, []string{"origin"}, h.GetAll("vary"))
	assert.Equal(t, 1, h.TotalEntries())
}

func TestDelete(t *testing.T) {
	h := New()
	h.Append("Host", "example.com")
	h.Append("X-Foo", "1")

	assert.True(t, h.Delete("host"))
	assert.False(t, h.Delete("host"))
	_, ok := h.Get("host")
	assert.False(t, ok)
	v, ok := h.Get("x-foo")
	require.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestNamesPreservesInsertionOrderAndOriginalCase(t *testing.T) {
	h := New()
	h.Append("Host", "example.com")
	h.Append("Content-Type", "text/plain")
	h.Append("Host", "duplicate.example.com")

	assert.Equal(t, []string{"Host", "Content-Type"}, h.Names())
}

func TestToObject(t *testing.T) {
	h := New()
	h.Append("Host", "example.com")
	h.Append("X-Person", "some1")
	h.Append("X-Person", "some2")

	obj := h.ToObject()
	assert.Equal(t, "example.com", obj["host"])
	assert.Equal(t, "some1, some2", obj["x-person"])
}

func TestToBytesSerializesEntriesInOrder(t *testing.T) {
	h := New()
	h.Append("Host", "example.com")
	h.Append("Content-Length", "15")

	b := h.ToBytes()
	assert.Equal(t, "Host: example.com\r\nContent-Length: 15\r\n\r\n", string(b))
}

func TestClone(t *testing.T) {
	h := New()
	h.Append("Host", "example.com")

	clone := h.Clone()
	clone.Append("X-Extra", "1")

	assert.Equal(t, 1, h.TotalEntries())
	assert.Equal(t, 2, clone.TotalEntries())
	assert.True(t, h.Equals(h.Clone()))
}

func TestEntriesOrderAndDuplicates(t *testing.T) {
	h := New()
	h.Append("A", "1")
	h.Append("B", "2")
	h.Append("A", "3")

	entries := h.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, Pair{Name: "A", Value: "1"}, entries[0])
	assert.Equal(t, Pair{Name: "B", Value: "2"}, entries[1])
	assert.Equal(t, Pair{Name: "A", Value: "3"}, entries[2])
}

func TestGetAllCountAndGetJoinAgree(t *testing.T) {
	h := New()
	h.Append("X-Person", "some1")
	h.Append("X-Person", "some2")
	h.Append("Host", "example.com")

	all := h.GetAll("x-person")
	assert.Len(t, all, 2)
	get, ok := h.Get("x-person")
	require.True(t, ok)
	assert.Equal(t, all[0]+", "+all[1], get)
}
