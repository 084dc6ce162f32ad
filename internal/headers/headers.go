// Package headers implements the case-insensitive, order-preserving,
// multi-valued header container the parser populates while scanning a
// header block.
//
// Unlike a map[string]string (which cannot preserve wire order, original
// case, or duplicate same-name entries without fabricating synthetic
// keys), Headers keeps an ordered vector of entries as the source of
// truth and a lowercase-name index of entry indices on top of it.
package headers

import (
	"bytes"

	"github.com/intuitivelabs/bytescase"
)

// entry is a single header-field occurrence: original-case name, value.
type entry struct {
	name  string
	value string
}

// Headers is an ordered, case-insensitive, multi-valued header container.
// The zero value is not usable; construct one with New.
type Headers struct {
	entries []entry
	index   map[string][]int // lowercase name -> indices into entries
	order   []string         // lowercase names in order of first occurrence
}

// New returns an empty header container.
func New() *Headers {
	return &Headers{
		index: make(map[string][]int),
	}
}

func lowerKey(name string) string {
	b := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		b[i] = bytescase.ByteToLower(name[i])
	}
	return string(b)
}

// Append adds a new entry without touching any existing entry sharing the
// same lowercase name.
func (h *Headers) Append(name, value string) {
	key := lowerKey(name)
	if _, seen := h.index[key]; !seen {
		h.order = append(h.order, key)
	}
	h.entries = append(h.entries, entry{name: name, value: value})
	h.index[key] = append(h.index[key], len(h.entries)-1)
}

// Set removes every entry sharing name's lowercase key, then appends one
// new entry with the given name/value.
func (h *Headers) Set(name, value string) {
	h.Delete(name)
	h.Append(name, value)
}

// Get returns the comma-joined values of every entry sharing name's
// lowercase key, in insertion order, or ("", false) if there is none.
func (h *Headers) Get(name string) (string, bool) {
	vals := h.GetAll(name)
	if len(vals) == 0 {
		return "", false
	}
	if len(vals) == 1 {
		return vals[0], true
	}
	out := vals[0]
	for _, v := range vals[1:] {
		out += ", " + v
	}
	return out, true
}

// GetAll returns the per-entry values sharing name's lowercase key, in
// insertion order. It returns nil if there is no such header.
func (h *Headers) GetAll(name string) []string {
	idxs, ok := h.index[lowerKey(name)]
	if !ok {
		return nil
	}
	out := make([]string, len(idxs))
	for i, idx := range idxs {
		out[i] = h.entries[idx].value
	}
	return out
}

// Delete removes every entry sharing name's lowercase key and reports
// whether anything was removed.
func (h *Headers) Delete(name string) bool {
	key := lowerKey(name)
	idxs, ok := h.index[key]
	if !ok || len(idxs) == 0 {
		return false
	}
	removed := make(map[int]bool, len(idxs))
	for _, idx := range idxs {
		removed[idx] = true
	}

	newEntries := make([]entry, 0, len(h.entries)-len(idxs))
	remap := make(map[int]int, len(h.entries))
	for i, e := range h.entries {
		if removed[i] {
			continue
		}
		remap[i] = len(newEntries)
		newEntries = append(newEntries, e)
	}
	h.entries = newEntries

	delete(h.index, key)
	for k, idxs := range h.index {
		out := make([]int, len(idxs))
		for i, idx := range idxs {
			out[i] = remap[idx]
		}
		h.index[k] = out
	}

	newOrder := make([]string, 0, len(h.order))
	for _, k := range h.order {
		if k == key {
			continue
		}
		newOrder = append(newOrder, k)
	}
	h.order = newOrder

	return true
}

// Names returns the distinct original-case names in insertion order of
// first occurrence.
func (h *Headers) Names() []string {
	out := make([]string, 0, len(h.order))
	seen := make(map[string]bool, len(h.order))
	for _, e := range h.entries {
		key := lowerKey(e.name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e.name)
	}
	return out
}

// Size returns the number of distinct lowercase names.
func (h *Headers) Size() int {
	return len(h.index)
}

// TotalEntries returns the total number of entries, including duplicates.
func (h *Headers) TotalEntries() int {
	return len(h.entries)
}

// ToObject returns a mapping from lowercase name to comma-joined values.
func (h *Headers) ToObject() map[string]string {
	out := make(map[string]string, len(h.index))
	for key := range h.index {
		v, _ := h.Get(key)
		out[key] = v
	}
	return out
}

// ToBytes serializes every entry as "Name: Value\r\n" in insertion order,
// terminated by an empty line.
func (h *Headers) ToBytes() []byte {
	var buf bytes.Buffer
	for _, e := range h.entries {
		buf.WriteString(e.name)
		buf.WriteString(": ")
		buf.WriteString(e.value)
		buf.WriteString("\r\n")
	}
	buf.WriteString("\r\n")
	return buf.Bytes()
}

// Clone returns a deep copy independent of the original.
func (h *Headers) Clone() *Headers {
	out := &Headers{
		entries: make([]entry, len(h.entries)),
		index:   make(map[string][]int, len(h.index)),
		order:   make([]string, len(h.order)),
	}
	copy(out.entries, h.entries)
	copy(out.order, h.order)
	for k, v := range h.index {
		idxs := make([]int, len(v))
		copy(idxs, v)
		out.index[k] = idxs
	}
	return out
}

// Equals reports whether h and other carry the same entries in the same
// order, comparing names and values exactly (original case included).
func (h *Headers) Equals(other *Headers) bool {
	if other == nil || len(h.entries) != len(other.entries) {
		return false
	}
	for i, e := range h.entries {
		if e != other.entries[i] {
			return false
		}
	}
	return true
}

// Pair is a single (name, value) header occurrence as returned by
// Entries.
type Pair struct {
	Name  string
	Value string
}

// Entries returns the entries in insertion order. The returned slice is
// owned by the caller.
func (h *Headers) Entries() []Pair {
	out := make([]Pair, len(h.entries))
	for i, e := range h.entries {
		out[i] = Pair{Name: e.name, Value: e.value}
	}
	return out
}
