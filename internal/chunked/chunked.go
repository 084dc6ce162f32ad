// Package chunked implements chunked transfer-encoding framing: a
// chunk-size line tokenizer and a resumable decoder that can accept
// fragments smaller than the chunk currently being read, reporting
// need-more-data instead of requiring a whole chunk (or the whole body)
// to be present at once.
//
// The decoder is the incremental counterpart of a whole-buffer Dechunk:
// it owns just enough state (current chunk remaining, running chunk
// count) to resume correctly across many Feed calls, mirroring how the
// streaming parser resumes BODY_CHUNKED_SIZE/BODY_CHUNKED_DATA across
// parse() calls.
package chunked

import (
	"bytes"
	"fmt"

	"github.com/yourusername/httpwire/internal/token"
)

var crlf = []byte("\r\n")

// Phase is the decoder's internal sub-state.
type Phase int

const (
	// PhaseSize is waiting for a chunk-size line.
	PhaseSize Phase = iota
	// PhaseData is waiting for chunk data bytes.
	PhaseData
	// PhaseDataCRLF is waiting for the CRLF that follows chunk data.
	PhaseDataCRLF
	// PhaseTrailer is waiting for the block-terminating CRLF CRLF after a
	// zero-size chunk, discarding any trailer fields present.
	PhaseTrailer
	// PhaseDone means the body (including trailer) has been fully read.
	PhaseDone
)

// Error reports why chunked decoding failed.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func errf(format string, args ...interface{}) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// ParseSizeLine parses a chunk-size line "HEX [; extensions]" (without its
// trailing CRLF), returning the decoded size. Extensions are ignored.
func ParseSizeLine(line []byte, maxChunkSize int64) (int64, error) {
	if semi := bytes.IndexByte(line, ';'); semi >= 0 {
		line = line[:semi]
	}
	size, ok := token.ChunkSize(string(line), maxChunkSize)
	if !ok {
		return 0, errf("invalid chunk size %q", line)
	}
	return size, nil
}

// Decoder incrementally decodes a chunked body across repeated Feed
// calls. It owns its own growing body buffer.
type Decoder struct {
	phase        Phase
	remaining    int64 // bytes left to read in the current chunk
	body         []byte
	chunks       int64
	maxChunkSize int64
	maxChunks    int64
	maxBodySize  int64
}

// NewDecoder returns a Decoder enforcing the given limits.
func NewDecoder(maxChunkSize, maxChunks, maxBodySize int64) *Decoder {
	return &Decoder{
		phase:        PhaseSize,
		maxChunkSize: maxChunkSize,
		maxChunks:    maxChunks,
		maxBodySize:  maxBodySize,
	}
}

// Body returns the bytes decoded so far.
func (d *Decoder) Body() []byte { return d.body }

// Done reports whether the body (including trailer) has been fully read.
func (d *Decoder) Done() bool { return d.phase == PhaseDone }

// Phase returns the decoder's current sub-state, so a caller that wants
// finer-grained state reporting (spec's BODY_CHUNKED_SIZE/DATA/TRAILER)
// does not have to duplicate the decoder's own state tracking.
func (d *Decoder) Phase() Phase { return d.phase }

// Feed advances the decoder using buf[start:end], returning the number of
// bytes consumed. If the body is not yet complete, it returns
// (consumed, false, nil) and the caller must supply more bytes. On a
// framing violation it returns a non-nil error and the decoder must not
// be reused.
func (d *Decoder) Feed(buf []byte, start, end int) (consumed int, done bool, err error) {
	off := start

	for off < end {
		switch d.phase {
		case PhaseSize:
			idx := bytes.Index(buf[off:end], crlf)
			if idx < 0 {
				return off - start, false, nil
			}
			size, perr := ParseSizeLine(buf[off:off+idx], d.maxChunkSize)
			if perr != nil {
				return 0, false, perr
			}
			off += idx + len(crlf)

			if size == 0 {
				d.phase = PhaseTrailer
				continue
			}
			d.chunks++
			if d.chunks > d.maxChunks {
				return 0, false, errf("too many chunks (limit %d)", d.maxChunks)
			}
			if int64(len(d.body))+size > d.maxBodySize {
				return 0, false, errf("chunked body exceeds %d bytes", d.maxBodySize)
			}
			d.remaining = size
			d.phase = PhaseData

		case PhaseData:
			avail := int64(end - off)
			take := d.remaining
			if avail < take {
				take = avail
			}
			d.body = append(d.body, buf[off:off+int(take)]...)
			off += int(take)
			d.remaining -= take
			if d.remaining == 0 {
				d.phase = PhaseDataCRLF
			} else {
				return off - start, false, nil
			}

		case PhaseDataCRLF:
			if end-off < len(crlf) {
				return off - start, false, nil
			}
			if !bytes.Equal(buf[off:off+len(crlf)], crlf) {
				return 0, false, errf("missing CRLF after chunk data")
			}
			off += len(crlf)
			d.phase = PhaseSize

		case PhaseTrailer:
			// The common case is no trailer fields at all: "0\r\n" is
			// immediately followed by the block-terminating empty line, a
			// bare CRLF rather than a CRLF CRLF pair.
			if end-off < len(crlf) {
				return off - start, false, nil
			}
			if bytes.Equal(buf[off:off+len(crlf)], crlf) {
				off += len(crlf)
				d.phase = PhaseDone
				return off - start, true, nil
			}
			idx := bytes.Index(buf[off:end], []byte("\r\n\r\n"))
			if idx < 0 {
				// Still scanning for the terminator; consume nothing yet
				// so a trailer split across Feed calls is re-scanned from
				// its start (trailers are bounded by the header line
				// limits enforced by the surrounding streaming parser).
				return off - start, false, nil
			}
			off += idx + len("\r\n\r\n")
			d.phase = PhaseDone
			return off - start, true, nil

		case PhaseDone:
			return off - start, true, nil
		}
	}

	return off - start, d.phase == PhaseDone, nil
}
