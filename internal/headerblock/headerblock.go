// Package headerblock scans a header block — the byte range between the
// end of a start-line and the terminating empty line — into a
// headers.Headers container, delegating each line to a header-line
// splitter and enforcing the configured count/length limits.
//
// Obsolete line folding (a continuation line beginning with SP/HTAB) is
// rejected rather than joined: this parser does not support obs-fold.
package headerblock

import (
	"bytes"
	"fmt"

	"github.com/yourusername/httpwire/internal/headers"
	"github.com/yourusername/httpwire/internal/token"
)

var crlf = []byte("\r\n")

// Limits bounds header-block scanning.
type Limits struct {
	MaxHeaders               int
	MaxHeaderLineLength      int
	ValidateHeaderNames      bool
	ValidateHeaderValues     bool
	AllowUnderscoreInHeaders bool
}

// Error reports why header-block scanning failed.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func errf(format string, args ...interface{}) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// SplitLine splits one header line "Name: Value" into a trimmed name and
// value. It fails if there is no colon, an empty name, or an empty value
// after trimming linear whitespace — empty values are rejected by design.
func SplitLine(line []byte) (name, value []byte, err error) {
	colon := bytes.IndexByte(line, ':')
	if colon < 0 {
		return nil, nil, errf("header line missing colon")
	}
	name = trimOWS(line[:colon])
	value = trimOWS(line[colon+1:])
	if len(name) == 0 {
		return nil, nil, errf("empty header name")
	}
	if len(value) == 0 {
		return nil, nil, errf("empty header value")
	}
	return name, value, nil
}

func trimOWS(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}
	return b
}

// ParseBlock scans buf[start:end] for the terminating empty line,
// splitting on CRLF and populating h with each complete header line
// found, even if the block itself is not yet terminated.
//
// It returns the number of bytes consumed by whole lines scanned so far
// (including the terminating CRLF CRLF once found) and whether the
// block's end was reached. The caller must advance its own offset by
// consumed on every call, done or not — data[:consumed] has already been
// folded into h, and a later call re-scanning it would append it twice.
// If done is false and err is nil, the caller must supply more bytes
// (starting at the advanced offset) before calling again.
func ParseBlock(h *headers.Headers, buf []byte, start, end int, limits Limits) (consumed int, done bool, err error) {
	data := buf[start:end]
	off := 0

	for {
		idx := bytes.Index(data[off:], crlf)
		if idx < 0 {
			if len(data)-off > limits.MaxHeaderLineLength {
				return off, false, errf("header line exceeds %d bytes", limits.MaxHeaderLineLength)
			}
			return off, false, nil
		}
		if idx > limits.MaxHeaderLineLength {
			return 0, false, errf("header line exceeds %d bytes", limits.MaxHeaderLineLength)
		}

		line := data[off : off+idx]
		lineEnd := off + idx + len(crlf)

		if len(line) == 0 {
			return lineEnd, true, nil
		}

		if line[0] == ' ' || line[0] == '\t' {
			return 0, false, errf("obsolete line folding is not supported")
		}

		name, value, splitErr := SplitLine(line)
		if splitErr != nil {
			return 0, false, splitErr
		}

		if limits.ValidateHeaderNames && !token.HeaderName(name, limits.AllowUnderscoreInHeaders) {
			return 0, false, errf("invalid header name %q", name)
		}
		if limits.ValidateHeaderValues && !token.HeaderValue(value) {
			return 0, false, errf("invalid header value for %q", name)
		}

		if h.TotalEntries() >= limits.MaxHeaders {
			return 0, false, errf("too many headers (limit %d)", limits.MaxHeaders)
		}

		h.Append(string(name), string(value))
		off = lineEnd
	}
}
