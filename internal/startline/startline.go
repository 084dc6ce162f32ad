// Package startline implements the two start-line tokenizers: one for
// the HTTP request line, one for the status line. Both operate on an
// in-progress byte slice and return a three-state result — parsed,
// need-more-data, or invalid — so the streaming parser can resume across
// fragment boundaries.
package startline

import (
	"bytes"
	"strconv"

	"github.com/yourusername/httpwire/internal/token"
)

// RequestLine is the parsed "METHOD SP TARGET SP VERSION CRLF" line.
type RequestLine struct {
	Method  string
	Target  string
	Version string
}

// StatusLine is the parsed "VERSION SP STATUS SP REASON CRLF" line.
type StatusLine struct {
	Version    string
	StatusCode int
	Reason     string
}

// Result codes returned alongside a parse attempt.
type Result int

const (
	// Parsed means a complete, valid line was found; Consumed reports how
	// many bytes (including the trailing CRLF) it occupied.
	Parsed Result = iota
	// NeedMoreData means the buffer does not yet contain a complete line.
	NeedMoreData
	// Invalid means the bytes present can never form a valid line.
	Invalid
)

var crlf = []byte("\r\n")

// ParseRequestLine attempts to parse a request line from buf[start:end].
// On Parsed, consumed is the number of bytes occupied by the line
// including its terminating CRLF.
func ParseRequestLine(buf []byte, start, end int) (rl RequestLine, consumed int, result Result, err error) {
	data := buf[start:end]

	lineEnd := bytes.Index(data, crlf)
	hasCRLF := lineEnd >= 0

	var line []byte
	if hasCRLF {
		line = data[:lineEnd]
	} else {
		line = data
	}

	sp1 := bytes.IndexByte(line, ' ')
	if sp1 < 0 {
		if !hasCRLF {
			return rl, 0, NeedMoreData, nil
		}
		return rl, 0, Invalid, errMalformed("missing method separator")
	}
	method := line[:sp1]

	rest := line[sp1+1:]
	sp2 := bytes.IndexByte(rest, ' ')
	if sp2 < 0 {
		if !hasCRLF {
			return rl, 0, NeedMoreData, nil
		}
		return rl, 0, Invalid, errMalformed("missing version separator")
	}
	target := rest[:sp2]
	version := rest[sp2+1:]

	if !token.Method(method) {
		return rl, 0, Invalid, errMalformed("invalid method")
	}
	if !token.RequestTarget(target) {
		return rl, 0, Invalid, errMalformed("invalid request-target")
	}
	if !hasCRLF {
		// the version is still growing until CRLF arrives
		return rl, 0, NeedMoreData, nil
	}
	if !token.Version(version) {
		return rl, 0, Invalid, errMalformed("invalid version")
	}

	rl = RequestLine{
		Method:  string(method),
		Target:  string(target),
		Version: string(version),
	}
	return rl, lineEnd + len(crlf), Parsed, nil
}

// ParseStatusLine attempts to parse a status line from buf[start:end].
func ParseStatusLine(buf []byte, start, end int) (sl StatusLine, consumed int, result Result, err error) {
	data := buf[start:end]

	lineEnd := bytes.Index(data, crlf)
	hasCRLF := lineEnd >= 0

	var line []byte
	if hasCRLF {
		line = data[:lineEnd]
	} else {
		line = data
	}

	sp1 := bytes.IndexByte(line, ' ')
	if sp1 < 0 {
		if !hasCRLF {
			return sl, 0, NeedMoreData, nil
		}
		return sl, 0, Invalid, errMalformed("missing version separator")
	}
	version := line[:sp1]

	rest := line[sp1+1:]
	sp2 := bytes.IndexByte(rest, ' ')
	if sp2 < 0 {
		// No reason phrase yet. Without a CRLF the line is incomplete, so
		// this asks for more data whatever the code bytes are; the status
		// code is only validated once the CRLF has arrived.
		if !hasCRLF {
			if len(rest) < 3 || !isAllDigits(rest) {
				return sl, 0, NeedMoreData, nil
			}
			// A full 3-digit code may still be followed by a reason phrase.
			return sl, 0, NeedMoreData, nil
		}
		// CRLF present, no reason phrase: "HTTP/1.1 200\r\n"
		if !token.Version(version) {
			return sl, 0, Invalid, errMalformed("invalid version")
		}
		code, ok := parseStatusCode(rest)
		if !ok {
			return sl, 0, Invalid, errMalformed("invalid status code")
		}
		sl = StatusLine{Version: string(version), StatusCode: code}
		return sl, lineEnd + len(crlf), Parsed, nil
	}

	codeBytes := rest[:sp2]
	reason := rest[sp2+1:]

	if !token.Version(version) {
		return sl, 0, Invalid, errMalformed("invalid version")
	}
	code, ok := parseStatusCode(codeBytes)
	if !ok {
		return sl, 0, Invalid, errMalformed("invalid status code")
	}
	if !hasCRLF {
		if !token.HeaderValue(reason) {
			// a too-long/binary "reason" can never become valid by adding bytes
			return sl, 0, Invalid, errMalformed("invalid reason phrase")
		}
		// reason phrase is still growing until CRLF arrives
		return sl, 0, NeedMoreData, nil
	}

	sl = StatusLine{
		Version:    string(version),
		StatusCode: code,
		Reason:     string(reason),
	}
	return sl, lineEnd + len(crlf), Parsed, nil
}

func parseStatusCode(b []byte) (int, bool) {
	if len(b) != 3 || !isAllDigits(b) {
		return 0, false
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, false
	}
	if !token.StatusCode(n) {
		return 0, false
	}
	return n, true
}

func isAllDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Error is a descriptive, non-sentinel error returned by the tokenizers.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func errMalformed(msg string) error {
	return &Error{Message: msg}
}
