// Package token implements the byte-level validators the rest of the
// parser gates on: method, HTTP-version, status-code, header name/value,
// request-target, Content-Length, and chunk-size.
//
// Every validator is a pure predicate or a pure parse: none of them read
// past the slice they are given, and none of them allocate unless they
// need to return a parsed integer.
package token

import (
	"bytes"

	"github.com/intuitivelabs/bytescase"
)

const (
	maxMethodLen      = 100
	maxHeaderNameLen  = 256
	maxHeaderValueLen = 8192
	maxTargetLen      = 8192

	// DefaultMaxChunkSize is the default cap on a single chunk's declared
	// size; config.Default sets Config.MaxChunkSize to the same value.
	DefaultMaxChunkSize = 10 * 1024 * 1024
)

// separators holds the RFC 7230 token separator characters that are not
// allowed inside a method or header-name token.
var separators [256]bool

func init() {
	for _, c := range []byte("()<>@,;:\\\"/[]?={} \t") {
		separators[c] = true
	}
}

func isControl(c byte) bool {
	return c <= 0x1f || c == 0x7f
}

// isTokenByte reports whether c is legal inside an RFC 7230 token: a
// visible ASCII character that is neither a control nor a separator.
func isTokenByte(c byte) bool {
	if c > 0x7e {
		return false
	}
	if isControl(c) {
		return false
	}
	return !separators[c]
}

// standardMethods are recognized without re-scanning every byte against
// the separator table — they are already known-good tokens.
var standardMethods = map[string]struct{}{
	"GET": {}, "HEAD": {}, "POST": {}, "PUT": {}, "DELETE": {},
	"CONNECT": {}, "OPTIONS": {}, "TRACE": {}, "PATCH": {},
}

// Method reports whether b is a valid HTTP method token.
func Method(b []byte) bool {
	if len(b) == 0 || len(b) > maxMethodLen {
		return false
	}
	if _, ok := standardMethods[string(b)]; ok {
		return true
	}
	for _, c := range b {
		if !isTokenByte(c) {
			return false
		}
	}
	return true
}

// Version reports whether b is exactly "HTTP/1.0" or "HTTP/1.1".
func Version(b []byte) bool {
	if len(b) != 8 {
		return false
	}
	if !bytes.Equal(b[:5], []byte("HTTP/")) {
		return false
	}
	if b[5] != '1' || b[6] != '.' {
		return false
	}
	return b[7] == '0' || b[7] == '1'
}

// StatusCode reports whether code is a valid 3-digit status code.
func StatusCode(code int) bool {
	return code >= 100 && code <= 999
}

// HeaderName reports whether b is a valid header-field name.
// allowUnderscore selects whether '_' is accepted as a token byte.
func HeaderName(b []byte, allowUnderscore bool) bool {
	if len(b) == 0 || len(b) > maxHeaderNameLen {
		return false
	}
	for _, c := range b {
		if c == '_' {
			if allowUnderscore {
				continue
			}
			return false
		}
		if !isTokenByte(c) {
			return false
		}
	}
	return true
}

// HeaderValue reports whether b is a valid header-field value: at most
// 8192 bytes, each byte HTAB, LF, FF, CR, or printable ASCII. Embedded
// CR/LF are accepted here — the header-block scanner, not this validator,
// decides whether they terminate a line.
func HeaderValue(b []byte) bool {
	if len(b) > maxHeaderValueLen {
		return false
	}
	for _, c := range b {
		switch c {
		case 0x09, 0x0a, 0x0c, 0x0d:
			continue
		default:
			if c < 0x20 || c > 0x7e {
				return false
			}
		}
	}
	return true
}

// RequestTarget reports whether b is a valid request-target: origin-form
// (leading '/'), absolute-form (contains "://"), asterisk-form ("*"), or
// authority-form (contains ':' and no '/').
func RequestTarget(b []byte) bool {
	if len(b) == 0 || len(b) > maxTargetLen {
		return false
	}
	if len(b) == 1 && b[0] == '*' {
		return true
	}
	if b[0] == '/' {
		return true
	}
	if containsSeq(b, []byte("://")) {
		return true
	}
	hasColon, hasSlash := false, false
	for _, c := range b {
		if c == ':' {
			hasColon = true
		}
		if c == '/' {
			hasSlash = true
		}
	}
	return hasColon && !hasSlash
}

func containsSeq(haystack, needle []byte) bool {
	if len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// ContentLength parses a trimmed Content-Length value as a non-negative
// decimal integer. It rejects leading '+', embedded signs, interior
// whitespace, and any non-digit content.
func ContentLength(s string) (int64, bool) {
	s = trimOWS(s)
	if s == "" {
		return 0, false
	}
	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		d := int64(c - '0')
		if n > (1<<62)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}

// ChunkSize parses a trimmed hexadecimal chunk size, case-insensitive,
// rejecting parse failures and sizes above maxSize.
func ChunkSize(s string, maxSize int64) (int64, bool) {
	s = trimOWS(s)
	if s == "" {
		return 0, false
	}
	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d int64
		switch {
		case c >= '0' && c <= '9':
			d = int64(c - '0')
		case c >= 'a' && c <= 'f':
			d = int64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = int64(bytescase.ByteToLower(c)-'a') + 10
		default:
			return 0, false
		}
		if n > (1<<60)/16 {
			return 0, false
		}
		n = n*16 + d
		if n > maxSize {
			return 0, false
		}
	}
	return n, true
}

func trimOWS(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		s = s[:len(s)-1]
	}
	return s
}
