// Package message holds the wire-level message model the streaming
// parser emits (Message, RequestLine, StatusLine, TransferEncoding) and
// the §6 builder helpers that serialize a Message back to wire format.
//
// Message construction helpers are utility surface, not core parser
// behavior: they never fail, they simply produce whatever bytes result
// from the inputs given.
package message

import (
	"fmt"
	"io"
	"strconv"

	"github.com/yourusername/httpwire/internal/headers"
)

// Kind tags whether a Message is a request or a response.
type Kind int

const (
	// Request tags a parsed HTTP request.
	Request Kind = iota
	// Response tags a parsed HTTP response.
	Response
)

// TransferEncoding names how a message's body length was determined.
type TransferEncoding int

const (
	// Identity means no body (or a body with no declared framing).
	Identity TransferEncoding = iota
	// ContentLengthEncoding means the body length came from Content-Length.
	ContentLengthEncoding
	// Chunked means the body was framed with chunked transfer-encoding.
	Chunked
)

// RequestLine is "METHOD SP TARGET SP VERSION".
type RequestLine struct {
	Method  string
	Target  string
	Version string
}

// StatusLine is "VERSION SP STATUS SP REASON".
type StatusLine struct {
	Version    string
	StatusCode int
	Reason     string
}

// Message is a fully parsed HTTP request or response.
type Message struct {
	Kind Kind

	RequestLine RequestLine
	StatusLine  StatusLine

	Headers *headers.Headers
	Body    []byte

	KeepAlive        bool
	TransferEncoding TransferEncoding
	ContentLength    int64 // declared length; 0 for Identity, -1 for Chunked
}

// BuildRequest serializes a request per the wire format in spec §6:
// "METHOD SP TARGET SP HTTP/1.1 CRLF", each header as "Name: Value\r\n" in
// the order given, then Content-Length (if body is non-empty), then the
// terminating CRLF, then the body.
func BuildRequest(method, target string, hdrs *headers.Headers, body []byte) []byte {
	var out []byte
	out = append(out, method...)
	out = append(out, ' ')
	out = append(out, target...)
	out = append(out, " HTTP/1.1\r\n"...)
	out = appendHeaderLines(out, hdrs)
	if len(body) > 0 {
		out = append(out, "Content-Length: "...)
		out = append(out, strconv.Itoa(len(body))...)
		out = append(out, "\r\n"...)
	}
	out = append(out, "\r\n"...)
	out = append(out, body...)
	return out
}

// BuildResponse serializes a response per the wire format in spec §6. If
// reason is empty, the standard IANA reason phrase for statusCode is
// substituted (empty string for unrecognized codes).
func BuildResponse(statusCode int, reason string, hdrs *headers.Headers, body []byte) []byte {
	if reason == "" {
		reason = ReasonPhrase(statusCode)
	}
	var out []byte
	out = append(out, "HTTP/1.1 "...)
	out = append(out, strconv.Itoa(statusCode)...)
	out = append(out, ' ')
	out = append(out, reason...)
	out = append(out, "\r\n"...)
	out = appendHeaderLines(out, hdrs)
	if len(body) > 0 {
		out = append(out, "Content-Length: "...)
		out = append(out, strconv.Itoa(len(body))...)
		out = append(out, "\r\n"...)
	}
	out = append(out, "\r\n"...)
	out = append(out, body...)
	return out
}

func appendHeaderLines(out []byte, hdrs *headers.Headers) []byte {
	if hdrs == nil {
		return out
	}
	for _, p := range hdrs.Entries() {
		out = append(out, p.Name...)
		out = append(out, ": "...)
		out = append(out, p.Value...)
		out = append(out, "\r\n"...)
	}
	return out
}

// WriteChunkedBody writes body to w as a sequence of chunkSize-byte wire
// chunks terminated by "0\r\n\r\n". It is the serializing dual of
// internal/chunked's incremental decoder.
func WriteChunkedBody(w io.Writer, body []byte, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = 1024
	}
	for len(body) > 0 {
		n := chunkSize
		if n > len(body) {
			n = len(body)
		}
		if _, err := fmt.Fprintf(w, "%x\r\n", n); err != nil {
			return err
		}
		if _, err := w.Write(body[:n]); err != nil {
			return err
		}
		if _, err := w.Write([]byte("\r\n")); err != nil {
			return err
		}
		body = body[n:]
	}
	_, err := w.Write([]byte("0\r\n\r\n"))
	return err
}
