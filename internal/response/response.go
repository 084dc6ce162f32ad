// Package response writes an HTTP/1.x response to a connection a piece
// at a time: status line, then headers, then body — enforcing that order
// and delegating chunked body framing to internal/message.
package response

import (
	"fmt"
	"io"

	"github.com/yourusername/httpwire/internal/headers"
	"github.com/yourusername/httpwire/internal/message"
)

// WriterStatus is which part of the response Writer expects to write
// next; writing out of order is a programmer error.
type WriterStatus int

const (
	WritingStatusLine WriterStatus = iota + 1
	WritingHeaders
	WritingBody
	WritingDone
)

var writerStatusName = map[WriterStatus]string{
	WritingStatusLine: "WRITING_STATUS_LINE",
	WritingHeaders:    "WRITING_HEADERS",
	WritingBody:       "WRITING_BODY",
	WritingDone:       "DONE",
}

// String implements fmt.Stringer.
func (s WriterStatus) String() string {
	if name, ok := writerStatusName[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Writer incrementally writes one HTTP/1.x response to an underlying
// connection, tracking which section comes next.
type Writer struct {
	conn   io.Writer
	status WriterStatus
	// chunked is set once WriteHeaders sees Transfer-Encoding: chunked,
	// so WriteBody knows to wrap each call in chunk framing.
	chunked bool
}

// NewWriter returns a Writer over conn, expecting a status line first.
func NewWriter(conn io.Writer) *Writer {
	return &Writer{conn: conn, status: WritingStatusLine}
}

// GetDefaultHeaders returns a header set with Content-Length, Connection,
// and Content-Type populated with reasonable defaults for a fixed-length
// text response of the given length.
func GetDefaultHeaders(contentLen int) *headers.Headers {
	h := headers.New()
	h.Set("Content-Length", fmt.Sprintf("%d", contentLen))
	h.Set("Connection", "close")
	h.Set("Content-Type", "text/plain")
	return h
}

// WriteStatusLine writes "HTTP/1.1 CODE REASON\r\n". reason may be empty,
// in which case the standard IANA reason phrase for code is substituted.
func (w *Writer) WriteStatusLine(statusCode int, reason string) error {
	if w.status != WritingStatusLine {
		return fmt.Errorf("response: WriteStatusLine called in state %s", w.status)
	}
	if reason == "" {
		reason = message.ReasonPhrase(statusCode)
	}
	if _, err := fmt.Fprintf(w.conn, "HTTP/1.1 %d %s\r\n", statusCode, reason); err != nil {
		return err
	}
	w.status = WritingHeaders
	return nil
}

// WriteHeaders writes every entry in h, in order, terminated by the
// empty line that ends the header block. A Transfer-Encoding: chunked
// entry switches subsequent WriteBody calls into chunk framing.
func (w *Writer) WriteHeaders(h *headers.Headers) error {
	if w.status != WritingHeaders {
		return fmt.Errorf("response: WriteHeaders called in state %s", w.status)
	}
	if h != nil {
		if te, ok := h.Get("Transfer-Encoding"); ok && containsToken(te, "chunked") {
			w.chunked = true
		}
		if _, err := w.conn.Write(h.ToBytes()); err != nil {
			return err
		}
	} else if _, err := io.WriteString(w.conn, "\r\n"); err != nil {
		return err
	}
	w.status = WritingBody
	return nil
}

func containsToken(list, token string) bool {
	start := 0
	for i := 0; i <= len(list); i++ {
		if i == len(list) || list[i] == ',' {
			part := trimSpace(list[start:i])
			if part == token {
				return true
			}
			start = i + 1
		}
	}
	return false
}

func trimSpace(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		s = s[:len(s)-1]
	}
	return s
}

// WriteBody writes p as-is (identity framing), or as one wire chunk when
// WriteHeaders saw Transfer-Encoding: chunked. An empty p writes nothing.
func (w *Writer) WriteBody(p []byte) (int, error) {
	if w.status != WritingBody {
		return 0, fmt.Errorf("response: WriteBody called in state %s", w.status)
	}
	if !w.chunked {
		return w.conn.Write(p)
	}
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := fmt.Fprintf(w.conn, "%x\r\n", len(p)); err != nil {
		return 0, err
	}
	if _, err := w.conn.Write(p); err != nil {
		return 0, err
	}
	if _, err := io.WriteString(w.conn, "\r\n"); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteChunkedBody writes the whole of body as chunkSize-byte wire
// chunks, followed by the terminating "0\r\n\r\n". It is a convenience
// for callers that have the entire body in memory; for streamed bodies,
// use WriteBody per chunk and Close to terminate.
func (w *Writer) WriteChunkedBody(body []byte, chunkSize int) error {
	if w.status != WritingBody {
		return fmt.Errorf("response: WriteChunkedBody called in state %s", w.status)
	}
	return message.WriteChunkedBody(w.conn, body, chunkSize)
}

// Close writes the terminating "0\r\n\r\n" for a chunked body written
// incrementally via WriteBody, and marks the response done.
func (w *Writer) Close() error {
	if w.status != WritingBody {
		return fmt.Errorf("response: Close called in state %s", w.status)
	}
	_, err := io.WriteString(w.conn, "0\r\n\r\n")
	w.status = WritingDone
	return err
}
