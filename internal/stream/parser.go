// Package stream implements the streaming parser state machine (spec
// §4.5): the piece that ties the tokenizers in internal/startline,
// internal/headerblock, internal/chunked, and internal/headers together
// into something that can be fed arbitrary byte fragments — one at a
// time, a network read at a time, or the whole message at once — and
// emits fully parsed internal/message.Message values as soon as their
// bytes are present.
//
// A Parser never performs I/O itself. Callers own the socket or reader
// and hand bytes to Parse; the Parser owns only the in-progress buffer
// and state needed to resume correctly across calls.
package stream

import (
	"fmt"

	"github.com/valyala/bytebufferpool"

	"github.com/yourusername/httpwire/internal/chunked"
	"github.com/yourusername/httpwire/internal/config"
	"github.com/yourusername/httpwire/internal/headerblock"
	"github.com/yourusername/httpwire/internal/headers"
	"github.com/yourusername/httpwire/internal/message"
	"github.com/yourusername/httpwire/internal/startline"
	"github.com/yourusername/httpwire/internal/token"
)

// Parser incrementally parses a stream of HTTP/1.x messages, sniffing
// each message's kind from its first bytes: a start-line beginning with
// "HTTP" is a status line (a response), anything else is a request line.
type Parser struct {
	cfg *config.Config

	buf     *bytebufferpool.ByteBuffer
	pos     int // offset of the first unconsumed byte within buf.B
	partial int // bytes of the in-progress message already consumed from buf

	state State
	cur   *message.Message
	dec   *chunked.Decoder

	lastErr *ParserError
}

// New returns a Parser governed by cfg. A nil cfg uses config.Default().
func New(cfg *config.Config) *Parser {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Parser{
		cfg:   cfg,
		buf:   bytebufferpool.Get(),
		state: StateIdle,
	}
}

// Reset returns the Parser to its initial state, ready for a new
// connection's bytes. The internal buffer is released back to its pool.
func (p *Parser) Reset() {
	bytebufferpool.Put(p.buf)
	p.buf = bytebufferpool.Get()
	p.pos = 0
	p.partial = 0
	p.state = StateIdle
	p.cur = nil
	p.dec = nil
	p.lastErr = nil
}

// GetState returns the parser's current state.
func (p *Parser) GetState() State { return p.state }

// GetBufferedBytes returns the number of bytes held but not yet consumed
// into a completed message.
func (p *Parser) GetBufferedBytes() int { return len(p.buf.B) - p.pos + p.partial }

// GetLastError returns the error that moved the parser into StateError,
// or nil if it has not failed.
func (p *Parser) GetLastError() *ParserError { return p.lastErr }

// Parse feeds data to the parser and returns every message that became
// complete as a result, in the order their final bytes arrived. data may
// be empty, a single byte, a whole message, or several pipelined
// messages; Parse returns as many Messages as are fully present, or at
// most one per call when the config's EnablePipelining is false.
//
// Once the parser enters StateError it stays there until Reset: Parse
// returns the same error on every subsequent call without looking at
// data.
func (p *Parser) Parse(data []byte) ([]*message.Message, error) {
	if p.state == StateError {
		return nil, p.lastErr
	}
	if len(data) > 0 {
		p.buf.Write(data)
	}

	var out []*message.Message

	for {
		switch p.state {
		case StateIdle:
			kind, ok := sniffKind(p.buf.B, p.pos, len(p.buf.B))
			if !ok {
				p.compact()
				return out, nil
			}
			p.cur = &message.Message{Kind: kind, ContentLength: -1}
			if kind == message.Request {
				p.state = StateRequestLine
			} else {
				p.state = StateStatusLine
			}

		case StateRequestLine:
			rl, consumed, result, err := startline.ParseRequestLine(p.buf.B, p.pos, len(p.buf.B))
			switch result {
			case startline.NeedMoreData:
				p.compact()
				return out, nil
			case startline.Invalid:
				return out, p.fail(startLineErrorCode(err, ErrInvalidMethod), err)
			}
			p.pos += consumed
			p.partial += consumed
			p.cur.RequestLine = message.RequestLine(rl)
			p.cur.Headers = headers.New()
			p.state = StateHeaders

		case StateStatusLine:
			sl, consumed, result, err := startline.ParseStatusLine(p.buf.B, p.pos, len(p.buf.B))
			switch result {
			case startline.NeedMoreData:
				p.compact()
				return out, nil
			case startline.Invalid:
				return out, p.fail(startLineErrorCode(err, ErrInvalidStatusCode), err)
			}
			p.pos += consumed
			p.partial += consumed
			p.cur.StatusLine = message.StatusLine(sl)
			p.cur.Headers = headers.New()
			p.state = StateHeaders

		case StateHeaders:
			limits := headerblock.Limits{
				MaxHeaders:               p.cfg.MaxHeaders,
				MaxHeaderLineLength:      p.cfg.MaxHeaderLineLength,
				ValidateHeaderNames:      p.cfg.ValidateHeaderNames,
				ValidateHeaderValues:     p.cfg.ValidateHeaderValues,
				AllowUnderscoreInHeaders: p.cfg.AllowUnderscoreInHeaders,
			}
			consumed, done, err := headerblock.ParseBlock(p.cur.Headers, p.buf.B, p.pos, len(p.buf.B), limits)
			p.pos += consumed
			p.partial += consumed
			if err != nil {
				return out, p.fail(ErrInvalidHeader, err)
			}
			if !done {
				p.compact()
				return out, nil
			}
			if err := p.startBody(); err != nil {
				return out, err
			}

		case StateBodyContentLength:
			avail := int64(len(p.buf.B) - p.pos)
			need := p.cur.ContentLength - int64(len(p.cur.Body))
			take := need
			if avail < take {
				take = avail
			}
			if take > 0 {
				p.cur.Body = append(p.cur.Body, p.buf.B[p.pos:p.pos+int(take)]...)
				p.pos += int(take)
				p.partial += int(take)
			}
			if int64(len(p.cur.Body)) >= p.cur.ContentLength {
				p.state = StateComplete
			} else {
				p.compact()
				return out, nil
			}

		case StateBodyChunkedSize, StateBodyChunkedData, StateBodyChunkedTrailer:
			consumed, done, err := p.dec.Feed(p.buf.B, p.pos, len(p.buf.B))
			p.pos += consumed
			p.partial += consumed
			if err != nil {
				return out, p.fail(ErrInvalidChunkSize, err)
			}
			p.syncChunkedState()
			if !done {
				p.compact()
				return out, nil
			}
			p.cur.Body = p.dec.Body()
			p.state = StateComplete

		case StateComplete:
			p.finalizeKeepAlive()
			out = append(out, p.cur)
			p.cur = nil
			p.dec = nil
			p.partial = 0
			p.state = StateIdle
			if !p.cfg.EnablePipelining {
				p.compact()
				return out, nil
			}

		case StateError:
			return out, p.lastErr
		}
	}
}

// startBody decides the body framing from the headers just parsed and
// advances state accordingly. Transfer-Encoding: chunked takes priority
// over Content-Length when both are present.
func (p *Parser) startBody() error {
	if te, ok := p.cur.Headers.Get("Transfer-Encoding"); ok && isChunked(te) {
		p.cur.TransferEncoding = message.Chunked
		p.dec = chunked.NewDecoder(p.cfg.MaxChunkSize, p.cfg.MaxChunks, p.cfg.MaxBodySize)
		p.state = StateBodyChunkedSize
		return nil
	}

	if cl, ok := p.cur.Headers.Get("Content-Length"); ok {
		n, valid := token.ContentLength(cl)
		if !valid {
			return p.fail(ErrInvalidContentLength, fmt.Errorf("malformed Content-Length: %q", cl))
		}
		if n > p.cfg.MaxBodySize {
			return p.fail(ErrBodyTooLarge, fmt.Errorf("declared Content-Length %d exceeds limit %d", n, p.cfg.MaxBodySize))
		}
		p.cur.TransferEncoding = message.ContentLengthEncoding
		p.cur.ContentLength = n
		if n == 0 {
			p.state = StateComplete
			return nil
		}
		p.cur.Body = make([]byte, 0, n)
		p.state = StateBodyContentLength
		return nil
	}

	p.cur.TransferEncoding = message.Identity
	p.cur.ContentLength = 0
	p.state = StateComplete
	return nil
}

// sniffKind reports which kind of start-line buf[pos:end] begins, per
// spec §4.5's IDLE transition rule: a start-line opening with "HTTP" is
// a status line, anything else is a request line. It returns ok=false
// if fewer than 4 bytes are buffered, in which case the caller must
// wait for more data before committing to either interpretation.
func sniffKind(buf []byte, pos, end int) (message.Kind, bool) {
	if end-pos < 4 {
		return 0, false
	}
	if buf[pos] == 'H' && buf[pos+1] == 'T' && buf[pos+2] == 'T' && buf[pos+3] == 'P' {
		return message.Response, true
	}
	return message.Request, true
}

// startLineErrorCode maps a start-line tokenizer error naming a bad
// version or request-target to its specific code; every other tokenizer
// error gets fallback.
func startLineErrorCode(err error, fallback ParserErrorCode) ParserErrorCode {
	if se, ok := err.(*startline.Error); ok {
		switch se.Message {
		case "invalid version":
			return ErrInvalidVersion
		case "invalid request-target":
			return ErrInvalidTarget
		}
	}
	return fallback
}

func isChunked(transferEncoding string) bool {
	// The last coding in the list governs framing: the value counts as
	// chunked when it ends in "chunked" (ASCII case-insensitive), so a
	// list such as "gzip, chunked" is recognized too. Other codings are
	// not decoded.
	return len(transferEncoding) >= 7 && equalFoldASCII(transferEncoding[len(transferEncoding)-7:], "chunked")
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// syncChunkedState mirrors the decoder's internal phase onto the
// parser's externally visible state, so GetState reports
// BODY_CHUNKED_SIZE/DATA/TRAILER precisely rather than a single opaque
// "chunked" bucket.
func (p *Parser) syncChunkedState() {
	switch p.dec.Phase() {
	case chunked.PhaseSize:
		p.state = StateBodyChunkedSize
	case chunked.PhaseData, chunked.PhaseDataCRLF:
		p.state = StateBodyChunkedData
	case chunked.PhaseTrailer:
		p.state = StateBodyChunkedTrailer
	case chunked.PhaseDone:
		p.state = StateComplete
	}
}

// finalizeKeepAlive applies the Connection-header / version defaulting
// rule: HTTP/1.1 defaults to keep-alive unless "Connection: close" is
// present; HTTP/1.0 defaults to close unless "Connection: keep-alive" is
// present.
func (p *Parser) finalizeKeepAlive() {
	version := p.cur.RequestLine.Version
	if p.cur.Kind == message.Response {
		version = p.cur.StatusLine.Version
	}

	conn, has := p.cur.Headers.Get("Connection")
	switch {
	case version == "HTTP/1.0":
		p.cur.KeepAlive = has && equalFoldASCII(conn, "keep-alive")
	default:
		p.cur.KeepAlive = !(has && equalFoldASCII(conn, "close"))
	}
}

// fail transitions the parser into its terminal error state and records
// the ParserError that GetLastError will subsequently return. cause is
// the lower-layer error from internal/startline, internal/headerblock,
// or internal/chunked.
func (p *Parser) fail(code ParserErrorCode, cause error) error {
	perr := newParserError(code, p.state, p.pos, cause)
	p.lastErr = perr
	p.state = StateError
	return perr
}

// compact discards already-consumed bytes from the front of the buffer
// whenever there are any, so a long-lived connection does not grow its
// buffer unboundedly across many small messages.
func (p *Parser) compact() {
	if p.pos == 0 {
		return
	}
	if p.pos == len(p.buf.B) {
		p.buf.Reset()
		p.pos = 0
		return
	}
	remaining := len(p.buf.B) - p.pos
	copy(p.buf.B[:remaining], p.buf.B[p.pos:])
	p.buf.B = p.buf.B[:remaining]
	p.pos = 0
}
