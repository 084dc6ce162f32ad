package stream

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParserErrorCode classifies why a parse failed.
type ParserErrorCode int

const (
	// ErrUnknown is the zero value; it should never be observed on an
	// error actually returned by the parser.
	ErrUnknown ParserErrorCode = iota
	ErrInvalidMethod
	ErrInvalidVersion
	ErrInvalidTarget
	ErrInvalidStatusCode
	ErrInvalidHeader
	ErrHeaderNameTooLong
	ErrHeaderValueTooLong
	ErrTooManyHeaders
	ErrInvalidContentLength
	ErrBodyTooLarge
	ErrInvalidChunkSize
	ErrIncompleteChunk
	ErrInvalidChunkTrailer
	ErrTimeout
	ErrConnectionClosed
)

var codeNames = map[ParserErrorCode]string{
	ErrUnknown:              "UNKNOWN",
	ErrInvalidMethod:        "INVALID_METHOD",
	ErrInvalidVersion:       "INVALID_VERSION",
	ErrInvalidTarget:        "INVALID_TARGET",
	ErrInvalidStatusCode:    "INVALID_STATUS_CODE",
	ErrInvalidHeader:        "INVALID_HEADER",
	ErrHeaderNameTooLong:    "HEADER_NAME_TOO_LONG",
	ErrHeaderValueTooLong:   "HEADER_VALUE_TOO_LONG",
	ErrTooManyHeaders:       "TOO_MANY_HEADERS",
	ErrInvalidContentLength: "INVALID_CONTENT_LENGTH",
	ErrBodyTooLarge:         "BODY_TOO_LARGE",
	ErrInvalidChunkSize:     "INVALID_CHUNK_SIZE",
	ErrIncompleteChunk:      "INCOMPLETE_CHUNK",
	ErrInvalidChunkTrailer:  "INVALID_CHUNK_TRAILER",
	ErrTimeout:              "TIMEOUT",
	ErrConnectionClosed:     "CONNECTION_CLOSED",
}

// String implements fmt.Stringer.
func (c ParserErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParserError is the value the parser produces on a fatal condition. It
// carries enough context (code, message, state, position, detail) for a
// caller to decide how to react without re-parsing.
type ParserError struct {
	Code    ParserErrorCode
	Message string
	State   State
	Pos     int
	Detail  string

	cause error
}

// Error implements the error interface.
func (e *ParserError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("http: %s in state %s at byte %d: %s (%s)", e.Code, e.State, e.Pos, e.Message, e.Detail)
	}
	return fmt.Sprintf("http: %s in state %s at byte %d: %s", e.Code, e.State, e.Pos, e.Message)
}

// Unwrap exposes the lower-layer error (from internal/startline,
// internal/headerblock, or internal/chunked) that caused this
// ParserError, so callers can use errors.Is/As against it.
func (e *ParserError) Unwrap() error { return e.cause }

// newParserError builds a ParserError from a lower-layer cause, wrapping
// it with pkg/errors so the stored cause carries a stack trace captured
// at the point of failure.
func newParserError(code ParserErrorCode, state State, pos int, cause error) *ParserError {
	wrapped := errors.Wrap(cause, code.String())
	return &ParserError{
		Code:    code,
		Message: "failed to parse message",
		State:   state,
		Pos:     pos,
		Detail:  cause.Error(),
		cause:   wrapped,
	}
}
