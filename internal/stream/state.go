package stream

// State is one value of the parser's state machine.
type State int

const (
	// StateIdle is waiting for the first bytes of a new message.
	StateIdle State = iota
	// StateRequestLine is tokenizing a request line.
	StateRequestLine
	// StateStatusLine is tokenizing a status line.
	StateStatusLine
	// StateHeaders is scanning the header block.
	StateHeaders
	// StateBodyContentLength is reading a Content-Length-framed body.
	StateBodyContentLength
	// StateBodyChunkedSize is reading a chunk-size line.
	StateBodyChunkedSize
	// StateBodyChunkedData is reading chunk data bytes.
	StateBodyChunkedData
	// StateBodyChunkedTrailer is scanning the chunked-body trailer.
	StateBodyChunkedTrailer
	// StateComplete means a message has just been fully parsed.
	StateComplete
	// StateError is terminal until Reset is called.
	StateError
)

var stateNames = map[State]string{
	StateIdle:               "IDLE",
	StateRequestLine:        "REQUEST_LINE",
	StateStatusLine:         "STATUS_LINE",
	StateHeaders:            "HEADERS",
	StateBodyContentLength:  "BODY_CONTENT_LENGTH",
	StateBodyChunkedSize:    "BODY_CHUNKED_SIZE",
	StateBodyChunkedData:    "BODY_CHUNKED_DATA",
	StateBodyChunkedTrailer: "BODY_CHUNKED_TRAILER",
	StateComplete:           "COMPLETE",
	StateError:              "ERROR",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}
