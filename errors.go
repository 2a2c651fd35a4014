package phuffman

import "errors"

// Sentinel errors for the conditions named in the container format and
// the parallel encode/decode contract. Match with errors.Is.
var (
	// ErrBadHeader is returned when a container is too short to parse
	// its fixed-size header fields.
	ErrBadHeader = errors.New("phuffman: bad header")

	// ErrMalformedTable is returned when a code table entry collides
	// with an earlier one, or a code length exceeds what the
	// container's one-byte length field can represent.
	ErrMalformedTable = errors.New("phuffman: malformed code table")

	// ErrTruncated is returned when the bit-stream is exhausted before
	// the declared decoded byte count has been emitted.
	ErrTruncated = errors.New("phuffman: truncated bit-stream")

	// ErrBadArgs is returned for invalid call arguments, such as a nil
	// Coordinator or a negative worker count.
	ErrBadArgs = errors.New("phuffman: bad arguments")
)
