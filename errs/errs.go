// Package errs collects the sentinel errors returned by the blackbox
// decoder, grouped by the error kinds described in the specification:
// header parsing, missing required fields, truncation, and frame-level
// soft/fatal failures.
package errs

import "errors"

// Header parsing errors. All are fatal to the segment.
var (
	ErrMalformedHeaderLine  = errors.New("blackbox: malformed header line")
	ErrUnknownFieldClass    = errors.New("blackbox: unknown field class in header key")
	ErrInvalidInteger       = errors.New("blackbox: invalid integer in header value")
	ErrInvalidRatio         = errors.New("blackbox: invalid rational in header value")
	ErrInvalidEncodingCode  = errors.New("blackbox: invalid field encoding code")
	ErrInvalidPredictorCode = errors.New("blackbox: invalid field predictor code")
	ErrMissingRequiredKey   = errors.New("blackbox: missing required header key")
	ErrFieldCountMismatch   = errors.New("blackbox: I and P field lists have different lengths")
	ErrGroupWidthExceeded   = errors.New("blackbox: grouped encoding exceeds its maximum width")
)

// ErrMissingLoopIterationOrTime is fatal: the main field list must declare
// both "loopIteration" and "time".
var ErrMissingLoopIterationOrTime = errors.New("blackbox: main field list is missing loopIteration or time")

// ErrIncomplete signals the byte stream ended mid-header or mid-frame. More
// input could complete the decode; the record iterator surfaces RecordNone.
var ErrIncomplete = errors.New("blackbox: input ends before frame is complete")

// Frame-level errors.
var (
	// ErrSoftFrame marks a body frame that failed to decode for a
	// recoverable reason: unknown leading byte, broken codec payload, or
	// an unknown event code. History is left untouched.
	ErrSoftFrame = errors.New("blackbox: frame failed to decode")
	// ErrVarintTooLong is fatal: a varint exceeded the five-byte limit.
	ErrVarintTooLong = errors.New("blackbox: varint exceeds five bytes")
	// ErrUnimplementedEncoding is fatal: Tag2_3SVariable is declared but
	// never decoded by the reference implementation.
	ErrUnimplementedEncoding = errors.New("blackbox: encoding is declared but not implemented")
)

// Segment/compression errors.
var (
	ErrUnknownCompression = errors.New("blackbox: segment has an unrecognized compression magic")
	ErrShortSegment       = errors.New("blackbox: segment is too short to contain a compression magic")
)
