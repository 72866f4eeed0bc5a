// Package blackbox decodes Blackbox flight-data logs produced by small-craft
// flight controllers (Betaflight, INAV, Emuflight derivatives): a textual
// header declaring the log's schema followed by an opaque binary body of
// variable-length records.
//
// Reader composes the package's lower layers into a single entry point:
// segment for container-compression detection, section for the header
// parser, and stream for the body record iterator.
package blackbox

import (
	"github.com/flightlog/blackbox/format"
	"github.com/flightlog/blackbox/internal/options"
	"github.com/flightlog/blackbox/section"
	"github.com/flightlog/blackbox/segment"
	"github.com/flightlog/blackbox/stream"
)

// Record is a decoded body record. It's a type alias for stream.Record so
// callers never need to import the stream package directly.
type Record = stream.Record

// Schema is the parsed header. It's a type alias for section.Schema.
type Schema = section.Schema

// readerConfig holds a Reader's configuration, built up by ReaderOption
// before NewReader constructs the Reader itself.
type readerConfig struct {
	strictness format.Strictness
}

// ReaderOption configures a Reader at construction time.
type ReaderOption = options.Option[*readerConfig]

// WithStrictness sets how the record iterator reacts to a soft decode
// error (format.Lenient, the default, or format.Strict).
func WithStrictness(s format.Strictness) ReaderOption {
	return options.NoError(func(c *readerConfig) {
		c.strictness = s
	})
}

// Reader decodes one blackbox log segment: a container-compressed or plain
// byte slice holding exactly one textual header followed by its binary
// body. Use segment.FindBoundaries first to split a concatenated
// multi-segment log into the individual byte ranges this constructor
// expects.
type Reader struct {
	schema  *section.Schema
	decoder *stream.Decoder
}

// NewReader decompresses data if it carries a recognized container
// compression magic, parses its textual header, and returns a Reader
// positioned at the first body record.
func NewReader(data []byte, opts ...ReaderOption) (*Reader, error) {
	cfg := &readerConfig{strictness: format.Lenient}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	plain, err := segment.Decompress(data)
	if err != nil {
		return nil, err
	}

	schema, n, err := section.ParseHeader(plain)
	if err != nil {
		return nil, err
	}

	return &Reader{
		schema:  schema,
		decoder: stream.NewDecoder(schema, plain[n:], cfg.strictness),
	}, nil
}

// Schema returns the log's parsed header.
func (r *Reader) Schema() *section.Schema {
	return r.schema
}

// Next returns the next decoded record. A Record with Kind ==
// format.RecordNone, nil marks the end of the segment (or a truncated
// trailing frame); any other non-nil error is a fatal protocol violation,
// or a soft decode error surfaced because the Reader was built with
// WithStrictness(format.Strict).
func (r *Reader) Next() (Record, error) {
	return r.decoder.Next()
}
