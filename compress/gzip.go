package compress

import (
	"bytes"
	"io"

	"github.com/flightlog/blackbox/internal/pool"
	"github.com/klauspost/compress/gzip"
)

// GzipCompressor provides gzip compression for segment bytes, chosen when a
// log was captured by tooling that already speaks the universal gzip magic
// (0x1f 0x8b) rather than one of the faster but less ubiquitous codecs.
type GzipCompressor struct{}

var _ Codec = (*GzipCompressor)(nil)

// NewGzipCompressor creates a new gzip compressor.
func NewGzipCompressor() GzipCompressor {
	return GzipCompressor{}
}

// Compress compresses data using gzip at the default level.
func (c GzipCompressor) Compress(data []byte) ([]byte, error) {
	bb := pool.GetSegmentBuffer()
	defer pool.PutSegmentBuffer(bb)

	w := gzip.NewWriter(bb)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())

	return out, nil
}

// Decompress decompresses gzip-compressed data.
func (c GzipCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}
