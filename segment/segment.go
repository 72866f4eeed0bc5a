// Package segment recognizes a stored blackbox log segment's container
// compression and, where one is present, decompresses it in memory before
// handing the resulting bytes to section.ParseHeader and stream.NewDecoder.
//
// This is a layer below the wire format itself: the textual header and
// binary body described by section and stream are always uncompressed on
// the wire once a segment has been decompressed. Compression here is a
// storage-time concern some logging tools apply to the whole segment
// (header and body together), detected by a handful of well-known magic
// byte sequences rather than anything declared in the header.
package segment

import (
	"bytes"

	"github.com/flightlog/blackbox/compress"
	"github.com/flightlog/blackbox/errs"
	"github.com/flightlog/blackbox/format"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// ProductMarker is the literal ASCII substring that opens every blackbox
// segment's header ("H Product:Blackbox..."). FindBoundaries uses it to
// locate where a concatenated log's individual segments begin; chaining a
// fresh decoder at each boundary is left to the caller, since the number
// and lifetime of those decoders is an application concern.
const ProductMarker = "H Product:Blackbox"

// Detect inspects data's leading bytes and reports the container
// compression it was stored under. It never reads past the magic bytes
// themselves. A segment with no recognized magic is reported as
// format.CompressionNone: the blackbox wire format's own textual header
// starts with the ASCII byte 'H', which collides with none of the magics
// checked here.
func Detect(data []byte) format.CompressionType {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return format.CompressionGzip
	case bytes.HasPrefix(data, zstdMagic):
		return format.CompressionZstd
	case bytes.HasPrefix(data, lz4Magic):
		return format.CompressionLZ4
	default:
		return format.CompressionNone
	}
}

// Decompress detects data's container compression and returns the
// decompressed segment bytes (header plus body) ready for
// section.ParseHeader. Uncompressed data is returned unchanged.
func Decompress(data []byte) ([]byte, error) {
	if len(data) > 0 && len(data) < 2 {
		return nil, errs.ErrShortSegment
	}

	codec, err := compress.GetCodec(Detect(data))
	if err != nil {
		return nil, errs.ErrUnknownCompression
	}

	return codec.Decompress(data)
}

// FindBoundaries returns the byte offset of every occurrence of
// ProductMarker in data, in ascending order. A concatenated multi-segment
// log starts a fresh segment at each offset; the first offset is normally
// 0. Returns nil if the marker never occurs.
func FindBoundaries(data []byte) []int {
	var offsets []int

	marker := []byte(ProductMarker)

	for pos := 0; ; {
		idx := bytes.Index(data[pos:], marker)
		if idx < 0 {
			break
		}

		offsets = append(offsets, pos+idx)
		pos += idx + 1
	}

	return offsets
}
