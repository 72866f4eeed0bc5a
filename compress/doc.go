// Package compress provides compression and decompression codecs for
// whole blackbox log segments.
//
// A logging tool is free to compress a segment's bytes (textual header and
// binary body together) before writing them to storage. Package segment
// sniffs the leading magic bytes of a candidate segment to pick the
// matching codec from here before the decompressed bytes are handed to the
// header parser and the stream package's record iterator.
//
// # Supported algorithms
//
//   - None (format.CompressionNone): no compression, zero overhead
//   - Gzip (format.CompressionGzip): universal, moderate ratio and speed
//   - Zstd (format.CompressionZstd): best ratio, moderate speed
//   - S2 (format.CompressionS2): balanced ratio and speed
//   - LZ4 (format.CompressionLZ4): fastest decompression
//
// # Architecture
//
// Compressor and Decompressor are separate interfaces so an implementation
// can have asymmetric performance characteristics; Codec composes both.
// CreateCodec and GetCodec resolve a format.CompressionType to its codec.
//
// All codecs are safe for concurrent use: the zstd codec pools its
// encoders and decoders internally (klauspost/compress/zstd's own
// recommendation, since a fresh decoder has allocation overhead on its
// first use), and the others hold no mutable state at all.
package compress
