// Package varint implements the wire-level integer primitives shared by
// every field codec in the blackbox decoder: the five-byte little-endian
// unsigned varint, zigzag decoding, arbitrary-width sign extension, and the
// 14-bit negative varint used by Negative14BitVB.
package varint

import "github.com/flightlog/blackbox/errs"

// maxBytes bounds the unsigned varint at five payload bytes (35 encodable
// bits), matching the reference decoder's hard limit.
const maxBytes = 5

// ReadUvarint decodes a little-endian base-128 varint from the front of
// data. It returns the decoded value, the number of bytes consumed, and
// errs.ErrIncomplete if data runs out before a terminating byte, or
// errs.ErrVarintTooLong if a sixth continuation byte would be required.
func ReadUvarint(data []byte) (value uint32, n int, err error) {
	for i := 0; i < maxBytes; i++ {
		if i >= len(data) {
			return 0, i, errs.ErrIncomplete
		}

		b := data[i]
		value |= uint32(b&0x7f) << (uint(i) * 7)

		if b&0x80 == 0 {
			return value, i + 1, nil
		}
	}

	return 0, maxBytes, errs.ErrVarintTooLong
}

// ZigZagDecode maps an unsigned varint payload back to a signed 32-bit
// value: (n >> 1) XOR -(n & 1).
func ZigZagDecode(n uint32) int32 {
	return int32(n>>1) ^ -int32(n&1)
}

// SignExtend replicates bit k-1 of x (the sign bit of a k-bit two's
// complement value) across all higher-order bits of the returned int64.
func SignExtend(x int64, bits uint) int64 {
	shift := 64 - bits
	return (x << shift) >> shift
}

// Negative14BitDecode implements the decode rule for Negative14BitVB: take
// the low 14 bits of word, sign-extend from bit 13, then negate.
func Negative14BitDecode(word uint32) int32 {
	extended := int32(SignExtend(int64(word&0x3fff), 14))
	return -extended
}
