// Package codec implements the eight field encodings used by the blackbox
// wire format. Each codec consumes its encoding's share of the byte stream
// and yields one or more signed residual values, widened to int64.
//
// Tag2_3S32 and Tag8_4S16 always decode their full fixed width (3 and 4
// values respectively) regardless of the grouped field count recorded in
// the schema; Tag8_8SVB is the only grouped encoding with a variable yield
// count. This mirrors the reference decoder, which never trims a triple or
// quadruple to the number of fields actually declared for a trailing
// partial group.
package codec

import (
	"encoding/binary"

	"github.com/flightlog/blackbox/errs"
	"github.com/flightlog/blackbox/format"
	"github.com/flightlog/blackbox/internal/varint"
)

var le = binary.LittleEndian

// Grouped describes one entry of a schema's grouped encoding list: the
// codec kind and the number of declared fields it was folded from.
type Grouped struct {
	Kind format.RawEncoding
	N    int
}

// Decode runs the codec named by g against data, appending its decoded
// residual values to dst and returning the extended slice along with the
// number of bytes consumed.
func Decode(g Grouped, data []byte, dst []int64) ([]int64, int, error) {
	switch g.Kind {
	case format.RawNull:
		return append(dst, 0), 0, nil
	case format.RawUnsignedVB:
		v, n, err := varint.ReadUvarint(data)
		if err != nil {
			return dst, n, err
		}

		return append(dst, int64(v)), n, nil
	case format.RawSignedVB:
		v, n, err := varint.ReadUvarint(data)
		if err != nil {
			return dst, n, err
		}

		return append(dst, int64(varint.ZigZagDecode(v))), n, nil
	case format.RawNegative14BitVB:
		v, n, err := varint.ReadUvarint(data)
		if err != nil {
			return dst, n, err
		}

		return append(dst, int64(varint.Negative14BitDecode(v))), n, nil
	case format.RawTag8_8SVB:
		return decodeTag8_8SVB(g.N, data, dst)
	case format.RawTag2_3S32:
		return decodeTag2_3S32(data, dst)
	case format.RawTag8_4S16:
		return decodeTag8_4S16(data, dst)
	case format.RawTag2_3SVariable:
		return dst, 0, errs.ErrUnimplementedEncoding
	default:
		return dst, 0, errs.ErrSoftFrame
	}
}

func decodeTag8_8SVB(n int, data []byte, dst []int64) ([]int64, int, error) {
	if n == 1 {
		v, consumed, err := varint.ReadUvarint(data)
		if err != nil {
			return dst, consumed, err
		}

		return append(dst, int64(varint.ZigZagDecode(v))), consumed, nil
	}

	if len(data) < 1 {
		return dst, 0, errs.ErrIncomplete
	}

	selector := data[0]
	pos := 1

	for i := 0; i < n; i++ {
		if selector&(1<<uint(i)) == 0 {
			dst = append(dst, 0)
			continue
		}

		v, consumed, err := varint.ReadUvarint(data[pos:])
		if err != nil {
			return dst, pos + consumed, err
		}

		dst = append(dst, int64(varint.ZigZagDecode(v)))
		pos += consumed
	}

	return dst, pos, nil
}

func decodeTag2_3S32(data []byte, dst []int64) ([]int64, int, error) {
	if len(data) < 1 {
		return dst, 0, errs.ErrIncomplete
	}

	header := data[0]
	mode := header >> 6

	switch mode {
	case 0b00:
		v0 := varint.SignExtend(int64(header>>4)&0x3, 2)
		v1 := varint.SignExtend(int64(header>>2)&0x3, 2)
		v2 := varint.SignExtend(int64(header)&0x3, 2)

		return append(dst, v0, v1, v2), 1, nil

	case 0b01:
		if len(data) < 2 {
			return dst, 0, errs.ErrIncomplete
		}

		b2 := data[1]
		v0 := varint.SignExtend(int64(header)&0xf, 4)
		v1 := varint.SignExtend(int64(b2>>4)&0xf, 4)
		v2 := varint.SignExtend(int64(b2)&0xf, 4)

		return append(dst, v0, v1, v2), 2, nil

	case 0b10:
		if len(data) < 4 {
			return dst, 0, errs.ErrIncomplete
		}

		v0 := varint.SignExtend(int64(data[1])&0x3f, 6)
		v1 := varint.SignExtend(int64(data[2])&0x3f, 6)
		v2 := varint.SignExtend(int64(data[3])&0x3f, 6)

		return append(dst, v0, v1, v2), 4, nil

	default: // 0b11
		selectors := [3]uint8{header & 0x3, (header >> 2) & 0x3, (header >> 4) & 0x3}
		pos := 1

		var values [3]int64
		for i, sel := range selectors {
			v, n, err := readSelectedWidth(sel, data[pos:])
			if err != nil {
				return dst, pos, err
			}

			values[i] = v
			pos += n
		}

		return append(dst, values[0], values[1], values[2]), pos, nil
	}
}

// readSelectedWidth decodes one little-endian signed value of the width
// named by selector: 0->i8, 1->i16, 2->i24, 3->i32.
func readSelectedWidth(selector uint8, data []byte) (int64, int, error) {
	switch selector {
	case 0:
		if len(data) < 1 {
			return 0, 0, errs.ErrIncomplete
		}

		return int64(int8(data[0])), 1, nil
	case 1:
		if len(data) < 2 {
			return 0, 0, errs.ErrIncomplete
		}

		return int64(int16(le.Uint16(data))), 2, nil
	case 2:
		if len(data) < 3 {
			return 0, 0, errs.ErrIncomplete
		}

		// encoding/binary has no 24-bit primitive; widen through a 4-byte
		// buffer and sign-extend from bit 23.
		v := le.Uint32([]byte{data[0], data[1], data[2], 0})

		return varint.SignExtend(int64(v), 24), 3, nil
	default: // 3 -> i32
		if len(data) < 4 {
			return 0, 0, errs.ErrIncomplete
		}

		return int64(int32(le.Uint32(data))), 4, nil
	}
}

func decodeTag8_4S16(data []byte, dst []int64) ([]int64, int, error) {
	if len(data) < 1 {
		return dst, 0, errs.ErrIncomplete
	}

	selectors := data[0]
	widths := [4]uint8{selectors & 0x3, (selectors >> 2) & 0x3, (selectors >> 4) & 0x3, (selectors >> 6) & 0x3}

	nibbleCounts := [4]uint8{}
	var totalNibbles uint8
	for i, w := range widths {
		n := nNibbles(w)
		nibbleCounts[i] = n
		totalNibbles += n
	}

	totalBytes := int((totalNibbles + 1) / 2)
	if len(data) < 1+totalBytes {
		return dst, 0, errs.ErrIncomplete
	}

	payload := data[1 : 1+totalBytes]

	var currentNibble uint8
	for _, nibbles := range nibbleCounts {
		v := readNibbles(currentNibble, nibbles, payload)
		dst = append(dst, int64(v))
		currentNibble += nibbles
	}

	return dst, 1 + totalBytes, nil
}

func nNibbles(selector uint8) uint8 {
	switch selector {
	case 0b00:
		return 0
	case 0b01:
		return 1
	case 0b10:
		return 2
	default: // 0b11
		return 4
	}
}

// readNibbles reads nibblesToRead nibbles starting at nibble offset
// currentNibble (high-nibble-first packing), assembling them most
// significant first and sign-extending the result from its nibble width.
func readNibbles(currentNibble, nibblesToRead uint8, bytes []byte) int16 {
	var v int16

	readPos := currentNibble
	remaining := nibblesToRead

	for remaining > 0 {
		b := bytes[readPos/2]

		var nibble byte
		if readPos%2 == 0 {
			nibble = b >> 4
		} else {
			nibble = b
		}

		v = (v << 4) | int16(nibble&0x0f)
		readPos++
		remaining--
	}

	if nibblesToRead == 0 {
		return 0
	}

	return int16(varint.SignExtend(int64(v), uint(nibblesToRead)*4))
}
