package section

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/flightlog/blackbox/errs"
	"github.com/flightlog/blackbox/format"
)

// ParseHeader consumes the leading run of "H key:value\n" lines from data
// and returns the finalized Schema together with the number of bytes those
// lines occupied. Parsing stops at the first line that isn't "H "
// (the letter followed by a space), which is where the caller should
// resume body-frame decoding: a bare 'H' there is the body's GPS-home
// frame, not another header line, and the first body frame a flight
// controller ever writes is always an I-frame.
func ParseHeader(data []byte) (*Schema, int, error) {
	b := newBuilder()

	pos := 0
	for pos < len(data) {
		if data[pos] != 'H' || pos+1 >= len(data) || data[pos+1] != ' ' {
			break
		}

		nl := bytes.IndexByte(data[pos:], '\n')
		if nl < 0 {
			return nil, pos, errs.ErrIncomplete
		}

		line := data[pos+1 : pos+nl] // drop leading 'H', keep up to but not including '\n'
		pos += nl + 1

		if err := b.applyLine(line); err != nil {
			return nil, pos, err
		}
	}

	schema, err := b.finalize()
	if err != nil {
		return nil, pos, err
	}

	return schema, pos, nil
}

// applyLine parses one header line's body (everything after the leading
// 'H', not including the trailing newline) and folds it into the builder.
func (b *builder) applyLine(line []byte) error {
	s := string(line)
	s = strings.TrimPrefix(s, " ")

	key, value, ok := strings.Cut(s, ":")
	if !ok {
		return errs.ErrMalformedHeaderLine
	}

	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch key {
	case "Product":
		b.product = value
		b.haveProduct = true

		return nil
	case "Data version":
		b.dataVersion = value
		b.haveDataVersion = true

		return nil
	case "I interval":
		n, err := strconv.Atoi(value)
		if err != nil {
			return errs.ErrInvalidInteger
		}

		b.iInterval = n
		b.haveIInterval = true

		return nil
	case "P interval":
		r, err := parseRatio(value)
		if err != nil {
			return err
		}

		b.pInterval = r
		b.havePInterval = true

		return nil
	case "P ratio":
		n, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return errs.ErrInvalidInteger
		}

		b.pRatio = uint16(n)

		return nil
	case "gyro_scale":
		bits, err := strconv.ParseUint(strings.TrimPrefix(value, "0x"), 16, 32)
		if err != nil {
			return errs.ErrInvalidInteger
		}

		b.gyroScale = math.Float32frombits(uint32(bits))
		b.haveGyroScale = true

		return nil
	case "looptime":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return errs.ErrInvalidInteger
		}

		b.loopTime = uint32(n)
		b.haveLoopTime = true

		return nil
	}

	if class, attr, ok := parseFieldKey(key); ok {
		return b.applyFieldAttr(class, attr, value)
	}

	b.settings[key] = value

	return nil
}

// parseFieldKey recognizes "Field {I,P,S,G,H} {name,signed,predictor,encoding}"
// and reports the frame class and attribute it names.
func parseFieldKey(key string) (format.FrameClass, string, bool) {
	const prefix = "Field "
	if !strings.HasPrefix(key, prefix) {
		return 0, "", false
	}

	rest := key[len(prefix):]

	sp := strings.IndexByte(rest, ' ')
	if sp < 0 {
		return 0, "", false
	}

	classLetter, attr := rest[:sp], rest[sp+1:]

	var class format.FrameClass
	switch classLetter {
	case "I":
		class = format.ClassI
	case "P":
		class = format.ClassP
	case "S":
		class = format.ClassS
	case "G":
		class = format.ClassG
	case "H":
		class = format.ClassH
	default:
		return 0, "", false
	}

	return class, attr, true
}

// applyFieldAttr appends one column of a field's declaration (a
// comma-separated list across all fields of that class) to the matching
// builder slices.
func (b *builder) applyFieldAttr(class format.FrameClass, attr, value string) error {
	items := strings.Split(value, ",")

	switch attr {
	case "name":
		names := items
		switch class {
		case format.ClassI:
			b.iNames = names
		case format.ClassP:
			b.pNames = names
		case format.ClassS:
			b.sNames = names
		case format.ClassG:
			b.gNames = names
		case format.ClassH:
			b.hNames = names
		}

		return nil

	case "signed":
		signed := make([]bool, len(items))
		for i, it := range items {
			signed[i] = strings.TrimSpace(it) == "1"
		}

		switch class {
		case format.ClassI:
			b.iSigned = signed
		case format.ClassP:
			b.pSigned = signed
		case format.ClassS:
			b.sSigned = signed
		case format.ClassG:
			b.gSigned = signed
		case format.ClassH:
			b.hSigned = signed
		}

		return nil

	case "encoding":
		enc, err := parseEncodingList(items)
		if err != nil {
			return err
		}

		switch class {
		case format.ClassI:
			b.iRawEnc = enc
		case format.ClassP:
			b.pRawEnc = enc
		case format.ClassS:
			b.sRawEnc = enc
		case format.ClassG:
			b.gRawEnc = enc
		case format.ClassH:
			b.hRawEnc = enc
		}

		return nil

	case "predictor":
		pred, err := parsePredictorList(items)
		if err != nil {
			return err
		}

		switch class {
		case format.ClassI:
			b.iPred = pred
		case format.ClassP:
			b.pPred = pred
		case format.ClassS:
			b.sPred = pred
		case format.ClassG:
			b.gPred = pred
		case format.ClassH:
			b.hPred = pred
		}

		return nil
	}

	return fmt.Errorf("%w: %s", errs.ErrUnknownFieldClass, attr)
}

func parseEncodingList(items []string) ([]format.RawEncoding, error) {
	out := make([]format.RawEncoding, len(items))

	for i, it := range items {
		n, err := strconv.ParseUint(strings.TrimSpace(it), 10, 16)
		if err != nil {
			return nil, errs.ErrInvalidEncodingCode
		}

		enc, ok := format.ParseRawEncoding(uint16(n))
		if !ok {
			return nil, errs.ErrInvalidEncodingCode
		}

		out[i] = enc
	}

	return out, nil
}

func parsePredictorList(items []string) ([]format.Predictor, error) {
	out := make([]format.Predictor, len(items))

	for i, it := range items {
		n, err := strconv.ParseUint(strings.TrimSpace(it), 10, 16)
		if err != nil {
			return nil, errs.ErrInvalidPredictorCode
		}

		p, ok := format.ParsePredictor(uint16(n))
		if !ok {
			return nil, errs.ErrInvalidPredictorCode
		}

		out[i] = p
	}

	return out, nil
}

// parseRatio accepts "num/den" or a bare "den", which is shorthand for
// "1/den".
func parseRatio(value string) (Ratio, error) {
	num, den, ok := strings.Cut(value, "/")
	if !ok {
		d, err := strconv.ParseUint(value, 10, 16)
		if err != nil || d == 0 {
			return Ratio{}, errs.ErrInvalidRatio
		}

		return Ratio{Num: 1, Den: uint16(d)}, nil
	}

	n, err := strconv.ParseUint(num, 10, 16)
	if err != nil {
		return Ratio{}, errs.ErrInvalidRatio
	}

	d, err := strconv.ParseUint(den, 10, 16)
	if err != nil || d == 0 {
		return Ratio{}, errs.ErrInvalidRatio
	}

	return Ratio{Num: uint16(n), Den: uint16(d)}, nil
}
