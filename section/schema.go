// Package section models the blackbox log header: the field schema declared
// for each frame class (I, P, S, G, H), the grouped wire encodings derived
// from it, and the handful of scalar values (intervals, gyro scale, loop
// time) that the predictor and codec layers need at decode time.
package section

import (
	"strconv"
	"strings"

	"github.com/flightlog/blackbox/errs"
	"github.com/flightlog/blackbox/format"
	"github.com/flightlog/blackbox/internal/codec"
	"github.com/flightlog/blackbox/internal/hash"
)

// Ratio is a small-integer rational, as declared by header keys such as
// "P interval" ("2/1" -> Ratio{Num: 2, Den: 1}).
type Ratio struct {
	Num, Den uint16
}

// Float64 returns the ratio as a floating point value. Den is never zero
// in a finalized Schema.
func (r Ratio) Float64() float64 {
	return float64(r.Num) / float64(r.Den)
}

// FieldDescriptor is one declared field: its name, its signedness, and the
// raw (ungrouped) wire encoding and predictor codes the header assigned it.
type FieldDescriptor struct {
	Name      string
	Signed    bool
	RawEnc    format.RawEncoding
	Predictor format.Predictor
}

// ClassFields bundles one frame class's field list together with the
// grouped wire encodings folded from it.
type ClassFields struct {
	Fields  []FieldDescriptor
	Grouped []codec.Grouped
}

// Schema is the fully parsed, immutable header of a blackbox log. It is
// produced by ParseHeader and consumed by the predictor and stream
// packages; nothing here mutates after finalize.
//
// I- and P-frames share a field list (name and signedness), but the
// invariant stops there: each class declares its own encodings and
// predictors, so they're kept as parallel slices rather than folded into
// one FieldDescriptor.
type Schema struct {
	Product     string
	DataVersion string

	IInterval int
	PInterval Ratio
	PRatio    uint16

	GyroScale float32
	LoopTime  uint32

	// Settings holds every header key this parser doesn't interpret
	// structurally (minthrottle, vbatref, motorOutput, etc). Predictor
	// construction reads specific entries by name.
	Settings map[string]string

	MainNames  []string
	MainSigned []bool

	IRawEnc     []format.RawEncoding
	IPredictors []format.Predictor
	IGrouped    []codec.Grouped

	PRawEnc     []format.RawEncoding
	PPredictors []format.Predictor
	PGrouped    []codec.Grouped

	Slow ClassFields
	GNSS ClassFields
	Home ClassFields

	// LoopIterationIx and TimeIx index MainNames; both are required.
	LoopIterationIx int
	TimeIx          int
}

// MainFieldIndex returns the index of name within MainNames, or -1.
func (s *Schema) MainFieldIndex(name string) int {
	return indexOf(s.MainNames, name)
}

// Checksum fingerprints the parts of the schema that affect decode
// semantics: product, data version, main field names, and their raw I/P
// encodings and predictors. A caller walking the boundaries that
// segment.FindBoundaries reports can compare checksums to tell whether a
// later "H Product:Blackbox" boundary actually starts a new logging session
// with a different schema, rather than just a second header restating the
// same one; FindBoundaries itself does not compute it.
func (s *Schema) Checksum() uint64 {
	var sb strings.Builder

	sb.WriteString(s.Product)
	sb.WriteByte('|')
	sb.WriteString(s.DataVersion)
	sb.WriteByte('|')

	for i, name := range s.MainNames {
		sb.WriteString(name)
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(int(s.IRawEnc[i])))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(int(s.IPredictors[i])))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(int(s.PRawEnc[i])))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(int(s.PPredictors[i])))
		sb.WriteByte(',')
	}

	return hash.ID(sb.String())
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}

	return -1
}

// builder accumulates raw header key/value assignments before finalize
// validates them and groups the per-field encodings into a Schema.
type builder struct {
	haveProduct bool
	product     string

	haveDataVersion bool
	dataVersion     string

	haveIInterval bool
	iInterval     int

	havePInterval bool
	pInterval     Ratio
	pRatio        uint16

	haveGyroScale bool
	gyroScale     float32

	haveLoopTime bool
	loopTime     uint32

	settings map[string]string

	iNames, pNames   []string
	iSigned, pSigned []bool
	iRawEnc, pRawEnc []format.RawEncoding
	iPred, pPred     []format.Predictor

	sNames  []string
	sSigned []bool
	sRawEnc []format.RawEncoding
	sPred   []format.Predictor

	gNames  []string
	gSigned []bool
	gRawEnc []format.RawEncoding
	gPred   []format.Predictor

	hNames  []string
	hSigned []bool
	hRawEnc []format.RawEncoding
	hPred   []format.Predictor
}

func newBuilder() *builder {
	return &builder{settings: make(map[string]string)}
}

// finalize validates the accumulated field lists against the header
// invariants and groups each class's raw encodings, producing an
// immutable Schema.
func (b *builder) finalize() (*Schema, error) {
	if !b.haveProduct || !b.haveDataVersion || !b.haveIInterval || !b.havePInterval ||
		!b.haveGyroScale || !b.haveLoopTime {
		return nil, errs.ErrMissingRequiredKey
	}

	if len(b.iNames) != len(b.pNames) {
		return nil, errs.ErrFieldCountMismatch
	}

	for i := range b.iNames {
		if b.iNames[i] != b.pNames[i] || b.iSigned[i] != b.pSigned[i] {
			return nil, errs.ErrFieldCountMismatch
		}
	}

	loopIx := indexOf(b.iNames, "loopIteration")
	timeIx := indexOf(b.iNames, "time")

	if loopIx < 0 || timeIx < 0 {
		return nil, errs.ErrMissingLoopIterationOrTime
	}

	iGrouped, err := Group(b.iRawEnc)
	if err != nil {
		return nil, err
	}

	pGrouped, err := Group(b.pRawEnc)
	if err != nil {
		return nil, err
	}

	sFields, sGrouped, err := buildClass(b.sNames, b.sSigned, b.sRawEnc, b.sPred)
	if err != nil {
		return nil, err
	}

	gFields, gGrouped, err := buildClass(b.gNames, b.gSigned, b.gRawEnc, b.gPred)
	if err != nil {
		return nil, err
	}

	hFields, hGrouped, err := buildClass(b.hNames, b.hSigned, b.hRawEnc, b.hPred)
	if err != nil {
		return nil, err
	}

	return &Schema{
		Product:     b.product,
		DataVersion: b.dataVersion,
		IInterval:   b.iInterval,
		PInterval:   b.pInterval,
		PRatio:      b.pRatio,
		GyroScale:   b.gyroScale,
		LoopTime:    b.loopTime,
		Settings:    b.settings,

		MainNames:  b.iNames,
		MainSigned: b.iSigned,

		IRawEnc:     b.iRawEnc,
		IPredictors: b.iPred,
		IGrouped:    iGrouped,

		PRawEnc:     b.pRawEnc,
		PPredictors: b.pPred,
		PGrouped:    pGrouped,

		Slow: ClassFields{Fields: sFields, Grouped: sGrouped},
		GNSS: ClassFields{Fields: gFields, Grouped: gGrouped},
		Home: ClassFields{Fields: hFields, Grouped: hGrouped},

		LoopIterationIx: loopIx,
		TimeIx:          timeIx,
	}, nil
}

func buildClass(names []string, signed []bool, rawEnc []format.RawEncoding, pred []format.Predictor) ([]FieldDescriptor, []codec.Grouped, error) {
	fields := make([]FieldDescriptor, len(names))
	for i := range names {
		fields[i] = FieldDescriptor{
			Name:      names[i],
			Signed:    signed[i],
			RawEnc:    rawEnc[i],
			Predictor: pred[i],
		}
	}

	grouped, err := Group(rawEnc)
	if err != nil {
		return nil, nil, err
	}

	return fields, grouped, nil
}
