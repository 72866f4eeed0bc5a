// Package format defines the small closed vocabularies shared across the
// blackbox decoder: record kinds, the raw per-field encoding codes declared
// in the header, and the predictor codes that drive value reconstruction.
package format

// RecordKind identifies the class of a decoded body record.
type RecordKind uint8

const (
	// RecordMain is a reconstructed I or P frame, values aligned with the
	// declared "Field I name" list.
	RecordMain RecordKind = iota + 1
	// RecordGNSS is a reconstructed G frame.
	RecordGNSS
	// RecordSlow is a raw (non-predicted) S frame.
	RecordSlow
	// RecordEvent is a decoded E frame.
	RecordEvent
	// RecordNone signals no record was produced this call: either the
	// iterator is exhausted, or input was truncated mid-frame.
	RecordNone
)

func (k RecordKind) String() string {
	switch k {
	case RecordMain:
		return "Main"
	case RecordGNSS:
		return "GNSS"
	case RecordSlow:
		return "Slow"
	case RecordEvent:
		return "Event"
	case RecordNone:
		return "None"
	default:
		return "Unknown"
	}
}

// FrameClass identifies which of the five schema-bearing record classes
// (I, P, S, G, H) a field descriptor or grouped encoding belongs to.
type FrameClass uint8

const (
	ClassI FrameClass = iota
	ClassP
	ClassS
	ClassG
	ClassH
)

func (c FrameClass) String() string {
	switch c {
	case ClassI:
		return "I"
	case ClassP:
		return "P"
	case ClassS:
		return "S"
	case ClassG:
		return "G"
	case ClassH:
		return "H"
	default:
		return "?"
	}
}

// RawEncoding is the per-field encoding code as declared in a
// "Field {class} encoding" header line, before consecutive runs of tag
// codecs are folded into grouped encodings.
type RawEncoding uint8

const (
	RawSignedVB        RawEncoding = 0
	RawUnsignedVB      RawEncoding = 1
	RawNegative14BitVB RawEncoding = 3
	RawTag8_8SVB       RawEncoding = 6
	RawTag2_3S32       RawEncoding = 7
	RawTag8_4S16       RawEncoding = 8
	RawNull            RawEncoding = 9
	RawTag2_3SVariable RawEncoding = 10
)

// ParseRawEncoding maps the header's decimal encoding code to a RawEncoding.
func ParseRawEncoding(code uint16) (RawEncoding, bool) {
	switch RawEncoding(code) {
	case RawSignedVB, RawUnsignedVB, RawNegative14BitVB, RawTag8_8SVB,
		RawTag2_3S32, RawTag8_4S16, RawNull, RawTag2_3SVariable:
		return RawEncoding(code), true
	default:
		return 0, false
	}
}

func (e RawEncoding) String() string {
	switch e {
	case RawSignedVB:
		return "SignedVB"
	case RawUnsignedVB:
		return "UnsignedVB"
	case RawNegative14BitVB:
		return "Negative14BitVB"
	case RawTag8_8SVB:
		return "Tag8_8SVB"
	case RawTag2_3S32:
		return "Tag2_3S32"
	case RawTag8_4S16:
		return "Tag8_4S16"
	case RawNull:
		return "Null"
	case RawTag2_3SVariable:
		return "Tag2_3SVariable"
	default:
		return "Unknown"
	}
}

// Groupable reports whether consecutive fields declaring this encoding are
// folded into a single grouped codec by the encoding grouper (§4.2).
func (e RawEncoding) Groupable() bool {
	switch e {
	case RawTag8_8SVB, RawTag2_3S32, RawTag8_4S16, RawTag2_3SVariable:
		return true
	default:
		return false
	}
}

// MaxGroupWidth returns the maximum field count a grouped encoding of this
// kind may cover. Zero for non-groupable encodings.
func (e RawEncoding) MaxGroupWidth() int {
	switch e {
	case RawTag8_8SVB:
		return 8
	case RawTag2_3S32, RawTag2_3SVariable:
		return 3
	case RawTag8_4S16:
		return 4
	default:
		return 0
	}
}

// Predictor is the per-field prediction code as declared in a
// "Field {class} predictor" header line.
type Predictor uint8

const (
	PredictNone              Predictor = 0
	PredictPrevious          Predictor = 1
	PredictStraightLine      Predictor = 2
	PredictAverage2          Predictor = 3
	PredictMinThrottle       Predictor = 4
	PredictMotor0            Predictor = 5
	PredictIncrement         Predictor = 6
	PredictHomeCoordinates   Predictor = 7
	PredictAround1500        Predictor = 8
	PredictVBatRef           Predictor = 9
	PredictLastMainFrameTime Predictor = 10
	PredictMinMotor          Predictor = 11
)

// ParsePredictor maps the header's decimal predictor code to a Predictor.
func ParsePredictor(code uint16) (Predictor, bool) {
	if code > uint16(PredictMinMotor) {
		return 0, false
	}

	return Predictor(code), true
}

func (p Predictor) String() string {
	switch p {
	case PredictNone:
		return "None"
	case PredictPrevious:
		return "Previous"
	case PredictStraightLine:
		return "StraightLine"
	case PredictAverage2:
		return "Average2"
	case PredictMinThrottle:
		return "MinThrottle"
	case PredictMotor0:
		return "Motor0"
	case PredictIncrement:
		return "Increment"
	case PredictHomeCoordinates:
		return "HomeCoordinates"
	case PredictAround1500:
		return "Around1500"
	case PredictVBatRef:
		return "VBatRef"
	case PredictLastMainFrameTime:
		return "LastMainFrameTime"
	case PredictMinMotor:
		return "MinMotor"
	default:
		return "Unknown"
	}
}

// Strictness selects how the record iterator reacts to a soft decode error.
type Strictness uint8

const (
	// Lenient advances one byte and retries on a soft error (default).
	Lenient Strictness = iota
	// Strict terminates the iterator on a soft error.
	Strict
)

func (s Strictness) String() string {
	if s == Strict {
		return "Strict"
	}

	return "Lenient"
}

// CompressionType identifies the byte-level container compression detected
// on an in-memory log segment, independent of the field-level encodings
// above. See package segment.
type CompressionType uint8

const (
	CompressionNone CompressionType = iota
	CompressionGzip
	CompressionZstd
	CompressionS2
	CompressionLZ4
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionGzip:
		return "Gzip"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
