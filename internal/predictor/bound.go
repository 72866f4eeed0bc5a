package predictor

import (
	"strings"

	"github.com/flightlog/blackbox/format"
)

// incrementState is the Increment predictor's running counter: it walks
// forward at a constant rate of stepNumer/stepDenom per frame, derived
// from the header's P interval, and resynchronizes to the decoder's
// actual output whenever the two disagree.
type incrementState struct {
	stepNumer, stepDenom int64
	ticks                int64
	base                 int64
	lastValue            int64
}

func (s *incrementState) predict(previousValue int64) int64 {
	if previousValue != s.lastValue {
		s.base = previousValue
		s.ticks = 0
	}

	s.ticks++
	val := s.base + (s.ticks*s.stepNumer)/s.stepDenom
	s.lastValue = val

	return val
}

// Bound is one field's predictor, resolved from its raw format.Predictor
// code at schema-build time: the field lookups, home-coordinate slot, and
// any running state (Increment) it needs are all settled up front so the
// decode loop is a flat switch with no further lookups.
type Bound struct {
	Kind     format.Predictor
	FieldIx  int
	motor0Ix int // -1 if the schema has no motor[0] field
	homeSub  int
	inc      *incrementState
}

// NewBound resolves one field's predictor. motor0Ix is the index of
// "motor[0]" in the same field list (-1 if absent), and pInterval feeds
// the Increment predictor's step size.
func NewBound(kind format.Predictor, fieldIx int, fieldName string, motor0Ix int, pInterval Ratio) Bound {
	b := Bound{
		Kind:     kind,
		FieldIx:  fieldIx,
		motor0Ix: motor0Ix,
		homeSub:  homeSubIndex(fieldName),
	}

	if kind == format.PredictIncrement {
		b.inc = &incrementState{stepNumer: int64(pInterval.Den), stepDenom: int64(pInterval.Num)}
	}

	return b
}

// Ratio mirrors section.Ratio without importing the section package,
// keeping predictor free of a dependency on the header parser.
type Ratio struct {
	Num, Den uint16
}

// homeSubIndex reports which GPS home slot (0: latitude, 1: longitude) a
// field with a HomeCoordinates predictor should read, based on its own
// "[0]"/"[1]" name suffix.
func homeSubIndex(name string) int {
	if strings.HasSuffix(name, "[1]") {
		return 1
	}

	return 0
}

// Predict computes this field's predicted value from history and the
// shared decode context. The codec-decoded residual is added to this by
// the caller to produce the field's final value.
func (b *Bound) Predict(ctx *Context, h *History) int64 {
	switch b.Kind {
	case format.PredictNone:
		return 0
	case format.PredictPrevious:
		return h.Previous()[b.FieldIx]
	case format.PredictStraightLine:
		return 2*h.Previous()[b.FieldIx] - h.Previous2()[b.FieldIx]
	case format.PredictAverage2:
		return (h.Previous()[b.FieldIx] + h.Previous2()[b.FieldIx]) / 2
	case format.PredictMinThrottle:
		return ctx.MinThrottle
	case format.PredictMotor0:
		if b.motor0Ix < 0 {
			return 0
		}

		return h.Current()[b.motor0Ix]
	case format.PredictIncrement:
		return b.inc.predict(h.Previous()[b.FieldIx])
	case format.PredictHomeCoordinates:
		if !ctx.HaveHome {
			return 0
		}

		return ctx.Home[b.homeSub]
	case format.PredictAround1500:
		return 1500
	case format.PredictVBatRef:
		return ctx.VBatRef
	case format.PredictLastMainFrameTime:
		return ctx.LastMainFrameTime
	case format.PredictMinMotor:
		return ctx.MotorOutputLow
	default:
		return 0
	}
}
