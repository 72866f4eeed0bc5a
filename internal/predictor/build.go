package predictor

import (
	"github.com/flightlog/blackbox/format"
	"github.com/flightlog/blackbox/section"
)

func toRatio(r section.Ratio) Ratio { return Ratio{Num: r.Num, Den: r.Den} }

// BuildMain resolves the bound predictor list for a main (I- or P-class)
// field list, sharing names across both classes but taking each class's
// own predictor codes.
func BuildMain(names []string, predictors []format.Predictor, pInterval section.Ratio) []Bound {
	return build(names, predictors, pInterval)
}

// BuildFromFields resolves the bound predictor list for a non-main field
// list (GNSS or the H-frame's own declared fields).
func BuildFromFields(fields []section.FieldDescriptor, pInterval section.Ratio) []Bound {
	names := make([]string, len(fields))
	preds := make([]format.Predictor, len(fields))

	for i, f := range fields {
		names[i] = f.Name
		preds[i] = f.Predictor
	}

	return build(names, preds, pInterval)
}

func build(names []string, predictors []format.Predictor, pInterval section.Ratio) []Bound {
	motor0Ix := -1

	for i, n := range names {
		if n == "motor[0]" {
			motor0Ix = i
			break
		}
	}

	out := make([]Bound, len(names))

	for i, n := range names {
		out[i] = NewBound(predictors[i], i, n, motor0Ix, toRatio(pInterval))
	}

	return out
}
