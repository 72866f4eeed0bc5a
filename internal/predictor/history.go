// Package predictor reconstructs absolute field values from the residuals
// the codec layer decodes, by binding each field's declared predictor code
// to a two-frame-deep history buffer.
package predictor

// History holds the last two frames' worth of decoded values for one
// field list (the main I/P fields, or a GNSS field list), plus the
// in-progress frame being decoded.
//
// BeginAdvance rotates the buffers before a P- or G-frame is decoded, so
// Previous/StraightLine/Average2 predictors read the correct prior
// frames while the new frame is filled in field by field. I-frames skip
// the rotation (there is no "previous frame" relationship to a keyframe)
// and call CommitReset once decoding finishes, collapsing all three
// buffers down to the frame just decoded.
type History struct {
	previous2 []int64
	previous  []int64
	current   []int64
}

// NewHistory allocates a History for a field list of the given width.
func NewHistory(width int) *History {
	return &History{
		previous2: make([]int64, width),
		previous:  make([]int64, width),
		current:   make([]int64, width),
	}
}

// Current returns the buffer the in-progress frame should be decoded
// into. Predictors read Previous/Previous2 while writing this slice
// field by field, so a Motor0-style predictor can see an earlier field
// of the same frame already in place.
func (h *History) Current() []int64 { return h.current }

// Previous returns the last fully committed frame.
func (h *History) Previous() []int64 { return h.previous }

// Previous2 returns the frame committed before Previous.
func (h *History) Previous2() []int64 { return h.previous2 }

// BeginAdvance rotates the history forward (previous2 <- previous,
// previous <- current) and returns the recycled buffer to decode the new
// frame into. Call this once per P- or G-frame, before decoding any of
// its fields.
func (h *History) BeginAdvance() []int64 {
	h.previous2, h.previous, h.current = h.previous, h.current, h.previous2
	return h.current
}

// CommitReset collapses Previous and Previous2 down to the frame that
// was just decoded into Current. Call this once per I-frame, after every
// field has been decoded.
func (h *History) CommitReset() {
	copy(h.previous, h.current)
	copy(h.previous2, h.current)
}
