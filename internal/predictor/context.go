package predictor

// Context carries the state a bound predictor needs beyond its own field's
// history: settings pulled from the header, the GPS home position latched
// from the most recent H-frame, and the most recent main frame's time
// field, which the G-frame LastMainFrameTime predictor extrapolates from.
type Context struct {
	MinThrottle      int64
	VBatRef          int64
	MotorOutputLow   int64
	Home             [2]int64
	HaveHome         bool
	LastMainFrameTime int64
}

// SetHome latches a decoded H-frame's two fields as the GPS home
// coordinate. Only the first H-frame of a log is expected to carry one,
// but later frames simply overwrite it.
func (c *Context) SetHome(lat, lon int64) {
	c.Home[0] = lat
	c.Home[1] = lon
	c.HaveHome = true
}
