package game

// FlipStream is a cursor over the caller-supplied randomness for one action.
// Effects draw values in resolution order, so nested dispatch (mimicry)
// consumes the next unused value instead of a hard-coded offset.
type FlipStream struct {
	values []float64
	pos    int
}

// NewFlipStream wraps the supplied values. The slice is not copied; callers
// must not mutate it during resolution.
func NewFlipStream(values []float64) *FlipStream {
	return &FlipStream{values: values}
}

// Next returns the next unused value. An exhausted stream yields 0, which
// resolves every flip to tails; supplying enough values is the caller's
// responsibility and keeps replays exact.
func (s *FlipStream) Next() float64 {
	if s == nil || s.pos >= len(s.values) {
		return 0
	}
	v := s.values[s.pos]
	s.pos++
	return v
}

// Consumed returns how many values have been drawn.
func (s *FlipStream) Consumed() int {
	if s == nil {
		return 0
	}
	return s.pos
}

// headsFrom maps a random value in [0,1) to a flip outcome.
func headsFrom(v float64) bool { return v >= 0.5 }
