package synth

// ----- Smoothed Value ----- //

// smoothedValue ramps linearly toward its target over a fixed number of
// samples instead of stepping, so discrete control changes do not click.
type smoothedValue struct {
	value       float64
	target      float64
	step        float64
	rampSamples int
	remaining   int
}

// reset configures the ramp length. The current value is kept.
func (s *smoothedValue) reset(sr float64, seconds float64) {
	s.rampSamples = int(sr * seconds)
	s.remaining = 0
	s.value = s.target
}

func (s *smoothedValue) setCurrentAndTarget(value float64) {
	s.value = value
	s.target = value
	s.remaining = 0
}

func (s *smoothedValue) setTarget(target float64) {
	if target == s.target {
		return
	}
	s.target = target
	if s.rampSamples <= 0 {
		s.value = target
		s.remaining = 0
		return
	}
	s.remaining = s.rampSamples
	s.step = (target - s.value) / float64(s.rampSamples)
}

func (s *smoothedValue) next() float64 {
	if s.remaining <= 0 {
		s.value = s.target
		return s.value
	}
	s.remaining--
	s.value += s.step
	if s.remaining == 0 {
		s.value = s.target
	}
	return s.value
}
