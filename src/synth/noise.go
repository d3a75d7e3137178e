package synth

import "math/rand"

const noiseTableLength = 3000

// noise is a pitch-following pseudo-random generator: a fixed wavetable
// of uniform 4-bit values read back at a note-dependent rate. Unlike
// per-sample random noise, the texture repeats with the table and
// tracks the played pitch.
type noise struct {
	table      []float64
	sampleRate float64
	frequency  float64
	phase      float64
	increment  float64
}

func newNoise() *noise {
	n := &noise{
		table:      make([]float64, noiseTableLength),
		sampleRate: sampleRate,
	}
	for i := range n.table {
		n.table[i] = float64(rand.Intn(16)-8) / 8 // [-1,1) in 16 steps
	}
	return n
}

func (n *noise) setSampleRate(sr float64) {
	n.sampleRate = sr
	n.increment = n.frequency * noiseTableLength / n.sampleRate
}
func (n *noise) setFrequency(freq float64) {
	n.frequency = freq
	n.increment = n.frequency * noiseTableLength / n.sampleRate
}

func (n *noise) next() float64 {
	value := n.table[int(n.phase)]
	n.phase += n.increment
	for n.phase >= noiseTableLength {
		n.phase -= noiseTableLength
	}
	return value
}
