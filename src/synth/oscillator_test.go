package synth

import (
	"math"
	"testing"
)

func TestSquareDutyCycle(t *testing.T) {
	o := newOscillator(waveSquare)
	o.setFrequency(100)
	o.setPulseWidth(0.25)
	high := 0
	total := 4 * sampleRate / 100 // four periods
	for i := 0; i < total; i++ {
		if o.next() > 0 {
			high++
		}
	}
	ratio := float64(high) / float64(total)
	if math.Abs(ratio-0.25) > 0.02 {
		t.Errorf("expected about 25%% duty, got %.3f", ratio)
	}
}

func TestSquareEdgesAreSmoothed(t *testing.T) {
	o := newOscillator(waveSquare)
	o.setFrequency(440)
	o.setPulseWidth(0.5)
	prev := o.next()
	for i := 0; i < sampleRate; i++ {
		v := o.next()
		// A naive square steps by 2 at an edge; the spread edge never does.
		if math.Abs(v-prev) > 1.7 {
			t.Fatalf("sample %d: step %v is too sharp", i, math.Abs(v-prev))
		}
		prev = v
	}
}

func TestTriangleShape(t *testing.T) {
	o := newOscillator(waveTriangle)
	o.setFrequency(sampleRate / 4) // phase steps of exactly 0.25
	want := []float64{0, 0.5, 0.25, -0.5}
	for i, w := range want {
		got := o.next()
		if math.Abs(got-w) > 1e-9 {
			t.Errorf("sample %d: expected %v, got %v", i, w, got)
		}
	}
}

func TestSawRange(t *testing.T) {
	o := newOscillator(waveSaw)
	o.setFrequency(440)
	for i := 0; i < sampleRate; i++ {
		v := o.next()
		if v < -0.5 || v > 0.5 {
			t.Fatalf("saw output %v out of range", v)
		}
	}
}

func TestNoiseUsesQuantizedTable(t *testing.T) {
	n := newNoise()
	n.setFrequency(440)
	for i := 0; i < 10000; i++ {
		v := n.next()
		if v < -1 || v >= 1 {
			t.Fatalf("noise output %v out of range", v)
		}
		scaled := v * 8
		if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
			t.Fatalf("noise output %v is not a table value", v)
		}
	}
}

func TestNoiseRepeatsWithTable(t *testing.T) {
	n := newNoise()
	n.setFrequency(16) // increment 1, one full table per cycle
	first := make([]float64, noiseTableLength)
	for i := range first {
		first[i] = n.next()
	}
	for i := 0; i < noiseTableLength; i++ {
		if v := n.next(); v != first[i] {
			t.Fatalf("sample %d: expected the table to repeat", i)
		}
	}
}

func TestWaveKindRoundTrip(t *testing.T) {
	for _, kind := range []int{waveSquare, waveTriangle, waveNoise, waveSine, waveSaw} {
		if got := waveKindFromString(waveKindToString(kind)); got != kind {
			t.Errorf("kind %d round-tripped to %d", kind, got)
		}
	}
}
