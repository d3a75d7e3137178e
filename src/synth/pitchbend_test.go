package synth

import (
	"math"
	"testing"
)

func TestPitchBendRampsUpToTarget(t *testing.T) {
	b := newPitchBend()
	p := &pitchBendParams{enabled: true, initPitch: -12, time: 0.01}
	b.start(69, p)

	target := midiNoteToFreq(69)
	start := midiNoteToFreq(57)
	prev := start
	samples := int(0.01 * sampleRate)
	for i := 0; i < samples; i++ {
		f := b.process()
		if f < prev-1e-9 {
			t.Fatalf("sample %d: frequency went down during an upward bend", i)
		}
		prev = f
	}
	for i := 0; i < 100; i++ {
		if f := b.process(); f != target {
			t.Fatalf("expected the bend to pin at %v, got %v", target, f)
		}
	}
}

func TestPitchBendRampsDownToTarget(t *testing.T) {
	b := newPitchBend()
	p := &pitchBendParams{enabled: true, initPitch: 12, time: 0.01}
	b.start(69, p)

	target := midiNoteToFreq(69)
	for i := 0; i < int(0.01*sampleRate)+100; i++ {
		b.process()
	}
	if f := b.process(); f != target {
		t.Errorf("expected the bend to pin at %v, got %v", target, f)
	}
	if math.Abs(midiNoteToFreq(81)-2*target) > 1e-9 {
		t.Errorf("octave sanity check failed")
	}
}

func TestPitchBendZeroOffsetStaysPut(t *testing.T) {
	b := newPitchBend()
	p := &pitchBendParams{enabled: true, initPitch: 0, time: 1}
	b.start(69, p)
	for i := 0; i < 1000; i++ {
		if f := b.process(); f != midiNoteToFreq(69) {
			t.Fatalf("expected a flat bend, got %v", f)
		}
	}
}
