package synth

import (
	"math"
	"testing"
)

func TestEnvelopeStages(t *testing.T) {
	e := newEnvelope()
	e.setParams(&adsrParams{attack: 0.01, decay: 0.1, sustain: 0.5, release: 0.01})
	e.noteOn()

	attackSamples := int(0.01 * sampleRate)
	var peak float64
	for i := 0; i < attackSamples+1; i++ {
		peak = e.next()
	}
	if math.Abs(peak-1) > 1e-6 {
		t.Errorf("expected the attack to peak at 1, got %v", peak)
	}

	decaySamples := int(0.1 * sampleRate)
	var level float64
	for i := 0; i < decaySamples+1; i++ {
		level = e.next()
	}
	if math.Abs(level-0.5) > 1e-6 {
		t.Errorf("expected the decay to settle at 0.5, got %v", level)
	}
	for i := 0; i < 1000; i++ {
		if v := e.next(); v != 0.5 {
			t.Fatalf("expected the sustain to hold 0.5, got %v", v)
		}
	}

	e.noteOff()
	releaseSamples := int(0.01 * sampleRate)
	for i := 0; i < releaseSamples+1; i++ {
		e.next()
	}
	if e.isActive() {
		t.Error("expected the envelope to go idle after the release")
	}
	if v := e.next(); v != 0 {
		t.Errorf("expected silence when idle, got %v", v)
	}
}

func TestEnvelopeRetriggerKeepsLevel(t *testing.T) {
	e := newEnvelope()
	e.setParams(&adsrParams{attack: 0.1, decay: 0, sustain: 1, release: 0.1})
	e.noteOn()
	for i := 0; i < int(0.05*sampleRate); i++ {
		e.next()
	}
	before := e.value
	if before < 0.4 || before > 0.6 {
		t.Fatalf("mid-attack level out of expected range: %v", before)
	}

	// Retrigger mid-flight: the attack resumes from the current level.
	e.noteOn()
	after := e.next()
	if after < before {
		t.Errorf("expected the level to keep rising, got %v after %v", after, before)
	}
}

func TestEnvelopeZeroDecaySkipsToSustain(t *testing.T) {
	e := newEnvelope()
	e.setParams(&adsrParams{attack: 0.01, decay: 0, sustain: 0.7, release: 0.01})
	e.noteOn()
	for i := 0; i < int(0.01*sampleRate)+2; i++ {
		e.next()
	}
	if e.stage != stageSustain {
		t.Errorf("expected the sustain stage, got %d", e.stage)
	}
	if e.value != 0.7 {
		t.Errorf("expected level 0.7, got %v", e.value)
	}
}

func TestEnvelopeNoteOffWhileIdleIsIgnored(t *testing.T) {
	e := newEnvelope()
	e.setParams(newAdsrParams())
	e.noteOff()
	if e.isActive() {
		t.Error("expected the envelope to stay idle")
	}
}
