package synth

import (
	"encoding/json"
	"testing"
)

func expectNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("expected no error, but got: %v", err)
	}
}

func readCycle(t *testing.T, s *Synth) []int16 {
	t.Helper()
	buf := make([]byte, bufferSizeInBytes)
	n, err := s.Read(buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("short read: %d", n)
	}
	samples := make([]int16, samplesPerCycle)
	for i := range samples {
		samples[i] = int16(buf[bytesPerSample*i]) | int16(buf[bytesPerSample*i+1])<<8
	}
	return samples
}

func hasSignal(samples []int16) bool {
	for _, v := range samples {
		if v != 0 {
			return true
		}
	}
	return false
}

func TestSynthSilentUntilNoteOn(t *testing.T) {
	s := newSynth()
	if hasSignal(readCycle(t, s)) {
		t.Error("expected silence before any note")
	}
}

func TestSynthPlaysNoteOn(t *testing.T) {
	s := newSynth()
	expectNoError(t, s.update([]string{"note_on", "69"}))
	// The event lands near the end of the queue, so give it two cycles.
	readCycle(t, s)
	readCycle(t, s)
	if !hasSignal(readCycle(t, s)) {
		t.Error("expected signal after a note-on")
	}
}

func TestSynthNoteOffFades(t *testing.T) {
	s := newSynth()
	expectNoError(t, s.update([]string{"note_on", "69"}))
	for i := 0; i < 5; i++ {
		readCycle(t, s)
	}
	expectNoError(t, s.update([]string{"note_off", "69"}))
	// Default release is 0.01 s, under one cycle.
	for i := 0; i < 5; i++ {
		readCycle(t, s)
	}
	if hasSignal(readCycle(t, s)) {
		t.Error("expected silence after the release tail")
	}
}

func TestSynthSetCommands(t *testing.T) {
	s := newSynth()
	expectNoError(t, s.update([]string{"set", "osc", "kind", "triangle"}))
	expectNoError(t, s.update([]string{"set", "osc", "triDistortion", "false"}))
	expectNoError(t, s.update([]string{"set", "adsr", "attack", "0.5"}))
	expectNoError(t, s.update([]string{"set", "delay", "time", "0.25"}))
	expectNoError(t, s.update([]string{"set", "delay", "feedback", "2.0"}))
	expectNoError(t, s.update([]string{"set", "crusher", "bitDepth", "99"}))
	expectNoError(t, s.update([]string{"set", "arp", "pattern", "5"}))
	expectNoError(t, s.update([]string{"set", "pwm", "mode", "3"}))
	expectNoError(t, s.update([]string{"set", "vibrato", "amount", "0.7"}))
	expectNoError(t, s.update([]string{"set", "bend", "initPitch", "-12"}))

	p := s.state.params
	if p.osc.kind != waveTriangle || p.osc.triDistortion {
		t.Error("osc params not applied")
	}
	if p.adsr.attack != 0.5 {
		t.Error("adsr params not applied")
	}
	if p.delay.time != 0.25 || p.delay.feedback != 0.99 {
		t.Error("delay params not applied or clamped")
	}
	if p.crusher.bitDepth != 24 {
		t.Error("crusher bit depth not clamped")
	}
	if p.arp.pattern != 5 || p.pwm.mode != 3 || p.vib.amount != 0.7 || p.bend.initPitch != -12 {
		t.Error("modulation params not applied")
	}
	if !s.Changes.Has("data") {
		t.Error("expected a data change mark")
	}
}

func TestSynthJSONRoundTrip(t *testing.T) {
	s := newSynth()
	expectNoError(t, s.update([]string{"set", "osc", "kind", "noise"}))
	expectNoError(t, s.update([]string{"set", "adsr", "sustain", "0.3"}))
	data := s.ToJSON()
	if !json.Valid(data) {
		t.Fatal("ToJSON emitted invalid JSON")
	}

	other := newSynth()
	other.ApplyJSON(data)
	if other.state.params.osc.kind != waveNoise {
		t.Error("osc kind did not survive the round trip")
	}
	if other.state.params.adsr.sustain != 0.3 {
		t.Error("adsr sustain did not survive the round trip")
	}
}

func TestSynthFFTFindsFundamental(t *testing.T) {
	s := newSynth()
	expectNoError(t, s.update([]string{"set", "osc", "kind", "sine"}))
	expectNoError(t, s.update([]string{"note_on", "69"}))
	// Fill the whole analysis window with steady signal.
	for i := 0; i < 8; i++ {
		readCycle(t, s)
	}
	spec := s.GetFFT()
	if len(spec) != fftSize/2 {
		t.Fatalf("expected %d bins, got %d", fftSize/2, len(spec))
	}
	peak := 0
	for i, v := range spec {
		if v > spec[peak] {
			peak = i
		}
	}
	// 440 Hz at a 23.4 Hz bin width lands around bin 19.
	if peak < 17 || peak > 21 {
		t.Errorf("expected the peak near bin 19, got %d", peak)
	}
	if spec[peak] < 0.05 {
		t.Errorf("peak amplitude too small: %v", spec[peak])
	}
}

func TestSynthRejectsMalformedCommands(t *testing.T) {
	s := newSynth()
	cases := [][]string{
		{"explode"},
		{"set", "osc", "kind"},
		{"set", "nosuch", "key", "value"},
		{"note_on", "not-a-number"},
		{"load_preset"},
	}
	for _, command := range cases {
		if err := s.update(command); err == nil {
			t.Errorf("expected an error for %v", command)
		}
	}
}

func TestMidiEventParsing(t *testing.T) {
	s := newSynth()
	s.AddMidiEvent([]byte{0x90, 69, 100})
	readCycle(t, s)
	readCycle(t, s)
	if !hasSignal(readCycle(t, s)) {
		t.Error("expected signal after a MIDI note-on")
	}
	s.AddMidiEvent([]byte{0x80, 69, 0})
	for i := 0; i < 6; i++ {
		readCycle(t, s)
	}
	if hasSignal(readCycle(t, s)) {
		t.Error("expected silence after a MIDI note-off")
	}
}
