package synth

import (
	"encoding/json"
	"log"
	"strconv"
)

// ----- Pitch Bend Params ----- //

type pitchBendParams struct {
	enabled   bool
	initPitch int     // semitone offset of the starting pitch, -24 to 24
	time      float64 // bend duration in seconds, 0.01-3
}
type pitchBendJSON struct {
	Enabled   bool    `json:"enabled"`
	InitPitch int     `json:"initPitch"`
	Time      float64 `json:"time"`
}

func newPitchBendParams() *pitchBendParams {
	return &pitchBendParams{enabled: false, initPitch: 0, time: 0.01}
}
func (p *pitchBendParams) applyJSON(data json.RawMessage) {
	var j pitchBendJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to pitchBendParams")
		return
	}
	p.enabled = j.Enabled
	p.initPitch = clampInt(j.InitPitch, -24, 24)
	p.time = clamp(j.Time, 0.01, 3)
}
func (p *pitchBendParams) toJSON() json.RawMessage {
	return toRawMessage(&pitchBendJSON{
		Enabled:   p.enabled,
		InitPitch: p.initPitch,
		Time:      p.time,
	})
}
func (p *pitchBendParams) set(key string, value string) error {
	switch key {
	case "enabled":
		p.enabled = value == "true"
	case "initPitch":
		value, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		p.initPitch = clampInt(int(value), -24, 24)
	case "time":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.time = clamp(value, 0.01, 3)
	}
	return nil
}

// ----- Pitch Bend ----- //

// pitchBend ramps the frequency linearly from an offset starting pitch
// to the played note over the configured duration, then pins at the
// target.
type pitchBend struct {
	sampleRate  float64
	inputFreq   float64 // target
	currentFreq float64
	bendDelta   float64 // per sample, sign follows the bend direction
	bendSamples int
}

func newPitchBend() *pitchBend {
	return &pitchBend{sampleRate: sampleRate}
}

func (b *pitchBend) setSampleRate(sr float64) {
	b.sampleRate = sr
}

func (b *pitchBend) start(note int, p *pitchBendParams) {
	b.bendSamples = int(p.time * b.sampleRate)
	if b.bendSamples < 1 {
		b.bendSamples = 1
	}
	b.inputFreq = midiNoteToFreq(note)
	b.currentFreq = midiNoteToFreq(note + p.initPitch)
	b.bendDelta = (b.inputFreq - b.currentFreq) / float64(b.bendSamples)
}

// process steps the frequency toward the target. Once the target is
// reached or passed it is pinned exactly, so the output never
// oscillates around it.
func (b *pitchBend) process() float64 {
	if (b.bendDelta > 0 && b.currentFreq < b.inputFreq) ||
		(b.bendDelta < 0 && b.currentFreq > b.inputFreq) {
		b.currentFreq += b.bendDelta
	} else {
		b.currentFreq = b.inputFreq
	}
	return b.currentFreq
}
