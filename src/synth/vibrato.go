package synth

import (
	"encoding/json"
	"log"
	"math"
	"strconv"
)

// ----- Vibrato Params ----- //

type vibratoParams struct {
	enabled bool
	speed   float64 // 0-1, mapped to 3-8 Hz
	amount  float64 // 0-1
	sustain float64 // seconds before the effect starts, 0-1
}
type vibratoJSON struct {
	Enabled bool    `json:"enabled"`
	Speed   float64 `json:"speed"`
	Amount  float64 `json:"amount"`
	Sustain float64 `json:"sustain"`
}

func newVibratoParams() *vibratoParams {
	return &vibratoParams{enabled: false, speed: 0.1, amount: 0.1, sustain: 0}
}
func (v *vibratoParams) applyJSON(data json.RawMessage) {
	var j vibratoJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to vibratoParams")
		return
	}
	v.enabled = j.Enabled
	v.speed = clamp(j.Speed, 0, 1)
	v.amount = clamp(j.Amount, 0, 1)
	v.sustain = clamp(j.Sustain, 0, 1)
}
func (v *vibratoParams) toJSON() json.RawMessage {
	return toRawMessage(&vibratoJSON{
		Enabled: v.enabled,
		Speed:   v.speed,
		Amount:  v.amount,
		Sustain: v.sustain,
	})
}
func (v *vibratoParams) set(key string, value string) error {
	switch key {
	case "enabled":
		v.enabled = value == "true"
	case "speed":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		v.speed = clamp(value, 0, 1)
	case "amount":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		v.amount = clamp(value, 0, 1)
	case "sustain":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		v.sustain = clamp(value, 0, 1)
	}
	return nil
}

// ----- Vibrato ----- //

// vibrato is a delayed-onset sine LFO. It outputs exactly zero until the
// sustain window has elapsed, then a small proportional frequency
// offset meant to be applied as freq *= 1 + v.
type vibrato struct {
	lfo            phasor
	sampleRate     float64
	sustainSamples int
	sustainCounter int
}

func newVibrato() *vibrato {
	v := &vibrato{sampleRate: sampleRate}
	v.lfo.setSampleRate(sampleRate)
	return v
}

func (v *vibrato) setSampleRate(sr float64) {
	v.sampleRate = sr
	v.lfo.setSampleRate(sr)
}

func (v *vibrato) resetSustainCounter() {
	v.sustainCounter = 0
}

func (v *vibrato) process(p *vibratoParams) float64 {
	v.updateSustain(p)
	if v.sustainCounter < v.sustainSamples {
		v.sustainCounter++
		return 0
	}
	// Re-read the controls after the gate so automation keeps working.
	v.lfo.setFrequency(p.speed*5 + 3) // 3-8 Hz
	depth := p.amount / 20000
	return math.Sin(2*math.Pi*v.lfo.next()) * depth
}

func (v *vibrato) updateSustain(p *vibratoParams) {
	sustainSamples := int(p.sustain * v.sampleRate)
	if sustainSamples != v.sustainSamples {
		v.sustainSamples = sustainSamples
		v.sustainCounter = 0
	}
}
