package synth

import (
	"encoding/json"
	"log"
	"strconv"
)

// Duty-cycle presets shared by the square oscillator and the modulator.
var pulseWidthPresets = [3]float64{0.125, 0.25, 0.5}

// ----- PWM Params ----- //

const pwmModeCount = 6

type pwmParams struct {
	enabled bool
	mode    int     // 0-5, see calculateIndex
	rate    float64 // 0-1, mapped to 0-10 Hz
	sustain float64 // seconds before the sweep starts, 0-1
}
type pwmJSON struct {
	Enabled bool    `json:"enabled"`
	Mode    int     `json:"mode"`
	Rate    float64 `json:"rate"`
	Sustain float64 `json:"sustain"`
}

func newPwmParams() *pwmParams {
	return &pwmParams{enabled: false, mode: 0, rate: 0.5, sustain: 0}
}
func (p *pwmParams) applyJSON(data json.RawMessage) {
	var j pwmJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to pwmParams")
		return
	}
	p.enabled = j.Enabled
	p.mode = clampInt(j.Mode, 0, pwmModeCount-1)
	p.rate = clamp(j.Rate, 0, 1)
	p.sustain = clamp(j.Sustain, 0, 1)
}
func (p *pwmParams) toJSON() json.RawMessage {
	return toRawMessage(&pwmJSON{
		Enabled: p.enabled,
		Mode:    p.mode,
		Rate:    p.rate,
		Sustain: p.sustain,
	})
}
func (p *pwmParams) set(key string, value string) error {
	switch key {
	case "enabled":
		p.enabled = value == "true"
	case "mode":
		value, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		p.mode = clampInt(int(value), 0, pwmModeCount-1)
	case "rate":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.rate = clamp(value, 0, 1)
	case "sustain":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.sustain = clamp(value, 0, 1)
	}
	return nil
}

// ----- Pulse Width Modulator ----- //

// pulseWidthModulator sweeps the square duty cycle between the presets.
// A slow raw phasor (output = its own phase, 0-1) selects a preset index
// according to the mode; during the initial sustain window the index is
// pinned to the mode's resting preset. The returned width is smoothed
// over 10 ms so preset changes do not click.
type pulseWidthModulator struct {
	rateOsc        phasor
	sampleRate     float64
	mode           int
	pwIndex        int
	sustainSamples int
	sustainCounter int
	smooth         smoothedValue
}

func newPulseWidthModulator() *pulseWidthModulator {
	m := &pulseWidthModulator{sampleRate: sampleRate}
	m.rateOsc.setSampleRate(sampleRate)
	m.smooth.reset(sampleRate, 0.01)
	return m
}

func (m *pulseWidthModulator) setSampleRate(sr float64) {
	m.sampleRate = sr
	m.rateOsc.setSampleRate(sr)
	m.smooth.reset(sr, 0.01)
}

func (m *pulseWidthModulator) resetSustainCounter() {
	m.sustainCounter = 0
}

func (m *pulseWidthModulator) process(p *pwmParams) float64 {
	m.rateOsc.setFrequency(p.rate * 10) // 0-10 Hz
	m.updateSustain(p)

	if m.sustainCounter < m.sustainSamples {
		m.sustainCounter++
		switch m.mode {
		case 0, 1:
			m.pwIndex = 0 // rest at 12.5%
		case 2, 3:
			m.pwIndex = 1 // rest at 25%
		case 4, 5:
			m.pwIndex = 2 // rest at 50%
		}
	} else {
		m.calculateIndex()
	}
	m.smooth.setTarget(pulseWidthPresets[m.pwIndex])
	return m.smooth.next()
}

func (m *pulseWidthModulator) updateSustain(p *pwmParams) {
	sustainSamples := int(p.sustain * m.sampleRate)
	if sustainSamples != m.sustainSamples {
		m.sustainSamples = sustainSamples
		m.sustainCounter = 0
	}
	if p.mode != m.mode {
		m.mode = p.mode
		m.sustainCounter = 0
	}
}

// calculateIndex maps the sweep oscillator output to a preset index.
// Modes pair adjacent presets or span the full triple, forward or
// reversed.
func (m *pulseWidthModulator) calculateIndex() {
	o := m.rateOsc.next() // 0-1
	switch m.mode {
	case 0: // 12.5% to 25%
		m.pwIndex = int(o * 1.99)
	case 1: // 12.5% to 50%
		m.pwIndex = int(o * 2.99)
	case 2: // 25% to 50%
		m.pwIndex = int(o*1.99) + 1
	case 3: // 25% to 12.5%
		m.pwIndex = int((1 - o) * 1.99)
	case 4: // 50% to 25%
		m.pwIndex = int((1-o)*1.99) + 1
	case 5: // 50% to 12.5%
		m.pwIndex = int((1 - o) * 2.99)
	}
}
