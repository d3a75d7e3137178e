package synth

import (
	"encoding/json"
	"log"
	"math"
	"strconv"
)

// ----- Wave Kind ----- //

const (
	waveSquare = iota
	waveTriangle
	waveNoise
	waveSine
	waveSaw
)

func waveKindFromString(s string) int {
	switch s {
	case "square":
		return waveSquare
	case "triangle":
		return waveTriangle
	case "noise":
		return waveNoise
	case "sine":
		return waveSine
	case "saw":
		return waveSaw
	}
	return waveSquare
}
func waveKindToString(kind int) string {
	switch kind {
	case waveSquare:
		return "square"
	case waveTriangle:
		return "triangle"
	case waveNoise:
		return "noise"
	case waveSine:
		return "sine"
	case waveSaw:
		return "saw"
	}
	return "square"
}

// ----- OSC Params ----- //

type oscParams struct {
	kind            int
	pulseWidth      int // preset index: 0 -> 12.5%, 1 -> 25%, 2 -> 50%
	triDistortion   bool
	noiseDistortion bool
}
type oscJSON struct {
	Kind            string `json:"kind"`
	PulseWidth      int    `json:"pulseWidth"`
	TriDistortion   bool   `json:"triDistortion"`
	NoiseDistortion bool   `json:"noiseDistortion"`
}

func newOscParams() *oscParams {
	return &oscParams{
		kind:            waveSquare,
		pulseWidth:      0,
		triDistortion:   true,
		noiseDistortion: true,
	}
}
func (o *oscParams) applyJSON(data json.RawMessage) {
	var j oscJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to oscParams")
		return
	}
	o.kind = waveKindFromString(j.Kind)
	o.pulseWidth = clampInt(j.PulseWidth, 0, len(pulseWidthPresets)-1)
	o.triDistortion = j.TriDistortion
	o.noiseDistortion = j.NoiseDistortion
}
func (o *oscParams) toJSON() json.RawMessage {
	return toRawMessage(&oscJSON{
		Kind:            waveKindToString(o.kind),
		PulseWidth:      o.pulseWidth,
		TriDistortion:   o.triDistortion,
		NoiseDistortion: o.noiseDistortion,
	})
}
func (o *oscParams) set(key string, value string) error {
	switch key {
	case "kind":
		o.kind = waveKindFromString(value)
	case "pulseWidth":
		value, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		o.pulseWidth = clampInt(int(value), 0, len(pulseWidthPresets)-1)
	case "triDistortion":
		o.triDistortion = value == "true"
	case "noiseDistortion":
		o.noiseDistortion = value == "true"
	}
	return nil
}

// ----- Phasor ----- //

// phasor is a normalized phase accumulator in [0,1). All periodic
// generators derive their output from it.
type phasor struct {
	frequency  float64
	sampleRate float64
	phase      float64
	phaseDelta float64
}

func (p *phasor) setSampleRate(sr float64) {
	p.sampleRate = sr
	p.phaseDelta = p.frequency / p.sampleRate
}
func (p *phasor) setFrequency(freq float64) {
	p.frequency = freq
	p.phaseDelta = p.frequency / p.sampleRate
}

// next advances the phase one sample and returns it.
func (p *phasor) next() float64 {
	p.phase += p.phaseDelta
	if p.phase > 1 {
		p.phase -= 1
	}
	return p.phase
}

// polyBLEP returns a quadratic correction for a hard edge at t=0 (mod 1),
// spread over one phaseDelta on either side.
func (p *phasor) polyBLEP(t float64) float64 {
	dt := p.phaseDelta
	if t < dt {
		t /= dt
		return t + t - t*t - 1
	}
	if t > 1-dt {
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}

// ----- Oscillator ----- //

// oscillator is a closed variant over the supported waveforms. Only the
// state the current kind needs is touched: pulseWidth drives the square
// edges, the noise table handles its own phase.
//
// The nominal output range is half scale (+-0.5) for triangle and saw;
// square and sine span +-1 and are scaled down by their callers.
type oscillator struct {
	phasor
	kind       int
	pulseWidth float64
	noise      *noise
}

func newOscillator(kind int) *oscillator {
	o := &oscillator{
		kind:       kind,
		pulseWidth: 0.5,
		noise:      newNoise(),
	}
	o.sampleRate = sampleRate
	o.noise.setSampleRate(sampleRate)
	return o
}

func (o *oscillator) setSampleRate(sr float64) {
	o.phasor.setSampleRate(sr)
	o.noise.setSampleRate(sr)
}
func (o *oscillator) setFrequency(freq float64) {
	if o.kind == waveNoise {
		o.noise.setFrequency(freq)
		return
	}
	o.phasor.setFrequency(freq)
}
func (o *oscillator) setPulseWidth(pw float64) {
	o.pulseWidth = pw
}

func (o *oscillator) next() float64 {
	switch o.kind {
	case waveSquare:
		p := o.phasor.next()
		value := -1.0
		if p < o.pulseWidth {
			value = 1.0
		}
		value += o.polyBLEP(p)
		value -= o.polyBLEP(math.Mod(p+(1-o.pulseWidth), 1))
		return value
	case waveTriangle:
		// NES-style asymmetry: linear rise, slightly curved fall.
		p := o.phasor.next()
		if p < 0.5 {
			p = p*4 - 1
		} else {
			t := (p - 0.5) * 2
			p = 1 - 2*t*t
		}
		return p / 2
	case waveNoise:
		return o.noise.next()
	case waveSine:
		return math.Sin(2 * math.Pi * o.phasor.next())
	case waveSaw:
		return o.phasor.next() - 0.5
	}
	return 0
}
