package synth

import (
	"encoding/json"
	"log"
	"strconv"
)

// ----- ADSR Params ----- //

type adsrParams struct {
	attack  float64 // seconds, 0.01-5
	decay   float64 // seconds, 0-5
	sustain float64 // level, 0-1
	release float64 // seconds, 0.01-5
}
type adsrJSON struct {
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
	Release float64 `json:"release"`
}

func newAdsrParams() *adsrParams {
	return &adsrParams{attack: 0.01, decay: 0, sustain: 1, release: 0.01}
}
func (a *adsrParams) applyJSON(data json.RawMessage) {
	var j adsrJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to adsrParams")
		return
	}
	a.attack = clamp(j.Attack, 0.01, 5)
	a.decay = clamp(j.Decay, 0, 5)
	a.sustain = clamp(j.Sustain, 0, 1)
	a.release = clamp(j.Release, 0.01, 5)
}
func (a *adsrParams) toJSON() json.RawMessage {
	return toRawMessage(&adsrJSON{
		Attack:  a.attack,
		Decay:   a.decay,
		Sustain: a.sustain,
		Release: a.release,
	})
}
func (a *adsrParams) set(key string, value string) error {
	switch key {
	case "attack":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.attack = clamp(value, 0.01, 5)
	case "decay":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.decay = clamp(value, 0, 5)
	case "sustain":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.sustain = clamp(value, 0, 1)
	case "release":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.release = clamp(value, 0.01, 5)
	}
	return nil
}

// ----- Envelope ----- //

const (
	stageIdle = iota
	stageAttack
	stageDecay
	stageSustain
	stageRelease
)

/*
  1 +     x
    |    / \
  s +   /   x------x
    |  /            \
  0 +-+------+------+--+--
    | a  d   |      | r|
*/
// envelope is the per-voice amplitude ADSR. Stages ramp linearly; a
// note-on while the envelope is active restarts the attack from the
// current level so retriggers stay click-free.
type envelope struct {
	sampleRate  float64
	attack      float64 // seconds
	decay       float64
	sustain     float64 // level
	release     float64
	stage       int
	value       float64
	releaseRate float64 // per sample, fixed at note-off
}

func newEnvelope() *envelope {
	return &envelope{sampleRate: sampleRate}
}

func (e *envelope) setSampleRate(sr float64) {
	e.sampleRate = sr
}
func (e *envelope) setParams(p *adsrParams) {
	e.attack = p.attack
	e.decay = p.decay
	e.sustain = p.sustain
	e.release = p.release
}
func (e *envelope) reset() {
	e.stage = stageIdle
	e.value = 0
}
func (e *envelope) noteOn() {
	e.stage = stageAttack
}
func (e *envelope) noteOff() {
	if e.stage == stageIdle {
		return
	}
	e.stage = stageRelease
	if e.release <= 0 {
		e.releaseRate = e.value
	} else {
		e.releaseRate = e.value / (e.release * e.sampleRate)
	}
}

// isActive is false only in the idle stage.
func (e *envelope) isActive() bool {
	return e.stage != stageIdle
}

func (e *envelope) next() float64 {
	switch e.stage {
	case stageAttack:
		if e.attack <= 0 {
			e.value = 1
			e.stage = stageDecay
			break
		}
		e.value += 1 / (e.attack * e.sampleRate)
		if e.value >= 1 {
			e.value = 1
			e.stage = stageDecay
		}
	case stageDecay:
		if e.decay <= 0 || e.value <= e.sustain {
			e.value = e.sustain
			e.stage = stageSustain
			break
		}
		e.value -= (1 - e.sustain) / (e.decay * e.sampleRate)
		if e.value <= e.sustain {
			e.value = e.sustain
			e.stage = stageSustain
		}
	case stageSustain:
		e.value = e.sustain
	case stageRelease:
		e.value -= e.releaseRate
		if e.value <= 0 {
			e.value = 0
			e.stage = stageIdle
		}
	default:
		e.value = 0
	}
	return e.value
}
