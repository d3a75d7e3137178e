package synth

import "math/rand"

// ----- Voice ----- //

// voice renders one note. It owns its oscillator, the four modulation
// modules, the amplitude envelope and a dedicated bitcrusher for the
// triangle distortion option. Voices are created once at engine start
// and re-armed on every note-on; they are never destroyed.
type voice struct {
	playing bool
	note    int
	stamp   int64 // arm order, used by the pool to steal the oldest

	osc     *oscillator
	pwm     *pulseWidthModulator
	arp     *arpeggiator
	bend    *pitchBend
	vib     *vibrato
	env     *envelope
	crusher *bitcrusher

	freq     float64
	velocity float64
}

func newVoice() *voice {
	return &voice{
		osc:      newOscillator(waveSquare),
		pwm:      newPulseWidthModulator(),
		arp:      newArpeggiator(),
		bend:     newPitchBend(),
		vib:      newVibrato(),
		env:      newEnvelope(),
		crusher:  newBitcrusher(),
		velocity: 1,
	}
}

// noteOn arms the voice from the current control snapshot.
func (v *voice) noteOn(note int, velocity float64, p *params) {
	v.playing = true
	v.note = note
	v.velocity = velocity
	v.freq = midiNoteToFreq(note)

	v.osc.kind = p.osc.kind
	v.osc.setFrequency(v.freq)
	v.osc.setPulseWidth(pulseWidthPresets[p.osc.pulseWidth])

	v.pwm.resetSustainCounter()
	v.bend.start(note, p.bend)
	v.arp.start(note, p.arp)
	v.vib.resetSustainCounter()

	// Retrigger attacks from the current envelope level; no reset.
	v.env.setParams(p.adsr)
	v.env.noteOn()
}

// noteOff only releases the envelope. Modulation keeps running until
// the release tail has fully decayed.
func (v *voice) noteOff() {
	v.env.noteOff()
}

// step renders one sample. Frequency is decided first (arpeggiator,
// then pitch bend overriding it, then vibrato as a proportional
// multiplier), the oscillator renders at that frequency, and the
// envelope with a fixed headroom scalar gates the result.
func (v *voice) step(p *params) float64 {
	if !v.playing {
		return 0
	}
	if p.arp.enabled {
		v.freq = v.arp.nextFrequency(p.arp)
	}
	if p.bend.enabled {
		v.freq = v.bend.process()
	}
	vibValue := v.vib.process(p.vib) // always advances its gate
	if p.vib.enabled {
		v.freq *= 1 + vibValue
	}

	var out float64
	switch v.osc.kind {
	case waveSquare:
		v.osc.setFrequency(v.freq)
		if p.pwm.enabled {
			v.osc.setPulseWidth(v.pwm.process(p.pwm))
		}
		out = v.osc.next() / 2 // +-1 down to half scale
	case waveTriangle:
		v.osc.setFrequency(v.freq)
		if p.osc.triDistortion {
			// Coarse 4-bit half-rate quantization, NES flavor.
			v.crusher.setSampleRateReduction(2)
			v.crusher.setBitDepth(4)
			out = v.crusher.process(v.osc.next()) * 1.2
		} else {
			out = v.osc.next() * 1.2
		}
	case waveNoise:
		v.osc.setFrequency(v.freq)
		if p.osc.noiseDistortion {
			out = v.osc.next() * 0.5 // quantized wavetable path
		} else {
			out = rand.Float64() - 0.5 // uncorrelated white noise
		}
	default: // sine, saw
		v.osc.setFrequency(v.freq)
		out = v.osc.next()
	}

	out *= 0.5 * v.velocity * v.env.next()
	if !v.env.isActive() {
		v.playing = false
	}
	return out
}
