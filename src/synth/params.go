package synth

import (
	"encoding/json"
	"log"
)

// params is the full control snapshot shared by every voice and the
// master chain. The audio goroutine reads it under the state lock; the
// control surface mutates it through applyJSON or per-field set calls.
type params struct {
	osc     *oscParams
	pwm     *pwmParams
	bend    *pitchBendParams
	vib     *vibratoParams
	arp     *arpParams
	adsr    *adsrParams
	crusher *crusherParams
	delay   *delayParams
}

func newParams() *params {
	return &params{
		osc:     newOscParams(),
		pwm:     newPwmParams(),
		bend:    newPitchBendParams(),
		vib:     newVibratoParams(),
		arp:     newArpParams(),
		adsr:    newAdsrParams(),
		crusher: newCrusherParams(),
		delay:   newDelayParams(),
	}
}

type paramsJSON struct {
	Osc     json.RawMessage `json:"osc"`
	Pwm     json.RawMessage `json:"pwm"`
	Bend    json.RawMessage `json:"bend"`
	Vibrato json.RawMessage `json:"vibrato"`
	Arp     json.RawMessage `json:"arp"`
	Adsr    json.RawMessage `json:"adsr"`
	Crusher json.RawMessage `json:"crusher"`
	Delay   json.RawMessage `json:"delay"`
}

func (p *params) applyJSON(data json.RawMessage) {
	var j paramsJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to params")
		return
	}
	p.osc.applyJSON(j.Osc)
	p.pwm.applyJSON(j.Pwm)
	p.bend.applyJSON(j.Bend)
	p.vib.applyJSON(j.Vibrato)
	p.arp.applyJSON(j.Arp)
	p.adsr.applyJSON(j.Adsr)
	p.crusher.applyJSON(j.Crusher)
	p.delay.applyJSON(j.Delay)
}
func (p *params) toJSON() json.RawMessage {
	return toRawMessage(&paramsJSON{
		Osc:     p.osc.toJSON(),
		Pwm:     p.pwm.toJSON(),
		Bend:    p.bend.toJSON(),
		Vibrato: p.vib.toJSON(),
		Arp:     p.arp.toJSON(),
		Adsr:    p.adsr.toJSON(),
		Crusher: p.crusher.toJSON(),
		Delay:   p.delay.toJSON(),
	})
}
