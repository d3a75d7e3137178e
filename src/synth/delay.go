package synth

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
)

// ----- Delay Params ----- //

type delayParams struct {
	time     float64 // seconds, 0-1
	feedback float64 // 0-0.99
	mix      float64 // 0-1, dry to wet
}
type delayJSON struct {
	Time     float64 `json:"time"`
	Feedback float64 `json:"feedback"`
	Mix      float64 `json:"mix"`
}

func newDelayParams() *delayParams {
	return &delayParams{time: 0, feedback: 0, mix: 0.2}
}
func (d *delayParams) applyJSON(data json.RawMessage) {
	var j delayJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to delayParams")
		return
	}
	d.time = clamp(j.Time, 0, 1)
	d.feedback = clamp(j.Feedback, 0, 0.99)
	d.mix = clamp(j.Mix, 0, 1)
}
func (d *delayParams) toJSON() json.RawMessage {
	return toRawMessage(&delayJSON{
		Time:     d.time,
		Feedback: d.feedback,
		Mix:      d.mix,
	})
}
func (d *delayParams) set(key string, value string) error {
	switch key {
	case "time":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		d.time = clamp(value, 0, 1)
	case "feedback":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		d.feedback = clamp(value, 0, 0.99)
	case "mix":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		d.mix = clamp(value, 0, 1)
	}
	return nil
}

// ----- Delay ----- //

// delay is a feedback delay line over a fixed-size ring buffer. The read
// position trails the write position by the delay time and may fall
// between samples; reads interpolate linearly between the bracketing
// entries. The buffer is sized once before processing starts and never
// reallocated in the render path.
type delay struct {
	buffer    []float64
	writePos  int
	readPos   float64
	delayTime float64 // samples
	feedback  float64
	mix       float64
}

// setSize allocates the zero-filled ring buffer. Must be called before
// the first process call with a non-zero delay time.
func (d *delay) setSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("delay: size must be positive, got %d", size)
	}
	d.buffer = make([]float64, size)
	d.writePos = 0
	d.readPos = 0
	return nil
}

// setDelayTime sets the delay in samples and realigns the read position.
func (d *delay) setDelayTime(samples float64) {
	d.delayTime = samples
	readPos := float64(d.writePos) - samples
	if readPos < 0 {
		readPos += float64(len(d.buffer))
	}
	d.readPos = readPos
}

func (d *delay) setFeedback(feedback float64) {
	d.feedback = clamp(feedback, 0, 0.99)
}

func (d *delay) setDryWetMix(mix float64) {
	d.mix = clamp(mix, 0, 1)
}

func (d *delay) process(in float64) float64 {
	if d.delayTime <= 0 {
		return in
	}
	delayed := d.interpolate()
	d.buffer[d.writePos] = in + delayed*d.feedback

	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos -= len(d.buffer)
	}
	d.readPos++
	if d.readPos >= float64(len(d.buffer)) {
		d.readPos -= float64(len(d.buffer))
	}
	return in*(1-d.mix) + delayed*d.mix
}

func (d *delay) interpolate() float64 {
	indexA := int(d.readPos)
	indexB := (indexA + 1) % len(d.buffer)
	frac := d.readPos - float64(indexA)
	return (1-frac)*d.buffer[indexA] + frac*d.buffer[indexB]
}
