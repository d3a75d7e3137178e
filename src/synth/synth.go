package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/hajimehoshi/oto"
)

const (
	sampleRate      = 48000
	channelNum      = 2
	bitDepthInBytes = 2
	samplesPerCycle = 1024
	fftSize         = 2048 // multiple of samplesPerCycle
	voiceCount      = 10
	delaySeconds    = 3 // ring buffer capacity
)
const bytesPerSample = bitDepthInBytes * channelNum
const bufferSizeInBytes = samplesPerCycle * bytesPerSample // should be >= 4096
const secPerSample = 1.0 / sampleRate
const baseFreq = 440.0

// ----- Utility ----- //

func now() float64 {
	return float64(time.Now().UnixNano()) / 1000 / 1000 / 1000
}
func midiNoteToFreq(note int) float64 {
	return baseFreq * math.Pow(2, float64(note-69)/12)
}
func clamp(value float64, min float64, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
func clampInt(value int, min int, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
func toRawMessage(v interface{}) json.RawMessage {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(bytes)
}

// ----- MIDI Event ----- //

type midiEvent struct {
	offset float64
	event  interface{}
}

type noteOn struct {
	note     int
	velocity float64
}
type noteOff struct {
	note int
}

// ----- Master Chain ----- //

// masterChain is the per-channel post-voice effect chain, bitcrusher
// into delay. Both channels get the same mono voice sum but keep
// separate effect state.
type masterChain struct {
	crusher *bitcrusher
	delay   *delay
}

func newMasterChain() *masterChain {
	m := &masterChain{
		crusher: newBitcrusher(),
		delay:   &delay{},
	}
	if err := m.delay.setSize(sampleRate * delaySeconds); err != nil {
		panic(err)
	}
	return m
}

// applyParams refreshes the chain once per render cycle, not per sample.
func (m *masterChain) applyParams(p *params) {
	m.crusher.setSampleRateReduction(p.crusher.rateReduction)
	m.crusher.setBitDepth(p.crusher.bitDepth)
	m.delay.setDelayTime(p.delay.time * sampleRate)
	m.delay.setFeedback(p.delay.feedback)
	m.delay.setDryWetMix(p.delay.mix)
}

func (m *masterChain) process(in float64) float64 {
	return m.delay.process(m.crusher.process(in))
}

// ----- Voice Pool ----- //

// voicePool holds a fixed set of voices. A note-on takes an idle voice
// if one exists, otherwise it steals the longest-held active voice.
type voicePool struct {
	voices []*voice
	stamp  int64
}

func newVoicePool() *voicePool {
	voices := make([]*voice, voiceCount)
	for i := 0; i < len(voices); i++ {
		voices[i] = newVoice()
	}
	return &voicePool{voices: voices}
}

func (vp *voicePool) noteOn(note int, velocity float64, p *params) {
	var target *voice
	for _, v := range vp.voices {
		if !v.playing {
			target = v
			break
		}
	}
	if target == nil {
		target = vp.voices[0]
		for _, v := range vp.voices {
			if v.stamp < target.stamp {
				target = v
			}
		}
	}
	vp.stamp++
	target.stamp = vp.stamp
	target.noteOn(note, velocity, p)
}

func (vp *voicePool) noteOff(note int) {
	for _, v := range vp.voices {
		if v.playing && v.note == note && v.env.stage != stageRelease {
			v.noteOff()
		}
	}
}

func (vp *voicePool) step(p *params) float64 {
	sum := 0.0
	for _, v := range vp.voices {
		sum += v.step(p)
	}
	return sum
}

// ----- Changes ----- //

// Changes ...
type Changes struct {
	sync.Mutex
	dict map[string]struct{}
}

// Add ...
func (c *Changes) Add(key string) {
	c.Lock()
	c.dict[key] = struct{}{}
	c.Unlock()
}

// Has ...
func (c *Changes) Has(key string) bool {
	c.Lock()
	_, ok := c.dict[key]
	c.Unlock()
	return ok
}

// Delete ...
func (c *Changes) Delete(key string) {
	c.Lock()
	delete(c.dict, key)
	c.Unlock()
}

// ----- State ----- //

type state struct {
	sync.Mutex
	events   [][]*midiEvent // length: samplesPerCycle * 2
	params   *params
	pool     *voicePool
	left     *masterChain
	right    *masterChain
	pos      int64
	out      []float64 // left channel, length: fftSize
	outRight []float64 // length: samplesPerCycle
	lastRead float64
}

func newState() *state {
	return &state{
		events:   make([][]*midiEvent, samplesPerCycle*2),
		params:   newParams(),
		pool:     newVoicePool(),
		left:     newMasterChain(),
		right:    newMasterChain(),
		out:      make([]float64, fftSize),
		outRight: make([]float64, samplesPerCycle),
	}
}

type stateJSON struct {
	Params json.RawMessage `json:"params"`
}

func (s *state) applyJSON(data json.RawMessage) {
	var j stateJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to state")
		return
	}
	s.params.applyJSON(j.Params)
}
func (s *state) toJSON() json.RawMessage {
	return toRawMessage(&stateJSON{
		Params: s.params.toJSON(),
	})
}

// calc renders one cycle of samples into out (left) and outRight,
// dispatching any MIDI events that fall inside the cycle.
func (s *state) calc(out []float64, outRight []float64) {
	s.left.applyParams(s.params)
	s.right.applyParams(s.params)
	for i := 0; i < len(out); i++ {
		for _, e := range s.events[i] {
			switch data := e.event.(type) {
			case *noteOn:
				s.pool.noteOn(data.note, data.velocity, s.params)
			case *noteOff:
				s.pool.noteOff(data.note)
			}
		}
		sum := s.pool.step(s.params)
		out[i] = s.left.process(sum)
		outRight[i] = s.right.process(sum)
	}
}

// ----- Synth ----- //

// Synth ...
type Synth struct {
	ctx        context.Context
	otoContext *oto.Context
	CommandCh  chan []string
	state      *state
	Changes    *Changes
	presets    *presetManager
	fftResult  []float64 // length: fftSize
}

var _ io.Reader = (*Synth)(nil)

type synthJSON struct {
	State json.RawMessage `json:"state"`
}

// ApplyJSON ...
func (s *Synth) ApplyJSON(data []byte) {
	s.state.Lock()
	defer s.state.Unlock()
	var j synthJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to Synth", err)
		return
	}
	s.state.applyJSON(j.State)
}

// ToJSON ...
func (s *Synth) ToJSON() []byte {
	s.state.Lock()
	defer s.state.Unlock()
	bytes, err := json.Marshal(s.toJSON())
	if err != nil {
		panic(err)
	}
	return bytes
}

func (s *Synth) toJSON() json.RawMessage {
	return toRawMessage(&synthJSON{
		State: s.state.toJSON(),
	})
}

func (s *Synth) Read(buf []byte) (int, error) {
	select {
	case <-s.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
		s.state.Lock()
		defer s.state.Unlock()
		timestamp := now()
		bufSamples := int64(len(buf) / bytesPerSample)

		offset := s.state.pos % fftSize
		out := s.state.out[offset : offset+bufSamples]
		s.state.calc(out, s.state.outRight[:bufSamples])
		writeBuffer(s.state.out, offset, buf, 0)
		writeBuffer(s.state.outRight, 0, buf, 1)
		s.state.pos += bufSamples
		s.state.lastRead = timestamp
		eventLength := len(s.state.events)
		for i := 0; i < eventLength; i++ {
			if i >= eventLength/2 {
				s.state.events[i-eventLength/2] = s.state.events[i]
			}
			s.state.events[i] = nil
		}
		return len(buf), nil
	}
}

func writeBuffer(out []float64, outOffset int64, buf []byte, ch int) {
	sampleLength := int(len(buf) / bytesPerSample)
	for i := 0; i < sampleLength; i++ {
		value := out[outOffset+int64(i)]
		switch bitDepthInBytes {
		case 1:
			const max = 127
			b := int(value * max)
			buf[bytesPerSample*i+ch] = byte(b + 128)
		case 2:
			const max = 32767
			b := int16(value * max)
			buf[bytesPerSample*i+2*ch] = byte(b)
			buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
		}
	}
}

// newSynth builds the engine without binding an audio device. Start and
// Close only work on a Synth from NewSynth.
func newSynth() *Synth {
	return &Synth{
		ctx:       context.Background(),
		CommandCh: make(chan []string, 256),
		state:     newState(),
		Changes: &Changes{
			dict: make(map[string]struct{}),
		},
		presets:   newPresetManager("presets"),
		fftResult: make([]float64, fftSize),
	}
}

// NewSynth ...
func NewSynth() (*Synth, error) {
	otoContext, err := oto.NewContext(sampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return nil, err
	}
	s := newSynth()
	s.otoContext = otoContext
	go processCommands(s, s.CommandCh)
	return s, nil
}

func processCommands(s *Synth, commandCh <-chan []string) {
	for command := range commandCh {
		if err := s.update(command); err != nil {
			log.Printf("failed to run %v: %v\n", command, err)
		}
	}
	log.Println("processCommands() ended.")
}

func (s *Synth) update(command []string) error {
	s.state.Lock()
	defer s.state.Unlock()

	switch command[0] {
	case "set":
		command = command[1:]
		if len(command) != 3 {
			return fmt.Errorf("invalid set command %v", command)
		}
		var err error
		switch section := command[0]; section {
		case "osc":
			err = s.state.params.osc.set(command[1], command[2])
		case "pwm":
			err = s.state.params.pwm.set(command[1], command[2])
		case "bend":
			err = s.state.params.bend.set(command[1], command[2])
		case "vibrato":
			err = s.state.params.vib.set(command[1], command[2])
		case "arp":
			err = s.state.params.arp.set(command[1], command[2])
		case "adsr":
			err = s.state.params.adsr.set(command[1], command[2])
		case "crusher":
			err = s.state.params.crusher.set(command[1], command[2])
		case "delay":
			err = s.state.params.delay.set(command[1], command[2])
		default:
			err = fmt.Errorf("unknown section %v", section)
		}
		if err != nil {
			return err
		}
		s.Changes.Add("data")
	case "load_preset":
		if len(command) != 2 {
			return fmt.Errorf("invalid preset command %v", command)
		}
		if err := s.presets.applyToParams(command[1], s.state.params); err != nil {
			return err
		}
		s.Changes.Add("data")
	case "save_preset":
		if len(command) != 2 {
			return fmt.Errorf("invalid preset command %v", command)
		}
		return s.presets.save(command[1], s.state.params)
	case "note_on":
		note, err := strconv.ParseInt(command[1], 10, 32)
		if err != nil {
			return err
		}
		s.addMidiEvent(&noteOn{note: int(note), velocity: 1})
	case "note_off":
		note, err := strconv.ParseInt(command[1], 10, 32)
		if err != nil {
			return err
		}
		s.addMidiEvent(&noteOff{note: int(note)})
	default:
		return fmt.Errorf("unknown command %v", command[0])
	}
	return nil
}

// Close ...
func (s *Synth) Close() error {
	log.Println("Closing Synth...")
	close(s.CommandCh)
	return s.otoContext.Close()
}

// Start ...
func (s *Synth) Start(ctx context.Context) error {
	p := s.otoContext.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	s.ctx = ctx

	// block until cancel() called
	if _, err := io.CopyBuffer(p, s, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}

// GetFFT returns the amplitude spectrum of the most recent left-channel
// output, fftSize/2 bins wide.
func (s *Synth) GetFFT() []float64 {
	s.state.Lock()
	// out:       | 4 | 1 | 2 | 3 |
	// offset:        ^
	// fftResult: | 1 | 2 | 3 | 4 |
	// return:    |<----->|
	offset := s.state.pos % fftSize
	copy(s.fftResult, s.state.out[offset:])
	copy(s.fftResult[fftSize-offset:], s.state.out[:offset])
	s.state.Unlock()
	return spectrum(s.fftResult)
}

// AddMidiEvent ...
func (s *Synth) AddMidiEvent(data []byte) {
	s.state.Lock()
	defer s.state.Unlock()
	if data[0]>>4 == 8 || data[0]>>4 == 9 && data[2] == 0 {
		log.Printf("got note-off: %v\n", data)
		note := int(data[1])
		s.addMidiEvent(&noteOff{note: note})
	} else if data[0]>>4 == 9 && data[2] > 0 {
		log.Printf("got note-on: %v\n", data)
		note := int(data[1])
		velocity := float64(data[2]) / 127
		s.addMidiEvent(&noteOn{note: note, velocity: velocity})
	}
}

func (s *Synth) addMidiEvent(event interface{}) {
	offset := now() - s.state.lastRead
	index := int(offset / secPerSample)
	if index < 0 {
		log.Println("[WARN] index < 0")
		index = 0
	}
	if index >= len(s.state.events) {
		log.Println("[WARN] index >= event length")
		index = len(s.state.events) - 1
	}
	s.state.events[index] = append(s.state.events[index], &midiEvent{offset: offset, event: event})
}
