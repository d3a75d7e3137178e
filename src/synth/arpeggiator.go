package synth

import (
	"encoding/json"
	"log"
	"math/rand"
	"strconv"
)

// ----- Arpeggio Patterns ----- //

// Semitone offsets from the root; the root itself is always first.
var arpPatterns = [][]int{
	{0, 3},            // minor third
	{0, 4},            // major third
	{0, 5},            // fourth
	{0, 7},            // fifth
	{0, 3, 7},         // minor triad
	{0, 4, 7},         // major triad
	{0, 4, 7, 11},     // major 7
	{0, 4, 7, 11, 14}, // major 9
}

const arpPatternRandom = 8
const arpRandomLength = 6

// ----- Arpeggiator Params ----- //

type arpParams struct {
	enabled bool
	pattern int     // 0-7 fixed patterns, 8 random
	octaves int     // 0 repeat-and-hold, 1-2 octave loop
	speed   float64 // 0-1
}
type arpJSON struct {
	Enabled bool    `json:"enabled"`
	Pattern int     `json:"pattern"`
	Octaves int     `json:"octaves"`
	Speed   float64 `json:"speed"`
}

func newArpParams() *arpParams {
	return &arpParams{enabled: false, pattern: 0, octaves: 0, speed: 0.5}
}
func (a *arpParams) applyJSON(data json.RawMessage) {
	var j arpJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to arpParams")
		return
	}
	a.enabled = j.Enabled
	a.pattern = clampInt(j.Pattern, 0, arpPatternRandom)
	a.octaves = clampInt(j.Octaves, 0, 2)
	a.speed = clamp(j.Speed, 0, 1)
}
func (a *arpParams) toJSON() json.RawMessage {
	return toRawMessage(&arpJSON{
		Enabled: a.enabled,
		Pattern: a.pattern,
		Octaves: a.octaves,
		Speed:   a.speed,
	})
}
func (a *arpParams) set(key string, value string) error {
	switch key {
	case "enabled":
		a.enabled = value == "true"
	case "pattern":
		value, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		a.pattern = clampInt(int(value), 0, arpPatternRandom)
	case "octaves":
		value, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		a.octaves = clampInt(int(value), 0, 2)
	case "speed":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.speed = clamp(value, 0, 1)
	}
	return nil
}

// ----- Arpeggiator ----- //

// arpeggiator walks a semitone pattern from the root note at a rate
// derived from the speed control. With octaves=0 the pattern plays once
// and holds its last note; otherwise it wraps, shifting up an octave per
// cycle until the configured count is reached.
type arpeggiator struct {
	sampleRate     float64
	pattern        []int
	noteIndex      int
	noteIncrement  int // current octave shift
	numOctaves     int
	rootNote       int
	currentNote    int
	samplesPerNote int
	sampleCounter  int
}

func newArpeggiator() *arpeggiator {
	return &arpeggiator{
		sampleRate: sampleRate,
		pattern:    arpPatterns[0],
		noteIndex:  1,
	}
}

func (a *arpeggiator) setSampleRate(sr float64) {
	a.sampleRate = sr
}

// start arms the arpeggiator on a root note. The index starts at the
// second pattern entry because the root is already sounding.
func (a *arpeggiator) start(rootNote int, p *arpParams) {
	a.rootNote = rootNote
	a.currentNote = rootNote
	a.noteIncrement = 0
	a.noteIndex = 1
	a.sampleCounter = 0
	a.numOctaves = p.octaves
	if p.pattern == arpPatternRandom {
		a.pattern = randomPattern()
	} else {
		a.pattern = arpPatterns[p.pattern]
	}
}

// nextFrequency advances the note clock one sample and returns the
// frequency to play. Speed is re-read every call so live automation
// changes the note rate immediately.
func (a *arpeggiator) nextFrequency(p *arpParams) float64 {
	a.samplesPerNote = int(a.sampleRate * 0.5 * (1.01 - p.speed))
	if a.sampleCounter >= a.samplesPerNote {
		a.sampleCounter = 0
		// The <= guard allows one extra step past the pattern end
		// before the hold engages; the read below clamps in range.
		if a.noteIndex <= len(a.pattern) {
			i := a.noteIndex
			if i >= len(a.pattern) {
				i = len(a.pattern) - 1
			}
			a.currentNote = a.rootNote + a.pattern[i] + 12*a.noteIncrement
			a.advance()
		}
	}
	a.sampleCounter++
	return midiNoteToFreq(a.currentNote)
}

func (a *arpeggiator) advance() {
	a.noteIndex++
	if a.noteIndex >= len(a.pattern) {
		if a.numOctaves > 0 {
			a.noteIndex = 0
			a.noteIncrement++
			if a.noteIncrement >= a.numOctaves {
				a.noteIncrement = 0
			}
		} else {
			a.noteIndex = len(a.pattern) - 1 // hold the last note
		}
	}
}

// randomPattern draws a fresh pattern of offsets in [-7,7], the root
// prefixed. Redrawn on every arm.
func randomPattern() []int {
	pattern := make([]int, 0, arpRandomLength+1)
	pattern = append(pattern, 0)
	for i := 0; i < arpRandomLength; i++ {
		pattern = append(pattern, rand.Intn(15)-7)
	}
	return pattern
}
