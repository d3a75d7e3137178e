package synth

import (
	"encoding/json"
	"log"
	"math"
	"strconv"
)

// ----- Bitcrusher Params ----- //

type crusherParams struct {
	rateReduction int // >= 1, 1 means no reduction
	bitDepth      int // 1-24, 24 means full resolution
}
type crusherJSON struct {
	RateReduction int `json:"rateReduction"`
	BitDepth      int `json:"bitDepth"`
}

func newCrusherParams() *crusherParams {
	return &crusherParams{rateReduction: 1, bitDepth: 24}
}
func (c *crusherParams) applyJSON(data json.RawMessage) {
	var j crusherJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to crusherParams")
		return
	}
	c.rateReduction = clampInt(j.RateReduction, 1, 10)
	c.bitDepth = clampInt(j.BitDepth, 1, 24)
}
func (c *crusherParams) toJSON() json.RawMessage {
	return toRawMessage(&crusherJSON{
		RateReduction: c.rateReduction,
		BitDepth:      c.bitDepth,
	})
}
func (c *crusherParams) set(key string, value string) error {
	switch key {
	case "rateReduction":
		value, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		c.rateReduction = clampInt(int(value), 1, 10)
	case "bitDepth":
		value, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		c.bitDepth = clampInt(int(value), 1, 24)
	}
	return nil
}

// ----- Bitcrusher ----- //

// bitcrusher degrades a signal on two axes: the sample rate, by holding
// the output over rateReduction calls, and the amplitude resolution, by
// snapping to 2^bitDepth-1 evenly spaced levels across full scale.
type bitcrusher struct {
	rateReduction int
	bitDepth      int
	quantLevels   float64 // 2^bitDepth - 1
	held          float64
	counter       int
}

func newBitcrusher() *bitcrusher {
	return &bitcrusher{
		rateReduction: 1,
		bitDepth:      24,
		quantLevels:   math.Pow(2, 24) - 1,
	}
}

func (b *bitcrusher) setSampleRateReduction(n int) {
	if n < 1 {
		n = 1
	}
	b.rateReduction = n
}

func (b *bitcrusher) setBitDepth(depth int) {
	b.bitDepth = clampInt(depth, 1, 24)
	b.quantLevels = math.Pow(2, float64(b.bitDepth)) - 1
}

// process expects half-scale input (+-0.5) and returns the crushed value
// in the same range. Between scheduled updates it returns the held value.
func (b *bitcrusher) process(in float64) float64 {
	in *= 2 // to full scale for quantization
	b.counter++
	if b.counter >= b.rateReduction {
		b.counter = 0
		b.held = math.Round(in*b.quantLevels) / b.quantLevels / 2
	}
	return b.held
}
