package synth

import (
	"math"
	"math/cmplx"

	"github.com/ktye/fft"
)

var spectrumFFT fft.FFT

func init() {
	f, err := fft.New(fftSize)
	if err != nil {
		panic(err)
	}
	spectrumFFT = f
}

// han applies a Han window in place.
func han(data []float64) {
	n := len(data)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n)
		w := 0.5 - 0.5*math.Cos(2.0*math.Pi*x)
		data[i] = data[i] * w
	}
}

// spectrum windows data, transforms it and writes the normalized
// amplitude of each bin back into the first half of data, which is
// returned. data must be fftSize long.
func spectrum(data []float64) []float64 {
	han(data)
	buf := make([]complex128, len(data))
	for i, v := range data {
		buf[i] = complex(v, 0)
	}
	buf = spectrumFFT.Transform(buf)
	for i := 0; i < len(data)/2; i++ {
		data[i] = cmplx.Abs(buf[i]) * 2 / float64(len(data))
	}
	return data[:len(data)/2]
}
