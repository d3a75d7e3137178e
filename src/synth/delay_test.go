package synth

import (
	"math"
	"testing"
)

func TestDelayPassthroughWhenZero(t *testing.T) {
	d := &delay{}
	if err := d.setSize(100); err != nil {
		t.Fatal(err)
	}
	d.setDryWetMix(1)
	for i := 0; i < 10; i++ {
		in := float64(i) * 0.01
		if out := d.process(in); out != in {
			t.Fatalf("expected passthrough, got %v for %v", out, in)
		}
	}
}

func TestDelayEchoes(t *testing.T) {
	d := &delay{}
	if err := d.setSize(1000); err != nil {
		t.Fatal(err)
	}
	d.setDelayTime(10)
	d.setFeedback(0.5)
	d.setDryWetMix(1)

	out := make([]float64, 100)
	for i := range out {
		in := 0.0
		if i == 0 {
			in = 1
		}
		out[i] = d.process(in)
	}
	// The impulse returns every 10 samples, halved each pass.
	for n := 0; n < 5; n++ {
		i := 10 * (n + 1)
		want := math.Pow(0.5, float64(n))
		if math.Abs(out[i]-want) > 1e-9 {
			t.Errorf("echo %d: expected %v at sample %d, got %v", n, want, i, out[i])
		}
	}
	for i, v := range out[:50] {
		if i%10 != 0 && v != 0 {
			t.Errorf("expected silence at sample %d, got %v", i, v)
		}
	}
}

func TestDelayFractionalInterpolation(t *testing.T) {
	d := &delay{}
	if err := d.setSize(1000); err != nil {
		t.Fatal(err)
	}
	d.setDelayTime(10.5)
	d.setDryWetMix(1)

	var got []float64
	for i := 0; i < 30; i++ {
		in := 0.0
		if i == 0 {
			in = 1
		}
		got = append(got, d.process(in))
	}
	// A half-sample read position splits the impulse across neighbors.
	if math.Abs(got[10]-0.5) > 1e-9 || math.Abs(got[11]-0.5) > 1e-9 {
		t.Errorf("expected 0.5 at samples 10 and 11, got %v and %v", got[10], got[11])
	}
}

func TestDelayRejectsBadSize(t *testing.T) {
	d := &delay{}
	if err := d.setSize(0); err == nil {
		t.Error("expected an error for size 0")
	}
}
