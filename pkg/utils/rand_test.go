package utils

import (
	"math"
	"testing"
)

func TestNewRandSource(t *testing.T) {
	rng1 := NewRandSource(12345)
	if rng1 == nil {
		t.Fatal("Expected RandSource to be created")
	}
	if rng1.Seed() != 12345 {
		t.Errorf("expected seed 12345, got %d", rng1.Seed())
	}

	rng2 := NewRandSource(0)
	if rng2.Seed() == 0 {
		t.Error("zero seed should be replaced with a time-based seed")
	}
}

func TestRandSourceFloat64(t *testing.T) {
	rng := NewRandSource(12345)

	for i := 0; i < 100; i++ {
		val := rng.Float64()
		if val < 0 || val >= 1.0 {
			t.Errorf("Float64() returned value outside [0, 1): %f", val)
		}
	}
}

func TestRandSourceExpSamplesMean(t *testing.T) {
	rate := 2.0
	samples := NewRandSource(12345).ExpSamples(2000, rate, 1)
	for i, v := range samples {
		if v < 0 {
			t.Fatalf("sample %d is negative: %f", i, v)
		}
	}
	if mean := Mean(samples); math.Abs(mean-1.0/rate) > 0.1 {
		t.Errorf("ExpSamples mean %f not close to expected %f", mean, 1.0/rate)
	}
}

func TestRandSourceExpSamplesDeterministic(t *testing.T) {
	a := NewRandSource(7).ExpSamples(50, 3.0, 0.1)
	b := NewRandSource(7).ExpSamples(50, 3.0, 0.1)
	if len(a) != 50 {
		t.Fatalf("expected 50 samples, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestRandSourceExpSamplesScale(t *testing.T) {
	unscaled := NewRandSource(99).ExpSamples(10, 4.0, 1)
	scaled := NewRandSource(99).ExpSamples(10, 4.0, 0.1)
	for i := range unscaled {
		if math.Abs(scaled[i]-0.1*unscaled[i]) > 1e-12 {
			t.Fatalf("sample %d: scaled %f != 0.1*%f", i, scaled[i], unscaled[i])
		}
	}
}

func TestDefaultSource(t *testing.T) {
	for i := 0; i < 100; i++ {
		if v := Float64(); v < 0 || v >= 1 {
			t.Fatalf("Float64() returned value outside [0, 1): %f", v)
		}
	}
}
