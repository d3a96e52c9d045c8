package sim

import (
	"fmt"

	filter "github.com/milosgajdos/go-estimate1d"
	"github.com/milosgajdos/go-estimate1d/noise"
	"gonum.org/v1/gonum/floats"
)

// Measurement is a single noisy observation of a true value
type Measurement struct {
	// Step is zero based measurement index
	Step int
	// Truth is the true value
	Truth float64
	// Value is the measured value i.e. Truth perturbed by noise
	Value float64
}

// Source is a source of measurements
type Source interface {
	// Next returns the next measurement; false when the source is exhausted
	Next() (Measurement, bool)
}

// Ramp is a linear ramp of true values observed through noise
type Ramp struct {
	// truth stores the true ramp values
	truth []float64
	// n is measurement noise
	n filter.Noise
	// i is the index of the next measurement
	i int
}

// NewRamp creates a ramp of steps true values evenly spaced from start to end inclusive
// and perturbs each of them by a sample of noise n. nil n means no noise.
// It returns error if steps is not positive or either of start and end is not finite.
func NewRamp(start, end float64, steps int, n filter.Noise) (*Ramp, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("invalid number of steps: %d", steps)
	}

	if !isFinite(start) || !isFinite(end) {
		return nil, fmt.Errorf("invalid ramp bounds: [%v, %v]", start, end)
	}

	if n == nil {
		n = noise.NewZero()
	}

	truth := make([]float64, steps)
	if steps == 1 {
		truth[0] = start
	} else {
		floats.Span(truth, start, end)
		// pin the end point against rounding in the step size
		truth[steps-1] = end
	}

	return &Ramp{
		truth: truth,
		n:     n,
	}, nil
}

// NewRampFromConfig creates a noisy ramp from simulation configuration c.
// Noise is Gaussian with zero mean and standard deviation c.Ramp.NoiseStd seeded with c.Seed.
func NewRampFromConfig(c *Config) (*Ramp, error) {
	std := c.Ramp.NoiseStd
	n, err := noise.NewGaussianWithSeed(0, std*std, c.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create measurement noise: %v", err)
	}

	return NewRamp(c.Ramp.Start, c.Ramp.End, c.Ramp.Steps, n)
}

// Next returns the next ramp measurement.
func (r *Ramp) Next() (Measurement, bool) {
	if r.i >= len(r.truth) {
		return Measurement{}, false
	}

	m := Measurement{
		Step:  r.i,
		Truth: r.truth[r.i],
		Value: r.truth[r.i] + r.n.Sample(),
	}
	r.i++

	return m, true
}

// At returns the true value at step i.
// It panics if i is out of range.
func (r *Ramp) At(i int) float64 {
	return r.truth[i]
}

// Len returns the number of ramp steps.
func (r *Ramp) Len() int {
	return len(r.truth)
}

// Reset rewinds the ramp and resets its noise.
func (r *Ramp) Reset() {
	r.i = 0
	r.n.Reset()
}
