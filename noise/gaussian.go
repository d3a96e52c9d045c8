package noise

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Gaussian is gaussian noise
type Gaussian struct {
	// dist is a univariate normal distribution
	dist distuv.Normal
	// mean is Gaussian mean
	mean float64
	// variance is Gaussian variance
	variance float64
	// seed is the source seed; zero means seed from clock
	seed uint64
}

// NewGaussian creates new Gaussian noise with given mean and variance.
// The noise source is seeded from the system clock.
// It returns error if variance is negative or if either parameter is not finite.
func NewGaussian(mean, variance float64) (*Gaussian, error) {
	return NewGaussianWithSeed(mean, variance, 0)
}

// NewGaussianWithSeed creates new Gaussian noise with given mean and variance
// whose samples are drawn from a source seeded with seed.
// Noise created with the same non-zero seed produces the same sample sequence.
// A zero seed seeds the source from the system clock.
func NewGaussianWithSeed(mean, variance float64, seed uint64) (*Gaussian, error) {
	if !isFinite(mean) {
		return nil, fmt.Errorf("invalid Gaussian mean: %v", mean)
	}

	if variance < 0 || !isFinite(variance) {
		return nil, fmt.Errorf("invalid Gaussian variance: %v", variance)
	}

	g := &Gaussian{
		mean:     mean,
		variance: variance,
		seed:     seed,
	}
	g.Reset()

	return g, nil
}

// Sample generates a sample from Gaussian noise and returns it.
func (g *Gaussian) Sample() float64 {
	return g.dist.Rand()
}

// Var returns variance of Gaussian noise.
func (g *Gaussian) Var() float64 {
	return g.variance
}

// Mean returns Gaussian mean.
func (g *Gaussian) Mean() float64 {
	return g.mean
}

// Reset resets Gaussian noise source.
// Seeded noise restarts its sample sequence from the beginning.
func (g *Gaussian) Reset() {
	seed := g.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	g.dist = distuv.Normal{
		Mu:    g.mean,
		Sigma: math.Sqrt(g.variance),
		Src:   rand.NewSource(seed),
	}
}

// String implements the Stringer interface.
func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian{Mean=%v Var=%v}", g.mean, g.variance)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
