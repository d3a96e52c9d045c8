package filter

// Filter is a scalar dynamical system filter.
type Filter interface {
	// Predict propagates the filter state to the next step given control input u
	Predict(u float64) (Estimate, error)
	// Update corrects the filter state using external measurement z
	Update(z float64) (Estimate, error)
}

// Estimate is scalar filter estimate
type Estimate interface {
	// Val returns estimate value
	Val() float64
	// Cov returns estimate variance
	Cov() float64
}

// Noise is scalar system noise
type Noise interface {
	// Mean returns noise mean
	Mean() float64
	// Var returns noise variance
	Var() float64
	// Sample returns a sample of the noise
	Sample() float64
	// Reset resets the noise
	Reset()
}

// Smoother is a fixed-interval filter smoother
type Smoother interface {
	// Smooth returns smoothed estimates of filtered estimates est given control inputs u
	Smooth(est []Estimate, u []float64) ([]Estimate, error)
}
