package kalman

import (
	filter "github.com/milosgajdos/go-estimate1d"
)

// Kalman is Kalman Filter
type Kalman interface {
	// filter.Filter is dynamical system filter
	filter.Filter
	// Cov returns Kalman filter state variance
	Cov() float64
	// Gain returns Kalman filter gain
	Gain() float64
}
