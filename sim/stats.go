package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises simulation errors against the true values
type Stats struct {
	// MeasurementRMSE is root mean square error of raw measurements
	MeasurementRMSE float64
	// EstimateRMSE is root mean square error of filter estimates
	EstimateRMSE float64
	// MeanVariance is the mean of estimate variances
	MeanVariance float64
	// FinalError is the absolute error of the last estimate
	FinalError float64
}

// NewStats computes error statistics of simulation result r.
func NewStats(r *Result) (Stats, error) {
	truth := r.Truth()

	measErr, err := RMSE(r.Observations(), truth)
	if err != nil {
		return Stats{}, err
	}

	vals := r.Values()
	estErr, err := RMSE(vals, truth)
	if err != nil {
		return Stats{}, err
	}

	last := len(vals) - 1

	return Stats{
		MeasurementRMSE: measErr,
		EstimateRMSE:    estErr,
		MeanVariance:    stat.Mean(r.Variances(), nil),
		FinalError:      math.Abs(vals[last] - truth[last]),
	}, nil
}

// RMSE returns root mean square error between a and b.
// It returns error if a and b are empty or differ in length.
func RMSE(a, b []float64) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("invalid data lengths: %d, %d", len(a), len(b))
	}

	d := make([]float64, len(a))
	floats.SubTo(d, a, b)
	floats.Mul(d, d)

	return math.Sqrt(stat.Mean(d, nil)), nil
}

// String implements the Stringer interface.
func (s Stats) String() string {
	return fmt.Sprintf("Stats{MeasurementRMSE=%.4f EstimateRMSE=%.4f MeanVariance=%.4f FinalError=%.4f}",
		s.MeasurementRMSE, s.EstimateRMSE, s.MeanVariance, s.FinalError)
}
