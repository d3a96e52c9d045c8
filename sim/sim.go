package sim

import (
	"fmt"

	filter "github.com/milosgajdos/go-estimate1d"
	"github.com/milosgajdos/go-estimate1d/estimate"
	"gonum.org/v1/gonum/mat"
)

// columns of the simulation result matrix
const (
	colStep = iota
	colTruth
	colMeasurement
	colEstimate
	colVariance
	numCols
)

// StepFunc is called after every filter cycle with the measurement and the corrected estimate.
type StepFunc func(m Measurement, est filter.Estimate)

// Simulate runs filter f over all measurements produced by src.
// Every cycle predicts with control input u and updates with the measurement.
// It returns error if src produces no measurements or the filter fails.
func Simulate(f filter.Filter, src Source, u float64) (*Result, error) {
	return SimulateWithObserver(f, src, u, nil)
}

// SimulateWithObserver runs Simulate and calls obs after every filter cycle. obs may be nil.
func SimulateWithObserver(f filter.Filter, src Source, u float64, obs StepFunc) (*Result, error) {
	var (
		ms  []Measurement
		est []filter.Estimate
	)

	for {
		m, ok := src.Next()
		if !ok {
			break
		}

		if _, err := f.Predict(u); err != nil {
			return nil, fmt.Errorf("filter prediction failed at step %d: %w", m.Step, err)
		}

		e, err := f.Update(m.Value)
		if err != nil {
			return nil, fmt.Errorf("filter update failed at step %d: %w", m.Step, err)
		}

		if obs != nil {
			obs(m, e)
		}

		ms = append(ms, m)
		est = append(est, e)
	}

	return NewResult(ms, est)
}

// Result is simulation result: true values, measurements and filter estimates per step
type Result struct {
	data *mat.Dense
}

// NewResult creates new simulation result from measurements ms and matching estimates est.
// It returns error if ms is empty, its length differs from est or any estimate is nil
// or has an invalid variance.
func NewResult(ms []Measurement, est []filter.Estimate) (*Result, error) {
	if len(ms) == 0 {
		return nil, fmt.Errorf("invalid number of measurements: %d", len(ms))
	}

	if len(ms) != len(est) {
		return nil, fmt.Errorf("measurements and estimates mismatch: %d != %d", len(ms), len(est))
	}

	data := mat.NewDense(len(ms), numCols, nil)
	for i, m := range ms {
		if est[i] == nil {
			return nil, fmt.Errorf("missing estimate at step %d", m.Step)
		}
		if v := est[i].Cov(); v < 0 || !isFinite(v) {
			return nil, fmt.Errorf("invalid estimate variance at step %d: %v", m.Step, v)
		}
		data.SetRow(i, []float64{float64(m.Step), m.Truth, m.Value, est[i].Val(), est[i].Cov()})
	}

	return &Result{
		data: data,
	}, nil
}

// Len returns the number of simulation steps.
func (r *Result) Len() int {
	rows, _ := r.data.Dims()
	return rows
}

// Model returns true values per step as a two column [step, value] matrix.
func (r *Result) Model() *mat.Dense {
	return r.xy(colTruth)
}

// Measured returns measurements per step as a two column [step, value] matrix.
func (r *Result) Measured() *mat.Dense {
	return r.xy(colMeasurement)
}

// Filtered returns estimates per step as a two column [step, value] matrix.
func (r *Result) Filtered() *mat.Dense {
	return r.xy(colEstimate)
}

// Truth returns true values.
func (r *Result) Truth() []float64 {
	return mat.Col(nil, colTruth, r.data)
}

// Observations returns measured values.
func (r *Result) Observations() []float64 {
	return mat.Col(nil, colMeasurement, r.data)
}

// Values returns estimated values.
func (r *Result) Values() []float64 {
	return mat.Col(nil, colEstimate, r.data)
}

// Variances returns estimate variances.
func (r *Result) Variances() []float64 {
	return mat.Col(nil, colVariance, r.data)
}

// Measurements returns simulation measurements.
func (r *Result) Measurements() []Measurement {
	ms := make([]Measurement, r.Len())
	for i := range ms {
		ms[i] = Measurement{
			Step:  int(r.data.At(i, colStep)),
			Truth: r.data.At(i, colTruth),
			Value: r.data.At(i, colMeasurement),
		}
	}

	return ms
}

// Estimates returns filter estimates.
func (r *Result) Estimates() []filter.Estimate {
	est := make([]filter.Estimate, r.Len())
	for i := range est {
		// variances were validated when the result was built
		e, _ := estimate.NewBaseWithCov(r.data.At(i, colEstimate), r.data.At(i, colVariance))
		est[i] = e
	}

	return est
}

func (r *Result) xy(col int) *mat.Dense {
	m := mat.NewDense(r.Len(), 2, nil)
	m.SetCol(0, mat.Col(nil, colStep, r.data))
	m.SetCol(1, mat.Col(nil, col, r.data))

	return m
}
