package sim

import (
	"errors"
	"testing"

	filter "github.com/milosgajdos/go-estimate1d"
	"github.com/milosgajdos/go-estimate1d/estimate"
	"github.com/milosgajdos/go-estimate1d/kalman/kf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingFilter struct {
	filter.Filter
}

func (f *failingFilter) Predict(u float64) (filter.Estimate, error) {
	return nil, errors.New("predict failed")
}

func TestSimulate(t *testing.T) {
	assert := assert.New(t)

	c := DefaultConfig()
	c.Seed = 1664

	r, err := NewRampFromConfig(c)
	require.NoError(t, err)

	f, err := kf.New(c.Filter.InitialState, c.Filter.InitialUncertainty, c.Filter.ProcessVariance, c.Filter.MeasurementVariance)
	require.NoError(t, err)

	steps := 0
	res, err := SimulateWithObserver(f, r, 0, func(m Measurement, est filter.Estimate) {
		assert.Equal(steps, m.Step)
		steps++
	})
	assert.NoError(err)
	assert.NotNil(res)
	assert.Equal(c.Ramp.Steps, steps)
	assert.Equal(c.Ramp.Steps, res.Len())

	// last estimate is the filter state
	vals := res.Values()
	assert.Equal(f.State(), vals[len(vals)-1])
	assert.Equal(f.Cov(), res.Variances()[len(vals)-1])

	for _, m := range []interface{ Dims() (int, int) }{res.Model(), res.Measured(), res.Filtered()} {
		rows, cols := m.Dims()
		assert.Equal(c.Ramp.Steps, rows)
		assert.Equal(2, cols)
	}
	assert.Equal(10.0, res.Model().At(c.Ramp.Steps-1, 1))
	assert.Equal(float64(c.Ramp.Steps-1), res.Filtered().At(c.Ramp.Steps-1, 0))

	st, err := NewStats(res)
	assert.NoError(err)
	assert.Less(st.EstimateRMSE, st.MeasurementRMSE)
}

func TestSimulateDeterminism(t *testing.T) {
	assert := assert.New(t)

	run := func() *Result {
		c := DefaultConfig()
		c.Seed = 99
		r, err := NewRampFromConfig(c)
		require.NoError(t, err)
		f, err := kf.New(0, 1, 0.1, 0.5)
		require.NoError(t, err)
		res, err := Simulate(f, r, 0)
		require.NoError(t, err)
		return res
	}

	assert.Equal(run().Values(), run().Values())
}

func TestSimulateErrors(t *testing.T) {
	assert := assert.New(t)

	r, err := NewRamp(0, 1, 5, nil)
	require.NoError(t, err)

	res, err := Simulate(&failingFilter{}, r, 0)
	assert.Nil(res)
	assert.Error(err)

	// exhausted source yields no measurements
	f, err := kf.New(0, 1, 0.1, 0.5)
	require.NoError(t, err)
	res, err = Simulate(f, r, 0)
	assert.Nil(res)
	assert.Error(err)
}

func TestResult(t *testing.T) {
	assert := assert.New(t)

	ms := []Measurement{{Step: 0, Truth: 1, Value: 1.5}, {Step: 1, Truth: 2, Value: 1.8}}
	est := []filter.Estimate{estimate.NewBase(1.2), estimate.NewBase(1.9)}

	res, err := NewResult(ms, est)
	assert.NoError(err)
	assert.Equal(2, res.Len())
	assert.Equal(ms, res.Measurements())
	assert.Equal([]float64{1, 2}, res.Truth())
	assert.Equal([]float64{1.5, 1.8}, res.Observations())

	out := res.Estimates()
	assert.Len(out, 2)
	assert.Equal(1.9, out[1].Val())
	assert.Equal(0.0, out[1].Cov())

	res, err = NewResult(nil, nil)
	assert.Nil(res)
	assert.Error(err)

	res, err = NewResult(ms, est[:1])
	assert.Nil(res)
	assert.Error(err)

	res, err = NewResult(ms, []filter.Estimate{est[0], nil})
	assert.Nil(res)
	assert.Error(err)
}
