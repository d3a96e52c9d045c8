package rts

import (
	"math"
	"os"
	"testing"

	filter "github.com/milosgajdos/go-estimate1d"
	"github.com/milosgajdos/go-estimate1d/kalman/kf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const truth = 5.0

var (
	filtered []filter.Estimate
	meas     []float64
)

func setup() {
	f, err := kf.New(0, 1, 0.01, 0.5)
	if err != nil {
		panic(err)
	}

	filtered = make([]filter.Estimate, 50)
	meas = make([]float64, 50)
	for i := range filtered {
		meas[i] = truth + 0.7*math.Sin(2.3*float64(i+1))
		est, err := f.Run(0, meas[i])
		if err != nil {
			panic(err)
		}
		filtered[i] = est
	}
}

func TestMain(m *testing.M) {
	// set up tests
	setup()
	// run the tests
	retCode := m.Run()
	// call with result of m.Run()
	os.Exit(retCode)
}

func TestNewRTS(t *testing.T) {
	assert := assert.New(t)

	s, err := New(0.01)
	assert.NotNil(s)
	assert.NoError(err)
	assert.Equal(0.01, s.ProcessVar())

	for _, q := range []float64{-1, math.NaN(), math.Inf(1)} {
		s, err := New(q)
		assert.Nil(s)
		assert.Error(err)
	}
}

func TestSmooth(t *testing.T) {
	assert := assert.New(t)

	s, err := New(0.01)
	require.NoError(t, err)

	sx, err := s.Smooth(filtered, nil)
	assert.NoError(err)
	assert.Len(sx, len(filtered))

	last := len(filtered) - 1
	assert.Equal(filtered[last].Val(), sx[last].Val())
	assert.Equal(filtered[last].Cov(), sx[last].Cov())

	var filterErr, smoothErr float64
	for i := range sx {
		assert.GreaterOrEqual(sx[i].Cov(), 0.0)
		assert.LessOrEqual(sx[i].Cov(), filtered[i].Cov()+1e-12)
		filterErr += math.Abs(filtered[i].Val() - truth)
		smoothErr += math.Abs(sx[i].Val() - truth)
	}
	assert.Less(smoothErr, filterErr)
}

func TestSmoothControl(t *testing.T) {
	assert := assert.New(t)

	// noiseless ramp driven by control input is reproduced exactly
	f, err := kf.New(0, 0, 0, 1)
	require.NoError(t, err)

	u := make([]float64, 10)
	est := make([]filter.Estimate, 10)
	for i := range est {
		u[i] = 1.0
		e, err := f.Run(u[i], float64(i+1))
		require.NoError(t, err)
		est[i] = e
	}

	s, err := New(0)
	require.NoError(t, err)

	sx, err := s.Smooth(est, u)
	assert.NoError(err)
	for i := range sx {
		assert.InDelta(float64(i+1), sx[i].Val(), 1e-9)
		assert.Equal(0.0, sx[i].Cov())
	}
}

func TestSmoothInvalid(t *testing.T) {
	assert := assert.New(t)

	s, err := New(0.01)
	require.NoError(t, err)

	sx, err := s.Smooth(nil, nil)
	assert.Nil(sx)
	assert.Error(err)

	sx, err = s.Smooth(filtered, []float64{1, 2})
	assert.Nil(sx)
	assert.Error(err)

	// nil estimates
	for _, i := range []int{0, len(filtered) / 2, len(filtered) - 1} {
		est := make([]filter.Estimate, len(filtered))
		copy(est, filtered)
		est[i] = nil

		sx, err = s.Smooth(est, nil)
		assert.Nil(sx)
		assert.Error(err)
	}
}
