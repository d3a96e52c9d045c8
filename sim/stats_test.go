package sim

import (
	"math"
	"testing"

	filter "github.com/milosgajdos/go-estimate1d"
	"github.com/milosgajdos/go-estimate1d/estimate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRMSE(t *testing.T) {
	assert := assert.New(t)

	e, err := RMSE([]float64{1, 2, 3}, []float64{1, 2, 3})
	assert.NoError(err)
	assert.Equal(0.0, e)

	e, err = RMSE([]float64{0, 0}, []float64{3, 4})
	assert.NoError(err)
	assert.InDelta(math.Sqrt(12.5), e, 1e-12)

	_, err = RMSE(nil, nil)
	assert.Error(err)

	_, err = RMSE([]float64{1}, []float64{1, 2})
	assert.Error(err)
}

func TestNewStats(t *testing.T) {
	assert := assert.New(t)

	ms := []Measurement{{Step: 0, Truth: 0, Value: 1}, {Step: 1, Truth: 1, Value: 0}}
	e0, err := estimate.NewBaseWithCov(0.5, 0.2)
	require.NoError(t, err)
	e1, err := estimate.NewBaseWithCov(1.25, 0.4)
	require.NoError(t, err)

	res, err := NewResult(ms, []filter.Estimate{e0, e1})
	require.NoError(t, err)

	st, err := NewStats(res)
	assert.NoError(err)
	assert.InDelta(1.0, st.MeasurementRMSE, 1e-12)
	assert.InDelta(math.Sqrt((0.25+0.0625)/2), st.EstimateRMSE, 1e-12)
	assert.InDelta(0.3, st.MeanVariance, 1e-12)
	assert.InDelta(0.25, st.FinalError, 1e-12)
	assert.Contains(st.String(), "MeasurementRMSE=1.0000")
}
