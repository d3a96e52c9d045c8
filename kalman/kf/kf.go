// Package kf implements a scalar Kalman filter for a random walk process
// observed directly by a noisy sensor:
//
//	x[k+1] = x[k] + u[k] + w[k],  w ~ N(0, q)
//	z[k]   = x[k] + v[k],         v ~ N(0, r)
//
// KF is not safe for concurrent use; callers sharing an instance between
// goroutines must serialize access to it.
package kf

import (
	"errors"
	"fmt"
	"math"

	filter "github.com/milosgajdos/go-estimate1d"
	"github.com/milosgajdos/go-estimate1d/estimate"
	"github.com/milosgajdos/go-estimate1d/kalman"
)

var (
	// ErrInvalidParam is returned when KF is created with invalid parameters.
	ErrInvalidParam = errors.New("invalid filter parameter")
	// ErrInvalidInput is returned when control input or measurement is not a finite number.
	ErrInvalidInput = errors.New("invalid filter input")
	// ErrDegenerateInput is returned when finite inputs drive the state or its variance out of the finite range.
	ErrDegenerateInput = errors.New("degenerate filter input")
)

var _ kalman.Kalman = (*KF)(nil)

// KF is Kalman Filter
type KF struct {
	// x is state estimate
	x float64
	// p is state variance a.k.a. uncertainty
	p float64
	// q is state noise variance a.k.a. process variance
	q float64
	// r is output noise variance a.k.a. measurement variance
	r float64
	// k is the last computed Kalman gain
	k float64
	// inn is the last measurement innovation
	inn float64
}

// New creates new KF and returns it.
// It accepts the following parameters:
//   - x0: initial state estimate
//   - p0: initial state variance
//   - q:  process noise variance
//   - r:  measurement noise variance
//
// It returns error wrapping ErrInvalidParam if either of the following conditions is met:
//   - any of the parameters is NaN or infinite
//   - any of the variances p0, q, r is negative
func New(x0, p0, q, r float64) (*KF, error) {
	if !isFinite(x0) {
		return nil, fmt.Errorf("%w: initial state: %v", ErrInvalidParam, x0)
	}

	for _, v := range []struct {
		name string
		val  float64
	}{
		{"initial variance", p0},
		{"process variance", q},
		{"measurement variance", r},
	} {
		if v.val < 0 || !isFinite(v.val) {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParam, v.name, v.val)
		}
	}

	return &KF{
		x: x0,
		p: p0,
		q: q,
		r: r,
	}, nil
}

// Predict propagates the filter state by control input u and returns the predicted estimate.
// The state moves by u and its variance grows by the process variance.
// It returns error if u is not a finite number or if the predicted state overflows,
// in which case the filter is left unchanged.
func (k *KF) Predict(u float64) (filter.Estimate, error) {
	if !isFinite(u) {
		return nil, fmt.Errorf("%w: control input: %v", ErrInvalidInput, u)
	}

	x, p := k.x+u, k.p+k.q
	if !isFinite(x) || !isFinite(p) {
		return nil, fmt.Errorf("%w: predicted state %v with variance %v", ErrDegenerateInput, x, p)
	}

	k.x, k.p = x, p

	return k.Estimate(), nil
}

// Update corrects the filter state using measurement z and returns the corrected estimate.
// When both the state variance and the measurement variance are zero the gain is 1:
// the measurement replaces the state and the variance stays zero.
// It returns error if z is not a finite number or if the corrected state overflows,
// in which case the filter is left unchanged.
func (k *KF) Update(z float64) (filter.Estimate, error) {
	if !isFinite(z) {
		return nil, fmt.Errorf("%w: measurement: %v", ErrInvalidInput, z)
	}

	g := gain(k.p, k.r)
	inn := z - k.x
	x := k.x
	// zero gain ignores the measurement, however far off it is
	if g != 0 {
		x += g * inn
		if !isFinite(inn) || !isFinite(x) {
			return nil, fmt.Errorf("%w: measurement %v innovation %v", ErrDegenerateInput, z, inn)
		}
	}

	k.k, k.inn = g, inn
	k.x = x
	k.p = (1 - g) * k.p

	return k.Estimate(), nil
}

// Run runs one step of KF for given input u and measurement z.
// It predicts the next state and corrects it with measurement z and returns new estimate.
// It returns error if it either fails to predict or correct the state.
func (k *KF) Run(u, z float64) (filter.Estimate, error) {
	if _, err := k.Predict(u); err != nil {
		return nil, err
	}

	return k.Update(z)
}

// State returns current state estimate
func (k *KF) State() float64 {
	return k.x
}

// Cov returns KF state variance
func (k *KF) Cov() float64 {
	return k.p
}

// Gain returns the Kalman gain computed by the last Update.
// It returns 0 before the first Update.
func (k *KF) Gain() float64 {
	return k.k
}

// Innovation returns the innovation of the last Update.
func (k *KF) Innovation() float64 {
	return k.inn
}

// ProcessVar returns process noise variance
func (k *KF) ProcessVar() float64 {
	return k.q
}

// MeasurementVar returns measurement noise variance
func (k *KF) MeasurementVar() float64 {
	return k.r
}

// Estimate returns current filter estimate
func (k *KF) Estimate() filter.Estimate {
	// p is finite and non-negative: New validates it and both Predict and Update preserve it
	est, _ := estimate.NewBaseWithCov(k.x, k.p)

	return est
}

// gain returns Kalman gain p/(p+r) for state variance p and measurement variance r.
// Zero total variance is a fully certain fusion, so the measurement is trusted fully.
// It never forms p+r, which overflows for large finite variances.
func gain(p, r float64) float64 {
	if p == 0 {
		if r == 0 {
			return 1
		}
		return 0
	}

	return 1 / (1 + r/p)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
