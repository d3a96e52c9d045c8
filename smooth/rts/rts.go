package rts

import (
	"fmt"
	"math"

	filter "github.com/milosgajdos/go-estimate1d"
	"github.com/milosgajdos/go-estimate1d/estimate"
	"github.com/milosgajdos/go-estimate1d/smooth"
)

var _ smooth.RTS = (*RTS)(nil)

// RTS is Rauch-Tung-Striebel smoother of a scalar random walk
type RTS struct {
	// q is state noise variance a.k.a. process variance
	q float64
}

// New creates new RTS and returns it.
// It returns error if q is negative or not finite.
func New(q float64) (*RTS, error) {
	if q < 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return nil, fmt.Errorf("invalid process variance: %v", q)
	}

	return &RTS{
		q: q,
	}, nil
}

// Smooth implements Rauch-Tung-Striebel smoothing algorithm.
// It uses filtered estimates est to compute smoothed estimates and returns them.
// u[i] is the control input passed to the filter prediction preceding est[i]; nil u means no control input.
// It returns error if est is empty or holds a nil estimate, u does not match est in length
// or smoothing could not be computed.
func (s *RTS) Smooth(est []filter.Estimate, u []float64) ([]filter.Estimate, error) {
	if len(est) == 0 {
		return nil, fmt.Errorf("invalid estimates size: %d", len(est))
	}

	if u != nil && len(u) != len(est) {
		return nil, fmt.Errorf("invalid input size: %d != %d", len(u), len(est))
	}

	for i := range est {
		if est[i] == nil {
			return nil, fmt.Errorf("invalid estimate at step %d: nil", i)
		}
	}

	sx := make([]filter.Estimate, len(est))

	// the last smoothed estimate is the last filtered one
	last := len(est) - 1
	e, err := estimate.NewBaseWithCov(est[last].Val(), est[last].Cov())
	if err != nil {
		return nil, err
	}
	sx[last] = e

	for i := last - 1; i >= 0; i-- {
		// propagate filtered state to the next step
		xk1 := est[i].Val()
		if u != nil {
			xk1 += u[i+1]
		}
		pk1 := est[i].Cov() + s.q

		// smoothing gain
		c := 0.0
		if pk1 != 0 {
			c = est[i].Cov() / pk1
		}

		x := est[i].Val() + c*(e.Val()-xk1)
		// Pk + C*(Ps - P_k+1)*C' rearranged so both terms stay non-negative
		p := (1-c)*est[i].Cov() + c*c*e.Cov()

		e, err = estimate.NewBaseWithCov(x, p)
		if err != nil {
			return nil, fmt.Errorf("smoothing step %d failed: %v", i, err)
		}
		sx[i] = e
	}

	return sx, nil
}

// ProcessVar returns process noise variance
func (s *RTS) ProcessVar() float64 {
	return s.q
}
