package estimate

import (
	"fmt"
	"math"
)

// Base is base estimate
type Base struct {
	// val is estimated value
	val float64
	// cov is estimated variance
	cov float64
}

// NewBase returns base estimate given val with zero variance
func NewBase(val float64) *Base {
	return &Base{
		val: val,
	}
}

// NewBaseWithCov returns base estimate given value val and variance cov.
// It returns error if cov is negative or not finite.
func NewBaseWithCov(val, cov float64) (*Base, error) {
	if cov < 0 || math.IsNaN(cov) || math.IsInf(cov, 0) {
		return nil, fmt.Errorf("invalid estimate variance: %v", cov)
	}

	return &Base{
		val: val,
		cov: cov,
	}, nil
}

// Val returns estimated value
func (b *Base) Val() float64 {
	return b.val
}

// Cov returns variance estimate
func (b *Base) Cov() float64 {
	return b.cov
}

// String implements the Stringer interface.
func (b *Base) String() string {
	return fmt.Sprintf("Base{Val=%v Cov=%v}", b.val, b.cov)
}
