package smooth

import filter "github.com/milosgajdos/go-estimate1d"

// RTS is Rauch Tung Striebel optimal filter smoother
type RTS interface {
	// filter.Smoother is filter smoother
	filter.Smoother
	// ProcessVar returns the process noise variance used for smoothing
	ProcessVar() float64
}
