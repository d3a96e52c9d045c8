package sim

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is simulation configuration
type Config struct {
	// Filter configures the estimator
	Filter FilterConfig `yaml:"filter"`
	// Ramp configures the measurement source
	Ramp RampConfig `yaml:"ramp"`
	// Control is the control input applied in every prediction step
	Control float64 `yaml:"control"`
	// Seed seeds the measurement noise; zero seeds from the system clock
	Seed uint64 `yaml:"seed"`
}

// FilterConfig holds the estimator parameters
type FilterConfig struct {
	InitialState        float64 `yaml:"initial_state"`
	InitialUncertainty  float64 `yaml:"initial_uncertainty"`
	ProcessVariance     float64 `yaml:"process_variance"`
	MeasurementVariance float64 `yaml:"measurement_variance"`
}

// RampConfig holds the parameters of the noisy ramp measurement source
type RampConfig struct {
	// Start is the first true value
	Start float64 `yaml:"start"`
	// End is the last true value
	End float64 `yaml:"end"`
	// Steps is the number of measurements
	Steps int `yaml:"steps"`
	// NoiseStd is the standard deviation of the measurement noise
	NoiseStd float64 `yaml:"noise_std"`
}

// DefaultConfig returns the configuration of the reference ramp simulation.
func DefaultConfig() *Config {
	return &Config{
		Filter: FilterConfig{
			InitialState:        0,
			InitialUncertainty:  1,
			ProcessVariance:     0.1,
			MeasurementVariance: 0.5,
		},
		Ramp: RampConfig{
			Start:    0,
			End:      10,
			Steps:    500,
			NoiseStd: 1.5,
		},
	}
}

// LoadConfig reads YAML configuration from path on top of DefaultConfig and returns it.
// Keys missing from the file keep their default values.
// It returns error if the file can't be read, contains unknown keys or fails validation.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	c := DefaultConfig()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate returns error if the configuration is invalid.
func (c *Config) Validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"initial_uncertainty", c.Filter.InitialUncertainty},
		{"process_variance", c.Filter.ProcessVariance},
		{"measurement_variance", c.Filter.MeasurementVariance},
		{"noise_std", c.Ramp.NoiseStd},
	} {
		if v.val < 0 || !isFinite(v.val) {
			return fmt.Errorf("invalid %s: %v", v.name, v.val)
		}
	}

	for _, v := range []struct {
		name string
		val  float64
	}{
		{"initial_state", c.Filter.InitialState},
		{"start", c.Ramp.Start},
		{"end", c.Ramp.End},
		{"control", c.Control},
	} {
		if !isFinite(v.val) {
			return fmt.Errorf("invalid %s: %v", v.name, v.val)
		}
	}

	if c.Ramp.Steps <= 0 {
		return fmt.Errorf("invalid steps: %d", c.Ramp.Steps)
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
