// Package main provides the kfsim CLI: it runs a scalar Kalman filter over a
// synthetic noisy ramp, logs every estimate and optionally plots the result.
package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	filter "github.com/milosgajdos/go-estimate1d"
	"github.com/milosgajdos/go-estimate1d/kalman/kf"
	"github.com/milosgajdos/go-estimate1d/sim"
	"github.com/milosgajdos/go-estimate1d/smooth/rts"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func init() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("kfsim failed: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kfsim",
		Short: "Scalar Kalman filter simulation",
		Long: `kfsim tracks a linear ramp observed through Gaussian noise
with a one-dimensional Kalman filter and reports how well it does.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kfsim v%s (%s)\n", version, commit)
		},
	})

	rootCmd.AddCommand(newRunCmd())

	return rootCmd
}

func newRunCmd() *cobra.Command {
	d := sim.DefaultConfig()

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the ramp simulation",
		RunE:  runSim,
	}
	runCmd.Flags().String("config", "", "YAML config file; explicit flags override its values")
	runCmd.Flags().Float64("initial-state", d.Filter.InitialState, "Initial state estimate")
	runCmd.Flags().Float64("initial-uncertainty", d.Filter.InitialUncertainty, "Initial state variance")
	runCmd.Flags().Float64("process-variance", d.Filter.ProcessVariance, "Process noise variance")
	runCmd.Flags().Float64("measurement-variance", d.Filter.MeasurementVariance, "Measurement noise variance assumed by the filter")
	runCmd.Flags().Float64("start", d.Ramp.Start, "First true ramp value")
	runCmd.Flags().Float64("end", d.Ramp.End, "Last true ramp value")
	runCmd.Flags().Int("steps", d.Ramp.Steps, "Number of measurements")
	runCmd.Flags().Float64("noise-std", d.Ramp.NoiseStd, "Standard deviation of the simulated measurement noise")
	runCmd.Flags().Float64("control", d.Control, "Control input applied in every prediction")
	runCmd.Flags().Uint64("seed", d.Seed, "Noise seed (0 seeds from the clock)")
	runCmd.Flags().String("plot", "", "Save a plot of the simulation to this file (e.g. system.png)")
	runCmd.Flags().Bool("smooth", false, "Run Rauch-Tung-Striebel smoothing over the filter estimates")
	runCmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error")

	return runCmd
}

func runSim(cmd *cobra.Command, args []string) error {
	levelStr, _ := cmd.Flags().GetString("log-level")
	level, err := log.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)

	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"initial_state":        c.Filter.InitialState,
		"initial_uncertainty":  c.Filter.InitialUncertainty,
		"process_variance":     c.Filter.ProcessVariance,
		"measurement_variance": c.Filter.MeasurementVariance,
		"steps":                c.Ramp.Steps,
		"noise_std":            c.Ramp.NoiseStd,
	}).Debug("simulation config")

	f, err := kf.New(c.Filter.InitialState, c.Filter.InitialUncertainty, c.Filter.ProcessVariance, c.Filter.MeasurementVariance)
	if err != nil {
		return fmt.Errorf("failed to create filter: %w", err)
	}

	ramp, err := sim.NewRampFromConfig(c)
	if err != nil {
		return fmt.Errorf("failed to create measurement source: %w", err)
	}

	log.Infof("Initial State: %v", f.State())

	res, err := sim.SimulateWithObserver(f, ramp, c.Control, func(m sim.Measurement, est filter.Estimate) {
		log.Infof("Measurement %d: %v, Estimated State: %v", m.Step+1, m.Value, est.Val())
		log.Debugf("Step %d: truth %v, variance %v, gain %v", m.Step+1, m.Truth, est.Cov(), f.Gain())
	})
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	stats, err := sim.NewStats(res)
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}
	log.WithFields(log.Fields{
		"measurement_rmse": stats.MeasurementRMSE,
		"estimate_rmse":    stats.EstimateRMSE,
		"mean_variance":    stats.MeanVariance,
		"final_error":      stats.FinalError,
	}).Info("filter stats")

	if smooth, _ := cmd.Flags().GetBool("smooth"); smooth {
		if err := smoothResult(res, c); err != nil {
			return err
		}
	}

	if path, _ := cmd.Flags().GetString("plot"); path != "" {
		plt, err := sim.New2DPlot(res.Model(), res.Measured(), res.Filtered())
		if err != nil {
			return fmt.Errorf("failed to make plot: %w", err)
		}

		if err := sim.SavePlot(plt, path); err != nil {
			return err
		}
		log.Infof("plot saved to %s", path)
	}

	return nil
}

func smoothResult(res *sim.Result, c *sim.Config) error {
	s, err := rts.New(c.Filter.ProcessVariance)
	if err != nil {
		return fmt.Errorf("failed to create smoother: %w", err)
	}

	var u []float64
	if c.Control != 0 {
		u = make([]float64, res.Len())
		for i := range u {
			u[i] = c.Control
		}
	}

	sx, err := s.Smooth(res.Estimates(), u)
	if err != nil {
		return fmt.Errorf("smoothing failed: %w", err)
	}

	smoothed, err := sim.NewResult(res.Measurements(), sx)
	if err != nil {
		return err
	}

	stats, err := sim.NewStats(smoothed)
	if err != nil {
		return fmt.Errorf("failed to compute smoothed stats: %w", err)
	}
	log.WithFields(log.Fields{
		"estimate_rmse": stats.EstimateRMSE,
		"mean_variance": stats.MeanVariance,
	}).Info("smoother stats")

	return nil
}

// loadConfig reads the config file, if any, and applies explicitly set flags on top of it.
func loadConfig(cmd *cobra.Command) (*sim.Config, error) {
	c := sim.DefaultConfig()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		if c, err = sim.LoadConfig(path); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	for name, dst := range map[string]*float64{
		"initial-state":        &c.Filter.InitialState,
		"initial-uncertainty":  &c.Filter.InitialUncertainty,
		"process-variance":     &c.Filter.ProcessVariance,
		"measurement-variance": &c.Filter.MeasurementVariance,
		"start":                &c.Ramp.Start,
		"end":                  &c.Ramp.End,
		"noise-std":            &c.Ramp.NoiseStd,
		"control":              &c.Control,
	} {
		if flags.Changed(name) {
			*dst, _ = flags.GetFloat64(name)
		}
	}

	if flags.Changed("steps") {
		c.Ramp.Steps, _ = flags.GetInt("steps")
	}

	if flags.Changed("seed") {
		c.Seed, _ = flags.GetUint64("seed")
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return c, nil
}
