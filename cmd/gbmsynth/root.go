package main

import (
	"github.com/spf13/cobra"

	"gbmsynth/internal/gbm"
	"gbmsynth/internal/logging"
)

const defaultSeed = 42

func newRootCmd() *cobra.Command {
	var level, format string

	root := &cobra.Command{
		Use:           "gbmsynth",
		Short:         "Generate synthetic GBM price-path datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return logging.Setup(cmd.ErrOrStderr(), level, format)
		},
	}
	root.PersistentFlags().StringVar(&level, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&format, "log-format", "console", "log format (console, json)")

	root.AddCommand(
		newSimulateCmd(),
		newDescribeCmd(),
		newSweepCmd(),
		newInitCmd(),
		newCatCmd(),
	)
	return root
}

// simFlags binds the simulator inputs shared by simulate and describe.
type simFlags struct {
	params gbm.Params
	seed   int64
}

func (f *simFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.params.S0, "s0", 100, "initial price")
	fs.Float64Var(&f.params.T, "t", 1, "time horizon in years")
	fs.IntVarP(&f.params.N, "steps", "n", 252, "number of time steps")
	fs.IntVarP(&f.params.M, "paths", "m", 1, "number of paths")
	fs.Float64Var(&f.params.Mu, "mu", 0.1, "drift")
	fs.Float64Var(&f.params.Sigma, "sigma", 0.2, "volatility")
	fs.Int64Var(&f.seed, "seed", defaultSeed, "random seed")
}
