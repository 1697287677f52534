package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/elemflux/elemflux/pkg/linsys"
)

// newCutsetsCmd creates the minimal cut set enumeration command.
func newCutsetsCmd() *cobra.Command {
	opts := defaultEnumOpts()
	opts.method = "populate"

	cmd := &cobra.Command{
		Use:   "cutsets <network.toml> <constraints.toml>",
		Short: "Enumerate minimal cut sets",
		Long: `Enumerate minimal cut sets disabling a target flux region.

The constraint file defines the undesired region through flux and yield
bounds; every enumerated reaction set is a minimal knockout eliminating
all flux vectors of that region.

Examples:
  elemflux cutsets network.toml target.toml --max-size 3
  elemflux cutsets network.toml target.toml -m iterate -n 20`,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return runCutsets(c.Context(), &opts, args[0], args[1])
		},
	}

	opts.addFlags(cmd)
	return cmd
}

func runCutsets(ctx context.Context, opts *enumOpts, netPath, constraintPath string) error {
	logger := loggerFromContext(ctx)

	net, err := loadNetwork(netPath)
	if err != nil {
		return err
	}
	T, b, err := loadConstraints(constraintPath, net)
	if err != nil {
		return err
	}
	rows, _ := T.Dims()
	logger.Debug("target region loaded", "rows", rows)

	sys, err := linsys.NewDualSystem(net, T, b, opts.systemOptions()...)
	if err != nil {
		return err
	}

	alg, err := opts.buildAlgorithm(logger, net)
	if err != nil {
		return err
	}

	sols, runErr := enumerateWithSpinner(ctx, logger, alg, sys, "cut sets")
	if len(sols) > 0 {
		printSolutions("Minimal cut sets", sols, net.ReactionID)
		if opts.browse && runErr == nil {
			return browseSolutions("cut sets", sols, net.ReactionID)
		}
	}
	return runErr
}
