package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elemflux/elemflux/pkg/linsys"
)

// newModesCmd creates the flux mode enumeration command.
func newModesCmd() *cobra.Command {
	opts := defaultEnumOpts()
	var pattern string

	cmd := &cobra.Command{
		Use:   "modes <network.toml>",
		Short: "Enumerate elementary flux modes",
		Long: `Enumerate the K shortest elementary flux modes of a network.

With --pattern, enumeration is restricted to flux patterns over the
given reaction subset instead of full flux modes.

Examples:
  elemflux modes network.toml -m iterate -n 10
  elemflux modes network.toml -m populate --max-size 4
  elemflux modes network.toml --pattern R1,R4 -m populate --max-size 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runModes(c.Context(), &opts, pattern, args[0])
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&pattern, "pattern", "", "restrict enumeration to flux patterns over this reaction subset, e.g. R1,R4")

	return cmd
}

func runModes(ctx context.Context, opts *enumOpts, pattern, path string) error {
	logger := loggerFromContext(ctx)

	net, err := loadNetwork(path)
	if err != nil {
		return err
	}
	logger.Debug("network loaded",
		"metabolites", net.NumMetabolites(),
		"reactions", net.NumReactions(),
		"reversible", len(net.Reversible))

	var (
		sys    linsys.System
		subset []int
		kind   = "flux modes"
	)
	if pattern != "" {
		for _, name := range strings.Split(pattern, ",") {
			j, err := reactionIndex(net, strings.TrimSpace(name))
			if err != nil {
				return err
			}
			subset = append(subset, j)
		}
		sys, err = linsys.NewIrreversiblePatternSystem(net, subset, opts.systemOptions()...)
		kind = "flux patterns"
	} else {
		sys, err = linsys.NewIrreversibleSystem(net, opts.systemOptions()...)
	}
	if err != nil {
		return err
	}

	alg, err := opts.buildAlgorithm(logger, net)
	if err != nil {
		return err
	}

	// Pattern solutions index into the subset, full solutions into the
	// network's reaction order.
	name := net.ReactionID
	if len(subset) > 0 {
		name = func(i int) string { return net.ReactionID(subset[i]) }
	}

	sols, runErr := enumerateWithSpinner(ctx, logger, alg, sys, kind)
	if len(sols) > 0 {
		printSolutions(fmt.Sprintf("Elementary %s", kind), sols, name)
		if opts.browse && runErr == nil {
			return browseSolutions(kind, sols, name)
		}
	}
	return runErr
}
