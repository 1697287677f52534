package cli

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/elemflux/elemflux/pkg/errors"
	"github.com/elemflux/elemflux/pkg/kshortest"
	"github.com/elemflux/elemflux/pkg/linsys"
	"github.com/elemflux/elemflux/pkg/solver"
)

// enumOpts holds the command-line flags shared by the enumeration
// commands.
type enumOpts struct {
	method       string        // iterate or populate
	maxSize      int           // size sweep cap (populate)
	maxSolutions int           // solution cap (iterate)
	config       string        // optional properties TOML, overrides the three above
	lpPath       string        // optional LP export path
	timeLimit    time.Duration // per-solve time limit
	bigM         float64       // big-M for lowered conditional rows
	eps          float64       // indicator activation tolerance
	threads      int           // solver threads
	fluxCap      float64       // upper bound on flux variables
	threshold    float64       // activation threshold lower bound
	exclude      []string      // reaction sets to exclude, comma-joined names
	force        []string      // reaction sets to force, comma-joined names
	browse       bool          // open the interactive solution browser
	solverOutput bool          // pass solver log output through
}

func defaultEnumOpts() enumOpts {
	def := solver.DefaultOptions()
	return enumOpts{
		method:    "iterate",
		bigM:      def.BigM,
		eps:       def.Eps,
		fluxCap:   1e4,
		threshold: 1,
	}
}

func (o *enumOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.method, "method", "m", o.method, "enumeration strategy: iterate or populate")
	cmd.Flags().IntVar(&o.maxSize, "max-size", 0, "largest support size to sweep (populate)")
	cmd.Flags().IntVarP(&o.maxSolutions, "max-solutions", "n", 0, "maximum number of solutions (iterate)")
	cmd.Flags().StringVarP(&o.config, "config", "c", "", "TOML file with enumeration properties (overrides method flags)")
	cmd.Flags().StringVar(&o.lpPath, "export-lp", "", "write the encoded MILP to this file in LP format")
	cmd.Flags().DurationVar(&o.timeLimit, "time-limit", 0, "per-solve time limit (0 means none)")
	cmd.Flags().Float64Var(&o.bigM, "big-m", o.bigM, "big-M constant for lowered indicator rows")
	cmd.Flags().Float64Var(&o.eps, "eps", o.eps, "indicator activation tolerance")
	cmd.Flags().IntVar(&o.threads, "threads", 0, "solver threads (0 leaves the solver default)")
	cmd.Flags().Float64Var(&o.fluxCap, "flux-cap", o.fluxCap, "upper bound on flux variables")
	cmd.Flags().Float64Var(&o.threshold, "threshold", o.threshold, "activation threshold lower bound")
	cmd.Flags().StringArrayVar(&o.exclude, "exclude", nil, "reaction set to exclude, e.g. R1,R2 (repeatable)")
	cmd.Flags().StringArrayVar(&o.force, "force", nil, "reaction set every solution must contain (repeatable)")
	cmd.Flags().BoolVar(&o.browse, "browse", false, "browse solutions interactively")
	cmd.Flags().BoolVar(&o.solverOutput, "solver-output", false, "show raw solver log output")
}

// properties resolves the enumeration properties, preferring the config
// file when one is given.
func (o *enumOpts) properties() (kshortest.Properties, error) {
	var props kshortest.Properties
	if o.config != "" {
		if _, err := toml.DecodeFile(o.config, &props); err != nil {
			return props, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot read config %s", o.config)
		}
		return props, nil
	}
	switch strings.ToLower(o.method) {
	case "iterate":
		props.Method = kshortest.MethodIterate
	case "populate":
		props.Method = kshortest.MethodPopulate
	default:
		return props, errors.New(errors.ErrCodeInvalidConfig,
			"invalid method %q (must be iterate or populate)", o.method)
	}
	props.MaxSize = o.maxSize
	props.MaxSolutions = o.maxSolutions
	return props, nil
}

func (o *enumOpts) solverOptions() solver.Options {
	opts := solver.DefaultOptions()
	opts.Eps = o.eps
	opts.BigM = o.bigM
	opts.TimeLimit = o.timeLimit
	opts.Threads = o.threads
	opts.Output = o.solverOutput
	return opts
}

func (o *enumOpts) systemOptions() []linsys.SystemOption {
	return []linsys.SystemOption{
		linsys.WithFluxCap(o.fluxCap),
		linsys.WithThreshold(o.threshold),
	}
}

// solutionSets parses repeated "R1,R2" flag values into reaction sets.
func solutionSets(net *linsys.Network, raw []string) ([]kshortest.SolutionSet, error) {
	var sets []kshortest.SolutionSet
	for _, spec := range raw {
		var rxs []int
		for _, name := range strings.Split(spec, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			j, err := reactionIndex(net, name)
			if err != nil {
				return nil, err
			}
			rxs = append(rxs, j)
		}
		if len(rxs) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "empty reaction set %q", spec)
		}
		sets = append(sets, kshortest.SetFromReactions(rxs...))
	}
	return sets, nil
}

// buildAlgorithm assembles the enumeration algorithm from the resolved
// options.
func (o *enumOpts) buildAlgorithm(logger *log.Logger, net *linsys.Network) (*kshortest.Algorithm, error) {
	props, err := o.properties()
	if err != nil {
		return nil, err
	}
	backend, err := newBackend()
	if err != nil {
		return nil, err
	}

	algOpts := []kshortest.AlgorithmOption{
		kshortest.WithAlgorithmLogger(logger),
		kshortest.WithAlgorithmSolverOptions(o.solverOptions()),
	}
	if o.lpPath != "" {
		algOpts = append(algOpts, kshortest.WithLPExport(o.lpPath))
	}
	if len(o.exclude) > 0 {
		sets, err := solutionSets(net, o.exclude)
		if err != nil {
			return nil, err
		}
		algOpts = append(algOpts, kshortest.WithExcluded(sets...))
	}
	if len(o.force) > 0 {
		sets, err := solutionSets(net, o.force)
		if err != nil {
			return nil, err
		}
		algOpts = append(algOpts, kshortest.WithForced(sets...))
	}

	return kshortest.NewAlgorithm(props, backend, algOpts...)
}
