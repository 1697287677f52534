package kshortest

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/elemflux/elemflux/pkg/linsys"
	"github.com/elemflux/elemflux/pkg/solver"
)

// Algorithm is the property-driven front end over the enumerator. It
// validates the run configuration once and then enumerates any number
// of systems with it, tagging every run with a fresh ID for log
// correlation.
type Algorithm struct {
	props    Properties
	backend  solver.Backend
	opts     solver.Options
	logger   *log.Logger
	lpPath   string
	excluded []SolutionSet
	forced   []SolutionSet
}

// AlgorithmOption configures an Algorithm.
type AlgorithmOption func(*Algorithm)

// WithAlgorithmLogger attaches a logger. The default discards
// everything.
func WithAlgorithmLogger(l *log.Logger) AlgorithmOption {
	return func(a *Algorithm) { a.logger = l }
}

// WithAlgorithmSolverOptions overrides the solver tuning.
func WithAlgorithmSolverOptions(opts solver.Options) AlgorithmOption {
	return func(a *Algorithm) { a.opts = opts }
}

// WithLPExport writes the encoded problem to the given path in CPLEX LP
// format before solving. Mainly useful for debugging encodings.
func WithLPExport(path string) AlgorithmOption {
	return func(a *Algorithm) { a.lpPath = path }
}

// WithExcluded bars the given supports from every enumeration run.
func WithExcluded(sets ...SolutionSet) AlgorithmOption {
	return func(a *Algorithm) { a.excluded = append(a.excluded, sets...) }
}

// WithForced requires every enumerated solution to contain each of the
// given supports.
func WithForced(sets ...SolutionSet) AlgorithmOption {
	return func(a *Algorithm) { a.forced = append(a.forced, sets...) }
}

// NewAlgorithm validates the properties and returns a ready algorithm.
func NewAlgorithm(props Properties, backend solver.Backend, opts ...AlgorithmOption) (*Algorithm, error) {
	warnSize := props.Method == MethodPopulate && props.MaxSize == 0
	warnSols := props.Method == MethodIterate && props.MaxSolutions == 0
	if err := props.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	a := &Algorithm{
		props:   props,
		backend: backend,
		opts:    solver.DefaultOptions(),
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	if warnSize {
		a.logger.Warn("max_size not set, defaulting", "max_size", props.MaxSize)
	}
	if warnSols {
		a.logger.Warn("max_solutions not set, defaulting", "max_solutions", props.MaxSolutions)
	}
	return a, nil
}

// Enumerate runs the configured strategy against one system. On error
// the solutions found before the failure are returned alongside it.
func (a *Algorithm) Enumerate(ctx context.Context, sys linsys.System) ([]*Solution, error) {
	runID := uuid.NewString()
	logger := a.logger.With("run", runID, "method", a.props.Method)

	enum, err := NewEnumerator(sys, a.backend,
		WithSolverOptions(a.opts),
		WithLogger(logger))
	if err != nil {
		return nil, err
	}

	if a.lpPath != "" {
		if err := enum.Model().WriteLPFile(a.lpPath); err != nil {
			return nil, err
		}
		logger.Info("wrote problem export", "path", a.lpPath)
	}

	// Iterate and Populate reset the enumerator first, so the standing
	// exclusions and forcings go in afterwards.
	applySets := func() error {
		if err := enum.ExcludeSolutions(a.excluded...); err != nil {
			return err
		}
		return enum.ForceSolutions(a.forced...)
	}

	var sols []*Solution
	switch a.props.Method {
	case MethodIterate:
		it := enum.Iterate()
		if err := applySets(); err != nil {
			return nil, err
		}
		for len(sols) < a.props.MaxSolutions && it.Next(ctx) {
			sols = append(sols, it.Solution())
			logger.Info("solution found", "n", len(sols), "size", it.Solution().Size())
		}
		if err := it.Err(); err != nil {
			return sols, err
		}
	case MethodPopulate:
		it := enum.Populate(a.props.MaxSize)
		if err := applySets(); err != nil {
			return nil, err
		}
		for it.Next(ctx) {
			sols = append(sols, it.Batch()...)
			logger.Info("size exhausted", "size", it.Size(), "batch", len(it.Batch()), "total", len(sols))
		}
		if err := it.Err(); err != nil {
			return sols, err
		}
	}
	logger.Info("enumeration finished", "solutions", len(sols))
	return sols, nil
}
