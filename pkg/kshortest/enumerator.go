package kshortest

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/elemflux/elemflux/pkg/errors"
	"github.com/elemflux/elemflux/pkg/linsys"
	"github.com/elemflux/elemflux/pkg/observability"
	"github.com/elemflux/elemflux/pkg/solver"
)

// Enumerator drives K-shortest enumeration over one linear system. It
// owns the encoded MILP: construction adds the indicator template,
// exclusivity (or pattern) constraints, the objective and the size
// constraint; afterwards every method mutates that same problem in
// place. Cuts only append rows and Reset removes exactly the rows cuts
// appended, so the permanent encoding survives any number of resets.
//
// An Enumerator is not safe for concurrent use.
type Enumerator struct {
	sys     linsys.System
	model   *linsys.Model
	backend solver.Backend
	opts    solver.Options
	logger  *log.Logger

	dvars   []int
	mapping []linsys.Dvar

	// indicators maps each dvar column to its indicator column;
	// indicatorCols lists the indicators in dvar order.
	indicators    map[int]int
	indicatorCols []int

	// patternAux maps indicator columns to their pattern binaries.
	// Only set for pattern systems.
	patternAux map[int]int
	isPattern  bool

	sizeRow  int
	curSize  int
	baseRows int // rows [baseRows, NumRows) are integer cuts
	numCuts  int
}

// Option configures an Enumerator.
type Option func(*Enumerator)

// WithSolverOptions overrides the solver tuning used for every solve.
func WithSolverOptions(opts solver.Options) Option {
	return func(e *Enumerator) { e.opts = opts }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Enumerator) { e.logger = l }
}

// NewEnumerator builds the indicator-variable MILP encoding for the
// given system. The system must not have been built yet; the enumerator
// owns the model from here on.
func NewEnumerator(sys linsys.System, backend solver.Backend, opts ...Option) (*Enumerator, error) {
	e := &Enumerator{
		sys:     sys,
		backend: backend,
		opts:    solver.DefaultOptions(),
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		sizeRow: -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if backend == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no solver backend supplied")
	}
	if err := e.opts.Validate(); err != nil {
		return nil, err
	}

	model, err := sys.Build()
	if err != nil {
		return nil, err
	}
	e.model = model
	e.dvars = sys.DecisionVars()
	e.mapping = sys.DvarMapping()
	if _, ok := sys.(linsys.PatternSystem); ok {
		e.isPattern = true
	}

	if err := e.addIndicators(); err != nil {
		return nil, err
	}
	if e.isPattern {
		e.addPatternConstraints()
	} else {
		e.addExclusivity()
	}

	ones := make([]float64, len(e.indicatorCols))
	for i := range ones {
		ones[i] = 1
	}
	e.model.SetObjective(e.indicatorCols, ones, false)

	if err := e.SetSizeConstraint(1, false); err != nil {
		return nil, err
	}
	e.baseRows = e.model.NumRows()

	e.logger.Debug("enumerator constructed",
		"backend", backend.Name(),
		"dvars", len(e.dvars),
		"vars", e.model.NumVars(),
		"rows", e.model.NumRows())
	return e, nil
}

// Model returns the encoded problem. Exposed for LP export and tests;
// mutating it directly voids the enumerator's invariants.
func (e *Enumerator) Model() *linsys.Model { return e.model }

// CutCount returns the number of integer cuts currently applied.
func (e *Enumerator) CutCount() int { return e.numCuts }

// optimize runs a single solve. Backend errors and non-optimal statuses
// are logged and reported as a nil solution: during iteration they mean
// "enumeration is done", not "the program is broken".
func (e *Enumerator) optimize(ctx context.Context) *Solution {
	observability.Enumeration().OnSolveStart(ctx, e.curSize)
	start := time.Now()
	res, err := e.backend.Solve(ctx, e.model, e.opts)
	elapsed := time.Since(start)
	if err != nil {
		observability.Enumeration().OnSolveComplete(ctx, e.curSize, "error", elapsed)
		e.logger.Warn("solve failed, treating as no solution", "err", err)
		return nil
	}
	observability.Enumeration().OnSolveComplete(ctx, e.curSize, res.Status.String(), elapsed)
	e.logger.Debug("solve finished", "status", res.Status, "elapsed", elapsed.Round(time.Millisecond))
	if !res.Optimal() {
		return nil
	}
	return newSolution(res, e.mapping, e.indicators, e.opts.Eps)
}

// GetSingleSolution optimizes once, excludes the found solution with an
// integer cut and returns it. A NO_SOLUTION error signals that the
// current problem is exhausted. Prefer SolutionIterator.
func (e *Enumerator) GetSingleSolution(ctx context.Context) (*Solution, error) {
	sol := e.optimize(ctx)
	if sol == nil {
		return nil, errors.New(errors.ErrCodeNoSolution, "no further solutions")
	}
	if err := e.addIntegerCut(sol.Values(), false, 1); err != nil {
		return nil, err
	}
	return sol, nil
}

// PopulateCurrentSize finds every solution admitted by the current size
// constraint. Each found solution is immediately excluded with an
// integer cut, so consecutive calls never re-report. Backend failures
// are fatal here and propagate. Prefer PopulationIterator.
func (e *Enumerator) PopulateCurrentSize(ctx context.Context) ([]*Solution, error) {
	var sols []*Solution
	for len(sols) < e.opts.PoolCap {
		observability.Enumeration().OnSolveStart(ctx, e.curSize)
		start := time.Now()
		res, err := e.backend.Solve(ctx, e.model, e.opts)
		elapsed := time.Since(start)
		if err != nil {
			observability.Enumeration().OnSolveComplete(ctx, e.curSize, "error", elapsed)
			return sols, errors.Wrap(errors.ErrCodeSolver, err, "populate solve failed")
		}
		observability.Enumeration().OnSolveComplete(ctx, e.curSize, res.Status.String(), elapsed)
		if !res.Optimal() {
			break
		}
		sol := newSolution(res, e.mapping, e.indicators, e.opts.Eps)
		if err := e.addIntegerCut(sol.Values(), false, 1); err != nil {
			return sols, err
		}
		sols = append(sols, sol)
	}
	return sols, nil
}

// Reset drops every integer cut and resets the size constraint to at
// least 1. The indicator encoding and exclusivity rows persist: resets
// restore the enumeration state, they do not rebuild the problem.
func (e *Enumerator) Reset() {
	e.model.TruncateRows(e.baseRows)
	e.numCuts = 0
	e.curSize = 1
	// Size row predates baseRows, so it survived the truncation.
	_ = e.model.SetRowBounds(e.sizeRow, 1, linsys.Inf())
	e.logger.Debug("enumerator state reset")
}
