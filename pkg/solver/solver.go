// Package solver defines the seam between the enumeration machinery
// and an external MILP solver.
//
// The enumerator never talks to a solver library directly; it hands a
// linsys.Model to a Backend and interprets the returned Result. The
// package ships a HiGHS backend (see highs.go) and an explicit big-M
// lowering for conditional rows, applied only when a backend lacks
// native indicator-constraint support and the caller has not demanded
// native rows (Options.RequireIndicators).
package solver

import (
	"context"

	"github.com/elemflux/elemflux/pkg/linsys"
)

// Status classifies the outcome of a solve.
type Status int

const (
	// StatusUnknown is returned when the backend reports a state this
	// package does not model.
	StatusUnknown Status = iota

	// StatusOptimal indicates an optimal solution was found.
	StatusOptimal

	// StatusInfeasible indicates the problem has no solution. During
	// enumeration this is the expected termination signal, not an error.
	StatusInfeasible

	// StatusUnbounded indicates an unbounded problem.
	StatusUnbounded

	// StatusLimit indicates the solve stopped on a time or work limit.
	StatusLimit
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusLimit:
		return "limit"
	default:
		return "unknown"
	}
}

// Result carries the raw outcome of one solve.
type Result struct {
	Status    Status
	Values    []float64 // primal values, one per model column
	Objective float64
}

// Optimal reports whether the result carries an optimal assignment.
func (r *Result) Optimal() bool {
	return r != nil && r.Status == StatusOptimal
}

// Value returns the assignment of column col, or 0 when out of range.
func (r *Result) Value(col int) float64 {
	if col < 0 || col >= len(r.Values) {
		return 0
	}
	return r.Values[col]
}

// Capabilities describes what a backend supports natively.
type Capabilities struct {
	// IndicatorRows is true when the backend enforces conditional rows
	// logically instead of needing a big-M relaxation.
	IndicatorRows bool

	// SolutionPool is true when the backend can return every feasible
	// solution of a solve in one call.
	SolutionPool bool
}

// Backend is a synchronous MILP solver. Solve blocks until the solver
// returns; the only cancellation points are before the solve starts and
// whatever limits the options impose.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string

	// Capabilities reports native feature support.
	Capabilities() Capabilities

	// Solve optimizes the model and returns the outcome. Backend
	// failures are returned as errors; infeasibility is a Result with
	// StatusInfeasible, not an error.
	Solve(ctx context.Context, m *linsys.Model, opts Options) (*Result, error)
}
