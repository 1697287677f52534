//go:build (linux || darwin) && (amd64 || arm64)

package solver

import (
	"context"

	"github.com/bartolsthoorn/gohighs/highs"

	"github.com/elemflux/elemflux/pkg/errors"
	"github.com/elemflux/elemflux/pkg/linsys"
)

// HiGHS solves models with the embedded HiGHS solver. HiGHS has no
// native indicator constraints and no solution pool, so conditional
// rows are lowered to big-M form (unless the caller forbids it) and
// populate-style queries are driven by the enumerator through repeated
// solves.
type HiGHS struct{}

// NewHiGHS returns the HiGHS backend.
func NewHiGHS() *HiGHS {
	return &HiGHS{}
}

// Name identifies the backend in logs.
func (h *HiGHS) Name() string { return "highs" }

// Capabilities reports native feature support.
func (h *HiGHS) Capabilities() Capabilities {
	return Capabilities{IndicatorRows: false, SolutionPool: false}
}

// Solve translates the model into HiGHS form and runs it.
func (h *HiGHS) Solve(ctx context.Context, m *linsys.Model, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(m.CondRows) > 0 {
		if opts.RequireIndicators {
			return nil, errors.New(errors.ErrCodeUnsupported,
				"backend %s has no native indicator constraints", h.Name())
		}
		lowered, err := LowerConditionals(m, opts.BigM)
		if err != nil {
			return nil, err
		}
		m = lowered
	}

	hm := highs.Model{
		Maximize: m.Maximize,
		ColCosts: m.ColCosts,
		ColLower: m.ColLower,
		ColUpper: m.ColUpper,
		RowLower: m.RowLower,
		RowUpper: m.RowUpper,
	}
	for _, nz := range m.Nonzeros {
		hm.ConstMatrix = append(hm.ConstMatrix, highs.Nonzero{Row: nz.Row, Col: nz.Col, Val: nz.Val})
	}
	if len(m.VarTypes) > 0 {
		hm.VarTypes = make([]highs.VariableType, len(m.VarTypes))
		for i, vt := range m.VarTypes {
			switch vt {
			case linsys.VarBinary, linsys.VarInteger:
				hm.VarTypes[i] = highs.Integer
			default:
				hm.VarTypes[i] = highs.Continuous
			}
		}
	}

	solveOpts := []highs.SolveOption{
		highs.WithOutput(opts.Output),
		highs.WithMIPAbsGap(opts.MIPGapAbs),
		highs.WithMIPRelGap(opts.MIPGapRel),
	}
	if opts.TimeLimit > 0 {
		solveOpts = append(solveOpts, highs.WithTimeLimit(opts.TimeLimit.Seconds()))
	}
	if opts.Threads > 0 {
		solveOpts = append(solveOpts, highs.WithThreads(opts.Threads))
	}

	sol, err := hm.Solve(solveOpts...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSolver, err, "highs solve failed")
	}

	res := &Result{Objective: sol.Objective}
	switch {
	case sol.IsOptimal():
		res.Status = StatusOptimal
		res.Values = sol.ColValues
	case sol.IsInfeasible():
		res.Status = StatusInfeasible
	case sol.IsUnbounded():
		res.Status = StatusUnbounded
	case sol.IsTimeLimit():
		res.Status = StatusLimit
	default:
		res.Status = StatusUnknown
	}
	return res, nil
}
