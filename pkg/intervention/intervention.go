// Package intervention materializes user-specified flux and yield
// bounds into the target matrix (T, b) that defines the undesired flux
// region {v : T·v <= b} for minimal cut set enumeration.
//
// Each constraint contributes one or two rows of T and matching entries
// of b. Rows are concatenated in constraint order; callers must not
// assume any other permutation. The (T, b) pair is the only input the
// dual linear system needs (see linsys.NewDualSystem).
package intervention

import (
	"gonum.org/v1/gonum/mat"

	"github.com/elemflux/elemflux/pkg/errors"
)

// Constraint is one admissible intervention-problem constraint. The
// concrete kinds are FluxBound and YieldBound; the tagged constructors
// replace runtime type inspection at the enumeration boundary.
type Constraint interface {
	// Materialize renders the constraint into a rows-by-n block of T
	// and the matching entries of b. n is the number of reactions.
	Materialize(n int) (*mat.Dense, []float64, error)
}

// Problem generates target matrices for a fixed reaction count.
type Problem struct {
	numReactions int
}

// NewProblem returns a Problem for a network with n reactions.
func NewProblem(n int) (*Problem, error) {
	if n <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "reaction count must be positive, got %d", n)
	}
	return &Problem{numReactions: n}, nil
}

// GenerateTargetMatrix materializes every constraint and stacks the
// blocks into (T, b), preserving input order.
func (p *Problem) GenerateTargetMatrix(constraints []Constraint) (*mat.Dense, []float64, error) {
	if len(constraints) == 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "no constraints supplied")
	}

	var (
		blocks []*mat.Dense
		b      []float64
		rows   int
	)
	for i, c := range constraints {
		T, bc, err := c.Materialize(p.numReactions)
		if err != nil {
			return nil, nil, errors.Wrap(errors.GetCode(err), err, "constraint %d", i)
		}
		r, _ := T.Dims()
		if r != len(bc) {
			return nil, nil, errors.New(errors.ErrCodeInternal,
				"constraint %d produced %d rows but %d bounds", i, r, len(bc))
		}
		blocks = append(blocks, T)
		b = append(b, bc...)
		rows += r
	}

	T := mat.NewDense(rows, p.numReactions, nil)
	row := 0
	for _, block := range blocks {
		r, _ := block.Dims()
		for i := 0; i < r; i++ {
			T.SetRow(row, block.RawRowView(i))
			row++
		}
	}
	return T, b, nil
}

// FluxBound bounds a single reaction's flux. A present lower bound
// materializes as the row -1·v_r <= -lb (that is, v_r >= lb); a present
// upper bound as v_r <= ub.
type FluxBound struct {
	reaction int
	lb, ub   *float64
}

// NewFluxBound builds a flux bound for the reaction at the given
// column. Pass nil for an absent bound; at least one must be present.
func NewFluxBound(reaction int, lb, ub *float64) (*FluxBound, error) {
	if reaction < 0 {
		return nil, errors.New(errors.ErrCodeUnknownReaction, "reaction index %d is negative", reaction)
	}
	if lb == nil && ub == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "flux bound needs a lower or upper bound")
	}
	return &FluxBound{reaction: reaction, lb: lb, ub: ub}, nil
}

// Materialize renders the bound into one or two target-matrix rows.
func (f *FluxBound) Materialize(n int) (*mat.Dense, []float64, error) {
	if f.reaction >= n {
		return nil, nil, errors.New(errors.ErrCodeUnknownReaction,
			"reaction index %d out of range [0,%d)", f.reaction, n)
	}

	var (
		rows []float64
		b    []float64
		r    int
	)
	if f.lb != nil {
		row := make([]float64, n)
		row[f.reaction] = -1
		rows = append(rows, row...)
		b = append(b, -*f.lb)
		r++
	}
	if f.ub != nil {
		row := make([]float64, n)
		row[f.reaction] = 1
		rows = append(rows, row...)
		b = append(b, *f.ub)
		r++
	}
	return mat.NewDense(r, n, rows), b, nil
}

// YieldBound bounds the yield between two fluxes. With numerator flux N
// and denominator flux D, a lower bound y materializes as
// -N + y·D <= deviation and an upper bound y as N - y·D <= deviation.
type YieldBound struct {
	numerator   int
	denominator int
	lb, ub      *float64
	deviation   float64
}

// NewYieldBound builds a yield bound between the numerator and
// denominator reaction columns. Pass nil for an absent bound; at least
// one must be present.
func NewYieldBound(numerator, denominator int, lb, ub *float64, deviation float64) (*YieldBound, error) {
	if numerator < 0 || denominator < 0 {
		return nil, errors.New(errors.ErrCodeUnknownReaction,
			"yield bound indices must be non-negative, got (%d, %d)", numerator, denominator)
	}
	if lb == nil && ub == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "yield bound needs a lower or upper bound")
	}
	return &YieldBound{
		numerator:   numerator,
		denominator: denominator,
		lb:          lb,
		ub:          ub,
		deviation:   deviation,
	}, nil
}

// Materialize renders the bound into one or two target-matrix rows.
func (y *YieldBound) Materialize(n int) (*mat.Dense, []float64, error) {
	if y.numerator >= n || y.denominator >= n {
		return nil, nil, errors.New(errors.ErrCodeUnknownReaction,
			"yield bound indices (%d, %d) out of range [0,%d)", y.numerator, y.denominator, n)
	}

	var (
		rows []float64
		b    []float64
		r    int
	)
	if y.lb != nil {
		row := make([]float64, n)
		row[y.numerator] = -1
		row[y.denominator] = *y.lb
		rows = append(rows, row...)
		b = append(b, y.deviation)
		r++
	}
	if y.ub != nil {
		row := make([]float64, n)
		row[y.numerator] = 1
		row[y.denominator] = -*y.ub
		rows = append(rows, row...)
		b = append(b, y.deviation)
		r++
	}
	return mat.NewDense(r, n, rows), b, nil
}

// Float returns a pointer to v, a convenience for optional bounds.
func Float(v float64) *float64 { return &v }
