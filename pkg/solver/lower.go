package solver

import (
	"math"

	"github.com/elemflux/elemflux/pkg/errors"
	"github.com/elemflux/elemflux/pkg/linsys"
)

// LowerConditionals rewrites every conditional row of the model into
// big-M form and returns the rewritten copy. The input model is not
// modified.
//
// A row lb <= a·x <= ub conditioned on binary y becomes
//
//	a·x - M·y >= lb - M   (when lb is finite)
//	a·x + M·y <= ub + M   (when ub is finite)
//
// so the row binds exactly when y = 1 and is slack by M otherwise. This
// is a numeric relaxation of true indicator semantics: M must dominate
// the attainable range of a·x, otherwise the lowered rows cut off valid
// assignments. Callers that cannot tolerate the relaxation set
// Options.RequireIndicators and use a backend with native support.
func LowerConditionals(m *linsys.Model, bigM float64) (*linsys.Model, error) {
	if len(m.CondRows) == 0 {
		return m, nil
	}
	if bigM <= 0 || math.IsInf(bigM, 1) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "big-M must be positive and finite, got %g", bigM)
	}

	out := m.Clone()
	for _, c := range out.CondRows {
		coeffs := out.RowCoeffs(c.Row)
		lb, ub := out.RowLower[c.Row], out.RowUpper[c.Row]
		name := out.RowNames[c.Row]

		// Neutralize the original row; the lowered rows replace it.
		if err := out.SetRowBounds(c.Row, linsys.NegInf(), linsys.Inf()); err != nil {
			return nil, err
		}

		if !math.IsInf(lb, -1) {
			lo := append([]float64(nil), coeffs...)
			lo[c.Bin] -= bigM
			out.AddDenseRow(name+"_bigM_lo", lb-bigM, lo, linsys.Inf())
		}
		if !math.IsInf(ub, 1) {
			up := append([]float64(nil), coeffs...)
			up[c.Bin] += bigM
			out.AddDenseRow(name+"_bigM_up", linsys.NegInf(), up, ub+bigM)
		}
	}
	out.CondRows = nil
	return out, nil
}
