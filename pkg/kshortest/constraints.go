package kshortest

import (
	"math"
	"strconv"

	"github.com/elemflux/elemflux/pkg/errors"
	"github.com/elemflux/elemflux/pkg/linsys"
)

// SetSizeConstraint bounds the number of active indicators. With equal
// false the constraint is "at least size", with equal true "exactly
// size". The constraint is a single row updated in place, so changing
// the size never grows the model.
func (e *Enumerator) SetSizeConstraint(size int, equal bool) error {
	if size < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "size bound must be at least 1, got %d", size)
	}
	ub := linsys.Inf()
	if equal {
		ub = float64(size)
	}
	e.curSize = size
	if e.sizeRow < 0 {
		ones := make([]float64, len(e.indicatorCols))
		for i := range ones {
			ones[i] = 1
		}
		e.sizeRow = e.model.AddSparseRow("size", float64(size), e.indicatorCols, ones, ub)
		return nil
	}
	return e.model.SetRowBounds(e.sizeRow, float64(size), ub)
}

// addIntegerCut appends a cut over the dvar groups active in the given
// assignment. A group counts as active when any of its indicators is
// set, and every indicator of an active group joins the cut, so a
// reversible reaction is cut in both directions at once. A non-forcing
// cut excludes the assignment's support:
//
//	sum(group indicators) <= groups - override
//
// A forcing cut pins the support instead, requiring one active
// indicator per group. Pattern problems extend exclusion cuts with the
// auxiliary pattern binaries and keep the full group count as the
// bound; the covering row then blocks an exact repeat while supersets
// stay reachable.
func (e *Enumerator) addIntegerCut(values []float64, forcing bool, sizeOverride int) error {
	var cols []int
	groups := 0
	for _, dvar := range e.mapping {
		active := false
		for _, v := range dvar.Cols() {
			y := e.indicators[v]
			if y < len(values) && math.Abs(values[y]) > e.opts.Eps {
				active = true
				break
			}
		}
		if !active {
			continue
		}
		groups++
		cols = e.appendGroupCols(cols, dvar, !forcing)
	}
	if groups == 0 {
		return errors.New(errors.ErrCodeInternal, "integer cut over empty support")
	}
	e.appendCut(cols, groups, forcing, sizeOverride)
	return nil
}

// appendGroupCols adds the indicator columns of one dvar group, plus
// the pattern auxiliaries when aux is set on a pattern problem.
func (e *Enumerator) appendGroupCols(cols []int, dvar linsys.Dvar, aux bool) []int {
	for _, v := range dvar.Cols() {
		y := e.indicators[v]
		cols = append(cols, y)
		if aux && e.isPattern {
			cols = append(cols, e.patternAux[y])
		}
	}
	return cols
}

// appendCut writes the cut row over the collected group columns. The
// exclusion form bounds the sum from above, the forcing form pins it
// to the group count.
func (e *Enumerator) appendCut(cols []int, groups int, forcing bool, sizeOverride int) {
	ones := make([]float64, len(cols))
	for i := range ones {
		ones[i] = 1
	}
	name := "cut" + strconv.Itoa(e.numCuts)
	switch {
	case forcing:
		e.model.AddSparseRow(name, float64(groups), cols, ones, float64(groups))
	case e.isPattern:
		e.model.AddSparseRow(name, linsys.NegInf(), cols, ones, float64(groups))
	default:
		if sizeOverride < 1 {
			sizeOverride = 1
		}
		e.model.AddSparseRow(name, linsys.NegInf(), cols, ones, float64(groups-sizeOverride))
	}
	e.numCuts++
}

// SolutionSet names a support to exclude from or force into the
// enumeration. It wraps either a previously found Solution or a raw
// reaction index set.
type SolutionSet struct {
	sol       *Solution
	reactions []int
}

// SetFromSolution wraps an enumerated solution.
func SetFromSolution(s *Solution) SolutionSet {
	return SolutionSet{sol: s}
}

// SetFromReactions wraps a raw reaction index set. Indices are
// validated against the system when the set is applied.
func SetFromReactions(reactions ...int) SolutionSet {
	return SolutionSet{reactions: append([]int(nil), reactions...)}
}

// cutCols resolves the set to the indicator columns of its dvar groups
// and the group count. aux extends each group with its pattern
// auxiliaries on pattern problems.
func (ss SolutionSet) cutCols(e *Enumerator, aux bool) ([]int, int, error) {
	reactions := ss.reactions
	if ss.sol != nil {
		reactions = ss.sol.ActiveReactions()
		if len(reactions) == 0 {
			return nil, 0, errors.New(errors.ErrCodeInvalidInput, "solution set has no active variables")
		}
	}
	if len(reactions) == 0 {
		return nil, 0, errors.New(errors.ErrCodeInvalidInput, "empty reaction set")
	}
	var cols []int
	for _, rx := range reactions {
		if rx < 0 || rx >= len(e.mapping) {
			return nil, 0, errors.New(errors.ErrCodeUnknownReaction,
				"reaction index %d out of range [0,%d)", rx, len(e.mapping))
		}
		cols = e.appendGroupCols(cols, e.mapping[rx], aux)
	}
	return cols, len(reactions), nil
}

// ExcludeSolutions adds an exclusion cut per set: no later solution may
// repeat the full support of an excluded set. A set naming a reversible
// reaction blocks both directions.
func (e *Enumerator) ExcludeSolutions(sets ...SolutionSet) error {
	for _, ss := range sets {
		cols, groups, err := ss.cutCols(e, true)
		if err != nil {
			return err
		}
		e.appendCut(cols, groups, false, 1)
	}
	return nil
}

// ForceSolutions adds a forcing cut per set: every later solution must
// contain the full support of each forced set.
func (e *Enumerator) ForceSolutions(sets ...SolutionSet) error {
	for _, ss := range sets {
		cols, groups, err := ss.cutCols(e, false)
		if err != nil {
			return err
		}
		e.appendCut(cols, groups, true, 0)
	}
	return nil
}
