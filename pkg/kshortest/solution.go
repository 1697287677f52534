package kshortest

import (
	"math"
	"sort"

	"github.com/elemflux/elemflux/pkg/linsys"
	"github.com/elemflux/elemflux/pkg/solver"
)

// Solution is one enumerated flux mode (or cut set, pattern, ...),
// read-only after creation. It keeps the raw variable assignment of the
// solve together with the derived active-indicator and active-reaction
// sets.
type Solution struct {
	values    []float64
	status    solver.Status
	objective float64

	activeDvars     []int
	activeReactions []int
}

// newSolution derives a Solution from a raw solver result. A dvar
// counts as active when its indicator exceeds eps; a reaction counts as
// active when any of its dvars does.
func newSolution(res *solver.Result, mapping []linsys.Dvar, indicators map[int]int, eps float64) *Solution {
	s := &Solution{
		values:    append([]float64(nil), res.Values...),
		status:    res.Status,
		objective: res.Objective,
	}
	for rx, dvar := range mapping {
		active := false
		for _, col := range dvar.Cols() {
			ind, ok := indicators[col]
			if !ok {
				continue
			}
			if math.Abs(res.Value(ind)) > eps {
				s.activeDvars = append(s.activeDvars, col)
				active = true
			}
		}
		if active {
			s.activeReactions = append(s.activeReactions, rx)
		}
	}
	sort.Ints(s.activeDvars)
	sort.Ints(s.activeReactions)
	return s
}

// Status returns the solver status the solution was derived from.
func (s *Solution) Status() solver.Status { return s.status }

// Objective returns the objective value (the active indicator count).
func (s *Solution) Objective() float64 { return s.objective }

// Values returns the raw variable assignment. The slice is shared;
// callers must not modify it.
func (s *Solution) Values() []float64 { return s.values }

// Value returns the assignment of one model column.
func (s *Solution) Value(col int) float64 {
	if col < 0 || col >= len(s.values) {
		return 0
	}
	return s.values[col]
}

// ActiveDvars returns the decision-variable columns whose indicator is
// set, in ascending column order.
func (s *Solution) ActiveDvars() []int { return s.activeDvars }

// ActiveReactions returns the indices of reactions active in this
// solution, ascending.
func (s *Solution) ActiveReactions() []int { return s.activeReactions }

// Size returns the number of active reactions.
func (s *Solution) Size() int { return len(s.activeReactions) }

// SameSupport reports whether two solutions activate the same reaction
// set.
func (s *Solution) SameSupport(o *Solution) bool {
	if len(s.activeReactions) != len(o.activeReactions) {
		return false
	}
	for i, rx := range s.activeReactions {
		if o.activeReactions[i] != rx {
			return false
		}
	}
	return true
}
