package kshortest

import (
	"github.com/elemflux/elemflux/pkg/linsys"
)

// addIndicators attaches the indicator template to every decision
// variable. For a flux variable v with activation threshold C, the
// template introduces five binaries (y, a, b, c, d) and six rows that
// together enforce
//
//	y = 1  =>  v >= C
//	y = 0  =>  v  = 0
//
// y is the indicator read out by solutions; a is its complement, and
// the b/c/d chain carries the complement down to the two conditional
// rows that switch the flux variable off or on.
func (e *Enumerator) addIndicators() error {
	m := e.model
	thr := e.sys.ThresholdVar()

	e.indicators = make(map[int]int, len(e.dvars))
	e.indicatorCols = make([]int, 0, len(e.dvars))

	for _, v := range e.dvars {
		n := m.ColNames[v]

		y := m.AddVar("i_"+n, 0, 1, 0, linsys.VarBinary)
		a := m.AddVar("a_"+n, 0, 1, 0, linsys.VarBinary)
		b := m.AddVar("b_"+n, 0, 1, 0, linsys.VarBinary)
		c := m.AddVar("c_"+n, 0, 1, 0, linsys.VarBinary)
		d := m.AddVar("d_"+n, 0, 1, 0, linsys.VarBinary)

		// a is the complement of y, propagated through b; c mirrors y,
		// propagated through d.
		m.AddSparseRow("ia_"+n, 1, []int{y, a}, []float64{1, 1}, 1)
		m.AddSparseRow("ab_"+n, 0, []int{a, b}, []float64{-1, 1}, linsys.Inf())
		m.AddSparseRow("yc_"+n, 0, []int{y, c}, []float64{-1, 1}, 0)
		m.AddSparseRow("cd_"+n, 0, []int{c, d}, []float64{-1, 1}, linsys.Inf())

		off := m.AddSparseRow("off_"+n, 0, []int{v}, []float64{1}, 0)
		if err := m.MarkConditional(off, b); err != nil {
			return err
		}
		on := m.AddSparseRow("on_"+n, 0, []int{v, thr}, []float64{1, -1}, linsys.Inf())
		if err := m.MarkConditional(on, d); err != nil {
			return err
		}

		e.indicators[v] = y
		e.indicatorCols = append(e.indicatorCols, y)
	}
	return nil
}

// addExclusivity forbids a split reaction from carrying flux in both
// directions at once.
func (e *Enumerator) addExclusivity() {
	m := e.model
	for _, dvar := range e.mapping {
		if !dvar.Split() {
			continue
		}
		yf := e.indicators[dvar.Forward]
		yb := e.indicators[dvar.Backward]
		m.AddSparseRow("excl_"+m.ColNames[dvar.Forward], 0,
			[]int{yf, yb}, []float64{1, 1}, 1)
	}
}

// addPatternConstraints attaches the pattern auxiliaries: one binary h
// per indicator with y >= h, plus a covering row requiring at least one
// h to be set. Pattern problems deliberately omit exclusivity rows.
func (e *Enumerator) addPatternConstraints() {
	m := e.model
	e.patternAux = make(map[int]int, len(e.indicatorCols))

	hcols := make([]int, 0, len(e.indicatorCols))
	for _, y := range e.indicatorCols {
		h := m.AddVar("h_"+m.ColNames[y], 0, 1, 0, linsys.VarBinary)
		m.AddSparseRow("yh_"+m.ColNames[y], 0, []int{y, h}, []float64{1, -1}, linsys.Inf())
		e.patternAux[y] = h
		hcols = append(hcols, h)
	}

	ones := make([]float64, len(hcols))
	for i := range ones {
		ones[i] = 1
	}
	m.AddSparseRow("pattern_cover", 1, hcols, ones, linsys.Inf())
}
