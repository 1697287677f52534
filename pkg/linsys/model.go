package linsys

import (
	"math"

	"github.com/elemflux/elemflux/pkg/errors"
)

// VarType specifies whether a variable is continuous, integer, or binary.
type VarType int

const (
	// VarContinuous indicates a continuous variable (default).
	VarContinuous VarType = iota

	// VarInteger indicates a general integer variable.
	VarInteger

	// VarBinary indicates a 0/1 variable.
	VarBinary
)

// Nonzero is a single entry of the sparse constraint matrix.
type Nonzero struct {
	Row int
	Col int
	Val float64
}

// CondRow marks a constraint row as conditional: the row applies only
// when the controlling binary variable equals 1. Backends with native
// indicator-constraint support pass these through; others lower them to
// big-M rows (see pkg/solver).
type CondRow struct {
	Row int // index of the conditioned row
	Bin int // column of the controlling binary variable
}

// Model is a solver-ready mixed-integer linear problem.
//
// The model describes:
//
//	Minimize (or Maximize): ColCosts · x
//	Subject to:             RowLower ≤ A·x ≤ RowUpper
//	And:                    ColLower ≤ x ≤ ColUpper
//
// where A is given sparsely by Nonzeros. Rows listed in CondRows are
// enforced only while their controlling binary is 1.
//
// A Model is mutated in place by the enumeration machinery: integer
// cuts append rows, the size constraint updates bounds of an existing
// row, and reset truncates appended rows. Variables are never removed.
type Model struct {
	Name     string
	Maximize bool

	ColCosts []float64
	ColLower []float64
	ColUpper []float64
	ColNames []string
	VarTypes []VarType

	RowLower []float64
	RowUpper []float64
	RowNames []string

	Nonzeros []Nonzero
	CondRows []CondRow
}

// NewModel returns an empty model with the given name.
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// NumVars returns the number of variables in the model.
func (m *Model) NumVars() int {
	return len(m.ColLower)
}

// NumRows returns the number of constraint rows in the model.
func (m *Model) NumRows() int {
	return len(m.RowLower)
}

// AddVar appends a variable and returns its column index.
func (m *Model) AddVar(name string, lb, ub, cost float64, vt VarType) int {
	col := len(m.ColLower)
	m.ColLower = append(m.ColLower, lb)
	m.ColUpper = append(m.ColUpper, ub)
	m.ColCosts = append(m.ColCosts, cost)
	m.ColNames = append(m.ColNames, name)
	m.VarTypes = append(m.VarTypes, vt)
	return col
}

// AddDenseRow adds a constraint from a dense coefficient vector,
// filtering out zero coefficients, and returns its row index.
func (m *Model) AddDenseRow(name string, lb float64, coeffs []float64, ub float64) int {
	row := len(m.RowLower)
	m.RowLower = append(m.RowLower, lb)
	m.RowUpper = append(m.RowUpper, ub)
	m.RowNames = append(m.RowNames, name)

	for col, val := range coeffs {
		if val != 0.0 {
			m.Nonzeros = append(m.Nonzeros, Nonzero{Row: row, Col: col, Val: val})
		}
	}
	return row
}

// AddSparseRow adds a constraint from parallel column/value slices and
// returns its row index.
func (m *Model) AddSparseRow(name string, lb float64, cols []int, vals []float64, ub float64) int {
	row := len(m.RowLower)
	m.RowLower = append(m.RowLower, lb)
	m.RowUpper = append(m.RowUpper, ub)
	m.RowNames = append(m.RowNames, name)

	for i, col := range cols {
		if vals[i] != 0.0 {
			m.Nonzeros = append(m.Nonzeros, Nonzero{Row: row, Col: col, Val: vals[i]})
		}
	}
	return row
}

// MarkConditional registers row as enforced only while the binary
// variable in column bin equals 1.
func (m *Model) MarkConditional(row, bin int) error {
	if row < 0 || row >= m.NumRows() {
		return errors.New(errors.ErrCodeInternal, "conditional row %d out of range", row)
	}
	if bin < 0 || bin >= m.NumVars() || m.VarTypes[bin] != VarBinary {
		return errors.New(errors.ErrCodeInternal, "conditional row %d: column %d is not binary", row, bin)
	}
	m.CondRows = append(m.CondRows, CondRow{Row: row, Bin: bin})
	return nil
}

// SetRowBounds replaces the bounds of an existing row in place.
func (m *Model) SetRowBounds(row int, lb, ub float64) error {
	if row < 0 || row >= m.NumRows() {
		return errors.New(errors.ErrCodeInternal, "row %d out of range", row)
	}
	m.RowLower[row] = lb
	m.RowUpper[row] = ub
	return nil
}

// TruncateRows removes every row with index >= n, along with its
// nonzeros and conditional-row markers. Variables are untouched.
func (m *Model) TruncateRows(n int) {
	if n < 0 || n >= m.NumRows() {
		if n < 0 {
			n = 0
		} else {
			return
		}
	}
	m.RowLower = m.RowLower[:n]
	m.RowUpper = m.RowUpper[:n]
	m.RowNames = m.RowNames[:n]

	nz := m.Nonzeros[:0]
	for _, e := range m.Nonzeros {
		if e.Row < n {
			nz = append(nz, e)
		}
	}
	m.Nonzeros = nz

	cr := m.CondRows[:0]
	for _, c := range m.CondRows {
		if c.Row < n {
			cr = append(cr, c)
		}
	}
	m.CondRows = cr
}

// SetObjective replaces the objective with min (or max) of the given
// columns weighted by coeffs.
func (m *Model) SetObjective(cols []int, coeffs []float64, maximize bool) {
	for i := range m.ColCosts {
		m.ColCosts[i] = 0
	}
	for i, col := range cols {
		m.ColCosts[col] = coeffs[i]
	}
	m.Maximize = maximize
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	c := &Model{Name: m.Name, Maximize: m.Maximize}
	c.ColCosts = append([]float64(nil), m.ColCosts...)
	c.ColLower = append([]float64(nil), m.ColLower...)
	c.ColUpper = append([]float64(nil), m.ColUpper...)
	c.ColNames = append([]string(nil), m.ColNames...)
	c.VarTypes = append([]VarType(nil), m.VarTypes...)
	c.RowLower = append([]float64(nil), m.RowLower...)
	c.RowUpper = append([]float64(nil), m.RowUpper...)
	c.RowNames = append([]string(nil), m.RowNames...)
	c.Nonzeros = append([]Nonzero(nil), m.Nonzeros...)
	c.CondRows = append([]CondRow(nil), m.CondRows...)
	return c
}

// RowCoeffs returns the dense coefficient vector of a row.
func (m *Model) RowCoeffs(row int) []float64 {
	coeffs := make([]float64, m.NumVars())
	for _, e := range m.Nonzeros {
		if e.Row == row {
			coeffs[e.Col] = e.Val
		}
	}
	return coeffs
}

// Inf returns positive infinity, suitable for unbounded rows and columns.
func Inf() float64 {
	return math.Inf(1)
}

// NegInf returns negative infinity, suitable for unbounded rows and columns.
func NegInf() float64 {
	return math.Inf(-1)
}
