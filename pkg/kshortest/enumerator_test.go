package kshortest

import (
	"context"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/elemflux/elemflux/pkg/errors"
	"github.com/elemflux/elemflux/pkg/linsys"
	"github.com/elemflux/elemflux/pkg/solver"
)

// linearNet is a 3-metabolite chain with a single flux mode through
// R1 and R2:
//
//	R1: -> A,  R2: A ->,  R3: B -> C,  R4: C ->
func linearNet() *linsys.Network {
	return &linsys.Network{
		S: mat.NewDense(3, 4, []float64{
			1, -1, 0, 0,
			0, 0, -1, 0,
			0, 0, 1, -1,
		}),
		Reactions:   []string{"R1", "R2", "R3", "R4"},
		Metabolites: []string{"A", "B", "C"},
	}
}

// revNet is linearNet with R3 reversible.
func revNet() *linsys.Network {
	n := linearNet()
	n.Reversible = []int{2}
	return n
}

// fakeBackend replays a scripted sequence of solve outcomes. Once the
// script runs out, every further solve reports infeasible.
type fakeBackend struct {
	script []func(m *linsys.Model) (*solver.Result, error)
	calls  int
}

func (f *fakeBackend) Name() string                      { return "fake" }
func (f *fakeBackend) Capabilities() solver.Capabilities { return solver.Capabilities{} }

func (f *fakeBackend) Solve(_ context.Context, m *linsys.Model, _ solver.Options) (*solver.Result, error) {
	if f.calls >= len(f.script) {
		return &solver.Result{Status: solver.StatusInfeasible}, nil
	}
	fn := f.script[f.calls]
	f.calls++
	return fn(m)
}

// optimal scripts an optimal result activating the named reactions.
// Indicator columns are resolved by name, so the script stays valid as
// cut rows are appended.
func optimal(names ...string) func(m *linsys.Model) (*solver.Result, error) {
	return func(m *linsys.Model) (*solver.Result, error) {
		values := make([]float64, m.NumVars())
		obj := 0.0
		for _, n := range names {
			for col, cn := range m.ColNames {
				switch cn {
				case "i_" + n:
					values[col] = 1
					obj++
				case n:
					values[col] = 2.5
				}
			}
		}
		return &solver.Result{Status: solver.StatusOptimal, Values: values, Objective: obj}, nil
	}
}

func infeasible() func(m *linsys.Model) (*solver.Result, error) {
	return func(*linsys.Model) (*solver.Result, error) {
		return &solver.Result{Status: solver.StatusInfeasible}, nil
	}
}

func solverError(msg string) func(m *linsys.Model) (*solver.Result, error) {
	return func(*linsys.Model) (*solver.Result, error) {
		return nil, errors.New(errors.ErrCodeSolver, "%s", msg)
	}
}

func newTestEnumerator(t *testing.T, sys linsys.System, fb *fakeBackend) *Enumerator {
	t.Helper()
	e, err := NewEnumerator(sys, fb)
	if err != nil {
		t.Fatalf("NewEnumerator: %v", err)
	}
	return e
}

func irrevSys(t *testing.T, net *linsys.Network) *linsys.IrreversibleSystem {
	t.Helper()
	sys, err := linsys.NewIrreversibleSystem(net)
	if err != nil {
		t.Fatalf("NewIrreversibleSystem: %v", err)
	}
	return sys
}

func TestEnumeratorEncoding(t *testing.T) {
	e := newTestEnumerator(t, irrevSys(t, revNet()), &fakeBackend{})
	m := e.Model()

	// 5 dvars: four forward columns plus the R3 backward column.
	if got := len(e.indicatorCols); got != 5 {
		t.Fatalf("indicators = %d, want 5", got)
	}
	// Base columns (5 flux + C) plus 5 binaries per dvar.
	if got, want := m.NumVars(), 6+5*5; got != want {
		t.Errorf("NumVars = %d, want %d", got, want)
	}
	// 3 steady-state rows, 6 template rows per dvar, 1 exclusivity row
	// for R3, 1 size row.
	if got, want := m.NumRows(), 3+5*6+1+1; got != want {
		t.Errorf("NumRows = %d, want %d", got, want)
	}
	// Two conditional rows per dvar (off and on).
	if got := len(m.CondRows); got != 10 {
		t.Errorf("CondRows = %d, want 10", got)
	}
	for _, y := range e.indicatorCols {
		if m.VarTypes[y] != linsys.VarBinary {
			t.Errorf("indicator col %d is not binary", y)
		}
		if m.ColCosts[y] != 1 {
			t.Errorf("indicator col %d cost = %g, want 1", y, m.ColCosts[y])
		}
	}
	if m.Maximize {
		t.Error("objective sense is maximize, want minimize")
	}
	if lb, ub := m.RowLower[e.sizeRow], m.RowUpper[e.sizeRow]; lb != 1 || !math.IsInf(ub, 1) {
		t.Errorf("size row bounds = [%g,%g], want [1,+inf)", lb, ub)
	}
}

func TestExclusivityRows(t *testing.T) {
	e := newTestEnumerator(t, irrevSys(t, revNet()), &fakeBackend{})
	m := e.Model()

	var excl []int
	for row, name := range m.RowNames {
		if strings.HasPrefix(name, "excl_") {
			excl = append(excl, row)
		}
	}
	if len(excl) != 1 {
		t.Fatalf("exclusivity rows = %d, want 1", len(excl))
	}
	row := excl[0]
	if lb, ub := m.RowLower[row], m.RowUpper[row]; lb != 0 || ub != 1 {
		t.Errorf("exclusivity bounds = [%g,%g], want [0,1]", lb, ub)
	}
	coeffs := m.RowCoeffs(row)
	dvar := e.mapping[2]
	if coeffs[e.indicators[dvar.Forward]] != 1 || coeffs[e.indicators[dvar.Backward]] != 1 {
		t.Error("exclusivity row does not cover both direction indicators")
	}
}

func TestSetSizeConstraintInPlace(t *testing.T) {
	e := newTestEnumerator(t, irrevSys(t, linearNet()), &fakeBackend{})
	m := e.Model()
	rows := m.NumRows()

	if err := e.SetSizeConstraint(3, true); err != nil {
		t.Fatalf("SetSizeConstraint: %v", err)
	}
	if m.NumRows() != rows {
		t.Errorf("size change grew model from %d to %d rows", rows, m.NumRows())
	}
	if lb, ub := m.RowLower[e.sizeRow], m.RowUpper[e.sizeRow]; lb != 3 || ub != 3 {
		t.Errorf("equality bounds = [%g,%g], want [3,3]", lb, ub)
	}

	if err := e.SetSizeConstraint(2, false); err != nil {
		t.Fatalf("SetSizeConstraint: %v", err)
	}
	if lb, ub := m.RowLower[e.sizeRow], m.RowUpper[e.sizeRow]; lb != 2 || !math.IsInf(ub, 1) {
		t.Errorf("lower bounds = [%g,%g], want [2,+inf)", lb, ub)
	}

	if err := e.SetSizeConstraint(0, false); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("size 0 error = %v, want INVALID_INPUT", err)
	}
}

func TestIntegerCutBounds(t *testing.T) {
	fb := &fakeBackend{script: []func(m *linsys.Model) (*solver.Result, error){optimal("R1", "R2")}}
	e := newTestEnumerator(t, irrevSys(t, linearNet()), fb)
	m := e.Model()

	sol, err := e.GetSingleSolution(context.Background())
	if err != nil {
		t.Fatalf("GetSingleSolution: %v", err)
	}
	if got := sol.ActiveReactions(); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("active reactions = %v, want [0 1]", got)
	}
	if e.CutCount() != 1 {
		t.Fatalf("CutCount = %d, want 1", e.CutCount())
	}

	cut := m.NumRows() - 1
	if lb, ub := m.RowLower[cut], m.RowUpper[cut]; !math.IsInf(lb, -1) || ub != 1 {
		t.Errorf("exclusion cut bounds = [%g,%g], want (-inf,1]", lb, ub)
	}
	coeffs := m.RowCoeffs(cut)
	for _, rx := range []int{0, 1} {
		if coeffs[e.indicators[e.mapping[rx].Forward]] != 1 {
			t.Errorf("cut misses indicator of reaction %d", rx)
		}
	}
}

func TestForceAndExcludeReactionSets(t *testing.T) {
	e := newTestEnumerator(t, irrevSys(t, linearNet()), &fakeBackend{})
	m := e.Model()

	if err := e.ForceSolutions(SetFromReactions(0, 1)); err != nil {
		t.Fatalf("ForceSolutions: %v", err)
	}
	force := m.NumRows() - 1
	if lb, ub := m.RowLower[force], m.RowUpper[force]; lb != 2 || ub != 2 {
		t.Errorf("forcing bounds = [%g,%g], want [2,2]", lb, ub)
	}

	if err := e.ExcludeSolutions(SetFromReactions(2, 3)); err != nil {
		t.Fatalf("ExcludeSolutions: %v", err)
	}
	excl := m.NumRows() - 1
	if lb, ub := m.RowLower[excl], m.RowUpper[excl]; !math.IsInf(lb, -1) || ub != 1 {
		t.Errorf("exclusion bounds = [%g,%g], want (-inf,1]", lb, ub)
	}

	err := e.ExcludeSolutions(SetFromReactions(7))
	if !errors.Is(err, errors.ErrCodeUnknownReaction) {
		t.Errorf("out-of-range set error = %v, want UNKNOWN_REACTION", err)
	}
	if err := e.ExcludeSolutions(SetFromReactions()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty set error = %v, want INVALID_INPUT", err)
	}
}

func TestExcludeReversibleReaction(t *testing.T) {
	e := newTestEnumerator(t, irrevSys(t, revNet()), &fakeBackend{})
	m := e.Model()

	if err := e.ExcludeSolutions(SetFromReactions(2)); err != nil {
		t.Fatalf("ExcludeSolutions: %v", err)
	}
	cut := m.NumRows() - 1
	// One group of two indicators: both must vanish, so the bound is 0.
	// An upper bound of 1 would be vacuous next to the exclusivity row.
	if lb, ub := m.RowLower[cut], m.RowUpper[cut]; !math.IsInf(lb, -1) || ub != 0 {
		t.Errorf("exclusion bounds = [%g,%g], want (-inf,0]", lb, ub)
	}
	coeffs := m.RowCoeffs(cut)
	dvar := e.mapping[2]
	if coeffs[e.indicators[dvar.Forward]] != 1 || coeffs[e.indicators[dvar.Backward]] != 1 {
		t.Error("exclusion cut does not cover both direction indicators")
	}
}

func TestForceReversibleReaction(t *testing.T) {
	e := newTestEnumerator(t, irrevSys(t, revNet()), &fakeBackend{})
	m := e.Model()

	if err := e.ForceSolutions(SetFromReactions(2)); err != nil {
		t.Fatalf("ForceSolutions: %v", err)
	}
	cut := m.NumRows() - 1
	// The forcing bound is the group count: one indicator of the pair
	// must be set, which the exclusivity row still caps at one.
	if lb, ub := m.RowLower[cut], m.RowUpper[cut]; lb != 1 || ub != 1 {
		t.Errorf("forcing bounds = [%g,%g], want [1,1]", lb, ub)
	}
	coeffs := m.RowCoeffs(cut)
	dvar := e.mapping[2]
	if coeffs[e.indicators[dvar.Forward]] != 1 || coeffs[e.indicators[dvar.Backward]] != 1 {
		t.Error("forcing cut does not cover both direction indicators")
	}
}

func TestIntegerCutCoversReversibleGroup(t *testing.T) {
	fb := &fakeBackend{script: []func(m *linsys.Model) (*solver.Result, error){
		optimal("R3_rev", "R4"),
	}}
	e := newTestEnumerator(t, irrevSys(t, revNet()), fb)
	m := e.Model()

	sol, err := e.GetSingleSolution(context.Background())
	if err != nil {
		t.Fatalf("GetSingleSolution: %v", err)
	}
	if got := sol.ActiveReactions(); len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("active reactions = %v, want [2 3]", got)
	}

	cut := m.NumRows() - 1
	coeffs := m.RowCoeffs(cut)
	dvar := e.mapping[2]
	// The backward direction carried the flux; the cut must still cover
	// the forward indicator so the mirrored support cannot recur.
	if coeffs[e.indicators[dvar.Forward]] != 1 || coeffs[e.indicators[dvar.Backward]] != 1 {
		t.Error("cut misses a direction indicator of the reversible reaction")
	}
	if coeffs[e.indicators[e.mapping[3].Forward]] != 1 {
		t.Error("cut misses the irreversible reaction's indicator")
	}
	// Two active reactions, three involved indicators: the bound counts
	// reactions, not columns.
	if ub := m.RowUpper[cut]; ub != 1 {
		t.Errorf("cut ub = %g, want 1", ub)
	}
}

func TestResetDropsCutsOnly(t *testing.T) {
	fb := &fakeBackend{script: []func(m *linsys.Model) (*solver.Result, error){
		optimal("R1", "R2"),
		optimal("R3", "R4"),
	}}
	e := newTestEnumerator(t, irrevSys(t, linearNet()), fb)
	m := e.Model()
	base := m.NumRows()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := e.GetSingleSolution(ctx); err != nil {
			t.Fatalf("GetSingleSolution %d: %v", i, err)
		}
	}
	if err := e.SetSizeConstraint(2, true); err != nil {
		t.Fatalf("SetSizeConstraint: %v", err)
	}
	if m.NumRows() != base+2 {
		t.Fatalf("rows = %d, want %d", m.NumRows(), base+2)
	}

	e.Reset()
	if m.NumRows() != base {
		t.Errorf("rows after reset = %d, want %d", m.NumRows(), base)
	}
	if e.CutCount() != 0 {
		t.Errorf("CutCount after reset = %d, want 0", e.CutCount())
	}
	if lb, ub := m.RowLower[e.sizeRow], m.RowUpper[e.sizeRow]; lb != 1 || !math.IsInf(ub, 1) {
		t.Errorf("size bounds after reset = [%g,%g], want [1,+inf)", lb, ub)
	}
}

func TestGetSingleSolutionExhausted(t *testing.T) {
	e := newTestEnumerator(t, irrevSys(t, linearNet()), &fakeBackend{})
	_, err := e.GetSingleSolution(context.Background())
	if !errors.Is(err, errors.ErrCodeNoSolution) {
		t.Fatalf("error = %v, want NO_SOLUTION", err)
	}
}

func TestIterate(t *testing.T) {
	fb := &fakeBackend{script: []func(m *linsys.Model) (*solver.Result, error){
		optimal("R1", "R2"),
		optimal("R1", "R3", "R4"),
	}}
	e := newTestEnumerator(t, irrevSys(t, linearNet()), fb)

	ctx := context.Background()
	it := e.Iterate()
	var sizes []int
	for it.Next(ctx) {
		sizes = append(sizes, it.Solution().Size())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	if len(sizes) != 2 || sizes[0] != 2 || sizes[1] != 3 {
		t.Errorf("sizes = %v, want [2 3]", sizes)
	}
	if it.Count() != 2 {
		t.Errorf("Count = %d, want 2", it.Count())
	}
	if e.CutCount() != 2 {
		t.Errorf("CutCount = %d, want 2", e.CutCount())
	}
}

func TestPopulateBatches(t *testing.T) {
	fb := &fakeBackend{script: []func(m *linsys.Model) (*solver.Result, error){
		optimal("R1"),
		optimal("R2"),
		infeasible(),
		optimal("R3", "R4"),
	}}
	e := newTestEnumerator(t, irrevSys(t, linearNet()), fb)
	m := e.Model()

	ctx := context.Background()
	it := e.Populate(2)

	if !it.Next(ctx) {
		t.Fatalf("first Next = false, err %v", it.Err())
	}
	if it.Size() != 1 || len(it.Batch()) != 2 {
		t.Errorf("first batch: size %d len %d, want size 1 len 2", it.Size(), len(it.Batch()))
	}
	if lb, ub := m.RowLower[e.sizeRow], m.RowUpper[e.sizeRow]; lb != 1 || ub != 1 {
		t.Errorf("size bounds during sweep = [%g,%g], want [1,1]", lb, ub)
	}

	if !it.Next(ctx) {
		t.Fatalf("second Next = false, err %v", it.Err())
	}
	if it.Size() != 2 || len(it.Batch()) != 1 {
		t.Errorf("second batch: size %d len %d, want size 2 len 1", it.Size(), len(it.Batch()))
	}
	if got := it.Batch()[0].ActiveReactions(); len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("second batch support = %v, want [2 3]", got)
	}

	if it.Next(ctx) {
		t.Error("third Next = true, want exhaustion")
	}
	if err := it.Err(); err != nil {
		t.Errorf("Err = %v, want nil", err)
	}
	if it.Total() != 3 {
		t.Errorf("Total = %d, want 3", it.Total())
	}
}

func TestPopulateSkipsEmptySizes(t *testing.T) {
	fb := &fakeBackend{script: []func(m *linsys.Model) (*solver.Result, error){
		infeasible(),
		optimal("R1", "R2"),
	}}
	e := newTestEnumerator(t, irrevSys(t, linearNet()), fb)

	it := e.Populate(3)
	if !it.Next(context.Background()) {
		t.Fatalf("Next = false, err %v", it.Err())
	}
	if it.Size() != 2 {
		t.Errorf("Size = %d, want 2", it.Size())
	}
}

func TestPopulatePropagatesSolverError(t *testing.T) {
	fb := &fakeBackend{script: []func(m *linsys.Model) (*solver.Result, error){
		optimal("R1"),
		solverError("boom"),
	}}
	e := newTestEnumerator(t, irrevSys(t, linearNet()), fb)

	it := e.Populate(2)
	if !it.Next(context.Background()) {
		t.Fatal("Next = false, want the partial batch")
	}
	if len(it.Batch()) != 1 {
		t.Errorf("partial batch len = %d, want 1", len(it.Batch()))
	}
	if it.Next(context.Background()) {
		t.Error("Next after failure = true, want false")
	}
	if !errors.Is(it.Err(), errors.ErrCodeSolver) {
		t.Errorf("Err = %v, want SOLVER_ERROR", it.Err())
	}
}

func TestIterateTreatsSolverErrorAsExhaustion(t *testing.T) {
	fb := &fakeBackend{script: []func(m *linsys.Model) (*solver.Result, error){
		solverError("boom"),
	}}
	e := newTestEnumerator(t, irrevSys(t, linearNet()), fb)

	it := e.Iterate()
	if it.Next(context.Background()) {
		t.Error("Next = true, want false on backend failure")
	}
	if err := it.Err(); err != nil {
		t.Errorf("Err = %v, want nil", err)
	}
}

func TestPatternEnumerator(t *testing.T) {
	sys, err := linsys.NewIrreversiblePatternSystem(linearNet(), []int{0, 1})
	if err != nil {
		t.Fatalf("NewIrreversiblePatternSystem: %v", err)
	}
	e := newTestEnumerator(t, sys, &fakeBackend{})
	m := e.Model()

	if len(e.patternAux) != 2 {
		t.Fatalf("pattern aux = %d, want 2", len(e.patternAux))
	}
	for _, name := range m.RowNames {
		if strings.HasPrefix(name, "excl_") {
			t.Fatal("pattern problem carries exclusivity rows")
		}
	}
	cover := -1
	for row, name := range m.RowNames {
		if name == "pattern_cover" {
			cover = row
		}
	}
	if cover < 0 {
		t.Fatal("pattern cover row missing")
	}
	if lb, ub := m.RowLower[cover], m.RowUpper[cover]; lb != 1 || !math.IsInf(ub, 1) {
		t.Errorf("cover bounds = [%g,%g], want [1,+inf)", lb, ub)
	}

	// A pattern cut carries the auxiliary binary next to the indicator.
	values := make([]float64, m.NumVars())
	y := e.indicators[e.mapping[0].Forward]
	values[y] = 1
	if err := e.addIntegerCut(values, false, 1); err != nil {
		t.Fatalf("addIntegerCut: %v", err)
	}
	cut := m.NumRows() - 1
	coeffs := m.RowCoeffs(cut)
	if coeffs[y] != 1 || coeffs[e.patternAux[y]] != 1 {
		t.Error("pattern cut misses indicator or auxiliary binary")
	}
	if ub := m.RowUpper[cut]; ub != 1 {
		t.Errorf("pattern cut ub = %g, want 1", ub)
	}

	// With a second active reaction the bound is the reaction count,
	// leaving room for the covering row to admit supersets.
	values[e.indicators[e.mapping[1].Forward]] = 1
	if err := e.addIntegerCut(values, false, 1); err != nil {
		t.Fatalf("addIntegerCut: %v", err)
	}
	if ub := m.RowUpper[m.NumRows()-1]; ub != 2 {
		t.Errorf("two-reaction pattern cut ub = %g, want 2", ub)
	}
}
