package linsys

import (
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/elemflux/elemflux/pkg/errors"
)

// DualSystem is the intervention-form linear system used for minimal
// cut set enumeration. It encodes the Farkas dual of the target flux
// region {v : S·v = 0, v_irr >= 0, T·v <= b}:
//
//	per reaction j:  (Sᵀu)_j + vp_j - vn_j + (Tᵀw)_j  = 0   (reversible)
//	                 (Sᵀu)_j + vp_j        + (Tᵀw)_j >= 0   (irreversible)
//	                 b·w + C <= 0
//
// with u free per metabolite, vp/vn >= 0, w >= 0 per target row and the
// threshold variable C >= 1. A support of (vp, vn) witnesses a set of
// knockouts eliminating every target flux vector, so the dvars are the
// vp columns (paired with vn for reversible reactions).
type DualSystem struct {
	net *Network
	T   *mat.Dense
	b   []float64
	cfg systemConfig

	model   *Model
	dvars   []int
	mapping []Dvar
	cvar    int
}

// NewDualSystem wraps a network plus a target matrix (T, b) into the
// intervention form. T must have one column per reaction and one row
// per entry of b.
func NewDualSystem(net *Network, T *mat.Dense, b []float64, opts ...SystemOption) (*DualSystem, error) {
	if err := net.Validate(); err != nil {
		return nil, err
	}
	if T == nil {
		return nil, errors.New(errors.ErrCodeInvalidModel, "target matrix is nil")
	}
	tRows, tCols := T.Dims()
	if tCols != net.NumReactions() {
		return nil, errors.New(errors.ErrCodeInvalidModel,
			"target matrix has %d columns for %d reactions", tCols, net.NumReactions())
	}
	if tRows != len(b) {
		return nil, errors.New(errors.ErrCodeInvalidModel,
			"target matrix has %d rows but b has %d entries", tRows, len(b))
	}
	cfg := defaultSystemConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &DualSystem{net: net, T: T, b: b, cfg: cfg}, nil
}

// Build encodes the dual problem into a fresh model.
func (s *DualSystem) Build() (*Model, error) {
	if s.model != nil {
		return nil, errors.New(errors.ErrCodeInternal, "system already built")
	}

	m := NewModel("mcs_" + strconvDims(s.net))
	nMets, nRx := s.net.S.Dims()
	nTargets, _ := s.T.Dims()

	uCols := make([]int, nMets)
	for i := 0; i < nMets; i++ {
		uCols[i] = m.AddVar("u_"+s.net.MetaboliteID(i), NegInf(), Inf(), 0, VarContinuous)
	}

	s.mapping = make([]Dvar, nRx)
	for j := 0; j < nRx; j++ {
		vp := m.AddVar("vp_"+s.net.ReactionID(j), 0, s.cfg.fluxCap, 0, VarContinuous)
		vn := -1
		if s.net.IsReversible(j) {
			vn = m.AddVar("vn_"+s.net.ReactionID(j), 0, s.cfg.fluxCap, 0, VarContinuous)
		}
		s.mapping[j] = Dvar{Forward: vp, Backward: vn}
		s.dvars = append(s.dvars, s.mapping[j].Cols()...)
	}

	wCols := make([]int, nTargets)
	for k := 0; k < nTargets; k++ {
		wCols[k] = m.AddVar("w"+strconv.Itoa(k), 0, s.cfg.fluxCap, 0, VarContinuous)
	}
	s.cvar = m.AddVar("C", s.cfg.thresholdLow, s.cfg.fluxCap, 0, VarContinuous)

	// One dual row per reaction: Sᵀu + vp - vn + Tᵀw, equality for
	// reversible reactions, >= 0 for irreversible ones.
	for j := 0; j < nRx; j++ {
		coeffs := make([]float64, m.NumVars())
		for i := 0; i < nMets; i++ {
			if v := s.net.S.At(i, j); v != 0 {
				coeffs[uCols[i]] = v
			}
		}
		coeffs[s.mapping[j].Forward] = 1
		if s.mapping[j].Split() {
			coeffs[s.mapping[j].Backward] = -1
		}
		for k := 0; k < nTargets; k++ {
			if v := s.T.At(k, j); v != 0 {
				coeffs[wCols[k]] = v
			}
		}
		ub := 0.0
		if !s.net.IsReversible(j) {
			ub = Inf()
		}
		m.AddDenseRow("dual_"+s.net.ReactionID(j), 0, coeffs, ub)
	}

	// Infeasibility certificate: b·w must be strictly negative, pushed
	// past zero by the threshold variable.
	coeffs := make([]float64, m.NumVars())
	for k := 0; k < nTargets; k++ {
		coeffs[wCols[k]] = s.b[k]
	}
	coeffs[s.cvar] = 1
	m.AddDenseRow("target_bw", NegInf(), coeffs, 0)

	s.model = m
	return m, nil
}

// Model returns the built model, or nil before Build.
func (s *DualSystem) Model() *Model { return s.model }

// DecisionVars returns the vp/vn columns in reaction order.
func (s *DualSystem) DecisionVars() []int { return s.dvars }

// DvarMapping returns the reaction-to-column mapping.
func (s *DualSystem) DvarMapping() []Dvar { return s.mapping }

// ThresholdVar returns the column of the threshold variable C.
func (s *DualSystem) ThresholdVar() int { return s.cvar }

// Shape returns the stoichiometric matrix dimensions.
func (s *DualSystem) Shape() (int, int) { return s.net.S.Dims() }
