package linsys

import (
	"fmt"

	"github.com/elemflux/elemflux/pkg/errors"
)

// IrreversibleSystem is the primal linear system for elementary flux
// mode enumeration. Reversible reactions are split into non-negative
// forward/backward columns, so every flux component satisfies v >= 0
// and the steady-state rows read S_ext · v = 0.
type IrreversibleSystem struct {
	net   *Network
	cfg   systemConfig
	model *Model

	dvars   []int
	mapping []Dvar
	cvar    int
}

// NewIrreversibleSystem wraps a network into the irreversible primal
// form. The network is validated but not yet encoded; call Build.
func NewIrreversibleSystem(net *Network, opts ...SystemOption) (*IrreversibleSystem, error) {
	if err := net.Validate(); err != nil {
		return nil, err
	}
	cfg := defaultSystemConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &IrreversibleSystem{net: net, cfg: cfg}, nil
}

// Build encodes the steady-state system into a fresh model: one or two
// flux columns per reaction, the threshold variable C, and one equality
// row per metabolite.
func (s *IrreversibleSystem) Build() (*Model, error) {
	if s.model != nil {
		return nil, errors.New(errors.ErrCodeInternal, "system already built")
	}

	m := NewModel("efm_" + strconvDims(s.net))
	nMets, nRx := s.net.S.Dims()

	s.mapping = make([]Dvar, nRx)
	for j := 0; j < nRx; j++ {
		fwd := m.AddVar(s.net.ReactionID(j), 0, s.cfg.fluxCap, 0, VarContinuous)
		bwd := -1
		if s.net.IsReversible(j) {
			bwd = m.AddVar(s.net.ReactionID(j)+"_rev", 0, s.cfg.fluxCap, 0, VarContinuous)
		}
		s.mapping[j] = Dvar{Forward: fwd, Backward: bwd}
		s.dvars = append(s.dvars, s.mapping[j].Cols()...)
	}
	s.cvar = m.AddVar("C", s.cfg.thresholdLow, s.cfg.fluxCap, 0, VarContinuous)

	// Steady state: for each metabolite, the net flux through the split
	// columns is zero. Backward columns carry the negated coefficient.
	for i := 0; i < nMets; i++ {
		coeffs := make([]float64, m.NumVars())
		for j := 0; j < nRx; j++ {
			v := s.net.S.At(i, j)
			if v == 0 {
				continue
			}
			coeffs[s.mapping[j].Forward] = v
			if s.mapping[j].Split() {
				coeffs[s.mapping[j].Backward] = -v
			}
		}
		m.AddDenseRow("ss_"+s.net.MetaboliteID(i), 0, coeffs, 0)
	}

	s.model = m
	return m, nil
}

// Model returns the built model, or nil before Build.
func (s *IrreversibleSystem) Model() *Model { return s.model }

// DecisionVars returns all flux columns in reaction order.
func (s *IrreversibleSystem) DecisionVars() []int { return s.dvars }

// DvarMapping returns the reaction-to-column mapping.
func (s *IrreversibleSystem) DvarMapping() []Dvar { return s.mapping }

// ThresholdVar returns the column of the threshold variable C.
func (s *IrreversibleSystem) ThresholdVar() int { return s.cvar }

// Shape returns the stoichiometric matrix dimensions.
func (s *IrreversibleSystem) Shape() (int, int) { return s.net.S.Dims() }

// Network returns the wrapped network.
func (s *IrreversibleSystem) Network() *Network { return s.net }

func strconvDims(n *Network) string {
	rows, cols := n.S.Dims()
	return fmt.Sprintf("%dx%d", rows, cols)
}
