package linsys

import (
	"github.com/elemflux/elemflux/pkg/errors"
)

// IrreversiblePatternSystem enumerates elementary flux patterns: the
// projections of flux modes onto a reaction subset. It shares the
// irreversible primal encoding but restricts the decision variables to
// the subset, so indicators (and therefore solutions) only track the
// subnetwork. Pattern problems change the enumerator's behavior in
// three ways: no exclusivity constraints are added, integer cuts carry
// auxiliary pattern binaries, and every enumerated pattern must touch
// the subnetwork at least once.
type IrreversiblePatternSystem struct {
	inner  *IrreversibleSystem
	subset []int

	dvars   []int
	mapping []Dvar
}

// NewIrreversiblePatternSystem builds a pattern system over the given
// reaction subset. Subset indices refer to columns of the network's
// stoichiometric matrix.
func NewIrreversiblePatternSystem(net *Network, subset []int, opts ...SystemOption) (*IrreversiblePatternSystem, error) {
	inner, err := NewIrreversibleSystem(net, opts...)
	if err != nil {
		return nil, err
	}
	if len(subset) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "pattern subset is empty")
	}
	seen := make(map[int]bool, len(subset))
	for _, j := range subset {
		if j < 0 || j >= net.NumReactions() {
			return nil, errors.New(errors.ErrCodeUnknownReaction, "pattern reaction %d out of range [0,%d)", j, net.NumReactions())
		}
		if seen[j] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "pattern reaction %d listed twice", j)
		}
		seen[j] = true
	}
	return &IrreversiblePatternSystem{inner: inner, subset: subset}, nil
}

// Build encodes the full steady-state system, then restricts the dvar
// view to the pattern subset.
func (s *IrreversiblePatternSystem) Build() (*Model, error) {
	m, err := s.inner.Build()
	if err != nil {
		return nil, err
	}
	full := s.inner.DvarMapping()
	s.mapping = make([]Dvar, len(s.subset))
	for i, j := range s.subset {
		s.mapping[i] = full[j]
		s.dvars = append(s.dvars, full[j].Cols()...)
	}
	return m, nil
}

// Model returns the built model, or nil before Build.
func (s *IrreversiblePatternSystem) Model() *Model { return s.inner.Model() }

// DecisionVars returns the flux columns of the pattern subset.
func (s *IrreversiblePatternSystem) DecisionVars() []int { return s.dvars }

// DvarMapping returns the subset's decision variable mapping, indexed
// by position in PatternReactions.
func (s *IrreversiblePatternSystem) DvarMapping() []Dvar { return s.mapping }

// ThresholdVar returns the column of the threshold variable C.
func (s *IrreversiblePatternSystem) ThresholdVar() int { return s.inner.ThresholdVar() }

// Shape returns the stoichiometric matrix dimensions.
func (s *IrreversiblePatternSystem) Shape() (int, int) { return s.inner.Shape() }

// PatternReactions returns the reaction subset the patterns range over.
func (s *IrreversiblePatternSystem) PatternReactions() []int { return s.subset }
