package linsys

import (
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/elemflux/elemflux/pkg/errors"
)

// Network is the stoichiometric input every system form starts from.
// It is supplied by an external model reader and treated as immutable:
// systems read it once while building and never mutate it.
type Network struct {
	// S is the stoichiometric matrix, metabolites × reactions.
	S *mat.Dense

	// Reversible lists the indices of reversible reactions. Reactions
	// not listed are irreversible (flux >= 0).
	Reversible []int

	// Reactions and Metabolites are optional identifier lists. When
	// empty, positional names (R0..Rn, M0..Mm) are generated.
	Reactions   []string
	Metabolites []string
}

// Validate checks internal consistency of the network description.
func (n *Network) Validate() error {
	if n.S == nil {
		return errors.New(errors.ErrCodeInvalidModel, "stoichiometric matrix is nil")
	}
	rows, cols := n.S.Dims()
	if rows == 0 || cols == 0 {
		return errors.New(errors.ErrCodeInvalidModel, "stoichiometric matrix is empty (%dx%d)", rows, cols)
	}
	for _, j := range n.Reversible {
		if j < 0 || j >= cols {
			return errors.New(errors.ErrCodeUnknownReaction, "reversible index %d out of range [0,%d)", j, cols)
		}
	}
	if len(n.Reactions) > 0 && len(n.Reactions) != cols {
		return errors.New(errors.ErrCodeInvalidModel, "have %d reaction ids for %d reactions", len(n.Reactions), cols)
	}
	if len(n.Metabolites) > 0 && len(n.Metabolites) != rows {
		return errors.New(errors.ErrCodeInvalidModel, "have %d metabolite ids for %d metabolites", len(n.Metabolites), rows)
	}
	return nil
}

// NumReactions returns the number of reactions (columns of S).
func (n *Network) NumReactions() int {
	_, cols := n.S.Dims()
	return cols
}

// NumMetabolites returns the number of metabolites (rows of S).
func (n *Network) NumMetabolites() int {
	rows, _ := n.S.Dims()
	return rows
}

// IsReversible reports whether reaction j is reversible.
func (n *Network) IsReversible(j int) bool {
	for _, r := range n.Reversible {
		if r == j {
			return true
		}
	}
	return false
}

// ReactionID returns the identifier of reaction j, generating a
// positional name when none was supplied.
func (n *Network) ReactionID(j int) string {
	if j < len(n.Reactions) {
		return n.Reactions[j]
	}
	return "R" + strconv.Itoa(j)
}

// MetaboliteID returns the identifier of metabolite i.
func (n *Network) MetaboliteID(i int) string {
	if i < len(n.Metabolites) {
		return n.Metabolites[i]
	}
	return "M" + strconv.Itoa(i)
}

// Dvar holds the decision-variable columns of one reaction. Reversible
// reactions carry a (forward, backward) pair; irreversible reactions a
// single forward column.
type Dvar struct {
	Forward  int
	Backward int // -1 when the reaction is irreversible
}

// Split reports whether the reaction maps to a forward/backward pair.
func (d Dvar) Split() bool { return d.Backward >= 0 }

// Cols returns the model columns of this dvar group.
func (d Dvar) Cols() []int {
	if d.Split() {
		return []int{d.Forward, d.Backward}
	}
	return []int{d.Forward}
}

// System is a stoichiometric linear system encoded into a Model, ready
// for K-shortest enumeration. Build is called once; afterwards the
// enumerator mutates the returned model (indicators, cuts) in place.
type System interface {
	// Build encodes the system into its model. Calling Build more than
	// once is an error: the enumerator owns the model after the first
	// call.
	Build() (*Model, error)

	// Model returns the built model, or nil before Build.
	Model() *Model

	// DecisionVars returns all decision-variable columns in reaction
	// order (forward before backward for split reactions).
	DecisionVars() []int

	// DvarMapping returns the per-reaction decision variable mapping,
	// indexed by reaction.
	DvarMapping() []Dvar

	// ThresholdVar returns the column of the activation-threshold
	// variable C (flux active ⇒ flux ≥ C).
	ThresholdVar() int

	// Shape returns the dimensions of the underlying stoichiometric
	// matrix (metabolites, reactions).
	Shape() (int, int)
}

// PatternSystem is implemented by systems that enumerate flux patterns
// over a reaction subset rather than full flux modes. Pattern problems
// skip exclusivity constraints and extend integer cuts with auxiliary
// pattern variables.
type PatternSystem interface {
	System

	// PatternReactions returns the reaction subset the patterns range
	// over.
	PatternReactions() []int
}

// systemConfig carries tunables shared by the system builders.
type systemConfig struct {
	fluxCap      float64
	thresholdLow float64
}

func defaultSystemConfig() systemConfig {
	return systemConfig{
		fluxCap:      1e4,
		thresholdLow: 1,
	}
}

// SystemOption configures a system builder.
type SystemOption func(*systemConfig)

// WithFluxCap sets the upper bound placed on every flux-carrying
// variable. Enumeration is scale-free, so the cap only needs to exceed
// the activation threshold comfortably.
func WithFluxCap(cap float64) SystemOption {
	return func(c *systemConfig) { c.fluxCap = cap }
}

// WithThreshold sets the lower bound of the activation-threshold
// variable C. Active fluxes are forced to at least this value.
func WithThreshold(min float64) SystemOption {
	return func(c *systemConfig) { c.thresholdLow = min }
}
