package cli

import (
	"github.com/BurntSushi/toml"
	"gonum.org/v1/gonum/mat"

	"github.com/elemflux/elemflux/pkg/errors"
	"github.com/elemflux/elemflux/pkg/intervention"
	"github.com/elemflux/elemflux/pkg/linsys"
)

// networkFile is the TOML description of a metabolic network:
//
//	reactions   = ["R1", "R2", "R3", "R4"]
//	metabolites = ["A", "B", "C"]
//	reversible  = ["R3"]
//	stoichiometry = [
//	    [ 1, -1,  0,  0],
//	    [ 0,  0, -1,  0],
//	    [ 0,  0,  1, -1],
//	]
//
// Rows follow the metabolite order, columns the reaction order.
type networkFile struct {
	Reactions     []string    `toml:"reactions"`
	Metabolites   []string    `toml:"metabolites"`
	Reversible    []string    `toml:"reversible"`
	Stoichiometry [][]float64 `toml:"stoichiometry"`
}

// loadNetwork reads and validates a network description.
func loadNetwork(path string) (*linsys.Network, error) {
	var nf networkFile
	if _, err := toml.DecodeFile(path, &nf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot read network file %s", path)
	}

	rows := len(nf.Stoichiometry)
	if rows == 0 {
		return nil, errors.New(errors.ErrCodeInvalidModel, "%s: stoichiometry is empty", path)
	}
	cols := len(nf.Stoichiometry[0])
	flat := make([]float64, 0, rows*cols)
	for i, row := range nf.Stoichiometry {
		if len(row) != cols {
			return nil, errors.New(errors.ErrCodeInvalidModel,
				"%s: stoichiometry row %d has %d entries, want %d", path, i, len(row), cols)
		}
		flat = append(flat, row...)
	}

	net := &linsys.Network{
		S:           mat.NewDense(rows, cols, flat),
		Reactions:   nf.Reactions,
		Metabolites: nf.Metabolites,
	}
	for _, name := range nf.Reversible {
		j, err := reactionIndex(net, name)
		if err != nil {
			return nil, err
		}
		net.Reversible = append(net.Reversible, j)
	}
	if err := net.Validate(); err != nil {
		return nil, err
	}
	return net, nil
}

// reactionIndex resolves a reaction name to its column index.
func reactionIndex(net *linsys.Network, name string) (int, error) {
	for j := 0; j < net.NumReactions(); j++ {
		if net.ReactionID(j) == name {
			return j, nil
		}
	}
	return 0, errors.New(errors.ErrCodeUnknownReaction, "unknown reaction %q", name)
}

// constraintsFile is the TOML description of the target flux region for
// cut set enumeration:
//
//	[[flux_bound]]
//	reaction = "R2"
//	min = 1.0
//
//	[[yield_bound]]
//	numerator = "R1"
//	denominator = "R2"
//	max = 0.5
//	deviation = 0.0
//
// Absent min/max keys stay unbounded on that side.
type constraintsFile struct {
	FluxBounds  []fluxBoundEntry  `toml:"flux_bound"`
	YieldBounds []yieldBoundEntry `toml:"yield_bound"`
}

type fluxBoundEntry struct {
	Reaction string   `toml:"reaction"`
	Min      *float64 `toml:"min"`
	Max      *float64 `toml:"max"`
}

type yieldBoundEntry struct {
	Numerator   string   `toml:"numerator"`
	Denominator string   `toml:"denominator"`
	Min         *float64 `toml:"min"`
	Max         *float64 `toml:"max"`
	Deviation   float64  `toml:"deviation"`
}

// loadConstraints reads the constraint file and materializes the target
// matrix for the given network.
func loadConstraints(path string, net *linsys.Network) (*mat.Dense, []float64, error) {
	var cf constraintsFile
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot read constraint file %s", path)
	}

	var constraints []intervention.Constraint
	for _, fb := range cf.FluxBounds {
		j, err := reactionIndex(net, fb.Reaction)
		if err != nil {
			return nil, nil, err
		}
		c, err := intervention.NewFluxBound(j, fb.Min, fb.Max)
		if err != nil {
			return nil, nil, err
		}
		constraints = append(constraints, c)
	}
	for _, yb := range cf.YieldBounds {
		num, err := reactionIndex(net, yb.Numerator)
		if err != nil {
			return nil, nil, err
		}
		den, err := reactionIndex(net, yb.Denominator)
		if err != nil {
			return nil, nil, err
		}
		c, err := intervention.NewYieldBound(num, den, yb.Min, yb.Max, yb.Deviation)
		if err != nil {
			return nil, nil, err
		}
		constraints = append(constraints, c)
	}

	prob, err := intervention.NewProblem(net.NumReactions())
	if err != nil {
		return nil, nil, err
	}
	return prob.GenerateTargetMatrix(constraints)
}
