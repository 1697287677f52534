// Package linsys builds solver-ready linear systems from stoichiometric
// networks.
//
// The package has two layers:
//
//   - Model: a plain value describing a mixed-integer linear problem
//     (variable bounds and types, sparse constraint rows, objective,
//     conditional rows). It is solver-agnostic; pkg/solver backends
//     translate it into whatever the underlying solver expects.
//
//   - Systems: wrappers that encode a metabolic network into a Model in
//     one of the forms used by the K-shortest enumeration machinery.
//     IrreversibleSystem is the primal form for elementary flux mode
//     enumeration (reversible reactions split into forward/backward
//     columns). DualSystem is the intervention form for minimal cut set
//     enumeration (built from a target matrix, see pkg/intervention).
//     PatternSystem restricts enumeration to flux patterns over a
//     reaction subset.
//
// Every system exposes the decision-variable columns ("dvars") and the
// reaction-to-dvar mapping the enumerator needs: one column for an
// irreversible reaction, a (forward, backward) pair for a reversible
// one. The mapping is fixed once the system is built.
//
// Models can be exported as CPLEX LP text via WriteLP for external
// inspection.
package linsys
