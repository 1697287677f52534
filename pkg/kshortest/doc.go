// Package kshortest enumerates the K shortest solutions of an
// indicator-encoded stoichiometric system: elementary flux modes,
// minimal cut sets, or flux patterns, depending on the system supplied.
//
// The entry point is Algorithm, configured with Properties:
//
//	props := kshortest.Properties{
//	    Method:       kshortest.MethodPopulate,
//	    MaxSize:      4,
//	}
//	alg, err := kshortest.NewAlgorithm(props, backend)
//	sols, err := alg.Enumerate(ctx, sys)
//
// For finer control, Enumerator exposes the underlying machinery:
// size constraints, integer cuts, exclusion and forcing of named
// supports, and the two iteration strategies (Iterate, Populate).
//
// Enumeration works by minimizing the number of active indicator
// variables and cutting off each found support before re-optimizing.
// The iterate strategy therefore yields solutions in nondecreasing
// size order; the populate strategy pins the size with an equality
// constraint and drains every solution of one size before moving on.
package kshortest
