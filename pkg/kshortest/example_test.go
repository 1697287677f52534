package kshortest

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/elemflux/elemflux/pkg/linsys"
	"github.com/elemflux/elemflux/pkg/solver"
)

// ExampleAlgorithm_Enumerate enumerates the flux modes of a two-step
// chain using a canned backend, printing each support as it is found.
func ExampleAlgorithm_Enumerate() {
	net := &linsys.Network{
		S:           mat.NewDense(1, 2, []float64{1, -1}),
		Reactions:   []string{"uptake", "secretion"},
		Metabolites: []string{"A"},
	}
	sys, err := linsys.NewIrreversibleSystem(net)
	if err != nil {
		fmt.Println(err)
		return
	}

	backend := &fakeBackend{script: []func(m *linsys.Model) (*solver.Result, error){
		optimal("uptake", "secretion"),
	}}
	alg, err := NewAlgorithm(Properties{Method: MethodIterate, MaxSolutions: 10}, backend)
	if err != nil {
		fmt.Println(err)
		return
	}

	sols, err := alg.Enumerate(context.Background(), sys)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, s := range sols {
		for _, rx := range s.ActiveReactions() {
			fmt.Println(net.ReactionID(rx))
		}
	}
	// Output:
	// uptake
	// secretion
}
