//go:build (linux || darwin) && (amd64 || arm64)

package cli

import (
	"github.com/elemflux/elemflux/pkg/solver"
)

// newBackend returns the HiGHS backend on supported platforms.
func newBackend() (solver.Backend, error) {
	return solver.NewHiGHS(), nil
}
