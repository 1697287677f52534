//go:build !((linux || darwin) && (amd64 || arm64))

package cli

import (
	"runtime"

	"github.com/elemflux/elemflux/pkg/errors"
	"github.com/elemflux/elemflux/pkg/solver"
)

// newBackend fails on platforms the HiGHS binding does not cover.
func newBackend() (solver.Backend, error) {
	return nil, errors.New(errors.ErrCodeUnsupported,
		"no MILP solver available on %s/%s", runtime.GOOS, runtime.GOARCH)
}
