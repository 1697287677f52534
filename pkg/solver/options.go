package solver

import (
	"time"

	"github.com/elemflux/elemflux/pkg/errors"
)

// Options is the explicit tuning surface for solves. The zero value is
// not usable; start from DefaultOptions.
type Options struct {
	// Eps is the activation threshold used when reading indicator
	// values out of a solution: an indicator counts as set when its
	// value exceeds Eps.
	Eps float64

	// BigM is the constant used when lowering conditional rows for
	// backends without native indicator support. It must dominate every
	// variable bound appearing in a lowered row.
	BigM float64

	// RequireIndicators makes Solve fail with UNSUPPORTED instead of
	// lowering conditional rows on a backend without native support.
	RequireIndicators bool

	// TimeLimit bounds a single solve. Zero means no limit.
	TimeLimit time.Duration

	// Threads caps solver threads. Zero leaves the backend default.
	Threads int

	// MIPGapAbs and MIPGapRel set the absolute and relative optimality
	// gaps. Enumeration needs exact optima, so both default to 0.
	MIPGapAbs float64
	MIPGapRel float64

	// PoolCap bounds how many solutions a populate query may return for
	// one size. The default is effectively unbounded.
	PoolCap int

	// Output enables solver log output.
	Output bool
}

// DefaultOptions returns the tuning used throughout enumeration unless
// the caller overrides it.
func DefaultOptions() Options {
	return Options{
		Eps:     1e-6,
		BigM:    1e5,
		PoolCap: 1 << 30,
	}
}

// Validate checks that the options are internally consistent.
func (o Options) Validate() error {
	if o.Eps <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "eps must be positive, got %g", o.Eps)
	}
	if o.BigM <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "big-M must be positive, got %g", o.BigM)
	}
	if o.PoolCap <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "pool cap must be positive, got %d", o.PoolCap)
	}
	if o.MIPGapAbs < 0 || o.MIPGapRel < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "MIP gaps must be non-negative")
	}
	return nil
}
