package kshortest

import (
	"github.com/elemflux/elemflux/pkg/errors"
)

// Method selects the enumeration strategy.
type Method string

const (
	// MethodIterate yields one solution per step, re-optimizing after
	// each integer cut. Solutions arrive in nondecreasing size order.
	MethodIterate Method = "ITERATE"

	// MethodPopulate yields all solutions of each size, sweeping sizes
	// from 1 up to the configured maximum.
	MethodPopulate Method = "POPULATE"
)

// Default caps applied when the corresponding property is unset.
const (
	// DefaultMaxSolutions bounds an iterate run with no explicit cap.
	DefaultMaxSolutions = 1

	// DefaultMaxSize bounds a populate run with no explicit cap.
	DefaultMaxSize = 1
)

// Properties configures an enumeration run. Method is mandatory;
// MaxSize and MaxSolutions are optional and default to 1 with a logged
// warning, mirroring the caps a caller almost certainly wants to raise.
//
// The struct supports TOML deserialization for CLI configuration files.
type Properties struct {
	// Method is the enumeration strategy. Mandatory.
	Method Method `toml:"method"`

	// MaxSize caps the size sweep of the populate strategy.
	MaxSize int `toml:"max_size,omitempty"`

	// MaxSolutions caps the number of solutions of an iterate run.
	MaxSolutions int `toml:"max_solutions,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `toml:"-"`
}

// ValidateAndSetDefaults checks the mandatory method property,
// validates the optional caps, and fills defaults. It is idempotent.
func (p *Properties) ValidateAndSetDefaults() error {
	if p.validated {
		return nil
	}
	switch p.Method {
	case MethodIterate, MethodPopulate:
	case "":
		return errors.New(errors.ErrCodeMissingProperty, "enumeration method is required")
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid method: %q (must be one of: ITERATE, POPULATE)", p.Method)
	}
	if p.MaxSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_size must be positive, got %d", p.MaxSize)
	}
	if p.MaxSolutions < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_solutions must be positive, got %d", p.MaxSolutions)
	}
	if p.MaxSize == 0 {
		p.MaxSize = DefaultMaxSize
	}
	if p.MaxSolutions == 0 {
		p.MaxSolutions = DefaultMaxSolutions
	}
	p.validated = true
	return nil
}
