package config

import "fmt"

// Config holds solver and curve construction parameters.
type Config struct {
	// ConvergenceTolerance is the root-search step tolerance on a discount factor.
	ConvergenceTolerance float64 `toml:"convergence_tolerance"`

	// MaxIterations is the Newton-Raphson iteration budget per grid point.
	// Exhausting it is a construction error.
	MaxIterations int `toml:"max_iterations"`

	// DerivativeBump is the relative bump used to difference the objective.
	DerivativeBump float64 `toml:"derivative_bump"`

	// DerivativeThreshold is the minimum derivative magnitude.
	// Below this, Newton iteration stops to avoid division by near-zero.
	DerivativeThreshold float64 `toml:"derivative_threshold"`

	// MinDiscountFactor is the floor for trial discount factors.
	MinDiscountFactor float64 `toml:"min_discount_factor"`

	// DepositRefitTolerance bounds |value/notional - 1| for deposits in the refit check.
	DepositRefitTolerance float64 `toml:"deposit_refit_tolerance"`

	// RefitTolerance bounds |value/notional| for FRAs and swaps in the refit check.
	RefitTolerance float64 `toml:"refit_tolerance"`

	// DaysInYear converts calendar days since the valuation date to curve time.
	DaysInYear float64 `toml:"days_in_year"`
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	ConvergenceTolerance:  1e-10,
	MaxIterations:         50,
	DerivativeBump:        1e-8,
	DerivativeThreshold:   1e-15,
	MinDiscountFactor:     1e-9,
	DepositRefitTolerance: 1e-10,
	RefitTolerance:        1e-5,
	DaysInYear:            365.242,
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}

// Validate rejects budgets and tolerances the solver cannot work with.
func (c Config) Validate() error {
	switch {
	case c.ConvergenceTolerance <= 0:
		return fmt.Errorf("config: convergence_tolerance must be positive, got %g", c.ConvergenceTolerance)
	case c.MaxIterations <= 0:
		return fmt.Errorf("config: max_iterations must be positive, got %d", c.MaxIterations)
	case c.DerivativeBump <= 0:
		return fmt.Errorf("config: derivative_bump must be positive, got %g", c.DerivativeBump)
	case c.DerivativeThreshold < 0:
		return fmt.Errorf("config: derivative_threshold must not be negative, got %g", c.DerivativeThreshold)
	case c.MinDiscountFactor <= 0:
		return fmt.Errorf("config: min_discount_factor must be positive, got %g", c.MinDiscountFactor)
	case c.DepositRefitTolerance <= 0 || c.RefitTolerance <= 0:
		return fmt.Errorf("config: refit tolerances must be positive")
	case c.DaysInYear <= 0:
		return fmt.Errorf("config: days_in_year must be positive, got %g", c.DaysInYear)
	}
	return nil
}
