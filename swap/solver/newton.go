// Package solver holds the one-dimensional root search used by the curve bootstrap.
package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/meenmo/curvelib/swap/config"
)

// ErrNotConverged is returned when the root search exhausts its budget or
// cannot make progress.
var ErrNotConverged = errors.New("root search did not converge")

// Objective is a residual function of a single unknown.
type Objective func(x float64) (float64, error)

// Result describes a converged root.
type Result struct {
	Root       float64
	Residual   float64
	Iterations int
}

// Newton solves f(x) = 0 from the initial guess x0 with Newton-Raphson. The
// derivative is a forward difference with relative bump c.DerivativeBump.
// Convergence is declared when the Newton step is below c.ConvergenceTolerance
// or the residual is exactly zero. The iterate is floored at c.MinDiscountFactor.
func Newton(f Objective, x0 float64, c config.Config) (Result, error) {
	x := x0
	for iter := 1; iter <= c.MaxIterations; iter++ {
		fx, err := f(x)
		if err != nil {
			return Result{}, err
		}
		if math.IsNaN(fx) || math.IsInf(fx, 0) {
			return Result{Root: x, Residual: fx, Iterations: iter}, fmt.Errorf("%w: non-finite residual at x=%.12g", ErrNotConverged, x)
		}
		if fx == 0 {
			return Result{Root: x, Residual: 0, Iterations: iter}, nil
		}

		h := c.DerivativeBump * math.Max(math.Abs(x), 1.0)
		fh, err := f(x + h)
		if err != nil {
			return Result{}, err
		}
		derivative := (fh - fx) / h
		if math.IsNaN(derivative) || math.Abs(derivative) < c.DerivativeThreshold {
			return Result{Root: x, Residual: fx, Iterations: iter}, fmt.Errorf("%w: flat objective at x=%.12g", ErrNotConverged, x)
		}

		step := fx / derivative
		next := x - step
		if next < c.MinDiscountFactor {
			if x == c.MinDiscountFactor {
				return Result{Root: x, Residual: fx, Iterations: iter}, fmt.Errorf("%w: pinned at floor %.3g", ErrNotConverged, x)
			}
			next = c.MinDiscountFactor
		}
		if math.Abs(next-x) < c.ConvergenceTolerance {
			residual, err := f(next)
			if err != nil {
				return Result{}, err
			}
			return Result{Root: next, Residual: residual, Iterations: iter}, nil
		}
		x = next
	}

	fx, err := f(x)
	if err != nil {
		return Result{}, fmt.Errorf("%w after %d iterations: %w", ErrNotConverged, c.MaxIterations, err)
	}
	return Result{Root: x, Residual: fx, Iterations: c.MaxIterations},
		fmt.Errorf("%w after %d iterations (x=%.12g, residual=%.6g)", ErrNotConverged, c.MaxIterations, x, fx)
}
