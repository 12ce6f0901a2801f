// Package interp turns a grid of (time, discount factor) points into a
// continuous discount function.
//
// An Interpolator is refit, not rebuilt, whenever its grid changes: Fit
// recomputes every coefficient from the complete arrays it is given. DF must
// only be called after a successful Fit on the current grid. DF never mutates
// the fitted state, so a fitted Interpolator is safe for concurrent readers.
//
// Within the grid the chosen scheme is evaluated. Beyond the last grid time
// every scheme extrapolates at the flat continuously-compounded zero rate of
// the last point; before the first grid time it uses the zero rate of the
// first point with t > 0.
package interp

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	gonum "gonum.org/v1/gonum/interp"
)

// ErrInvalidGrid is returned by Fit for grids no scheme can interpolate.
var ErrInvalidGrid = errors.New("interp: invalid grid")

// Type selects the functional form fitted to the grid.
type Type int

const (
	// FlatFwdRates is log-linear in the discount factor; the instantaneous
	// forward rate is piecewise constant.
	FlatFwdRates Type = iota + 1
	// LinearZeroRates interpolates continuously-compounded zero rates linearly.
	LinearZeroRates
	// FinCubicZeroRates fits a cubic spline with zero end slopes to zero rates.
	FinCubicZeroRates
	// NatCubicLogDiscount fits a natural cubic spline to -ln(df).
	NatCubicLogDiscount
	// NatCubicZeroRates fits a natural cubic spline to zero rates.
	NatCubicZeroRates
	// PchipLogDiscount fits a monotone (Fritsch-Butland) cubic to -ln(df).
	PchipLogDiscount
	// PchipZeroRates fits a monotone (Fritsch-Butland) cubic to zero rates.
	PchipZeroRates
)

var typeNames = map[Type]string{
	FlatFwdRates:        "FLAT_FWD_RATES",
	LinearZeroRates:     "LINEAR_ZERO_RATES",
	FinCubicZeroRates:   "FINCUBIC_ZERO_RATES",
	NatCubicLogDiscount: "NATCUBIC_LOG_DISCOUNT",
	NatCubicZeroRates:   "NATCUBIC_ZERO_RATES",
	PchipLogDiscount:    "PCHIP_LOG_DISCOUNT",
	PchipZeroRates:      "PCHIP_ZERO_RATES",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Types lists every supported scheme.
func Types() []Type {
	return []Type{FlatFwdRates, LinearZeroRates, FinCubicZeroRates, NatCubicLogDiscount, NatCubicZeroRates, PchipLogDiscount, PchipZeroRates}
}

// ParseType maps a scheme name such as "FLAT_FWD_RATES" to its Type. An empty
// name selects FlatFwdRates.
func ParseType(s string) (Type, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	if norm == "" {
		return FlatFwdRates, nil
	}
	for t, name := range typeNames {
		if name == norm {
			return t, nil
		}
	}
	return 0, fmt.Errorf("interp: unknown interpolation type %q", s)
}

func (t Type) onZeroRates() bool {
	switch t {
	case LinearZeroRates, FinCubicZeroRates, NatCubicZeroRates, PchipZeroRates:
		return true
	default:
		return false
	}
}

func (t Type) cubic() bool {
	switch t {
	case FinCubicZeroRates, NatCubicLogDiscount, NatCubicZeroRates, PchipLogDiscount, PchipZeroRates:
		return true
	default:
		return false
	}
}

func (t Type) newCubic() gonum.FittablePredictor {
	switch t {
	case FinCubicZeroRates:
		return &gonum.ClampedCubic{}
	case NatCubicLogDiscount, NatCubicZeroRates:
		return &gonum.NaturalCubic{}
	default:
		return &gonum.FritschButland{}
	}
}

// Interpolator maps a fitted (times, dfs) grid to discount factors.
type Interpolator struct {
	kind Type

	times []float64
	dfs   []float64

	ys     []float64
	linear gonum.PiecewiseLinear
	cubic  gonum.FittablePredictor
	pred   gonum.Predictor

	firstZero float64
	lastZero  float64
	fitted    bool
}

// New returns an unfitted Interpolator of the given kind.
func New(kind Type) (*Interpolator, error) {
	if _, ok := typeNames[kind]; !ok {
		return nil, fmt.Errorf("interp: unknown interpolation type %d", int(kind))
	}
	ip := &Interpolator{kind: kind}
	if kind.cubic() {
		ip.cubic = kind.newCubic()
	}
	return ip, nil
}

// Type returns the interpolation scheme.
func (ip *Interpolator) Type() Type {
	return ip.kind
}

// Fit recomputes the interpolation from the complete current grid. The
// Interpolator keeps references to times and dfs; callers that mutate them
// must call Fit again before the next DF.
func (ip *Interpolator) Fit(times, dfs []float64) error {
	ip.fitted = false
	if err := validateGrid(times, dfs); err != nil {
		return err
	}
	ip.times = times
	ip.dfs = dfs

	n := len(times)
	ip.ys = ip.ys[:0]
	if ip.kind.onZeroRates() {
		for i := range times {
			ip.ys = append(ip.ys, zeroRate(times[i], dfs[i]))
		}
		if n > 1 && times[0] == 0 {
			ip.ys[0] = ip.ys[1]
		}
	} else {
		for _, df := range dfs {
			ip.ys = append(ip.ys, -math.Log(df))
		}
	}

	ip.firstZero = 0
	for i := range times {
		if times[i] > 0 {
			ip.firstZero = zeroRate(times[i], dfs[i])
			break
		}
	}
	ip.lastZero = zeroRate(times[n-1], dfs[n-1])

	switch {
	case n == 1:
		ip.pred = nil
	case n == 2 || !ip.kind.cubic():
		if err := ip.linear.Fit(times, ip.ys); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidGrid, err)
		}
		ip.pred = &ip.linear
	default:
		if err := ip.cubic.Fit(times, ip.ys); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidGrid, err)
		}
		ip.pred = ip.cubic
	}

	ip.fitted = true
	return nil
}

// Fitted reports whether the last Fit succeeded.
func (ip *Interpolator) Fitted() bool {
	return ip.fitted
}

// DF evaluates the fitted discount function at curve time t.
// It panics if called before a successful Fit.
func (ip *Interpolator) DF(t float64) float64 {
	if !ip.fitted {
		panic("interp: DF called on an unfitted interpolator")
	}
	n := len(ip.times)
	first, last := ip.times[0], ip.times[n-1]

	switch {
	case t == 0 && first == 0:
		return ip.dfs[0]
	case t < first:
		return math.Exp(-ip.firstZero * t)
	case t > last:
		return math.Exp(-ip.lastZero * t)
	case ip.pred == nil:
		return ip.dfs[0]
	}

	y := ip.pred.Predict(t)
	if ip.kind.onZeroRates() {
		return math.Exp(-y * t)
	}
	return math.Exp(-y)
}

func zeroRate(t, df float64) float64 {
	if t <= 0 {
		return 0
	}
	return -math.Log(df) / t
}

func validateGrid(times, dfs []float64) error {
	if len(times) == 0 {
		return fmt.Errorf("%w: empty grid", ErrInvalidGrid)
	}
	if len(times) != len(dfs) {
		return fmt.Errorf("%w: %d times but %d discount factors", ErrInvalidGrid, len(times), len(dfs))
	}
	if floats.HasNaN(times) || floats.HasNaN(dfs) {
		return fmt.Errorf("%w: NaN on grid", ErrInvalidGrid)
	}
	if times[0] < 0 {
		return fmt.Errorf("%w: negative time %g", ErrInvalidGrid, times[0])
	}
	for i := range times {
		if dfs[i] <= 0 || math.IsInf(dfs[i], 0) {
			return fmt.Errorf("%w: discount factor %g at t=%g", ErrInvalidGrid, dfs[i], times[i])
		}
		if i > 0 && times[i] <= times[i-1] {
			return fmt.Errorf("%w: times not strictly increasing at index %d (%g after %g)", ErrInvalidGrid, i, times[i], times[i-1])
		}
	}
	return nil
}
