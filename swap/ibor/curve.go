// Package ibor bootstraps Ibor discount curves from deposits, FRAs and swaps.
//
// Instruments are validated, then consumed in time order: each one adds a
// single grid point whose discount factor makes it reprice. Deposits and
// straddling FRAs have closed forms; other FRAs and all swaps are solved for
// with Newton-Raphson on the trailing grid point, refitting the interpolator
// on every trial. The finished curve is frozen and safe for concurrent reads.
package ibor

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/meenmo/curvelib/swap"
	"github.com/meenmo/curvelib/swap/config"
	"github.com/meenmo/curvelib/swap/curve"
	"github.com/meenmo/curvelib/swap/curve/interp"
	"github.com/meenmo/curvelib/utils"
)

// Params defines a curve to bootstrap.
type Params struct {
	ValuationDate time.Time

	Deposits []*swap.Deposit
	FRAs     []*swap.FRA
	Swaps    []*swap.Swap

	// Interp defaults to interp.FlatFwdRates.
	Interp interp.Type
	// CheckRefit revalues every instrument on the finished curve and fails
	// if any is outside tolerance.
	CheckRefit bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Config defaults to config.GetConfig().
	Config *config.Config
}

func (p Params) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p Params) settings() config.Config {
	if p.Config != nil {
		return *p.Config
	}
	return config.GetConfig()
}

func (p Params) kind() interp.Type {
	if p.Interp == 0 {
		return interp.FlatFwdRates
	}
	return p.Interp
}

// Residual is the repricing error of one calibration instrument: value over
// notional minus one for deposits, value over notional for FRAs and swaps.
type Residual struct {
	Kind      swap.Kind
	Start     time.Time
	Maturity  time.Time
	Value     float64
	Tolerance float64
}

// Repriced reports whether the residual is within tolerance.
func (r Residual) Repriced() bool {
	return math.Abs(r.Value) <= r.Tolerance
}

// MaxAbsResidual is the largest absolute residual in rs.
func MaxAbsResidual(rs []Residual) float64 {
	if len(rs) == 0 {
		return 0
	}
	abs := make([]float64, len(rs))
	for i, r := range rs {
		abs[i] = math.Abs(r.Value)
	}
	return floats.Max(abs)
}

type calibration struct {
	used     Instruments
	index    *curve.Curve
	discount curve.Discounter
	cfg      config.Config
}

// Instruments returns the instruments the curve was built from, including
// any bridging deposit.
func (c *calibration) Instruments() Instruments {
	return c.used.clone()
}

// Residuals revalues every calibration instrument on the finished curve.
// Swaps are valued at their effective date.
func (c *calibration) Residuals() ([]Residual, error) {
	out := make([]Residual, 0, c.used.Len())
	for _, d := range c.used.Deposits {
		v, err := d.Value(c.index.ValuationDate(), c.index, c.index)
		if err != nil {
			return nil, err
		}
		out = append(out, residual(d, v/d.Notional()-1.0, c.cfg.DepositRefitTolerance))
	}
	for _, f := range c.used.FRAs {
		v, err := f.Value(c.index.ValuationDate(), c.discount, c.index)
		if err != nil {
			return nil, err
		}
		out = append(out, residual(f, v/f.Notional(), c.cfg.RefitTolerance))
	}
	for _, s := range c.used.Swaps {
		v, err := s.Value(s.StartDate(), c.discount, c.index)
		if err != nil {
			return nil, err
		}
		out = append(out, residual(s, v/s.Notional(), c.cfg.RefitTolerance))
	}
	return out, nil
}

func residual(inst swap.Instrument, v, tol float64) Residual {
	return Residual{Kind: inst.Kind(), Start: inst.StartDate(), Maturity: inst.MaturityDate(), Value: v, Tolerance: tol}
}

func (c *calibration) checkRefit(logger *slog.Logger) error {
	rs, err := c.Residuals()
	if err != nil {
		return fmt.Errorf("check refit: %w", err)
	}
	insts := make([]swap.Instrument, 0, len(rs))
	for _, d := range c.used.Deposits {
		insts = append(insts, d)
	}
	for _, f := range c.used.FRAs {
		insts = append(insts, f)
	}
	for _, s := range c.used.Swaps {
		insts = append(insts, s)
	}
	for i, r := range rs {
		if r.Repriced() {
			continue
		}
		logger.Error("instrument not repriced",
			slog.String("kind", string(r.Kind)),
			slog.String("maturity", utils.FormatDate(r.Maturity)),
			slog.Float64("residual", r.Value),
			slog.Float64("tolerance", r.Tolerance),
		)
		return &ConstructionError{
			Rule:       ErrNotRepriced,
			Instrument: insts[i],
			Residual:   r.Value,
			Detail:     fmt.Sprintf("tolerance %.0e", r.Tolerance),
		}
	}
	return nil
}

// SingleCurve is an Ibor curve used both to discount and to project.
type SingleCurve struct {
	*curve.Curve
	calibration
}

// DualCurve is an Ibor index curve projecting forwards while cashflows are
// discounted on a separately built curve.
type DualCurve struct {
	*curve.Curve
	calibration
}

// DiscountCurve returns the curve used for discounting during calibration.
func (c *DualCurve) DiscountCurve() curve.Discounter {
	return c.discount
}

// BuildCurve bootstraps a single curve: each instrument is discounted and
// projected on the curve being built.
func BuildCurve(p Params) (*SingleCurve, error) {
	idx, cal, err := build(p, nil)
	if err != nil {
		return nil, fmt.Errorf("BuildCurve: %w", err)
	}
	cal.discount = idx
	if p.CheckRefit {
		if err := cal.checkRefit(p.logger()); err != nil {
			return nil, fmt.Errorf("BuildCurve: %w", err)
		}
	}
	return &SingleCurve{Curve: idx, calibration: cal}, nil
}

// BuildDualCurve bootstraps an index curve against a fixed discount curve.
// Only the index curve's discount factors are solved for.
func BuildDualCurve(p Params, discount curve.Discounter) (*DualCurve, error) {
	if discount == nil {
		return nil, fmt.Errorf("BuildDualCurve: discount curve: %w", curve.ErrNilCurve)
	}
	if !discount.ValuationDate().Equal(p.ValuationDate) {
		return nil, fmt.Errorf("BuildDualCurve: %w", fail(ErrValuationDateMismatch, nil, "discount curve %s, index curve %s",
			utils.FormatDate(discount.ValuationDate()), utils.FormatDate(p.ValuationDate)))
	}
	idx, cal, err := build(p, discount)
	if err != nil {
		return nil, fmt.Errorf("BuildDualCurve: %w", err)
	}
	cal.discount = discount
	if p.CheckRefit {
		if err := cal.checkRefit(p.logger()); err != nil {
			return nil, fmt.Errorf("BuildDualCurve: %w", err)
		}
	}
	return &DualCurve{Curve: idx, calibration: cal}, nil
}

// build validates and bootstraps, returning the frozen index curve.
func build(p Params, discount curve.Discounter) (*curve.Curve, calibration, error) {
	cfg := p.settings()
	if err := cfg.Validate(); err != nil {
		return nil, calibration{}, err
	}
	used, basis, err := validate(p.ValuationDate, Instruments{Deposits: p.Deposits, FRAs: p.FRAs, Swaps: p.Swaps})
	if err != nil {
		return nil, calibration{}, err
	}
	logger := p.logger()
	kind := p.kind()

	b, err := newBuilder(p.ValuationDate, kind, basis, cfg.DaysInYear)
	if err != nil {
		return nil, calibration{}, err
	}
	if err := bootstrap(b, used, discount, cfg, logger); err != nil {
		return nil, calibration{}, err
	}

	opts := []curve.Option{curve.WithDaysInYear(cfg.DaysInYear)}
	if basis != "" {
		opts = append(opts, curve.WithIndexDayCount(basis))
	}
	idx, err := curve.New(p.ValuationDate, b.times, b.dfs, kind, opts...)
	if err != nil {
		return nil, calibration{}, err
	}
	logger.Info("curve built",
		slog.String("valuation_date", utils.FormatDate(p.ValuationDate)),
		slog.String("interp", kind.String()),
		slog.Int("points", len(b.times)),
		slog.Int("instruments", used.Len()),
		slog.Bool("dual", discount != nil),
	)
	return idx, calibration{used: used, index: idx, cfg: cfg}, nil
}
