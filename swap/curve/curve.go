package curve

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/meenmo/curvelib/swap/config"
	"github.com/meenmo/curvelib/swap/curve/interp"
	"github.com/meenmo/curvelib/utils"
)

var (
	// ErrNilCurve is returned when a required curve argument is nil.
	ErrNilCurve = errors.New("nil curve")
	// ErrDomain is returned for queries outside a curve's domain.
	ErrDomain = errors.New("curve domain error")
)

// Discounter provides discount factors on calendar dates.
type Discounter interface {
	ValuationDate() time.Time
	DF(t time.Time) float64
}

// IndexBasis is implemented by curves that carry the day count used to
// accrue the index rates they project.
type IndexBasis interface {
	IndexDayCount() (utils.DayCount, bool)
}

// YearsBetween converts the calendar days from valuation to t into curve time.
func YearsBetween(valuation, t time.Time, daysInYear float64) float64 {
	return float64(utils.DaysBetween(valuation, t)) / daysInYear
}

// Curve is an immutable discount curve on a fitted (time, df) grid.
type Curve struct {
	valuationDate time.Time
	times         []float64
	dfs           []float64
	interp        *interp.Interpolator
	dayCount      utils.DayCount
	daysInYear    float64
}

// Option customises New.
type Option func(*Curve)

// WithIndexDayCount sets the day count used by float legs projecting off the curve.
func WithIndexDayCount(dc utils.DayCount) Option {
	return func(c *Curve) { c.dayCount = dc }
}

// WithDaysInYear overrides the time-axis denominator.
func WithDaysInYear(d float64) Option {
	return func(c *Curve) { c.daysInYear = d }
}

// New freezes a curve from an explicit grid. The grid is copied, must start
// at t=0 with a discount factor of 1, and is fitted once with kind.
func New(valuationDate time.Time, times, dfs []float64, kind interp.Type, opts ...Option) (*Curve, error) {
	if len(times) == 0 || len(times) != len(dfs) {
		return nil, fmt.Errorf("curve.New: %w: %d times, %d discount factors", interp.ErrInvalidGrid, len(times), len(dfs))
	}
	if times[0] != 0 || dfs[0] != 1 {
		return nil, fmt.Errorf("curve.New: %w: grid must begin at (0, 1), got (%g, %g)", interp.ErrInvalidGrid, times[0], dfs[0])
	}
	c := &Curve{
		valuationDate: valuationDate,
		times:         append([]float64(nil), times...),
		dfs:           append([]float64(nil), dfs...),
		daysInYear:    config.GetConfig().DaysInYear,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.daysInYear <= 0 {
		return nil, fmt.Errorf("curve.New: days in year must be positive, got %g", c.daysInYear)
	}
	ip, err := interp.New(kind)
	if err != nil {
		return nil, fmt.Errorf("curve.New: %w", err)
	}
	if err := ip.Fit(c.times, c.dfs); err != nil {
		return nil, fmt.Errorf("curve.New: %w", err)
	}
	c.interp = ip
	return c, nil
}

// NewFromDates freezes a curve from discount factors keyed by date. The
// valuation date is added with a discount factor of 1 when absent.
func NewFromDates(valuationDate time.Time, dfs map[time.Time]float64, kind interp.Type, opts ...Option) (*Curve, error) {
	dates := make([]time.Time, 0, len(dfs))
	for d := range dfs {
		if d.Before(valuationDate) {
			return nil, fmt.Errorf("curve.NewFromDates: %w: date %s before valuation date", interp.ErrInvalidGrid, utils.FormatDate(d))
		}
		if d.Equal(valuationDate) {
			if v := dfs[d]; v != 1 {
				return nil, fmt.Errorf("curve.NewFromDates: %w: discount factor %g at valuation date, want 1", interp.ErrInvalidGrid, v)
			}
			continue
		}
		dates = append(dates, d)
	}
	utils.SortDates(dates)

	days := config.GetConfig().DaysInYear
	probe := &Curve{daysInYear: days}
	for _, opt := range opts {
		opt(probe)
	}

	times := []float64{0}
	values := []float64{1}
	for _, d := range dates {
		times = append(times, YearsBetween(valuationDate, d, probe.daysInYear))
		values = append(values, dfs[d])
	}
	return New(valuationDate, times, values, kind, opts...)
}

// ValuationDate returns the date at which the curve's discount factor is 1.
func (c *Curve) ValuationDate() time.Time {
	return c.valuationDate
}

// Time converts a date into curve time.
func (c *Curve) Time(t time.Time) float64 {
	return YearsBetween(c.valuationDate, t, c.daysInYear)
}

// DF returns the discount factor at date t. DF(ValuationDate()) is exactly 1.
func (c *Curve) DF(t time.Time) float64 {
	return c.DFAt(c.Time(t))
}

// DFAt returns the discount factor at curve time t.
func (c *Curve) DFAt(t float64) float64 {
	if t == 0 {
		return 1.0
	}
	return c.interp.DF(t)
}

// ZeroRate returns the continuously-compounded zero rate to date t.
func (c *Curve) ZeroRate(t time.Time) (float64, error) {
	tm := c.Time(t)
	if tm <= 0 {
		return 0, fmt.Errorf("ZeroRate: %w: date %s not after valuation date %s", ErrDomain, utils.FormatDate(t), utils.FormatDate(c.valuationDate))
	}
	return -math.Log(c.DFAt(tm)) / tm, nil
}

// ForwardRate returns the simple forward rate between d1 and d2 accrued under dc.
func (c *Curve) ForwardRate(d1, d2 time.Time, dc utils.DayCount) (float64, error) {
	return ForwardRate(c, d1, d2, dc)
}

// IndexDayCount returns the index accrual basis, if the curve carries one.
func (c *Curve) IndexDayCount() (utils.DayCount, bool) {
	return c.dayCount, c.dayCount != ""
}

// Interp returns the interpolation scheme.
func (c *Curve) Interp() interp.Type {
	return c.interp.Type()
}

// Times returns a copy of the grid times.
func (c *Curve) Times() []float64 {
	return append([]float64(nil), c.times...)
}

// DFs returns a copy of the grid discount factors.
func (c *Curve) DFs() []float64 {
	return append([]float64(nil), c.dfs...)
}

// ForwardRate returns (df(d1)/df(d2) - 1) / accrual(d1, d2) on any Discounter.
func ForwardRate(c Discounter, d1, d2 time.Time, dc utils.DayCount) (float64, error) {
	if c == nil {
		return 0, ErrNilCurve
	}
	if !d1.Before(d2) {
		return 0, fmt.Errorf("ForwardRate: %w: start %s not before end %s", ErrDomain, utils.FormatDate(d1), utils.FormatDate(d2))
	}
	alpha := utils.YearFraction(d1, d2, dc)
	if alpha <= 0 {
		return 0, fmt.Errorf("ForwardRate: %w: non-positive accrual %g under %s", ErrDomain, alpha, dc)
	}
	return (c.DF(d1)/c.DF(d2) - 1.0) / alpha, nil
}

// DiscountFactors returns discount factors for the given dates.
func DiscountFactors(c Discounter, dates []time.Time) ([]float64, error) {
	if c == nil {
		return nil, ErrNilCurve
	}
	dfs := make([]float64, len(dates))
	for i, d := range dates {
		dfs[i] = c.DF(d)
	}
	return dfs, nil
}

// ZeroRates returns continuously-compounded zero rates for the given dates.
func ZeroRates(c *Curve, dates []time.Time) ([]float64, error) {
	if c == nil {
		return nil, ErrNilCurve
	}
	zeros := make([]float64, len(dates))
	for i, d := range dates {
		z, err := c.ZeroRate(d)
		if err != nil {
			return nil, err
		}
		zeros[i] = z
	}
	return zeros, nil
}
