package ibor

import (
	"time"

	"github.com/meenmo/curvelib/swap"
	"github.com/meenmo/curvelib/swap/curve"
	"github.com/meenmo/curvelib/swap/curve/interp"
	"github.com/meenmo/curvelib/swap/solver"
	"github.com/meenmo/curvelib/utils"
)

// builder is the curve under construction. It is owned by a single bootstrap
// call and never escapes it: instruments query it as a curve.Discounter while
// the trailing grid point is solved for.
type builder struct {
	valuation  time.Time
	daysInYear float64
	dayCount   utils.DayCount

	times []float64
	dfs   []float64
	ip    *interp.Interpolator
}

func newBuilder(valuation time.Time, kind interp.Type, dayCount utils.DayCount, daysInYear float64) (*builder, error) {
	ip, err := interp.New(kind)
	if err != nil {
		return nil, err
	}
	b := &builder{
		valuation:  valuation,
		daysInYear: daysInYear,
		dayCount:   dayCount,
		times:      []float64{0},
		dfs:        []float64{1},
		ip:         ip,
	}
	if err := b.ip.Fit(b.times, b.dfs); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *builder) ValuationDate() time.Time {
	return b.valuation
}

func (b *builder) DF(t time.Time) float64 {
	tm := b.time(t)
	if tm == 0 {
		return 1.0
	}
	return b.ip.DF(tm)
}

func (b *builder) IndexDayCount() (utils.DayCount, bool) {
	return b.dayCount, b.dayCount != ""
}

func (b *builder) time(t time.Time) float64 {
	return curve.YearsBetween(b.valuation, t, b.daysInYear)
}

func (b *builder) lastTime() float64 {
	return b.times[len(b.times)-1]
}

func (b *builder) lastDF() float64 {
	return b.dfs[len(b.dfs)-1]
}

// push appends a grid point and refits.
func (b *builder) push(inst swap.Instrument, t, df float64) error {
	if t <= b.lastTime() {
		return fail(ErrGridOrder, inst, "t=%.6f not after previous grid time %.6f", t, b.lastTime())
	}
	b.times = append(b.times, t)
	b.dfs = append(b.dfs, df)
	return b.ip.Fit(b.times, b.dfs)
}

// setLast replaces the trailing discount factor and refits.
func (b *builder) setLast(df float64) error {
	b.dfs[len(b.dfs)-1] = df
	return b.ip.Fit(b.times, b.dfs)
}

// objective returns the residual of inst, valued at valueDate, as a function
// of the trailing discount factor of b. Cashflows are discounted on discount,
// or on b itself when discount is nil.
func objective(b *builder, inst swap.Instrument, valueDate time.Time, discount curve.Discounter) solver.Objective {
	return func(df float64) (float64, error) {
		if err := b.setLast(df); err != nil {
			return 0, err
		}
		disc := discount
		if disc == nil {
			disc = b
		}
		v, err := inst.Value(valueDate, disc, b)
		if err != nil {
			return 0, err
		}
		return v / inst.Notional(), nil
	}
}
