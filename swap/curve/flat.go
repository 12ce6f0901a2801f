package curve

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/curvelib/swap/config"
	"github.com/meenmo/curvelib/utils"
)

// Flat is a curve with a single continuously-compounded zero rate.
type Flat struct {
	valuationDate time.Time
	rate          float64
	daysInYear    float64
}

// NewFlat returns a flat curve at the continuously-compounded rate.
func NewFlat(valuationDate time.Time, rate float64) *Flat {
	return &Flat{valuationDate: valuationDate, rate: rate, daysInYear: config.GetConfig().DaysInYear}
}

// ValuationDate returns the date at which the discount factor is 1.
func (f *Flat) ValuationDate() time.Time {
	return f.valuationDate
}

// Rate returns the zero rate.
func (f *Flat) Rate() float64 {
	return f.rate
}

// DF returns exp(-rate * t).
func (f *Flat) DF(t time.Time) float64 {
	tm := YearsBetween(f.valuationDate, t, f.daysInYear)
	if tm == 0 {
		return 1.0
	}
	return math.Exp(-f.rate * tm)
}

// ZeroRate returns the flat rate for any date after the valuation date.
func (f *Flat) ZeroRate(t time.Time) (float64, error) {
	if !t.After(f.valuationDate) {
		return 0, fmt.Errorf("ZeroRate: %w: date %s not after valuation date", ErrDomain, utils.FormatDate(t))
	}
	return f.rate, nil
}
