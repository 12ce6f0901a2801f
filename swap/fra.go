package swap

import (
	"fmt"
	"time"

	"github.com/meenmo/curvelib/calendar"
	"github.com/meenmo/curvelib/swap/curve"
	"github.com/meenmo/curvelib/utils"
)

// FRAParams defines a forward rate agreement on the index period
// [StartDate, MaturityDate]. Exactly one of MaturityDate and Tenor must be set.
type FRAParams struct {
	StartDate    time.Time
	MaturityDate time.Time
	Tenor        string

	Rate     float64
	DayCount utils.DayCount
	Notional float64
	// PayFixed is true when the holder pays Rate and receives the index.
	PayFixed bool

	Calendar              calendar.CalendarID
	BusinessDayAdjustment calendar.BusinessDayAdjustment
}

// FRA exchanges a fixed rate for the index rate fixed at StartDate, settled
// on the accrual period. Fixing and settlement are taken on StartDate.
type FRA struct {
	start    time.Time
	maturity time.Time
	rate     float64
	dayCount utils.DayCount
	notional float64
	payFixed bool
}

// NewFRA validates p and builds an FRA.
func NewFRA(p FRAParams) (*FRA, error) {
	if p.StartDate.IsZero() {
		return nil, fmt.Errorf("NewFRA: start date required")
	}
	if p.DayCount == "" {
		p.DayCount = utils.Act360
	}
	if !p.DayCount.Valid() {
		return nil, fmt.Errorf("NewFRA: %w %q", errUnknownDayCount, p.DayCount)
	}
	if p.Notional == 0 {
		p.Notional = DefaultNotional
	}
	if p.Notional < 0 {
		return nil, fmt.Errorf("NewFRA: %w, got %g", errNonPositiveNotional, p.Notional)
	}
	if p.Calendar == "" {
		p.Calendar = calendar.WEEKEND
	}
	if p.BusinessDayAdjustment == "" {
		p.BusinessDayAdjustment = calendar.ModifiedFollowing
	}
	maturity, err := resolveMaturity(p.StartDate, p.MaturityDate, p.Tenor, p.Calendar, p.BusinessDayAdjustment)
	if err != nil {
		return nil, fmt.Errorf("NewFRA: %w", err)
	}
	if !maturity.After(p.StartDate) {
		return nil, fmt.Errorf("NewFRA: maturity %s not after start %s", utils.FormatDate(maturity), utils.FormatDate(p.StartDate))
	}
	return &FRA{
		start:    p.StartDate,
		maturity: maturity,
		rate:     p.Rate,
		dayCount: p.DayCount,
		notional: p.Notional,
		payFixed: p.PayFixed,
	}, nil
}

func (f *FRA) Kind() Kind               { return KindFRA }
func (f *FRA) StartDate() time.Time     { return f.start }
func (f *FRA) MaturityDate() time.Time  { return f.maturity }
func (f *FRA) Notional() float64        { return f.notional }
func (f *FRA) Rate() float64            { return f.rate }
func (f *FRA) PayFixed() bool           { return f.payFixed }
func (f *FRA) DayCount() utils.DayCount { return f.dayCount }

// AccrualFactor is the year fraction of the index period.
func (f *FRA) AccrualFactor() float64 {
	return utils.YearFraction(f.start, f.maturity, f.dayCount)
}

// ForwardRate is the index rate over the FRA period implied by index.
func (f *FRA) ForwardRate(index curve.Discounter) (float64, error) {
	if isNilInterface(index) {
		return 0, ErrNilCurve
	}
	return curve.ForwardRate(index, f.start, f.maturity, f.dayCount)
}

// MaturityDF is the index discount factor at maturity that makes the FRA
// worth zero given the index discount factor at its start date.
func (f *FRA) MaturityDF(index curve.Discounter) (float64, error) {
	if isNilInterface(index) {
		return 0, ErrNilCurve
	}
	return index.DF(f.start) / (1.0 + f.AccrualFactor()*f.rate), nil
}

// Value is acc * (fwd - rate) * df(maturity) * notional / df(valueDate) for
// the payer of the fixed rate, negated for the receiver.
func (f *FRA) Value(valueDate time.Time, discount, index curve.Discounter) (float64, error) {
	discount, index, err := curves(discount, index)
	if err != nil {
		return 0, err
	}
	fwd, err := f.ForwardRate(index)
	if err != nil {
		return 0, fmt.Errorf("FRA.Value: %w", err)
	}
	v := f.AccrualFactor() * (fwd - f.rate) * discount.DF(f.maturity)
	v = v * f.notional / discount.DF(valueDate)
	if !f.payFixed {
		v = -v
	}
	return v, nil
}
