package swap

import (
	"fmt"
	"time"

	"github.com/meenmo/curvelib/calendar"
	"github.com/meenmo/curvelib/swap/curve"
	"github.com/meenmo/curvelib/utils"
)

// DefaultNotional is used when an instrument is built with a zero notional.
const DefaultNotional = 100.0

// DepositParams defines a money-market deposit. Exactly one of MaturityDate
// and Tenor must be set; a tenor is rolled from StartDate and adjusted.
type DepositParams struct {
	StartDate    time.Time
	MaturityDate time.Time
	Tenor        string

	Rate     float64
	DayCount utils.DayCount
	Notional float64

	Calendar              calendar.CalendarID
	BusinessDayAdjustment calendar.BusinessDayAdjustment
}

// Deposit is an unsecured loan of Notional from StartDate to MaturityDate at
// a simple Rate. It is immutable once built.
type Deposit struct {
	start    time.Time
	maturity time.Time
	rate     float64
	dayCount utils.DayCount
	notional float64
	cal      calendar.CalendarID
	bda      calendar.BusinessDayAdjustment
}

// NewDeposit validates p and builds a Deposit.
func NewDeposit(p DepositParams) (*Deposit, error) {
	if p.StartDate.IsZero() {
		return nil, fmt.Errorf("NewDeposit: start date required")
	}
	if p.DayCount == "" {
		p.DayCount = utils.Act360
	}
	if !p.DayCount.Valid() {
		return nil, fmt.Errorf("NewDeposit: %w %q", errUnknownDayCount, p.DayCount)
	}
	if p.Notional == 0 {
		p.Notional = DefaultNotional
	}
	if p.Notional < 0 {
		return nil, fmt.Errorf("NewDeposit: %w, got %g", errNonPositiveNotional, p.Notional)
	}
	if p.Calendar == "" {
		p.Calendar = calendar.WEEKEND
	}
	if p.BusinessDayAdjustment == "" {
		p.BusinessDayAdjustment = calendar.ModifiedFollowing
	}
	maturity, err := resolveMaturity(p.StartDate, p.MaturityDate, p.Tenor, p.Calendar, p.BusinessDayAdjustment)
	if err != nil {
		return nil, fmt.Errorf("NewDeposit: %w", err)
	}
	if maturity.Before(p.StartDate) {
		return nil, fmt.Errorf("NewDeposit: maturity %s before start %s", utils.FormatDate(maturity), utils.FormatDate(p.StartDate))
	}
	return &Deposit{
		start:    p.StartDate,
		maturity: maturity,
		rate:     p.Rate,
		dayCount: p.DayCount,
		notional: p.Notional,
		cal:      p.Calendar,
		bda:      p.BusinessDayAdjustment,
	}, nil
}

func (d *Deposit) Kind() Kind              { return KindDeposit }
func (d *Deposit) StartDate() time.Time    { return d.start }
func (d *Deposit) MaturityDate() time.Time { return d.maturity }
func (d *Deposit) Notional() float64       { return d.notional }
func (d *Deposit) Rate() float64           { return d.rate }
func (d *Deposit) DayCount() utils.DayCount {
	return d.dayCount
}

// AccrualFactor is the year fraction from start to maturity.
func (d *Deposit) AccrualFactor() float64 {
	return utils.YearFraction(d.start, d.maturity, d.dayCount)
}

// MaturityDF is the discount factor from start to maturity implied by the rate.
func (d *Deposit) MaturityDF() float64 {
	return 1.0 / (1.0 + d.AccrualFactor()*d.rate)
}

// Value is the maturity repayment discounted back to the start date, so a
// deposit on a curve that refits it is worth its notional.
func (d *Deposit) Value(valueDate time.Time, discount, _ curve.Discounter) (float64, error) {
	if isNilInterface(discount) {
		return 0, ErrNilCurve
	}
	if valueDate.After(d.maturity) {
		return 0, fmt.Errorf("Deposit.Value: value date %s after maturity %s", utils.FormatDate(valueDate), utils.FormatDate(d.maturity))
	}
	flow := (1.0 + d.AccrualFactor()*d.rate) * d.notional
	return flow * discount.DF(d.maturity) / discount.DF(d.start), nil
}

// Redated returns a copy of the deposit accruing from start to maturity.
// The receiver is left untouched.
func (d *Deposit) Redated(start, maturity time.Time) (*Deposit, error) {
	if !maturity.After(start) {
		return nil, fmt.Errorf("Deposit.Redated: maturity %s not after start %s", utils.FormatDate(maturity), utils.FormatDate(start))
	}
	cp := *d
	cp.start = start
	cp.maturity = maturity
	return &cp, nil
}
