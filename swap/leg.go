package swap

import (
	"fmt"
	"time"

	"github.com/meenmo/curvelib/calendar"
	"github.com/meenmo/curvelib/swap/curve"
	"github.com/meenmo/curvelib/swap/market"
	"github.com/meenmo/curvelib/utils"
)

// legFlow is one valued payment of a leg.
type legFlow struct {
	period SchedulePeriod
	rate   float64
	amount float64
	df     float64
	pv     float64
}

type leg struct {
	effective   time.Time
	termination time.Time
	maturity    time.Time
	legType     market.LegType
	conv        market.LegConvention
	notional    float64
	principal   float64
	periods     []SchedulePeriod
}

func newLeg(effective, termination time.Time, legType market.LegType, conv market.LegConvention, notional, principal float64) (leg, error) {
	if notional <= 0 {
		return leg{}, fmt.Errorf("%w, got %g", errNonPositiveNotional, notional)
	}
	if legType != market.LegPay && legType != market.LegReceive {
		return leg{}, fmt.Errorf("unknown leg type %q", legType)
	}
	if !conv.DayCount.Valid() {
		return leg{}, fmt.Errorf("%w %q", errUnknownDayCount, conv.DayCount)
	}
	if conv.Calendar == "" {
		conv.Calendar = calendar.WEEKEND
	}
	if conv.BusinessDayAdjustment == "" {
		conv.BusinessDayAdjustment = calendar.ModifiedFollowing
	}
	if conv.DateGenRule == "" {
		conv.DateGenRule = market.ScheduleBackward
	}
	maturity := calendar.AdjustWith(conv.Calendar, termination, conv.BusinessDayAdjustment)
	if effective.After(maturity) {
		return leg{}, fmt.Errorf("effective %s after maturity %s", utils.FormatDate(effective), utils.FormatDate(maturity))
	}
	periods, err := GenerateSchedule(effective, termination, conv)
	if err != nil {
		return leg{}, err
	}
	return leg{
		effective:   effective,
		termination: termination,
		maturity:    maturity,
		legType:     legType,
		conv:        conv,
		notional:    notional,
		principal:   principal,
		periods:     periods,
	}, nil
}

func (l *leg) EffectiveDate() time.Time { return l.effective }
func (l *leg) MaturityDate() time.Time  { return l.maturity }
func (l *leg) LegType() market.LegType  { return l.legType }
func (l *leg) Notional() float64        { return l.notional }
func (l *leg) Convention() market.LegConvention {
	return l.conv
}

// Periods returns a copy of the accrual schedule.
func (l *leg) Periods() []SchedulePeriod {
	return append([]SchedulePeriod(nil), l.periods...)
}

// PaymentDates returns the payment date of every period.
func (l *leg) PaymentDates() []time.Time {
	out := make([]time.Time, len(l.periods))
	for i, p := range l.periods {
		out[i] = p.PayDate
	}
	return out
}

// LastPaymentDate is the payment date of the final period.
func (l *leg) LastPaymentDate() time.Time {
	return l.periods[len(l.periods)-1].PayDate
}

// discountFlows values each payment strictly after valueDate. rate returns
// the coupon rate of period i. The last payment carries the principal.
func (l *leg) discountFlows(valueDate time.Time, discount curve.Discounter, rate func(i int, p SchedulePeriod) (float64, error)) ([]legFlow, float64, error) {
	dfValue := discount.DF(valueDate)
	flows := make([]legFlow, 0, len(l.periods))
	total := 0.0
	for i, p := range l.periods {
		if !p.PayDate.After(valueDate) {
			continue
		}
		r, err := rate(i, p)
		if err != nil {
			return nil, 0, err
		}
		amount := r * p.YearFrac * l.notional
		df := discount.DF(p.PayDate) / dfValue
		flows = append(flows, legFlow{period: p, rate: r, amount: amount, df: df, pv: amount * df})
		total += amount * df
	}
	if n := len(flows); n > 0 && l.principal != 0 && flows[n-1].period.PayDate.Equal(l.LastPaymentDate()) {
		last := &flows[n-1]
		principalPV := l.principal * l.notional * last.df
		last.amount += l.principal * l.notional
		last.pv += principalPV
		total += principalPV
	}
	return flows, l.legType.Sign() * total, nil
}

// FixedLegParams defines the fixed leg of a swap.
type FixedLegParams struct {
	EffectiveDate   time.Time
	TerminationDate time.Time
	LegType         market.LegType
	Coupon          float64
	Convention      market.LegConvention
	Notional        float64
	// Principal is the fraction of notional exchanged on the last payment date.
	Principal float64
}

// FixedLeg pays a fixed coupon on a schedule.
type FixedLeg struct {
	leg
	coupon float64
}

// NewFixedLeg builds the schedule of the fixed leg.
func NewFixedLeg(p FixedLegParams) (*FixedLeg, error) {
	if p.Convention.Frequency == 0 {
		p.Convention.Frequency = market.FreqAnnual
	}
	if p.Convention.DayCount == "" {
		p.Convention.DayCount = utils.Thirty360E
	}
	l, err := newLeg(p.EffectiveDate, p.TerminationDate, p.LegType, p.Convention, p.Notional, p.Principal)
	if err != nil {
		return nil, fmt.Errorf("NewFixedLeg: %w", err)
	}
	return &FixedLeg{leg: l, coupon: p.Coupon}, nil
}

// Coupon returns the fixed rate.
func (f *FixedLeg) Coupon() float64 { return f.coupon }

// Value discounts the remaining coupons to valueDate. Paid legs are negative.
func (f *FixedLeg) Value(valueDate time.Time, discount curve.Discounter) (float64, error) {
	if isNilInterface(discount) {
		return 0, ErrNilCurve
	}
	_, v, err := f.flows(valueDate, discount)
	return v, err
}

// Annuity is the sum of year fraction times discount factor over the
// remaining payments, per unit notional.
func (f *FixedLeg) Annuity(valueDate time.Time, discount curve.Discounter) (float64, error) {
	if isNilInterface(discount) {
		return 0, ErrNilCurve
	}
	dfValue := discount.DF(valueDate)
	annuity := 0.0
	for _, p := range f.periods {
		if p.PayDate.After(valueDate) {
			annuity += p.YearFrac * discount.DF(p.PayDate) / dfValue
		}
	}
	return annuity, nil
}

func (f *FixedLeg) flows(valueDate time.Time, discount curve.Discounter) ([]legFlow, float64, error) {
	return f.discountFlows(valueDate, discount, func(int, SchedulePeriod) (float64, error) {
		return f.coupon, nil
	})
}

// FloatLegParams defines the floating leg of a swap.
type FloatLegParams struct {
	EffectiveDate   time.Time
	TerminationDate time.Time
	LegType         market.LegType
	Spread          float64
	Convention      market.LegConvention
	Notional        float64
	Principal       float64
}

// FloatLeg pays the index rate plus a spread. Index rates are implied by the
// projection curve over each accrual period, accrued on the curve's index
// basis when it carries one and on the leg's day count otherwise.
type FloatLeg struct {
	leg
	spread float64
}

// NewFloatLeg builds the schedule of the floating leg.
func NewFloatLeg(p FloatLegParams) (*FloatLeg, error) {
	if p.Convention.Frequency == 0 {
		p.Convention.Frequency = market.FreqQuarterly
	}
	if p.Convention.DayCount == "" {
		p.Convention.DayCount = utils.Act360
	}
	l, err := newLeg(p.EffectiveDate, p.TerminationDate, p.LegType, p.Convention, p.Notional, p.Principal)
	if err != nil {
		return nil, fmt.Errorf("NewFloatLeg: %w", err)
	}
	return &FloatLeg{leg: l, spread: p.Spread}, nil
}

// Spread returns the spread over the index.
func (f *FloatLeg) Spread() float64 { return f.spread }

// IndexDayCount returns the basis used to imply index rates off index.
func (f *FloatLeg) IndexDayCount(index curve.Discounter) utils.DayCount {
	if b, ok := index.(curve.IndexBasis); ok {
		if dc, set := b.IndexDayCount(); set {
			return dc
		}
	}
	return f.conv.DayCount
}

// Value discounts the projected coupons to valueDate. When firstFixing is
// non-nil it replaces the projected index rate of the first remaining period.
func (f *FloatLeg) Value(valueDate time.Time, discount, index curve.Discounter, firstFixing *float64) (float64, error) {
	discount, index, err := curves(discount, index)
	if err != nil {
		return 0, err
	}
	_, v, err := f.flows(valueDate, discount, index, firstFixing)
	return v, err
}

func (f *FloatLeg) flows(valueDate time.Time, discount, index curve.Discounter, firstFixing *float64) ([]legFlow, float64, error) {
	basis := f.IndexDayCount(index)
	first := true
	return f.discountFlows(valueDate, discount, func(_ int, p SchedulePeriod) (float64, error) {
		if first && firstFixing != nil {
			first = false
			return *firstFixing + f.spread, nil
		}
		first = false
		fwd, err := curve.ForwardRate(index, p.StartDate, p.EndDate, basis)
		if err != nil {
			return 0, fmt.Errorf("FloatLeg: period %s-%s: %w", utils.FormatDate(p.StartDate), utils.FormatDate(p.EndDate), err)
		}
		return fwd + f.spread, nil
	})
}
