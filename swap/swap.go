package swap

import (
	"fmt"
	"time"

	"github.com/meenmo/curvelib/calendar"
	"github.com/meenmo/curvelib/swap/curve"
	"github.com/meenmo/curvelib/swap/market"
	"github.com/meenmo/curvelib/utils"
)

// SwapParams defines a fixed-for-floating Ibor swap. Exactly one of
// TerminationDate and Tenor must be set; a tenor is rolled from EffectiveDate.
// FixedLegType defaults to LegPay and the floating leg takes the other side.
type SwapParams struct {
	EffectiveDate   time.Time
	TerminationDate time.Time
	Tenor           string

	FixedLegType market.LegType
	FixedCoupon  float64
	FixedLeg     market.LegConvention

	FloatSpread float64
	FloatLeg    market.LegConvention

	Notional float64
	// Principal is the fraction of notional exchanged at maturity on both legs.
	Principal float64
}

// Swap is an Ibor fixed-for-floating interest rate swap.
type Swap struct {
	effective time.Time
	maturity  time.Time
	fixed     *FixedLeg
	float     *FloatLeg
}

// NewSwap validates p and generates both leg schedules.
func NewSwap(p SwapParams) (*Swap, error) {
	if p.EffectiveDate.IsZero() {
		return nil, fmt.Errorf("NewSwap: effective date required")
	}
	if p.Notional == 0 {
		p.Notional = DefaultNotional
	}
	if p.FixedLegType == "" {
		p.FixedLegType = market.LegPay
	}

	termination := p.TerminationDate
	switch {
	case !termination.IsZero() && p.Tenor != "":
		return nil, fmt.Errorf("NewSwap: both termination date and tenor %q given", p.Tenor)
	case termination.IsZero() && p.Tenor == "":
		return nil, fmt.Errorf("NewSwap: termination date or tenor required")
	case termination.IsZero():
		t, err := utils.AddTenor(p.EffectiveDate, p.Tenor)
		if err != nil {
			return nil, fmt.Errorf("NewSwap: %w", err)
		}
		termination = t
	}

	fixed, err := NewFixedLeg(FixedLegParams{
		EffectiveDate:   p.EffectiveDate,
		TerminationDate: termination,
		LegType:         p.FixedLegType,
		Coupon:          p.FixedCoupon,
		Convention:      p.FixedLeg,
		Notional:        p.Notional,
		Principal:       p.Principal,
	})
	if err != nil {
		return nil, fmt.Errorf("NewSwap: %w", err)
	}
	float, err := NewFloatLeg(FloatLegParams{
		EffectiveDate:   p.EffectiveDate,
		TerminationDate: termination,
		LegType:         p.FixedLegType.Opposite(),
		Spread:          p.FloatSpread,
		Convention:      p.FloatLeg,
		Notional:        p.Notional,
		Principal:       p.Principal,
	})
	if err != nil {
		return nil, fmt.Errorf("NewSwap: %w", err)
	}

	conv := fixed.Convention()
	return &Swap{
		effective: p.EffectiveDate,
		maturity:  calendar.AdjustWith(conv.Calendar, termination, conv.BusinessDayAdjustment),
		fixed:     fixed,
		float:     float,
	}, nil
}

func (s *Swap) Kind() Kind              { return KindSwap }
func (s *Swap) StartDate() time.Time    { return s.effective }
func (s *Swap) MaturityDate() time.Time { return s.maturity }
func (s *Swap) FixedLeg() *FixedLeg     { return s.fixed }
func (s *Swap) FloatLeg() *FloatLeg     { return s.float }

// Notional is the fixed-leg notional.
func (s *Swap) Notional() float64 { return s.fixed.Notional() }

// LastPaymentDate is the final fixed-leg payment date, which can differ from
// the maturity date when the payment is rolled over a holiday.
func (s *Swap) LastPaymentDate() time.Time { return s.fixed.LastPaymentDate() }

// Value is the fixed-leg PV plus the float-leg PV at valueDate.
func (s *Swap) Value(valueDate time.Time, discount, index curve.Discounter) (float64, error) {
	return s.ValueWithFixing(valueDate, discount, index, nil)
}

// ValueWithFixing values the swap with an already fixed first float rate.
func (s *Swap) ValueWithFixing(valueDate time.Time, discount, index curve.Discounter, firstFixing *float64) (float64, error) {
	discount, index, err := curves(discount, index)
	if err != nil {
		return 0, err
	}
	fixedPV, err := s.fixed.Value(valueDate, discount)
	if err != nil {
		return 0, fmt.Errorf("Swap.Value: fixed leg: %w", err)
	}
	floatPV, err := s.float.Value(valueDate, discount, index, firstFixing)
	if err != nil {
		return 0, fmt.Errorf("Swap.Value: float leg: %w", err)
	}
	return fixedPV + floatPV, nil
}

// ParRate is the fixed coupon that makes the swap worth zero at valueDate.
func (s *Swap) ParRate(valueDate time.Time, discount, index curve.Discounter) (float64, error) {
	discount, index, err := curves(discount, index)
	if err != nil {
		return 0, err
	}
	annuity, err := s.fixed.Annuity(valueDate, discount)
	if err != nil {
		return 0, fmt.Errorf("Swap.ParRate: %w", err)
	}
	if annuity == 0 {
		return 0, fmt.Errorf("Swap.ParRate: no fixed payments after %s", utils.FormatDate(valueDate))
	}
	floatPV, err := s.float.Value(valueDate, discount, index, nil)
	if err != nil {
		return 0, fmt.Errorf("Swap.ParRate: %w", err)
	}
	floatPV *= s.float.LegType().Sign()

	fixedPrincipal := 0.0
	if last := s.fixed.LastPaymentDate(); last.After(valueDate) {
		fixedPrincipal = s.fixed.principal * s.fixed.notional * discount.DF(last) / discount.DF(valueDate)
	}
	return (floatPV - fixedPrincipal) / (annuity * s.fixed.notional), nil
}

// PV01 is the change in the fixed-leg PV for a one basis point move in the coupon.
func (s *Swap) PV01(valueDate time.Time, discount curve.Discounter) (float64, error) {
	annuity, err := s.fixed.Annuity(valueDate, discount)
	if err != nil {
		return 0, fmt.Errorf("Swap.PV01: %w", err)
	}
	return annuity * s.fixed.notional * 1e-4, nil
}
