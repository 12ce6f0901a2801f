package swap

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/meenmo/curvelib/swap/curve"
	"github.com/meenmo/curvelib/utils"
)

// Cashflow is one row of a leg valuation report. Amount and the PV columns
// are rounded to cents; DF is relative to the value date.
type Cashflow struct {
	StartDate    time.Time
	EndDate      time.Time
	PayDate      time.Time
	AccrualDays  int
	YearFrac     float64
	Rate         float64
	Amount       decimal.Decimal
	DF           float64
	PV           decimal.Decimal
	CumulativePV decimal.Decimal
}

func cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// report converts valued flows into signed cashflow rows.
func report(flows []legFlow, sign float64) []Cashflow {
	out := make([]Cashflow, 0, len(flows))
	cum := 0.0
	for _, f := range flows {
		cum += sign * f.pv
		out = append(out, Cashflow{
			StartDate:    f.period.StartDate,
			EndDate:      f.period.EndDate,
			PayDate:      f.period.PayDate,
			AccrualDays:  f.period.AccrualDays,
			YearFrac:     f.period.YearFrac,
			Rate:         f.rate,
			Amount:       cents(sign * f.amount),
			DF:           f.df,
			PV:           cents(sign * f.pv),
			CumulativePV: cents(cum),
		})
	}
	return out
}

// Cashflows reports the remaining fixed payments valued at valueDate.
func (f *FixedLeg) Cashflows(valueDate time.Time, discount curve.Discounter) ([]Cashflow, error) {
	if isNilInterface(discount) {
		return nil, ErrNilCurve
	}
	flows, _, err := f.flows(valueDate, discount)
	if err != nil {
		return nil, err
	}
	return report(flows, f.legType.Sign()), nil
}

// Cashflows reports the remaining projected float payments valued at valueDate.
func (f *FloatLeg) Cashflows(valueDate time.Time, discount, index curve.Discounter, firstFixing *float64) ([]Cashflow, error) {
	discount, index, err := curves(discount, index)
	if err != nil {
		return nil, err
	}
	flows, _, err := f.flows(valueDate, discount, index, firstFixing)
	if err != nil {
		return nil, err
	}
	return report(flows, f.legType.Sign()), nil
}

// Cashflows reports the single settlement of the FRA: the exchanged
// interest on the accrual period discounted from maturity to valueDate.
func (f *FRA) Cashflows(valueDate time.Time, discount, index curve.Discounter) ([]Cashflow, error) {
	discount, index, err := curves(discount, index)
	if err != nil {
		return nil, err
	}
	fwd, err := f.ForwardRate(index)
	if err != nil {
		return nil, err
	}
	acc := f.AccrualFactor()
	amount := acc * (fwd - f.rate) * f.notional
	if !f.payFixed {
		amount = -amount
	}
	df := discount.DF(f.maturity) / discount.DF(valueDate)
	_, days := utils.YearFrac(f.start, f.maturity, f.dayCount)
	return []Cashflow{{
		StartDate:    f.start,
		EndDate:      f.maturity,
		PayDate:      f.maturity,
		AccrualDays:  days,
		YearFrac:     acc,
		Rate:         fwd,
		Amount:       cents(amount),
		DF:           df,
		PV:           cents(amount * df),
		CumulativePV: cents(amount * df),
	}}, nil
}

// SumPV adds the PV column of a report.
func SumPV(rows []Cashflow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.PV)
	}
	return total
}
