package ibor

import (
	"time"

	"github.com/meenmo/curvelib/swap"
	"github.com/meenmo/curvelib/utils"
)

// Instruments is the set of calibration instruments a curve was built from,
// in bootstrap order.
type Instruments struct {
	Deposits []*swap.Deposit
	FRAs     []*swap.FRA
	Swaps    []*swap.Swap
}

// Len is the total number of instruments.
func (in Instruments) Len() int {
	return len(in.Deposits) + len(in.FRAs) + len(in.Swaps)
}

func (in Instruments) clone() Instruments {
	return Instruments{
		Deposits: append([]*swap.Deposit(nil), in.Deposits...),
		FRAs:     append([]*swap.FRA(nil), in.FRAs...),
		Swaps:    append([]*swap.Swap(nil), in.Swaps...),
	}
}

// validate checks ordering and overlap of the instruments and returns the
// set to bootstrap, with a bridging deposit prepended when the short end
// would otherwise be unpinned. It also returns the index day count taken from
// the first swap's floating leg, or "" without swaps.
func validate(valuation time.Time, in Instruments) (Instruments, utils.DayCount, error) {
	if in.Len() == 0 {
		return Instruments{}, "", fail(ErrNoInstruments, nil, "")
	}
	for i, d := range in.Deposits {
		if d == nil {
			return Instruments{}, "", fail(ErrNoInstruments, nil, "deposit %d is nil", i)
		}
		if d.StartDate().Before(valuation) {
			return Instruments{}, "", fail(ErrDepositBeforeValuation, d, "valuation date %s", utils.FormatDate(valuation))
		}
		if !d.MaturityDate().After(d.StartDate()) {
			return Instruments{}, "", fail(ErrDepositDates, d, "")
		}
		if i > 0 && !d.MaturityDate().After(in.Deposits[i-1].MaturityDate()) {
			return Instruments{}, "", fail(ErrDepositOrder, d, "previous deposit matures %s", utils.FormatDate(in.Deposits[i-1].MaturityDate()))
		}
	}
	for i, f := range in.FRAs {
		if f == nil {
			return Instruments{}, "", fail(ErrNoInstruments, nil, "FRA %d is nil", i)
		}
		if !f.StartDate().After(valuation) {
			return Instruments{}, "", fail(ErrFRABeforeValuation, f, "valuation date %s", utils.FormatDate(valuation))
		}
		if i > 0 && !f.MaturityDate().After(in.FRAs[i-1].MaturityDate()) {
			return Instruments{}, "", fail(ErrFRAOrder, f, "previous FRA matures %s", utils.FormatDate(in.FRAs[i-1].MaturityDate()))
		}
	}
	for i, s := range in.Swaps {
		if s == nil {
			return Instruments{}, "", fail(ErrNoInstruments, nil, "swap %d is nil", i)
		}
		if s.StartDate().Before(valuation) {
			return Instruments{}, "", fail(ErrSwapBeforeValuation, s, "valuation date %s", utils.FormatDate(valuation))
		}
		if i == 0 {
			continue
		}
		if !s.StartDate().Equal(in.Swaps[0].StartDate()) {
			return Instruments{}, "", fail(ErrSwapStartMismatch, s, "first swap starts %s", utils.FormatDate(in.Swaps[0].StartDate()))
		}
		if !s.MaturityDate().After(in.Swaps[i-1].MaturityDate()) {
			return Instruments{}, "", fail(ErrSwapOrder, s, "previous swap matures %s", utils.FormatDate(in.Swaps[i-1].MaturityDate()))
		}
	}
	if err := checkCouponGrid(in.Swaps); err != nil {
		return Instruments{}, "", err
	}

	if len(in.Deposits) > 0 && len(in.FRAs) > 0 {
		if !in.FRAs[0].MaturityDate().After(in.Deposits[len(in.Deposits)-1].MaturityDate()) {
			return Instruments{}, "", fail(ErrFRAAfterDeposit, in.FRAs[0], "last deposit matures %s", utils.FormatDate(in.Deposits[len(in.Deposits)-1].MaturityDate()))
		}
	}
	if len(in.FRAs) > 0 && len(in.Swaps) > 0 {
		if !in.Swaps[0].MaturityDate().After(in.FRAs[len(in.FRAs)-1].MaturityDate()) {
			return Instruments{}, "", fail(ErrSwapAfterFRA, in.Swaps[0], "last FRA matures %s", utils.FormatDate(in.FRAs[len(in.FRAs)-1].MaturityDate()))
		}
	}
	if len(in.Deposits) > 0 && len(in.Swaps) > 0 {
		if !in.Swaps[0].MaturityDate().After(in.Deposits[len(in.Deposits)-1].MaturityDate()) {
			return Instruments{}, "", fail(ErrSwapAfterDeposit, in.Swaps[0], "last deposit matures %s", utils.FormatDate(in.Deposits[len(in.Deposits)-1].MaturityDate()))
		}
	}

	used := in.clone()
	if needsBridge(valuation, in) {
		if len(in.Deposits) == 0 {
			return Instruments{}, "", fail(ErrShortEndUnpinned, in.Swaps[0], "swaps start %s after valuation date %s", utils.FormatDate(in.Swaps[0].StartDate()), utils.FormatDate(valuation))
		}
		first := in.Deposits[0]
		bridge, err := makeBridgingDeposit(first, valuation, first.StartDate())
		if err != nil {
			return Instruments{}, "", fail(ErrShortEndUnpinned, first, "%v", err)
		}
		used.Deposits = append([]*swap.Deposit{bridge}, used.Deposits...)
	}

	var basis utils.DayCount
	if len(used.Swaps) > 0 {
		basis = used.Swaps[0].FloatLeg().Convention().DayCount
	}
	return used, basis, nil
}

// checkCouponGrid requires every swap's fixed payment dates to be a prefix
// of the longest swap's, so all swaps share one date grid.
func checkCouponGrid(swaps []*swap.Swap) error {
	if len(swaps) < 2 {
		return nil
	}
	longest := swaps[len(swaps)-1].FixedLeg().PaymentDates()
	for _, s := range swaps[:len(swaps)-1] {
		dates := s.FixedLeg().PaymentDates()
		if len(dates) > len(longest) {
			return fail(ErrSwapCouponGrid, s, "%d coupons, longest swap has %d", len(dates), len(longest))
		}
		for i, d := range dates {
			if !d.Equal(longest[i]) {
				return fail(ErrSwapCouponGrid, s, "coupon %d on %s, longest swap pays %s", i+1, utils.FormatDate(d), utils.FormatDate(longest[i]))
			}
		}
	}
	return nil
}

// needsBridge reports whether deposits or swaps are present and every one of
// them starts after the valuation date.
func needsBridge(valuation time.Time, in Instruments) bool {
	if len(in.Deposits)+len(in.Swaps) == 0 {
		return false
	}
	for _, d := range in.Deposits {
		if !d.StartDate().After(valuation) {
			return false
		}
	}
	for _, s := range in.Swaps {
		if !s.StartDate().After(valuation) {
			return false
		}
	}
	return true
}

// makeBridgingDeposit returns a new deposit with the terms of ref accruing
// from start to maturity. ref is not modified.
func makeBridgingDeposit(ref *swap.Deposit, start, maturity time.Time) (*swap.Deposit, error) {
	return ref.Redated(start, maturity)
}
