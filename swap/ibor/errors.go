package ibor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/meenmo/curvelib/swap"
	"github.com/meenmo/curvelib/swap/solver"
	"github.com/meenmo/curvelib/utils"
)

// Construction rules. Every construction failure is a *ConstructionError
// whose Rule is one of these.
var (
	ErrNoInstruments          = errors.New("no calibration instruments")
	ErrDepositBeforeValuation = errors.New("deposit starts before valuation date")
	ErrDepositDates           = errors.New("deposit ends on or before it begins")
	ErrDepositOrder           = errors.New("deposits must be in increasing maturity")
	ErrFRABeforeValuation     = errors.New("FRA starts on or before valuation date")
	ErrFRAOrder               = errors.New("FRAs must be in increasing maturity")
	ErrSwapBeforeValuation    = errors.New("swap starts before valuation date")
	ErrSwapStartMismatch      = errors.New("swaps must all have the same start date")
	ErrSwapOrder              = errors.New("swaps must be in increasing maturity")
	ErrSwapCouponGrid         = errors.New("swap coupons are not on the same date grid")
	ErrFRAAfterDeposit        = errors.New("first FRA must end after last deposit")
	ErrSwapAfterFRA           = errors.New("first swap must mature after last FRA")
	ErrSwapAfterDeposit       = errors.New("first swap must mature after last deposit")
	ErrShortEndUnpinned       = errors.New("need a deposit rate to pin down short end")
	ErrGridOrder              = errors.New("curve grid times must be strictly increasing")
	ErrValuationDateMismatch  = errors.New("discount curve valuation date differs")
	ErrNotRepriced            = errors.New("instrument not repriced")
	ErrNotConverged           = solver.ErrNotConverged
)

// ConstructionError reports why a curve could not be built.
type ConstructionError struct {
	Rule       error
	Instrument swap.Instrument
	Residual   float64
	Detail     string
}

func (e *ConstructionError) Error() string {
	var b strings.Builder
	b.WriteString("curve construction: ")
	b.WriteString(e.Rule.Error())
	if e.Instrument != nil {
		fmt.Fprintf(&b, " (%s %s-%s)", e.Instrument.Kind(),
			utils.FormatDate(e.Instrument.StartDate()), utils.FormatDate(e.Instrument.MaturityDate()))
	}
	if e.Rule == ErrNotRepriced {
		fmt.Fprintf(&b, ": residual %.3e", e.Residual)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *ConstructionError) Unwrap() error {
	return e.Rule
}

func fail(rule error, inst swap.Instrument, format string, args ...any) *ConstructionError {
	return &ConstructionError{Rule: rule, Instrument: inst, Detail: fmt.Sprintf(format, args...)}
}
