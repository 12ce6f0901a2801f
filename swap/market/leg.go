package market

import (
	"fmt"
	"strings"

	"github.com/meenmo/curvelib/calendar"
	"github.com/meenmo/curvelib/utils"
)

// LegType says whether a leg's cashflows are paid or received.
type LegType string

const (
	LegPay     LegType = "PAY"
	LegReceive LegType = "RECEIVE"
)

// Opposite returns the other side of the swap.
func (l LegType) Opposite() LegType {
	if l == LegPay {
		return LegReceive
	}
	return LegPay
}

// Sign is -1 for a paid leg and +1 for a received leg.
func (l LegType) Sign() float64 {
	if l == LegPay {
		return -1.0
	}
	return 1.0
}

// ParseLegType accepts PAY/REC/RECEIVE in any case.
func ParseLegType(s string) (LegType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PAY", "PAYER":
		return LegPay, nil
	case "REC", "RECEIVE", "RECEIVER":
		return LegReceive, nil
	default:
		return "", fmt.Errorf("ParseLegType: unknown leg type %q", s)
	}
}

// Frequency enumerates payment frequencies in months.
type Frequency int

const (
	FreqAnnual    Frequency = 12
	FreqSemi      Frequency = 6
	FreqQuarterly Frequency = 3
	FreqMonthly   Frequency = 1
)

// Months returns the length of one period in months.
func (f Frequency) Months() int {
	return int(f)
}

// ParseFrequency accepts names such as "ANNUAL", "SEMI_ANNUAL", "3M".
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ANNUAL", "1Y", "12M":
		return FreqAnnual, nil
	case "SEMI_ANNUAL", "SEMI", "6M":
		return FreqSemi, nil
	case "QUARTERLY", "3M":
		return FreqQuarterly, nil
	case "MONTHLY", "1M":
		return FreqMonthly, nil
	default:
		return 0, fmt.Errorf("ParseFrequency: unknown frequency %q", s)
	}
}

// DateGenRule controls the direction in which schedule dates are rolled.
type DateGenRule string

const (
	// ScheduleForward rolls from the effective date, leaving any stub at the back.
	ScheduleForward DateGenRule = "FORWARD"
	// ScheduleBackward rolls from the termination date, leaving any stub at the front.
	ScheduleBackward DateGenRule = "BACKWARD"
)

// LegConvention captures the conventions of one swap leg.
type LegConvention struct {
	Frequency             Frequency
	DayCount              utils.DayCount
	Calendar              calendar.CalendarID
	BusinessDayAdjustment calendar.BusinessDayAdjustment
	DateGenRule           DateGenRule
	EndOfMonth            bool
	PaymentLagDays        int
}
