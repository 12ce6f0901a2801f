package swap

import (
	"fmt"
	"time"

	"github.com/meenmo/curvelib/calendar"
	"github.com/meenmo/curvelib/swap/market"
	"github.com/meenmo/curvelib/utils"
)

// SchedulePeriod is one accrual period of a leg.
type SchedulePeriod struct {
	StartDate   time.Time
	EndDate     time.Time
	PayDate     time.Time
	AccrualDays int
	YearFrac    float64
}

// ScheduleDates returns the ordered schedule dates from effective to termination.
//
// The first date is the effective date as given; every later date is adjusted
// with the leg's calendar and business-day convention. Intermediate dates are
// rolled from the termination date (ScheduleBackward, the default) or from the
// effective date (ScheduleForward), always as a whole number of periods from the
// anchor so that month-end clamping does not drift.
func ScheduleDates(effective, termination time.Time, leg market.LegConvention) ([]time.Time, error) {
	if !termination.After(effective) {
		return nil, fmt.Errorf("ScheduleDates: termination %s not after effective %s", utils.FormatDate(termination), utils.FormatDate(effective))
	}
	months := leg.Frequency.Months()
	if months <= 0 {
		return nil, fmt.Errorf("ScheduleDates: unsupported frequency %d", leg.Frequency)
	}

	var unadjusted []time.Time
	switch leg.DateGenRule {
	case market.ScheduleForward:
		unadjusted = rollForward(effective, termination, months, leg.EndOfMonth)
	case market.ScheduleBackward, "":
		unadjusted = rollBackward(effective, termination, months, leg.EndOfMonth)
	default:
		return nil, fmt.Errorf("ScheduleDates: unknown date generation rule %q", leg.DateGenRule)
	}

	dates := make([]time.Time, 0, len(unadjusted))
	dates = append(dates, effective)
	for _, d := range unadjusted[1:] {
		adj := calendar.AdjustWith(leg.Calendar, d, leg.BusinessDayAdjustment)
		if !adj.After(dates[len(dates)-1]) {
			// adjustment collapsed a short stub into its neighbour
			continue
		}
		dates = append(dates, adj)
	}
	if len(dates) < 2 {
		return nil, fmt.Errorf("ScheduleDates: schedule from %s to %s has fewer than two dates", utils.FormatDate(effective), utils.FormatDate(termination))
	}
	return dates, nil
}

func rollBackward(effective, termination time.Time, months int, eom bool) []time.Time {
	dates := []time.Time{termination}
	for n := 1; ; n++ {
		next := utils.AddMonth(termination, -n*months)
		if eom && calendar.IsEndOfMonth(termination) {
			next = endOfMonth(next)
		}
		if !next.After(effective) {
			break
		}
		dates = append(dates, next)
	}
	dates = append(dates, effective)
	for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
		dates[i], dates[j] = dates[j], dates[i]
	}
	return dates
}

func rollForward(effective, termination time.Time, months int, eom bool) []time.Time {
	dates := []time.Time{effective}
	for n := 1; ; n++ {
		next := utils.AddMonth(effective, n*months)
		if eom && calendar.IsEndOfMonth(effective) {
			next = endOfMonth(next)
		}
		if !next.Before(termination) {
			break
		}
		dates = append(dates, next)
	}
	return append(dates, termination)
}

func endOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

// GenerateSchedule builds the accrual periods of a leg. Payment dates are
// the accrual end dates moved by the leg's payment lag in business days.
func GenerateSchedule(effective, termination time.Time, leg market.LegConvention) ([]SchedulePeriod, error) {
	dates, err := ScheduleDates(effective, termination, leg)
	if err != nil {
		return nil, err
	}
	periods := make([]SchedulePeriod, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		start, end := dates[i-1], dates[i]
		pay := end
		if leg.PaymentLagDays != 0 {
			pay = calendar.AddBusinessDays(leg.Calendar, end, leg.PaymentLagDays)
		}
		yf, days := utils.YearFrac(start, end, leg.DayCount)
		periods = append(periods, SchedulePeriod{
			StartDate:   start,
			EndDate:     end,
			PayDate:     pay,
			AccrualDays: days,
			YearFrac:    yf,
		})
	}
	return periods, nil
}

// resolveMaturity turns a maturity given as a date or a tenor into a date.
// Tenors are rolled from start and adjusted; explicit dates are used as given.
func resolveMaturity(start, maturity time.Time, tenor string, cal calendar.CalendarID, bda calendar.BusinessDayAdjustment) (time.Time, error) {
	switch {
	case !maturity.IsZero() && tenor != "":
		return time.Time{}, fmt.Errorf("both maturity date and tenor %q given", tenor)
	case !maturity.IsZero():
		return maturity, nil
	case tenor == "":
		return time.Time{}, fmt.Errorf("maturity date or tenor required")
	}
	end, err := utils.AddTenor(start, tenor)
	if err != nil {
		return time.Time{}, err
	}
	return calendar.AdjustWith(cal, end, bda), nil
}
