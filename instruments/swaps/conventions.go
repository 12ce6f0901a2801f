package swaps

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/meenmo/curvelib/calendar"
	"github.com/meenmo/curvelib/swap/market"
	"github.com/meenmo/curvelib/utils"
)

// IborPreset groups the conventions of the deposits and fixed-vs-Ibor swaps
// quoted on one index.
type IborPreset struct {
	Name string

	FixedLeg market.LegConvention
	FloatLeg market.LegConvention

	DepositDayCount utils.DayCount
	// SpotLagDays is the number of business days from trade to spot.
	SpotLagDays int
}

// SpotDate rolls tradeDate forward by the preset's spot lag.
func (p IborPreset) SpotDate(tradeDate time.Time) time.Time {
	if p.SpotLagDays == 0 {
		return calendar.AdjustWith(p.FloatLeg.Calendar, tradeDate, calendar.Following)
	}
	return calendar.AddBusinessDays(p.FloatLeg.Calendar, tradeDate, p.SpotLagDays)
}

// Preset leg conventions.
var (
	EURIBOR3MFloat = market.LegConvention{
		Frequency:             market.FreqQuarterly,
		DayCount:              utils.Act360,
		Calendar:              calendar.TARGET,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		DateGenRule:           market.ScheduleBackward,
	}

	EURIBOR6MFloat = market.LegConvention{
		Frequency:             market.FreqSemi,
		DayCount:              utils.Act360,
		Calendar:              calendar.TARGET,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		DateGenRule:           market.ScheduleBackward,
	}

	// EUR Ibor IRS fixed leg: annual 30E/360 on TARGET.
	EuriborFixed = market.LegConvention{
		Frequency:             market.FreqAnnual,
		DayCount:              utils.Thirty360E,
		Calendar:              calendar.TARGET,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		DateGenRule:           market.ScheduleBackward,
	}

	// No US holiday calendar is modelled; weekends only.
	USDLIBOR3MFloat = market.LegConvention{
		Frequency:             market.FreqQuarterly,
		DayCount:              utils.Act360,
		Calendar:              calendar.WEEKEND,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		DateGenRule:           market.ScheduleBackward,
	}

	USDFixedSemi = market.LegConvention{
		Frequency:             market.FreqSemi,
		DayCount:              utils.Thirty360,
		Calendar:              calendar.WEEKEND,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		DateGenRule:           market.ScheduleBackward,
	}

	GBPLIBOR6MFloat = market.LegConvention{
		Frequency:             market.FreqSemi,
		DayCount:              utils.Act365F,
		Calendar:              calendar.WEEKEND,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		DateGenRule:           market.ScheduleBackward,
	}

	GBPFixedSemi = market.LegConvention{
		Frequency:             market.FreqSemi,
		DayCount:              utils.Act365F,
		Calendar:              calendar.WEEKEND,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		DateGenRule:           market.ScheduleBackward,
	}
)

// Preset Ibor structures.
var (
	Euribor3M = IborPreset{
		Name:            "EURIBOR3M",
		FixedLeg:        EuriborFixed,
		FloatLeg:        EURIBOR3MFloat,
		DepositDayCount: utils.Act360,
		SpotLagDays:     2,
	}

	Euribor6M = IborPreset{
		Name:            "EURIBOR6M",
		FixedLeg:        EuriborFixed,
		FloatLeg:        EURIBOR6MFloat,
		DepositDayCount: utils.Act360,
		SpotLagDays:     2,
	}

	USDLibor3M = IborPreset{
		Name:            "USDLIBOR3M",
		FixedLeg:        USDFixedSemi,
		FloatLeg:        USDLIBOR3MFloat,
		DepositDayCount: utils.Act360,
		SpotLagDays:     2,
	}

	// Sterling settles same day.
	GBPLibor6M = IborPreset{
		Name:            "GBPLIBOR6M",
		FixedLeg:        GBPFixedSemi,
		FloatLeg:        GBPLIBOR6MFloat,
		DepositDayCount: utils.Act365F,
	}
)

var presets = map[string]IborPreset{
	Euribor3M.Name:  Euribor3M,
	Euribor6M.Name:  Euribor6M,
	USDLibor3M.Name: USDLibor3M,
	GBPLibor6M.Name: GBPLibor6M,
}

// Lookup finds a preset by name, ignoring case, spaces and underscores
// ("euribor_6m" finds EURIBOR6M).
func Lookup(name string) (IborPreset, error) {
	norm := strings.ToUpper(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(name))
	if p, ok := presets[norm]; ok {
		return p, nil
	}
	return IborPreset{}, fmt.Errorf("Lookup: unknown preset %q (known: %s)", name, strings.Join(Names(), ", "))
}

// Names lists the preset names in sorted order.
func Names() []string {
	out := make([]string, 0, len(presets))
	for name := range presets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
