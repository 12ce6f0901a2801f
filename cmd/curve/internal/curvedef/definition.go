// Package curvedef reads TOML curve definitions and builds the curves they
// describe.
//
// Conventions:
// - rates are in percent (e.g., 3.25 means 3.25%)
// - spreads are in bp
// - dates are YYYY-MM-DD
package curvedef

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/meenmo/curvelib/instruments/swaps"
	"github.com/meenmo/curvelib/swap"
	"github.com/meenmo/curvelib/swap/curve/interp"
	"github.com/meenmo/curvelib/swap/ibor"
	"github.com/meenmo/curvelib/swap/market"
	"github.com/meenmo/curvelib/utils"
)

// File is the top level of a definition file.
type File struct {
	ValuationDate string  `toml:"valuation_date"`
	Interp        string  `toml:"interp"`
	CheckRefit    bool    `toml:"check_refit"`
	Curves        []Curve `toml:"curve"`
}

// Curve defines one curve. Discount names another curve of the file to
// discount on; DiscountRatePct discounts on a flat continuously-compounded
// rate instead. With neither the curve is built as a single curve.
type Curve struct {
	Name            string   `toml:"name"`
	Preset          string   `toml:"preset"`
	Interp          string   `toml:"interp"`
	Discount        string   `toml:"discount"`
	DiscountRatePct *float64 `toml:"discount_rate"`

	Deposits []Deposit `toml:"deposit"`
	FRAs     []FRA     `toml:"fra"`
	Swaps    []Swap    `toml:"swap"`
}

type Deposit struct {
	Start    string  `toml:"start"`
	Maturity string  `toml:"maturity"`
	Tenor    string  `toml:"tenor"`
	RatePct  float64 `toml:"rate"`
	DayCount string  `toml:"day_count"`
	Notional float64 `toml:"notional"`
}

type FRA struct {
	Start    string  `toml:"start"`
	Maturity string  `toml:"maturity"`
	Tenor    string  `toml:"tenor"`
	RatePct  float64 `toml:"rate"`
	DayCount string  `toml:"day_count"`
	Notional float64 `toml:"notional"`
	PayFixed bool    `toml:"pay_fixed"`
}

type Swap struct {
	Start        string  `toml:"start"`
	Maturity     string  `toml:"maturity"`
	Tenor        string  `toml:"tenor"`
	RatePct      float64 `toml:"rate"`
	FixedLegType string  `toml:"fixed_leg_type"`
	SpreadBP     float64 `toml:"float_spread_bp"`
	Notional     float64 `toml:"notional"`

	FixedFrequency string `toml:"fixed_frequency"`
	FixedDayCount  string `toml:"fixed_day_count"`
	FloatFrequency string `toml:"float_frequency"`
	FloatDayCount  string `toml:"float_day_count"`
}

// Spec is a resolved curve definition ready to build.
type Spec struct {
	Name string
	// Discount is the name of the curve to discount on, or "".
	Discount     string
	FlatDiscount *float64
	Params       ibor.Params
}

// Dual reports whether the curve is built against a separate discount curve.
func (s Spec) Dual() bool {
	return s.Discount != "" || s.FlatDiscount != nil
}

// Parse decodes a definition and rejects unknown keys.
func Parse(r io.Reader) (File, error) {
	var f File
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return File{}, fmt.Errorf("Parse: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return File{}, fmt.Errorf("Parse: unknown keys %s", strings.Join(keys, ", "))
	}
	return f, nil
}

// Resolve turns the definition into instruments and build parameters.
func (f File) Resolve() ([]Spec, error) {
	valuation, err := utils.ParseDate(f.ValuationDate)
	if err != nil {
		return nil, fmt.Errorf("Resolve: invalid valuation_date: %w", err)
	}
	if len(f.Curves) == 0 {
		return nil, fmt.Errorf("Resolve: no [[curve]] defined")
	}

	seen := make(map[string]bool, len(f.Curves))
	out := make([]Spec, 0, len(f.Curves))
	for i, c := range f.Curves {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("Resolve: curve %d has no name", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("Resolve: duplicate curve %q", name)
		}
		seen[name] = true

		spec, err := c.resolve(valuation, f.Interp, f.CheckRefit)
		if err != nil {
			return nil, fmt.Errorf("Resolve: curve %q: %w", name, err)
		}
		spec.Name = name
		out = append(out, spec)
	}

	for _, s := range out {
		if s.Discount == "" {
			continue
		}
		if s.Discount == s.Name {
			return nil, fmt.Errorf("Resolve: curve %q discounts on itself", s.Name)
		}
		if !seen[s.Discount] {
			return nil, fmt.Errorf("Resolve: curve %q discounts on unknown curve %q", s.Name, s.Discount)
		}
	}
	return out, nil
}

func (c Curve) resolve(valuation time.Time, defaultInterp string, checkRefit bool) (Spec, error) {
	name := c.Interp
	if strings.TrimSpace(name) == "" {
		name = defaultInterp
	}
	kind, err := interp.ParseType(name)
	if err != nil {
		return Spec{}, err
	}
	if c.Discount != "" && c.DiscountRatePct != nil {
		return Spec{}, fmt.Errorf("both discount and discount_rate given")
	}

	var preset swaps.IborPreset
	spot := valuation
	if c.Preset != "" {
		if preset, err = swaps.Lookup(c.Preset); err != nil {
			return Spec{}, err
		}
		spot = preset.SpotDate(valuation)
	}

	p := ibor.Params{
		ValuationDate: valuation,
		Interp:        kind,
		CheckRefit:    checkRefit,
	}
	for i, d := range c.Deposits {
		dep, err := d.build(spot, preset)
		if err != nil {
			return Spec{}, fmt.Errorf("deposit %d: %w", i+1, err)
		}
		p.Deposits = append(p.Deposits, dep)
	}
	for i, d := range c.FRAs {
		fra, err := d.build(preset)
		if err != nil {
			return Spec{}, fmt.Errorf("fra %d: %w", i+1, err)
		}
		p.FRAs = append(p.FRAs, fra)
	}
	for i, d := range c.Swaps {
		sw, err := d.build(spot, preset)
		if err != nil {
			return Spec{}, fmt.Errorf("swap %d: %w", i+1, err)
		}
		p.Swaps = append(p.Swaps, sw)
	}

	spec := Spec{Discount: strings.TrimSpace(c.Discount), Params: p}
	if c.DiscountRatePct != nil {
		r := *c.DiscountRatePct / 100.0
		spec.FlatDiscount = &r
	}
	return spec, nil
}

func (d Deposit) build(spot time.Time, preset swaps.IborPreset) (*swap.Deposit, error) {
	start, err := optionalDate(d.Start, spot)
	if err != nil {
		return nil, err
	}
	maturity, err := optionalDate(d.Maturity, time.Time{})
	if err != nil {
		return nil, err
	}
	dc, err := dayCount(d.DayCount, preset.DepositDayCount)
	if err != nil {
		return nil, err
	}
	return swap.NewDeposit(swap.DepositParams{
		StartDate:             start,
		MaturityDate:          maturity,
		Tenor:                 d.Tenor,
		Rate:                  d.RatePct / 100.0,
		DayCount:              dc,
		Notional:              d.Notional,
		Calendar:              preset.FloatLeg.Calendar,
		BusinessDayAdjustment: preset.FloatLeg.BusinessDayAdjustment,
	})
}

func (d FRA) build(preset swaps.IborPreset) (*swap.FRA, error) {
	if strings.TrimSpace(d.Start) == "" {
		return nil, fmt.Errorf("start is required")
	}
	start, err := utils.ParseDate(d.Start)
	if err != nil {
		return nil, err
	}
	maturity, err := optionalDate(d.Maturity, time.Time{})
	if err != nil {
		return nil, err
	}
	dc, err := dayCount(d.DayCount, preset.FloatLeg.DayCount)
	if err != nil {
		return nil, err
	}
	return swap.NewFRA(swap.FRAParams{
		StartDate:             start,
		MaturityDate:          maturity,
		Tenor:                 d.Tenor,
		Rate:                  d.RatePct / 100.0,
		DayCount:              dc,
		Notional:              d.Notional,
		PayFixed:              d.PayFixed,
		Calendar:              preset.FloatLeg.Calendar,
		BusinessDayAdjustment: preset.FloatLeg.BusinessDayAdjustment,
	})
}

func (d Swap) build(spot time.Time, preset swaps.IborPreset) (*swap.Swap, error) {
	start, err := optionalDate(d.Start, spot)
	if err != nil {
		return nil, err
	}
	maturity, err := optionalDate(d.Maturity, time.Time{})
	if err != nil {
		return nil, err
	}

	var legType market.LegType
	if strings.TrimSpace(d.FixedLegType) != "" {
		if legType, err = market.ParseLegType(d.FixedLegType); err != nil {
			return nil, err
		}
	}

	fixed := preset.FixedLeg
	if err := override(&fixed, d.FixedFrequency, d.FixedDayCount); err != nil {
		return nil, fmt.Errorf("fixed leg: %w", err)
	}
	float := preset.FloatLeg
	if err := override(&float, d.FloatFrequency, d.FloatDayCount); err != nil {
		return nil, fmt.Errorf("float leg: %w", err)
	}

	return swap.NewSwap(swap.SwapParams{
		EffectiveDate:   start,
		TerminationDate: maturity,
		Tenor:           d.Tenor,
		FixedLegType:    legType,
		FixedCoupon:     d.RatePct / 100.0,
		FixedLeg:        fixed,
		FloatSpread:     d.SpreadBP / 10000.0,
		FloatLeg:        float,
		Notional:        d.Notional,
	})
}

func override(leg *market.LegConvention, frequency, dc string) error {
	if strings.TrimSpace(frequency) != "" {
		f, err := market.ParseFrequency(frequency)
		if err != nil {
			return err
		}
		leg.Frequency = f
	}
	if strings.TrimSpace(dc) != "" {
		d, err := utils.ParseDayCount(dc)
		if err != nil {
			return err
		}
		leg.DayCount = d
	}
	return nil
}

func optionalDate(s string, def time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return utils.ParseDate(s)
}

func dayCount(s string, def utils.DayCount) (utils.DayCount, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return utils.ParseDayCount(s)
}
