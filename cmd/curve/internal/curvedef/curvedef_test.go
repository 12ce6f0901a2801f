package curvedef_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/curvelib/cmd/curve/internal/curvedef"
	"github.com/meenmo/curvelib/swap/config"
	"github.com/meenmo/curvelib/swap/curve"
	"github.com/meenmo/curvelib/swap/curve/interp"
)

const definition = `
valuation_date = "2024-03-15"
interp = "FLAT_FWD_RATES"
check_refit = true

[[curve]]
name = "EUR6M"
preset = "EURIBOR6M"
discount = "EUR3M"

  [[curve.deposit]]
  tenor = "6M"
  rate = 3.90

  [[curve.swap]]
  tenor = "2Y"
  rate = 3.40

  [[curve.swap]]
  tenor = "5Y"
  rate = 3.00

[[curve]]
name = "EUR3M"
preset = "EURIBOR3M"
interp = "LINEAR_ZERO_RATES"

  [[curve.deposit]]
  tenor = "3M"
  rate = 3.85

  [[curve.swap]]
  tenor = "2Y"
  rate = 3.30

  [[curve.swap]]
  tenor = "5Y"
  rate = 2.90

[[curve]]
name = "USD3M"
preset = "USDLIBOR3M"
discount_rate = 5.0

  [[curve.deposit]]
  tenor = "3M"
  rate = 5.30

  [[curve.fra]]
  start = "2024-06-19"
  tenor = "3M"
  rate = 5.20
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestResolve(t *testing.T) {
	t.Parallel()

	f, err := curvedef.Parse(strings.NewReader(definition))
	require.NoError(t, err)
	specs, err := f.Resolve()
	require.NoError(t, err)
	require.Len(t, specs, 3)

	eur6m := specs[0]
	assert.Equal(t, "EUR6M", eur6m.Name)
	assert.Equal(t, "EUR3M", eur6m.Discount)
	assert.True(t, eur6m.Dual())
	assert.Equal(t, interp.FlatFwdRates, eur6m.Params.Interp)
	assert.True(t, eur6m.Params.CheckRefit)

	// TARGET spot is T+2
	spot := time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC)
	require.Len(t, eur6m.Params.Deposits, 1)
	assert.Equal(t, spot, eur6m.Params.Deposits[0].StartDate())
	assert.InDelta(t, 0.039, eur6m.Params.Deposits[0].Rate(), 1e-15)
	assert.Equal(t, spot, eur6m.Params.Swaps[0].StartDate())

	assert.Equal(t, interp.LinearZeroRates, specs[1].Params.Interp)
	assert.False(t, specs[1].Dual())

	require.NotNil(t, specs[2].FlatDiscount)
	assert.InDelta(t, 0.05, *specs[2].FlatDiscount, 1e-15)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := curvedef.Parse(strings.NewReader("valuation_date = \"2024-03-15\"\ninterpolation = \"x\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interpolation")
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		toml string
		want string
	}{
		{"bad date", `valuation_date = "15/03/2024"`, "valuation_date"},
		{"no curves", `valuation_date = "2024-03-15"`, "no [[curve]]"},
		{"unknown discount", "valuation_date = \"2024-03-15\"\n[[curve]]\nname = \"A\"\ndiscount = \"B\"\n", "unknown curve"},
		{"self discount", "valuation_date = \"2024-03-15\"\n[[curve]]\nname = \"A\"\ndiscount = \"A\"\n", "itself"},
		{"duplicate", "valuation_date = \"2024-03-15\"\n[[curve]]\nname = \"A\"\n[[curve]]\nname = \"A\"\n", "duplicate"},
		{"bad interp", "valuation_date = \"2024-03-15\"\n[[curve]]\nname = \"A\"\ninterp = \"SPLINE\"\n", "unknown interpolation"},
		{"bad preset", "valuation_date = \"2024-03-15\"\n[[curve]]\nname = \"A\"\npreset = \"TIBOR\"\n", "unknown preset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, err := curvedef.Parse(strings.NewReader(tt.toml))
			require.NoError(t, err)
			_, err = f.Resolve()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuildOrdersDiscountCurves(t *testing.T) {
	t.Parallel()

	f, err := curvedef.Parse(strings.NewReader(definition))
	require.NoError(t, err)
	specs, err := f.Resolve()
	require.NoError(t, err)

	built, err := curvedef.Build(context.Background(), specs, config.DefaultConfig, quietLogger())
	require.NoError(t, err)
	require.Len(t, built, 3)

	eur6m, eur3m, usd := built[0], built[1], built[2]
	assert.Same(t, eur3m.Index, eur6m.Discount)
	assert.Same(t, eur3m.Index, eur3m.Discount)
	_, ok := usd.Discount.(*curve.Flat)
	assert.True(t, ok)

	for _, b := range built {
		rs, err := b.Residuals()
		require.NoError(t, err)
		for _, r := range rs {
			assert.True(t, r.Repriced(), "%s %s", b.Spec.Name, r.Kind)
		}
	}
}

func TestBuildDetectsCycle(t *testing.T) {
	t.Parallel()

	specs := []curvedef.Spec{
		{Name: "A", Discount: "B"},
		{Name: "B", Discount: "A"},
	}
	_, err := curvedef.Build(context.Background(), specs, config.DefaultConfig, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestBuildReportsCurve(t *testing.T) {
	t.Parallel()

	specs := []curvedef.Spec{{Name: "EMPTY"}}
	_, err := curvedef.Build(context.Background(), specs, config.DefaultConfig, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `curve "EMPTY"`)
}
