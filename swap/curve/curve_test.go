package curve_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/curvelib/swap/curve"
	"github.com/meenmo/curvelib/swap/curve/interp"
	"github.com/meenmo/curvelib/utils"
)

var valuation = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func sampleCurve(t *testing.T) *curve.Curve {
	t.Helper()
	c, err := curve.New(valuation,
		[]float64{0, 0.5, 1, 2, 5},
		[]float64{1, 0.98, 0.96, 0.92, 0.80},
		interp.FlatFwdRates,
		curve.WithIndexDayCount(utils.Act360),
	)
	require.NoError(t, err)
	return c
}

func TestDFAtValuationIsExactlyOne(t *testing.T) {
	t.Parallel()

	c := sampleCurve(t)
	assert.Equal(t, 1.0, c.DF(valuation))
	assert.Equal(t, 1.0, curve.NewFlat(valuation, 0.05).DF(valuation))
}

func TestCurveCopiesGrid(t *testing.T) {
	t.Parallel()

	times := []float64{0, 1, 2}
	dfs := []float64{1, 0.95, 0.90}
	c, err := curve.New(valuation, times, dfs, interp.LinearZeroRates)
	require.NoError(t, err)

	dfs[2] = 0.5
	assert.InDelta(t, 0.90, c.DFAt(2), 1e-14)

	got := c.DFs()
	got[1] = 0.1
	assert.InDelta(t, 0.95, c.DFAt(1), 1e-14)
	assert.Equal(t, []float64{0, 1, 2}, c.Times())
	assert.Equal(t, interp.LinearZeroRates, c.Interp())
}

func TestNewRejectsBadGrid(t *testing.T) {
	t.Parallel()

	_, err := curve.New(valuation, []float64{0.1, 1}, []float64{1, 0.9}, interp.FlatFwdRates)
	assert.ErrorIs(t, err, interp.ErrInvalidGrid)

	_, err = curve.New(valuation, []float64{0, 1}, []float64{1}, interp.FlatFwdRates)
	assert.ErrorIs(t, err, interp.ErrInvalidGrid)

	_, err = curve.New(valuation, []float64{0, 1, 0.5}, []float64{1, 0.9, 0.95}, interp.FlatFwdRates)
	assert.ErrorIs(t, err, interp.ErrInvalidGrid)
}

func TestZeroRate(t *testing.T) {
	t.Parallel()

	c := sampleCurve(t)
	_, err := c.ZeroRate(valuation)
	assert.ErrorIs(t, err, curve.ErrDomain)
	_, err = c.ZeroRate(valuation.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, curve.ErrDomain)

	d := valuation.AddDate(1, 0, 0)
	tm := c.Time(d)
	z, err := c.ZeroRate(d)
	require.NoError(t, err)
	assert.InDelta(t, -math.Log(c.DF(d))/tm, z, 1e-15)
}

func TestForwardRate(t *testing.T) {
	t.Parallel()

	c := sampleCurve(t)
	d1 := valuation.AddDate(0, 3, 0)
	d2 := valuation.AddDate(0, 6, 0)
	fwd, err := c.ForwardRate(d1, d2, utils.Act360)
	require.NoError(t, err)

	alpha := utils.YearFraction(d1, d2, utils.Act360)
	assert.InDelta(t, (c.DF(d1)/c.DF(d2)-1)/alpha, fwd, 1e-15)

	_, err = c.ForwardRate(d2, d1, utils.Act360)
	assert.ErrorIs(t, err, curve.ErrDomain)
	_, err = c.ForwardRate(d1, d1, utils.Act360)
	assert.ErrorIs(t, err, curve.ErrDomain)
	_, err = curve.ForwardRate(nil, d1, d2, utils.Act360)
	assert.ErrorIs(t, err, curve.ErrNilCurve)
}

func TestFlatCurve(t *testing.T) {
	t.Parallel()

	f := curve.NewFlat(valuation, 0.03)
	d := valuation.AddDate(2, 0, 0)
	tm := curve.YearsBetween(valuation, d, 365.242)
	assert.InDelta(t, math.Exp(-0.03*tm), f.DF(d), 1e-15)

	z, err := f.ZeroRate(d)
	require.NoError(t, err)
	assert.Equal(t, 0.03, z)
	_, err = f.ZeroRate(valuation)
	assert.ErrorIs(t, err, curve.ErrDomain)
}

func TestBatchQueries(t *testing.T) {
	t.Parallel()

	c := sampleCurve(t)
	dates := []time.Time{valuation.AddDate(0, 6, 0), valuation.AddDate(1, 0, 0), valuation.AddDate(3, 0, 0)}

	dfs, err := curve.DiscountFactors(c, dates)
	require.NoError(t, err)
	zeros, err := curve.ZeroRates(c, dates)
	require.NoError(t, err)
	for i, d := range dates {
		assert.Equal(t, c.DF(d), dfs[i])
		assert.InDelta(t, -math.Log(dfs[i])/c.Time(d), zeros[i], 1e-15)
	}

	_, err = curve.ZeroRates(c, []time.Time{valuation})
	assert.ErrorIs(t, err, curve.ErrDomain)
	_, err = curve.DiscountFactors(nil, dates)
	assert.ErrorIs(t, err, curve.ErrNilCurve)
}

func TestNewFromDates(t *testing.T) {
	t.Parallel()

	d1 := valuation.AddDate(1, 0, 0)
	d2 := valuation.AddDate(2, 0, 0)
	c, err := curve.NewFromDates(valuation, map[time.Time]float64{d2: 0.92, d1: 0.96, valuation: 1}, interp.FlatFwdRates)
	require.NoError(t, err)
	assert.InDelta(t, 0.96, c.DF(d1), 1e-14)
	assert.InDelta(t, 0.92, c.DF(d2), 1e-14)
	assert.Len(t, c.Times(), 3)

	_, err = curve.NewFromDates(valuation, map[time.Time]float64{valuation.AddDate(0, 0, -1): 1.001}, interp.FlatFwdRates)
	assert.ErrorIs(t, err, interp.ErrInvalidGrid)

	_, err = curve.NewFromDates(valuation, map[time.Time]float64{valuation: 0.99, d1: 0.96}, interp.FlatFwdRates)
	assert.ErrorIs(t, err, interp.ErrInvalidGrid)
}

func TestIndexDayCount(t *testing.T) {
	t.Parallel()

	dc, ok := sampleCurve(t).IndexDayCount()
	assert.True(t, ok)
	assert.Equal(t, utils.Act360, dc)

	c, err := curve.New(valuation, []float64{0, 1}, []float64{1, 0.95}, interp.FlatFwdRates)
	require.NoError(t, err)
	_, ok = c.IndexDayCount()
	assert.False(t, ok)
}
