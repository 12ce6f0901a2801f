package interp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/curvelib/swap/curve/interp"
)

var (
	gridTimes = []float64{0, 0.25, 0.5, 1, 2, 5, 10}
	gridDFs   = []float64{1, 0.9876, 0.9751, 0.9502, 0.9031, 0.7788, 0.6065}
)

func fitted(t *testing.T, kind interp.Type) *interp.Interpolator {
	t.Helper()
	ip, err := interp.New(kind)
	require.NoError(t, err)
	require.NoError(t, ip.Fit(gridTimes, gridDFs))
	return ip
}

func TestReproducesGridPoints(t *testing.T) {
	t.Parallel()

	for _, kind := range interp.Types() {
		t.Run(kind.String(), func(t *testing.T) {
			ip := fitted(t, kind)
			for i, tm := range gridTimes {
				assert.InDelta(t, gridDFs[i], ip.DF(tm), 1e-12, "t=%g", tm)
			}
			assert.Equal(t, 1.0, ip.DF(0))
		})
	}
}

func TestFlatForwardIsLogLinear(t *testing.T) {
	t.Parallel()

	ip := fitted(t, interp.FlatFwdRates)
	mid := 0.5 * (gridTimes[4] + gridTimes[5])
	assert.InDelta(t, math.Sqrt(gridDFs[4]*gridDFs[5]), ip.DF(mid), 1e-14)

	// forward rate constant inside a segment
	f1 := math.Log(ip.DF(2.5)/ip.DF(3.0)) / 0.5
	f2 := math.Log(ip.DF(4.0)/ip.DF(4.5)) / 0.5
	assert.InDelta(t, f1, f2, 1e-12)
}

func TestLinearZeroRates(t *testing.T) {
	t.Parallel()

	ip := fitted(t, interp.LinearZeroRates)
	z4 := -math.Log(gridDFs[4]) / gridTimes[4]
	z5 := -math.Log(gridDFs[5]) / gridTimes[5]
	tm := 3.5
	want := math.Exp(-(z4 + (z5-z4)*(tm-2)/3) * tm)
	assert.InDelta(t, want, ip.DF(tm), 1e-14)
}

func TestExtrapolationFlatZero(t *testing.T) {
	t.Parallel()

	for _, kind := range interp.Types() {
		ip := fitted(t, kind)
		zLast := -math.Log(gridDFs[len(gridDFs)-1]) / gridTimes[len(gridTimes)-1]
		assert.InDelta(t, math.Exp(-zLast*15), ip.DF(15), 1e-14, kind.String())

		zFirst := -math.Log(gridDFs[1]) / gridTimes[1]
		assert.InDelta(t, math.Exp(zFirst*0.1), ip.DF(-0.1), 1e-14, kind.String())
	}
}

func TestFitIsIdempotent(t *testing.T) {
	t.Parallel()

	for _, kind := range interp.Types() {
		ip := fitted(t, kind)
		probes := []float64{0.1, 0.7, 1.3, 3.3, 7.7, 12}
		first := make([]float64, len(probes))
		for i, p := range probes {
			first[i] = ip.DF(p)
		}
		require.NoError(t, ip.Fit(gridTimes, gridDFs))
		for i, p := range probes {
			assert.Equal(t, first[i], ip.DF(p), "%s t=%g", kind, p)
		}
	}
}

func TestRefitSeesMutatedTrailingPoint(t *testing.T) {
	t.Parallel()

	times := []float64{0, 1, 2}
	dfs := []float64{1, 0.95, 0.90}
	ip, err := interp.New(interp.NatCubicLogDiscount)
	require.NoError(t, err)
	require.NoError(t, ip.Fit(times, dfs))
	before := ip.DF(1.5)

	dfs[2] = 0.85
	require.NoError(t, ip.Fit(times, dfs))
	assert.InDelta(t, 0.85, ip.DF(2), 1e-14)
	assert.Less(t, ip.DF(1.5), before)
}

func TestMonotoneSchemesKeepDecreasing(t *testing.T) {
	t.Parallel()

	ip := fitted(t, interp.PchipLogDiscount)
	prev := ip.DF(0)
	for tm := 0.01; tm <= 12; tm += 0.01 {
		df := ip.DF(tm)
		assert.LessOrEqual(t, df, prev+1e-15, "t=%g", tm)
		prev = df
	}
}

func TestSmallGrids(t *testing.T) {
	t.Parallel()

	for _, kind := range interp.Types() {
		ip, err := interp.New(kind)
		require.NoError(t, err)

		require.NoError(t, ip.Fit([]float64{0}, []float64{1}))
		assert.Equal(t, 1.0, ip.DF(0))
		assert.Equal(t, 1.0, ip.DF(3))

		require.NoError(t, ip.Fit([]float64{0, 1}, []float64{1, 0.95}))
		assert.InDelta(t, 0.95, ip.DF(1), 1e-15)
		assert.Greater(t, ip.DF(0.5), 0.95)
		assert.Less(t, ip.DF(0.5), 1.0)
	}
}

func TestInvalidGrids(t *testing.T) {
	t.Parallel()

	ip, err := interp.New(interp.FlatFwdRates)
	require.NoError(t, err)

	cases := map[string][2][]float64{
		"empty":          {{}, {}},
		"length":         {{0, 1}, {1}},
		"not increasing": {{0, 1, 1}, {1, 0.9, 0.8}},
		"negative df":    {{0, 1}, {1, -0.1}},
		"negative time":  {{-1, 1}, {1, 0.9}},
		"nan":            {{0, math.NaN()}, {1, 0.9}},
	}
	for name, c := range cases {
		err := ip.Fit(c[0], c[1])
		assert.ErrorIs(t, err, interp.ErrInvalidGrid, name)
		assert.False(t, ip.Fitted(), name)
	}
	assert.Panics(t, func() { ip.DF(1) })

	_, err = interp.New(interp.Type(99))
	assert.Error(t, err)
}

func TestParseType(t *testing.T) {
	t.Parallel()

	for _, kind := range interp.Types() {
		got, err := interp.ParseType(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}
	got, err := interp.ParseType("")
	require.NoError(t, err)
	assert.Equal(t, interp.FlatFwdRates, got)

	_, err = interp.ParseType("QUARTIC")
	assert.Error(t, err)
}
