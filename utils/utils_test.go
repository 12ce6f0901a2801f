package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/curvelib/utils"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestYearFrac(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		dc       utils.DayCount
		wantFrac float64
		wantDays int
	}{
		{"act360 quarter", date(2024, 1, 15), date(2024, 4, 15), utils.Act360, 91.0 / 360.0, 91},
		{"act365f year", date(2023, 1, 1), date(2024, 1, 1), utils.Act365F, 1.0, 365},
		{"30/360 month ends", date(2024, 1, 31), date(2024, 7, 31), utils.Thirty360, 0.5, 180},
		{"30/360 end not capped", date(2024, 1, 15), date(2024, 3, 31), utils.Thirty360, 76.0 / 360.0, 76},
		{"30E/360 end capped", date(2024, 1, 15), date(2024, 3, 31), utils.Thirty360E, 75.0 / 360.0, 75},
		{"act/act isda across years", date(2023, 7, 1), date(2024, 7, 1), utils.ActActISDA, 184.0/365.0 + 182.0/366.0, 366},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frac, days := utils.YearFrac(tt.start, tt.end, tt.dc)
			assert.InDelta(t, tt.wantFrac, frac, 1e-14)
			assert.Equal(t, tt.wantDays, days)
		})
	}
}

func TestParseDayCount(t *testing.T) {
	t.Parallel()

	dc, err := utils.ParseDayCount("act/365")
	require.NoError(t, err)
	assert.Equal(t, utils.Act365F, dc)

	_, err = utils.ParseDayCount("BUS/252")
	assert.Error(t, err)

	assert.True(t, utils.Thirty360E.Valid())
	assert.False(t, utils.DayCount("ACT360").Valid())
	assert.False(t, utils.DayCount("").Valid())
}

func TestAddTenor(t *testing.T) {
	t.Parallel()

	start := date(2024, 1, 31)
	tests := map[string]time.Time{
		"1D":  date(2024, 2, 1),
		"1W":  date(2024, 2, 7),
		"1M":  date(2024, 2, 29),
		"3M":  date(2024, 4, 30),
		"1Y":  date(2025, 1, 31),
		"-1M": date(2023, 12, 31),
	}
	for tenor, want := range tests {
		got, err := utils.AddTenor(start, tenor)
		require.NoError(t, err, tenor)
		assert.Equal(t, want, got, tenor)
	}

	for _, bad := range []string{"", "M", "3Q", "xY"} {
		_, err := utils.AddTenor(start, bad)
		assert.Error(t, err, bad)
	}
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 366, utils.DaysBetween(date(2024, 1, 1), date(2025, 1, 1)))
	assert.Equal(t, -31, utils.DaysBetween(date(2024, 2, 1), date(2024, 1, 1)))

	d, err := utils.ParseDate("2024-06-14")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-14", utils.FormatDate(d))
	assert.Equal(t, 1.2346, utils.RoundTo(1.23456, 4))
}
