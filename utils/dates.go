package utils

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// SortDates sorts a slice of time.Time in ascending order.
func SortDates(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
}

// ParseDate converts YYYY-MM-DD to a UTC midnight time.Time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDate: %w", err)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// DaysBetween returns the whole number of calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(e.Sub(s).Hours() / 24))
}

// Days returns the calendar day count between two dates as a float.
func Days(start, end time.Time) float64 {
	return float64(DaysBetween(start, end))
}

// AddMonth behaves like Excel's EDATE, avoiding Go's month normalization surprises.
func AddMonth(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	last := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// AddTenor rolls t by a tenor such as "1D", "2W", "3M" or "10Y".
// Month and year tenors use AddMonth.
func AddTenor(t time.Time, tenor string) (time.Time, error) {
	s := strings.ToUpper(strings.TrimSpace(tenor))
	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("AddTenor: invalid tenor %q", tenor)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return time.Time{}, fmt.Errorf("AddTenor: invalid tenor %q", tenor)
	}
	switch s[len(s)-1] {
	case 'D':
		return t.AddDate(0, 0, n), nil
	case 'W':
		return t.AddDate(0, 0, 7*n), nil
	case 'M':
		return AddMonth(t, n), nil
	case 'Y':
		return AddMonth(t, 12*n), nil
	default:
		return time.Time{}, fmt.Errorf("AddTenor: invalid tenor %q", tenor)
	}
}

// RoundTo rounds a float to the specified decimal places.
func RoundTo(val float64, decimals uint32) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
