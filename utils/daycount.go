package utils

import (
	"fmt"
	"strings"
	"time"
)

// DayCount is an accrual day count convention.
type DayCount string

const (
	Act360     DayCount = "ACT/360"
	Act365F    DayCount = "ACT/365F"
	ActActISDA DayCount = "ACT/ACT ISDA"
	Thirty360  DayCount = "30/360"
	Thirty360E DayCount = "30E/360"
)

// ParseDayCount maps a convention name to its DayCount.
func ParseDayCount(s string) (DayCount, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ACT/360", "ACT_360", "A360":
		return Act360, nil
	case "ACT/365F", "ACT/365", "ACT_365F", "A365F":
		return Act365F, nil
	case "ACT/ACT", "ACT/ACT ISDA", "ACT_ACT_ISDA":
		return ActActISDA, nil
	case "30/360", "30/360 BOND", "THIRTY_360_BOND":
		return Thirty360, nil
	case "30E/360", "THIRTY_E_360":
		return Thirty360E, nil
	default:
		return "", fmt.Errorf("ParseDayCount: unknown day count %q", s)
	}
}

// Valid reports whether dc is one of the supported conventions.
func (dc DayCount) Valid() bool {
	switch dc {
	case Act360, Act365F, ActActISDA, Thirty360, Thirty360E:
		return true
	}
	return false
}

// YearFrac returns the accrual fraction between start and end under dc together
// with the day count numerator used to compute it.
func YearFrac(start, end time.Time, dc DayCount) (float64, int) {
	switch dc {
	case Act360:
		days := DaysBetween(start, end)
		return float64(days) / 360.0, days
	case Act365F:
		days := DaysBetween(start, end)
		return float64(days) / 365.0, days
	case ActActISDA:
		return actActISDA(start, end)
	case Thirty360:
		return thirty360(start, end, false)
	case Thirty360E:
		return thirty360(start, end, true)
	default:
		days := DaysBetween(start, end)
		return float64(days) / 365.0, days
	}
}

// YearFraction is YearFrac without the day numerator.
func YearFraction(start, end time.Time, dc DayCount) float64 {
	f, _ := YearFrac(start, end, dc)
	return f
}

func thirty360(start, end time.Time, eurobond bool) (float64, int) {
	y1, m1, d1 := start.Date()
	y2, m2, d2 := end.Date()
	if eurobond {
		// 30E/360: both day numbers capped at 30
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 {
			d2 = 30
		}
	} else {
		// 30/360 bond basis: D2 capped only when D1 was
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
	}
	num := 360*(y2-y1) + 30*(int(m2)-int(m1)) + (d2 - d1)
	return float64(num) / 360.0, num
}

func actActISDA(start, end time.Time) (float64, int) {
	days := DaysBetween(start, end)
	if days == 0 {
		return 0, 0
	}
	sign := 1.0
	if end.Before(start) {
		start, end = end, start
		sign = -1.0
	}
	y1, y2 := start.Year(), end.Year()
	if y1 == y2 {
		return sign * float64(days) / daysInYear(y1), days
	}
	startOfNext := time.Date(y1+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	startOfLast := time.Date(y2, time.January, 1, 0, 0, 0, 0, time.UTC)
	frac := float64(DaysBetween(start, startOfNext)) / daysInYear(y1)
	frac += float64(y2 - y1 - 1)
	frac += float64(DaysBetween(startOfLast, end)) / daysInYear(y2)
	return sign * frac, days
}

func daysInYear(y int) float64 {
	if isLeapYear(y) {
		return 366.0
	}
	return 365.0
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}
