package calendar

import (
	"fmt"
	"strings"
	"time"
)

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	// NONE treats every day, weekends included, as a business day.
	NONE CalendarID = "NONE"
	// WEEKEND treats Saturday and Sunday as the only non-business days.
	WEEKEND CalendarID = "WEEKEND"
	// TARGET is the Euro-zone TARGET2 settlement calendar.
	TARGET CalendarID = "TARGET"
)

// BusinessDayAdjustment is a roll convention for dates that fall on a holiday.
type BusinessDayAdjustment string

const (
	NoAdjustment      BusinessDayAdjustment = "NONE"
	Following         BusinessDayAdjustment = "FOLLOWING"
	ModifiedFollowing BusinessDayAdjustment = "MODIFIED_FOLLOWING"
	Preceding         BusinessDayAdjustment = "PRECEDING"
	ModifiedPreceding BusinessDayAdjustment = "MODIFIED_PRECEDING"
)

// ParseCalendar maps a calendar name to its CalendarID.
func ParseCalendar(s string) (CalendarID, error) {
	switch id := CalendarID(strings.ToUpper(strings.TrimSpace(s))); id {
	case NONE, WEEKEND, TARGET:
		return id, nil
	case "":
		return WEEKEND, nil
	default:
		return "", fmt.Errorf("ParseCalendar: unknown calendar %q", s)
	}
}

// ParseBusinessDayAdjustment maps a convention name to its BusinessDayAdjustment.
func ParseBusinessDayAdjustment(s string) (BusinessDayAdjustment, error) {
	norm := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), " ", "_")
	switch bda := BusinessDayAdjustment(norm); bda {
	case NoAdjustment, Following, ModifiedFollowing, Preceding, ModifiedPreceding:
		return bda, nil
	case "":
		return ModifiedFollowing, nil
	default:
		return "", fmt.Errorf("ParseBusinessDayAdjustment: unknown convention %q", s)
	}
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

func isHoliday(cal CalendarID, t time.Time) bool {
	switch cal {
	case TARGET:
		return isTargetHoliday(t)
	default:
		return false
	}
}

// isTargetHoliday covers New Year, Good Friday, Easter Monday, Labour Day,
// Christmas and Boxing Day.
func isTargetHoliday(t time.Time) bool {
	y, m, d := t.Date()
	switch {
	case m == time.January && d == 1:
		return true
	case m == time.May && d == 1:
		return true
	case m == time.December && (d == 25 || d == 26):
		return true
	}
	easter := easterSunday(y)
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return day.Equal(easter.AddDate(0, 0, -2)) || day.Equal(easter.AddDate(0, 0, 1))
}

// easterSunday uses the anonymous Gregorian algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if cal == NONE {
		return true
	}
	if isWeekend(t) {
		return false
	}
	return !isHoliday(cal, t)
}

// Adjust applies Modified Following.
func Adjust(cal CalendarID, t time.Time) time.Time {
	return AdjustWith(cal, t, ModifiedFollowing)
}

// AdjustWith rolls t to a business day according to bda.
func AdjustWith(cal CalendarID, t time.Time, bda BusinessDayAdjustment) time.Time {
	switch bda {
	case Following:
		return roll(cal, t, 1)
	case Preceding:
		return roll(cal, t, -1)
	case ModifiedFollowing:
		adj := roll(cal, t, 1)
		if adj.Month() != t.Month() {
			return roll(cal, t, -1)
		}
		return adj
	case ModifiedPreceding:
		adj := roll(cal, t, -1)
		if adj.Month() != t.Month() {
			return roll(cal, t, 1)
		}
		return adj
	default:
		return t
	}
}

func roll(cal CalendarID, t time.Time, step int) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, step)
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal CalendarID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsEndOfMonth reports whether t is the last calendar day of its month.
func IsEndOfMonth(t time.Time) bool {
	return t.Day() == daysInMonth(t.Year(), t.Month())
}

// LastBusinessDayOfMonth returns the last business day of the month containing t.
func LastBusinessDayOfMonth(cal CalendarID, t time.Time) time.Time {
	nextMonth := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return AddBusinessDays(cal, nextMonth, -1)
}
