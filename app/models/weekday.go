package models

import "time"

const (
	DayMonday    = "monday"
	DayTuesday   = "tuesday"
	DayWednesday = "wednesday"
	DayThursday  = "thursday"
	DayFriday    = "friday"
	DaySaturday  = "saturday"
	DaySunday    = "sunday"
)

// DaysOfWeek lists the weekday keys in display order.
var DaysOfWeek = []string{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday}

// WeekdayKey maps a time.Weekday to the key stored in hours and time slots.
func WeekdayKey(d time.Weekday) string {
	switch d {
	case time.Monday:
		return DayMonday
	case time.Tuesday:
		return DayTuesday
	case time.Wednesday:
		return DayWednesday
	case time.Thursday:
		return DayThursday
	case time.Friday:
		return DayFriday
	case time.Saturday:
		return DaySaturday
	default:
		return DaySunday
	}
}

// IsWeekdayKey reports whether s is a valid weekday key.
func IsWeekdayKey(s string) bool {
	for _, d := range DaysOfWeek {
		if d == s {
			return true
		}
	}
	return false
}

// WeekdayOrder returns the position of a weekday key, 7 for unknown keys.
func WeekdayOrder(s string) int {
	for i, d := range DaysOfWeek {
		if d == s {
			return i
		}
	}
	return len(DaysOfWeek)
}
