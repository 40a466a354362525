// Package calendar derives weekday and month labels from dates and parses date input.
package calendar

import "time"

var weekdayLabels = [7]string{"Mo", "Di", "Mi", "Do", "Fr", "Sa", "So"}

var monthLabels = [12]string{"Jan", "Feb", "Mär", "Apr", "Mai", "Jun", "Jul", "Aug", "Sep", "Okt", "Nov", "Dez"}

// WeekdayLabels returns the weekday labels in canonical Monday-first order.
func WeekdayLabels() []string {
	return append([]string(nil), weekdayLabels[:]...)
}

// MonthLabels returns the month labels in calendar order.
func MonthLabels() []string {
	return append([]string(nil), monthLabels[:]...)
}

// WeekdayLabel returns the two-letter German abbreviation for a weekday.
func WeekdayLabel(d time.Weekday) string {
	// time.Weekday starts at Sunday.
	return weekdayLabels[(int(d)+6)%7]
}

// MonthLabel returns the three-letter German abbreviation for a month.
func MonthLabel(m time.Month) string {
	return monthLabels[int(m)-1]
}

// WeekdayIndex returns the canonical position of a weekday label, or -1.
func WeekdayIndex(label string) int {
	for i, l := range weekdayLabels {
		if l == label {
			return i
		}
	}
	return -1
}

// MonthIndex returns the canonical position of a month label, or -1.
func MonthIndex(label string) int {
	for i, l := range monthLabels {
		if l == label {
			return i
		}
	}
	return -1
}

// Derive returns the weekday label, month label and year of t.
func Derive(t time.Time) (weekday, month string, year int) {
	return WeekdayLabel(t.Weekday()), MonthLabel(t.Month()), t.Year()
}
