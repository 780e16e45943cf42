package types

import "time"

// DayFormat is the canonical string form for calendar days.
const DayFormat = "2006-01-02"

// DayOf truncates a timestamp to its calendar day (midnight UTC). All
// day-keyed state (prices, snapshots, baselines) uses this normal form.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func NextDay(day time.Time) time.Time { return day.AddDate(0, 0, 1) }

func SameDay(a, b time.Time) bool { return DayOf(a).Equal(DayOf(b)) }

// WeekStart returns the Monday of the week containing day.
func WeekStart(day time.Time) time.Time {
	day = DayOf(day)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// MonthStart returns the first day of the month containing day.
func MonthStart(day time.Time) time.Time {
	day = DayOf(day)
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func IsWeekStart(day time.Time) bool { return DayOf(day).Weekday() == time.Monday }

func IsMonthStart(day time.Time) bool { return DayOf(day).Day() == 1 }
