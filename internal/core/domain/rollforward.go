package domain

import "time"

const daysPerWeek = 7

// RollForward advances a weekly date by whole weeks until it falls strictly
// after today. Dates already in the future are returned at local midnight.
func RollForward(date, today time.Time) time.Time {
	t := NormalizeToMidnight(today)

	y, m, d := date.Date()
	candidate := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	if candidate.After(t) {
		return candidate
	}

	weeks := DaysBetween(candidate, t)/daysPerWeek + 1
	return candidate.AddDate(0, 0, daysPerWeek*weeks)
}

// NextWeekday returns the days until the next target weekday, in [1, 7].
// When today is the target day the answer is 7: the countdown always points
// at a future session.
func NextWeekday(target time.Weekday, today time.Time) int {
	days := (int(target) - int(today.Weekday()) + daysPerWeek) % daysPerWeek
	if days == 0 {
		return daysPerWeek
	}
	return days
}

func NextOccurrence(target time.Weekday, today time.Time) time.Time {
	return NormalizeToMidnight(today).AddDate(0, 0, NextWeekday(target, today))
}
