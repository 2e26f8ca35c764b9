package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidFraction = errors.New("invalid progress fraction (numerator must be >= 0, denominator >= 1)")
)

type ProgressFraction struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// NewProgressFraction clamps the pair so that 0 <= numerator <= denominator
// and denominator >= 1.
func NewProgressFraction(numerator, denominator int) ProgressFraction {
	den := max(denominator, 1)
	num := min(max(numerator, 0), den)
	return ProgressFraction{Numerator: num, Denominator: den}
}

func (p ProgressFraction) Percentage() float64 {
	return Percentage(p.Numerator, p.Denominator)
}

func (p ProgressFraction) Validate() error {
	if p.Denominator < 1 || p.Numerator < 0 || p.Numerator > p.Denominator {
		return ErrInvalidFraction
	}
	return nil
}

func Percentage(numerator, denominator int) float64 {
	if denominator <= 0 || numerator <= 0 {
		return 0
	}
	return min(float64(numerator)/float64(denominator)*100, 100)
}

// DeriveProgress turns a days-remaining count into a progress pair. The
// denominator grows when daysRemaining exceeds every capacity seen so far.
func DeriveProgress(priorDenominator, daysRemaining int) ProgressFraction {
	days := max(daysRemaining, 0)
	den := max(priorDenominator, days, 1)
	num := min(max(den-days, 0), den)
	return ProgressFraction{Numerator: num, Denominator: den}
}

func InferDaysRemaining(p ProgressFraction) int {
	return max(p.Denominator-p.Numerator, 0)
}

// DecayDaysRemaining subtracts the calendar days elapsed since lastUpdated.
// Opening the app twice on the same day leaves the value untouched.
func DecayDaysRemaining(daysRemaining int, lastUpdated, today time.Time) (int, bool) {
	diffDays := DaysBetween(lastUpdated.In(today.Location()), today)
	if diffDays <= 0 {
		return daysRemaining, false
	}
	return max(daysRemaining-diffDays, 0), true
}
