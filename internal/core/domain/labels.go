package domain

import (
	"fmt"
	"time"
)

var dayNames = [...]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

type Urgency string

const (
	UrgencyUrgent  Urgency = "urgent"
	UrgencySoon    Urgency = "soon"
	UrgencyRelaxed Urgency = "relaxed"
)

func UrgencyFor(daysRemaining int) Urgency {
	switch {
	case daysRemaining == 1:
		return UrgencyUrgent
	case daysRemaining >= 3:
		return UrgencyRelaxed
	default:
		return UrgencySoon
	}
}

func MonthName(m time.Month) string {
	return monthNames[m-1]
}

// FormatSpanishDate renders e.g. "Jueves 5 de Marzo".
func FormatSpanishDate(t time.Time) string {
	return fmt.Sprintf("%s %d de %s", dayNames[t.Weekday()], t.Day(), MonthName(t.Month()))
}

// FormatDateLabel shows "Nd" for dates within the coming week and the long
// Spanish form otherwise.
func FormatDateLabel(date, today time.Time) string {
	diff := DaysBetween(today, date)
	if diff >= 0 && diff <= daysPerWeek {
		return fmt.Sprintf("%dd", diff)
	}
	return FormatSpanishDate(date)
}
