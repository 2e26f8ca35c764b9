package domain

import "time"

type CalendarEvent struct {
	Kind    TaskKind    `json:"kind"`
	Session SessionType `json:"session,omitempty"`
	TaskID  string      `json:"task_id"`
	Title   string      `json:"title"`
	Label   string      `json:"label"`
}

type CalendarDay struct {
	Day     int             `json:"day"`
	Date    string          `json:"date"`
	IsToday bool            `json:"is_today"`
	Events  []CalendarEvent `json:"events"`
}

type CalendarMonth struct {
	Year          int           `json:"year"`
	Month         int           `json:"month"`
	MonthName     string        `json:"month_name"`
	LeadingBlanks int           `json:"leading_blanks"`
	Days          []CalendarDay `json:"days"`
}

// NewCalendarMonth lays out a month grid starting on Sunday. LeadingBlanks is
// the number of empty cells before the 1st.
func NewCalendarMonth(year int, month time.Month, today time.Time) *CalendarMonth {
	loc := today.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	c := &CalendarMonth{
		Year:          year,
		Month:         int(month),
		MonthName:     MonthName(month),
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]CalendarDay, 0, daysInMonth),
	}

	for day := 1; day <= daysInMonth; day++ {
		d := time.Date(year, month, day, 0, 0, 0, 0, loc)
		c.Days = append(c.Days, CalendarDay{
			Day:     day,
			Date:    FormatForStorage(d),
			IsToday: SameDay(d, today),
			Events:  []CalendarEvent{},
		})
	}
	return c
}

func (c *CalendarMonth) Contains(date time.Time) bool {
	return date.Year() == c.Year && int(date.Month()) == c.Month
}

// AddEvent places ev on the day of date; dates outside the month are ignored.
func (c *CalendarMonth) AddEvent(date time.Time, ev CalendarEvent) bool {
	if !c.Contains(date) {
		return false
	}
	idx := date.Day() - 1
	c.Days[idx].Events = append(c.Days[idx].Events, ev)
	return true
}
