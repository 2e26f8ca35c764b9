package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidSessionType = errors.New("invalid session type (must be theory or practice)")
	ErrUnknownSubject     = errors.New("subject is not part of the weekly schedule")
)

type SessionType string

const (
	SessionTheory   SessionType = "theory"
	SessionPractice SessionType = "practice"
)

func ParseSessionType(raw string) (SessionType, error) {
	switch SessionType(raw) {
	case SessionTheory, SessionPractice:
		return SessionType(raw), nil
	}
	switch raw {
	case "Teoría", "teoria":
		return SessionTheory, nil
	case "Práctica", "practica":
		return SessionPractice, nil
	}
	return "", ErrInvalidSessionType
}

func (s SessionType) Title() string {
	if s == SessionPractice {
		return "Práctica"
	}
	return "Teoría"
}

const (
	SubjectAlgebra = "Álgebra"
	SubjectCalculo = "Cálculo"
	SubjectPoo     = "Poo"
)

type ScheduleEntry struct {
	Subject       string       `json:"subject"`
	Session       SessionType  `json:"session"`
	TargetWeekday time.Weekday `json:"target_weekday"`
}

// ScheduleRegistry is the fixed weekly class timetable. It is read-only once
// built.
type ScheduleRegistry struct {
	entries  []ScheduleEntry
	subjects []string
}

func NewScheduleRegistry(entries []ScheduleEntry) *ScheduleRegistry {
	r := &ScheduleRegistry{entries: make([]ScheduleEntry, len(entries))}
	copy(r.entries, entries)

	seen := make(map[string]bool)
	for _, e := range entries {
		if !seen[e.Subject] {
			seen[e.Subject] = true
			r.subjects = append(r.subjects, e.Subject)
		}
	}
	return r
}

func DefaultSchedule() *ScheduleRegistry {
	return NewScheduleRegistry([]ScheduleEntry{
		{Subject: SubjectAlgebra, Session: SessionTheory, TargetWeekday: time.Thursday},
		{Subject: SubjectAlgebra, Session: SessionPractice, TargetWeekday: time.Monday},
		{Subject: SubjectCalculo, Session: SessionTheory, TargetWeekday: time.Thursday},
		{Subject: SubjectCalculo, Session: SessionPractice, TargetWeekday: time.Monday},
		{Subject: SubjectPoo, Session: SessionTheory, TargetWeekday: time.Tuesday},
		{Subject: SubjectPoo, Session: SessionPractice, TargetWeekday: time.Friday},
	})
}

func (r *ScheduleRegistry) TargetWeekday(subject string, session SessionType) (time.Weekday, bool) {
	for _, e := range r.entries {
		if e.Subject == subject && e.Session == session {
			return e.TargetWeekday, true
		}
	}
	return 0, false
}

func (r *ScheduleRegistry) Entries() []ScheduleEntry {
	out := make([]ScheduleEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *ScheduleRegistry) Subjects() []string {
	out := make([]string, len(r.subjects))
	copy(out, r.subjects)
	return out
}

func (r *ScheduleRegistry) Has(subject string) bool {
	for _, s := range r.subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// DefaultDueDate is the next class day for the pair, used whenever a stored
// date is missing or unreadable.
func (r *ScheduleRegistry) DefaultDueDate(subject string, session SessionType, today time.Time) (time.Time, bool) {
	wd, ok := r.TargetWeekday(subject, session)
	if !ok {
		return time.Time{}, false
	}
	return NextOccurrence(wd, today), true
}

var Sessions = []SessionType{SessionTheory, SessionPractice}
