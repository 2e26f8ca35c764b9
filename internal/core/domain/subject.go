package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrSubjectNameEmpty   = errors.New("subject name cannot be empty")
	ErrSubjectNameTooLong = errors.New("subject name is too long (max 50 chars)")
	ErrInvalidPdfCount    = errors.New("pdf count cannot be negative")
	ErrInvalidDate        = errors.New("invalid date (expected YYYY-MM-DD, an ISO datetime or Nd)")
)

const MaxSubjectNameLen = 50

type Subject struct {
	Name         string     `json:"name" db:"name"`
	PdfCount     int        `json:"pdf_count" db:"pdf_count"`
	TheoryDate   *time.Time `json:"theory_date,omitempty" db:"theory_date"`
	PracticeDate *time.Time `json:"practice_date,omitempty" db:"practice_date"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

func NewSubject(name string, pdfCount int, now time.Time) (*Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrSubjectNameEmpty
	}
	if len([]rune(name)) > MaxSubjectNameLen {
		return nil, ErrSubjectNameTooLong
	}
	if pdfCount < 0 {
		return nil, ErrInvalidPdfCount
	}

	created := now.UTC()
	return &Subject{
		Name:      name,
		PdfCount:  pdfCount,
		CreatedAt: created,
		UpdatedAt: created,
	}, nil
}

func (s *Subject) DueDate(session SessionType) *time.Time {
	if session == SessionPractice {
		return s.PracticeDate
	}
	return s.TheoryDate
}

// SetDueDate stores only the calendar day of t.
func (s *Subject) SetDueDate(session SessionType, t, now time.Time) {
	d := NormalizeToMidnight(t)
	if session == SessionPractice {
		s.PracticeDate = &d
	} else {
		s.TheoryDate = &d
	}
	s.UpdatedAt = now.UTC()
}

func (s *Subject) SetPdfCount(count int, now time.Time) error {
	if count < 0 {
		return ErrInvalidPdfCount
	}
	s.PdfCount = count
	s.UpdatedAt = now.UTC()
	return nil
}

func (s *Subject) Reset(now time.Time) {
	s.PdfCount = 0
	s.TheoryDate = nil
	s.PracticeDate = nil
	s.UpdatedAt = now.UTC()
}

// RollDates repairs both session dates: missing ones get the next scheduled
// class day, elapsed ones roll forward whole weeks. It reports whether any
// calendar date changed.
func (s *Subject) RollDates(today time.Time, schedule *ScheduleRegistry) bool {
	changed := false

	for _, session := range Sessions {
		current := s.DueDate(session)

		var next time.Time
		if current == nil {
			d, ok := schedule.DefaultDueDate(s.Name, session, today)
			if !ok {
				continue
			}
			next = d
		} else {
			next = RollForward(*current, today)
			if FormatForStorage(next) == FormatForStorage(*current) {
				continue
			}
		}

		s.SetDueDate(session, next, today)
		changed = true
	}

	return changed
}

func (s *Subject) Clone() *Subject {
	c := *s
	if s.TheoryDate != nil {
		d := *s.TheoryDate
		c.TheoryDate = &d
	}
	if s.PracticeDate != nil {
		d := *s.PracticeDate
		c.PracticeDate = &d
	}
	return &c
}
