package domain

import (
	"errors"
	"time"
)

var (
	ErrProgressNotFound = errors.New("progress not found")
	ErrInvalidProgress  = errors.New("progress values cannot be negative")
)

type SubjectProgress struct {
	SubjectName     string      `json:"subject_name" db:"subject_name"`
	TableType       SessionType `json:"table_type" db:"table_type"`
	CurrentProgress int         `json:"current_progress" db:"current_progress"`
	TotalPdfs       int         `json:"total_pdfs" db:"total_pdfs"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

func NewSubjectProgress(subject string, session SessionType, current, total int, now time.Time) (*SubjectProgress, error) {
	if _, err := ParseSessionType(string(session)); err != nil {
		return nil, err
	}

	created := now.UTC()
	p := &SubjectProgress{
		SubjectName: subject,
		TableType:   session,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	if err := p.Set(current, total, now); err != nil {
		return nil, err
	}
	return p, nil
}

// Set stores the read units, capping current at total.
func (p *SubjectProgress) Set(current, total int, now time.Time) error {
	if current < 0 || total < 0 {
		return ErrInvalidProgress
	}
	p.TotalPdfs = total
	p.CurrentProgress = min(current, total)
	p.UpdatedAt = now.UTC()
	return nil
}

func (p *SubjectProgress) Fraction() ProgressFraction {
	return NewProgressFraction(p.CurrentProgress, p.TotalPdfs)
}

func (p *SubjectProgress) Clone() *SubjectProgress {
	c := *p
	return &c
}
