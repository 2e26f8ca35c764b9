package domain

import (
	"context"
	"errors"
)

var (
	ErrSubjectNotFound = errors.New("subject not found")
)

type SubjectRepository interface {
	// List returns every stored subject ordered by name.
	List(ctx context.Context) ([]*Subject, error)

	// GetByName retrieves a subject by its canonical name.
	GetByName(ctx context.Context, name string) (*Subject, error)

	// Save inserts the subject or replaces the stored row with the same name.
	Save(ctx context.Context, subject *Subject) error
}

type ProgressRepository interface {
	// List returns all progress rows ordered by subject and table type.
	List(ctx context.Context) ([]*SubjectProgress, error)

	// Get retrieves the row for a (subject, table type) pair.
	Get(ctx context.Context, subject string, session SessionType) (*SubjectProgress, error)

	// Save upserts on the unique (subject_name, table_type) pair.
	Save(ctx context.Context, progress *SubjectProgress) error
}

type ImportantTaskRepository interface {
	List(ctx context.Context) ([]*ImportantTask, error)

	GetByID(ctx context.Context, id string) (*ImportantTask, error)

	Create(ctx context.Context, task *ImportantTask) error

	// Update replaces the stored task. Missing ids return ErrTaskNotFound.
	Update(ctx context.Context, task *ImportantTask) error

	Delete(ctx context.Context, id string) error
}
