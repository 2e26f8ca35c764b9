package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

type SQLSubjectRepository struct {
	db *sqlx.DB
}

func NewSQLSubjectRepository(db *sqlx.DB) *SQLSubjectRepository {
	return &SQLSubjectRepository{db: db}
}

const subjectColumns = `name, pdf_count, theory_date, practice_date, created_at, updated_at`

func (r *SQLSubjectRepository) scanRow(row scannable) (*domain.Subject, error) {
	var s domain.Subject
	err := row.Scan(&s.Name, &s.PdfCount, &s.TheoryDate, &s.PracticeDate, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLSubjectRepository) List(ctx context.Context) ([]*domain.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var subjects []*domain.Subject
	for rows.Next() {
		s, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		subjects = append(subjects, s)
	}

	return subjects, rows.Err()
}

func (r *SQLSubjectRepository) GetByName(ctx context.Context, name string) (*domain.Subject, error) {
	query := r.db.Rebind(`SELECT ` + subjectColumns + ` FROM subjects WHERE name = ?`)

	s, err := r.scanRow(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return s, nil
}

func (r *SQLSubjectRepository) Save(ctx context.Context, s *domain.Subject) error {
	query := r.db.Rebind(`
        INSERT INTO subjects (name, pdf_count, theory_date, practice_date, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT (name) DO UPDATE SET
            pdf_count = excluded.pdf_count,
            theory_date = excluded.theory_date,
            practice_date = excluded.practice_date,
            updated_at = excluded.updated_at`)

	_, err := r.db.ExecContext(ctx, query,
		s.Name, s.PdfCount, dateArg(s.TheoryDate), dateArg(s.PracticeDate), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save subject %s: %w", s.Name, err)
	}
	return nil
}
