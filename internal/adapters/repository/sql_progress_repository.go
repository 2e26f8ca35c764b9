package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

type SQLProgressRepository struct {
	db *sqlx.DB
}

func NewSQLProgressRepository(db *sqlx.DB) *SQLProgressRepository {
	return &SQLProgressRepository{db: db}
}

func (r *SQLProgressRepository) List(ctx context.Context) ([]*domain.SubjectProgress, error) {
	query := `
        SELECT subject_name, table_type, current_progress, total_pdfs, created_at, updated_at
        FROM progress
        ORDER BY subject_name ASC, table_type DESC`

	var rows []*domain.SubjectProgress
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return rows, nil
}

func (r *SQLProgressRepository) Get(ctx context.Context, subject string, session domain.SessionType) (*domain.SubjectProgress, error) {
	query := r.db.Rebind(`
        SELECT subject_name, table_type, current_progress, total_pdfs, created_at, updated_at
        FROM progress
        WHERE subject_name = ? AND table_type = ?`)

	var p domain.SubjectProgress
	if err := r.db.GetContext(ctx, &p, query, subject, session); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProgressNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return &p, nil
}

func (r *SQLProgressRepository) Save(ctx context.Context, p *domain.SubjectProgress) error {
	query := r.db.Rebind(`
        INSERT INTO progress (subject_name, table_type, current_progress, total_pdfs, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT (subject_name, table_type) DO UPDATE SET
            current_progress = excluded.current_progress,
            total_pdfs = excluded.total_pdfs,
            updated_at = excluded.updated_at`)

	_, err := r.db.ExecContext(ctx, query,
		p.SubjectName, p.TableType, p.CurrentProgress, p.TotalPdfs, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save progress %s/%s: %w", p.SubjectName, p.TableType, err)
	}
	return nil
}
