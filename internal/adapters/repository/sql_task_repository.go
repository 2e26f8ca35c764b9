package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type SQLTaskRepository struct {
	db     *sqlx.DB
	sqlite bool
}

func NewSQLTaskRepository(db *sqlx.DB) *SQLTaskRepository {
	return &SQLTaskRepository{db: db, sqlite: isSQLite(db)}
}

const taskColumns = `id, text, numerator, denominator, days_remaining, due_date, url, sub_topics, created_at, updated_at`

func (r *SQLTaskRepository) subTopicsArg(topics []string) (interface{}, error) {
	if topics == nil {
		topics = []string{}
	}
	if r.sqlite {
		raw, err := json.Marshal(topics)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal sub_topics: %w", err)
		}
		return string(raw), nil
	}
	return pq.Array(topics), nil
}

func (r *SQLTaskRepository) scanRow(row scannable) (*domain.ImportantTask, error) {
	var t domain.ImportantTask
	var topics []string
	var topicsJSON string

	var topicsDest interface{} = pq.Array(&topics)
	if r.sqlite {
		topicsDest = &topicsJSON
	}

	err := row.Scan(
		&t.ID, &t.Text, &t.Numerator, &t.Denominator, &t.DaysRemaining,
		&t.DueDate, &t.URL, topicsDest, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if r.sqlite && topicsJSON != "" {
		if err := json.Unmarshal([]byte(topicsJSON), &topics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sub_topics: %w", err)
		}
	}
	if len(topics) > 0 {
		t.SubTopics = topics
	}

	return &t, nil
}

func (r *SQLTaskRepository) List(ctx context.Context) ([]*domain.ImportantTask, error) {
	query := `SELECT ` + taskColumns + ` FROM important_tasks ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.ImportantTask
	for rows.Next() {
		t, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

func (r *SQLTaskRepository) GetByID(ctx context.Context, id string) (*domain.ImportantTask, error) {
	query := r.db.Rebind(`SELECT ` + taskColumns + ` FROM important_tasks WHERE id = ?`)

	t, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return t, nil
}

func (r *SQLTaskRepository) Create(ctx context.Context, t *domain.ImportantTask) error {
	topics, err := r.subTopicsArg(t.SubTopics)
	if err != nil {
		return err
	}

	query := r.db.Rebind(`
        INSERT INTO important_tasks (` + taskColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err = r.db.ExecContext(ctx, query,
		t.ID, t.Text, t.Numerator, t.Denominator, t.DaysRemaining,
		dateArg(t.DueDate), t.URL, topics, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTaskConflict
		}
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (r *SQLTaskRepository) Update(ctx context.Context, t *domain.ImportantTask) error {
	topics, err := r.subTopicsArg(t.SubTopics)
	if err != nil {
		return err
	}

	query := r.db.Rebind(`
        UPDATE important_tasks SET
            text = ?, numerator = ?, denominator = ?, days_remaining = ?,
            due_date = ?, url = ?, sub_topics = ?, updated_at = ?
        WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query,
		t.Text, t.Numerator, t.Denominator, t.DaysRemaining,
		dateArg(t.DueDate), t.URL, topics, t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}

	return expectOneRow(res)
}

func (r *SQLTaskRepository) Delete(ctx context.Context, id string) error {
	query := r.db.Rebind(`DELETE FROM important_tasks WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// isUniqueViolation recognises duplicate keys from pgx, lib/pq and sqlite3.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey || liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
