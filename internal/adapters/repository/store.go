package repository

import (
	"time"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

// Store groups the three record repositories behind one backend.
type Store struct {
	Subjects domain.SubjectRepository
	Progress domain.ProgressRepository
	Tasks    domain.ImportantTaskRepository
}

// NewSQLStore builds the repositories over a Postgres (pgx) or SQLite
// (sqlite3) connection; the dialect follows the driver name.
func NewSQLStore(db *sqlx.DB) Store {
	return Store{
		Subjects: NewSQLSubjectRepository(db),
		Progress: NewSQLProgressRepository(db),
		Tasks:    NewSQLTaskRepository(db),
	}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

// dateArg stores only the calendar day so DATE columns never shift with the
// session timezone.
func dateArg(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return domain.FormatForStorage(*t)
}

// OpenSQLite opens the local fallback database. SQLite allows a single
// writer, so the pool is kept to one connection.
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
