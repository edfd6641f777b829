// Package sqlstore implements service.Store on a PostgreSQL or MySQL table.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"tugas/internal/service"
)

// APITimeout is the timeout for database calls.
const APITimeout = 5 * time.Second

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

const createTable = `CREATE TABLE IF NOT EXISTS tasks (
    id VARCHAR(64) PRIMARY KEY,
    text TEXT NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    deadline VARCHAR(64) NOT NULL,
    created_at BIGINT NOT NULL
)`

// Store implements service.Store.
type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// Open connects with driver ("postgres" or "mysql") and creates the
// tasks table if needed.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%s: database URL not set (TUGAS_DATABASE_URL)", driver)
	}
	if driver != DriverPostgres && driver != DriverMySQL {
		return nil, fmt.Errorf("unsupported sql driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, wrapError("connect", err)
	}

	s := New(db, driver)
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// New wraps an open database.
func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver, now: time.Now}
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// ListAll returns every task in creation order.
func (s *Store) ListAll(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT id, text, completed, deadline FROM tasks ORDER BY created_at, id`)
	if err != nil {
		return nil, wrapError("list", err)
	}
	defer rows.Close()

	var result []service.Task
	for rows.Next() {
		var t service.Task
		if err := rows.Scan(&t.ID, &t.Text, &t.Completed, &t.Deadline); err != nil {
			return nil, wrapError("list", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("list", err)
	}
	return result, nil
}

// Create inserts a task under a new UUID.
func (s *Store) Create(ctx context.Context, nt service.NewTask) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	id := uuid.New().String()
	q := s.rebind(`INSERT INTO tasks (id, text, completed, deadline, created_at) VALUES (?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, q, id, nt.Text, nt.Completed, nt.Deadline, s.now().UnixNano()); err != nil {
		return "", wrapError("create", err)
	}
	return id, nil
}

// Update writes only the supplied columns. Zero matched rows is KindNotFound.
func (s *Store) Update(ctx context.Context, id string, f service.Fields) error {
	set, args := updateClause(f)
	if set == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	q := s.rebind(`UPDATE tasks SET ` + set + ` WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, append(args, id)...)
	if err != nil {
		return wrapError("update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapError("update", err)
	}
	if n == 0 {
		// MySQL reports rows changed, not matched; check existence first.
		exists, err := s.exists(ctx, id)
		if err != nil {
			return wrapError("update", err)
		}
		if !exists {
			return service.NewStoreError("update", service.KindNotFound, fmt.Errorf("not found"))
		}
	}
	return nil
}

// Delete removes a task.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM tasks WHERE id = ?`), id); err != nil {
		return wrapError("delete", err)
	}
	return nil
}

func (s *Store) exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM tasks WHERE id = ?`), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// updateClause builds "col = ?, ..." for the set fields of f.
func updateClause(f service.Fields) (string, []interface{}) {
	var cols []string
	var args []interface{}
	if f.Text != nil {
		cols = append(cols, "text = ?")
		args = append(args, *f.Text)
	}
	if f.Completed != nil {
		cols = append(cols, "completed = ?")
		args = append(args, *f.Completed)
	}
	if f.Deadline != nil {
		cols = append(cols, "deadline = ?")
		args = append(args, *f.Deadline)
	}
	return strings.Join(cols, ", "), args
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return service.NewStoreError(op, service.KindUnavailable, fmt.Errorf("request timed out"))
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 28xxx: invalid authorization specification
		if strings.HasPrefix(string(pqErr.Code), "28") {
			return service.NewStoreError(op, service.KindAuth, err)
		}
		return service.NewStoreError(op, service.KindInternal, err)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		// ER_ACCESS_DENIED_ERROR, ER_DBACCESS_DENIED_ERROR
		if myErr.Number == 1045 || myErr.Number == 1044 {
			return service.NewStoreError(op, service.KindAuth, err)
		}
		return service.NewStoreError(op, service.KindInternal, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, sql.ErrConnDone) {
		return service.NewStoreError(op, service.KindUnavailable, err)
	}
	return service.NewStoreError(op, service.KindInternal, err)
}
