// Package sqlite provides an embedded SQLite employee store, used for local
// development and for tests that need real SQL without a server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"employeedir/internal/domain/employee"
	"employeedir/internal/storage/sqlite/migrations"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database at path and applies the embedded schema.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := MemoryPath
	if path != MemoryPath {
		dsn = "file:" + filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == MemoryPath {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) CountEmployees(ctx context.Context, plan employee.QueryPlan) (int, error) {
	query, args := plan.CountSQL(employee.DialectSQLite)
	var total int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return total, nil
}

func (s *Store) ListEmployees(ctx context.Context, plan employee.QueryPlan) ([]employee.Employee, error) {
	query, args := plan.SelectSQL(employee.DialectSQLite)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	out := make([]employee.Employee, 0, plan.Limit)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("list employees: %w", err)
		}
		out = append(out, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return out, nil
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (employee.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
    SELECT id, name, email, department, status, created_at
      FROM employees
     WHERE id = ?`, id)
	emp, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrNoRows
		}
		return employee.Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return emp, nil
}

func (s *Store) CreateEmployee(ctx context.Context, in employee.Input) (employee.Employee, error) {
	createdAt := s.now().UTC()
	var id int64
	err := s.db.QueryRowContext(ctx, `
    INSERT INTO employees (name, email, department, status, created_at)
    VALUES (?, ?, ?, ?, ?)
    RETURNING id`,
		in.Name, in.Email, in.Department, in.Status, toMillis(createdAt),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrDuplicateEmail
		}
		return employee.Employee{}, err
	}
	return employee.Employee{
		ID:         id,
		Name:       in.Name,
		Email:      in.Email,
		Department: in.Department,
		Status:     in.Status,
		CreatedAt:  fromMillis(toMillis(createdAt)),
	}, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, id int64, in employee.Input) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
    UPDATE employees
       SET name = ?, email = ?, department = ?, status = ?
     WHERE id = ?`,
		in.Name, in.Email, in.Department, in.Status, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, employee.ErrDuplicateEmail
		}
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) ListDepartments(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT department FROM employees ORDER BY department`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var department string
		if err := rows.Scan(&department); err != nil {
			return nil, fmt.Errorf("list departments: %w", err)
		}
		out = append(out, department)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var emp employee.Employee
	var createdAt int64
	if err := row.Scan(&emp.ID, &emp.Name, &emp.Email, &emp.Department, &emp.Status, &createdAt); err != nil {
		return employee.Employee{}, err
	}
	emp.CreatedAt = fromMillis(createdAt)
	return emp, nil
}

// isUniqueViolation reports a UNIQUE index failure. The only unique index on
// employees is employees_email_key.
func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE
}

var _ employee.Store = (*Store)(nil)
