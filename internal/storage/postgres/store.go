package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"employeedir/internal/domain/employee"
)

const uniqueViolation = "23505"

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}

func (s *Store) CountEmployees(ctx context.Context, plan employee.QueryPlan) (int, error) {
	query, args := plan.CountSQL(employee.DialectPostgres)
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return total, nil
}

func (s *Store) ListEmployees(ctx context.Context, plan employee.QueryPlan) ([]employee.Employee, error) {
	query, args := plan.SelectSQL(employee.DialectPostgres)
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	out := make([]employee.Employee, 0, plan.Limit)
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Email, &emp.Department, &emp.Status, &emp.CreatedAt); err != nil {
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
	var emp employee.Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, department, status, created_at
    FROM employees
    WHERE id = $1
  `, id).Scan(&emp.ID, &emp.Name, &emp.Email, &emp.Department, &emp.Status, &emp.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrNoRows
		}
		return employee.Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return emp, nil
}

func (s *Store) CreateEmployee(ctx context.Context, in employee.Input) (employee.Employee, error) {
	emp := employee.Employee{
		Name:       in.Name,
		Email:      in.Email,
		Department: in.Department,
		Status:     in.Status,
	}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, email, department, status)
    VALUES ($1, $2, $3, $4)
    RETURNING id, created_at
  `, in.Name, in.Email, in.Department, in.Status).Scan(&emp.ID, &emp.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrDuplicateEmail
		}
		return employee.Employee{}, err
	}
	emp.CreatedAt = emp.CreatedAt.UTC()
	return emp, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, id int64, in employee.Input) (int64, error) {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET name = $1,
        email = $2,
        department = $3,
        status = $4
    WHERE id = $5
  `, in.Name, in.Email, in.Department, in.Status, id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, employee.ErrDuplicateEmail
		}
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `SELECT DISTINCT department FROM employees ORDER BY department`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	departments, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ employee.Store = (*Store)(nil)
