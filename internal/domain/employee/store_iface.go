package employee

import "context"

// Store is the persistence contract. Implementations return ErrDuplicateEmail
// on a uniqueness violation and ErrNoRows when a single-row read misses.
type Store interface {
	CountEmployees(ctx context.Context, plan QueryPlan) (int, error)
	ListEmployees(ctx context.Context, plan QueryPlan) ([]Employee, error)
	GetEmployee(ctx context.Context, id int64) (Employee, error)
	CreateEmployee(ctx context.Context, in Input) (Employee, error)
	// UpdateEmployee rewrites the four mutable fields and reports the number of rows matched.
	UpdateEmployee(ctx context.Context, id int64, in Input) (int64, error)
	ListDepartments(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}
