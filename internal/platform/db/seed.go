package db

import (
	"context"
	"errors"

	"employeedir/internal/domain/employee"
)

var sampleEmployees = []employee.Input{
	{Name: "Ada Lovelace", Email: "ada@example.com", Department: "Engineering", Status: employee.StatusActive},
	{Name: "Grace Hopper", Email: "grace@example.com", Department: "Engineering", Status: employee.StatusActive},
	{Name: "Katherine Johnson", Email: "katherine@example.com", Department: "Finance", Status: employee.StatusOnLeave},
	{Name: "Alan Turing", Email: "alan@example.com", Department: "Research", Status: employee.StatusActive},
	{Name: "Margaret Hamilton", Email: "margaret@example.com", Department: "Engineering", Status: employee.StatusActive},
	{Name: "Edsger Dijkstra", Email: "edsger@example.com", Department: "Research", Status: employee.StatusTerminated},
	{Name: "Barbara Liskov", Email: "barbara@example.com", Department: "HR", Status: employee.StatusActive},
}

// Seed inserts the sample employees when the table is empty. Rows whose
// email already exists are skipped, so concurrent seeding is harmless.
func Seed(ctx context.Context, store employee.Store) (int, error) {
	total, err := store.CountEmployees(ctx, employee.PlanListing(employee.NewListParams(employee.Filter{}, 1, 1)))
	if err != nil {
		return 0, err
	}
	if total > 0 {
		return 0, nil
	}

	inserted := 0
	for _, in := range sampleEmployees {
		if _, err := store.CreateEmployee(ctx, in); err != nil {
			if errors.Is(err, employee.ErrDuplicateEmail) {
				continue
			}
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
