package employee

import (
	"context"
	"errors"
	"fmt"
)

// MutationRecorder observes the outcome of create and update calls.
type MutationRecorder interface {
	RecordMutation(op, outcome string)
}

type Options struct {
	ValidationMode ValidationMode
	DefaultLimit   int
	MaxLimit       int
	Recorder       MutationRecorder
}

type Service struct {
	store Store
	opts  Options
}

func NewService(store Store, opts Options) *Service {
	if opts.ValidationMode == "" {
		opts.ValidationMode = ValidationStrict
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = MaxLimit
	}
	return &Service{store: store, opts: opts}
}

func (s *Service) ValidationMode() ValidationMode {
	return s.opts.ValidationMode
}

// List returns one window of the filtered universe together with the total
// size of that universe. The count runs first; the two statements are not
// required to observe the same snapshot.
func (s *Service) List(ctx context.Context, params ListParams) (ListResult, error) {
	params = params.Normalize(s.opts.DefaultLimit, s.opts.MaxLimit)
	plan := PlanListing(params)

	total, err := s.store.CountEmployees(ctx, plan)
	if err != nil {
		return ListResult{}, storageError("Failed to fetch employees", err)
	}

	rows, err := s.store.ListEmployees(ctx, plan)
	if err != nil {
		return ListResult{}, storageError("Failed to fetch employees", err)
	}
	if rows == nil {
		rows = []Employee{}
	}

	return ListResult{
		Employees: rows,
		Total:     total,
		Page:      params.Page,
		Limit:     params.Limit,
	}, nil
}

// Export returns the whole filtered universe in the requested order, up to MaxExportRows.
func (s *Service) Export(ctx context.Context, filter Filter) ([]Employee, error) {
	params := ListParams{Filter: filter, Page: 1, Limit: MaxExportRows}.Normalize(MaxExportRows, MaxExportRows)
	rows, err := s.store.ListEmployees(ctx, PlanListing(params))
	if err != nil {
		return nil, storageError("Failed to export employees", err)
	}
	if rows == nil {
		rows = []Employee{}
	}
	return rows, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Employee, error) {
	if id <= 0 {
		return Employee{}, notFoundError(nil)
	}
	emp, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return Employee{}, notFoundError(err)
		}
		return Employee{}, storageError("Failed to fetch employee", err)
	}
	return emp, nil
}

func (s *Service) Departments(ctx context.Context) ([]string, error) {
	departments, err := s.store.ListDepartments(ctx)
	if err != nil {
		return nil, storageError("Failed to fetch departments", err)
	}
	if departments == nil {
		departments = []string{}
	}
	return departments, nil
}

// Create validates the input and inserts one row. The returned employee
// carries the storage-assigned id and created_at.
func (s *Service) Create(ctx context.Context, in Input) (Employee, error) {
	emp, err := s.create(ctx, in)
	s.record("create", err)
	return emp, err
}

func (s *Service) create(ctx context.Context, in Input) (Employee, error) {
	in = in.Normalized()
	if err := Validate(in, s.opts.ValidationMode); err != nil {
		return Employee{}, err
	}

	emp, err := s.store.CreateEmployee(ctx, in)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return Employee{}, conflictError(err)
		}
		return Employee{}, storageError("Failed to add employee", fmt.Errorf("create employee: %w", err))
	}
	return emp, nil
}

// Update rewrites all four mutable fields of the employee with the given id.
func (s *Service) Update(ctx context.Context, id int64, in Input) error {
	err := s.update(ctx, id, in)
	s.record("update", err)
	return err
}

func (s *Service) update(ctx context.Context, id int64, in Input) error {
	in = in.Normalized()
	if err := Validate(in, s.opts.ValidationMode); err != nil {
		return err
	}
	if id <= 0 {
		return notFoundError(nil)
	}

	affected, err := s.store.UpdateEmployee(ctx, id, in)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return conflictError(err)
		}
		return storageError("Failed to update employee", fmt.Errorf("update employee %d: %w", id, err))
	}
	if affected == 0 {
		return notFoundError(nil)
	}
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) record(op string, err error) {
	if s.opts.Recorder == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(KindOf(err))
	}
	s.opts.Recorder.RecordMutation(op, outcome)
}
