package employee

import (
	"strings"
	"time"
)

const (
	StatusActive     = "Active"
	StatusOnLeave    = "On Leave"
	StatusTerminated = "Terminated"
)

// AllDepartments is the sentinel the client sends when no department filter is selected.
const AllDepartments = "All"

type Employee struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Input holds the four mutable fields. Create and update both rewrite all of them.
type Input struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Status     string `json:"status"`
}

func (in Input) Normalized() Input {
	return Input{
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.TrimSpace(in.Email),
		Department: strings.TrimSpace(in.Department),
		Status:     strings.TrimSpace(in.Status),
	}
}

type ListResult struct {
	Employees []Employee `json:"employees"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	Limit     int        `json:"limit"`
}

func (r ListResult) TotalPages() int {
	if r.Limit <= 0 || r.Total <= 0 {
		return 0
	}
	return (r.Total + r.Limit - 1) / r.Limit
}
