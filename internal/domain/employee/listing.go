package employee

import (
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100
	// MaxExportRows bounds the rows rendered into a single directory export.
	MaxExportRows = 1000
)

type SortMode string

const (
	SortNewest   SortMode = ""
	SortNameAsc  SortMode = "asc"
	SortNameDesc SortMode = "desc"
)

// ParseSortMode maps the query value onto a SortMode. Unknown values select
// the default newest-first ordering.
func ParseSortMode(value string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(value))) {
	case SortNameAsc:
		return SortNameAsc
	case SortNameDesc:
		return SortNameDesc
	default:
		return SortNewest
	}
}

type Filter struct {
	Search     string
	Department string
	Sort       SortMode
}

// ListParams is the immutable request value for one listing call. Callers
// build a new value for every page or filter change.
type ListParams struct {
	Filter
	Page  int
	Limit int
}

func NewListParams(filter Filter, page, limit int) ListParams {
	return ListParams{Filter: filter, Page: page, Limit: limit}.Normalize(DefaultLimit, MaxLimit)
}

// Normalize applies paging defaults: page is clamped to at least 1, a
// non-positive limit falls back to defaultLimit, and limit never exceeds
// maxLimit when maxLimit is positive.
func (p ListParams) Normalize(defaultLimit, maxLimit int) ListParams {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	p.Search = strings.TrimSpace(p.Search)
	p.Department = strings.TrimSpace(p.Department)
	return p
}

func (p ListParams) Offset() int {
	if p.Page < 1 || p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Predicate is one WHERE term. Clause uses '?' markers bound positionally to Args.
type Predicate struct {
	Clause string
	Args   []any
}

// QueryPlan is the parameterized form of a listing request. The same
// predicate list drives both the windowed read and the count.
type QueryPlan struct {
	Predicates []Predicate
	OrderBy    string
	Limit      int
	Offset     int
}

type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

const (
	employeeTable   = "employees"
	employeeColumns = "id, name, email, department, status, created_at"
)

// PlanListing turns listing parameters into a query plan. It performs no I/O.
func PlanListing(params ListParams) QueryPlan {
	return QueryPlan{
		Predicates: filterPredicates(params.Filter),
		OrderBy:    orderClause(params.Sort),
		Limit:      params.Limit,
		Offset:     params.Offset(),
	}
}

func filterPredicates(filter Filter) []Predicate {
	var predicates []Predicate
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		predicates = append(predicates, Predicate{
			Clause: `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`,
			Args:   []any{pattern, pattern},
		})
	}
	if department := strings.TrimSpace(filter.Department); department != "" && department != AllDepartments {
		predicates = append(predicates, Predicate{
			Clause: "department = ?",
			Args:   []any{department},
		})
	}
	return predicates
}

// orderClause sorts names case-insensitively on every dialect; id breaks ties.
func orderClause(mode SortMode) string {
	switch mode {
	case SortNameAsc:
		return "LOWER(name) ASC, id ASC"
	case SortNameDesc:
		return "LOWER(name) DESC, id DESC"
	default:
		return "id DESC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

func (qp QueryPlan) where() (string, []any) {
	if len(qp.Predicates) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(qp.Predicates))
	var args []any
	for _, p := range qp.Predicates {
		clauses = append(clauses, p.Clause)
		args = append(args, p.Args...)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// SelectSQL renders the windowed read.
func (qp QueryPlan) SelectSQL(d Dialect) (string, []any) {
	where, args := qp.where()
	orderBy := qp.OrderBy
	if orderBy == "" {
		orderBy = orderClause(SortNewest)
	}
	query := "SELECT " + employeeColumns + " FROM " + employeeTable + where +
		" ORDER BY " + orderBy + " LIMIT ? OFFSET ?"
	args = append(args, qp.Limit, qp.Offset)
	return rebind(d, query), args
}

// CountSQL renders the count over the filtered universe. Ordering and the
// window are deliberately absent.
func (qp QueryPlan) CountSQL(d Dialect) (string, []any) {
	where, args := qp.where()
	return rebind(d, "SELECT COUNT(*) FROM "+employeeTable+where), args
}

// rebind rewrites '?' markers into the dialect's placeholder syntax.
func rebind(d Dialect, query string) string {
	if d != DialectPostgres {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
