package shared

import (
	"net/http"
	"strconv"
	"strings"

	"employeedir/internal/domain/employee"
)

// ParseFilter reads search, department and sort from the query string.
func ParseFilter(r *http.Request) employee.Filter {
	q := r.URL.Query()
	return employee.Filter{
		Search:     strings.TrimSpace(q.Get("search")),
		Department: strings.TrimSpace(q.Get("department")),
		Sort:       employee.ParseSortMode(q.Get("sort")),
	}
}

// ParseListParams reads the listing query. Missing or non-numeric page and
// limit values fall back to defaults; the result is normalized.
func ParseListParams(r *http.Request, defaultLimit, maxLimit int) employee.ListParams {
	q := r.URL.Query()
	page := employee.DefaultPage
	if raw := q.Get("page"); raw != "" {
		if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			page = v
		}
	}
	limit := defaultLimit
	if raw := q.Get("limit"); raw != "" {
		if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && v > 0 {
			limit = v
		}
	}
	return employee.ListParams{
		Filter: ParseFilter(r),
		Page:   page,
		Limit:  limit,
	}.Normalize(defaultLimit, maxLimit)
}

// ParseID parses a positive integer path id.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ClientIP returns RemoteAddr's host. X-Forwarded-For is consulted only when
// trustForwarded is set, i.e. when the server sits behind a proxy that
// overwrites the header.
func ClientIP(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
			if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
				return first
			}
		}
	}
	addr := strings.TrimSpace(r.RemoteAddr)
	if i := strings.LastIndex(addr, ":"); i > 0 {
		return strings.Trim(addr[:i], "[]")
	}
	return addr
}
