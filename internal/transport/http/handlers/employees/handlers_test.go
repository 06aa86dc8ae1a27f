package employeeshandler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employeedir/internal/domain/employee"
	"employeedir/internal/storage/sqlite"
	"employeedir/internal/transport/http/api"
)

type testEnv struct {
	router  http.Handler
	service *employee.Service
}

func newTestEnv(t *testing.T, mode employee.ValidationMode) *testEnv {
	t.Helper()
	store, err := sqlite.Open(context.Background(), sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	service := employee.NewService(store, employee.Options{ValidationMode: mode})
	router := chi.NewRouter()
	router.Route("/api", NewHandler(service, employee.DefaultLimit, employee.MaxLimit).RegisterRoutes)
	return &testEnv{router: router, service: service}
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seed(t *testing.T, inputs ...employee.Input) {
	t.Helper()
	for _, in := range inputs {
		_, err := e.service.Create(context.Background(), in)
		require.NoError(t, err)
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func person(name, email, department string) employee.Input {
	return employee.Input{Name: name, Email: email, Department: department, Status: employee.StatusActive}
}

func TestListEmployeesFiltersAndCounts(t *testing.T) {
	env := newTestEnv(t, employee.ValidationStrict)
	env.seed(t,
		person("Alice Smith", "alice@example.com", "Engineering"),
		person("Bob Jones", "bob@example.com", "Sales"),
		person("Carol Smithers", "carol@example.com", "Engineering"),
		person("Dan Brown", "dan@smith.io", "HR"),
	)

	rec := env.do(t, http.MethodGet, "/api/employees?search=SMITH&limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[listResponse](t, rec)
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 2, body.TotalPages)
	assert.Len(t, body.Employees, 2)
	for _, emp := range body.Employees {
		match := strings.Contains(strings.ToLower(emp.Name), "smith") || strings.Contains(strings.ToLower(emp.Email), "smith")
		assert.True(t, match, emp.Name)
	}

	rec = env.do(t, http.MethodGet, "/api/employees?search=smith&department=Engineering", nil)
	body = decode[listResponse](t, rec)
	assert.Equal(t, 2, body.Total)
	for _, emp := range body.Employees {
		assert.Equal(t, "Engineering", emp.Department)
	}
}

func TestListEmployeesDefaultsAndFallbacks(t *testing.T) {
	env := newTestEnv(t, employee.ValidationStrict)
	for i := 1; i <= 7; i++ {
		env.seed(t, person(fmt.Sprintf("Person %02d", i), fmt.Sprintf("p%d@example.com", i), "Ops"))
	}

	rec := env.do(t, http.MethodGet, "/api/employees?page=abc&limit=xyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[listResponse](t, rec)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, employee.DefaultLimit, body.Limit)
	assert.Equal(t, 7, body.Total)
	assert.Equal(t, 2, body.TotalPages)
	require.Len(t, body.Employees, 5)
	assert.Equal(t, "Person 07", body.Employees[0].Name, "newest first by default")

	rec = env.do(t, http.MethodGet, "/api/employees?page=9", nil)
	body = decode[listResponse](t, rec)
	assert.Equal(t, 7, body.Total)
	assert.NotNil(t, body.Employees)
	assert.Empty(t, body.Employees)
}

func TestListEmployeesPagesAreDisjoint(t *testing.T) {
	env := newTestEnv(t, employee.ValidationStrict)
	names := []string{"Mia", "Ana", "Zoe", "Eli", "Kai", "Bea", "Ola"}
	for i, name := range names {
		env.seed(t, person(name+" Test", fmt.Sprintf("u%d@example.com", i), "Ops"))
	}

	seen := map[int64]bool{}
	var ordered []string
	for page := 1; page <= 3; page++ {
		rec := env.do(t, http.MethodGet, fmt.Sprintf("/api/employees?sort=asc&limit=3&page=%d", page), nil)
		body := decode[listResponse](t, rec)
		for _, emp := range body.Employees {
			assert.False(t, seen[emp.ID], "id %d appeared twice", emp.ID)
			seen[emp.ID] = true
			ordered = append(ordered, emp.Name)
		}
	}
	assert.Len(t, seen, len(names))
	assert.IsNonDecreasing(t, ordered)
}

func TestListEmployeesSortDescAndAllDepartments(t *testing.T) {
	env := newTestEnv(t, employee.ValidationStrict)
	env.seed(t,
		person("Ann Lee", "ann@example.com", "HR"),
		person("Zed Kim", "zed@example.com", "Sales"),
		person("Max Roe", "max@example.com", "HR"),
	)

	all := decode[listResponse](t, env.do(t, http.MethodGet, "/api/employees?department=All&sort=desc", nil))
	none := decode[listResponse](t, env.do(t, http.MethodGet, "/api/employees?sort=desc", nil))
	assert.Equal(t, none.Total, all.Total)
	require.Len(t, all.Employees, 3)
	assert.Equal(t, []string{"Zed Kim", "Max Roe", "Ann Lee"}, []string{
		all.Employees[0].Name, all.Employees[1].Name, all.Employees[2].Name,
	})
	assert.Equal(t, none.Employees, all.Employees)
}

func TestListEmployeesTreatsSearchAsData(t *testing.T) {
	env := newTestEnv(t, employee.ValidationStrict)
	env.seed(t,
		person("Ann Lee", "ann@example.com", "HR"),
		person("Per Cent", "100%@example.com", "HR"),
	)

	for _, search := range []string{"' OR '1'='1", "x'); DROP TABLE employees; --", "%"} {
		rec := env.do(t, http.MethodGet, "/api/employees?search="+url.QueryEscape(search), nil)
		require.Equal(t, http.StatusOK, rec.Code, search)
		body := decode[listResponse](t, rec)
		if search == "%" {
			assert.Equal(t, 1, body.Total, "percent sign matches literally")
			continue
		}
		assert.Equal(t, 0, body.Total, search)
	}

	body := decode[listResponse](t, env.do(t, http.MethodGet, "/api/employees", nil))
	assert.Equal(t, 2, body.Total, "table intact")
}

func TestCreateEmployee(t *testing.T) {
	env := newTestEnv(t, employee.ValidationStrict)

	rec := env.do(t, http.MethodPost, "/api/employees", person("Alice Smith", "alice@example.com", "Engineering"))
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode[api.MessageBody](t, rec)
	assert.Equal(t, "Employee added successfully", body.Message)
	require.Positive(t, body.ID)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/employees/%d", body.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	emp := decode[employee.Employee](t, rec)
	assert.Equal(t, "alice@example.com", emp.Email)
	assert.False(t, emp.CreatedAt.IsZero())
}

func TestCreateShortEmployeeThenSearch(t *testing.T) {
	env := newTestEnv(t, employee.ValidationStrict)

	rec := env.do(t, http.MethodPost, "/api/employees", map[string]string{
		"name": "Al", "email": "a@b.com", "department": "Eng", "status": "Active",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[api.MessageBody](t, rec).ID

	body := decode[listResponse](t, env.do(t, http.MethodGet, "/api/employees?search=Al", nil))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, id, body.Employees[0].ID)
	assert.Equal(t, "a@b.com", body.Employees[0].Email)
}

func TestListEmployeesCapsLimit(t *testing.T) {
	env := newTestEnv(t, employee.ValidationStrict)
	env.seed(t, person("Ann Lee", "ann@example.com", "HR"))

	body := decode[listResponse](t, env.do(t, http.MethodGet, "/api/employees?limit=500", nil))
	assert.Equal(t, employee.MaxLimit, body.Limit)
	assert.Equal(t, 1, body.TotalPages)
}

func TestCreateEmployeeRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t, employee.ValidationStrict)
	env.seed(t, person("Alice Smith", "alice@example.com", "Engineering"))

	rec := env.do(t, http.MethodPost, "/api/employees", person("Alice Clone", "alice@example.com", "Sales"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[api.ErrorBody](t, rec)
	assert.Equal(t, employee.MsgEmailExists, body.Error)
	assert.Equal(t, "email", body.Field)

	list := decode[listResponse](t, env.do(t, http.MethodGet, "/api/employees", nil))
	assert.Equal(t, 1, list.Total)
}

func TestCreateEmployeeRequiresAllFields(t *testing.T) {
	for _, mode := range []employee.ValidationMode{employee.ValidationStrict, employee.ValidationPresence} {
		t.Run(string(mode), func(t *testing.T) {
			env := newTestEnv(t, mode)
			in := person("Alice Smith", "alice@example.com", "Engineering")
			in.Department = "   "

			rec := env.do(t, http.MethodPost, "/api/employees", in)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, employee.MsgFieldsRequired, decode[api.ErrorBody](t, rec).Error)

			list := decode[listResponse](t, env.do(t, http.MethodGet, "/api/employees", nil))
			assert.Zero(t, list.Total)
		})
	}
}

func TestCreateEmployeeFormatChecksDependOnMode(t *testing.T) {
	in := person("A", "not-an-email", "Engineering")

	strict := newTestEnv(t, employee.ValidationStrict)
	rec := strict.do(t, http.MethodPost, "/api/employees", in)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[api.ErrorBody](t, rec)
	assert.Equal(t, employee.MsgNameTooShort, body.Error)
	assert.Equal(t, "name", body.Field)

	presence := newTestEnv(t, employee.ValidationPresence)
	rec = presence.do(t, http.MethodPost, "/api/employees", in)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateEmployeeMalformedJSON(t *testing.T) {
	env := newTestEnv(t, employee.ValidationStrict)
	rec := env.do(t, http.MethodPost, "/api/employees", `{"name":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request payload", decode[api.ErrorBody](t, rec).Error)
}

func TestUpdateEmployee(t *testing.T) {
	env := newTestEnv(t, employee.ValidationStrict)
	env.seed(t,
		person("Alice Smith", "alice@example.com", "Engineering"),
		person("Bob Jones", "bob@example.com", "Sales"),
	)
	list := decode[listResponse](t, env.do(t, http.MethodGet, "/api/employees?sort=asc", nil))
	alice := list.Employees[0]

	update := employee.Input{Name: "Alice Walker", Email: "alice.w@example.com", Department: "HR", Status: employee.StatusOnLeave}
	rec := env.do(t, http.MethodPut, fmt.Sprintf("/api/employees/%d", alice.ID), update)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Employee updated successfully", decode[api.MessageBody](t, rec).Message)

	got := decode[employee.Employee](t, env.do(t, http.MethodGet, fmt.Sprintf("/api/employees/%d", alice.ID), nil))
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "Alice Walker", got.Name)
	assert.Equal(t, employee.StatusOnLeave, got.Status)
	assert.True(t, alice.CreatedAt.Equal(got.CreatedAt), "created_at is never rewritten")

	conflicting := employee.Input{Name: "Alice Jones", Email: "bob@example.com", Department: "Sales", Status: employee.StatusActive}
	rec = env.do(t, http.MethodPut, fmt.Sprintf("/api/employees/%d", alice.ID), conflicting)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, employee.MsgEmailExists, decode[api.ErrorBody](t, rec).Error)

	after := decode[employee.Employee](t, env.do(t, http.MethodGet, fmt.Sprintf("/api/employees/%d", alice.ID), nil))
	assert.Equal(t, got, after, "rejected update leaves the row untouched")
}

func TestUpdateEmployeeNotFound(t *testing.T) {
	env := newTestEnv(t, employee.ValidationStrict)
	env.seed(t, person("Alice Smith", "alice@example.com", "Engineering"))
	before := decode[listResponse](t, env.do(t, http.MethodGet, "/api/employees", nil))
	require.Len(t, before.Employees, 1)
	in := person("Ghost Person", "ghost@example.com", "Ops")

	for _, target := range []string{"/api/employees/999", "/api/employees/abc", "/api/employees/-4"} {
		rec := env.do(t, http.MethodPut, target, in)
		require.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Equal(t, employee.MsgNotFound, decode[api.ErrorBody](t, rec).Error)
	}

	after := decode[listResponse](t, env.do(t, http.MethodGet, "/api/employees", nil))
	assert.Equal(t, 1, after.Total, "update never inserts")
	assert.Equal(t, before.Employees, after.Employees)
}

func TestGetEmployeeNotFound(t *testing.T) {
	env := newTestEnv(t, employee.ValidationStrict)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/employees/12", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/employees/twelve", nil).Code)
}

func TestListDepartments(t *testing.T) {
	env := newTestEnv(t, employee.ValidationStrict)

	empty := decode[map[string][]string](t, env.do(t, http.MethodGet, "/api/departments", nil))
	assert.Equal(t, []string{}, empty["departments"])

	env.seed(t,
		person("Ann Lee", "ann@example.com", "Sales"),
		person("Zed Kim", "zed@example.com", "Engineering"),
		person("Max Roe", "max@example.com", "Sales"),
	)
	got := decode[map[string][]string](t, env.do(t, http.MethodGet, "/api/departments", nil))
	assert.Equal(t, []string{"Engineering", "Sales"}, got["departments"])
}

func TestExportEmployees(t *testing.T) {
	env := newTestEnv(t, employee.ValidationStrict)
	env.seed(t,
		person("Ann Lee", "ann@example.com", "Sales"),
		person("Zed Kim", "zed@example.com", "Engineering"),
	)

	rec := env.do(t, http.MethodGet, "/api/employees/export?department=Sales", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment;")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = env.do(t, http.MethodGet, "/api/employees/export?format=csv&sort=asc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Ann Lee")
	assert.Contains(t, lines[2], "Zed Kim")
}
