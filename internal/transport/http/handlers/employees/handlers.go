package employeeshandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"employeedir/internal/domain/employee"
	"employeedir/internal/platform/logger"
	"employeedir/internal/transport/http/api"
	"employeedir/internal/transport/http/middleware"
	"employeedir/internal/transport/http/shared"
)

type Handler struct {
	Service      *employee.Service
	DefaultLimit int
	MaxLimit     int
}

func NewHandler(service *employee.Service, defaultLimit, maxLimit int) *Handler {
	return &Handler{Service: service, DefaultLimit: defaultLimit, MaxLimit: maxLimit}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/export", h.handleExport)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
		})
	})
	r.Get("/departments", h.handleDepartments)
}

type listResponse struct {
	Employees  []employee.Employee `json:"employees"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"totalPages"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	params := shared.ParseListParams(r, h.DefaultLimit, h.MaxLimit)
	result, err := h.Service.List(r.Context(), params)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, listResponse{
		Employees:  result.Employees,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages(),
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload employee.Input
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, api.MessageBody{Message: "Employee added successfully", ID: emp.ID})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.ParseID(chi.URLParam(r, "employeeID"))
	if !ok {
		api.Fail(w, http.StatusNotFound, employee.MsgNotFound, middleware.GetRequestID(r.Context()))
		return
	}
	emp, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, emp)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload employee.Input
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	// A non-integer id parses to 0, which the service reports as not found.
	id, _ := shared.ParseID(chi.URLParam(r, "employeeID"))
	if err := h.Service.Update(r.Context(), id, payload); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, api.MessageBody{Message: "Employee updated successfully"})
}

func (h *Handler) handleDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.Departments(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string][]string{"departments": departments})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if employee.KindOf(err) == employee.KindStorage {
		logger.FromContext(r.Context()).Error().Err(err).Msg("employee storage failure")
	}
	api.FailError(w, err, middleware.GetRequestID(r.Context()))
}
