package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/absence"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/employee"
	"github.com/cmlabs-hris/capacity-planner/internal/handler/http/response"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/isoweek"
	"github.com/cmlabs-hris/capacity-planner/internal/store"
)

type AbsenceHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Set(w http.ResponseWriter, r *http.Request)
	Clear(w http.ResponseWriter, r *http.Request)
}

type absenceHandlerImpl struct {
	store *store.Store
}

func NewAbsenceHandler(s *store.Store) AbsenceHandler {
	return &absenceHandlerImpl{store: s}
}

type AbsenceResponse struct {
	EmployeeID string            `json:"employee_id"`
	Date       string            `json:"date"`
	Base       float64           `json:"base"`
	Blocked    float64           `json:"blocked"`
	Record     *absence.Record   `json:"record"`
	Segments   []absence.Segment `json:"segments"`
}

func (h *absenceHandlerImpl) view(employeeID, date string, base float64) AbsenceResponse {
	resp := AbsenceResponse{EmployeeID: employeeID, Date: date, Base: base, Segments: []absence.Segment{}}
	if rec, ok := h.store.Absence(employeeID, date); ok {
		resp.Record = &rec
		resp.Blocked = rec.Blocked(base)
		resp.Segments = rec.Segments(base)
	}
	return resp
}

// Get handles GET /absences/{employeeID}/{date}
func (h *absenceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	date := chi.URLParam(r, "date")

	if _, ok := isoweek.Parse(date); !ok {
		response.HandleError(w, absence.ErrInvalidDate)
		return
	}

	emp, err := h.store.Employee(employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, h.view(employeeID, date, emp.BaseHours()))
}

// Set handles PUT /absences/{employeeID}/{date}
func (h *absenceHandlerImpl) Set(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	date := chi.URLParam(r, "date")

	var patch absence.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		slog.Error("SetAbsence decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if _, err := h.store.Employee(employeeID); err != nil {
		response.HandleError(w, employee.ErrEmployeeNotFound)
		return
	}

	base, err := h.store.SetAbsence(r.Context(), employeeID, date, patch)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, h.view(employeeID, date, base))
}

// Clear handles DELETE /absences
func (h *absenceHandlerImpl) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearAbsences(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Absences cleared", nil)
}
