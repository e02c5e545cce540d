package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/leave"
	"github.com/cmlabs-hris/capacity-planner/internal/handler/http/response"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/numeric"
	leaveService "github.com/cmlabs-hris/capacity-planner/internal/service/leave"
	"github.com/cmlabs-hris/capacity-planner/internal/store"
)

type LeaveHandler interface {
	// Matrix returns the day grid, header and rows of ?year=
	Matrix(w http.ResponseWriter, r *http.Request)
	// Chart returns the weekly capacity and workload series of ?year=
	Chart(w http.ResponseWriter, r *http.Request)
	ReplaceMatrix(w http.ResponseWriter, r *http.Request)
	SetEntry(w http.ResponseWriter, r *http.Request)
	SetYear(w http.ResponseWriter, r *http.Request)
	Types(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	store       *store.Store
	synthesizer *leaveService.Synthesizer
}

func NewLeaveHandler(s *store.Store, synthesizer *leaveService.Synthesizer) LeaveHandler {
	return &leaveHandlerImpl{store: s, synthesizer: synthesizer}
}

// Matrix handles GET /leave/matrix
func (h *leaveHandlerImpl) Matrix(w http.ResponseWriter, r *http.Request) {
	year, ok := queryInt(r, "year")
	if !ok {
		response.HandleError(w, leave.ErrInvalidYear)
		return
	}
	response.Success(w, h.synthesizer.Matrix(year))
}

// Chart handles GET /leave/chart
func (h *leaveHandlerImpl) Chart(w http.ResponseWriter, r *http.Request) {
	year, ok := queryInt(r, "year")
	if !ok {
		response.HandleError(w, leave.ErrInvalidYear)
		return
	}
	response.Success(w, h.synthesizer.Chart(h.synthesizer.ResolveYear(year)))
}

// ReplaceMatrix handles PUT /leave/matrix
func (h *leaveHandlerImpl) ReplaceMatrix(w http.ResponseWriter, r *http.Request) {
	var matrix leave.Matrix
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadSize)).Decode(&matrix); err != nil {
		slog.Error("ReplaceMatrix decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.store.ReplaceLeaveMatrix(r.Context(), matrix); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave matrix replaced", h.synthesizer.Matrix(0))
}

type EntryResponse struct {
	Employee int          `json:"employee"`
	Date     string       `json:"date"`
	Entry    *leave.Entry `json:"entry"`
}

// SetEntry handles PUT /leave/matrix/{employee}/{date}. With hours the
// cell's hours (and optionally type) are written; hours <= 0 clear it.
// Without hours only the type changes.
func (h *leaveHandlerImpl) SetEntry(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "employee"))
	if err != nil {
		response.HandleError(w, leave.ErrEmployeeNotFound)
		return
	}
	date := chi.URLParam(r, "date")

	var req leave.SetEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetLeaveEntry decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	var (
		entry leave.Entry
		kept  bool
	)
	if req.Hours != nil {
		entry, kept, err = h.store.SetLeaveHours(r.Context(), index, date, numeric.Of(*req.Hours), req.Type)
	} else {
		entry, kept, err = h.store.SetLeaveType(r.Context(), index, date, req.Type, numeric.Value{})
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := EntryResponse{Employee: index, Date: date}
	if kept {
		resp.Entry = &entry
	}
	response.Success(w, resp)
}

type setYearRequest struct {
	Year int `json:"year"`
}

// SetYear handles PUT /leave/year
func (h *leaveHandlerImpl) SetYear(w http.ResponseWriter, r *http.Request) {
	var req setYearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetLeaveYear decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if req.Year <= 0 {
		response.HandleError(w, leave.ErrInvalidYear)
		return
	}

	year := h.synthesizer.ResolveYear(req.Year)
	if err := h.store.SetLeaveYear(r.Context(), year); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int{"year": year})
}

// Types handles GET /leave/types
func (h *leaveHandlerImpl) Types(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.store.Catalog().Types())
}
