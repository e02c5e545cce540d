package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/capacity"
	"github.com/cmlabs-hris/capacity-planner/internal/handler/http/response"
	"github.com/cmlabs-hris/capacity-planner/internal/store"
)

type CapacityHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type capacityHandlerImpl struct {
	store *store.Store
}

func NewCapacityHandler(s *store.Store) CapacityHandler {
	return &capacityHandlerImpl{store: s}
}

type CapacityResponse struct {
	capacity.Config
	Total   float64 `json:"total"`
	Current float64 `json:"current"`
}

func (h *capacityHandlerImpl) view() CapacityResponse {
	cfg := h.store.Capacity()
	workshop, filtered := h.store.Filters().Workshop()
	return CapacityResponse{
		Config:  cfg,
		Total:   cfg.Configured(),
		Current: cfg.Current(workshop, filtered),
	}
}

// Get handles GET /capacity
func (h *capacityHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.view())
}

// Update handles PUT /capacity
func (h *capacityHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req capacity.UpdateCapacityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateCapacity decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.store.SetCapacity(r.Context(), req.Apply(h.store.Capacity())); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Capacity updated", h.view())
}
