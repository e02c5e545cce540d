package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/task"
	"github.com/cmlabs-hris/capacity-planner/internal/handler/http/response"
	"github.com/cmlabs-hris/capacity-planner/internal/service/planning"
	"github.com/cmlabs-hris/capacity-planner/internal/store"
)

type FilterHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Set(w http.ResponseWriter, r *http.Request)
	Reset(w http.ResponseWriter, r *http.Request)
}

type filterHandlerImpl struct {
	store *store.Store
}

func NewFilterHandler(s *store.Store) FilterHandler {
	return &filterHandlerImpl{store: s}
}

type FilterResponse struct {
	Filters task.Filter     `json:"filters"`
	Chips   []planning.Chip `json:"chips"`
}

func (h *filterHandlerImpl) view(f task.Filter) FilterResponse {
	chips := planning.Chips(f, h.store.Workshops())
	if chips == nil {
		chips = []planning.Chip{}
	}
	return FilterResponse{Filters: f, Chips: chips}
}

// Get handles GET /filters
func (h *filterHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.view(h.store.Filters()))
}

// Set handles PUT /filters
func (h *filterHandlerImpl) Set(w http.ResponseWriter, r *http.Request) {
	var req task.Filter
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetFilters decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	response.Success(w, h.view(h.store.SetFilters(req)))
}

// Reset handles DELETE /filters
func (h *filterHandlerImpl) Reset(w http.ResponseWriter, r *http.Request) {
	h.store.ResetFilters()
	response.Success(w, h.view(h.store.Filters()))
}
