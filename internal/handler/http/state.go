package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/capacity-planner/internal/handler/http/response"
	"github.com/cmlabs-hris/capacity-planner/internal/store"
)

type StateHandler interface {
	// Get returns the selected werkplaats, the known werkplaatsen and the version
	Get(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
	Reset(w http.ResponseWriter, r *http.Request)
	SetWerkplaats(w http.ResponseWriter, r *http.Request)
}

type stateHandlerImpl struct {
	store *store.Store
}

func NewStateHandler(s *store.Store) StateHandler {
	return &stateHandlerImpl{store: s}
}

type StateResponse struct {
	Werkplaats   string   `json:"werkplaats"`
	Werkplaatsen []string `json:"werkplaatsen"`
	Version      uint64   `json:"version"`
}

func (h *stateHandlerImpl) state() StateResponse {
	return StateResponse{
		Werkplaats:   h.store.Werkplaats(),
		Werkplaatsen: h.store.Werkplaatsen(),
		Version:      h.store.Version(),
	}
}

// Get handles GET /state
func (h *stateHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.state())
}

// Export handles GET /state/export
func (h *stateHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.Export(true)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Attachment(w, "application/json", "verlofplanner.json", data)
}

// Import handles POST /state/import
func (h *stateHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		slog.Error("Import read error", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.store.Import(r.Context(), body); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "State imported successfully", h.state())
}

// Reset handles POST /state/reset. With ?scope=all the planning board is
// restored as well.
func (h *stateHandlerImpl) Reset(w http.ResponseWriter, r *http.Request) {
	reset := h.store.Reset
	switch r.URL.Query().Get("scope") {
	case "", string(store.ScopeSnapshot):
	case string(store.ScopeAll):
		reset = h.store.ResetAll
	default:
		response.BadRequest(w, "Unknown reset scope", nil)
		return
	}

	if err := reset(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "State reset", h.state())
}

type setWerkplaatsRequest struct {
	Werkplaats string `json:"werkplaats"`
}

// SetWerkplaats handles PUT /state/werkplaats
func (h *stateHandlerImpl) SetWerkplaats(w http.ResponseWriter, r *http.Request) {
	var req setWerkplaatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetWerkplaats decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.Werkplaats == "" {
		response.ValidationError(w, map[string]string{"werkplaats": "werkplaats is required"})
		return
	}

	if err := h.store.SetWerkplaats(r.Context(), req.Werkplaats); err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, h.state())
}
