package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/task"
	"github.com/cmlabs-hris/capacity-planner/internal/handler/http/response"
	"github.com/cmlabs-hris/capacity-planner/internal/service/planning"
	"github.com/cmlabs-hris/capacity-planner/internal/service/transfer"
	"github.com/cmlabs-hris/capacity-planner/internal/store"
)

type TaskHandler interface {
	// List returns the filtered, sorted task view
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
	// Import replaces the task list from a JSON array or an XLSX workbook
	Import(w http.ResponseWriter, r *http.Request)
	Workshops(w http.ResponseWriter, r *http.Request)
}

type taskHandlerImpl struct {
	store    *store.Store
	engine   *planning.Engine
	transfer *transfer.Service
}

func NewTaskHandler(s *store.Store, engine *planning.Engine, transferService *transfer.Service) TaskHandler {
	return &taskHandlerImpl{store: s, engine: engine, transfer: transferService}
}

type TaskListResponse struct {
	Tasks   []task.Item     `json:"tasks"`
	Version uint64          `json:"version"`
	Filters task.Filter     `json:"filters"`
	Chips   []planning.Chip `json:"chips"`
}

// List handles GET /tasks
func (h *taskHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	items := h.engine.Filtered()
	if items == nil {
		items = []task.Item{}
	}
	filters := h.store.Filters()
	chips := planning.Chips(filters, h.store.Workshops())
	if chips == nil {
		chips = []planning.Chip{}
	}
	_, version := h.store.Tasks()

	response.Success(w, TaskListResponse{
		Tasks:   items,
		Version: version,
		Filters: filters,
		Chips:   chips,
	})
}

// Create handles POST /tasks
func (h *taskHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req task.SaveTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateTask decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.store.SaveTask(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Taak opgeslagen", task.NewItem(created))
}

// Update handles PUT /tasks/{id}
func (h *taskHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req task.SaveTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateTask decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.store.UpdateTask(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Taak opgeslagen", task.NewItem(updated))
}

// ExportCSV handles GET /tasks/export.csv
func (h *taskHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.transfer.ExportCSV(&buf); err != nil {
		response.HandleError(w, err)
		return
	}
	response.Attachment(w, "text/csv; charset=utf-8", "planning_export.csv", buf.Bytes())
}

type ImportResponse struct {
	Imported int    `json:"imported"`
	Version  uint64 `json:"version"`
}

// Import handles POST /tasks/import. The file is the request body, or the
// "file" field of a multipart form.
func (h *taskHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)

	var (
		data []byte
		err  error
	)
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			response.BadRequest(w, "Failed to parse form", nil)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			response.BadRequest(w, "file is required", nil)
			return
		}
		defer file.Close()
		contentType = header.Header.Get("Content-Type")
		data, err = io.ReadAll(file)
		if err != nil {
			response.BadRequest(w, "Failed to read file", nil)
			return
		}
	} else {
		data, err = readBody(w, r)
		if err != nil {
			slog.Error("ImportTasks read error", "error", err)
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	n, err := h.transfer.Import(r.Context(), contentType, data)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	_, version := h.store.Tasks()
	response.SuccessWithMessage(w, "Taken geïmporteerd", ImportResponse{Imported: n, Version: version})
}

// Workshops handles GET /workshops
func (h *taskHandlerImpl) Workshops(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.store.Workshops())
}
