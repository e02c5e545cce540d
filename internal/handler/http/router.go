package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"github.com/cmlabs-hris/capacity-planner/internal/handler/http/middleware"
)

// Handlers groups the route handlers.
type Handlers struct {
	State     StateHandler
	Employee  EmployeeHandler
	Absence   AbsenceHandler
	Planning  PlanningHandler
	Task      TaskHandler
	Filter    FilterHandler
	Dashboard DashboardHandler
	Capacity  CapacityHandler
	Leave     LeaveHandler
	Event     EventHandler
}

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	LogLevel       slog.Level
}

func NewRouter(cfg RouterConfig, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: false,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
		// The event stream stays open for the whole session.
		Skip: func(req *http.Request, respStatus int) bool {
			return req.URL.Path == "/api/v1/events"
		},
	}))

	r.Use(middleware.LocalOnly)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/state", func(r chi.Router) {
			r.Get("/", h.State.Get)
			r.Get("/export", h.State.Export)
			r.Post("/import", h.State.Import)
			r.Post("/reset", h.State.Reset)
			r.Put("/werkplaats", h.State.SetWerkplaats)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.Employee.List)
			r.Post("/", h.Employee.Create)
			r.Put("/{id}", h.Employee.Update)
			r.Delete("/{id}", h.Employee.Delete)
		})

		r.Route("/absences", func(r chi.Router) {
			r.Delete("/", h.Absence.Clear)
			r.Get("/{employeeID}/{date}", h.Absence.Get)
			r.Put("/{employeeID}/{date}", h.Absence.Set)
		})

		r.Route("/planning", func(r chi.Router) {
			r.Get("/week", h.Planning.Week)
			r.Get("/totals", h.Planning.Totals)
		})
		r.Get("/reports/year", h.Planning.YearReport)

		r.Get("/workshops", h.Task.Workshops)
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.Task.List)
			r.Post("/", h.Task.Create)
			r.Get("/export.csv", h.Task.ExportCSV)
			r.Post("/import", h.Task.Import)
			r.Put("/{id}", h.Task.Update)
		})

		r.Route("/filters", func(r chi.Router) {
			r.Get("/", h.Filter.Get)
			r.Put("/", h.Filter.Set)
			r.Delete("/", h.Filter.Reset)
		})

		r.Get("/dashboard", h.Dashboard.GetDashboard)

		r.Route("/capacity", func(r chi.Router) {
			r.Get("/", h.Capacity.Get)
			r.Put("/", h.Capacity.Update)
		})

		r.Route("/leave", func(r chi.Router) {
			r.Get("/types", h.Leave.Types)
			r.Put("/year", h.Leave.SetYear)
			r.Get("/chart", h.Leave.Chart)
			r.Route("/matrix", func(r chi.Router) {
				r.Get("/", h.Leave.Matrix)
				r.Put("/", h.Leave.ReplaceMatrix)
				r.Put("/{employee}/{date}", h.Leave.SetEntry)
			})
		})

		r.Get("/events", h.Event.Stream)
	})
	return r
}
