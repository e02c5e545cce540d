package http

import (
	"net/http"

	"github.com/cmlabs-hris/capacity-planner/internal/handler/http/response"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/isoweek"
	"github.com/cmlabs-hris/capacity-planner/internal/service/availability"
	"github.com/cmlabs-hris/capacity-planner/internal/store"
)

type PlanningHandler interface {
	// Week returns the planning grid of the week containing ?date=
	Week(w http.ResponseWriter, r *http.Request)
	// Totals returns productive and indirect hours of one ISO week
	Totals(w http.ResponseWriter, r *http.Request)
	// YearReport returns the weekly totals of a whole year
	YearReport(w http.ResponseWriter, r *http.Request)
}

type planningHandlerImpl struct {
	store      *store.Store
	calculator *availability.Calculator
}

func NewPlanningHandler(s *store.Store, calculator *availability.Calculator) PlanningHandler {
	return &planningHandlerImpl{store: s, calculator: calculator}
}

// Week handles GET /planning/week
func (h *planningHandlerImpl) Week(w http.ResponseWriter, r *http.Request) {
	anchor, ok := queryDate(r, "date", h.store.Now())
	if !ok {
		response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
		return
	}

	response.Success(w, h.calculator.WeekPlanning(anchor))
}

type TotalsResponse struct {
	Werkplaats string  `json:"werkplaats"`
	Year       int     `json:"year"`
	Week       int     `json:"week"`
	Productive float64 `json:"productive"`
	Indirect   float64 `json:"indirect"`
	Total      float64 `json:"total"`
}

// Totals handles GET /planning/totals?workshop=&year=&week=
func (h *planningHandlerImpl) Totals(w http.ResponseWriter, r *http.Request) {
	werkplaats := r.URL.Query().Get("workshop")
	if werkplaats == "" {
		werkplaats = h.store.Werkplaats()
	}

	current := isoweek.Of(h.store.Now())
	year, okYear := queryInt(r, "year")
	week, okWeek := queryInt(r, "week")
	if !okYear || !okWeek {
		response.BadRequest(w, "year and week must be numbers", nil)
		return
	}
	if year == 0 {
		year = current.Year
	}
	if week == 0 {
		week = current.Week
	}
	if week < 1 || week > isoweek.WeeksInYear(year) {
		response.ValidationError(w, map[string]string{"week": "week is outside the ISO year"})
		return
	}

	totals := h.calculator.WeeklyTotals(werkplaats, year, week)
	response.Success(w, TotalsResponse{
		Werkplaats: werkplaats,
		Year:       year,
		Week:       week,
		Productive: totals.Productive,
		Indirect:   totals.Indirect,
		Total:      totals.Sum(),
	})
}

// YearReport handles GET /reports/year?workshop=&year=
func (h *planningHandlerImpl) YearReport(w http.ResponseWriter, r *http.Request) {
	werkplaats := r.URL.Query().Get("workshop")
	if werkplaats == "" {
		werkplaats = h.store.Werkplaats()
	}

	year, ok := queryInt(r, "year")
	if !ok || year < 0 {
		response.BadRequest(w, "year must be a number", nil)
		return
	}
	if year == 0 {
		year = isoweek.Of(h.store.Now()).Year
	}

	response.Success(w, h.calculator.YearReport(werkplaats, year))
}
