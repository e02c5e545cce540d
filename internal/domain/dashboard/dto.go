package dashboard

import (
	"github.com/cmlabs-hris/capacity-planner/internal/domain/capacity"
)

// ========== COMBINED DASHBOARD ==========

// DashboardResponse is the combined response for the main dashboard endpoint
type DashboardResponse struct {
	KPIs        KPIs            `json:"kpis"`
	Hero        Hero            `json:"hero"`
	Week        int             `json:"week"`
	Year        int             `json:"year"`
	CurrentWeek capacity.Totals `json:"current_week"`
	Tasks       int             `json:"tasks"`
}

// ========== KPI ==========

// KPIs compares the planned hours of the filtered tasks against capacity
type KPIs struct {
	Capacity    float64 `json:"capacity"`
	Planned     float64 `json:"planned"` // safe hours of tasks not done
	Total       float64 `json:"total"`
	Utilisation int     `json:"utilisation"` // percentage, capped at 100
	Backlog     float64 `json:"backlog"`
}

// ========== HERO ==========

// Hero holds the headline task counts
type Hero struct {
	Open        int `json:"open"`
	Overdue     int `json:"overdue"`
	AtRisk      int `json:"at_risk"`      // due within 7 days
	DataQuality int `json:"data_quality"` // percentage of tasks with title, due date and skill
}
