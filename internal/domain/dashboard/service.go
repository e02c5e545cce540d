package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/task"
)

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns the combined dashboard for the filtered task view
	GetDashboard(ctx context.Context) (*DashboardResponse, error)

	// KPIs summarises planned hours against the current capacity
	KPIs(items []task.Item) KPIs

	// Hero counts open, overdue and at-risk tasks relative to today
	Hero(items []task.Item, today time.Time) Hero
}
