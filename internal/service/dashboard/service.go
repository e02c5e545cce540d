package dashboard

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/capacity"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/dashboard"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/task"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/isoweek"
)

// StateReader is the part of the store the dashboard reads.
type StateReader interface {
	Capacity() capacity.Config
	Filters() task.Filter
	Now() time.Time
}

type FilteredTasks interface {
	Filtered() []task.Item
}

type WeekTotals interface {
	CurrentWeekTotals(days []time.Time) capacity.Totals
}

type DashboardServiceImpl struct {
	state  StateReader
	tasks  FilteredTasks
	totals WeekTotals
}

func NewDashboardService(state StateReader, tasks FilteredTasks, totals WeekTotals) dashboard.DashboardService {
	return &DashboardServiceImpl{
		state:  state,
		tasks:  tasks,
		totals: totals,
	}
}

// GetDashboard computes the task figures and the weekly availability
// concurrently.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	today := isoweek.Truncate(s.state.Now())
	week := isoweek.Of(today)

	var (
		kpis   dashboard.KPIs
		hero   dashboard.Hero
		totals capacity.Totals
		count  int
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items := s.tasks.Filtered()
		kpis = s.KPIs(items)
		hero = s.Hero(items, today)
		count = len(items)
		return ctx.Err()
	})

	g.Go(func() error {
		totals = s.totals.CurrentWeekTotals(isoweek.WeekDays(today))
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.DashboardResponse{
		KPIs:        kpis,
		Hero:        hero,
		Week:        week.Week,
		Year:        week.Year,
		CurrentWeek: totals,
		Tasks:       count,
	}, nil
}

func (s *DashboardServiceImpl) KPIs(items []task.Item) dashboard.KPIs {
	workshop, filtered := s.state.Filters().Workshop()
	k := dashboard.KPIs{Capacity: s.state.Capacity().Current(workshop, filtered)}
	for _, it := range items {
		k.Total += it.SafeHours
		if !it.IsDone() {
			k.Planned += it.SafeHours
		}
	}
	if k.Capacity > 0 {
		k.Utilisation = int(math.Min(100, math.Round(k.Planned/k.Capacity*100)))
		k.Backlog = math.Max(0, k.Total-k.Capacity)
	} else {
		k.Backlog = k.Total
	}
	return k
}

func (s *DashboardServiceImpl) Hero(items []task.Item, today time.Time) dashboard.Hero {
	today = isoweek.Truncate(today)
	h := dashboard.Hero{DataQuality: 100}
	complete := 0
	for _, it := range items {
		if it.Title != "" && it.Due != nil && it.Skill != "" {
			complete++
		}
		if it.IsDone() {
			continue
		}
		h.Open++
		if it.Due == nil {
			continue
		}
		delta := math.Ceil(it.Due.Sub(today).Hours() / 24)
		switch {
		case delta < 0:
			h.Overdue++
		case delta <= 7:
			h.AtRisk++
		}
	}
	if len(items) > 0 {
		h.DataQuality = int(math.Round(math.Min(1, float64(complete)/float64(len(items))) * 100))
	}
	return h
}
