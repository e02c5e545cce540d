package availability

import (
	"math"
	"time"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/absence"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/capacity"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/employee"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/isoweek"
)

// StateReader is the part of the store the calculator reads.
type StateReader interface {
	Absence(employeeID, date string) (absence.Record, bool)
	EmployeesOf(werkplaats string) []employee.Employee
	Werkplaats() string
}

type Calculator struct {
	state StateReader
}

func NewCalculator(state StateReader) *Calculator {
	return &Calculator{state: state}
}

// AvailableHours sums, over days, the employee's day length minus the hours
// their absence blocks. Days without a record count in full.
func (c *Calculator) AvailableHours(e employee.Employee, days []time.Time) float64 {
	total := 0.0
	for _, day := range days {
		base := e.DailyHours
		blocked := 0.0
		if r, ok := c.state.Absence(e.ID, isoweek.Format(day)); ok {
			blocked = r.Blocked(base)
		}
		total += math.Max(0, base-blocked)
	}
	return total
}

// AggregateTotals splits the available hours of employees into productive
// and indirect hours by role.
func (c *Calculator) AggregateTotals(employees []employee.Employee, days []time.Time) capacity.Totals {
	var totals capacity.Totals
	for _, e := range employees {
		available := c.AvailableHours(e, days)
		p := e.Role.Productivity()
		totals.Productive += available * p
		totals.Indirect += available * (1 - p)
	}
	return totals
}

// WeeklyTotals aggregates the weekdays of an ISO week for a werkplaats.
func (c *Calculator) WeeklyTotals(werkplaats string, isoYear, isoWeek int) capacity.Totals {
	days := isoweek.WeekDays(isoweek.Monday(isoWeek, isoYear))
	return c.AggregateTotals(c.state.EmployeesOf(werkplaats), days)
}

// CurrentWeekTotals aggregates days for the selected werkplaats.
func (c *Calculator) CurrentWeekTotals(days []time.Time) capacity.Totals {
	return c.AggregateTotals(c.state.EmployeesOf(c.state.Werkplaats()), days)
}
