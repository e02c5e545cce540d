package availability

import (
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/absence"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/capacity"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/employee"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/isoweek"
)

var dayNames = [5]string{"Ma", "Di", "Wo", "Do", "Vr"}

type DayColumn struct {
	Date  string `json:"date"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

type DayCell struct {
	Date     string            `json:"date"`
	Base     float64           `json:"base"`
	Absent   float64           `json:"absent"`
	Present  float64           `json:"present"`
	Segments []absence.Segment `json:"segments"`
}

type Row struct {
	Employee  employee.Employee `json:"employee"`
	Days      []DayCell         `json:"days"`
	Available float64           `json:"available"`
}

// WeekPlan is the weekly planning grid of the selected werkplaats.
type WeekPlan struct {
	Werkplaats string          `json:"werkplaats"`
	Week       isoweek.Week    `json:"week"`
	Range      string          `json:"range"`
	Previous   string          `json:"previous"`
	Next       string          `json:"next"`
	Days       []DayColumn     `json:"days"`
	Rows       []Row           `json:"rows"`
	Totals     capacity.Totals `json:"totals"`
}

// WeekPlanning builds the grid for the week containing anchor.
func (c *Calculator) WeekPlanning(anchor time.Time) WeekPlan {
	days := isoweek.WeekDays(anchor)
	werkplaats := c.state.Werkplaats()
	employees := c.state.EmployeesOf(werkplaats)

	plan := WeekPlan{
		Werkplaats: werkplaats,
		Week:       isoweek.Of(days[0]),
		Range:      formatRange(days),
		Previous:   isoweek.Format(isoweek.AddDays(days[0], -7)),
		Next:       isoweek.Format(isoweek.AddDays(days[0], 7)),
		Days:       make([]DayColumn, len(days)),
		Rows:       make([]Row, 0, len(employees)),
		Totals:     c.AggregateTotals(employees, days),
	}
	for i, day := range days {
		plan.Days[i] = DayColumn{
			Date:  isoweek.Format(day),
			Name:  dayNames[i],
			Label: fmt.Sprintf("%d-%d", day.Day(), int(day.Month())),
		}
	}

	for _, e := range employees {
		row := Row{Employee: e, Days: make([]DayCell, len(days)), Available: c.AvailableHours(e, days)}
		for i, day := range days {
			date := isoweek.Format(day)
			r, _ := c.state.Absence(e.ID, date)
			absent := r.Blocked(e.DailyHours)
			row.Days[i] = DayCell{
				Date:     date,
				Base:     e.DailyHours,
				Absent:   absent,
				Present:  math.Max(0, e.DailyHours-absent),
				Segments: r.Segments(e.DailyHours),
			}
		}
		plan.Rows = append(plan.Rows, row)
	}
	return plan
}

func formatRange(days []time.Time) string {
	start, end := days[0], days[len(days)-1]
	return fmt.Sprintf("%d-%d t/m %d-%d", start.Day(), int(start.Month()), end.Day(), int(end.Month()))
}
