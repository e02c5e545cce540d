package availability

import (
	"github.com/cmlabs-hris/capacity-planner/internal/domain/capacity"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/isoweek"
)

type WeekTotals struct {
	Week int `json:"week"`
	capacity.Totals
}

// YearReport holds the weekly totals of every ISO week of a year.
type YearReport struct {
	Werkplaats string          `json:"werkplaats"`
	Year       int             `json:"year"`
	Weeks      []WeekTotals    `json:"weeks"`
	Average    capacity.Totals `json:"average"`
}

func (c *Calculator) YearReport(werkplaats string, year int) YearReport {
	n := isoweek.WeeksInYear(year)
	report := YearReport{Werkplaats: werkplaats, Year: year, Weeks: make([]WeekTotals, 0, n)}

	var sum capacity.Totals
	for week := 1; week <= n; week++ {
		totals := c.WeeklyTotals(werkplaats, year, week)
		sum = sum.Add(totals)
		report.Weeks = append(report.Weeks, WeekTotals{Week: week, Totals: totals})
	}
	report.Average = capacity.Totals{
		Productive: sum.Productive / float64(n),
		Indirect:   sum.Indirect / float64(n),
	}
	return report
}
