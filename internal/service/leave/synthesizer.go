package leave

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/capacity"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/leave"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/task"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/isoweek"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/numeric"
)

// StateReader is the part of the store the synthesizer reads.
type StateReader interface {
	LeaveMatrix() leave.Matrix
	LeaveYear() int
	Catalog() leave.Catalog
	Capacity() capacity.Config
	Filters() task.Filter
	Now() time.Time
}

// ChartTasks yields the tasks counted as workload.
type ChartTasks interface {
	ForChart() []task.Task
}

type Synthesizer struct {
	state StateReader
	tasks ChartTasks
}

func NewSynthesizer(state StateReader, tasks ChartTasks) *Synthesizer {
	return &Synthesizer{state: state, tasks: tasks}
}

// Days enumerates every calendar day of year.
func Days(year int) []leave.Day {
	start := isoweek.Date(year, time.January, 1)
	end := isoweek.Date(year+1, time.January, 1)
	days := make([]leave.Day, 0, 366)
	for d := start; d.Before(end); d = isoweek.AddDays(d, 1) {
		w := isoweek.Of(d)
		days = append(days, leave.Day{
			Date:       isoweek.Format(d),
			Label:      fmt.Sprintf("%02d", d.Day()),
			Weekday:    leave.WeekdayLabels[d.Weekday()],
			Week:       w.Week,
			ISOYear:    w.Year,
			Weekend:    isoweek.IsWeekend(d),
			Month:      int(d.Month()) - 1,
			MonthLabel: leave.MonthLabels[d.Month()-1],
		})
	}
	return days
}

// ResolveYear returns requested, or the selected leave year when requested
// is 0, provided it is one of the matrix years or the matrix lists none.
// Otherwise the newest matrix year is used, and the current year when there
// is nothing to choose from.
func (s *Synthesizer) ResolveYear(requested int) int {
	if requested <= 0 {
		requested = s.state.LeaveYear()
	}
	years := s.state.LeaveMatrix().SortedYears()
	if requested > 0 {
		if len(years) == 0 {
			return requested
		}
		for _, y := range years {
			if y == requested {
				return requested
			}
		}
	}
	if len(years) > 0 {
		return years[len(years)-1]
	}
	return s.state.Now().UTC().Year()
}

// CapacityMultiplier scales raw matrix capacity to the configured capacity
// of the current workshop filter.
func (s *Synthesizer) CapacityMultiplier(totalDaily float64) float64 {
	workshop, filtered := s.state.Filters().Workshop()
	return s.state.Capacity().Multiplier(totalDaily, workshop, filtered)
}

type weekAccumulator struct {
	week     isoweek.Week
	capacity float64
	workload float64
}

// WeeklyCapacitySeries returns, per ISO week touching year, the matrix
// capacity net of registered leave and the workload of tasks due that week.
func (s *Synthesizer) WeeklyCapacitySeries(year int) []leave.SeriesPoint {
	matrix := s.state.LeaveMatrix()
	catalog := s.state.Catalog()
	daily := matrix.TotalDailyCapacity()

	var order []*weekAccumulator
	index := map[isoweek.Week]*weekAccumulator{}
	ensure := func(w isoweek.Week) *weekAccumulator {
		acc, ok := index[w]
		if !ok {
			acc = &weekAccumulator{week: w}
			index[w] = acc
			order = append(order, acc)
		}
		return acc
	}

	for _, day := range Days(year) {
		acc := ensure(isoweek.Week{Week: day.Week, Year: day.ISOYear})
		if !day.Weekend && daily > 0 {
			acc.capacity += daily
		}
		for _, emp := range matrix.Employees {
			entry, ok := emp.Entries[day.Date]
			if !ok {
				continue
			}
			if h, _ := catalog.Normalize(entry, emp).Hours.Float(); h > 0 {
				acc.capacity -= h
			}
		}
	}

	for _, t := range s.tasks.ForChart() {
		due, ok := t.Due()
		if !ok || due.Year() != year {
			continue
		}
		if h := t.SafeHours(); h > 0 {
			ensure(isoweek.Of(due)).workload += h
		}
	}

	multiplier := s.CapacityMultiplier(daily)
	series := make([]leave.SeriesPoint, 0, len(order))
	for _, acc := range order {
		series = append(series, leave.SeriesPoint{
			Week:     acc.week.Week,
			Year:     acc.week.Year,
			Capacity: math.Max(0, numeric.RoundQuarter(math.Max(0, acc.capacity)*multiplier)),
			Workload: math.Max(0, numeric.RoundQuarter(math.Max(0, acc.workload))),
			Label:    acc.week.Label(year),
		})
	}
	return series
}

// Chart is the capacity chart of a year. Empty is set when there is nothing
// to draw.
type Chart struct {
	Year   int                 `json:"year"`
	Series []leave.SeriesPoint `json:"series"`
	Max    float64             `json:"max"`
	Ticks  []int               `json:"ticks"`
	Empty  bool                `json:"empty"`
}

func (s *Synthesizer) Chart(year int) Chart {
	chart := Chart{Year: year, Series: s.WeeklyCapacitySeries(year), Ticks: []int{}}
	for _, p := range chart.Series {
		chart.Max = math.Max(chart.Max, math.Max(p.Capacity, p.Workload))
	}
	if len(chart.Series) == 0 || chart.Max <= 0 {
		chart.Empty = true
		return chart
	}
	chart.Ticks = Ticks(chart.Max)
	return chart
}

// NiceStep rounds v up to 1, 2, 5 or 10 times a power of ten.
func NiceStep(v float64) float64 {
	if !(v > 0) || math.IsInf(v, 0) {
		return 0
	}
	base := math.Pow(10, math.Floor(math.Log10(v)))
	// Log10 is not exact around powers of ten.
	if base*10 <= v {
		base *= 10
	} else if base > v {
		base /= 10
	}
	fraction := v / base
	switch {
	case fraction <= 1:
		return base
	case fraction <= 2:
		return 2 * base
	case fraction <= 5:
		return 5 * base
	default:
		return 10 * base
	}
}

// Ticks returns about four evenly spaced axis values covering max.
func Ticks(max float64) []int {
	step := NiceStep(max / 4)
	if step <= 0 {
		return []int{}
	}
	seen := map[int]bool{}
	ticks := []int{}
	for i := 0; float64(i)*step <= max+step*0.5; i++ {
		v := int(math.Round(float64(i) * step))
		if v < 0 || seen[v] {
			continue
		}
		seen[v] = true
		ticks = append(ticks, v)
	}
	sort.Ints(ticks)
	return ticks
}

// Header is the three-row column header of the matrix.
type Header struct {
	Months []leave.HeaderGroup `json:"months"`
	Weeks  []leave.HeaderGroup `json:"weeks"`
	Days   []string            `json:"days"`
}

// BuildHeader groups days by month, then by ISO week within each month.
// Weeks belonging to another ISO year carry that year's two-digit suffix.
func BuildHeader(days []leave.Day, year int) Header {
	h := Header{Days: make([]string, 0, len(days))}
	for _, d := range days {
		h.Days = append(h.Days, strings.ToUpper(d.Weekday)+" "+d.Label)
	}

	for start := 0; start < len(days); {
		end := start
		for end < len(days) && days[end].Month == days[start].Month {
			end++
		}
		month := days[start:end]
		h.Months = append(h.Months, leave.HeaderGroup{
			Key:   fmt.Sprintf("%d-%02d", year, month[0].Month+1),
			Label: fmt.Sprintf("%s %d", leave.MonthLabels[month[0].Month], year),
			Span:  len(month),
		})
		h.Weeks = append(h.Weeks, weekGroups(month, year)...)
		start = end
	}
	return h
}

func weekGroups(days []leave.Day, year int) []leave.HeaderGroup {
	var groups []leave.HeaderGroup
	for start := 0; start < len(days); {
		end := start
		spill := false
		for end < len(days) && days[end].Week == days[start].Week && days[end].ISOYear == days[start].ISOYear {
			spill = spill || days[end].ISOYear != year
			end++
		}
		first := days[start]
		label := fmt.Sprintf("Week %02d", first.Week)
		if spill {
			label += fmt.Sprintf(" (%02d)", first.ISOYear%100)
		}
		groups = append(groups, leave.HeaderGroup{
			Key:   fmt.Sprintf("%s|%d-W%02d", first.Date[:7], first.ISOYear, first.Week),
			Label: label,
			Span:  end - start,
		})
		start = end
	}
	return groups
}

// Focus is the two-week window around today, as indexes into the day grid.
type Focus struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	StartIndex int    `json:"startIndex"`
	EndIndex   int    `json:"endIndex"`
}

// FocusRange locates the current and next ISO week in days. Dates outside
// the grid fall back to its edges.
func FocusRange(days []leave.Day, today time.Time) Focus {
	start := isoweek.StartOfWeek(today)
	end := isoweek.AddDays(start, 13)
	f := Focus{Start: isoweek.Format(start), End: isoweek.Format(end), StartIndex: -1, EndIndex: -1}
	if len(days) == 0 {
		f.StartIndex, f.EndIndex = 0, 0
		return f
	}
	for i, d := range days {
		if f.StartIndex < 0 && d.Date >= f.Start {
			f.StartIndex = i
		}
		if d.Date >= f.Start && d.Date <= f.End {
			f.EndIndex = i
		}
	}
	if f.StartIndex < 0 {
		f.StartIndex = 0
	}
	if f.EndIndex < 0 {
		f.EndIndex = min(f.StartIndex+13, len(days)-1)
	}
	return f
}
