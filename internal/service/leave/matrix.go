package leave

import (
	"github.com/cmlabs-hris/capacity-planner/internal/domain/leave"
)

// Row is one employee of the matrix view with entries normalised for
// display.
type Row struct {
	Index        int                    `json:"index"`
	Name         string                 `json:"name"`
	Role         string                 `json:"role"`
	Team         string                 `json:"team"`
	WorkdayHours float64                `json:"workdayHours"`
	Entries      map[string]leave.Entry `json:"entries"`
}

// MatrixView is everything needed to draw the leave matrix of one year.
type MatrixView struct {
	Year   int          `json:"year"`
	Years  []int        `json:"years"`
	Types  []leave.Type `json:"types"`
	Days   []leave.Day  `json:"days"`
	Header Header       `json:"header"`
	Rows   []Row        `json:"rows"`
	Focus  Focus        `json:"focus"`
}

// Matrix builds the view for year, resolved against the available years.
// Only entries dated within that year are included.
func (s *Synthesizer) Matrix(year int) MatrixView {
	year = s.ResolveYear(year)
	matrix := s.state.LeaveMatrix()
	catalog := s.state.Catalog()
	days := Days(year)

	view := MatrixView{
		Year:   year,
		Years:  matrix.SortedYears(),
		Types:  catalog.Types(),
		Days:   days,
		Header: BuildHeader(days, year),
		Rows:   make([]Row, 0, len(matrix.Employees)),
		Focus:  FocusRange(days, s.state.Now()),
	}
	for i, emp := range matrix.Employees {
		row := Row{
			Index:        i,
			Name:         emp.Name,
			Role:         emp.Role,
			Team:         emp.Team,
			WorkdayHours: emp.Workday(),
			Entries:      map[string]leave.Entry{},
		}
		for _, d := range days {
			entry, ok := emp.Entries[d.Date]
			if !ok {
				continue
			}
			entry = catalog.Normalize(entry, emp)
			if entry.Label == "" {
				entry.Label = catalog.LabelFor(entry.Type)
			}
			row.Entries[d.Date] = entry
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}
