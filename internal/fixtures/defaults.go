package fixtures

import (
	"github.com/cmlabs-hris/capacity-planner/internal/domain/capacity"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/employee"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/leave"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/task"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/numeric"
)

// ==========================================
// SEED
// ==========================================

// Seed is the state a fresh planner starts from. Employees carry no IDs;
// callers assign them when the seed is materialised.
type Seed struct {
	Werkplaats string
	Employees  []employee.Employee
	Workshops  []task.Workshop
	Capacity   capacity.Config
	LeaveTypes []leave.Type
}

// DefaultSeed returns the built-in demo state.
func DefaultSeed() Seed {
	return Seed{
		Werkplaats: "Almere",
		Employees:  DefaultEmployees(),
		Workshops:  DefaultWorkshops(),
		Capacity:   DefaultCapacity(),
		LeaveTypes: leave.DefaultTypes(),
	}
}

// ==========================================
// WEEKLY PLANNING
// ==========================================

func DefaultEmployees() []employee.Employee {
	return []employee.Employee{
		{Name: "Alex", Role: employee.RoleTechnicus, Werkplaats: "Almere", DailyHours: 8},
		{Name: "Bianca", Role: employee.RoleTeamleider, Werkplaats: "Almere", DailyHours: 8},
		{Name: "Chris", Role: employee.RoleMeewerkendVoorman, Werkplaats: "Venlo", DailyHours: 8},
		{Name: "Dana", Role: employee.RoleExpeditie, Werkplaats: "Zwijndrecht", DailyHours: 8},
	}
}

// NewEmployees returns the seed employees with fresh IDs.
func (s Seed) NewEmployees(newID func() string) []employee.Employee {
	out := make([]employee.Employee, len(s.Employees))
	for i, e := range s.Employees {
		e.ID = newID()
		out[i] = e
	}
	return out
}

// ==========================================
// BOARD
// ==========================================

func DefaultWorkshops() []task.Workshop {
	return []task.Workshop{
		{ID: 1, Name: "Almere"},
		{ID: 2, Name: "Venlo"},
		{ID: 3, Name: "Zwijndrecht"},
	}
}

// DefaultCapacity is the weekly capacity in hours per workshop.
func DefaultCapacity() capacity.Config {
	return capacity.Config{
		ByWorkshop: map[int]float64{1: 160, 2: 120, 3: 80},
		Default:    120,
	}
}

// LeaveMatrix builds an empty matrix for year with one row per seed employee.
func (s Seed) LeaveMatrix(year int) leave.Matrix {
	m := leave.Matrix{Years: []int{year}, Employees: make([]leave.Employee, 0, len(s.Employees))}
	for _, e := range s.Employees {
		m.Employees = append(m.Employees, leave.Employee{
			Name:         e.Name,
			Role:         string(e.Role),
			Team:         e.Werkplaats,
			WorkdayHours: numeric.Of(e.BaseHours()),
			Entries:      map[string]leave.Entry{},
		})
	}
	return m
}
