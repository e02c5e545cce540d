package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/absence"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/capacity"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/employee"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/isoweek"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/numeric"
)

type fakeState struct {
	werkplaats string
	employees  []employee.Employee
	absences   map[string]absence.Record
}

func (f *fakeState) Absence(id, date string) (absence.Record, bool) {
	r, ok := f.absences[absence.Key(id, date)]
	return r, ok
}

func (f *fakeState) EmployeesOf(w string) []employee.Employee {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.Werkplaats == w {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeState) Werkplaats() string { return f.werkplaats }

func week(t *testing.T) []time.Time {
	t.Helper()
	return isoweek.WeekDays(isoweek.Date(2024, time.March, 4))
}

func absent(hours float64) absence.Record {
	r, _ := absence.Normalize(absence.Record{Hours: numeric.Of(hours)})
	return r
}

var alex = employee.Employee{ID: "a", Name: "Alex", Role: employee.RoleTechnicus, Werkplaats: "Almere", DailyHours: 8}

func TestAvailableHours(t *testing.T) {
	cases := []struct {
		name     string
		absences map[string]absence.Record
		want     float64
	}{
		{"no absences", nil, 40},
		{"one full day", map[string]absence.Record{"a|2024-03-05": absent(8)}, 32},
		{"two partial days", map[string]absence.Record{"a|2024-03-04": absent(4), "a|2024-03-08": absent(2)}, 34},
		{"hours beat status", map[string]absence.Record{"a|2024-03-04": {Hours: numeric.Of(0), Status: absence.StatusAbsent}}, 40},
		{"status without hours", map[string]absence.Record{"a|2024-03-04": {Status: absence.StatusAbsent}}, 40},
		{"weekend ignored", map[string]absence.Record{"a|2024-03-09": absent(8)}, 40},
		{"more than a day", map[string]absence.Record{"a|2024-03-04": absent(10)}, 32},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			calc := NewCalculator(&fakeState{absences: c.absences})
			assert.Equal(t, c.want, calc.AvailableHours(alex, week(t)))
		})
	}
}

func TestAvailableHoursOrderIndependent(t *testing.T) {
	calc := NewCalculator(&fakeState{absences: map[string]absence.Record{
		"a|2024-03-04": absent(4), "a|2024-03-06": absent(2.5),
	}})
	days := week(t)
	reversed := make([]time.Time, len(days))
	for i, d := range days {
		reversed[len(days)-1-i] = d
	}
	assert.Equal(t, calc.AvailableHours(alex, days), calc.AvailableHours(alex, reversed))
}

func TestAggregateTotals(t *testing.T) {
	voorman := employee.Employee{ID: "v", Role: employee.RoleMeewerkendVoorman, Werkplaats: "Almere", DailyHours: 8}
	lead := employee.Employee{ID: "l", Role: employee.RoleTeamleider, Werkplaats: "Almere", DailyHours: 8}
	calc := NewCalculator(&fakeState{})

	assert.Equal(t, capacity.Totals{Productive: 20, Indirect: 20}, calc.AggregateTotals([]employee.Employee{voorman}, week(t)))
	assert.Equal(t, capacity.Totals{Productive: 40, Indirect: 40}, calc.AggregateTotals([]employee.Employee{alex, lead}, week(t)))

	unknown := employee.Employee{ID: "u", Role: "Stagiair", DailyHours: 8}
	assert.Equal(t, capacity.Totals{Productive: 0, Indirect: 40}, calc.AggregateTotals([]employee.Employee{unknown}, week(t)))
}

func TestWeeklyTotals(t *testing.T) {
	state := &fakeState{
		werkplaats: "Almere",
		employees: []employee.Employee{
			alex,
			{ID: "c", Role: employee.RoleMeewerkendVoorman, Werkplaats: "Venlo", DailyHours: 8},
		},
		absences: map[string]absence.Record{"a|2020-12-28": absent(8), "a|2021-01-01": absent(8)},
	}
	calc := NewCalculator(state)

	assert.Equal(t, capacity.Totals{Productive: 24}, calc.WeeklyTotals("Almere", 2020, 53))
	assert.Equal(t, capacity.Totals{Productive: 20, Indirect: 20}, calc.WeeklyTotals("Venlo", 2020, 53))
	assert.Equal(t, capacity.Totals{Productive: 24}, calc.CurrentWeekTotals(isoweek.WeekDays(isoweek.Date(2021, time.January, 1))))
}

func TestWeekPlanning(t *testing.T) {
	rec, _ := absence.Normalize(absence.Record{Hours: numeric.Of(6), Reasons: map[absence.Reason]float64{absence.ReasonVerlof: 4}})
	state := &fakeState{
		werkplaats: "Almere",
		employees:  []employee.Employee{alex},
		absences:   map[string]absence.Record{"a|2024-03-06": rec},
	}
	plan := NewCalculator(state).WeekPlanning(isoweek.Date(2024, time.March, 7))

	assert.Equal(t, isoweek.Week{Week: 10, Year: 2024}, plan.Week)
	assert.Equal(t, "4-3 t/m 8-3", plan.Range)
	assert.Equal(t, "2024-02-26", plan.Previous)
	assert.Equal(t, "2024-03-11", plan.Next)
	require.Len(t, plan.Rows, 1)

	cell := plan.Rows[0].Days[2]
	assert.Equal(t, 6.0, cell.Absent)
	assert.Equal(t, 2.0, cell.Present)
	require.Len(t, cell.Segments, 2)
	assert.Equal(t, absence.ReasonAfwezig, cell.Segments[1].Reason)
	assert.Equal(t, 34.0, plan.Rows[0].Available)
	assert.Equal(t, 34.0, plan.Totals.Productive)
}

func TestWeekPlanningCellsMatchAvailable(t *testing.T) {
	state := &fakeState{
		werkplaats: "Almere",
		employees:  []employee.Employee{alex},
		absences: map[string]absence.Record{
			"a|2024-03-04": {Status: absence.StatusAbsent},
			"a|2024-03-05": {Hours: numeric.Of(10), Status: absence.StatusAbsent},
		},
	}
	plan := NewCalculator(state).WeekPlanning(isoweek.Date(2024, time.March, 4))
	require.Len(t, plan.Rows, 1)

	row := plan.Rows[0]
	assert.Equal(t, 0.0, row.Days[0].Absent)
	assert.Equal(t, 8.0, row.Days[0].Present)
	assert.Equal(t, 8.0, row.Days[1].Absent)
	assert.Equal(t, 0.0, row.Days[1].Present)

	present := 0.0
	for _, d := range row.Days {
		present += d.Present
	}
	assert.Equal(t, row.Available, present)
	assert.Equal(t, 32.0, row.Available)
}

func TestYearReport(t *testing.T) {
	state := &fakeState{werkplaats: "Almere", employees: []employee.Employee{alex}}
	report := NewCalculator(state).YearReport("Almere", 2020)

	assert.Len(t, report.Weeks, 53)
	assert.Equal(t, 40.0, report.Average.Productive)
	assert.Equal(t, 0.0, report.Average.Indirect)
}
