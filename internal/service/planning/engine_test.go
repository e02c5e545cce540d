package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/task"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/numeric"
)

type fakeSource struct {
	tasks   []task.Task
	version uint64
	filter  task.Filter
}

func (f *fakeSource) TaskView() ([]task.Task, uint64, task.Filter) {
	return append([]task.Task(nil), f.tasks...), f.version, f.filter
}

func mk(id, title string, workshop float64, skill string, hours float64, due string, prio task.Priority) task.Task {
	return task.Task{
		ID:         id,
		Title:      title,
		WorkshopID: numeric.Of(workshop),
		Skill:      skill,
		Hours:      numeric.Of(hours),
		DueDate:    due,
		Priority:   prio,
		Status:     task.StatusOpen,
	}
}

func ids(items []task.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestFilteredSortOrder(t *testing.T) {
	src := &fakeSource{tasks: []task.Task{
		mk("low", "Zagen", 1, "", 1, "2024-01-01", task.PriorityLow),
		mk("n-nodue", "Boren", 1, "", 9, "", task.PriorityNormal),
		mk("n-late", "Boren", 1, "", 1, "2024-03-10", task.PriorityNormal),
		mk("n-early-small", "Boren", 1, "", 2, "2024-03-01", task.PriorityNormal),
		mk("n-early-big", "Boren", 1, "", 6, "2024-03-01", task.PriorityNormal),
		mk("high", "Lassen", 1, "", 1, "", task.PriorityHigh),
		mk("n-early-big-b", "appel", 1, "", 6, "2024-03-01", task.PriorityNormal),
		mk("n-invalid-due", "Boren", 1, "", 1, "2024-02-30", task.PriorityNormal),
	}}
	got := ids(NewEngine(src).Filtered())

	assert.Equal(t, []string{
		"high",
		"n-early-big-b",
		"n-early-big",
		"n-early-small",
		"n-late",
		"n-nodue",
		"n-invalid-due",
		"low",
	}, got)
}

func TestFilteredTitleCollation(t *testing.T) {
	src := &fakeSource{tasks: []task.Task{
		mk("3", "zaag", 1, "", 1, "", task.PriorityNormal),
		mk("2", "Éénmalig", 1, "", 1, "", task.PriorityNormal),
		mk("1", "appel", 1, "", 1, "", task.PriorityNormal),
	}}
	assert.Equal(t, []string{"1", "2", "3"}, ids(NewEngine(src).Filtered()))
}

func TestFilteredAppliesFilters(t *testing.T) {
	src := &fakeSource{tasks: []task.Task{
		mk("a", "A", 1, "Lassen", 1, "2024-03-04", task.PriorityNormal),
		mk("b", "B", 2, "lassen", 1, "2024-03-05", task.PriorityNormal),
		mk("c", "C", 2, "Verven", 1, "2024-03-12", task.PriorityNormal),
		mk("d", "D", 2, "Lassen", 1, "", task.PriorityNormal),
	}}
	e := NewEngine(src)

	src.filter = task.Filter{WorkshopID: "2", Skill: " LAS"}
	assert.ElementsMatch(t, []string{"b", "d"}, ids(e.Filtered()))

	src.filter = task.Filter{WorkshopID: "2", Skill: "las", Week: "2024-03-07"}
	assert.Equal(t, []string{"b"}, ids(e.Filtered()))

	src.filter = task.Filter{Week: "2024-03-11"}
	assert.Equal(t, []string{"c"}, ids(e.Filtered()))
}

func TestFilteredCache(t *testing.T) {
	src := &fakeSource{tasks: []task.Task{
		mk("a", "A", 1, "Lassen", 1, "2024-03-04", task.PriorityNormal),
		mk("b", "B", 2, "Verven", 1, "2024-03-05", task.PriorityNormal),
	}, version: 1}
	e := NewEngine(src)

	first := e.Filtered()
	second := e.Filtered()
	require.Len(t, first, 2)
	assert.Same(t, &first[0], &second[0])
	assert.Equal(t, 1, e.computations)

	steps := []func(){
		func() { src.version++ },
		func() { src.tasks = src.tasks[:1] },
		func() { src.filter.WorkshopID = "1" },
		func() { src.filter.Week = "2024-03-04" },
		func() { src.filter.Skill = "las" },
	}
	for i, step := range steps {
		step()
		e.Filtered()
		assert.Equal(t, i+2, e.computations, "step %d", i)
		e.Filtered()
		assert.Equal(t, i+2, e.computations, "step %d repeated", i)
	}

	// A whitespace-only change to the skill term keeps the signature.
	src.filter.Skill = " LAS "
	e.Filtered()
	assert.Equal(t, 6, e.computations)

	e.Invalidate()
	e.Filtered()
	assert.Equal(t, 7, e.computations)
}

func TestForChartIgnoresWeek(t *testing.T) {
	src := &fakeSource{
		tasks: []task.Task{
			mk("b", "B", 1, "Lassen", 1, "2024-03-05", task.PriorityLow),
			mk("a", "A", 1, "Lassen", 1, "", task.PriorityHigh),
			mk("c", "C", 2, "Lassen", 1, "", task.PriorityHigh),
		},
		filter: task.Filter{WorkshopID: "1", Week: "2024-06-03"},
	}
	got := NewEngine(src).ForChart()
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestChips(t *testing.T) {
	workshops := []task.Workshop{{ID: 1, Name: "Almere"}}
	chips := Chips(task.Filter{WorkshopID: "1", Week: "2024-02-01", Skill: " las "}, workshops)
	require.Len(t, chips, 3)
	assert.Equal(t, "Vestiging: Almere", chips[0].Label)
	assert.Equal(t, "Week: Week 05 (2024-02-01)", chips[1].Label)
	assert.Equal(t, "Skill: las", chips[2].Label)

	assert.Equal(t, "Vestiging: ?", Chips(task.Filter{WorkshopID: "7"}, workshops)[0].Label)
	assert.Empty(t, Chips(task.Filter{}, workshops))
}
