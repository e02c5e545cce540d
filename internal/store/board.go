package store

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/capacity"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/leave"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/task"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/isoweek"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/numeric"
)

// Board is the persisted planning board.
type Board struct {
	Workshops    []task.Workshop `json:"workshops"`
	Tasks        []task.Task     `json:"tasks"`
	TasksVersion uint64          `json:"tasksVersion"`
	capacity.Config
	LeaveMatrix      leave.Matrix `json:"leaveMatrix"`
	CurrentLeaveYear int          `json:"currentLeaveYear"`
}

func (s *Store) defaultBoard() Board {
	year := s.now().UTC().Year()
	return Board{
		Workshops:        append([]task.Workshop(nil), s.seed.Workshops...),
		Tasks:            []task.Task{},
		Config:           cloneCapacity(s.seed.Capacity),
		LeaveMatrix:      s.seed.LeaveMatrix(year),
		CurrentLeaveYear: year,
	}
}

func cloneCapacity(c capacity.Config) capacity.Config {
	out := capacity.Config{ByWorkshop: make(map[int]float64, len(c.ByWorkshop)), Default: c.Default}
	for k, v := range c.ByWorkshop {
		out.ByWorkshop[k] = v
	}
	return out
}

// normalizeBoard keeps every readable field of raw and takes the rest from
// the default board.
func (s *Store) normalizeBoard(raw []byte) (Board, bool) {
	b := s.defaultBoard()

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return b, false
	}

	var workshops []task.Workshop
	if isJSON(top["workshops"], '[') && json.Unmarshal(top["workshops"], &workshops) == nil {
		b.Workshops = workshops
	}

	if isJSON(top["tasks"], '[') {
		if tasks, err := decodeTasks(top["tasks"]); err == nil {
			b.Tasks = tasks
		}
	}

	var version uint64
	if json.Unmarshal(top["tasksVersion"], &version) == nil {
		b.TasksVersion = version
	}

	var byWorkshop map[string]numeric.Value
	if isJSON(top["capacityByWorkshop"], '{') && json.Unmarshal(top["capacityByWorkshop"], &byWorkshop) == nil {
		b.ByWorkshop = make(map[int]float64, len(byWorkshop))
		for k, v := range byWorkshop {
			id, err := strconv.Atoi(k)
			f, ok := v.Float()
			if err == nil && ok {
				b.ByWorkshop[id] = f
			}
		}
	}

	var def numeric.Value
	if json.Unmarshal(top["defaultCapacity"], &def) == nil && def.Valid() {
		b.Default = def.Or(0)
	}

	var matrix leave.Matrix
	if isJSON(top["leaveMatrix"], '{') && json.Unmarshal(top["leaveMatrix"], &matrix) == nil {
		b.LeaveMatrix = matrix
	}

	var year int
	if json.Unmarshal(top["currentLeaveYear"], &year) == nil && year > 0 {
		b.CurrentLeaveYear = year
	}

	return b, true
}

// decodeTasks reads a JSON array of tasks, skipping elements that are not
// objects.
func decodeTasks(raw json.RawMessage) ([]task.Task, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	tasks := make([]task.Task, 0, len(items))
	for _, item := range items {
		var t task.Task
		if !isJSON(item, '{') || json.Unmarshal(item, &t) != nil {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Tasks returns a copy of the task list and its version.
func (s *Store) Tasks() ([]task.Task, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]task.Task(nil), s.board.Tasks...), s.board.TasksVersion
}

// TaskView returns the task list, its version and the active filters in one
// consistent read.
func (s *Store) TaskView() ([]task.Task, uint64, task.Filter) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]task.Task(nil), s.board.Tasks...), s.board.TasksVersion, s.filters
}

func (s *Store) Task(id string) (task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.board.Tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return task.Task{}, task.ErrTaskNotFound
}

// SaveTask prepends a new task built from req.
func (s *Store) SaveTask(ctx context.Context, req task.SaveTaskRequest) (task.Task, error) {
	var created task.Task
	err := s.mutate(ctx, ScopeTasks, func() error {
		created = req.ToTask(s.newID(), s.firstWorkshopLocked())
		s.board.Tasks = append([]task.Task{created}, s.board.Tasks...)
		s.board.TasksVersion++
		return nil
	})
	return created, err
}

// UpdateTask replaces the fields of an existing task in place.
func (s *Store) UpdateTask(ctx context.Context, id string, req task.SaveTaskRequest) (task.Task, error) {
	var updated task.Task
	err := s.mutate(ctx, ScopeTasks, func() error {
		for i, t := range s.board.Tasks {
			if t.ID == id {
				updated = req.ToTask(id, s.firstWorkshopLocked())
				s.board.Tasks[i] = updated
				s.board.TasksVersion++
				return nil
			}
		}
		return task.ErrTaskNotFound
	})
	return updated, err
}

// ReplaceTasks swaps the whole task list.
func (s *Store) ReplaceTasks(ctx context.Context, tasks []task.Task) error {
	return s.mutate(ctx, ScopeTasks, func() error {
		s.board.Tasks = append([]task.Task{}, tasks...)
		s.board.TasksVersion++
		return nil
	})
}

func (s *Store) firstWorkshopLocked() int {
	if len(s.board.Workshops) > 0 {
		return s.board.Workshops[0].ID
	}
	return 1
}

func (s *Store) Workshops() []task.Workshop {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]task.Workshop(nil), s.board.Workshops...)
}

// WorkshopName resolves a task's workshop, "?" when unknown.
func (s *Store) WorkshopName(id numeric.Value) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return workshopName(s.board.Workshops, id)
}

func workshopName(workshops []task.Workshop, id numeric.Value) string {
	f, ok := id.Float()
	if !ok {
		return "?"
	}
	for _, w := range workshops {
		if float64(w.ID) == f && w.Name != "" {
			return w.Name
		}
	}
	return "?"
}

// WorkshopByName finds a workshop by case-insensitive name.
func (s *Store) WorkshopByName(name string) (task.Workshop, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name = strings.TrimSpace(name)
	for _, w := range s.board.Workshops {
		if strings.EqualFold(w.Name, name) {
			return w, true
		}
	}
	return task.Workshop{}, false
}

func (s *Store) Filters() task.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// SetFilters stores the board filters. A workshop filter naming no known
// workshop is cleared.
func (s *Store) SetFilters(f task.Filter) task.Filter {
	_ = s.mutate(context.Background(), ScopeFilters, func() error {
		if id, ok := f.Workshop(); ok {
			known := false
			for _, w := range s.board.Workshops {
				if float64(w.ID) == id {
					known = true
					break
				}
			}
			if !known {
				f.WorkshopID = ""
			}
		}
		s.filters = f
		return nil
	})
	return s.Filters()
}

func (s *Store) ResetFilters() {
	s.SetFilters(task.Filter{})
}

func (s *Store) Capacity() capacity.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCapacity(s.board.Config)
}

func (s *Store) SetCapacity(ctx context.Context, c capacity.Config) error {
	return s.mutate(ctx, ScopeCapacity, func() error {
		next := cloneCapacity(c)
		for id, v := range next.ByWorkshop {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				delete(next.ByWorkshop, id)
			}
		}
		s.board.Config = next
		return nil
	})
}

// LeaveMatrix returns a deep copy of the leave matrix.
func (s *Store) LeaveMatrix() leave.Matrix {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board.LeaveMatrix.Clone()
}

func (s *Store) ReplaceLeaveMatrix(ctx context.Context, m leave.Matrix) error {
	return s.mutate(ctx, ScopeLeave, func() error {
		s.board.LeaveMatrix = m.Clone()
		return nil
	})
}

func (s *Store) LeaveYear() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board.CurrentLeaveYear
}

func (s *Store) SetLeaveYear(ctx context.Context, year int) error {
	if year <= 0 {
		return leave.ErrInvalidYear
	}
	return s.mutate(ctx, ScopeLeave, func() error {
		s.board.CurrentLeaveYear = year
		return nil
	})
}

func (s *Store) leaveEmployeeLocked(index int, date string) (*leave.Employee, error) {
	if index < 0 || index >= len(s.board.LeaveMatrix.Employees) {
		return nil, leave.ErrEmployeeNotFound
	}
	if _, ok := isoweek.Parse(date); !ok {
		return nil, leave.ErrInvalidDate
	}
	emp := &s.board.LeaveMatrix.Employees[index]
	if emp.Entries == nil {
		emp.Entries = map[string]leave.Entry{}
	}
	return emp, nil
}

// SetLeaveHours writes the hours of a matrix cell. Invalid or non-positive
// hours clear the cell. typ selects the leave type; empty keeps the current
// one or falls back to the default. The returned bool is false when the
// cell was cleared.
func (s *Store) SetLeaveHours(ctx context.Context, index int, date string, hours numeric.Value, typ string) (leave.Entry, bool, error) {
	var (
		entry leave.Entry
		kept  bool
	)
	err := s.mutate(ctx, ScopeLeave, func() error {
		emp, err := s.leaveEmployeeLocked(index, date)
		if err != nil {
			return err
		}
		h, ok := hours.Float()
		if !ok || h <= 0 || math.IsInf(h, 0) {
			delete(emp.Entries, date)
			return nil
		}
		entry = emp.Entries[date]
		entry.Hours = numeric.Of(emp.Clamp(hours))
		if typ != "" {
			entry.Type = typ
		} else if entry.Type == "" {
			entry.Type = s.catalog.Default()
		}
		entry.Code = s.catalog.CodeFor(entry.Type)
		emp.Entries[date] = entry
		kept = true
		return nil
	})
	return entry, kept, err
}

// SetLeaveType changes the type of a matrix cell. A missing cell is only
// created when hours is positive; otherwise nothing changes.
func (s *Store) SetLeaveType(ctx context.Context, index int, date string, typ string, hours numeric.Value) (leave.Entry, bool, error) {
	var (
		entry leave.Entry
		kept  bool
	)
	err := s.mutate(ctx, ScopeLeave, func() error {
		emp, err := s.leaveEmployeeLocked(index, date)
		if err != nil {
			return err
		}
		h, valid := hours.Float()
		positive := valid && h > 0
		current, exists := emp.Entries[date]
		if !exists {
			if !positive {
				return nil
			}
			current = leave.Entry{Hours: numeric.Of(emp.Clamp(hours))}
		}
		switch {
		case typ != "":
			current.Type = typ
		case current.Type == "":
			current.Type = s.catalog.Default()
		}
		current.Code = s.catalog.CodeFor(current.Type)
		if positive {
			current.Hours = numeric.Of(emp.Clamp(hours))
		}
		emp.Entries[date] = current
		entry, kept = current, true
		return nil
	})
	return entry, kept, err
}
