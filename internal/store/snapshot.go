package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/absence"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/employee"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/isoweek"
)

// Snapshot is the persisted weekly-planning state.
type Snapshot struct {
	Werkplaats string                    `json:"werkplaats"`
	Employees  []employee.Employee       `json:"employees"`
	Absences   map[string]absence.Record `json:"absences"`
}

func (sn Snapshot) clone() Snapshot {
	out := Snapshot{
		Werkplaats: sn.Werkplaats,
		Employees:  append([]employee.Employee(nil), sn.Employees...),
		Absences:   make(map[string]absence.Record, len(sn.Absences)),
	}
	for k, r := range sn.Absences {
		out.Absences[k] = cloneRecord(r)
	}
	return out
}

func cloneRecord(r absence.Record) absence.Record {
	reasons := make(map[absence.Reason]float64, len(r.Reasons))
	for k, v := range r.Reasons {
		reasons[k] = v
	}
	r.Reasons = reasons
	return r
}

func (s *Store) defaultSnapshot() Snapshot {
	return Snapshot{
		Werkplaats: s.seed.Werkplaats,
		Employees:  s.seed.NewEmployees(s.newID),
		Absences:   map[string]absence.Record{},
	}
}

// normalizeSnapshot fills in whatever raw lacks. ok is false when raw is
// not a JSON object at all.
func (s *Store) normalizeSnapshot(raw []byte) (Snapshot, bool) {
	base := s.defaultSnapshot()

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return base, false
	}

	out := Snapshot{Werkplaats: base.Werkplaats, Employees: base.Employees, Absences: map[string]absence.Record{}}

	var werkplaats string
	if isJSON(top["werkplaats"], '"') && json.Unmarshal(top["werkplaats"], &werkplaats) == nil {
		out.Werkplaats = werkplaats
	}

	var employees []json.RawMessage
	if isJSON(top["employees"], '[') && json.Unmarshal(top["employees"], &employees) == nil {
		out.Employees = make([]employee.Employee, len(employees))
		for i, e := range employees {
			out.Employees[i] = s.normalizeEmployee(e, i)
		}
	}

	var absences map[string]json.RawMessage
	if isJSON(top["absences"], '{') && json.Unmarshal(top["absences"], &absences) == nil {
		for key, value := range absences {
			var r absence.Record
			if !isJSON(value, '{') || json.Unmarshal(value, &r) != nil {
				s.logger.Warn("dropping unreadable absence record", "key", key)
				continue
			}
			out.Absences[key] = r
		}
	}

	return out, true
}

func isJSON(raw json.RawMessage, open byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == open
}

func (s *Store) normalizeEmployee(raw json.RawMessage, index int) employee.Employee {
	e := employee.Employee{
		Name:       fmt.Sprintf("Medewerker %d", index+1),
		Role:       employee.DefaultRole,
		Werkplaats: s.seed.Werkplaats,
		DailyHours: employee.DefaultDailyHours,
	}

	var fields map[string]json.RawMessage
	if !isJSON(raw, '{') || json.Unmarshal(raw, &fields) != nil {
		e.ID = s.newID()
		return e
	}

	if id := nonEmptyString(fields["id"]); id != "" {
		e.ID = id
	} else {
		e.ID = s.newID()
	}
	if name := nonEmptyString(fields["naam"]); name != "" {
		e.Name = name
	}
	if role := nonEmptyString(fields["rol"]); role != "" {
		e.Role = employee.Role(role)
	}
	if w := nonEmptyString(fields["werkplaats"]); w != "" {
		e.Werkplaats = w
	}
	var hours *float64
	if json.Unmarshal(fields["urenPerDag"], &hours) == nil && hours != nil {
		e.DailyHours = *hours
	}
	return e
}

// nonEmptyString reads a string, or a number rendered as text.
func nonEmptyString(raw json.RawMessage) string {
	var str string
	if json.Unmarshal(raw, &str) == nil {
		return str
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil && n != "0" {
		return n.String()
	}
	return ""
}

// Snapshot returns a deep copy of the weekly-planning state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.clone()
}

// Export serialises the snapshot, indented with two spaces when pretty.
func (s *Store) Export(pretty bool) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if pretty {
		return json.MarshalIndent(s.snapshot, "", "  ")
	}
	return json.Marshal(s.snapshot)
}

// Import replaces the snapshot. raw is a JSON string, JSON bytes or an
// already decoded value. A payload that does not parse leaves the state
// untouched and returns ErrInvalidImport.
func (s *Store) Import(ctx context.Context, raw any) error {
	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
		data = encoded
	}
	if !json.Valid(data) {
		return ErrInvalidImport
	}

	next, _ := s.normalizeSnapshot(data)
	return s.mutate(ctx, ScopeSnapshot, func() error {
		s.snapshot = next
		return nil
	})
}

// Reset restores the seeded snapshot.
func (s *Store) Reset(ctx context.Context) error {
	return s.mutate(ctx, ScopeSnapshot, func() error {
		s.snapshot = s.defaultSnapshot()
		return nil
	})
}

func (s *Store) Werkplaats() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Werkplaats
}

func (s *Store) SetWerkplaats(ctx context.Context, werkplaats string) error {
	return s.mutate(ctx, ScopeSnapshot, func() error {
		s.snapshot.Werkplaats = werkplaats
		return nil
	})
}

// Werkplaatsen lists the distinct werkplaatsen of all employees plus the
// selected one, sorted.
func (s *Store) Werkplaatsen() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]struct{}{s.snapshot.Werkplaats: {}}
	for _, e := range s.snapshot.Employees {
		seen[e.Werkplaats] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func (s *Store) Employees() []employee.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]employee.Employee(nil), s.snapshot.Employees...)
}

// EmployeesOf returns the employees of werkplaats in stored order.
func (s *Store) EmployeesOf(werkplaats string) []employee.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []employee.Employee
	for _, e := range s.snapshot.Employees {
		if e.Werkplaats == werkplaats {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) Employee(id string) (employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.snapshot.Employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

// AddEmployee appends an employee. Empty fields default to a new Technicus
// in the selected werkplaats working 8 hours.
func (s *Store) AddEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	var created employee.Employee
	err := s.mutate(ctx, ScopeSnapshot, func() error {
		created = employee.Employee{
			ID:         s.newID(),
			Name:       strings.TrimSpace(req.Name),
			Role:       employee.Role(req.Role),
			Werkplaats: req.Werkplaats,
			DailyHours: employee.DefaultDailyHours,
		}
		if created.Name == "" {
			created.Name = "Nieuwe medewerker"
		}
		if created.Role == "" {
			created.Role = employee.DefaultRole
		}
		if created.Werkplaats == "" {
			created.Werkplaats = s.snapshot.Werkplaats
		}
		if req.DailyHours != nil {
			created.DailyHours = *req.DailyHours
		}
		s.snapshot.Employees = append(s.snapshot.Employees, created)
		return nil
	})
	return created, err
}

func (s *Store) UpdateEmployee(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	var updated employee.Employee
	err := s.mutate(ctx, ScopeSnapshot, func() error {
		for i := range s.snapshot.Employees {
			if s.snapshot.Employees[i].ID == id {
				req.Apply(&s.snapshot.Employees[i])
				updated = s.snapshot.Employees[i]
				return nil
			}
		}
		return employee.ErrEmployeeNotFound
	})
	return updated, err
}

// RemoveEmployee deletes the employee together with their absences.
func (s *Store) RemoveEmployee(ctx context.Context, id string) error {
	return s.mutate(ctx, ScopeSnapshot, func() error {
		kept := s.snapshot.Employees[:0:0]
		found := false
		for _, e := range s.snapshot.Employees {
			if e.ID == id {
				found = true
				continue
			}
			kept = append(kept, e)
		}
		if !found {
			return employee.ErrEmployeeNotFound
		}
		s.snapshot.Employees = kept
		for key := range s.snapshot.Absences {
			if empID, _, ok := absence.SplitKey(key); ok && empID == id {
				delete(s.snapshot.Absences, key)
			}
		}
		return nil
	})
}

// Absence returns the record of employeeID on date, if any.
func (s *Store) Absence(employeeID, date string) (absence.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.snapshot.Absences[absence.Key(employeeID, date)]
	if !ok {
		return absence.Record{}, false
	}
	return cloneRecord(r), true
}

// SetAbsence merges patch into the record of employeeID on date and returns
// the employee's base hours. A record left empty is removed.
func (s *Store) SetAbsence(ctx context.Context, employeeID, date string, patch absence.Patch) (float64, error) {
	if _, ok := isoweek.Parse(date); !ok {
		return 0, absence.ErrInvalidDate
	}
	base := employee.DefaultDailyHours
	err := s.mutate(ctx, ScopeSnapshot, func() error {
		for _, e := range s.snapshot.Employees {
			if e.ID == employeeID {
				base = e.BaseHours()
				break
			}
		}
		key := absence.Key(employeeID, date)
		next, keep := absence.Merge(s.snapshot.Absences[key], patch, base)
		if keep {
			s.snapshot.Absences[key] = next
		} else {
			delete(s.snapshot.Absences, key)
		}
		return nil
	})
	return base, err
}

func (s *Store) ClearAbsences(ctx context.Context) error {
	return s.mutate(ctx, ScopeSnapshot, func() error {
		s.snapshot.Absences = map[string]absence.Record{}
		return nil
	})
}
