package task

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/cmlabs-hris/capacity-planner/internal/pkg/isoweek"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/numeric"
)

// Task is a unit of workshop work. WorkshopID and Hours are lenient numbers
// because imported task lists carry them as strings as often as not.
type Task struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	WorkshopID numeric.Value `json:"workshop_id"`
	Skill      string        `json:"skill"`
	Hours      numeric.Value `json:"hours"`
	DueDate    string        `json:"due_date"`
	Priority   Priority      `json:"priority"`
	Status     string        `json:"status"`
}

// Due parses DueDate strictly.
func (t Task) Due() (time.Time, bool) {
	return isoweek.Parse(t.DueDate)
}

// SafeHours is the task's hours when positive, else 0.
func (t Task) SafeHours() float64 {
	return numeric.SafeHours(t.Hours)
}

// IsDone reports whether the status marks the task as finished.
func (t Task) IsDone() bool {
	return IsDone(t.Status)
}

type Priority string

const (
	PriorityHigh   Priority = "Hoog"
	PriorityNormal Priority = "Normaal"
	PriorityLow    Priority = "Laag"
)

// Rank orders priorities: Hoog before Normaal before everything else.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityNormal:
		return 1
	default:
		return 2
	}
}

const (
	StatusOpen       = "Open"
	StatusInProgress = "In uitvoering"
	StatusDone       = "Gereed"
)

// IsDone matches StatusDone case-insensitively.
func IsDone(status string) bool {
	return strings.EqualFold(status, StatusDone)
}

// Workshop is a location that owns tasks and capacity.
type Workshop struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Item is a task as produced by the filter engine, with its parsed due date
// and safe hours precomputed.
type Item struct {
	Task
	Due       *time.Time `json:"dueDate"`
	SafeHours float64    `json:"safeHours"`
}

// NewItem derives the computed fields of t.
func NewItem(t Task) Item {
	item := Item{Task: t, SafeHours: t.SafeHours()}
	if due, ok := t.Due(); ok {
		item.Due = &due
	}
	return item
}

// UnmarshalJSON tolerates numbers where strings are expected, so task lists
// exported by other tools import without losing rows.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         json.RawMessage `json:"id"`
		Title      json.RawMessage `json:"title"`
		WorkshopID numeric.Value   `json:"workshop_id"`
		Skill      json.RawMessage `json:"skill"`
		Hours      numeric.Value   `json:"hours"`
		DueDate    json.RawMessage `json:"due_date"`
		Priority   json.RawMessage `json:"priority"`
		Status     json.RawMessage `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Task{
		ID:         looseString(raw.ID),
		Title:      looseString(raw.Title),
		WorkshopID: raw.WorkshopID,
		Skill:      looseString(raw.Skill),
		Hours:      raw.Hours,
		DueDate:    looseString(raw.DueDate),
		Priority:   Priority(looseString(raw.Priority)),
		Status:     looseString(raw.Status),
	}
	return nil
}

func looseString(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}
