package task

import (
	"strings"

	"github.com/cmlabs-hris/capacity-planner/internal/pkg/numeric"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/validator"
)

const DefaultTitle = "Nieuwe taak"

// SaveTaskRequest is the task form. Empty fields take the form defaults.
type SaveTaskRequest struct {
	Title      string   `json:"title"`
	WorkshopID *int     `json:"workshop_id,omitempty"`
	Skill      string   `json:"skill"`
	Hours      *float64 `json:"hours,omitempty"`
	DueDate    string   `json:"due_date"`
	Priority   string   `json:"priority"`
	Status     string   `json:"status"`
}

func (r *SaveTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.DueDate != "" {
		if _, ok := validator.IsValidDate(r.DueDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "due_date",
				Message: "due_date must be in YYYY-MM-DD format",
			})
		}
	}
	if r.Hours != nil && *r.Hours < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "hours",
			Message: "hours must not be negative",
		})
	}
	if r.Priority != "" && !validator.IsInSlice(r.Priority, []string{string(PriorityHigh), string(PriorityNormal), string(PriorityLow)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "priority",
			Message: "priority must be Hoog, Normaal or Laag",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToTask builds a task with id, falling back to defaultWorkshop when no
// workshop is given.
func (r *SaveTaskRequest) ToTask(id string, defaultWorkshop int) Task {
	t := Task{
		ID:         id,
		Title:      strings.TrimSpace(r.Title),
		WorkshopID: numeric.Of(float64(defaultWorkshop)),
		Skill:      strings.TrimSpace(r.Skill),
		Hours:      numeric.Of(0),
		DueDate:    r.DueDate,
		Priority:   Priority(r.Priority),
		Status:     r.Status,
	}
	if t.Title == "" {
		t.Title = DefaultTitle
	}
	if r.WorkshopID != nil {
		t.WorkshopID = numeric.Of(float64(*r.WorkshopID))
	}
	if r.Hours != nil {
		t.Hours = numeric.Of(*r.Hours)
	}
	if t.Priority == "" {
		t.Priority = PriorityNormal
	}
	if t.Status == "" {
		t.Status = StatusOpen
	}
	return t
}
