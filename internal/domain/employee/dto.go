package employee

import (
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/validator"
)

const maxDailyHours = 24

type CreateEmployeeRequest struct {
	Name       string   `json:"naam"`
	Role       string   `json:"rol"`
	Werkplaats string   `json:"werkplaats"`
	DailyHours *float64 `json:"urenPerDag,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Role != "" && !Role(r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "rol",
			Message: "rol must be one of the known roles",
		})
	}
	if r.DailyHours != nil && !validator.IsValidHours(*r.DailyHours, maxDailyHours) {
		errs = append(errs, validator.ValidationError{
			Field:   "urenPerDag",
			Message: "urenPerDag must be between 0 and 24",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	Name       *string  `json:"naam,omitempty"`
	Role       *string  `json:"rol,omitempty"`
	Werkplaats *string  `json:"werkplaats,omitempty"`
	DailyHours *float64 `json:"urenPerDag,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "naam",
			Message: "naam must not be empty",
		})
	}
	if r.Role != nil && !Role(*r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "rol",
			Message: "rol must be one of the known roles",
		})
	}
	if r.Werkplaats != nil && validator.IsEmpty(*r.Werkplaats) {
		errs = append(errs, validator.ValidationError{
			Field:   "werkplaats",
			Message: "werkplaats must not be empty",
		})
	}
	if r.DailyHours != nil && !validator.IsValidHours(*r.DailyHours, maxDailyHours) {
		errs = append(errs, validator.ValidationError{
			Field:   "urenPerDag",
			Message: "urenPerDag must be between 0 and 24",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply copies the set fields onto e.
func (r *UpdateEmployeeRequest) Apply(e *Employee) {
	if r.Name != nil {
		e.Name = *r.Name
	}
	if r.Role != nil {
		e.Role = Role(*r.Role)
	}
	if r.Werkplaats != nil {
		e.Werkplaats = *r.Werkplaats
	}
	if r.DailyHours != nil {
		e.DailyHours = *r.DailyHours
	}
}
