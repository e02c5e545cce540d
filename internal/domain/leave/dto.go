package leave

import (
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/validator"
)

// SetEntryRequest edits one matrix cell. Hours nil or <= 0 clears the cell
// unless only the type is being changed.
type SetEntryRequest struct {
	Hours *float64 `json:"hours,omitempty"`
	Type  string   `json:"type,omitempty"`
}

func (r *SetEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Hours == nil && r.Type == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "hours",
			Message: "hours or type is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
