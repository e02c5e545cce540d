package capacity

import (
	"strconv"

	"github.com/cmlabs-hris/capacity-planner/internal/pkg/validator"
)

// UpdateCapacityRequest replaces the workshop capacities. Keys are workshop
// ids; a nil Default keeps the current fallback.
type UpdateCapacityRequest struct {
	ByWorkshop map[string]float64 `json:"capacityByWorkshop"`
	Default    *float64           `json:"defaultCapacity,omitempty"`
}

func (r *UpdateCapacityRequest) Validate() error {
	var errs validator.ValidationErrors

	for key, v := range r.ByWorkshop {
		if _, err := strconv.Atoi(key); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "capacityByWorkshop." + key,
				Message: "workshop id must be a number",
			})
			continue
		}
		if v < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "capacityByWorkshop." + key,
				Message: "capacity must not be negative",
			})
		}
	}
	if r.Default != nil && *r.Default < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "defaultCapacity",
			Message: "defaultCapacity must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply builds the new configuration on top of current.
func (r *UpdateCapacityRequest) Apply(current Config) Config {
	next := Config{ByWorkshop: make(map[int]float64, len(r.ByWorkshop)), Default: current.Default}
	for key, v := range r.ByWorkshop {
		if id, err := strconv.Atoi(key); err == nil {
			next.ByWorkshop[id] = v
		}
	}
	if r.Default != nil {
		next.Default = *r.Default
	}
	return next
}
