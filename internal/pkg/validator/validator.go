package validator

import (
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/capacity-planner/internal/pkg/isoweek"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Date validation, strict YYYY-MM-DD
func IsValidDate(dateStr string) (time.Time, bool) {
	return isoweek.Parse(dateStr)
}

// IsValidHours accepts finite values in [0, max].
func IsValidHours(hours, max float64) bool {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return false
	}
	return hours >= 0 && hours <= max
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
