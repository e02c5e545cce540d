package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/absence"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/employee"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/leave"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/task"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/validator"
	"github.com/cmlabs-hris/capacity-planner/internal/store"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrUnknownRole):
		BadRequest(w, err.Error(), nil)

	// Absence domain errors
	case errors.Is(err, absence.ErrInvalidDate):
		BadRequest(w, err.Error(), nil)

	// Task domain errors
	case errors.Is(err, task.ErrTaskNotFound):
		NotFound(w, "Task not found")
	case errors.Is(err, task.ErrUnsupportedImport):
		UnsupportedMediaType(w, "Ondersteund nu JSON array (taken) of XLSX")
	case errors.Is(err, task.ErrWorkshopNotFound), errors.Is(err, task.ErrMissingImportSheet):
		BadRequest(w, err.Error(), nil)

	// Leave matrix errors
	case errors.Is(err, leave.ErrEmployeeNotFound):
		NotFound(w, "Leave matrix employee not found")
	case errors.Is(err, leave.ErrInvalidDate), errors.Is(err, leave.ErrInvalidYear):
		BadRequest(w, err.Error(), nil)

	// State errors
	case errors.Is(err, store.ErrInvalidImport):
		BadRequest(w, "Import is not valid JSON", nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
