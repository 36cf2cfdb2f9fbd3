package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/timesheet-points-go/internal/domain/points"
	"github.com/cmlabs-hris/timesheet-points-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, points.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, points.ErrUnbalancedCriteria):
		ValidationError(w, map[string]string{"criteria": err.Error()})
	case errors.Is(err, points.ErrMissingCalendar):
		ValidationError(w, map[string]string{"holiday_calendar": err.Error()})
	case errors.Is(err, points.ErrSettingsNotFound):
		NotFound(w, "Points settings not configured")
	case errors.Is(err, points.ErrPointsDisabled):
		ServiceUnavailable(w, "Points scoring is disabled")
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
