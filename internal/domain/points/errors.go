package points

import "errors"

var (
	ErrInvalidDateRange   = errors.New("from_date must not be after to_date")
	ErrUnbalancedCriteria = errors.New("criteria weights must sum to 5")
	ErrMissingCredentials = errors.New("missing telegram token or chat id")
	ErrMissingCalendar    = errors.New("no holiday calendar configured")
	ErrSettingsNotFound   = errors.New("points configuration not found")
	ErrPointsDisabled     = errors.New("points reporting is disabled")
	ErrReportNotGenerated = errors.New("failed to generate report")
)
