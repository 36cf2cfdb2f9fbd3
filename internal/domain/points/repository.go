package points

import (
	"context"
	"time"
)

// Repositories are the data-access collaborators. Every method is a bulk,
// set-based read; the aggregation pipeline never queries per employee or
// per day.

type EmployeeRepository interface {
	ListActive(ctx context.Context) ([]Employee, error)
	ListByIDs(ctx context.Context, ids []string) ([]Employee, error)
	ListAll(ctx context.Context) ([]Employee, error)
}

type TimesheetRepository interface {
	// ListSubmittedInRange returns submitted timesheets whose start date
	// falls within [from, to], with time-log descriptions attached. A nil
	// employeeIDs slice means all employees.
	ListSubmittedInRange(ctx context.Context, from, to time.Time, employeeIDs []string) ([]Timesheet, error)
}

type LeaveRepository interface {
	// ListApprovedOverlapping returns approved leave applications whose
	// range overlaps [from, to].
	ListApprovedOverlapping(ctx context.Context, from, to time.Time, employeeIDs []string) ([]LeaveApplication, error)
}

type HolidayRepository interface {
	// ListDates returns the holiday dates of each named calendar that fall
	// within [from, to], keyed by calendar name.
	ListDates(ctx context.Context, calendars []string, from, to time.Time) (map[string][]time.Time, error)
}

type SettingsRepository interface {
	Get(ctx context.Context) (Settings, error)
	// Save persists the configuration after re-validating the criteria
	// weight invariant inside the transaction.
	Save(ctx context.Context, s Settings) error
}
