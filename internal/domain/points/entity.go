package points

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-points-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timesheet-points-go/internal/pkg/validator"
)

const (
	EmployeeStatusActive   = "Active"
	EmployeeStatusInactive = "Inactive"

	TimesheetStatusDraft     = "Draft"
	TimesheetStatusSubmitted = "Submitted"

	LeaveStatusApproved = "Approved"
)

type Employee struct {
	ID              string
	Name            string
	Status          string
	HolidayCalendar string // empty means the organisation default applies
}

type TimeLog struct {
	Description string
}

type Timesheet struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	ModifiedAt time.Time
	TotalHours float64
	Status     string
	TimeLogs   []TimeLog
}

// DescriptionWordCount joins all time-log descriptions with a single space
// and counts the resulting tokens. Empty descriptions contribute nothing.
func (t Timesheet) DescriptionWordCount() int {
	parts := make([]string, 0, len(t.TimeLogs))
	for _, tl := range t.TimeLogs {
		if tl.Description != "" {
			parts = append(parts, tl.Description)
		}
	}
	return len(strings.Fields(strings.Join(parts, " ")))
}

type LeaveApplication struct {
	ID         string
	EmployeeID string
	FromDate   time.Time
	ToDate     time.Time
	Status     string
}

// Period is the inclusive date range a report is computed over.
type Period struct {
	Title string
	Start time.Time
	End   time.Time
}

const (
	PeriodDaily   = "Daily"
	PeriodWeekly  = "Weekly"
	PeriodMonthly = "Monthly"
	PeriodCustom  = "Custom"
)

func (p Period) Days() int {
	return int(calendar.DateOf(p.End).Sub(calendar.DateOf(p.Start)).Hours()/24) + 1
}

// OverlapDays returns the number of days in [from, to] clipped to the
// period, inclusive on both ends. Zero when the ranges do not overlap.
func (p Period) OverlapDays(from, to time.Time) int {
	start := calendar.DateOf(from)
	if ps := calendar.DateOf(p.Start); start.Before(ps) {
		start = ps
	}
	end := calendar.DateOf(to)
	if pe := calendar.DateOf(p.End); end.After(pe) {
		end = pe
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func (p Period) String() string {
	return p.Start.Format(time.DateOnly) + " - " + p.End.Format(time.DateOnly)
}

// ScoreRow is the per-employee result of one report generation. It is never
// persisted.
type ScoreRow struct {
	EmployeeID   string
	EmployeeName string
	WorkedDays   int
	TotalHours   float64
	WordCount    int
	LeaveDays    int
	Points       float64
}

// Table is the tabular report both the HTML and the PDF renderer consume.
// Cells are pre-formatted so every output reuses the same numbers.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// Report is everything one pipeline run produces before dispatch.
type Report struct {
	Period      Period
	WorkingDays int
	Rows        []ScoreRow
	MissedDates map[string]string // employee id -> ascending comma-joined dates, "-" when none
	Summary     string
	Table       Table
}

// Settings is the Points Configuration record, loaded once per run and used
// as an immutable snapshot throughout the pipeline.
type Settings struct {
	Token           string
	ChatID          string
	ThreadID        string
	HolidayCalendar string
	AvgWorkingHours float64
	AvgWordCount    int
	Rank            int // top-N employees in the summary, 0 = all
	DailyEnabled    bool
	WeeklyEnabled   bool
	MonthlyEnabled  bool
	Disabled        bool
	Criteria        []Criterion
}

// Validate enforces the configuration invariants checked at save time:
// criteria weights sum to exactly TotalCriteriaWeight, kinds are known and
// unique, thresholds are sane.
func (s Settings) Validate() error {
	var errs validator.ValidationErrors

	if s.AvgWorkingHours <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "avg_working_hours",
			Message: "avg_working_hours must be greater than zero",
		})
	}
	if s.AvgWordCount <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "avg_word_count",
			Message: "avg_word_count must be greater than zero",
		})
	}
	if s.Rank < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "rank",
			Message: "rank must not be negative",
		})
	}
	if validator.IsEmpty(s.HolidayCalendar) {
		errs = append(errs, validator.ValidationError{
			Field:   "holiday_calendar",
			Message: "holiday_calendar is required",
		})
	}

	seen := make(map[CriterionKind]bool, len(s.Criteria))
	total := 0.0
	for _, c := range s.Criteria {
		if !c.Kind.Valid() {
			errs = append(errs, validator.ValidationError{
				Field:   "criteria",
				Message: "unknown criterion kind: " + string(c.Kind),
			})
		}
		if seen[c.Kind] {
			errs = append(errs, validator.ValidationError{
				Field:   "criteria",
				Message: "duplicate criterion kind: " + string(c.Kind),
			})
		}
		seen[c.Kind] = true
		if c.Weight < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "criteria",
				Message: "criterion weight must not be negative",
			})
		}
		total += c.Weight
	}
	if !weightsBalanced(total) {
		errs = append(errs, validator.ValidationError{
			Field:   "criteria",
			Message: "criteria weights must sum to 5",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func weightsBalanced(total float64) bool {
	diff := total - TotalCriteriaWeight
	return diff < 1e-9 && diff > -1e-9
}

// HasCredentials reports whether the messaging credentials needed for
// dispatch are present.
func (s Settings) HasCredentials() bool {
	return !validator.IsEmpty(s.Token) && !validator.IsEmpty(s.ChatID)
}
