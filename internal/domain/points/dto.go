package points

import (
	"time"

	"github.com/cmlabs-hris/timesheet-points-go/internal/pkg/validator"
)

type CustomReportRequest struct {
	FromDate  string   `json:"from_date"`
	ToDate    string   `json:"to_date"`
	Employees []string `json:"employees,omitempty"`
	Dispatch  bool     `json:"dispatch,omitempty"`
}

func (r *CustomReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FromDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "from_date",
			Message: "from_date is required",
		})
	} else if !validator.IsValidDate(r.FromDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "from_date",
			Message: "from_date must be formatted as YYYY-MM-DD",
		})
	}

	if validator.IsEmpty(r.ToDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: "to_date is required",
		})
	} else if !validator.IsValidDate(r.ToDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: "to_date must be formatted as YYYY-MM-DD",
		})
	}

	if len(errs) == 0 {
		from, _ := time.Parse(time.DateOnly, r.FromDate)
		to, _ := time.Parse(time.DateOnly, r.ToDate)
		if from.After(to) {
			errs = append(errs, validator.ValidationError{
				Field:   "from_date",
				Message: ErrInvalidDateRange.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Range returns the validated period bounds. Call Validate first.
func (r *CustomReportRequest) Range() (time.Time, time.Time) {
	from, _ := time.Parse(time.DateOnly, r.FromDate)
	to, _ := time.Parse(time.DateOnly, r.ToDate)
	return from, to
}

type SaveSettingsRequest struct {
	Token           string      `json:"token"`
	ChatID          string      `json:"chat_id"`
	ThreadID        string      `json:"thread_id,omitempty"`
	HolidayCalendar string      `json:"holiday_calendar"`
	AvgWorkingHours float64     `json:"avg_working_hours"`
	AvgWordCount    int         `json:"avg_word_count"`
	Rank            int         `json:"rank"`
	DailyEnabled    bool        `json:"daily_enabled"`
	WeeklyEnabled   bool        `json:"weekly_enabled"`
	MonthlyEnabled  bool        `json:"monthly_enabled"`
	Disabled        bool        `json:"disabled"`
	Criteria        []Criterion `json:"criteria"`
}

func (r *SaveSettingsRequest) Settings() Settings {
	return Settings{
		Token:           r.Token,
		ChatID:          r.ChatID,
		ThreadID:        r.ThreadID,
		HolidayCalendar: r.HolidayCalendar,
		AvgWorkingHours: r.AvgWorkingHours,
		AvgWordCount:    r.AvgWordCount,
		Rank:            r.Rank,
		DailyEnabled:    r.DailyEnabled,
		WeeklyEnabled:   r.WeeklyEnabled,
		MonthlyEnabled:  r.MonthlyEnabled,
		Disabled:        r.Disabled,
		Criteria:        r.Criteria,
	}
}

func (r *SaveSettingsRequest) Validate() error {
	return r.Settings().Validate()
}
