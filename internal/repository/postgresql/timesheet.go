package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-points-go/internal/domain/points"
	"github.com/cmlabs-hris/timesheet-points-go/internal/pkg/database"
)

type timesheetRepositoryImpl struct {
	db database.Querier
}

func NewTimesheetRepository(db database.Querier) points.TimesheetRepository {
	return &timesheetRepositoryImpl{db: db}
}

// ListSubmittedInRange implements points.TimesheetRepository. Time-log
// descriptions are aggregated in SQL so one round trip serves the whole
// period; the word counting itself stays in the domain.
func (r *timesheetRepositoryImpl) ListSubmittedInRange(ctx context.Context, from, to time.Time, employeeIDs []string) ([]points.Timesheet, error) {
	query := `
		SELECT t.id, t.employee_id, t.start_date, t.modified_at, t.total_hours,
			   COALESCE(string_agg(tl.description, ' ' ORDER BY tl.idx)
						FILTER (WHERE tl.description <> ''), '') AS descriptions
		FROM timesheets t
		LEFT JOIN time_logs tl ON tl.timesheet_id = t.id
		WHERE t.status = $1
		  AND t.start_date BETWEEN $2 AND $3
		  AND ($4::text[] IS NULL OR t.employee_id = ANY($4))
		GROUP BY t.id, t.employee_id, t.start_date, t.modified_at, t.total_hours
		ORDER BY t.employee_id, t.start_date ASC
	`

	rows, err := r.db.Query(ctx, query, points.TimesheetStatusSubmitted, from, to, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("query timesheets: %w", err)
	}
	defer rows.Close()

	var timesheets []points.Timesheet
	for rows.Next() {
		var ts points.Timesheet
		var descriptions string
		if err := rows.Scan(&ts.ID, &ts.EmployeeID, &ts.StartDate, &ts.ModifiedAt, &ts.TotalHours, &descriptions); err != nil {
			return nil, fmt.Errorf("scan timesheet: %w", err)
		}
		ts.Status = points.TimesheetStatusSubmitted
		if descriptions != "" {
			ts.TimeLogs = []points.TimeLog{{Description: descriptions}}
		}
		timesheets = append(timesheets, ts)
	}
	return timesheets, rows.Err()
}
