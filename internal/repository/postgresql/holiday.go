package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-points-go/internal/domain/points"
	"github.com/cmlabs-hris/timesheet-points-go/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db database.Querier
}

func NewHolidayRepository(db database.Querier) points.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// ListDates implements points.HolidayRepository: one query covers every
// calendar a run touches.
func (r *holidayRepositoryImpl) ListDates(ctx context.Context, calendars []string, from, to time.Time) (map[string][]time.Time, error) {
	query := `
		SELECT h.calendar_name, h.holiday_date
		FROM holidays h
		WHERE h.calendar_name = ANY($1)
		  AND h.holiday_date BETWEEN $2 AND $3
		ORDER BY h.calendar_name, h.holiday_date ASC
	`

	rows, err := r.db.Query(ctx, query, calendars, from, to)
	if err != nil {
		return nil, fmt.Errorf("query holidays: %w", err)
	}
	defer rows.Close()

	dates := make(map[string][]time.Time)
	for rows.Next() {
		var name string
		var d time.Time
		if err := rows.Scan(&name, &d); err != nil {
			return nil, fmt.Errorf("scan holiday: %w", err)
		}
		dates[name] = append(dates[name], d)
	}
	return dates, rows.Err()
}
