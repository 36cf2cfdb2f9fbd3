package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-points-go/internal/domain/points"
	"github.com/cmlabs-hris/timesheet-points-go/internal/pkg/database"
)

type leaveRepositoryImpl struct {
	db database.Querier
}

func NewLeaveRepository(db database.Querier) points.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

// ListApprovedOverlapping implements points.LeaveRepository. Overlap is
// checked against the raw leave range; the aggregator clips it to the
// period.
func (r *leaveRepositoryImpl) ListApprovedOverlapping(ctx context.Context, from, to time.Time, employeeIDs []string) ([]points.LeaveApplication, error) {
	query := `
		SELECT la.id, la.employee_id, la.from_date, la.to_date, la.status
		FROM leave_applications la
		WHERE la.status = $1
		  AND la.from_date <= $3
		  AND la.to_date >= $2
		  AND ($4::text[] IS NULL OR la.employee_id = ANY($4))
		ORDER BY la.employee_id, la.from_date ASC
	`

	rows, err := r.db.Query(ctx, query, points.LeaveStatusApproved, from, to, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("query leave applications: %w", err)
	}
	defer rows.Close()

	var leaves []points.LeaveApplication
	for rows.Next() {
		var lv points.LeaveApplication
		if err := rows.Scan(&lv.ID, &lv.EmployeeID, &lv.FromDate, &lv.ToDate, &lv.Status); err != nil {
			return nil, fmt.Errorf("scan leave application: %w", err)
		}
		leaves = append(leaves, lv)
	}
	return leaves, rows.Err()
}
