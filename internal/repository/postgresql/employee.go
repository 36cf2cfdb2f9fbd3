package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timesheet-points-go/internal/domain/points"
	"github.com/cmlabs-hris/timesheet-points-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db database.Querier
}

func NewEmployeeRepository(db database.Querier) points.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelect = `
	SELECT e.id, e.name, e.status, COALESCE(e.holiday_calendar, '')
	FROM employees e
`

// ListActive implements points.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActive(ctx context.Context) ([]points.Employee, error) {
	query := employeeSelect + `
		WHERE e.status = $1
		ORDER BY e.name ASC
	`
	return r.list(ctx, query, points.EmployeeStatusActive)
}

// ListByIDs implements points.EmployeeRepository.
func (r *employeeRepositoryImpl) ListByIDs(ctx context.Context, ids []string) ([]points.Employee, error) {
	query := employeeSelect + `
		WHERE e.id = ANY($1)
		ORDER BY e.name ASC
	`
	return r.list(ctx, query, ids)
}

// ListAll implements points.EmployeeRepository.
func (r *employeeRepositoryImpl) ListAll(ctx context.Context) ([]points.Employee, error) {
	query := employeeSelect + `
		ORDER BY e.name ASC
	`
	return r.list(ctx, query)
}

func (r *employeeRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]points.Employee, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	var employees []points.Employee
	for rows.Next() {
		var e points.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Status, &e.HolidayCalendar); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
