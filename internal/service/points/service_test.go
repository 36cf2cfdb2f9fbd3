package points

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/timesheet-points-go/internal/domain/points"
	"github.com/cmlabs-hris/timesheet-points-go/internal/service/report"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakeEmployeeRepo struct{ employees []points.Employee }

func (f *fakeEmployeeRepo) ListActive(context.Context) ([]points.Employee, error) {
	var out []points.Employee
	for _, e := range f.employees {
		if e.Status == points.EmployeeStatusActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListByIDs(_ context.Context, ids []string) ([]points.Employee, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []points.Employee
	for _, e := range f.employees {
		if want[e.ID] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListAll(context.Context) ([]points.Employee, error) {
	return f.employees, nil
}

type fakeTimesheetRepo struct{ timesheets []points.Timesheet }

func (f *fakeTimesheetRepo) ListSubmittedInRange(_ context.Context, from, to time.Time, ids []string) ([]points.Timesheet, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []points.Timesheet
	for _, ts := range f.timesheets {
		if ts.Status != points.TimesheetStatusSubmitted {
			continue
		}
		if ts.StartDate.Before(from) || ts.StartDate.After(to) {
			continue
		}
		if len(ids) > 0 && !want[ts.EmployeeID] {
			continue
		}
		out = append(out, ts)
	}
	return out, nil
}

type fakeLeaveRepo struct{ leaves []points.LeaveApplication }

func (f *fakeLeaveRepo) ListApprovedOverlapping(_ context.Context, from, to time.Time, ids []string) ([]points.LeaveApplication, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []points.LeaveApplication
	for _, lv := range f.leaves {
		if lv.Status != points.LeaveStatusApproved {
			continue
		}
		if lv.ToDate.Before(from) || lv.FromDate.After(to) {
			continue
		}
		if len(ids) > 0 && !want[lv.EmployeeID] {
			continue
		}
		out = append(out, lv)
	}
	return out, nil
}

type fakeHolidayRepo struct{ dates map[string][]time.Time }

func (f *fakeHolidayRepo) ListDates(_ context.Context, calendars []string, from, to time.Time) (map[string][]time.Time, error) {
	out := make(map[string][]time.Time)
	for _, name := range calendars {
		for _, d := range f.dates[name] {
			if d.Before(from) || d.After(to) {
				continue
			}
			out[name] = append(out[name], d)
		}
	}
	return out, nil
}

type fakeSettingsRepo struct {
	settings points.Settings
	err      error
}

func (f *fakeSettingsRepo) Get(context.Context) (points.Settings, error) {
	return f.settings, f.err
}

func (f *fakeSettingsRepo) Save(_ context.Context, s points.Settings) error {
	f.settings = s
	return nil
}

type spyDispatcher struct {
	calls   int
	lastRep points.Report
	lastDoc []byte
}

func (d *spyDispatcher) Dispatch(_ context.Context, _ points.Settings, rep points.Report, doc []byte) {
	d.calls++
	d.lastRep = rep
	d.lastDoc = doc
}

func validSettings() points.Settings {
	return points.Settings{
		Token:           "tok",
		ChatID:          "-100",
		HolidayCalendar: "Yearly Holidays",
		AvgWorkingHours: 8,
		AvgWordCount:    40,
		DailyEnabled:    true,
		WeeklyEnabled:   true,
		MonthlyEnabled:  true,
		Criteria: []points.Criterion{
			{Kind: points.KindTimesheetSubmitted, Weight: 1},
			{Kind: points.KindDescriptionQuality, Weight: 2},
			{Kind: points.KindWorkingHours, Weight: 2},
		},
	}
}

type fixture struct {
	employees  *fakeEmployeeRepo
	timesheets *fakeTimesheetRepo
	leaves     *fakeLeaveRepo
	holidays   *fakeHolidayRepo
	settings   *fakeSettingsRepo
	dispatcher *spyDispatcher
	now        time.Time
}

func newFixture() *fixture {
	return &fixture{
		employees:  &fakeEmployeeRepo{},
		timesheets: &fakeTimesheetRepo{},
		leaves:     &fakeLeaveRepo{},
		holidays:   &fakeHolidayRepo{dates: map[string][]time.Time{}},
		settings:   &fakeSettingsRepo{settings: validSettings()},
		dispatcher: &spyDispatcher{},
		// Monday 2025-06-09
		now: date(2025, time.June, 9),
	}
}

func (f *fixture) service(t *testing.T) points.ReportService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPointsService(
		f.employees, f.timesheets, f.leaves, f.holidays, f.settings,
		report.NewRenderer(), f.dispatcher, logger,
		WithClock(func() time.Time { return f.now }),
		WithDocumentRenderer(func(points.Table) ([]byte, error) { return []byte("%PDF-x"), nil }),
	)
}

func submittedTimesheet(emp string, day time.Time, hours float64, desc string) points.Timesheet {
	return points.Timesheet{
		ID:         emp + "-" + day.Format(time.DateOnly),
		EmployeeID: emp,
		StartDate:  day,
		ModifiedAt: day,
		TotalHours: hours,
		Status:     points.TimesheetStatusSubmitted,
		TimeLogs:   []points.TimeLog{{Description: desc}},
	}
}

func words(n int) string {
	s := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		s = append(s, 'w', ' ')
	}
	return string(s[:len(s)-1])
}

func TestRunDailyAggregatesAndDispatches(t *testing.T) {
	f := newFixture()
	f.employees.employees = []points.Employee{
		{ID: "e1", Name: "Jane Roe", Status: points.EmployeeStatusActive},
		{ID: "e2", Name: "John Doe", Status: points.EmployeeStatusActive},
	}
	// Previous working day is Friday 2025-06-06.
	friday := date(2025, time.June, 6)
	f.timesheets.timesheets = []points.Timesheet{
		submittedTimesheet("e1", friday, 9, words(50)),
		submittedTimesheet("e2", friday, 4, words(10)),
	}

	svc := f.service(t)
	require.NoError(t, svc.RunDaily(context.Background()))

	require.Equal(t, 1, f.dispatcher.calls)
	rep := f.dispatcher.lastRep
	assert.Equal(t, points.PeriodDaily, rep.Period.Title)
	assert.Equal(t, friday, rep.Period.Start)
	assert.Equal(t, friday, rep.Period.End)

	require.Len(t, rep.Rows, 2)
	// 1 (submitted) + 2 (50 words >= 40) + 2 (9h >= 8h) = 5.0
	assert.Equal(t, "Jane Roe", rep.Rows[0].EmployeeName)
	assert.Equal(t, 5.0, rep.Rows[0].Points)
	// 1 (submitted) + 0.5 (10 words < 20) + 1 (4h < 8h) = 2.5
	assert.Equal(t, "John Doe", rep.Rows[1].EmployeeName)
	assert.Equal(t, 2.5, rep.Rows[1].Points)

	assert.Equal(t, "-", rep.MissedDates["e1"])
	assert.Equal(t, []byte("%PDF-x"), f.dispatcher.lastDoc)
}

func TestRunDailySkippedOnHoliday(t *testing.T) {
	f := newFixture()
	f.holidays.dates["Yearly Holidays"] = []time.Time{f.now}
	f.employees.employees = []points.Employee{{ID: "e1", Name: "Jane", Status: points.EmployeeStatusActive}}

	svc := f.service(t)
	require.NoError(t, svc.RunDaily(context.Background()))
	assert.Zero(t, f.dispatcher.calls)
}

func TestRunSkippedWhenDisabled(t *testing.T) {
	f := newFixture()
	f.settings.settings.Disabled = true

	svc := f.service(t)
	require.NoError(t, svc.RunDaily(context.Background()))
	require.NoError(t, svc.RunWeekly(context.Background()))
	require.NoError(t, svc.RunMonthly(context.Background()))
	assert.Zero(t, f.dispatcher.calls)
}

func TestRunSkippedOnUnbalancedStoredCriteria(t *testing.T) {
	f := newFixture()
	// A stale configuration that slipped past save-time validation must
	// skip the run, not mis-score it or crash the scheduler.
	f.settings.settings.Criteria = []points.Criterion{
		{Kind: points.KindTimesheetSubmitted, Weight: 1},
		{Kind: points.KindWorkingHours, Weight: 3.5},
	}

	svc := f.service(t)
	require.NoError(t, svc.RunDaily(context.Background()))
	assert.Zero(t, f.dispatcher.calls)
}

func TestRunWeeklyOmitsZeroTimesheetEmployees(t *testing.T) {
	f := newFixture()
	f.employees.employees = []points.Employee{
		{ID: "e1", Name: "Jane Roe", Status: points.EmployeeStatusActive},
		{ID: "e2", Name: "On Leave", Status: points.EmployeeStatusActive},
	}
	// Last week: Monday 2025-06-02 .. Friday 2025-06-06.
	for i := 0; i < 5; i++ {
		f.timesheets.timesheets = append(f.timesheets.timesheets,
			submittedTimesheet("e1", date(2025, time.June, 2).AddDate(0, 0, i), 8, words(45)))
	}
	f.leaves.leaves = []points.LeaveApplication{{
		ID: "lv1", EmployeeID: "e2", Status: points.LeaveStatusApproved,
		FromDate: date(2025, time.June, 2), ToDate: date(2025, time.June, 6),
	}}

	svc := f.service(t)
	require.NoError(t, svc.RunWeekly(context.Background()))

	rep := f.dispatcher.lastRep
	assert.Equal(t, points.PeriodWeekly, rep.Period.Title)
	assert.Equal(t, 5, rep.WorkingDays)

	require.Len(t, rep.Rows, 1, "fully-on-leave employee is omitted from the weekly summary")
	assert.Equal(t, "Jane Roe", rep.Rows[0].EmployeeName)
	assert.Equal(t, 5, rep.Rows[0].WorkedDays)
	assert.Equal(t, 25.0, rep.Rows[0].Points, "5 days x 5.0 before rounding")

	// Leave fully accounts for the week: nothing missed.
	assert.Equal(t, "-", rep.MissedDates["e2"])
}

func TestRunMonthlyPeriod(t *testing.T) {
	f := newFixture()
	f.employees.employees = []points.Employee{{ID: "e1", Name: "Jane", Status: points.EmployeeStatusActive}}
	f.timesheets.timesheets = []points.Timesheet{
		submittedTimesheet("e1", date(2025, time.May, 15), 8, words(45)),
	}

	svc := f.service(t)
	require.NoError(t, svc.RunMonthly(context.Background()))

	rep := f.dispatcher.lastRep
	assert.Equal(t, points.PeriodMonthly, rep.Period.Title)
	assert.Equal(t, date(2025, time.May, 1), rep.Period.Start)
	assert.Equal(t, date(2025, time.May, 31), rep.Period.End)
}

func TestRunCustomIncludesZeroRows(t *testing.T) {
	f := newFixture()
	f.employees.employees = []points.Employee{
		{ID: "e1", Name: "Jane Roe", Status: points.EmployeeStatusActive},
		{ID: "e2", Name: "On Leave", Status: points.EmployeeStatusActive},
	}
	f.timesheets.timesheets = []points.Timesheet{
		submittedTimesheet("e1", date(2025, time.June, 3), 8, words(45)),
	}
	f.leaves.leaves = []points.LeaveApplication{{
		ID: "lv1", EmployeeID: "e2", Status: points.LeaveStatusApproved,
		// Leave extends past the period: overlap must be clipped.
		FromDate: date(2025, time.May, 30), ToDate: date(2025, time.June, 20),
	}}

	svc := f.service(t)
	rep, err := svc.RunCustom(context.Background(), points.CustomReportRequest{
		FromDate: "2025-06-02",
		ToDate:   "2025-06-06",
	})
	require.NoError(t, err)

	require.Len(t, rep.Rows, 2, "custom reports zero-fill employees without timesheets")
	var leaveRow points.ScoreRow
	for _, row := range rep.Rows {
		if row.EmployeeID == "e2" {
			leaveRow = row
		}
	}
	assert.Equal(t, 0, leaveRow.WorkedDays)
	assert.Equal(t, 5, leaveRow.LeaveDays, "clipped to the period")
	assert.Equal(t, 0.0, leaveRow.Points)
	assert.LessOrEqual(t, leaveRow.LeaveDays, rep.Period.Days())

	assert.Zero(t, f.dispatcher.calls, "custom runs only dispatch when asked")
}

func TestRunCustomDispatches(t *testing.T) {
	f := newFixture()
	f.employees.employees = []points.Employee{{ID: "e1", Name: "Jane", Status: points.EmployeeStatusActive}}

	svc := f.service(t)
	_, err := svc.RunCustom(context.Background(), points.CustomReportRequest{
		FromDate: "2025-06-02",
		ToDate:   "2025-06-06",
		Dispatch: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.dispatcher.calls)
}

func TestRunCustomRejectsInvertedRange(t *testing.T) {
	f := newFixture()
	svc := f.service(t)

	_, err := svc.RunCustom(context.Background(), points.CustomReportRequest{
		FromDate: "2025-06-06",
		ToDate:   "2025-06-02",
	})
	require.Error(t, err)
	assert.Zero(t, f.dispatcher.calls)
}

func TestRunCustomEmployeeSubset(t *testing.T) {
	f := newFixture()
	f.employees.employees = []points.Employee{
		{ID: "e1", Name: "Jane Roe", Status: points.EmployeeStatusActive},
		{ID: "e2", Name: "John Doe", Status: points.EmployeeStatusActive},
	}
	f.timesheets.timesheets = []points.Timesheet{
		submittedTimesheet("e1", date(2025, time.June, 3), 8, words(45)),
		submittedTimesheet("e2", date(2025, time.June, 3), 8, words(45)),
	}

	svc := f.service(t)
	rep, err := svc.RunCustom(context.Background(), points.CustomReportRequest{
		FromDate:  "2025-06-02",
		ToDate:    "2025-06-06",
		Employees: []string{"e2"},
	})
	require.NoError(t, err)

	require.Len(t, rep.Rows, 1)
	assert.Equal(t, "John Doe", rep.Rows[0].EmployeeName)
}

func TestMissedDaysDisjointFromSubmittedAndLeave(t *testing.T) {
	f := newFixture()
	f.employees.employees = []points.Employee{{ID: "e1", Name: "Jane", Status: points.EmployeeStatusActive}}
	f.timesheets.timesheets = []points.Timesheet{
		submittedTimesheet("e1", date(2025, time.June, 2), 8, words(45)),
		submittedTimesheet("e1", date(2025, time.June, 5), 8, words(45)),
	}
	f.leaves.leaves = []points.LeaveApplication{{
		ID: "lv1", EmployeeID: "e1", Status: points.LeaveStatusApproved,
		FromDate: date(2025, time.June, 3), ToDate: date(2025, time.June, 3),
	}}

	svc := f.service(t)
	require.NoError(t, svc.RunWeekly(context.Background()))

	// Working days 06-02..06-06; submitted 02+05, leave 03: missed 04 and 06.
	assert.Equal(t, "2025-06-04, 2025-06-06", f.dispatcher.lastRep.MissedDates["e1"])
}

func TestMissedDaysHonorEmployeeCalendar(t *testing.T) {
	f := newFixture()
	f.employees.employees = []points.Employee{
		{ID: "e1", Name: "Jane", Status: points.EmployeeStatusActive, HolidayCalendar: "Branch Holidays"},
		{ID: "e2", Name: "John", Status: points.EmployeeStatusActive},
	}
	// Wednesday is a holiday only on e1's own calendar.
	f.holidays.dates["Branch Holidays"] = []time.Time{date(2025, time.June, 4)}

	svc := f.service(t)
	require.NoError(t, svc.RunWeekly(context.Background()))

	missed := f.dispatcher.lastRep.MissedDates
	assert.NotContains(t, missed["e1"], "2025-06-04")
	assert.Contains(t, missed["e2"], "2025-06-04")
}
