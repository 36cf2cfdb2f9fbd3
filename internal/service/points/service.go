package points

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/timesheet-points-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timesheet-points-go/internal/domain/points"
	"github.com/cmlabs-hris/timesheet-points-go/internal/pkg/pdf"
	"github.com/cmlabs-hris/timesheet-points-go/internal/service/report"
)

// holidayLookbackDays sizes the holiday window fetched for period
// resolution; it comfortably covers the bounded previous-working-day walk.
const holidayLookbackDays = 400

// Dispatcher delivers a finished report to the messaging channel. Failures
// stay inside the dispatcher; it never aborts a run.
type Dispatcher interface {
	Dispatch(ctx context.Context, set points.Settings, rep points.Report, doc []byte)
}

type PointsServiceImpl struct {
	employees  points.EmployeeRepository
	timesheets points.TimesheetRepository
	leaves     points.LeaveRepository
	holidays   points.HolidayRepository
	settings   points.SettingsRepository
	renderer   *report.Renderer
	dispatcher Dispatcher
	renderDoc  func(points.Table) ([]byte, error)
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*PointsServiceImpl)

// WithClock fixes "today" for tests.
func WithClock(now func() time.Time) Option {
	return func(s *PointsServiceImpl) { s.now = now }
}

// WithDocumentRenderer overrides the table-to-binary converter.
func WithDocumentRenderer(f func(points.Table) ([]byte, error)) Option {
	return func(s *PointsServiceImpl) { s.renderDoc = f }
}

func NewPointsService(
	employeeRepo points.EmployeeRepository,
	timesheetRepo points.TimesheetRepository,
	leaveRepo points.LeaveRepository,
	holidayRepo points.HolidayRepository,
	settingsRepo points.SettingsRepository,
	renderer *report.Renderer,
	dispatcher Dispatcher,
	logger *slog.Logger,
	opts ...Option,
) points.ReportService {
	s := &PointsServiceImpl{
		employees:  employeeRepo,
		timesheets: timesheetRepo,
		leaves:     leaveRepo,
		holidays:   holidayRepo,
		settings:   settingsRepo,
		renderer:   renderer,
		dispatcher: dispatcher,
		renderDoc:  pdf.Render,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// runContext is the short-lived state of one report generation. It is
// built at the start of a run and passed explicitly to every stage; the
// settings snapshot never changes mid-run.
type runContext struct {
	id       string
	period   points.Period
	settings points.Settings
	logger   *slog.Logger
}

func (s *PointsServiceImpl) newRunContext(period points.Period, set points.Settings) runContext {
	id := uuid.NewString()
	return runContext{
		id:       id,
		period:   period,
		settings: set,
		logger:   s.logger.With("run_id", id, "period", period.Title),
	}
}

// RunDaily reports on the previous working day. The whole run is skipped
// when today itself is a holiday on the organisation calendar.
func (s *PointsServiceImpl) RunDaily(ctx context.Context) error {
	set, ok := s.scheduledSettings(ctx, "daily", func(s points.Settings) bool { return s.DailyEnabled })
	if !ok {
		return nil
	}

	cal, err := s.orgCalendar(ctx, set)
	if err != nil {
		return err
	}

	today := calendar.DateOf(s.now())
	if cal.IsHoliday(today) {
		s.logger.Info("daily run skipped, today is a holiday", "date", today.Format(time.DateOnly))
		return nil
	}

	prev, err := cal.PreviousWorkingDay(today)
	if err != nil {
		return fmt.Errorf("resolve previous working day: %w", err)
	}

	period := points.Period{Title: points.PeriodDaily, Start: prev, End: prev}
	return s.runScheduled(ctx, set, period)
}

// RunWeekly reports on the previous week's working-day span.
func (s *PointsServiceImpl) RunWeekly(ctx context.Context) error {
	set, ok := s.scheduledSettings(ctx, "weekly", func(s points.Settings) bool { return s.WeeklyEnabled })
	if !ok {
		return nil
	}

	cal, err := s.orgCalendar(ctx, set)
	if err != nil {
		return err
	}

	start, end, err := cal.LastWeekSpan(s.now())
	if err != nil {
		return fmt.Errorf("resolve last week span: %w", err)
	}

	period := points.Period{Title: points.PeriodWeekly, Start: start, End: end}
	return s.runScheduled(ctx, set, period)
}

// RunMonthly reports on the previous calendar month.
func (s *PointsServiceImpl) RunMonthly(ctx context.Context) error {
	set, ok := s.scheduledSettings(ctx, "monthly", func(s points.Settings) bool { return s.MonthlyEnabled })
	if !ok {
		return nil
	}

	start, end := calendar.PreviousMonthSpan(s.now())
	period := points.Period{Title: points.PeriodMonthly, Start: start, End: end}
	return s.runScheduled(ctx, set, period)
}

// RunCustom computes an ad-hoc range over an explicit employee subset (or
// everyone). Zero-timesheet employees are included with zero-filled rows.
// The report is dispatched to the channel only when the request asks.
func (s *PointsServiceImpl) RunCustom(ctx context.Context, req points.CustomReportRequest) (points.Report, error) {
	if err := req.Validate(); err != nil {
		return points.Report{}, err
	}

	set, err := s.settings.Get(ctx)
	if err != nil {
		return points.Report{}, fmt.Errorf("load points configuration: %w", err)
	}
	if err := set.Validate(); err != nil {
		return points.Report{}, fmt.Errorf("%w: %s", points.ErrUnbalancedCriteria, err)
	}
	if set.Disabled {
		return points.Report{}, points.ErrPointsDisabled
	}

	var employees []points.Employee
	var subset []string
	if len(req.Employees) > 0 {
		subset = req.Employees
		employees, err = s.employees.ListByIDs(ctx, req.Employees)
	} else {
		employees, err = s.employees.ListAll(ctx)
	}
	if err != nil {
		return points.Report{}, fmt.Errorf("list employees: %w", err)
	}

	from, to := req.Range()
	period := points.Period{Title: points.PeriodCustom, Start: from, End: to}
	rc := s.newRunContext(period, set)

	rep, err := s.generate(ctx, rc, employees, subset, true)
	if err != nil {
		return points.Report{}, err
	}

	if req.Dispatch {
		s.dispatchReport(ctx, rc, rep)
	}
	return rep, nil
}

// scheduledSettings loads and checks the configuration snapshot for a cron
// run. Any configuration problem skips the run with a logged error rather
// than crashing the scheduler.
func (s *PointsServiceImpl) scheduledSettings(ctx context.Context, kind string, enabled func(points.Settings) bool) (points.Settings, bool) {
	set, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Error("load points configuration failed, skipping run", "kind", kind, "error", err)
		return points.Settings{}, false
	}
	if err := set.Validate(); err != nil {
		s.logger.Error("invalid points configuration, skipping run", "kind", kind, "error", err)
		return points.Settings{}, false
	}
	if set.Disabled {
		s.logger.Info("points reporting disabled, skipping run", "kind", kind)
		return points.Settings{}, false
	}
	if !enabled(set) {
		s.logger.Info("period report disabled, skipping run", "kind", kind)
		return points.Settings{}, false
	}
	return set, true
}

func (s *PointsServiceImpl) runScheduled(ctx context.Context, set points.Settings, period points.Period) error {
	employees, err := s.employees.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active employees: %w", err)
	}

	rc := s.newRunContext(period, set)
	rep, err := s.generate(ctx, rc, employees, nil, false)
	if err != nil {
		return err
	}

	s.dispatchReport(ctx, rc, rep)
	return nil
}

// dispatchReport renders the document and hands both artifacts to the
// dispatcher. A render failure downgrades the dispatch to summary-only.
func (s *PointsServiceImpl) dispatchReport(ctx context.Context, rc runContext, rep points.Report) {
	rc.logger.Info("dispatching report", "rows", len(rep.Rows))

	doc, err := s.renderDoc(rep.Table)
	if err != nil {
		rc.logger.Error("render report document failed, sending summary only", "error", err)
		doc = nil
	}
	s.dispatcher.Dispatch(ctx, rc.settings, rep, doc)
	rc.logger.Info("run complete")
}

// orgCalendar loads the organisation holiday calendar over the resolution
// lookback window.
func (s *PointsServiceImpl) orgCalendar(ctx context.Context, set points.Settings) (*calendar.Calendar, error) {
	today := calendar.DateOf(s.now())
	dates, err := s.holidays.ListDates(ctx, []string{set.HolidayCalendar}, today.AddDate(0, 0, -holidayLookbackDays), today)
	if err != nil {
		return nil, fmt.Errorf("load holiday calendar %q: %w", set.HolidayCalendar, err)
	}
	return calendar.New(set.HolidayCalendar, dates[set.HolidayCalendar]), nil
}

// generate runs the aggregation stages for one period: bulk-load the
// domain data, compute per-employee statistics and points, cross-reference
// missed days, and render the summary and table. The subset argument, when
// non-nil, narrows the timesheet and leave queries to those employee ids.
func (s *PointsServiceImpl) generate(ctx context.Context, rc runContext, employees []points.Employee, subset []string, includeZero bool) (points.Report, error) {
	set := rc.settings
	period := rc.period
	rc.logger.Info("aggregating", "from", period.Start.Format(time.DateOnly), "to", period.End.Format(time.DateOnly), "employees", len(employees))

	timesheets, err := s.timesheets.ListSubmittedInRange(ctx, period.Start, period.End, subset)
	if err != nil {
		return points.Report{}, fmt.Errorf("list timesheets: %w", err)
	}
	leaves, err := s.leaves.ListApprovedOverlapping(ctx, period.Start, period.End, subset)
	if err != nil {
		return points.Report{}, fmt.Errorf("list leave applications: %w", err)
	}

	calendarNames := []string{set.HolidayCalendar}
	seenCal := map[string]bool{set.HolidayCalendar: true}
	for _, emp := range employees {
		if emp.HolidayCalendar != "" && !seenCal[emp.HolidayCalendar] {
			seenCal[emp.HolidayCalendar] = true
			calendarNames = append(calendarNames, emp.HolidayCalendar)
		}
	}
	holidayDates, err := s.holidays.ListDates(ctx, calendarNames, period.Start, period.End)
	if err != nil {
		return points.Report{}, fmt.Errorf("list holidays: %w", err)
	}

	orgCal := calendar.New(set.HolidayCalendar, holidayDates[set.HolidayCalendar])
	workingDays := orgCal.WorkingDaysBetween(period.Start, period.End)

	empByID := make(map[string]points.Employee, len(employees))
	for _, emp := range employees {
		empByID[emp.ID] = emp
	}

	th := points.Thresholds{AvgWorkingHours: set.AvgWorkingHours, AvgWordCount: set.AvgWordCount}
	stats := make(map[string]*points.ScoreRow)
	rawPoints := make(map[string]float64)
	tsDates := make(map[string]map[string]struct{})

	for _, ts := range timesheets {
		emp, ok := empByID[ts.EmployeeID]
		if !ok {
			continue
		}
		row := stats[emp.ID]
		if row == nil {
			row = &points.ScoreRow{EmployeeID: emp.ID, EmployeeName: emp.Name}
			stats[emp.ID] = row
			tsDates[emp.ID] = make(map[string]struct{})
		}
		row.WorkedDays++
		row.TotalHours += ts.TotalHours
		row.WordCount += ts.DescriptionWordCount()
		rawPoints[emp.ID] += points.ScoreTimesheet(ts, set.Criteria, th)
		tsDates[emp.ID][calendar.DateOf(ts.StartDate).Format(time.DateOnly)] = struct{}{}
	}

	leaveDays := make(map[string]int)
	leaveCover := make(map[string]map[string]struct{})
	for _, lv := range leaves {
		if _, ok := empByID[lv.EmployeeID]; !ok {
			continue
		}
		overlap := period.OverlapDays(lv.FromDate, lv.ToDate)
		if overlap == 0 {
			continue
		}
		leaveDays[lv.EmployeeID] += overlap
		cover := leaveCover[lv.EmployeeID]
		if cover == nil {
			cover = make(map[string]struct{})
			leaveCover[lv.EmployeeID] = cover
		}
		for d := clampDate(lv.FromDate, period.Start); !d.After(clampDateEnd(lv.ToDate, period.End)); d = d.AddDate(0, 0, 1) {
			cover[d.Format(time.DateOnly)] = struct{}{}
		}
	}

	rows := make([]points.ScoreRow, 0, len(employees))
	for _, emp := range employees {
		row := stats[emp.ID]
		if row == nil {
			if !includeZero {
				continue
			}
			row = &points.ScoreRow{EmployeeID: emp.ID, EmployeeName: emp.Name}
		}
		row.LeaveDays = leaveDays[emp.ID]
		row.Points = points.Round1(rawPoints[emp.ID])
		rows = append(rows, *row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Points > rows[j].Points })

	rc.logger.Info("detecting missed days", "working_days", len(workingDays))
	missed := s.detectMissed(employees, workingDays, orgCal, holidayDates, tsDates, leaveCover)

	rep := points.Report{
		Period:      period,
		WorkingDays: len(workingDays),
		Rows:        rows,
		MissedDates: missed,
	}
	rep.Summary = s.renderer.Summary(period, rows, set.Rank)
	rep.Table = s.renderer.BuildTable(period, len(workingDays), rows, missed)
	return rep, nil
}

// detectMissed cross-references every organisation working day against
// each employee's submitted timesheets, approved leave cover, and the
// holidays of the employee's own calendar. The per-employee calendar wins
// when it differs from the organisation one: a day that is a holiday on
// either list is never missed.
func (s *PointsServiceImpl) detectMissed(
	employees []points.Employee,
	workingDays []time.Time,
	orgCal *calendar.Calendar,
	holidayDates map[string][]time.Time,
	tsDates map[string]map[string]struct{},
	leaveCover map[string]map[string]struct{},
) map[string]string {
	empCals := make(map[string]*calendar.Calendar)

	missed := make(map[string]string, len(employees))
	for _, emp := range employees {
		empCal := orgCal
		if emp.HolidayCalendar != "" && emp.HolidayCalendar != orgCal.Name {
			if empCals[emp.HolidayCalendar] == nil {
				empCals[emp.HolidayCalendar] = calendar.New(emp.HolidayCalendar, holidayDates[emp.HolidayCalendar])
			}
			empCal = empCals[emp.HolidayCalendar]
		}

		var days []string
		for _, d := range workingDays {
			key := d.Format(time.DateOnly)
			if _, ok := tsDates[emp.ID][key]; ok {
				continue
			}
			if _, ok := leaveCover[emp.ID][key]; ok {
				continue
			}
			if empCal.IsHoliday(d) {
				continue
			}
			days = append(days, key)
		}
		if len(days) == 0 {
			missed[emp.ID] = "-"
		} else {
			missed[emp.ID] = strings.Join(days, ", ")
		}
	}
	return missed
}

func clampDate(d, lower time.Time) time.Time {
	d = calendar.DateOf(d)
	if lower = calendar.DateOf(lower); d.Before(lower) {
		return lower
	}
	return d
}

func clampDateEnd(d, upper time.Time) time.Time {
	d = calendar.DateOf(d)
	if upper = calendar.DateOf(upper); d.After(upper) {
		return upper
	}
	return d
}
