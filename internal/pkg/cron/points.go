package cron

import (
	"github.com/cmlabs-hris/timesheet-points-go/internal/config"
	"github.com/cmlabs-hris/timesheet-points-go/internal/domain/points"
)

// PointsJobs wires the scheduled report runs. Whether a given period is
// actually reported is decided per run from the stored configuration, so a
// toggle flipped in the UI takes effect without a restart.
type PointsJobs struct {
	svc points.ReportService
}

func NewPointsJobs(svc points.ReportService) *PointsJobs {
	return &PointsJobs{svc: svc}
}

func (j *PointsJobs) RegisterJobs(scheduler *Scheduler, cfg config.ScheduleConfig) error {
	if err := scheduler.AddJob("daily_points", cfg.Daily, j.svc.RunDaily); err != nil {
		return err
	}
	if err := scheduler.AddJob("weekly_points", cfg.Weekly, j.svc.RunWeekly); err != nil {
		return err
	}
	return scheduler.AddJob("monthly_points", cfg.Monthly, j.svc.RunMonthly)
}
