package points

import "context"

// ReportService runs the points pipeline for one period. The scheduled
// entry points resolve their own period and dispatch to the configured
// channel; RunCustom computes an ad-hoc range and dispatches only when
// asked to.
type ReportService interface {
	RunDaily(ctx context.Context) error
	RunWeekly(ctx context.Context) error
	RunMonthly(ctx context.Context) error
	RunCustom(ctx context.Context, req CustomReportRequest) (Report, error)
}
