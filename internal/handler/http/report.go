package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timesheet-points-go/internal/domain/points"
	"github.com/cmlabs-hris/timesheet-points-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-points-go/internal/service/report"
)

type ReportHandler interface {
	// Ad-hoc Points Report
	GeneratePointsReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	pointsService points.ReportService
	renderer      *report.Renderer
}

func NewReportHandler(pointsService points.ReportService, renderer *report.Renderer) ReportHandler {
	return &reportHandlerImpl{
		pointsService: pointsService,
		renderer:      renderer,
	}
}

type scoreRowResponse struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	WorkedDays   int     `json:"worked_days"`
	TotalHours   float64 `json:"total_hours"`
	WordCount    int     `json:"word_count"`
	LeaveDays    int     `json:"leave_days"`
	MissedDates  string  `json:"missed_dates"`
	Points       float64 `json:"points"`
}

type reportResponse struct {
	FromDate    string             `json:"from_date"`
	ToDate      string             `json:"to_date"`
	WorkingDays int                `json:"working_days"`
	Summary     string             `json:"summary"`
	Rows        []scoreRowResponse `json:"rows"`
}

func toReportResponse(rep points.Report) reportResponse {
	resp := reportResponse{
		FromDate:    rep.Period.Start.Format(time.DateOnly),
		ToDate:      rep.Period.End.Format(time.DateOnly),
		WorkingDays: rep.WorkingDays,
		Summary:     rep.Summary,
		Rows:        make([]scoreRowResponse, 0, len(rep.Rows)),
	}
	for _, row := range rep.Rows {
		missed := rep.MissedDates[row.EmployeeID]
		if missed == "" {
			missed = "-"
		}
		resp.Rows = append(resp.Rows, scoreRowResponse{
			EmployeeID:   row.EmployeeID,
			EmployeeName: row.EmployeeName,
			WorkedDays:   row.WorkedDays,
			TotalHours:   row.TotalHours,
			WordCount:    row.WordCount,
			LeaveDays:    row.LeaveDays,
			MissedDates:  missed,
			Points:       row.Points,
		})
	}
	return resp
}

// GeneratePointsReport handles POST /reports/points
func (h *reportHandlerImpl) GeneratePointsReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req points.CustomReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", nil)
		return
	}

	result, err := h.pointsService.RunCustom(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		html, err := h.renderer.RenderHTML(result.Table)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(html))
		return
	}

	response.Success(w, toReportResponse(result))
}
