package report

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-points-go/internal/domain/points"
)

// Renderer turns aggregated score rows into the text summary and the
// tabular document. Every cell reuses the aggregator's numbers; nothing is
// re-derived here.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Summary builds the ranked plain-text message. When rank is positive only
// the top rank rows appear; the trailing hashtag threads messages by
// period type in the channel.
func (r *Renderer) Summary(period points.Period, rows []points.ScoreRow, rank int) string {
	lines := []string{fmt.Sprintf("%s Points : %s", period.Title, period.String()), ""}

	limit := len(rows)
	if rank > 0 && rank < limit {
		limit = rank
	}
	for _, row := range rows[:limit] {
		lines = append(lines, fmt.Sprintf("%s : %s points", row.EmployeeName, formatPoints(row.Points)))
	}

	lines = append(lines, "", "#"+period.Title)
	return strings.Join(lines, "\n")
}

// BuildTable lays out the report columns. Working Days is the period's
// working-day count minus the employee's leave days.
func (r *Renderer) BuildTable(period points.Period, workingDays int, rows []points.ScoreRow, missed map[string]string) points.Table {
	tbl := points.Table{
		Title: fmt.Sprintf("%s Points : %s", period.Title, period.String()),
		Columns: []string{
			"Employee",
			"Working Days",
			"Missed Dates",
			"Timesheet Days",
			"Description Length",
			"Total Hours",
			"Total Points",
		},
	}

	for _, row := range rows {
		missedDates := missed[row.EmployeeID]
		if missedDates == "" {
			missedDates = "-"
		}
		tbl.Rows = append(tbl.Rows, []string{
			row.EmployeeName,
			strconv.Itoa(workingDays - row.LeaveDays),
			missedDates,
			strconv.Itoa(row.WorkedDays),
			strconv.Itoa(row.WordCount),
			formatPoints(row.TotalHours),
			formatPoints(row.Points),
		})
	}
	return tbl
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h2>{{.Title}}</h2>
<table border="1" cellspacing="0" cellpadding="4">
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
<p>Generated at {{.GeneratedAt}}</p>
</body>
</html>
`))

// RenderHTML renders the table as a standalone HTML document, the
// intermediate form handed to the document converter and served by the
// ad-hoc endpoint.
func (r *Renderer) RenderHTML(tbl points.Table) (string, error) {
	data := struct {
		points.Table
		GeneratedAt string
	}{Table: tbl, GeneratedAt: time.Now().UTC().Format(time.RFC3339)}

	var sb strings.Builder
	if err := htmlTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render html report: %w", err)
	}
	return sb.String(), nil
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
