package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/timesheet-points-go/internal/domain/points"
)

func weeklyPeriod() points.Period {
	return points.Period{
		Title: points.PeriodWeekly,
		Start: time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC),
	}
}

func sampleRows() []points.ScoreRow {
	return []points.ScoreRow{
		{EmployeeID: "e1", EmployeeName: "Jane Roe", WorkedDays: 5, TotalHours: 41.5, WordCount: 230, Points: 5},
		{EmployeeID: "e2", EmployeeName: "John Doe", WorkedDays: 4, TotalHours: 30, WordCount: 110, LeaveDays: 1, Points: 3.5},
		{EmployeeID: "e3", EmployeeName: "Max Mustermann", WorkedDays: 2, TotalHours: 12, WordCount: 40, Points: 2},
	}
}

func TestSummary(t *testing.T) {
	r := NewRenderer()

	summary := r.Summary(weeklyPeriod(), sampleRows(), 0)
	lines := strings.Split(summary, "\n")

	assert.Equal(t, "Weekly Points : 2025-06-02 - 2025-06-06", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "Jane Roe : 5.0 points", lines[2])
	assert.Equal(t, "John Doe : 3.5 points", lines[3])
	assert.Equal(t, "Max Mustermann : 2.0 points", lines[4])
	assert.Equal(t, "#Weekly", lines[len(lines)-1])
}

func TestSummaryRankLimit(t *testing.T) {
	r := NewRenderer()

	summary := r.Summary(weeklyPeriod(), sampleRows(), 2)

	assert.Contains(t, summary, "Jane Roe")
	assert.Contains(t, summary, "John Doe")
	assert.NotContains(t, summary, "Max Mustermann")
}

func TestBuildTable(t *testing.T) {
	r := NewRenderer()
	missed := map[string]string{"e3": "2025-06-03, 2025-06-04"}

	tbl := r.BuildTable(weeklyPeriod(), 5, sampleRows(), missed)

	assert.Equal(t, []string{
		"Employee", "Working Days", "Missed Dates", "Timesheet Days",
		"Description Length", "Total Hours", "Total Points",
	}, tbl.Columns)
	require.Len(t, tbl.Rows, 3)

	// Working Days = period working days minus leave days.
	assert.Equal(t, []string{"Jane Roe", "5", "-", "5", "230", "41.5", "5.0"}, tbl.Rows[0])
	assert.Equal(t, []string{"John Doe", "4", "-", "4", "110", "30.0", "3.5"}, tbl.Rows[1])
	assert.Equal(t, []string{"Max Mustermann", "5", "2025-06-03, 2025-06-04", "2", "40", "12.0", "2.0"}, tbl.Rows[2])
}

func TestRenderHTML(t *testing.T) {
	r := NewRenderer()
	tbl := r.BuildTable(weeklyPeriod(), 5, sampleRows(), nil)

	html, err := r.RenderHTML(tbl)
	require.NoError(t, err)

	assert.Contains(t, html, "<th>Missed Dates</th>")
	assert.Contains(t, html, "<td>Jane Roe</td>")
	assert.Contains(t, html, "Weekly Points : 2025-06-02 - 2025-06-06")
}

func TestRenderHTMLEscapes(t *testing.T) {
	r := NewRenderer()
	tbl := points.Table{
		Title:   "Daily Points",
		Columns: []string{"Employee"},
		Rows:    [][]string{{"<script>alert(1)</script>"}},
	}

	html, err := r.RenderHTML(tbl)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
}
