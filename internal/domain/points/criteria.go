package points

import (
	"math"
	"time"
)

// TotalCriteriaWeight is what the configured criteria weights must sum to.
const TotalCriteriaWeight = 5.0

type CriterionKind string

const (
	KindTimesheetSubmitted CriterionKind = "timesheet_submitted"
	KindWorkingHours       CriterionKind = "working_hours"
	KindDescriptionQuality CriterionKind = "description_quality"
	KindTimelyCreation     CriterionKind = "timely_creation"
)

// Criterion is one weighted scoring rule. Adding a kind means adding an
// entry to the evaluator table, not touching the aggregation loop.
type Criterion struct {
	Kind   CriterionKind `json:"kind"`
	Weight float64       `json:"weight"`
}

// Thresholds are the scoring knobs the evaluators compare against.
type Thresholds struct {
	AvgWorkingHours float64
	AvgWordCount    int
}

type evalFunc func(ts Timesheet, th Thresholds, weight float64) float64

var evaluators = map[CriterionKind]evalFunc{
	KindTimesheetSubmitted: func(_ Timesheet, _ Thresholds, weight float64) float64 {
		return weight
	},
	KindWorkingHours: func(ts Timesheet, th Thresholds, weight float64) float64 {
		if ts.TotalHours >= th.AvgWorkingHours {
			return weight
		}
		return weight / 2
	},
	KindDescriptionQuality: func(ts Timesheet, th Thresholds, weight float64) float64 {
		wc := ts.DescriptionWordCount()
		switch {
		case wc >= th.AvgWordCount:
			return weight
		case wc >= th.AvgWordCount/2:
			return weight / 2
		default:
			// Fixed minimum fraction for any submission at all.
			return weight / 4
		}
	},
	KindTimelyCreation: func(ts Timesheet, _ Thresholds, weight float64) float64 {
		if sameDate(ts.ModifiedAt, ts.StartDate) {
			return weight
		}
		return 0
	},
}

func (k CriterionKind) Valid() bool {
	_, ok := evaluators[k]
	return ok
}

// ScoreTimesheet evaluates every configured criterion against one submitted
// timesheet and returns the unrounded sum of contributions. Unknown kinds
// contribute nothing; they are rejected at configuration save time.
func ScoreTimesheet(ts Timesheet, criteria []Criterion, th Thresholds) float64 {
	total := 0.0
	for _, c := range criteria {
		eval, ok := evaluators[c.Kind]
		if !ok {
			continue
		}
		total += eval(ts, th, c.Weight)
	}
	return total
}

// Round1 rounds to one decimal place. Contributions are summed first and
// rounded once, never per criterion.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
