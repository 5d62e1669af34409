package analytics

import (
	"sort"

	"github.com/trezcool/shule/core/school"
)

type TrendPoint struct {
	ExamID    int         `json:"exam_id"`
	ExamName  string      `json:"exam_name"`
	Subject   string      `json:"subject"`
	ExamDate  school.Date `json:"exam_date"`
	Average   float64     `json:"average"`
	PassRate  float64     `json:"pass_rate"`
	Change    float64     `json:"change"`
	Direction Trend       `json:"direction"`
}

// ExamTrend orders exam samples by date (input order for equal dates) and measures each
// exam's average against the previous one. The first point has no change and is stable.
// Samples without participants are skipped.
func ExamTrend(samples []ExamSample) []TrendPoint {
	ordered := make([]ExamSample, 0, len(samples))
	for _, s := range samples {
		if s.Participants > 0 {
			ordered = append(ordered, s)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ExamDate.Before(ordered[j].ExamDate.Time)
	})

	points := make([]TrendPoint, 0, len(ordered))
	for i, s := range ordered {
		pt := TrendPoint{
			ExamID:    s.ExamID,
			ExamName:  s.ExamName,
			Subject:   s.Subject,
			ExamDate:  s.ExamDate,
			Average:   s.Average,
			PassRate:  s.PassRate(),
			Direction: TrendStable,
		}
		if i > 0 {
			pt.Change = s.Average - ordered[i-1].Average
			switch {
			case pt.Change > 0:
				pt.Direction = TrendUp
			case pt.Change < 0:
				pt.Direction = TrendDown
			}
		}
		points = append(points, pt)
	}
	return points
}
