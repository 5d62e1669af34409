package analytics

// Grade is a letter grade derived from an average percentage.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// Grades lists all grades from best to worst.
var Grades = []Grade{GradeAPlus, GradeA, GradeBPlus, GradeB, GradeC, GradeD, GradeF}

// gradeLadder holds the inclusive lower bound of each tier, best first.
var gradeLadder = []struct {
	min   float64
	grade Grade
}{
	{90, GradeAPlus},
	{80, GradeA},
	{70, GradeBPlus},
	{60, GradeB},
	{50, GradeC},
	{40, GradeD},
}

// GradeFor maps an average percentage to its letter grade.
func GradeFor(pct float64) Grade {
	for _, tier := range gradeLadder {
		if pct >= tier.min {
			return tier.grade
		}
	}
	return GradeF
}

// Trend is a coarse performance label.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendStable Trend = "stable"
	TrendDown   Trend = "down"
)

// TrendFor labels an average percentage. It is a static threshold on the
// current percentage, not a comparison with an earlier period (see ExamTrend for that).
func TrendFor(pct float64) Trend {
	switch {
	case pct >= 75:
		return TrendUp
	case pct >= 50:
		return TrendStable
	default:
		return TrendDown
	}
}
