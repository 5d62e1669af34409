package analytics

import (
	"sort"

	"github.com/trezcool/shule/core/school"
)

// AttendanceIndex maps student IDs to their attendance percentage.
// The first entry wins when a student appears more than once.
func AttendanceIndex(stats []school.AttendanceStats) map[int]float64 {
	idx := make(map[int]float64, len(stats))
	for _, s := range stats {
		if _, ok := idx[s.StudentID]; !ok {
			idx[s.StudentID] = s.AttendancePercentage
		}
	}
	return idx
}

// AttendanceFor returns the student's attendance percentage, 0 if unknown.
func AttendanceFor(idx map[int]float64, studentID int) float64 {
	return idx[studentID]
}

// RollupAttendance turns per-day records into per-student stats, in order of first appearance.
// Late days count as attended; excused days count towards the total only.
func RollupAttendance(records []school.AttendanceRecord) []school.AttendanceStats {
	pos := make(map[int]int)
	stats := make([]school.AttendanceStats, 0)
	for _, rec := range records {
		i, ok := pos[rec.StudentID]
		if !ok {
			i = len(stats)
			pos[rec.StudentID] = i
			stats = append(stats, school.AttendanceStats{StudentID: rec.StudentID})
		}
		st := &stats[i]
		st.TotalDays++
		switch rec.Status {
		case school.AttendancePresent:
			st.PresentDays++
		case school.AttendanceAbsent:
			st.AbsentDays++
		case school.AttendanceLate:
			st.LateDays++
		}
	}
	for i := range stats {
		st := &stats[i]
		if st.TotalDays > 0 {
			st.AttendancePercentage = float64(st.PresentDays+st.LateDays) / float64(st.TotalDays) * 100
		}
	}
	return stats
}

type AttendanceOverview struct {
	Students          int                      `json:"students"`
	AveragePercentage float64                  `json:"average_percentage"`
	TotalPresent      int                      `json:"total_present"`
	TotalAbsent       int                      `json:"total_absent"`
	TotalLate         int                      `json:"total_late"`
	AlertThreshold    float64                  `json:"alert_threshold"`
	BelowThreshold    []school.AttendanceStats `json:"below_threshold"`
}

// AttendanceSummary rolls class attendance up and flags students strictly below alertBelow,
// lowest attendance first.
func AttendanceSummary(stats []school.AttendanceStats, alertBelow float64) AttendanceOverview {
	ov := AttendanceOverview{
		Students:       len(stats),
		AlertThreshold: alertBelow,
		BelowThreshold: make([]school.AttendanceStats, 0),
	}
	var sum float64
	for _, s := range stats {
		sum += s.AttendancePercentage
		ov.TotalPresent += s.PresentDays
		ov.TotalAbsent += s.AbsentDays
		ov.TotalLate += s.LateDays
		if s.AttendancePercentage < alertBelow {
			ov.BelowThreshold = append(ov.BelowThreshold, s)
		}
	}
	if len(stats) > 0 {
		ov.AveragePercentage = sum / float64(len(stats))
	}
	sort.SliceStable(ov.BelowThreshold, func(i, j int) bool {
		return ov.BelowThreshold[i].AttendancePercentage < ov.BelowThreshold[j].AttendancePercentage
	})
	return ov
}
