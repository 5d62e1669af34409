// Package analytics derives performance and attendance statistics from fetched school records.
// Every function is pure: identical inputs always give identical outputs.
package analytics

import (
	"sort"

	"github.com/trezcool/shule/core/school"
)

// PerformanceData is a student's derived performance for one aggregation pass.
type PerformanceData struct {
	StudentID            int     `json:"student_id"`
	StudentName          string  `json:"student_name"`
	AdmissionNumber      string  `json:"admission_number"`
	TotalExams           int     `json:"total_exams"`
	AverageMarks         float64 `json:"average_marks"`
	AveragePercentage    float64 `json:"average_percentage"`
	Grade                Grade   `json:"grade"`
	AttendancePercentage float64 `json:"attendance_percentage"`
	Rank                 int     `json:"rank"`
	Trend                Trend   `json:"trend"`
}

// HasData reports whether at least one exam result contributed to the averages.
func (p PerformanceData) HasData() bool {
	return p.TotalExams > 0
}

type resultKey struct {
	examID    int
	studentID int
}

// resultIndex keeps the first result seen for each (exam, student) pair.
type resultIndex map[resultKey]school.ExamResult

func newResultIndex(results []school.ExamResult) resultIndex {
	idx := make(resultIndex, len(results))
	for _, r := range results {
		k := resultKey{examID: r.ExamID, studentID: r.StudentID}
		if _, ok := idx[k]; !ok {
			idx[k] = r
		}
	}
	return idx
}

// ComputeStudent derives a student's performance over exams.
// For every exam, the student's result (if any) adds its marks and its stored percentage;
// an exam without a result counts neither in the numerator nor in the denominator.
// Rank is left at 0; see Rank.
func ComputeStudent(student school.Student, exams []school.Exam, results []school.ExamResult, attendancePct float64) PerformanceData {
	return computeStudent(student, exams, newResultIndex(results), attendancePct)
}

func computeStudent(student school.Student, exams []school.Exam, idx resultIndex, attendancePct float64) PerformanceData {
	var totalMarks, totalPct float64
	var totalExams int
	for _, exam := range exams {
		r, ok := idx[resultKey{examID: exam.ID, studentID: student.ID}]
		if !ok {
			continue
		}
		totalMarks += r.MarksObtained
		totalPct += r.Percentage
		totalExams++
	}

	var avgMarks, avgPct float64
	if totalExams > 0 {
		avgMarks = totalMarks / float64(totalExams)
		avgPct = totalPct / float64(totalExams)
	}
	return PerformanceData{
		StudentID:            student.ID,
		StudentName:          student.Name,
		AdmissionNumber:      student.AdmissionNumber,
		TotalExams:           totalExams,
		AverageMarks:         avgMarks,
		AveragePercentage:    avgPct,
		Grade:                GradeFor(avgPct),
		AttendancePercentage: attendancePct,
		Trend:                TrendFor(avgPct),
	}
}

// ComputeAll derives the performance of every student from a complete set of results
// and returns them ranked.
func ComputeAll(
	students []school.Student,
	exams []school.Exam,
	results []school.ExamResult,
	attendance []school.AttendanceStats,
) []PerformanceData {
	idx := newResultIndex(results)
	attIdx := AttendanceIndex(attendance)
	perf := make([]PerformanceData, 0, len(students))
	for _, s := range students {
		perf = append(perf, computeStudent(s, exams, idx, AttendanceFor(attIdx, s.ID)))
	}
	return Rank(perf)
}

// Rank returns a copy of perf sorted by average percentage (descending) with 1-based ranks.
// Equal percentages keep their input order and still get distinct consecutive ranks.
func Rank(perf []PerformanceData) []PerformanceData {
	ranked := make([]PerformanceData, len(perf))
	copy(ranked, perf)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AveragePercentage > ranked[j].AveragePercentage
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
