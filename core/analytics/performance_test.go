package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/tests"
)

func classFixture() ([]school.Student, []school.Exam, []school.ExamResult, []school.AttendanceStats) {
	students := []school.Student{
		testutil.NewStudent(1, "Amani", 10),
		testutil.NewStudent(2, "Baraka", 10),
		testutil.NewStudent(3, "Chausiku", 10),
	}
	exams := []school.Exam{
		testutil.NewExam(100, "Midterm", "Math", testutil.Day(time.March, 1)),
		testutil.NewExam(200, "Final", "Math", testutil.Day(time.June, 1)),
	}
	results := []school.ExamResult{
		testutil.NewResult(100, 1, 80, 80),
		testutil.NewResult(200, 1, 90, 90),
		testutil.NewResult(100, 2, 60, 60),
		testutil.NewResult(200, 2, 70, 70),
		testutil.NewResult(100, 3, 45, 45), // no result for the final
	}
	attendance := []school.AttendanceStats{
		testutil.NewAttendance(1, 20, 19, 1, 0),
		testutil.NewAttendance(2, 20, 15, 5, 0),
	}
	return students, exams, results, attendance
}

func TestComputeStudent(t *testing.T) {
	students, exams, results, _ := classFixture()

	tests := []struct {
		name      string
		student   school.Student
		results   []school.ExamResult
		wantExams int
		wantMarks float64
		wantPct   float64
		wantGrade Grade
		wantTrend Trend
	}{
		{name: "all results", student: students[0], results: results, wantExams: 2, wantMarks: 85, wantPct: 85, wantGrade: GradeA, wantTrend: TrendUp},
		{name: "missing result excluded", student: students[2], results: results, wantExams: 1, wantMarks: 45, wantPct: 45, wantGrade: GradeD, wantTrend: TrendDown},
		{name: "no results", student: students[1], results: nil, wantExams: 0, wantMarks: 0, wantPct: 0, wantGrade: GradeF, wantTrend: TrendDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStudent(tt.student, exams, tt.results, 50)
			assert.Equal(t, tt.student.ID, got.StudentID)
			assert.Equal(t, tt.wantExams, got.TotalExams)
			assert.InDelta(t, tt.wantMarks, got.AverageMarks, 1e-9)
			assert.InDelta(t, tt.wantPct, got.AveragePercentage, 1e-9)
			assert.Equal(t, tt.wantGrade, got.Grade)
			assert.Equal(t, tt.wantTrend, got.Trend)
			assert.Equal(t, 50.0, got.AttendancePercentage)
			assert.Zero(t, got.Rank)
		})
	}
}

func TestComputeStudent_UsesStoredPercentage(t *testing.T) {
	exam := testutil.NewExam(1, "Quiz", "Science", testutil.Day(time.May, 2))
	exam.TotalMarks = 20
	// 10/20 would be 50%, the stored percentage wins
	res := testutil.NewResult(1, 7, 10, 72)

	got := ComputeStudent(testutil.NewStudent(7, "Dalila", 1), []school.Exam{exam}, []school.ExamResult{res}, 0)

	assert.Equal(t, 10.0, got.AverageMarks)
	assert.Equal(t, 72.0, got.AveragePercentage)
	assert.Equal(t, GradeBPlus, got.Grade)
}

func TestComputeStudent_FirstResultWins(t *testing.T) {
	exam := testutil.NewExam(1, "Quiz", "Science", testutil.Day(time.May, 2))
	results := []school.ExamResult{
		testutil.NewResult(1, 7, 60, 60),
		testutil.NewResult(1, 7, 99, 99),
	}

	got := ComputeStudent(testutil.NewStudent(7, "Dalila", 1), []school.Exam{exam}, results, 0)

	assert.Equal(t, 1, got.TotalExams)
	assert.Equal(t, 60.0, got.AveragePercentage)
}

func TestComputeAll(t *testing.T) {
	students, exams, results, attendance := classFixture()

	perf := ComputeAll(students, exams, results, attendance)

	require.Len(t, perf, 3)
	byID := make(map[int]PerformanceData)
	for _, p := range perf {
		byID[p.StudentID] = p
	}
	assert.Equal(t, 2, byID[1].TotalExams)
	assert.Equal(t, 2, byID[2].TotalExams)
	assert.Equal(t, 1, byID[3].TotalExams)
	assert.Equal(t, 45.0, byID[3].AveragePercentage)

	assert.Equal(t, 95.0, byID[1].AttendancePercentage)
	assert.Equal(t, 75.0, byID[2].AttendancePercentage)
	assert.Equal(t, 0.0, byID[3].AttendancePercentage, "missing attendance defaults to 0")

	assert.Equal(t, []int{1, 2, 3}, []int{perf[0].StudentID, perf[1].StudentID, perf[2].StudentID})
	assert.Equal(t, []int{1, 2, 3}, []int{perf[0].Rank, perf[1].Rank, perf[2].Rank})
}

func TestComputeAll_Idempotent(t *testing.T) {
	students, exams, results, attendance := classFixture()

	first, err := json.Marshal(ComputeAll(students, exams, results, attendance))
	require.NoError(t, err)
	second, err := json.Marshal(ComputeAll(students, exams, results, attendance))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRank(t *testing.T) {
	perf := []PerformanceData{
		{StudentID: 1, AveragePercentage: 60},
		{StudentID: 2, AveragePercentage: 90},
		{StudentID: 3, AveragePercentage: 75},
		{StudentID: 4, AveragePercentage: 90},
		{StudentID: 5, AveragePercentage: 60},
	}

	ranked := Rank(perf)

	require.Len(t, ranked, len(perf))
	wantOrder := []int{2, 4, 3, 1, 5}
	for i, p := range ranked {
		assert.Equal(t, wantOrder[i], p.StudentID, "position %d", i)
		assert.Equal(t, i+1, p.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, ranked[i-1].AveragePercentage, p.AveragePercentage)
		}
	}
	// input is left untouched
	assert.Equal(t, 1, perf[0].StudentID)
	assert.Zero(t, perf[0].Rank)
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil))
}
