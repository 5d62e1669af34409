package exportsvc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/shule/core/analytics"
	"github.com/trezcool/shule/core/dashboard"
)

func TestWritePerformance(t *testing.T) {
	ranked := analytics.Rank([]analytics.PerformanceData{
		{StudentID: 1, StudentName: "Amina", AdmissionNumber: "ADM1", TotalExams: 2, AverageMarks: 80, AveragePercentage: 80, Grade: analytics.GradeA, AttendancePercentage: 95, Trend: analytics.TrendUp},
		{StudentID: 2, StudentName: "Baraka", AdmissionNumber: "ADM2", TotalExams: 2, AverageMarks: 50.456, AveragePercentage: 50.456, Grade: analytics.GradeC, AttendancePercentage: 70, Trend: analytics.TrendStable},
	})
	perf := dashboard.PerformanceView{
		Class:    dashboard.ClassInfo{ID: 1, Name: "Form 2"},
		Students: ranked,
		Summary:  analytics.ClassSummary(ranked, 40),
	}
	subjects := dashboard.SubjectView{
		Subjects: analytics.SubjectRollups([]analytics.ExamSample{
			{ExamID: 1, Subject: "Math", Average: 70, Participants: 2, Passed: 2, Highest: 80, Lowest: 60},
		}),
	}

	var buf bytes.Buffer
	require.NoError(t, WritePerformance(&buf, perf, subjects))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{performanceSheet, subjectsSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(performanceSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Rank", rows[0][0])
	assert.Equal(t, []string{"1", "Amina", "ADM1", "2", "80", "80", "A", "95", "up"}, rows[1])
	assert.Equal(t, "50.46", rows[2][5])

	rows, err = f.GetRows(subjectsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Math", rows[1][0])
	assert.Equal(t, "100", rows[1][5])

	v, err := f.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Form 2", v)
}
