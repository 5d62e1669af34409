package testutil

import (
	"io"
	"log"
	"strconv"
	"testing"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
	logsvc "github.com/trezcool/shule/services/logger"
)

// NewLogger returns a core.Logger that reports nowhere.
func NewLogger() core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), &core.Config{Env: "TEST", Build: "test"})
	logger.Enable(false)
	return logger
}

func NewStudent(id int, name string, sectionID int) school.Student {
	return school.Student{
		ID:              id,
		Name:            name,
		AdmissionNumber: "ADM" + strconv.Itoa(id),
		SectionID:       sectionID,
		Status:          school.StatusActive,
	}
}

func NewExam(id int, name, subject string, date time.Time) school.Exam {
	return school.Exam{
		ID:         id,
		Name:       name,
		Subject:    subject,
		TotalMarks: 100,
		ExamDate:   school.Date{Time: date},
	}
}

func NewResult(examID, studentID int, marks, pct float64) school.ExamResult {
	return school.ExamResult{
		ExamID:        examID,
		StudentID:     studentID,
		MarksObtained: marks,
		Percentage:    pct,
	}
}

func NewAttendance(studentID, total, present, absent, late int) school.AttendanceStats {
	st := school.AttendanceStats{
		StudentID:   studentID,
		TotalDays:   total,
		PresentDays: present,
		AbsentDays:  absent,
		LateDays:    late,
	}
	if total > 0 {
		st.AttendancePercentage = float64(present+late) / float64(total) * 100
	}
	return st
}

// Day returns midnight UTC of the given day of 2024.
func Day(month time.Month, day int) time.Time {
	return time.Date(2024, month, day, 0, 0, 0, 0, time.UTC)
}

// FailNow stops the test on err.
func FailNow(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}
