package dashboard

import (
	"github.com/trezcool/shule/core/analytics"
	"github.com/trezcool/shule/core/school"
)

type ClassInfo struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Level        int    `json:"level"`
	AcademicYear string `json:"academic_year"`
	SectionID    int    `json:"section_id,omitempty"`
	SectionName  string `json:"section_name,omitempty"`
}

func newClassInfo(cls school.Class, sectionID int) ClassInfo {
	info := ClassInfo{
		ID:           cls.ID,
		Name:         cls.Name,
		Level:        cls.Level,
		AcademicYear: cls.AcademicYear,
	}
	for _, sec := range cls.Sections {
		if sec.ID == sectionID {
			info.SectionID = sec.ID
			info.SectionName = sec.Name
		}
	}
	return info
}

// PerformanceView lists the class's students in rank order.
// Omitted counts students left out because their results could not be fetched.
type PerformanceView struct {
	Class    ClassInfo                   `json:"class"`
	Students []analytics.PerformanceData `json:"students"`
	Summary  analytics.ClassStats        `json:"summary"`
	Omitted  int                         `json:"omitted"`
}

type SubjectView struct {
	Class    ClassInfo                `json:"class"`
	Subjects []analytics.SubjectStats `json:"subjects"`
	Exams    []analytics.ExamSample   `json:"exams"`
}

type AttendanceRow struct {
	StudentID       int     `json:"student_id"`
	StudentName     string  `json:"student_name"`
	AdmissionNumber string  `json:"admission_number"`
	TotalDays       int     `json:"total_days"`
	PresentDays     int     `json:"present_days"`
	AbsentDays      int     `json:"absent_days"`
	LateDays        int     `json:"late_days"`
	Percentage      float64 `json:"percentage"`
	Flagged         bool    `json:"flagged"`
}

type AttendanceView struct {
	Class    ClassInfo                    `json:"class"`
	From     school.Date                  `json:"from"`
	To       school.Date                  `json:"to"`
	Overview analytics.AttendanceOverview `json:"overview"`
	Students []AttendanceRow              `json:"students"`
}

type TrendView struct {
	Class  ClassInfo              `json:"class"`
	Points []analytics.TrendPoint `json:"points"`
}

// OverviewView is the landing page of a class: headline stats and the best students.
type OverviewView struct {
	Class       ClassInfo                    `json:"class"`
	Summary     analytics.ClassStats         `json:"summary"`
	TopStudents []analytics.PerformanceData  `json:"top_students"`
	Subjects    []analytics.SubjectStats     `json:"subjects"`
	Attendance  analytics.AttendanceOverview `json:"attendance"`
	Trend       []analytics.TrendPoint       `json:"trend"`
	Omitted     int                          `json:"omitted"`
}
