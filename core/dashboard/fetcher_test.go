package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/tests"
)

var errBackend = errors.New("backend down")

type fakeFetcher struct {
	mu         sync.Mutex
	class      school.Class
	students   []school.Student
	exams      []school.Exam
	results    map[int][]school.ExamResult
	attendance school.AttendanceReport
	records    map[int][]school.AttendanceRecord // section id -> per-day records

	failClass   bool
	failRecords map[int]bool
	readRecords []int
	failResults map[int]int // exam id -> number of calls to fail
	calls       map[int]int
}

var _ Fetcher = (*fakeFetcher)(nil)

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		class: school.Class{
			ID:           1,
			Name:         "Form 2",
			Level:        2,
			AcademicYear: "2024",
			Sections: []school.Section{
				{ID: 10, ClassID: 1, Name: "North"},
				{ID: 11, ClassID: 1, Name: "South"},
			},
		},
		students: []school.Student{
			testutil.NewStudent(1, "Amina", 10),
			testutil.NewStudent(2, "Baraka", 10),
			testutil.NewStudent(3, "Chausiku", 11),
			testutil.NewStudent(4, "Outsider", 99),
		},
		exams: []school.Exam{
			testutil.NewExam(1, "Midterm", "Math", testutil.Day(time.March, 1)),
			testutil.NewExam(2, "Final", "Math", testutil.Day(time.June, 1)),
			testutil.NewExam(3, "Midterm", "English", testutil.Day(time.March, 2)),
		},
		results: map[int][]school.ExamResult{
			1: {testutil.NewResult(1, 1, 80, 80), testutil.NewResult(1, 2, 60, 60), testutil.NewResult(1, 3, 90, 90)},
			2: {testutil.NewResult(2, 1, 90, 90), testutil.NewResult(2, 2, 50, 50)},
			3: {testutil.NewResult(3, 1, 70, 70), testutil.NewResult(3, 2, 40, 40), testutil.NewResult(3, 3, 85, 85)},
		},
		attendance: school.AttendanceReport{
			ClassID: 1,
			Students: []school.AttendanceStats{
				testutil.NewAttendance(1, 20, 19, 1, 0),
				testutil.NewAttendance(2, 20, 12, 6, 2),
			},
		},
		records:     make(map[int][]school.AttendanceRecord),
		failRecords: make(map[int]bool),
		failResults: make(map[int]int),
		calls:       make(map[int]int),
	}
}

func (f *fakeFetcher) Class(ctx context.Context, _ int) (school.Class, error) {
	if err := ctx.Err(); err != nil {
		return school.Class{}, err
	}
	if f.failClass {
		return school.Class{}, errBackend
	}
	return f.class, nil
}

func (f *fakeFetcher) SectionStudents(ctx context.Context, sectionID int) ([]school.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []school.Student
	for _, s := range f.students {
		if s.SectionID == sectionID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeFetcher) ClassStudents(ctx context.Context, _ int) ([]school.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.students, nil
}

func (f *fakeFetcher) ClassExams(ctx context.Context, _ int) ([]school.Exam, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.exams, nil
}

func (f *fakeFetcher) ExamResults(ctx context.Context, examID int) ([]school.ExamResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[examID]++
	if f.calls[examID] <= f.failResults[examID] {
		return nil, errBackend
	}
	return f.results[examID], nil
}

func (f *fakeFetcher) AttendanceReport(ctx context.Context, _ int, _, _ time.Time) (school.AttendanceReport, error) {
	if err := ctx.Err(); err != nil {
		return school.AttendanceReport{}, err
	}
	return f.attendance, nil
}

func (f *fakeFetcher) SectionAttendance(ctx context.Context, sectionID int) ([]school.AttendanceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.readRecords = append(f.readRecords, sectionID)
	f.mu.Unlock()
	if f.failRecords[sectionID] {
		return nil, errBackend
	}
	return f.records[sectionID], nil
}
