package schoolapi

import (
	"context"
	"time"

	"github.com/trezcool/shule/core/school"
)

type AttendanceFilter struct {
	ListOptions
	SectionID int
	StudentID int
	Date      time.Time
}

type AttendanceAPI struct{ c *Client }

func (a *AttendanceAPI) List(ctx context.Context, f AttendanceFilter) (Page[school.AttendanceRecord], error) {
	params := f.values()
	setInt(params, "section_id", f.SectionID)
	setInt(params, "student_id", f.StudentID)
	if !f.Date.IsZero() {
		params.Set("date", f.Date.Format(school.DateLayout))
	}
	return Get[Page[school.AttendanceRecord]](ctx, a.c, "/attendance", params)
}

func (a *AttendanceAPI) Mark(ctx context.Context, rec school.NewAttendanceRecord) (school.AttendanceRecord, error) {
	return Post[school.AttendanceRecord](ctx, a.c, "/attendance", rec)
}

func (a *AttendanceAPI) MarkBulk(ctx context.Context, recs []school.NewAttendanceRecord) error {
	_, err := Post[Empty](ctx, a.c, "/attendance/bulk", map[string]interface{}{"records": recs})
	return err
}

// Report rolls attendance up per student of a class. Zero from/to leave the window open.
func (a *AttendanceAPI) Report(ctx context.Context, classID int, from, to time.Time) (school.AttendanceReport, error) {
	return Get[school.AttendanceReport](ctx, a.c, pathf("/attendance/report/%d", classID), window(from, to))
}

func (a *AttendanceAPI) Student(ctx context.Context, studentID int, from, to time.Time) (school.AttendanceStats, error) {
	return Get[school.AttendanceStats](ctx, a.c, pathf("/attendance/student/%d", studentID), window(from, to))
}

type ExamFilter struct {
	ListOptions
	ClassID int
	Subject string
}

type ExamsAPI struct{ c *Client }

func (a *ExamsAPI) List(ctx context.Context, f ExamFilter) (Page[school.Exam], error) {
	params := f.values()
	setInt(params, "class_id", f.ClassID)
	setString(params, "subject", f.Subject)
	return Get[Page[school.Exam]](ctx, a.c, "/exams", params)
}

func (a *ExamsAPI) Get(ctx context.Context, id int) (school.Exam, error) {
	return Get[school.Exam](ctx, a.c, pathf("/exams/%d", id), nil)
}

func (a *ExamsAPI) Create(ctx context.Context, exam school.Exam) (school.Exam, error) {
	return Post[school.Exam](ctx, a.c, "/exams", exam)
}

func (a *ExamsAPI) Update(ctx context.Context, id int, exam school.Exam) (school.Exam, error) {
	return Put[school.Exam](ctx, a.c, pathf("/exams/%d", id), exam)
}

func (a *ExamsAPI) Delete(ctx context.Context, id int) error {
	_, err := Delete[Empty](ctx, a.c, pathf("/exams/%d", id))
	return err
}

func (a *ExamsAPI) Results(ctx context.Context, examID int, opts ListOptions) (Page[school.ExamResult], error) {
	return Get[Page[school.ExamResult]](ctx, a.c, pathf("/exams/%d/results", examID), opts.values())
}

func (a *ExamsAPI) AddResult(ctx context.Context, examID int, res school.NewExamResult) (school.ExamResult, error) {
	return Post[school.ExamResult](ctx, a.c, pathf("/exams/%d/results", examID), res)
}

func (a *ExamsAPI) AddResults(ctx context.Context, examID int, res []school.NewExamResult) error {
	_, err := Post[Empty](ctx, a.c, pathf("/exams/%d/results/bulk", examID), map[string]interface{}{"results": res})
	return err
}

type FeeFilter struct {
	ListOptions
	StudentID int
	Status    string
}

type FeesAPI struct{ c *Client }

func (a *FeesAPI) List(ctx context.Context, f FeeFilter) (Page[school.Fee], error) {
	params := f.values()
	setInt(params, "student_id", f.StudentID)
	setString(params, "status", f.Status)
	return Get[Page[school.Fee]](ctx, a.c, "/fees", params)
}

func (a *FeesAPI) Get(ctx context.Context, id int) (school.Fee, error) {
	return Get[school.Fee](ctx, a.c, pathf("/fees/%d", id), nil)
}

func (a *FeesAPI) Create(ctx context.Context, fee school.Fee) (school.Fee, error) {
	return Post[school.Fee](ctx, a.c, "/fees", fee)
}

func (a *FeesAPI) Update(ctx context.Context, id int, fee school.Fee) (school.Fee, error) {
	return Put[school.Fee](ctx, a.c, pathf("/fees/%d", id), fee)
}

func (a *FeesAPI) RecordPayment(ctx context.Context, feeID int, p school.NewPayment) (school.Payment, error) {
	return Post[school.Payment](ctx, a.c, pathf("/fees/%d/payments", feeID), p)
}

func (a *FeesAPI) Student(ctx context.Context, studentID int) (Page[school.Fee], error) {
	return Get[Page[school.Fee]](ctx, a.c, pathf("/fees/student/%d", studentID), nil)
}
