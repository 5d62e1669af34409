// Package dashboard fetches a class's records through a Fetcher and shapes the
// aggregation engine's output into view-models.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/analytics"
	"github.com/trezcool/shule/core/school"
)

// Fetcher reads the remote collections a dashboard pass needs.
type Fetcher interface {
	Class(ctx context.Context, classID int) (school.Class, error)
	SectionStudents(ctx context.Context, sectionID int) ([]school.Student, error)
	ClassStudents(ctx context.Context, classID int) ([]school.Student, error)
	ClassExams(ctx context.Context, classID int) ([]school.Exam, error)
	ExamResults(ctx context.Context, examID int) ([]school.ExamResult, error)
	AttendanceReport(ctx context.Context, classID int, from, to time.Time) (school.AttendanceReport, error)
	SectionAttendance(ctx context.Context, sectionID int) ([]school.AttendanceRecord, error)
}

type Options struct {
	PassMark        float64
	AttendanceAlert float64
}

type Query struct {
	ClassID   int
	SectionID int // 0 for the whole class
	From      time.Time
	To        time.Time
}

type Service struct {
	fetcher Fetcher
	logger  core.Logger
	opts    Options
}

func NewService(fetcher Fetcher, logger core.Logger, opts Options) *Service {
	return &Service{fetcher: fetcher, logger: logger, opts: opts}
}

// classData is what one pass fetched.
type classData struct {
	query      Query
	class      school.Class
	students   []school.Student
	exams      []school.Exam
	attendance school.AttendanceReport
}

// load fetches class, students, exams and attendance concurrently and waits for all of them.
// Any failure fails the whole load.
func (svc *Service) load(ctx context.Context, q Query) (classData, error) {
	data := classData{query: q}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cls, err := svc.fetcher.Class(gctx, q.ClassID)
		if err != nil {
			return errors.Wrap(err, "fetching class")
		}
		data.class = cls
		return nil
	})
	g.Go(func() error {
		var (
			studs []school.Student
			err   error
		)
		if q.SectionID > 0 {
			studs, err = svc.fetcher.SectionStudents(gctx, q.SectionID)
		} else {
			studs, err = svc.fetcher.ClassStudents(gctx, q.ClassID)
		}
		if err != nil {
			return errors.Wrap(err, "fetching students")
		}
		data.students = studs
		return nil
	})
	g.Go(func() error {
		exams, err := svc.fetcher.ClassExams(gctx, q.ClassID)
		if err != nil {
			return errors.Wrap(err, "fetching exams")
		}
		data.exams = exams
		return nil
	})
	g.Go(func() error {
		report, err := svc.fetcher.AttendanceReport(gctx, q.ClassID, q.From, q.To)
		if err != nil {
			return errors.Wrap(err, "fetching attendance")
		}
		data.attendance = report
		return nil
	})
	if err := g.Wait(); err != nil {
		return classData{}, err
	}

	if q.SectionID > 0 && !data.class.HasSection(q.SectionID) {
		return classData{}, core.NewValidationError(nil, core.FieldError{
			Field: "section_id",
			Error: "section does not belong to this class",
		})
	}

	// every student must sit in a section of the class
	students := make([]school.Student, 0, len(data.students))
	for _, stud := range data.students {
		if !data.class.HasSection(stud.SectionID) || (q.SectionID > 0 && stud.SectionID != q.SectionID) {
			svc.logger.Warn("dashboard: dropping student outside the class", map[string]interface{}{
				"class_id":   q.ClassID,
				"student_id": stud.ID,
				"section_id": stud.SectionID,
			})
			continue
		}
		students = append(students, stud)
	}
	data.students = students

	if len(data.attendance.Students) == 0 && len(data.students) > 0 {
		data.attendance.Students = svc.rollupAttendance(ctx, data)
	}
	return data, nil
}

// rollupAttendance rebuilds per-student stats from the per-day records of the queried sections,
// for reports that come back without them. A failed section is logged and contributes nothing.
func (svc *Service) rollupAttendance(ctx context.Context, data classData) []school.AttendanceStats {
	q := data.query
	sectionIDs := []int{q.SectionID}
	if q.SectionID == 0 {
		sectionIDs = sectionIDs[:0]
		for _, sec := range data.class.Sections {
			sectionIDs = append(sectionIDs, sec.ID)
		}
	}

	slots := make([][]school.AttendanceRecord, len(sectionIDs))
	var wg sync.WaitGroup
	for i, id := range sectionIDs {
		wg.Add(1)
		go func(i, sectionID int) {
			defer wg.Done()

			records, err := svc.fetcher.SectionAttendance(ctx, sectionID)
			if err != nil {
				svc.logger.Warn("dashboard: fetching attendance records failed, section skipped", err, map[string]interface{}{
					"section_id": sectionID,
				})
				return
			}
			slots[i] = records
		}(i, id)
	}
	wg.Wait()

	var inWindow []school.AttendanceRecord
	for _, records := range slots {
		for _, rec := range records {
			if (!q.From.IsZero() && rec.Date.Before(q.From)) || (!q.To.IsZero() && rec.Date.After(q.To)) {
				continue
			}
			inWindow = append(inWindow, rec)
		}
	}
	return analytics.RollupAttendance(inWindow)
}

// studentPerformance fetches each student's results in its own goroutine and hands the survivors
// to the engine in one pass; the returned records are ranked.
// A student whose result fetch fails is logged and left out; the others are unaffected.
func (svc *Service) studentPerformance(ctx context.Context, data classData) (ranked []analytics.PerformanceData, omitted int) {
	slots := make([][]school.ExamResult, len(data.students))
	fetched := make([]bool, len(data.students))

	var wg sync.WaitGroup
	for i, stud := range data.students {
		wg.Add(1)
		go func(i int, stud school.Student) {
			defer wg.Done()

			results := make([]school.ExamResult, 0, len(data.exams))
			for _, exam := range data.exams {
				examResults, err := svc.fetcher.ExamResults(ctx, exam.ID)
				if err != nil {
					svc.logger.Warn("dashboard: fetching results failed, student omitted", err, map[string]interface{}{
						"student_id": stud.ID,
						"exam_id":    exam.ID,
					})
					return
				}
				for _, res := range examResults {
					if res.StudentID == stud.ID {
						results = append(results, res)
						break
					}
				}
			}
			slots[i] = results
			fetched[i] = true
		}(i, stud)
	}
	wg.Wait()

	survivors := make([]school.Student, 0, len(data.students))
	var results []school.ExamResult
	for i, stud := range data.students {
		if !fetched[i] {
			omitted++
			continue
		}
		survivors = append(survivors, stud)
		results = append(results, slots[i]...)
	}
	return analytics.ComputeAll(survivors, data.exams, results, data.attendance.Students), omitted
}

// examSamples fetches each exam's results once and samples those of the loaded students.
// An exam whose results cannot be fetched is logged and skipped.
func (svc *Service) examSamples(ctx context.Context, data classData) []analytics.ExamSample {
	roster := make(map[int]struct{}, len(data.students))
	for _, stud := range data.students {
		roster[stud.ID] = struct{}{}
	}

	slots := make([]*analytics.ExamSample, len(data.exams))
	var wg sync.WaitGroup
	for i, exam := range data.exams {
		wg.Add(1)
		go func(i int, exam school.Exam) {
			defer wg.Done()

			results, err := svc.fetcher.ExamResults(ctx, exam.ID)
			if err != nil {
				svc.logger.Warn("dashboard: fetching results failed, exam skipped", err, map[string]interface{}{
					"exam_id": exam.ID,
				})
				return
			}
			own := make([]school.ExamResult, 0, len(results))
			for _, res := range results {
				if _, ok := roster[res.StudentID]; ok {
					own = append(own, res)
				}
			}
			sample := analytics.ExamSampleFor(exam, own, svc.opts.PassMark)
			slots[i] = &sample
		}(i, exam)
	}
	wg.Wait()

	samples := make([]analytics.ExamSample, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			samples = append(samples, *s)
		}
	}
	return samples
}
