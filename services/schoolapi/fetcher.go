package schoolapi

import (
	"context"
	"time"

	"github.com/trezcool/shule/core/school"
)

const fetchPageLimit = 100

// Fetcher reads the collections the dashboard pipeline aggregates.
// List endpoints are walked page by page until exhausted.
type Fetcher struct {
	c *Client
}

func NewFetcher(c *Client) *Fetcher {
	return &Fetcher{c: c}
}

// Class returns the class with its sections, fetching them separately when the class document omits them.
func (f *Fetcher) Class(ctx context.Context, classID int) (school.Class, error) {
	cls, err := f.c.Classes.Get(ctx, classID)
	if err != nil {
		return school.Class{}, err
	}
	if len(cls.Sections) == 0 {
		secs, err := collect(func(page int) (Page[school.Section], error) {
			return f.c.Classes.Sections(ctx, classID, ListOptions{Page: page, Limit: fetchPageLimit})
		})
		if err != nil {
			return school.Class{}, err
		}
		cls.Sections = secs
	}
	return cls, nil
}

func (f *Fetcher) SectionStudents(ctx context.Context, sectionID int) ([]school.Student, error) {
	return collect(func(page int) (Page[school.Student], error) {
		return f.c.Sections.Students(ctx, sectionID, ListOptions{Page: page, Limit: fetchPageLimit})
	})
}

func (f *Fetcher) ClassStudents(ctx context.Context, classID int) ([]school.Student, error) {
	return collect(func(page int) (Page[school.Student], error) {
		return f.c.Students.List(ctx, StudentFilter{
			ListOptions: ListOptions{Page: page, Limit: fetchPageLimit},
			ClassID:     classID,
		})
	})
}

func (f *Fetcher) ClassExams(ctx context.Context, classID int) ([]school.Exam, error) {
	return collect(func(page int) (Page[school.Exam], error) {
		return f.c.Exams.List(ctx, ExamFilter{
			ListOptions: ListOptions{Page: page, Limit: fetchPageLimit},
			ClassID:     classID,
		})
	})
}

func (f *Fetcher) ExamResults(ctx context.Context, examID int) ([]school.ExamResult, error) {
	return collect(func(page int) (Page[school.ExamResult], error) {
		return f.c.Exams.Results(ctx, examID, ListOptions{Page: page, Limit: fetchPageLimit})
	})
}

func (f *Fetcher) AttendanceReport(ctx context.Context, classID int, from, to time.Time) (school.AttendanceReport, error) {
	return f.c.Attendance.Report(ctx, classID, from, to)
}

// SectionAttendance returns every per-day attendance record of a section.
func (f *Fetcher) SectionAttendance(ctx context.Context, sectionID int) ([]school.AttendanceRecord, error) {
	return collect(func(page int) (Page[school.AttendanceRecord], error) {
		return f.c.Attendance.List(ctx, AttendanceFilter{
			ListOptions: ListOptions{Page: page, Limit: fetchPageLimit},
			SectionID:   sectionID,
		})
	})
}

// collect fetches pages from 1 on and concatenates their data. A bare array response is a single page.
func collect[T any](fetch func(page int) (Page[T], error)) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		p, err := fetch(page)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Data...)
		// the page counter also bounds the walk when the server echoes a stale page number
		if !p.HasNext() || page >= p.Pagination.Pages {
			return all, nil
		}
	}
}
