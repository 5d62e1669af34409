package dashboard

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/analytics"
	"github.com/trezcool/shule/core/school"
)

const topStudents = 5

// ClassPerformance ranks the students of a class (or of one of its sections).
func (svc *Service) ClassPerformance(ctx context.Context, q Query) (PerformanceView, error) {
	data, err := svc.load(ctx, q)
	if err != nil {
		return PerformanceView{}, err
	}

	ranked, omitted := svc.studentPerformance(ctx, data)
	if err := ctx.Err(); err != nil {
		return PerformanceView{}, errors.Wrap(err, "class performance")
	}
	return PerformanceView{
		Class:    newClassInfo(data.class, q.SectionID),
		Students: ranked,
		Summary:  analytics.ClassSummary(ranked, svc.opts.PassMark),
		Omitted:  omitted,
	}, nil
}

func (svc *Service) SubjectPerformance(ctx context.Context, q Query) (SubjectView, error) {
	data, err := svc.load(ctx, q)
	if err != nil {
		return SubjectView{}, err
	}

	samples := svc.examSamples(ctx, data)
	if err := ctx.Err(); err != nil {
		return SubjectView{}, errors.Wrap(err, "subject performance")
	}
	return SubjectView{
		Class:    newClassInfo(data.class, q.SectionID),
		Subjects: analytics.SubjectRollups(samples),
		Exams:    samples,
	}, nil
}

func (svc *Service) AttendanceOverview(ctx context.Context, q Query) (AttendanceView, error) {
	data, err := svc.load(ctx, q)
	if err != nil {
		return AttendanceView{}, err
	}

	stats := rosterAttendance(data)
	overview := analytics.AttendanceSummary(stats, svc.opts.AttendanceAlert)

	rows := make([]AttendanceRow, 0, len(data.students))
	for i, stud := range data.students {
		st := stats[i]
		rows = append(rows, AttendanceRow{
			StudentID:       stud.ID,
			StudentName:     stud.Name,
			AdmissionNumber: stud.AdmissionNumber,
			TotalDays:       st.TotalDays,
			PresentDays:     st.PresentDays,
			AbsentDays:      st.AbsentDays,
			LateDays:        st.LateDays,
			Percentage:      st.AttendancePercentage,
			Flagged:         st.AttendancePercentage < svc.opts.AttendanceAlert,
		})
	}

	from, to := data.attendance.From, data.attendance.To
	if from.IsZero() {
		from = school.Date{Time: q.From}
	}
	if to.IsZero() {
		to = school.Date{Time: q.To}
	}
	return AttendanceView{
		Class:    newClassInfo(data.class, q.SectionID),
		From:     from,
		To:       to,
		Overview: overview,
		Students: rows,
	}, nil
}

func (svc *Service) ExamTrend(ctx context.Context, q Query) (TrendView, error) {
	data, err := svc.load(ctx, q)
	if err != nil {
		return TrendView{}, err
	}

	samples := svc.examSamples(ctx, data)
	if err := ctx.Err(); err != nil {
		return TrendView{}, errors.Wrap(err, "exam trend")
	}
	return TrendView{
		Class:  newClassInfo(data.class, q.SectionID),
		Points: analytics.ExamTrend(samples),
	}, nil
}

// ClassOverview combines the other views from a single load.
func (svc *Service) ClassOverview(ctx context.Context, q Query) (OverviewView, error) {
	data, err := svc.load(ctx, q)
	if err != nil {
		return OverviewView{}, err
	}

	var (
		ranked  []analytics.PerformanceData
		omitted int
		samples []analytics.ExamSample
		done    = make(chan struct{})
	)
	go func() {
		defer close(done)
		samples = svc.examSamples(ctx, data)
	}()
	ranked, omitted = svc.studentPerformance(ctx, data)
	<-done
	if err := ctx.Err(); err != nil {
		return OverviewView{}, errors.Wrap(err, "class overview")
	}

	top := ranked
	if len(top) > topStudents {
		top = top[:topStudents]
	}
	return OverviewView{
		Class:       newClassInfo(data.class, q.SectionID),
		Summary:     analytics.ClassSummary(ranked, svc.opts.PassMark),
		TopStudents: top,
		Subjects:    analytics.SubjectRollups(samples),
		Attendance:  analytics.AttendanceSummary(rosterAttendance(data), svc.opts.AttendanceAlert),
		Trend:       analytics.ExamTrend(samples),
		Omitted:     omitted,
	}, nil
}

// rosterAttendance returns one stats entry per loaded student, in roster order.
// Students missing from the report get zeroed stats.
func rosterAttendance(data classData) []school.AttendanceStats {
	byStudent := make(map[int]school.AttendanceStats, len(data.attendance.Students))
	for _, st := range data.attendance.Students {
		if _, ok := byStudent[st.StudentID]; !ok {
			byStudent[st.StudentID] = st
		}
	}
	stats := make([]school.AttendanceStats, 0, len(data.students))
	for _, stud := range data.students {
		st, ok := byStudent[stud.ID]
		if !ok {
			st = school.AttendanceStats{StudentID: stud.ID}
		}
		stats = append(stats, st)
	}
	return stats
}
