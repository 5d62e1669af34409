package analytics

import (
	"github.com/trezcool/shule/core/school"
)

// ExamSample summarizes the results of a single exam.
type ExamSample struct {
	ExamID       int         `json:"exam_id"`
	ExamName     string      `json:"exam_name"`
	Subject      string      `json:"subject"`
	ExamDate     school.Date `json:"exam_date"`
	Average      float64     `json:"average"` // mean of stored percentages
	AverageMarks float64     `json:"average_marks"`
	Participants int         `json:"participants"`
	Passed       int         `json:"passed"`
	Highest      float64     `json:"highest"`
	Lowest       float64     `json:"lowest"`
}

// PassRate is the share of participants who passed, in percent.
func (s ExamSample) PassRate() float64 {
	return rate(s.Passed, s.Participants)
}

// ExamSampleFor summarizes the results of exam. Results of other exams are ignored and only
// the first result of each student counts.
// A result passes when it reaches the exam's passing marks, or passMark percent when the
// exam has none.
func ExamSampleFor(exam school.Exam, results []school.ExamResult, passMark float64) ExamSample {
	sample := ExamSample{
		ExamID:   exam.ID,
		ExamName: exam.Name,
		Subject:  exam.Subject,
		ExamDate: exam.ExamDate,
	}
	seen := make(map[int]bool)
	var sumPct, sumMarks float64
	for _, r := range results {
		if r.ExamID != exam.ID || seen[r.StudentID] {
			continue
		}
		seen[r.StudentID] = true

		if sample.Participants == 0 || r.Percentage > sample.Highest {
			sample.Highest = r.Percentage
		}
		if sample.Participants == 0 || r.Percentage < sample.Lowest {
			sample.Lowest = r.Percentage
		}
		sample.Participants++
		sumPct += r.Percentage
		sumMarks += r.MarksObtained
		if passed(exam, r, passMark) {
			sample.Passed++
		}
	}
	if sample.Participants > 0 {
		sample.Average = sumPct / float64(sample.Participants)
		sample.AverageMarks = sumMarks / float64(sample.Participants)
	}
	return sample
}

func passed(exam school.Exam, r school.ExamResult, passMark float64) bool {
	if exam.PassingMarks > 0 {
		return r.MarksObtained >= exam.PassingMarks
	}
	return r.Percentage >= passMark
}

// IncrementalAverage folds one more sample into a running average over count samples.
func IncrementalAverage(avg float64, count int, sample float64) float64 {
	return (avg*float64(count) + sample) / float64(count+1)
}

type SubjectStats struct {
	Subject      string  `json:"subject"`
	Average      float64 `json:"average"`
	Grade        Grade   `json:"grade"`
	ExamCount    int     `json:"exam_count"`
	Participants int     `json:"participants"`
	Passed       int     `json:"passed"`
	PassRate     float64 `json:"pass_rate"`
	Highest      float64 `json:"highest"`
	Lowest       float64 `json:"lowest"`
}

// SubjectRollups groups exam samples by subject, in order of first appearance.
// The subject average folds each exam's average in with IncrementalAverage, one exam at a
// time: every exam weighs the same whatever its number of participants.
// Samples without participants are skipped.
func SubjectRollups(samples []ExamSample) []SubjectStats {
	pos := make(map[string]int)
	rollups := make([]SubjectStats, 0)
	for _, smp := range samples {
		if smp.Participants == 0 {
			continue
		}
		i, ok := pos[smp.Subject]
		if !ok {
			i = len(rollups)
			pos[smp.Subject] = i
			rollups = append(rollups, SubjectStats{
				Subject: smp.Subject,
				Highest: smp.Highest,
				Lowest:  smp.Lowest,
			})
		}
		st := &rollups[i]
		st.Average = IncrementalAverage(st.Average, st.ExamCount, smp.Average)
		st.ExamCount++
		st.Participants += smp.Participants
		st.Passed += smp.Passed
		if smp.Highest > st.Highest {
			st.Highest = smp.Highest
		}
		if smp.Lowest < st.Lowest {
			st.Lowest = smp.Lowest
		}
	}
	for i := range rollups {
		st := &rollups[i]
		st.Grade = GradeFor(st.Average)
		st.PassRate = rate(st.Passed, st.Participants)
	}
	return rollups
}

type GradeCount struct {
	Grade Grade `json:"grade"`
	Count int   `json:"count"`
}

type ClassStats struct {
	StudentCount      int          `json:"student_count"`
	StudentsWithData  int          `json:"students_with_data"`
	AveragePercentage float64      `json:"average_percentage"`
	AverageMarks      float64      `json:"average_marks"`
	PassRate          float64      `json:"pass_rate"`
	Highest           float64      `json:"highest"`
	Lowest            float64      `json:"lowest"`
	TopStudentID      int          `json:"top_student_id,omitempty"`
	Distribution      []GradeCount `json:"distribution"`
}

// ClassSummary rolls a class's performance up. Students without any result are counted in
// StudentCount only.
func ClassSummary(perf []PerformanceData, passMark float64) ClassStats {
	stats := ClassStats{StudentCount: len(perf)}
	counts := make(map[Grade]int, len(Grades))

	var sumPct, sumMarks float64
	var passes int
	for _, p := range perf {
		if !p.HasData() {
			continue
		}
		if stats.StudentsWithData == 0 || p.AveragePercentage > stats.Highest {
			stats.Highest = p.AveragePercentage
			stats.TopStudentID = p.StudentID
		}
		if stats.StudentsWithData == 0 || p.AveragePercentage < stats.Lowest {
			stats.Lowest = p.AveragePercentage
		}
		stats.StudentsWithData++
		sumPct += p.AveragePercentage
		sumMarks += p.AverageMarks
		if p.AveragePercentage >= passMark {
			passes++
		}
		counts[p.Grade]++
	}
	if stats.StudentsWithData > 0 {
		stats.AveragePercentage = sumPct / float64(stats.StudentsWithData)
		stats.AverageMarks = sumMarks / float64(stats.StudentsWithData)
	}
	stats.PassRate = rate(passes, stats.StudentsWithData)

	stats.Distribution = make([]GradeCount, 0, len(Grades))
	for _, g := range Grades {
		stats.Distribution = append(stats.Distribution, GradeCount{Grade: g, Count: counts[g]})
	}
	return stats
}

func rate(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
