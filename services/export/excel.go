// Package exportsvc reads and writes the spreadsheets exchanged with school staff.
package exportsvc

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/shule/core/dashboard"
)

const (
	performanceSheet = "Performance"
	subjectsSheet    = "Subjects"
	summarySheet     = "Summary"
)

var (
	performanceHeader = []interface{}{
		"Rank", "Name", "Admission No", "Exams", "Avg Marks", "Avg %", "Grade", "Attendance %", "Trend",
	}
	subjectsHeader = []interface{}{
		"Subject", "Exams", "Average %", "Grade", "Participants", "Pass Rate %", "Highest %", "Lowest %",
	}
)

// WritePerformance writes a class's ranked performance and subject breakdown as an XLSX workbook.
func WritePerformance(w io.Writer, perf dashboard.PerformanceView, subjects dashboard.SubjectView) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}

	if err := f.SetSheetName("Sheet1", performanceSheet); err != nil {
		return errors.Wrap(err, "renaming sheet")
	}
	rows := make([][]interface{}, 0, len(perf.Students))
	for _, p := range perf.Students {
		rows = append(rows, []interface{}{
			p.Rank, p.StudentName, p.AdmissionNumber, p.TotalExams,
			round2(p.AverageMarks), round2(p.AveragePercentage), string(p.Grade),
			round2(p.AttendancePercentage), string(p.Trend),
		})
	}
	if err := writeTable(f, performanceSheet, bold, performanceHeader, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(subjectsSheet); err != nil {
		return errors.Wrap(err, "creating subjects sheet")
	}
	rows = make([][]interface{}, 0, len(subjects.Subjects))
	for _, s := range subjects.Subjects {
		rows = append(rows, []interface{}{
			s.Subject, s.ExamCount, round2(s.Average), string(s.Grade),
			s.Participants, round2(s.PassRate), round2(s.Highest), round2(s.Lowest),
		})
	}
	if err := writeTable(f, subjectsSheet, bold, subjectsHeader, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return errors.Wrap(err, "creating summary sheet")
	}
	sum := perf.Summary
	rows = [][]interface{}{
		{"Class", perf.Class.Name},
		{"Section", perf.Class.SectionName},
		{"Students", sum.StudentCount},
		{"Students with results", sum.StudentsWithData},
		{"Average %", round2(sum.AveragePercentage)},
		{"Pass rate %", round2(sum.PassRate)},
		{"Not ranked (fetch failed)", perf.Omitted},
	}
	for _, gc := range sum.Distribution {
		rows = append(rows, []interface{}{"Grade " + string(gc.Grade), gc.Count})
	}
	if err := writeTable(f, summarySheet, bold, []interface{}{"Metric", "Value"}, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, headerStyle int, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrapf(err, "writing %s header", sheet)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return errors.Wrapf(err, "styling %s header", sheet)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "writing %s row %d", sheet, i+2)
		}
	}
	return nil
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
