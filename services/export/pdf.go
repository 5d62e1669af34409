package exportsvc

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/dashboard"
)

var nowFunc = time.Now // mockable

type pdfColumn struct {
	title string
	width float64
	align string
}

var pdfColumns = []pdfColumn{
	{"Rank", 12, "C"},
	{"Name", 50, "L"},
	{"Adm No", 25, "L"},
	{"Exams", 14, "C"},
	{"Avg %", 18, "R"},
	{"Grade", 14, "C"},
	{"Attend %", 20, "R"},
	{"Trend", 17, "C"},
}

// WriteReportPDF renders a printable A4 class report: the ranked table followed by the subject breakdown.
func WriteReportPDF(w io.Writer, perf dashboard.PerformanceView, subjects dashboard.SubjectView) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(nowFunc())
	pdf.SetTitle(perf.Class.Name+" performance", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	title := perf.Class.Name
	if perf.Class.SectionName != "" {
		title += " / " + perf.Class.SectionName
	}
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, tr(fmt.Sprintf("Academic year %s - class average %.2f%% - pass rate %.1f%%",
		perf.Class.AcademicYear, perf.Summary.AveragePercentage, perf.Summary.PassRate)))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(40, 145, 108)
	pdf.SetTextColor(255, 255, 255)
	for i, col := range pdfColumns {
		ln := 0
		if i == len(pdfColumns)-1 {
			ln = 1
		}
		pdf.CellFormat(col.width, 8, col.title, "1", ln, "C", true, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 9)
	pdf.SetFillColor(245, 245, 245)
	for n, p := range perf.Students {
		cells := []string{
			fmt.Sprint(p.Rank), p.StudentName, p.AdmissionNumber, fmt.Sprint(p.TotalExams),
			fmt.Sprintf("%.2f", p.AveragePercentage), string(p.Grade),
			fmt.Sprintf("%.1f", p.AttendancePercentage), string(p.Trend),
		}
		fill := n%2 == 0
		for i, col := range pdfColumns {
			ln := 0
			if i == len(pdfColumns)-1 {
				ln = 1
			}
			pdf.CellFormat(col.width, 7, tr(cells[i]), "1", ln, col.align, fill, 0, "")
		}
	}
	if len(perf.Students) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 10, "No results recorded for this class yet.")
		pdf.Ln(10)
	}

	if len(subjects.Subjects) > 0 {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 6, "Subjects")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 9)
		for _, s := range subjects.Subjects {
			pdf.Cell(0, 5, tr(fmt.Sprintf("%s: average %.2f%% (%s), %d exam(s), pass rate %.1f%%",
				s.Subject, s.Average, s.Grade, s.ExamCount, s.PassRate)))
			pdf.Ln(5)
		}
	}

	if perf.Omitted > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 8)
		pdf.Cell(0, 5, fmt.Sprintf("%d student(s) not ranked: their results could not be fetched.", perf.Omitted))
		pdf.Ln(5)
	}
	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.Cell(0, 5, fmt.Sprintf("Generated on %s", nowFunc().Format("January 02, 2006 at 3:04 PM")))

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "writing pdf")
	}
	return nil
}
