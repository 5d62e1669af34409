package exportsvc

import (
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
)

// ReadResults reads exam results from the first sheet of an XLSX workbook.
// The first row is a header naming the columns student_id, marks_obtained and percentage
// (in any order; remarks is optional). Blank rows are skipped. Every row is validated;
// the returned error is a *core.ValidationError listing the invalid rows.
func ReadResults(r io.Reader, validate *validator.Validate) ([]school.NewExamResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, core.NewValidationError(errors.New("workbook has no sheet"))
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, core.NewValidationError(errors.New("sheet is empty"))
	}

	cols := make(map[string]int)
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"student_id", "marks_obtained", "percentage"} {
		if _, ok := cols[required]; !ok {
			return nil, core.NewValidationError(nil, core.FieldError{Field: required, Error: "column is missing"})
		}
	}

	var (
		results []school.NewExamResult
		fldErrs []core.FieldError
	)
	for i, row := range rows[1:] {
		line := "row " + strconv.Itoa(i+2)
		if blank(row) {
			continue
		}
		res, err := parseResult(row, cols)
		if err == nil {
			err = res.Validate(validate)
		}
		if err != nil {
			fldErrs = append(fldErrs, core.FieldError{Field: line, Error: err.Error()})
			continue
		}
		results = append(results, res)
	}
	if len(fldErrs) > 0 {
		return nil, core.NewValidationError(nil, fldErrs...)
	}
	return results, nil
}

func parseResult(row []string, cols map[string]int) (school.NewExamResult, error) {
	var (
		res school.NewExamResult
		err error
	)
	if res.StudentID, err = strconv.Atoi(cell(row, cols, "student_id")); err != nil {
		return res, errors.New("student_id must be an integer")
	}
	if res.MarksObtained, err = strconv.ParseFloat(cell(row, cols, "marks_obtained"), 64); err != nil {
		return res, errors.New("marks_obtained must be a number")
	}
	if res.Percentage, err = strconv.ParseFloat(cell(row, cols, "percentage"), 64); err != nil {
		return res, errors.New("percentage must be a number")
	}
	res.Remarks = cell(row, cols, "remarks")
	return res, nil
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
