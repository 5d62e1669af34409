package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/dashboard"
	"github.com/trezcool/shule/core/school"
	exportsvc "github.com/trezcool/shule/services/export"
)

type reportArgs struct {
	classID   int
	sectionID int
	from, to  string
	xlsxPath  string
	pdfPath   string
}

func (cli *commandLine) report(ctx context.Context, args reportArgs) error {
	q := dashboard.Query{ClassID: args.classID, SectionID: args.sectionID}
	if args.from != "" {
		d, err := school.ParseDate(args.from)
		if err != nil {
			return err
		}
		q.From = d.Time
	}
	if args.to != "" {
		d, err := school.ParseDate(args.to)
		if err != nil {
			return err
		}
		q.To = d.Time
	}

	perf, err := cli.dash.ClassPerformance(ctx, q)
	if err != nil {
		return errors.Wrap(err, "class performance")
	}

	title := perf.Class.Name
	if perf.Class.SectionName != "" {
		title += " / " + perf.Class.SectionName
	}
	fmt.Fprintf(cli.out, "%s (%s)\n\n", title, perf.Class.AcademicYear)

	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tADM NO\tEXAMS\tAVG %\tGRADE\tATTEND %\tTREND")
	for _, p := range perf.Students {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.2f\t%s\t%.1f\t%s\n",
			p.Rank, p.StudentName, p.AdmissionNumber, p.TotalExams,
			p.AveragePercentage, p.Grade, p.AttendancePercentage, p.Trend)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "\nclass average %.2f%%, pass rate %.1f%%\n", perf.Summary.AveragePercentage, perf.Summary.PassRate)
	if perf.Omitted > 0 {
		fmt.Fprintf(cli.out, "%d student(s) left out: their results could not be fetched\n", perf.Omitted)
	}

	if args.xlsxPath == "" && args.pdfPath == "" {
		return nil
	}
	subjects, err := cli.dash.SubjectPerformance(ctx, q)
	if err != nil {
		return errors.Wrap(err, "subject performance")
	}
	if args.xlsxPath != "" {
		if err := exportTo(args.xlsxPath, func(w io.Writer) error {
			return exportsvc.WritePerformance(w, perf, subjects)
		}); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "exported to %s\n", args.xlsxPath)
	}
	if args.pdfPath != "" {
		if err := exportTo(args.pdfPath, func(w io.Writer) error {
			return exportsvc.WriteReportPDF(w, perf, subjects)
		}); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "exported to %s\n", args.pdfPath)
	}
	return nil
}

func exportTo(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "closing export file")
}
