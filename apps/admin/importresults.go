package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	exportsvc "github.com/trezcool/shule/services/export"
)

func (cli *commandLine) importResults(ctx context.Context, examID int, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening results file")
	}
	defer f.Close()

	results, err := exportsvc.ReadResults(f, cli.validate)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(cli.out, "no results to import")
		return nil
	}

	exam, err := cli.api.Exams.Get(ctx, examID)
	if err != nil {
		return err
	}
	if err := cli.api.Exams.AddResults(ctx, exam.ID, results); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "imported %d result(s) for %s (%s)\n", len(results), exam.Name, exam.Subject)
	return nil
}
