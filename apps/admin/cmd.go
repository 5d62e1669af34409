package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/shule/core/dashboard"
	"github.com/trezcool/shule/services/schoolapi"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	api      *schoolapi.Client
	dash     *dashboard.Service
	validate *validator.Validate
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -username USERNAME - log in; the password is prompted next")
	fmt.Fprintln(cli.out, "  logout - end the session")
	fmt.Fprintln(cli.out, "  whoami - show the logged in account")
	fmt.Fprintln(cli.out, "  report -class ID [-section ID] [-from DATE] [-to DATE] [-xlsx FILE] [-pdf FILE] - ranked class performance")
	fmt.Fprintln(cli.out, "  import-results -exam ID -file FILE - upload exam results from an XLSX sheet")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := cli.newFlagSet("login")
	loginUname := loginCmd.String("username", "", "The account's username. The password will be prompted next.")

	reportCmd := cli.newFlagSet("report")
	reportClass := reportCmd.Int("class", 0, "The class ID.")
	reportSection := reportCmd.Int("section", 0, "Restrict the report to one section of the class.")
	reportFrom := reportCmd.String("from", "", "Attendance window start (YYYY-MM-DD).")
	reportTo := reportCmd.String("to", "", "Attendance window end (YYYY-MM-DD).")
	reportXLSX := reportCmd.String("xlsx", "", "Also export the report to this XLSX file.")
	reportPDF := reportCmd.String("pdf", "", "Also render the report to this PDF file.")

	importCmd := cli.newFlagSet("import-results")
	importExam := importCmd.Int("exam", 0, "The exam ID.")
	importFile := importCmd.String("file", "", "XLSX file with student_id, marks_obtained and percentage columns.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginUname == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(ctx, *loginUname, string(pwd))
	case "logout":
		return cli.logout(ctx)
	case "whoami":
		return cli.whoami(ctx)
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *reportClass <= 0 {
			reportCmd.Usage()
			return errHelp
		}
		return cli.report(ctx, reportArgs{
			classID:   *reportClass,
			sectionID: *reportSection,
			from:      *reportFrom,
			to:        *reportTo,
			xlsxPath:  *reportXLSX,
			pdfPath:   *reportPDF,
		})
	case "import-results":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importExam <= 0 || *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importResults(ctx, *importExam, *importFile)
	default:
		cli.printUsage()
		return errHelp
	}
}
