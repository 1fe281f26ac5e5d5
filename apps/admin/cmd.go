package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/sekolahku/absensi/core/attendance"
	"github.com/sekolahku/absensi/core/roster"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	rosterSvc     roster.ServiceInterface
	attendanceSvc attendance.ServiceInterface
	validate      *validator.Validate
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addstudent -fullname NAME -username USERNAME -kelas KELAS [-email EMAIL] - register a student; the password will be prompted")
	fmt.Println("  genbadges - generate badge payloads for students without one")
	fmt.Println("  report [-date YYYY-MM-DD] [-csv FILE] - print the daily attendance recap")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addStudentCmd := flag.NewFlagSet("addstudent", flag.ExitOnError)
	addStudentFullName := addStudentCmd.String("fullname", "", "The student's full name.")
	addStudentUname := addStudentCmd.String("username", "", "The student's username.")
	addStudentKelas := addStudentCmd.String("kelas", "", "The student's kelas.")
	addStudentEmail := addStudentCmd.String("email", "", "The student's email (optional).")

	reportCmd := flag.NewFlagSet("report", flag.ExitOnError)
	reportDate := reportCmd.String("date", "", "The day to recap, formatted as "+attendance.DateLayout+". Defaults to today.")
	reportCSV := reportCmd.String("csv", "", "Write the recap CSV to this file (optional).")

	switch args[1] {
	case "addstudent":
		if err := addStudentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addStudentFullName == "" || *addStudentUname == "" || *addStudentKelas == "" {
			addStudentCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addStudentCmd.Usage()
			return errHelp
		}
		return cli.addStudent(*addStudentFullName, *addStudentUname, *addStudentKelas, *addStudentEmail, string(pwd))
	case "genbadges":
		n, err := cli.rosterSvc.GenerateBadges()
		if err != nil {
			return err
		}
		fmt.Printf("%d badge(s) generated\n", n)
		return nil
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return err
		}
		date := *reportDate
		if date == "" {
			date = time.Now().UTC().Format(attendance.DateLayout)
		} else if _, err := time.Parse(attendance.DateLayout, date); err != nil {
			reportCmd.Usage()
			return errHelp
		}
		return cli.report(date, *reportCSV)
	default:
		cli.printUsage()
		return errHelp
	}
}
