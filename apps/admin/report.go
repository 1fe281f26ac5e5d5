package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/sekolahku/absensi/core/attendance"
)

// report prints the daily recap and optionally writes the CSV next to it.
func (cli *commandLine) report(date, csvPath string) error {
	recs, err := cli.attendanceSvc.RecordsForDate(date)
	if err != nil {
		return err
	}
	st, err := cli.attendanceSvc.Stats(date)
	if err != nil {
		return err
	}

	fmt.Print(attendance.FormatRecap(date, recs, st))

	if csvPath != "" {
		buf, err := attendance.RecapCSV(recs)
		if err != nil {
			return err
		}
		if err := os.WriteFile(csvPath, buf.Bytes(), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", csvPath)
		}
		fmt.Printf("recap CSV written to %s\n", csvPath)
	}
	return nil
}
