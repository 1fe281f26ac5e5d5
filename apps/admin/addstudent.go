package main

import (
	"fmt"

	"github.com/sekolahku/absensi/core/roster"
)

// addStudent registers a new student on the roster.
func (cli *commandLine) addStudent(fullName, uname, kelas, email, pwd string) error {
	ns := roster.NewStudent{
		FullName:        fullName,
		Username:        uname,
		Kelas:           kelas,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if err := ns.Validate(cli.validate); err != nil {
		return err
	}

	std, err := cli.rosterSvc.Register(ns)
	if err != nil {
		return err
	}
	fmt.Printf("student %q registered with id %s (kelas %s)\n", std.FullName, std.ID, std.Kelas)
	return nil
}
