package main

import (
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/sekolahku/absensi/core"
	"github.com/sekolahku/absensi/core/attendance"
	"github.com/sekolahku/absensi/core/roster"
	"github.com/sekolahku/absensi/storage/document"
	sqlxdoc "github.com/sekolahku/absensi/storage/document/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up document store
	var store core.DocumentStore
	if conf.Storage == "postgres" {
		sqlStore, err := sqlxdoc.Open(conf)
		errAndDie(err)
		defer sqlStore.Close()
		store = sqlStore
	} else {
		fsStore, err := document.NewStore(conf.DataDir)
		errAndDie(err)
		store = fsStore
	}

	// set up validators
	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	roster.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)

	rosterSvc := roster.NewService(store)

	// start CLI
	cli := commandLine{
		rosterSvc:     rosterSvc,
		attendanceSvc: attendance.NewService(store, rosterSvc),
		validate:      validate,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
