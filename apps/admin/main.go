package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/academia/tuition/core"
	"github.com/academia/tuition/core/schoolyear"
	emailsvc "github.com/academia/tuition/services/email"
	logsvc "github.com/academia/tuition/services/logger"
	"github.com/academia/tuition/storage/database"
	sqlxrepos "github.com/academia/tuition/storage/database/sqlx"
)

const dbOpenTimeout = 30 * time.Second

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	ctx, cancel := context.WithTimeout(context.Background(), dbOpenTimeout)
	db, err := database.Open(ctx, conf)
	cancel()
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	validate := validator.New()
	uni := ut.New(en.New())
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		db:         db.DB,
		yearSvc:    schoolyear.NewService(sqlxrepos.NewSchoolYearRepository(db), emailsvc.NewConsoleService(conf, logger), conf),
		validate:   validate,
		translator: translator,
		out:        os.Stdout,
	}
	err = cli.run(os.Args)
	if cErr := db.Close(); cErr != nil {
		logger.Error(fmt.Sprintf("closing database: %v", cErr), cErr)
	}
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", cli.describeError(err))
		}
		os.Exit(1)
	}
}
