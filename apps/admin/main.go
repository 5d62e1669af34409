package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/dashboard"
	"github.com/trezcool/shule/core/school"
	logsvc "github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/services/schoolapi"
	"github.com/trezcool/shule/storage/tokenstore"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tokens, err := tokenstore.Open(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening token store: %v", err), err)
	}

	client := schoolapi.New(schoolapi.Options{
		BaseURL:   conf.API.BaseURL,
		Timeout:   conf.API.Timeout,
		Tokens:    tokens,
		TokenKey:  conf.Auth.TokenKey,
		Logger:    logger,
		UserAgent: conf.AppName + "-admin/" + conf.Build,
	})
	client.Events().Subscribe(func(ev schoolapi.AuthEvent) {
		if ev.Kind == schoolapi.EventUnauthorized {
			fmt.Fprintln(os.Stderr, `session expired: run "admin login"`)
		}
	})

	validate, translator := core.NewValidator()
	school.InitValidators(validate, translator)

	cli := commandLine{
		api: client,
		dash: dashboard.NewService(schoolapi.NewFetcher(client), logger, dashboard.Options{
			PassMark:        conf.Analytics.PassMark,
			AttendanceAlert: conf.Analytics.AttendanceAlert,
		}),
		validate: validate,
		out:      os.Stdout,
	}
	err = cli.run(ctx, os.Args)
	stop()
	logger.Close()
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
