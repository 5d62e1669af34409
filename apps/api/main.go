package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/dashboard"
	"github.com/trezcool/shule/core/school"
	logsvc "github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/services/metrics"
	"github.com/trezcool/shule/services/schoolapi"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)
	defer logger.Close()

	appMetrics := metrics.New("shule")

	// the server never stores tokens: each request forwards its caller's bearer token
	client := schoolapi.New(schoolapi.Options{
		BaseURL:   conf.API.BaseURL,
		Timeout:   conf.API.Timeout,
		TokenKey:  conf.Auth.TokenKey,
		Logger:    logger,
		UserAgent: conf.AppName + "/" + conf.Build,

		ResponseInterceptors: []schoolapi.ResponseInterceptor{appMetrics.ObserveBackend},
	})
	unsubscribe := client.Events().Subscribe(func(ev schoolapi.AuthEvent) {
		if ev.Kind == schoolapi.EventUnauthorized {
			logger.Info("records backend rejected a forwarded token", map[string]interface{}{"path": ev.Path})
		}
	})
	defer unsubscribe()

	dashSvc := dashboard.NewService(schoolapi.NewFetcher(client), logger, dashboard.Options{
		PassMark:        conf.Analytics.PassMark,
		AttendanceAlert: conf.Analytics.AttendanceAlert,
	})

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()
	school.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.
	// /metrics - Prometheus exposition of the API and backend counters.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("backend").Set(conf.API.BaseURL)
	http.Handle("/metrics", appMetrics.Handler())

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Dashboard:  dashSvc,
		Validate:   validate,
		Translator: translator,
		Metrics:    appMetrics,
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
