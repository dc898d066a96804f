package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrJamesThe3rd/aion/internal/app"
	"github.com/MrJamesThe3rd/aion/internal/config"
	aionHttp "github.com/MrJamesThe3rd/aion/internal/http"
	backupHandler "github.com/MrJamesThe3rd/aion/internal/http/backup"
	cardHandler "github.com/MrJamesThe3rd/aion/internal/http/card"
	categoryHandler "github.com/MrJamesThe3rd/aion/internal/http/category"
	goalHandler "github.com/MrJamesThe3rd/aion/internal/http/goal"
	reportHandler "github.com/MrJamesThe3rd/aion/internal/http/report"
	settingsHandler "github.com/MrJamesThe3rd/aion/internal/http/settings"
	summaryHandler "github.com/MrJamesThe3rd/aion/internal/http/summary"
	txHandler "github.com/MrJamesThe3rd/aion/internal/http/transaction"
	"github.com/MrJamesThe3rd/aion/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.LogLevel)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid timezone")
	}

	// Dates read back from the database come in the local zone.
	time.Local = loc

	ctx, stop := signal.NotifyContext(logger.WithContext(context.Background(), log), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svcs, closeStore, err := app.Open(ctx, cfg, loc)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer closeStore()

	if n, err := svcs.Transactions.SweepOverdue(ctx); err != nil {
		log.Error().Err(err).Msg("startup overdue sweep failed")
	} else {
		log.Info().Int64("marked", n).Msg("startup overdue sweep")
	}

	var (
		transactionH = txHandler.NewHandler(svcs.Transactions)
		summaryH     = summaryHandler.NewHandler(svcs.Summary)
		cardH        = cardHandler.NewHandler(svcs.Cards)
		goalH        = goalHandler.NewHandler(svcs.Goals, loc)
		categoryH    = categoryHandler.NewHandler(svcs.Categories)
		settingsH    = settingsHandler.NewHandler(svcs.Settings)
		backupH      = backupHandler.NewHandler(svcs.Backup)
		reportH      = reportHandler.NewHandler(svcs.Reports, loc)
	)

	router := aionHttp.New(aionHttp.Handlers{
		Transactions: transactionH,
		Summary:      summaryH,
		Cards:        cardH,
		Goals:        goalH,
		Categories:   categoryH,
		Settings:     settingsH,
		Backup:       backupH,
		Reports:      reportH,
	}, aionHttp.Options{
		Logger:         log,
		AllowedOrigins: cfg.Server.CORSOrigins,
		Timeout:        cfg.Server.Timeout,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("addr", srv.Addr).Str("app", cfg.App.Name).Str("store", string(cfg.Store.Driver)).Msg("starting server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}
