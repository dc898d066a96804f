// Package app assembles the services shared by the API server and the terminal UI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/aion/internal/backup"
	"github.com/MrJamesThe3rd/aion/internal/card"
	cardStore "github.com/MrJamesThe3rd/aion/internal/card/store"
	"github.com/MrJamesThe3rd/aion/internal/category"
	categoryStore "github.com/MrJamesThe3rd/aion/internal/category/store"
	"github.com/MrJamesThe3rd/aion/internal/config"
	"github.com/MrJamesThe3rd/aion/internal/database"
	"github.com/MrJamesThe3rd/aion/internal/goal"
	goalStore "github.com/MrJamesThe3rd/aion/internal/goal/store"
	"github.com/MrJamesThe3rd/aion/internal/localstore"
	"github.com/MrJamesThe3rd/aion/internal/report"
	"github.com/MrJamesThe3rd/aion/internal/settings"
	settingsStore "github.com/MrJamesThe3rd/aion/internal/settings/store"
	"github.com/MrJamesThe3rd/aion/internal/summary"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
	txStore "github.com/MrJamesThe3rd/aion/internal/transaction/store"
)

type Repositories struct {
	Transactions transaction.Repository
	Cards        card.Repository
	Goals        goal.Repository
	Categories   category.Repository
	Settings     settings.Repository
}

func LocalRepositories(s *localstore.Store) Repositories {
	return Repositories{
		Transactions: s,
		Cards:        s,
		Goals:        s,
		Categories:   s,
		Settings:     s,
	}
}

func PostgresRepositories(db *sql.DB) Repositories {
	return Repositories{
		Transactions: txStore.New(db),
		Cards:        cardStore.New(db),
		Goals:        goalStore.New(db),
		Categories:   categoryStore.New(db),
		Settings:     settingsStore.New(db),
	}
}

type Services struct {
	Transactions *transaction.Service
	Cards        *card.Service
	Goals        *goal.Service
	Categories   *category.Service
	Settings     *settings.Service
	Summary      *summary.Service
	Backup       *backup.Service
	Reports      *report.Service
}

func NewServices(repos Repositories, opts ...transaction.Option) *Services {
	txs := transaction.NewService(repos.Transactions, opts...)

	s := &Services{
		Transactions: txs,
		Cards:        card.NewService(repos.Cards),
		Goals:        goal.NewService(repos.Goals, txs, goal.WithClock(txs.Now)),
		Categories:   category.NewService(repos.Categories),
		Settings:     settings.NewService(repos.Settings),
	}

	s.Summary = summary.NewService(txs, s.Cards, txs.Now().Location())
	s.Backup = backup.NewService(txs, s.Cards, s.Goals, s.Categories, s.Settings)
	s.Reports = report.NewService(txs, s.Settings)

	return s
}

// Open connects the storage selected in cfg and builds the services on top of it.
// The returned function releases the storage.
func Open(ctx context.Context, cfg *config.Config, loc *time.Location) (*Services, func() error, error) {
	log := zerolog.Ctx(ctx)

	opts := []transaction.Option{
		transaction.WithClock(func() time.Time { return time.Now().In(loc) }),
		transaction.WithRecurrenceMonths(cfg.Ledger.RecurrenceMonths),
	}

	switch cfg.Store.Driver {
	case config.DriverFile:
		s, err := localstore.Open(ctx, cfg.Store.Path, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("opening local store: %w", err)
		}

		log.Info().Str("path", cfg.Store.Path).Msg("using file store")

		return NewServices(LocalRepositories(s), opts...), func() error { return nil }, nil
	default:
		db, err := database.New(ctx, cfg.ConnectionString())
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}

		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrating database: %w", err)
		}

		log.Info().Str("host", cfg.DB.Host).Str("database", cfg.DB.Name).Msg("using postgres store")

		return NewServices(PostgresRepositories(db), opts...), db.Close, nil
	}
}
