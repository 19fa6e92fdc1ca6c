// Package app wires the services shared by the API server and the terminal client.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/spendwise/internal/attachment"
	"github.com/MrJamesThe3rd/spendwise/internal/config"
	"github.com/MrJamesThe3rd/spendwise/internal/database"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/expense/memory"
	"github.com/MrJamesThe3rd/spendwise/internal/expense/store"
	"github.com/MrJamesThe3rd/spendwise/internal/export"
	"github.com/MrJamesThe3rd/spendwise/internal/extraction"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
)

type App struct {
	Expenses    *expense.Service
	Attachments *attachment.Store
	Formatter   *money.Formatter
	Extraction  *extraction.Service
	Export      *export.Service

	db *sql.DB
}

// New builds the services described by cfg. An unconfigured extraction provider is not an error here;
// it fails on first use.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{
		Attachments: attachment.NewStore(),
		Formatter:   money.NewFormatter(cfg.Display.CurrencySymbol),
	}

	var repo expense.Repository

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := database.New(ctx, cfg.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}

		a.db = db
		repo = store.New(db)
	default:
		repo = memory.New()
	}

	a.Expenses = expense.NewService(repo, expense.WithLatency(expense.Latency{
		Add:    cfg.Store.AddLatency,
		Update: cfg.Store.UpdateLatency,
		Delete: cfg.Store.DeleteLatency,
	}))

	extractor, provider, err := extraction.New(cfg.Extraction)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Extraction = extraction.NewService(extractor, provider)
	a.Export = export.NewService(a.Expenses, a.Attachments, a.Formatter)

	slog.Info("services ready", "backend", cfg.Store.Backend, "provider", provider)

	return a, nil
}

func (a *App) Close() {
	if a.db == nil {
		return
	}

	if err := a.db.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}
