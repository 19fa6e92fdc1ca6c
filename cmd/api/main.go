package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/spendwise/internal/app"
	"github.com/MrJamesThe3rd/spendwise/internal/config"
	spendwiseHttp "github.com/MrJamesThe3rd/spendwise/internal/http"
	analyticsHandler "github.com/MrJamesThe3rd/spendwise/internal/http/analytics"
	attachmentHandler "github.com/MrJamesThe3rd/spendwise/internal/http/attachment"
	expenseHandler "github.com/MrJamesThe3rd/spendwise/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/spendwise/internal/http/export"
	extractHandler "github.com/MrJamesThe3rd/spendwise/internal/http/extract"
	importHandler "github.com/MrJamesThe3rd/spendwise/internal/http/importcsv"
	metaHandler "github.com/MrJamesThe3rd/spendwise/internal/http/meta"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start services", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	router := spendwiseHttp.New(spendwiseHttp.Handlers{
		Expenses:    expenseHandler.NewHandler(a.Expenses, a.Attachments, a.Formatter),
		Export:      exportHandler.NewHandler(a.Export),
		Import:      importHandler.NewHandler(a.Export),
		Analytics:   analyticsHandler.NewHandler(a.Expenses, a.Formatter, time.Now),
		Extract:     extractHandler.NewHandler(a.Extraction),
		Attachments: attachmentHandler.NewHandler(a.Attachments),
		Meta:        metaHandler.NewHandler(a.Expenses, a.Extraction.Provider()),
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           http.TimeoutHandler(router, cfg.Server.Timeout, "request timed out"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		slog.Info("shutting down server")

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
