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
	"github.com/robfig/cron/v3"

	"github.com/MrJamesThe3rd/vault/internal/advisor/backend"
	"github.com/MrJamesThe3rd/vault/internal/advisor/llm"
	"github.com/MrJamesThe3rd/vault/internal/auth"
	"github.com/MrJamesThe3rd/vault/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/vault/internal/budget/store"
	"github.com/MrJamesThe3rd/vault/internal/category"
	categoryStore "github.com/MrJamesThe3rd/vault/internal/category/store"
	"github.com/MrJamesThe3rd/vault/internal/config"
	"github.com/MrJamesThe3rd/vault/internal/database"
	"github.com/MrJamesThe3rd/vault/internal/events"
	"github.com/MrJamesThe3rd/vault/internal/export"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	goalStore "github.com/MrJamesThe3rd/vault/internal/goal/store"
	vaultHttp "github.com/MrJamesThe3rd/vault/internal/http"
	advisorHandler "github.com/MrJamesThe3rd/vault/internal/http/advisor"
	budgetHandler "github.com/MrJamesThe3rd/vault/internal/http/budget"
	categoryHandler "github.com/MrJamesThe3rd/vault/internal/http/category"
	dashboardHandler "github.com/MrJamesThe3rd/vault/internal/http/dashboard"
	exportHandler "github.com/MrJamesThe3rd/vault/internal/http/export"
	goalHandler "github.com/MrJamesThe3rd/vault/internal/http/goal"
	importHandler "github.com/MrJamesThe3rd/vault/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/vault/internal/http/matching"
	planHandler "github.com/MrJamesThe3rd/vault/internal/http/plan"
	profileHandler "github.com/MrJamesThe3rd/vault/internal/http/profile"
	txHandler "github.com/MrJamesThe3rd/vault/internal/http/transaction"
	"github.com/MrJamesThe3rd/vault/internal/importer"
	"github.com/MrJamesThe3rd/vault/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/vault/internal/matching/store"
	"github.com/MrJamesThe3rd/vault/internal/plan"
	planStore "github.com/MrJamesThe3rd/vault/internal/plan/store"
	"github.com/MrJamesThe3rd/vault/internal/profile"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
	txStore "github.com/MrJamesThe3rd/vault/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.App.LogFormat)

	if cfg.Auth.Secret == "" {
		slog.Error("failed to start", "error", auth.ErrNoSecret)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	publisher := newPublisher(cfg)
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		categoryService    = category.NewService(categoryStore.New(db))
		transactionService = transaction.NewService(txStore.New(db), categoryService)
		goalService        = goal.NewService(goalStore.New(db), publisher)
		planRepo           = planStore.New(db)
		planService        = plan.NewService(planRepo, goalService)
		budgetService      = budget.NewService(budgetStore.New(db), categoryService, transactionService)
		matchingService    = matching.NewService(matchingStore.New(db))
		importService      = importer.NewService(nil, matchingService)
		profileService     = profile.NewService(transactionService, goalService)
		exportService      = export.NewService(transactionService, goalService)
		advisorBackend     = backend.New(newModel(cfg))
	)

	scheduler := startScheduler(ctx, cfg, plan.NewRunner(planRepo, publisher))
	if scheduler != nil {
		defer scheduler.Stop()
	}

	tokens := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	router := vaultHttp.New(tokens, cfg.CORS.AllowedOrigins, vaultHttp.Handlers{
		Profile:      profileHandler.NewHandler(profileService),
		Goals:        goalHandler.NewHandler(goalService),
		Transactions: txHandler.NewHandler(transactionService),
		Import:       importHandler.NewHandler(importService, transactionService),
		Categories:   categoryHandler.NewHandler(categoryService),
		Matching:     matchingHandler.NewHandler(matchingService),
		Plans:        planHandler.NewHandler(planService),
		Budgets:      budgetHandler.NewHandler(budgetService),
		Dashboard:    dashboardHandler.NewHandler(transactionService, goalService, budgetService),
		Export:       exportHandler.NewHandler(exportService),
		Advisor:      advisorHandler.NewHandler(advisorBackend),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      max(cfg.Server.Timeout, cfg.AI.Timeout+5*time.Second),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("starting server", "name", cfg.App.Name, "addr", server.Addr)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func setupLogger(format string) {
	if format != "json" {
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

// newPublisher connects to the broker when configured and falls back to dropping events.
func newPublisher(cfg *config.Config) events.Publisher {
	if cfg.AMQP.URL == "" {
		slog.Info("AMQP disabled, domain events will not be published")
		return events.Noop{}
	}

	p, err := events.NewAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
	if err != nil {
		slog.Warn("failed to connect to AMQP, continuing without events", "error", err)
		return events.Noop{}
	}

	return p
}

// newModel returns nil when no API key is set so the advisor reports itself as not configured.
func newModel(cfg *config.Config) backend.Model {
	if cfg.AI.APIKey == "" {
		slog.Warn("AI_API_KEY is not set, advisor requests will fail")
		return nil
	}

	return llm.New(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
}

func startScheduler(ctx context.Context, cfg *config.Config, runner *plan.Runner) *cron.Cron {
	if !cfg.Scheduler.Enabled {
		slog.Info("plan scheduler disabled")
		return nil
	}

	if n, err := runner.RunDue(ctx, goal.Today()); err != nil {
		slog.Error("initial plan run failed", "error", err)
	} else {
		slog.Info("initial plan run complete", "executed", n)
	}

	c := cron.New()
	if _, err := runner.Schedule(ctx, c, cfg.Scheduler.Spec); err != nil {
		slog.Error("failed to schedule plan runner", "error", err)
		return nil
	}

	c.Start()
	slog.Info("plan scheduler started", "spec", cfg.Scheduler.Spec)

	return c
}
