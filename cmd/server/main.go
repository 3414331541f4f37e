package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/sowmensarker/ambika/internal/config"
	"github.com/sowmensarker/ambika/internal/repository"
	"github.com/sowmensarker/ambika/internal/repository/idempotency"
	"github.com/sowmensarker/ambika/internal/repository/memory"
	"github.com/sowmensarker/ambika/internal/repository/mongodb"
	"github.com/sowmensarker/ambika/internal/repository/sheets"
	"github.com/sowmensarker/ambika/internal/scheduler"
	"github.com/sowmensarker/ambika/internal/server/handlers"
	"github.com/sowmensarker/ambika/internal/server/router"
	"github.com/sowmensarker/ambika/internal/service/activity"
	"github.com/sowmensarker/ambika/internal/service/daterange"
	expensesvc "github.com/sowmensarker/ambika/internal/service/expenses"
	inventorysvc "github.com/sowmensarker/ambika/internal/service/inventory"
	reportingsvc "github.com/sowmensarker/ambika/internal/service/reporting"
	salesvc "github.com/sowmensarker/ambika/internal/service/sales"
	usersvc "github.com/sowmensarker/ambika/internal/service/users"
	"github.com/sowmensarker/ambika/pkg/clients/identity"
	whatsappclient "github.com/sowmensarker/ambika/pkg/clients/whatsapp"
	"github.com/sowmensarker/ambika/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Location()
	if err != nil {
		baseLogger.Fatal("failed to load shop timezone", zap.Error(err))
	}
	clock := daterange.NewClock(loc)

	store, err := openStore(context.Background(), cfg.Store, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init record store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close record store", zap.Error(err))
		}
	}()

	var mirror activity.Mirror
	if cfg.Sheets.Enabled() {
		sheetClient, err := sheets.NewGoogleSheetClient(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets client", zap.Error(err))
		}
		mirror = sheets.NewLedgerMirror(sheetClient, cfg.Sheets.LedgerRange)
		baseLogger.Info("activity ledger mirrored to google sheets", zap.String("range", cfg.Sheets.LedgerRange))
	}

	recorder := activity.NewRecorder(store, mirror, clock, logger.Named(baseLogger, "svc.activity"))
	inventory := inventorysvc.NewService(store, store, recorder, clock, cfg.Shop.LowStockThreshold, logger.Named(baseLogger, "svc.inventory"))
	reporting := reportingsvc.NewService(store, inventory, clock, logger.Named(baseLogger, "svc.reporting"))

	handler := handlers.New(handlers.Services{
		Products:   inventory,
		Sales:      salesvc.NewService(store, recorder, clock, cfg.Shop.PhoneRegion, logger.Named(baseLogger, "svc.sales")),
		Expenses:   expensesvc.NewService(store, recorder, clock, logger.Named(baseLogger, "svc.expenses")),
		Activities: recorder,
		Reports:    reporting,
		Users:      usersvc.NewService(store, logger.Named(baseLogger, "svc.users")),
	}, logger.Named(baseLogger, "handlers"))

	idem, err := openIdempotency(context.Background(), cfg.Idempotency, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init idempotency store", zap.Error(err))
	}
	defer func() { _ = idem.Close() }()

	var auth handlers.Authenticator = handlers.HeaderAuthenticator{}
	if cfg.Identity.APIKey != "" {
		auth = handlers.NewTokenAuthenticator(identity.NewClient(cfg.Identity))
	} else {
		baseLogger.Warn("IDENTITY_API_KEY missing, trusting X-User-* headers")
	}

	engine := router.New(handler, router.Options{
		Auth:           auth,
		Idempotency:    idem,
		IdempotencyTTL: cfg.Idempotency.TTL,
	}, logger.Named(baseLogger, "router"))

	// A nil interface disables the weekly job; never pass a typed nil here.
	var notifier scheduler.Notifier
	if cfg.WhatsApp.Enabled() {
		notifier = whatsappclient.NewNotifier(whatsappclient.NewClient(cfg.WhatsApp), cfg.WhatsApp.ReportTo)
		baseLogger.Info("weekly whatsapp report enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, weekly report disabled")
	}

	sched := scheduler.NewScheduler(cfg.Reporting, loc, reporting, notifier, logger.Named(baseLogger, "scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (repository.Store, error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn("using in-memory store, data is lost on restart")
		return memory.New(), nil
	}
	log.Info("connecting to mongodb", zap.String("db", cfg.DBName))
	return mongodb.NewMongoDBRepository(ctx, cfg.URI, cfg.DBName)
}

func openIdempotency(ctx context.Context, cfg config.IdempotencyConfig, log *zap.Logger) (idempotency.Store, error) {
	if cfg.RedisAddr == "" {
		log.Info("idempotency keys kept in process")
		return idempotency.NewMemoryStore(), nil
	}
	log.Info("idempotency keys kept in redis", zap.String("addr", cfg.RedisAddr))
	return idempotency.NewRedisStore(ctx, idempotency.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}
