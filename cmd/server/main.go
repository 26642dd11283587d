package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	// Embedded zoneinfo so PDF_TIMEZONE resolves on slim images.
	_ "time/tzdata"

	"github.com/diewo77/workshop-quotes/internal/config"
	"github.com/diewo77/workshop-quotes/internal/db"
	"github.com/diewo77/workshop-quotes/internal/handlers"
	"github.com/diewo77/workshop-quotes/internal/notify"
	"github.com/diewo77/workshop-quotes/internal/services"
	"github.com/diewo77/workshop-quotes/internal/storage"
	"github.com/diewo77/workshop-quotes/pdf"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	log := config.NewLogger(cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Open(ctx, cfg.Database, log)
	switch {
	case errors.Is(err, db.ErrNotConfigured):
		// Quote and settings endpoints answer 500 until DATABASE_URL is set.
		log.Warn("DATABASE_URL not set; running without a data store")
	case err != nil:
		log.WithError(err).Fatal("failed to connect to database")
	}

	if *migrateOnlyFlag {
		if dbConn == nil {
			log.Fatal("migrate-only needs DATABASE_URL")
		}
		if err := db.Migrate(dbConn, cfg.Database, true, log); err != nil {
			log.WithError(err).Fatal("migration failed")
		}
		log.Info("migrations completed successfully")
		return
	}

	if dbConn != nil {
		if err := db.Migrate(dbConn, cfg.Database, cfg.App.Migrations, log); err != nil {
			log.WithError(err).Fatal("migration failed")
		}
	}

	bucket, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("failed to set up storage")
	}
	var uploadsDir string
	if local, ok := bucket.(*storage.LocalBucket); ok {
		uploadsDir = local.Dir()
	}
	if closer, ok := bucket.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	renderer, err := pdf.NewRenderer(cfg.App.Timezone)
	if err != nil {
		log.WithError(err).WithField("timezone", cfg.App.Timezone).Warn("unknown PDF_TIMEZONE, using UTC")
		renderer, _ = pdf.NewRenderer("UTC")
	}

	notifier := notify.NewWebhookNotifier(cfg.Webhook)
	if !notifier.Configured() {
		log.Warn("WEBHOOK_URL not set; quotes will be saved without notification")
	}

	app := wire(dbConn, bucket, renderer, notifier, uploadsDir, cfg, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Server.Port, "env": cfg.App.Env}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
	log.Info("server stopped gracefully")
}

// wire builds services and handlers. dbConn may be nil.
func wire(dbConn *gorm.DB, bucket storage.Bucket, renderer *pdf.Renderer, notifier notify.Notifier,
	uploadsDir string, cfg *config.Config, log logrus.FieldLogger) *App {
	quotes := services.NewQuoteService(dbConn, cfg.App.StrictTotals, log)
	settings := services.NewSettingsService(dbConn, bucket, cfg.Settings.RecordID)

	return NewApp(
		handlers.NewQuoteHandler(quotes, notifier, renderer, log),
		handlers.NewSettingsHandler(settings, cfg.Storage.Bucket, log),
		uploadsDir,
		log,
	)
}
