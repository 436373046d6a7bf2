package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"meeting-management-api/internal/config"
	"meeting-management-api/internal/handler"
	"meeting-management-api/internal/logger"
	"meeting-management-api/internal/mail"
	"meeting-management-api/internal/meeting"
	"meeting-management-api/internal/middleware"
	"meeting-management-api/internal/notify"
	"meeting-management-api/internal/store"
	"meeting-management-api/internal/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	slogger, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	// database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	slogger.Info("connected to postgres")

	if err := store.RunMigrations(cfg.DatabaseURL, "db/migrations"); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	slogger.Info("migrations applied")

	st := store.New(pool)

	uploads, err := upload.NewStorage(cfg.UploadDir)
	if err != nil {
		log.Fatalf("uploads: %v", err)
	}

	mailer, err := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, cfg.MailTimeout)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}

	notifier := notify.New(notify.NewTranslator(cfg.DefaultLocale))
	meetings := meeting.NewService(st, mailer, notifier)
	h := handler.New(st, meetings, uploads, mailer, notifier, cfg.JWTSecret)

	rl := middleware.NewRateLimiter(cfg.AuthRateRPS, cfg.AuthRateBurst)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h.Router(slogger, rl),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		slogger.Info("http server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slogger.Error("http server", "err", err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	slogger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slogger.Error("shutdown", "err", err)
	}
}
