package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"lendingapi/internal/application"
	"lendingapi/internal/auth"
	"lendingapi/internal/config"
	"lendingapi/internal/httpx"
	"lendingapi/internal/news"
	"lendingapi/internal/notification"
	"lendingapi/internal/partner"
	"lendingapi/internal/session"
	"lendingapi/internal/smtpconfig"
	"lendingapi/internal/testimonial"
	"lendingapi/internal/user"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Println("JWT_SECRET not set; Authorization: Bearer is disabled")
	}

	dbPool := mustOpenDB(cfg.DatabaseDSN)
	defer dbPool.Close()

	dbTimeout := cfg.DBTimeout()

	userService := user.NewService(user.NewPostgresRepo(dbPool, dbTimeout))
	sessionService := session.NewService(session.NewPostgresRepo(dbPool, dbTimeout), cfg.SessionTTL())
	authService := auth.NewService(userService, sessionService, cfg.JWTSecret)
	guard := auth.NewGuard(sessionService, cfg.JWTSecret)

	smtpService := smtpconfig.NewService(smtpconfig.NewPostgresRepo(dbPool, dbTimeout))
	dispatcher, err := notification.New(notification.Config{
		Driver:   cfg.MailDriver,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
		SMTP: notification.SMTPSettings{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			UseTLS:   cfg.SMTPPort == 465,
		},
		AWSRegion: cfg.AWSRegion,
	}, smtpService)
	if err != nil {
		log.Fatalf("mail: %v", err)
	}
	notifier := notification.NewStatusNotifier(dispatcher, cfg.MailTimeout(), cfg.MailFromName)

	workflow := application.NewWorkflow(application.UnknownStatusPolicy(cfg.WorkflowUnknownStatus))
	applicationService := application.NewService(application.NewPostgresRepo(dbPool, dbTimeout), workflow, notifier)

	h := handlers{
		auth:         auth.NewHTTPHandler(authService, cfg.SecureCookies()),
		sessions:     session.NewHTTPHandler(sessionService),
		applications: application.NewHTTPHandler(applicationService),
		news:         news.NewHTTPHandler(news.NewService(news.NewPostgresRepo(dbPool, dbTimeout))),
		testimonials: testimonial.NewHTTPHandler(testimonial.NewService(testimonial.NewPostgresRepo(dbPool, dbTimeout))),
		partners:     partner.NewHTTPHandler(partner.NewService(partner.NewPostgresRepo(dbPool, dbTimeout))),
		smtp:         smtpconfig.NewHTTPHandler(smtpService, notifier, cfg.AdminURL),
	}

	rateLimiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	router := newRouter(h, guard.Middleware, rateLimiter.Middleware, dbPool.Ping)

	trustedProxies, err := httpx.ParseTrustedProxies(cfg.TrustedProxies())
	if err != nil {
		log.Fatalf("config: TRUSTED_PROXIES: %v", err)
	}

	handler := httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.ClientIPMiddleware(trustedProxies),
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.AllowedOrigins()),
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go session.NewSweeper(sessionService, cfg.SessionCleanupInterval()).Run(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10*time.Second + cfg.MailTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s env=%s mail_driver=%s", cfg.Addr, cfg.Env, cfg.MailDriver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
	if err := applicationService.Wait(shutdownCtx); err != nil {
		log.Printf("pending confirmation emails abandoned: %v", err)
	}
	log.Println("server stopped")
}

func mustOpenDB(dsn string) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot create db pool: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Fatalf("cannot ping database (%s): %v", redactDSN(dsn), err)
	}
	log.Println("database connection OK")
	return pool
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
