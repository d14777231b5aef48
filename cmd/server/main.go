package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	adminauth "clinicalgoto/internal/admin/auth"
	adminhandler "clinicalgoto/internal/admin/handler"
	"clinicalgoto/internal/notify"
	"clinicalgoto/internal/platform/config"
	"clinicalgoto/internal/platform/httpserver"
	"clinicalgoto/internal/platform/logger"
	"clinicalgoto/internal/platform/metrics"
	"clinicalgoto/internal/platform/middleware"
	reghandler "clinicalgoto/internal/registrant/handler"
	"clinicalgoto/internal/registrant/service"
	"clinicalgoto/internal/registrant/store"
	httptransport "clinicalgoto/internal/transport/http"
	"clinicalgoto/internal/trials"
	trialshandler "clinicalgoto/internal/trials/handler"
	"clinicalgoto/internal/visitorlog"
)

// main wires dependencies and owns the server lifecycle. Business logic lives
// in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	var (
		registrants store.Store
		db          *sql.DB
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pg := store.NewPostgres(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := pg.EnsureSchema(ctx); err != nil {
			cancel()
			log.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		cancel()
		registrants = pg
		log.Info("using postgres store")
	} else {
		registrants = store.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory store")
	}

	var mailer service.Mailer
	if cfg.EmailConfigured() {
		mailer = notify.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.FromEmail, log)
		log.Info("email notifications enabled", "host", cfg.SMTPHost)
	} else {
		log.Warn("email not configured, welcome emails disabled")
	}

	var visitors visitorlog.Recorder
	if cfg.VisitorLogFile != "" {
		visitors = visitorlog.NewCSV(cfg.VisitorLogFile)
	}

	m := metrics.New()
	searcher := trials.NewClient(cfg.TrialsBaseURL, cfg.TrialsTimeout, log)
	registrations := service.New(registrants, searcher, mailer, visitors, m, log, cfg.TrialsPageSize)

	authService, err := adminauth.NewService(cfg.AdminUsername, cfg.AdminPassword, cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		log.Error("failed to initialize admin auth", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:         log,
		Metrics:        m,
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow),
		RequestTimeout: 30 * time.Second,
		Handlers: []httptransport.Mountable{
			reghandler.New(registrations, log),
			trialshandler.New(searcher, log),
			adminhandler.New(authService, registrations, log),
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting clinicalgoto", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
