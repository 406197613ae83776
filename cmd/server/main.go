package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/config"
	"github.com/stemsi/admission-backend/internal/database"
	"github.com/stemsi/admission-backend/internal/handler"
	"github.com/stemsi/admission-backend/internal/logger"
	"github.com/stemsi/admission-backend/internal/metrics"
	"github.com/stemsi/admission-backend/internal/middleware"
	"github.com/stemsi/admission-backend/internal/repository"
	"github.com/stemsi/admission-backend/internal/router"
	"github.com/stemsi/admission-backend/internal/service"
	"github.com/stemsi/admission-backend/internal/validator"
	"github.com/stemsi/admission-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Bool("validate_first", cfg.SubmissionValidateFirst).
		Msg("Starting Admission Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Metrics ───────────────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	applicationRepo := repository.NewApplicationRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	catalogRepos := service.CatalogRepos{
		Universities:  repository.NewUniversityRepository(pool),
		Majors:        repository.NewMajorRepository(pool),
		Methods:       repository.NewAdmissionMethodRepository(pool),
		SubjectGroups: repository.NewSubjectGroupRepository(pool),
		Links:         repository.NewEligibilityLinkRepository(pool),
		Activity:      repository.NewCatalogActivityRepository(pool),
	}

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, userRepo, rdb)
	catalogService := service.NewCatalogService(catalogRepos, rdb, log)
	emailService := service.NewEmailService(rdb)
	notificationService := service.NewNotificationService(notificationRepo, rdb, log)
	dispatcher := service.NewDispatcher(emailService, notificationService, cfg.AppBaseURL, log, m)
	profileService := service.NewProfileService(profileRepo)
	eligibilityService := service.NewEligibilityService(
		catalogRepos.Universities,
		catalogRepos.Majors,
		catalogRepos.Methods,
		catalogRepos.SubjectGroups,
		catalogRepos.Links,
		m,
	)
	submissionService := service.NewSubmissionService(
		profileService,
		eligibilityService,
		applicationRepo,
		documentRepo,
		dispatcher,
		m,
		log,
		cfg.SubmissionValidateFirst,
	)
	applicationService := service.NewApplicationService(applicationRepo, dispatcher, log)
	documentService := service.NewDocumentService(cfg, documentRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:             handler.NewAuthHandler(authService, log),
		Catalog:          handler.NewCatalogHandler(catalogService, log),
		Application:      handler.NewApplicationHandler(submissionService, applicationService, log),
		AdminApplication: handler.NewAdminApplicationHandler(applicationService, log),
		Document:         handler.NewDocumentHandler(documentService, log),
		Profile:          handler.NewProfileHandler(profileService, log),
		Notification:     handler.NewNotificationHandler(notificationService, log),
		WS:               handler.NewWSHandler(rdb, notificationService, log, cfg.AllowedOrigins),
		Health:           handler.NewHealthHandler(pool, rdb, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	emailWorker := worker.NewEmailWorker(rdb, worker.NewSMTPMailer(cfg.SMTP), log)
	workers.Add(1)
	go func() {
		defer workers.Done()
		emailWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	submitLimiter := middleware.NewRateLimiter(cfg.SubmitRatePerMinute, time.Minute)
	defer submitLimiter.Stop()

	r := router.SetupRouter(handlers, router.Deps{
		Auth:          authService,
		Metrics:       m,
		SubmitLimiter: submitLimiter,
		Log:           log,
	}, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Let in-flight notifications reach Redis before the pools close.
	dispatcher.Wait()

	// 3. Stop the email worker.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
