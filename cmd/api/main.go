package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roofing_crm_backend/internal/adapters/storage"
	"roofing_crm_backend/internal/auth"
	"roofing_crm_backend/internal/email"
	"roofing_crm_backend/internal/events"
	apphttp "roofing_crm_backend/internal/http"
	"roofing_crm_backend/internal/http/router"
	"roofing_crm_backend/internal/insights"
	"roofing_crm_backend/internal/leads"
	"roofing_crm_backend/internal/leads/ports"
	"roofing_crm_backend/internal/leads/repository"
	"roofing_crm_backend/internal/maps"
	"roofing_crm_backend/internal/notification"
	"roofing_crm_backend/internal/scheduler"
	"roofing_crm_backend/internal/seed"
	"roofing_crm_backend/internal/team"
	teamrepo "roofing_crm_backend/internal/team/repository"
	"roofing_crm_backend/platform/ai/gemini"
	"roofing_crm_backend/platform/config"
	"roofing_crm_backend/platform/logger"
	"roofing_crm_backend/platform/validator"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	data, err := seed.Load(cfg.GetSeedFile(), 0)
	if err != nil {
		log.Error("failed to load seed data", "error", err)
		panic("failed to load seed data: " + err.Error())
	}
	log.Info("seed data loaded", "members", len(data.Members), "leads", len(data.Leads), "events", len(data.Events))

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	photos := initPhotoStore(ctx, cfg, log)

	aiClient, err := gemini.New(ctx, cfg.GetGeminiAPIKey())
	if err != nil {
		// A nil client answers every call with gemini.ErrNotConfigured.
		log.Warn("generative AI disabled", "error", err)
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	roster := teamrepo.NewRoster(data.Members)
	leadStore := repository.NewStore(data.Leads, data.Events)

	teamModule := team.NewModule(roster, eventBus, val, log)

	leadsModule := leads.NewModule(leadStore, roster, photos, eventBus, val, cfg.GetTimeZone(), log)
	insightsModule := insights.NewModule(leadsModule.Service(), aiClient, cfg, val, log)
	mapsModule := maps.NewModule(aiClient, leadsModule.Service(), cfg, log)
	authModule := auth.NewModule(roster, cfg, val, log)

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(sender, reminderScheduler, roster, cfg.GetTimeZone(), cfg.GetReminderLeadTime(), log)

	for _, sub := range []apphttp.Subscriber{teamModule, notificationModule} {
		sub.RegisterHandlers(eventBus)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:         cfg,
		Logger:         log,
		MemberResolver: team.ResolveMember(roster),
		Modules: []apphttp.Module{
			authModule,
			teamModule,
			leadsModule,
			insightsModule,
			mapsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

// initPhotoStore keeps job photos in MinIO when it is configured and inline
// on the lead otherwise.
func initPhotoStore(ctx context.Context, cfg *config.Config, log *logger.Logger) ports.PhotoStore {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; job photos are kept inline")
		return storage.NewInlineStore(cfg.GetMinIOMaxFileSize())
	}

	storageSvc, err := storage.NewMinIOStore(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}

	store := storage.NewBucketPhotoStore(storageSvc, cfg.GetMinIOBucketJobPhotos(), cfg.GetMinIOMaxFileSize(), log)
	if err := withRetry(ctx, log, "ensure job photos bucket", 5, 2*time.Second, func() error {
		return store.Init(ctx)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinIOBucketJobPhotos())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "jobPhotosBucket", cfg.GetMinIOBucketJobPhotos())
	return store
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.ReminderScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; appointment reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
