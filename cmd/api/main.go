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

	"github.com/krasavchik01/rbbb-sub002/docs"
	"github.com/krasavchik01/rbbb-sub002/internal/app"
	"github.com/krasavchik01/rbbb-sub002/internal/auth"
	"github.com/krasavchik01/rbbb-sub002/internal/config"
	"github.com/krasavchik01/rbbb-sub002/internal/http/handler"
	"github.com/krasavchik01/rbbb-sub002/internal/http/middleware"
	"github.com/krasavchik01/rbbb-sub002/internal/http/router"
	"github.com/krasavchik01/rbbb-sub002/internal/jobs"
	"github.com/krasavchik01/rbbb-sub002/internal/logger"
	"github.com/krasavchik01/rbbb-sub002/internal/metrics"
	"github.com/krasavchik01/rbbb-sub002/internal/service"
	"github.com/krasavchik01/rbbb-sub002/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// @title RBBB Engagement API
// @version 1.0
// @description Engagement workflow, methodology, bonus and evaluation API for an audit and consulting group

// @contact.name API Support
// @contact.email support@rbbb.kz

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey UserHeaders
// @in header
// @name X-User-Id
// @description Identity of the acting user (X-User-Name and X-User-Role accompany it)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)

	// Resolve credentials (environment in development, Key Vault in staging/production)
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	infra, err := app.Open(ctx, cfg, log, m)
	if err != nil {
		return fmt.Errorf("failed to open data layer: %w", err)
	}
	defer func() {
		if err := infra.Close(); err != nil {
			log.Warn("Error closing data layer", zap.Error(err))
		}
	}()

	// Probe once at startup so the reachability gauge is set before the first request
	log.Info("Remote mirror probe", zap.Bool("reachable", infra.Store.RemoteReachable(ctx)))

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize services
	st := infra.Store
	notificationService := service.NewNotificationService(st, log)
	projectService := service.NewProjectService(st, notificationService, m, log)
	taskService := service.NewTaskService(st, notificationService, log)
	evaluationService := service.NewEvaluationService(st, log)
	timesheetService := service.NewTimesheetService(st, log)
	fileService := service.NewFileService(st, fileStorage, log)
	templateService := service.NewTemplateService(st, log)
	employeeService := service.NewEmployeeService(st, log)
	companyService := service.NewCompanyService(st, log)
	syncService := service.NewSyncService(st, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(cfg, log, m, registry, infra.Cache, st, authMiddleware, rateLimiter, router.Handlers{
		Project:      handler.NewProjectHandler(projectService, log),
		Task:         handler.NewTaskHandler(taskService, log),
		Evaluation:   handler.NewEvaluationHandler(evaluationService, log),
		Notification: handler.NewNotificationHandler(notificationService, log),
		Timesheet:    handler.NewTimesheetHandler(timesheetService, log),
		File:         handler.NewFileHandler(fileService, cfg.Storage.MaxUploadSizeMB, log),
		Template:     handler.NewTemplateHandler(templateService, log),
		Employee:     handler.NewEmployeeHandler(employeeService, log),
		Company:      handler.NewCompanyHandler(companyService, log),
		Sync:         handler.NewSyncHandler(syncService, log),
	})

	// Background jobs
	jobsCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()

	scheduler := jobs.NewScheduler(log)
	if err := jobs.RegisterSyncJob(scheduler, syncService, log, cfg.Jobs.SyncSchedule, 2*time.Minute); err != nil {
		log.Error("Failed to register sync job", zap.Error(err))
	}
	scheduler.Start()

	pollerDone := make(chan struct{})
	poller, err := jobs.NewNotificationPoller(notificationService, cfg.Jobs.NotificationPollInterval(), log)
	if err != nil {
		log.Warn("Notification refresh disabled", zap.Error(err))
		close(pollerDone)
	} else {
		go func() {
			defer close(pollerDone)
			_ = poller.Run(jobsCtx)
		}()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		stopJobs()
		<-scheduler.Stop().Done()
		<-pollerDone
		log.Info("Background jobs stopped")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
