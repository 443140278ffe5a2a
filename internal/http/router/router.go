package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/krasavchik01/rbbb-sub002/internal/auth"
	"github.com/krasavchik01/rbbb-sub002/internal/config"
	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/http/handler"
	"github.com/krasavchik01/rbbb-sub002/internal/http/middleware"
	"github.com/krasavchik01/rbbb-sub002/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/krasavchik01/rbbb-sub002/docs" // Import generated swagger docs
)

// CacheChecker reports whether the local cache backend answers
type CacheChecker interface {
	Ping(ctx context.Context) error
}

// RemoteStatus reports whether the remote mirror was reachable at the last probe
type RemoteStatus interface {
	RemoteReachable(ctx context.Context) bool
}

// Handlers groups the HTTP handlers mounted under /api
type Handlers struct {
	Project      *handler.ProjectHandler
	Task         *handler.TaskHandler
	Evaluation   *handler.EvaluationHandler
	Notification *handler.NotificationHandler
	Timesheet    *handler.TimesheetHandler
	File         *handler.FileHandler
	Template     *handler.TemplateHandler
	Employee     *handler.EmployeeHandler
	Company      *handler.CompanyHandler
	Sync         *handler.SyncHandler
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	metrics        *metrics.Metrics
	gatherer       prometheus.Gatherer
	cache          CacheChecker
	remote         RemoteStatus
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	handlers       Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	cache CacheChecker,
	remote RemoteStatus,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		metrics:        m,
		gatherer:       gatherer,
		cache:          cache,
		remote:         remote,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		handlers:       handlers,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(rt.logger, rt.metrics))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Liveness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Readiness probe. The remote mirror is optional, so only the cache decides readiness.
	r.Get("/health/ready", rt.ready)

	r.Handle("/metrics", promhttp.HandlerFor(rt.gatherer, promhttp.HandlerOpts{}))

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	h := rt.handlers
	r.Route("/api", func(r chi.Router) {
		if timeout := rt.cfg.Server.RequestTimeoutDuration(); timeout > 0 {
			r.Use(chimw.Timeout(timeout))
		}
		r.Use(rt.authMiddleware.Identify)
		r.Use(rt.rateLimiter.LimitByUser)

		// Evaluations
		r.Route("/project-evaluations", func(r chi.Router) {
			r.Get("/{projectId}", h.Evaluation.ListForProject)
			r.Post("/", h.Evaluation.Submit)
		})

		// Projects
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.Project.List)
			r.Post("/", h.Project.Create)
			r.Get("/{id}", h.Project.GetByID)

			// Workflow
			r.Post("/{id}/approve", h.Project.Approve)
			r.Put("/{id}/team", h.Project.AssignTeam)
			r.Post("/{id}/plan", h.Project.Plan)
			r.Post("/{id}/start", h.Project.StartWork)
			r.Post("/{id}/ready", h.Project.MarkReady)
			r.Post("/{id}/payment", h.Project.SubmitPayment)
			r.Post("/{id}/payment/approve", h.Project.ApprovePayment)
			r.Post("/{id}/cancel", h.Project.Cancel)

			// Sub-resources
			r.Get("/{id}/bonus", h.Project.BonusPreview)
			r.Get("/{id}/methodology", h.Project.GetMethodology)
			r.Put("/{id}/procedures/{elementId}", h.Project.SetProcedureDone)
			r.Get("/{id}/tasks", h.Task.ListByProject)
			r.Get("/{id}/files", h.File.ListByProject)
			r.Post("/{id}/files", h.File.Upload)
		})

		// Tasks
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", h.Task.Create)
			r.Get("/{id}", h.Task.GetByID)
			r.Delete("/{id}", h.Task.Delete)
			r.Put("/{id}/status", h.Task.ChangeStatus)
			r.Put("/{id}/checklist/{itemId}", h.Task.SetChecklistItem)
			r.Post("/{id}/comments", h.Task.AddComment)
		})

		// Notifications
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.Notification.List)
			r.Get("/count", h.Notification.GetUnreadCount)
			r.Put("/read-all", h.Notification.MarkAllAsRead)
			r.Put("/{id}/read", h.Notification.MarkAsRead)
		})

		// Timesheets
		r.Route("/timesheets", func(r chi.Router) {
			r.Get("/", h.Timesheet.List)
			r.Post("/", h.Timesheet.LogTime)
			r.Delete("/{id}", h.Timesheet.Delete)
		})

		// Files
		r.Route("/files", func(r chi.Router) {
			r.Get("/{id}", h.File.GetByID)
			r.Get("/{id}/download", h.File.Download)
			r.Delete("/{id}", h.File.Delete)
		})

		// Methodology templates
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.Template.List)
			r.Get("/{id}", h.Template.GetByID)
			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.RequirePermission(domain.PermissionManageTemplates))
				r.Post("/import", h.Template.Import)
				r.Put("/{id}", h.Template.Save)
			})
		})

		// Staff and group companies
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.Employee.List)
			r.Post("/", h.Employee.Create)
			r.Get("/{id}", h.Employee.GetByID)
			r.Put("/{id}", h.Employee.Update)
			r.Delete("/{id}", h.Employee.Delete)
		})
		r.Route("/companies", func(r chi.Router) {
			r.Get("/", h.Company.List)
			r.Post("/", h.Company.Create)
			r.Put("/{id}/parent", h.Company.SetParent)
			r.Put("/{id}/active", h.Company.SetActive)
		})

		// Sync
		r.Get("/sync/status", h.Sync.Status)
		r.With(rt.authMiddleware.RequirePermission(domain.PermissionForceSync)).Post("/sync", h.Sync.ForceSync)
	})

	return r
}

func (rt *Router) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]interface{})
	healthy := true

	if err := rt.cache.Ping(ctx); err != nil {
		rt.logger.Error("Cache health check failed", zap.Error(err))
		checks["cache"] = map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
		healthy = false
	} else {
		checks["cache"] = map[string]interface{}{"status": "healthy"}
	}

	remoteStatus := "unreachable"
	if rt.remote.RemoteReachable(ctx) {
		remoteStatus = "reachable"
	}
	checks["remote"] = map[string]interface{}{"status": remoteStatus}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}
