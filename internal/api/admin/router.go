package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/backup-auth-server/internal/logger"
)

const healthCheckTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Admin serves operational endpoints: Prometheus metrics and a readiness probe.
type Admin struct {
	metrics http.Handler
	db      Pinger
	logger  *logger.Logger
}

func NewAdmin(metrics http.Handler, db Pinger, logger *logger.Logger) *Admin {
	return &Admin{metrics: metrics, db: db, logger: logger}
}

// Router returns the admin routes.
func (a *Admin) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", a.metrics)
	r.Get("/healthz", a.handleHealth)
	return r
}

func (a *Admin) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		a.logger.Warn("Admin handler: health check failed",
			"error", err.Error())
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
