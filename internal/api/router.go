package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/playok/compliancemon/internal/config"
	"github.com/playok/compliancemon/internal/logging"
	"github.com/playok/compliancemon/internal/model"
	"github.com/playok/compliancemon/internal/scheduler"
)

// Snapshots is the read side of the current-snapshot slot.
type Snapshots interface {
	Current() *model.Snapshot
}

// Refresher runs an out-of-band pass and returns the published snapshot.
type Refresher interface {
	RunOnce(ctx context.Context) *model.Snapshot
	State() scheduler.State
	Interval() time.Duration
}

// Deps are the collaborators the router serves from.
type Deps struct {
	Board     Snapshots
	Refresher Refresher
	Hub       *Hub
	Gatherer  prometheus.Gatherer
	Config    *config.Config
	Static    http.Handler
	Logger    logrus.FieldLogger
	// RefreshLimit bounds manual refreshes; zero uses one per interval with a burst of one.
	RefreshLimit rate.Limit
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()
	log := logging.Component(d.Logger, "http")

	limit := d.RefreshLimit
	if limit == 0 && d.Refresher != nil {
		limit = rate.Every(d.Refresher.Interval())
	}

	va := &viewAPI{board: d.Board}
	ra := &refreshAPI{refresher: d.Refresher, limiter: rate.NewLimiter(limit, 1), log: log}
	sa := &settingsAPI{cfg: d.Config, refresher: d.Refresher}
	ha := &healthAPI{board: d.Board, refresher: d.Refresher}

	// Snapshot
	mux.HandleFunc("GET /api/v1/view", va.view)
	mux.HandleFunc("GET /api/v1/panel", va.panel)
	mux.HandleFunc("POST /api/v1/refresh", ra.refresh)

	// Settings
	mux.HandleFunc("GET /api/v1/settings", sa.list)

	// WebSocket
	if d.Hub != nil {
		mux.HandleFunc("GET /api/v1/ws", d.Hub.HandleWS)
	}

	// Operations
	mux.HandleFunc("GET /healthz", ha.healthz)
	if d.Gatherer != nil {
		mux.Handle("GET /metrics", metricsHandler(d.Gatherer))
	}

	if d.Static != nil {
		mux.Handle("/", d.Static)
	}

	var handler http.Handler = mux

	basePath := ""
	if d.Config != nil {
		basePath = d.Config.BasePath
	}
	// If base_path is set, strip the prefix so internal routing works unchanged
	if basePath != "/" && basePath != "" {
		inner := handler
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, basePath) {
				r.URL.Path = strings.TrimPrefix(r.URL.Path, basePath)
				if r.URL.Path == "" {
					r.URL.Path = "/"
				}
				r.URL.RawPath = strings.TrimPrefix(r.URL.RawPath, basePath)
			}
			inner.ServeHTTP(w, r)
		})
	}

	return withMiddleware(handler, log)
}

func withMiddleware(next http.Handler, log logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Recovery
		defer func() {
			if err := recover(); err != nil {
				log.WithField("path", r.URL.Path).Errorf("panic: %v", err)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		// CORS for local development
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)

		log.WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"elapsed": time.Since(start),
		}).Debug("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
