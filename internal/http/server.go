package http

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"go-inventory-dashboard/internal/config"
	"go-inventory-dashboard/internal/connectors/inventory"
	"go-inventory-dashboard/internal/dashboard"
)

// Server wraps an HTTP server and route handlers.
type Server struct {
	httpServer *nethttp.Server
	store      *inventory.Store
	logger     *zap.Logger
}

// NewServer creates a configured HTTP server with the dashboard pages and v1 endpoints.
func NewServer(cfg config.Config, logger *zap.Logger) (*Server, error) {
	var store *inventory.Store
	if cfg.DBEnabled {
		createdStore, err := inventory.Open(cfg)
		if err != nil {
			return nil, err
		}
		store = createdStore
	}
	return newServerWithStore(cfg, store, logger), nil
}

func newServerWithStore(cfg config.Config, store *inventory.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		httpServer: &nethttp.Server{
			Addr:         cfg.ListenAddr,
			Handler:      newHandler(cfg, store, logger),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		store:  store,
		logger: logger,
	}
}

func newHandler(cfg config.Config, store *inventory.Store, logger *zap.Logger) nethttp.Handler {
	p := &pages{
		renderer: dashboard.NewRenderer(dashboard.DefaultTheme()),
		loader: &dataLoader{
			store:  store,
			limits: limitsFromConfig(cfg),
			logger: logger,
			now:    time.Now,
		},
		logger: logger,
	}

	api := nethttp.NewServeMux()
	api.HandleFunc("/api/v1/charts/", p.chartsHandler)
	api.HandleFunc("/api/v1/dashboard/export.xlsx", p.exportHandler)
	api.HandleFunc("/api/v1/status/services", servicesStatusHandler(store))
	api.HandleFunc("/api/v1/metrics/app", appMetricsSummaryHandler())

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{nethttp.MethodGet, nethttp.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})

	mux := nethttp.NewServeMux()
	mux.HandleFunc("/", p.dashboardHandler)
	mux.HandleFunc("/vendors/", p.vendorHandler)
	mux.HandleFunc("/suppliers/", p.supplierHandler)
	mux.HandleFunc("/favicon.ico", faviconHandler)
	mux.Handle("/metrics", metricsHandler())
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler)
	mux.Handle("/api/", c.Handler(api))

	return loggingMiddleware(logger, observabilityMiddleware(mux))
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.store != nil {
		_ = s.store.Close()
	}
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

func readyHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"status": "ready",
	})
}

func loggingMiddleware(logger *zap.Logger, next nethttp.Handler) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: nethttp.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

func writeJSON(w nethttp.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
