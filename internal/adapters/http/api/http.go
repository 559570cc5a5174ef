// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/signalcraft/signalcraft/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	DashboardDependencies
	MetricsDependencies
	StatusDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	dashboardHandler *DashboardHandler
	metricsHandler   *MetricsHandler
	statusHandler    *StatusHandler
	logger           logger.Logger
	exposeMetrics    bool
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used by the handlers.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPrometheusEndpoint toggles the GET /metrics route.
func WithPrometheusEndpoint(enabled bool) ServerOption {
	return func(s *Server) {
		s.exposeMetrics = enabled
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{exposeMetrics: true}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	s.healthHandler = NewHealthHandler()
	s.dashboardHandler = NewDashboardHandler(deps, s.logger)
	s.metricsHandler = NewMetricsHandler(deps, s.logger)
	s.statusHandler = NewStatusHandler(deps)
	return s
}

// Register attaches the JSON API routes to r.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet, http.MethodHead)
	if s.exposeMetrics {
		r.HandleFunc("/metrics", s.healthHandler.HandleMetrics).Methods(http.MethodGet)
	}

	r.HandleFunc("/api/kpi-data", MetricsMiddleware(s.dashboardHandler.HandleKPIData, "kpi_data")).Methods(http.MethodGet)
	r.HandleFunc("/api/chart-data", MetricsMiddleware(s.dashboardHandler.HandleChartData, "chart_data")).Methods(http.MethodGet)
	r.HandleFunc("/api/alerts", MetricsMiddleware(s.dashboardHandler.HandleAlerts, "alerts")).Methods(http.MethodGet)
	r.HandleFunc("/api/news", MetricsMiddleware(s.dashboardHandler.HandleNews, "news")).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/metrics", MetricsMiddleware(s.metricsHandler.HandlePostMetrics, "dashboard_metrics")).Methods(http.MethodPost)
}

// RegisterStatus attaches the JSON status message at GET /. Whatever was
// registered on / before it keeps winning, because the router dispatches to
// the first matching route.
func (s *Server) RegisterStatus(_ context.Context, r *mux.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.HandleFunc("/", MetricsMiddleware(s.statusHandler.HandleStatus, "status")).Methods(http.MethodGet)
}

// NotFoundHandler answers unmapped routes with a JSON 404.
func NotFoundHandler() http.Handler {
	return MetricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", NewKind("api.route "+r.URL.Path, ErrNotFound))
	}, "not_found")
}

// MethodNotAllowedHandler answers known paths called with the wrong method.
func MethodNotAllowedHandler() http.Handler {
	return MetricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind("api.route "+r.Method+" "+r.URL.Path, ErrMethodNotAllowed))
	}, "method_not_allowed")
}

type errorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError describes one rejected field of a request body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error, details ...FieldError) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, Details: details})
}
