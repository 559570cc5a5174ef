// Package server assembles the SignalCraft HTTP handler from an explicit
// Config: route table, CORS, request ids, access log and panic recovery.
package server

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/signalcraft/signalcraft/internal/adapters/http/api"
	"github.com/signalcraft/signalcraft/internal/adapters/http/site"
	"github.com/signalcraft/signalcraft/internal/adapters/http/swagger"
	"github.com/signalcraft/signalcraft/pkg/logger"
)

// Error constants
var (
	ErrNilService  = errors.New("server: service is nil")
	ErrNilFrontend = errors.New("server: frontend fs is nil")
)

// CORSConfig lists what cross-origin callers may do. A "*" entry in any list
// allows everything for that list.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// AllowAll is the permissive policy the dashboard frontend expects.
func AllowAll() CORSConfig {
	return CORSConfig{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"*"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}

// Config holds everything New needs. Nothing is read from package state.
type Config struct {
	Service        api.Dependencies
	Frontend       fs.FS
	Pages          []site.Page
	CORS           CORSConfig
	MetricsEnabled bool
	DocsEnabled    bool
	Logger         logger.Logger
}

// New builds the root handler. Routes are registered in a fixed order and the
// router dispatches to the first match, so the HTML index page owns GET /
// and the JSON status message registered after it is never reached.
func New(ctx context.Context, cfg Config) (http.Handler, error) {
	if cfg.Service == nil {
		return nil, ErrNilService
	}
	if cfg.Frontend == nil {
		return nil, ErrNilFrontend
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Get().Named("http")
	}

	r := mux.NewRouter()
	// Dot segments reach the static handler, which answers them with 404.
	r.SkipClean(true)
	r.NotFoundHandler = api.NotFoundHandler()
	r.MethodNotAllowedHandler = api.MethodNotAllowedHandler()

	pages := site.New(cfg.Frontend,
		site.WithPages(cfg.Pages),
		site.WithLogger(log.Named("site")),
		site.WithNotFoundHandler(api.NotFoundHandler()),
	)
	apiServer := api.NewServer(cfg.Service,
		api.WithLogger(log.Named("api")),
		api.WithPrometheusEndpoint(cfg.MetricsEnabled),
	)

	pages.Register(ctx, r)
	apiServer.Register(ctx, r)
	apiServer.RegisterStatus(ctx, r)
	if cfg.DocsEnabled {
		swagger.Register(ctx, r)
	}

	var h http.Handler = r
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{log: log}),
		handlers.PrintRecoveryStack(false),
	)(h)
	h = corsHandler(cfg.CORS)(h)
	h = accessLog(log.Named("access"))(h)
	h = requestID(h)
	return h, nil
}
