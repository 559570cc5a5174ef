package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/signalcraft/signalcraft/internal/adapters/http/server"
	service "github.com/signalcraft/signalcraft/internal/app"
	"github.com/signalcraft/signalcraft/internal/config"
	"github.com/signalcraft/signalcraft/pkg/logger"
	"github.com/signalcraft/signalcraft/pkg/metrics"
	"github.com/spf13/cobra"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

// flags holds command-line overrides. Zero values mean "not given"; only
// flags the user actually set are applied.
type flags struct {
	configPath  string
	host        string
	port        int
	frontendDir string
	logLevel    string
	logFormat   string
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "signalcraft",
		Short:         "Serve the SignalCraft dashboard API and frontend pages",
		Long:          "signalcraft serves mock business-dashboard data as JSON together with the HTML pages and static assets of the dashboard frontend.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML config file (default $SIGNALCRAFT_CONFIG)")
	fl.StringVar(&f.host, "host", "", "listen host (default 0.0.0.0)")
	fl.IntVarP(&f.port, "port", "p", 0, "listen port (default 8000)")
	fl.StringVar(&f.frontendDir, "frontend-dir", "", "directory holding the HTML pages and static/ (default ./frontend)")
	fl.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fl.StringVar(&f.logFormat, "log-format", "", "text or json")

	cmd.AddCommand(newProbeCmd())
	return cmd
}

// loadConfig layers flags on top of config.Load's defaults, file and env.
func loadConfig(cmd *cobra.Command, f flags) (*config.Config, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.LoadFile(ctx, f.configPath)
	} else {
		cfg, err = config.Load(ctx)
	}
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("host") {
		cfg.Host = f.host
	}
	if changed("port") {
		cfg.Port = f.port
	}
	if changed("frontend-dir") {
		cfg.FrontendDir = f.frontendDir
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initLogging configures the global logger from cfg. An unknown level falls
// back to info with a warning.
func initLogging(ctx context.Context, cfg *config.Config) error {
	if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// metricsOptions maps the metrics keys of cfg onto manager options.
func metricsOptions(cfg *config.Config) []metrics.Option {
	return []metrics.Option{
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithRefreshInterval(cfg.MetricsRefreshInterval),
		metrics.WithHistogramBuckets(cfg.MetricsHistogramBuckets),
		metrics.WithCustomLabels(cfg.MetricsLabels),
	}
}

// newHandler turns process configuration into the server's explicit Config.
func newHandler(ctx context.Context, cfg *config.Config, frontend fs.FS, log logger.Logger) (http.Handler, error) {
	svc := service.New(service.WithLogger(log.Named("service")))
	return server.New(ctx, server.Config{
		Service:  svc,
		Frontend: frontend,
		CORS: server.CORSConfig{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   cfg.CORSAllowedMethods,
			AllowedHeaders:   cfg.CORSAllowedHeaders,
			AllowCredentials: cfg.CORSAllowCreds,
		},
		MetricsEnabled: cfg.MetricsEnabled,
		DocsEnabled:    cfg.DocsEnabled,
		Logger:         log.Named("http"),
	})
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := initLogging(ctx, cfg); err != nil {
		return err
	}
	log := logger.Get()
	metrics.Configure(metricsOptions(cfg)...)

	if info, err := os.Stat(cfg.FrontendDir); err != nil || !info.IsDir() {
		log.Warn(ctx, "frontend directory not found; pages and assets will 404", logger.String("frontend_dir", cfg.FrontendDir))
	}

	handler, err := newHandler(ctx, cfg, os.DirFS(cfg.FrontendDir), log)
	if err != nil {
		return fmt.Errorf("build handler: %w", err)
	}

	if cfg.MetricsEnabled {
		go startSystemMetricsUpdater(ctx, metrics.Default().RefreshInterval())
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", srv.Addr), logger.String("frontend_dir", cfg.FrontendDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	if cfg.ShutdownTimeout == 0 {
		return srv.Close()
	}
	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}

	log.Info(ctx, "server stopped")
	return nil
}

// startSystemMetricsUpdater refreshes the runtime gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Average pause across all collections so far.
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
