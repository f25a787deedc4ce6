package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/internal/config"
	"github.com/aretw0/folio/internal/logging"
	"github.com/aretw0/folio/internal/presentation/tui"
	"github.com/aretw0/folio/pkg/observability"
	"github.com/aretw0/folio/pkg/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options are the global CLI flags.
type Options struct {
	ConfigPath string
	Endpoint   string
	Debug      bool
	JSON       bool
	Out        io.Writer
}

// App is everything a command needs: resolved config, the folio client and output.
type App struct {
	Config   config.Config
	Client   *folio.Client
	Logger   *slog.Logger
	Registry *prometheus.Registry

	out      io.Writer
	json     bool
	renderer *tui.Renderer
}

// NewApp resolves the configuration (file, environment, flags) and builds the App.
func NewApp(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Endpoint != "" {
		cfg.Endpoint = opts.Endpoint
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return Bootstrap(cfg, opts)
}

// Bootstrap builds the App from an already resolved configuration.
func Bootstrap(cfg config.Config, opts Options) (*App, error) {
	logger, err := createLogger(cfg.Log, opts.Debug)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg, observability.WithNamespace(cfg.Metrics.Namespace))
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	client, err := folio.New(cfg.Endpoint,
		folio.WithLogger(logger),
		folio.WithMetrics(metrics),
		folio.WithTransportOptions(
			transport.WithBasePath(cfg.BasePath),
			transport.WithTimeout(cfg.Timeout),
			transport.WithUserAgent(cfg.UserAgent+"/"+strings.TrimSpace(folio.Version)),
		),
	)
	if err != nil {
		return nil, err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	renderer, err := tui.NewRenderer(out)
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	return &App{
		Config:   cfg,
		Client:   client,
		Logger:   logger,
		Registry: reg,
		out:      out,
		json:     opts.JSON,
		renderer: renderer,
	}, nil
}

// createLogger honours the configured level and format. --debug forces debug level.
func createLogger(cfg config.LogConfig, debug bool) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if debug {
		level = slog.LevelDebug
	}
	return logging.NewWithFormat(cfg.Format, level)
}

// Close ends live streams.
func (a *App) Close() {
	a.Client.Close()
}

// ServeMetrics exposes the registry on the configured address until ctx ends.
// It is a no-op when no address is configured.
func (a *App) ServeMetrics(ctx context.Context) error {
	addr := a.Config.Metrics.Addr
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.Logger.Info("metrics listening", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
