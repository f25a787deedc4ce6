package folio

import (
	"context"
	"log/slog"

	"github.com/aretw0/folio/internal/logging"
	"github.com/aretw0/folio/pkg/observability"
	"github.com/aretw0/folio/pkg/resources"
	"github.com/aretw0/folio/pkg/session"
	"github.com/aretw0/folio/pkg/store"
	"github.com/aretw0/folio/pkg/stream"
	"github.com/aretw0/folio/pkg/transport"
)

// Client wires the layers over one service endpoint.
// It is built once per session and shared by reference.
type Client struct {
	Transport *transport.Client
	Resources *resources.Set
	Store     *store.Store
	Sessions  *session.Manager

	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option defines a functional option for configuring the Client.
type Option func(*clientConfig)

type clientConfig struct {
	logger        *slog.Logger
	metrics       *observability.Metrics
	transportOpts []transport.Option
	streamOpts    []stream.Option
}

// WithLogger sets the structured logger shared by every layer.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithMetrics records requests and streams in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *clientConfig) {
		c.metrics = m
	}
}

// WithTransportOptions forwards options to the transport client.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(c *clientConfig) {
		c.transportOpts = append(c.transportOpts, opts...)
	}
}

// WithStreamOptions applies to every generation channel.
func WithStreamOptions(opts ...stream.Option) Option {
	return func(c *clientConfig) {
		c.streamOpts = append(c.streamOpts, opts...)
	}
}

// New builds a Client for the service at endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	cfg := clientConfig{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	tOpts := []transport.Option{transport.WithLogger(cfg.logger)}
	if cfg.metrics != nil {
		tOpts = append(tOpts, transport.WithMetrics(cfg.metrics))
	}
	tc, err := transport.New(endpoint, append(tOpts, cfg.transportOpts...)...)
	if err != nil {
		return nil, err
	}

	sOpts := []stream.Option{stream.WithLogger(cfg.logger)}
	if cfg.metrics != nil {
		sOpts = append(sOpts, stream.WithMetrics(cfg.metrics))
	}
	set := resources.New(tc, resources.WithStreamOptions(append(sOpts, cfg.streamOpts...)...))

	return &Client{
		Transport: tc,
		Resources: set,
		Store:     store.New(set.Remote(), store.WithLogger(cfg.logger)),
		Sessions:  session.NewManager(session.WithLogger(cfg.logger)),
		logger:    cfg.logger,
		metrics:   cfg.metrics,
	}, nil
}

// Generate opens the generation stream of a scene, closing any live stream of the same scene.
func (c *Client) Generate(ctx context.Context, sceneID string, opts ...stream.Option) (*stream.Channel, error) {
	return c.Sessions.Open(ctx, sceneID, func(ctx context.Context) (*stream.Channel, error) {
		return c.Resources.Scenes.Generate(ctx, sceneID, opts...)
	})
}

// Chat streams the assistant reply to message, closing any live stream of the same scene.
func (c *Client) Chat(ctx context.Context, sceneID, message string, opts ...stream.Option) (*stream.Channel, error) {
	return c.Sessions.Open(ctx, sceneID, func(ctx context.Context) (*stream.Channel, error) {
		return c.Resources.Scenes.Chat(ctx, sceneID, message, opts...)
	})
}

// Metrics returns the collectors passed with WithMetrics, or nil.
func (c *Client) Metrics() *observability.Metrics {
	return c.metrics
}

// Close ends every live stream. The cache is left intact.
func (c *Client) Close() {
	c.Sessions.CloseAll()
}
