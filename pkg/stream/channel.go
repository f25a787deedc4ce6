package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/aretw0/folio/internal/logging"
	"github.com/aretw0/folio/pkg/observability"
	"github.com/aretw0/folio/pkg/transport"
)

// ErrStream wraps every failure reported by a Channel.
var ErrStream = errors.New("generation stream failed")

// DefaultBuffer is the capacity of the Chunks channel.
const DefaultBuffer = 64

// Dialer opens the underlying event stream.
type Dialer func(ctx context.Context) (io.ReadCloser, error)

// Hooks are invoked from the channel goroutine. A hook may call Close.
type Hooks struct {
	OnOpen  func()
	OnData  func(Chunk)
	OnError func(error)
	// OnClose fires when the server ends the stream, not when the consumer calls Close.
	OnClose func()
}

// Option configures a Channel.
type Option func(*Channel)

// WithHooks registers callbacks.
func WithHooks(h Hooks) Option {
	return func(c *Channel) {
		c.hooks = h
	}
}

// WithBuffer sets the Chunks channel capacity.
func WithBuffer(n int) Option {
	return func(c *Channel) {
		if n >= 0 {
			c.buffer = n
		}
	}
}

// WithKind labels the channel in logs and metrics ("generate", "chat").
func WithKind(kind string) Option {
	return func(c *Channel) {
		c.kind = kind
	}
}

// WithLogger sets a structured logger for the channel.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Channel) {
		c.logger = logger
	}
}

// WithMetrics counts opened channels, chunks and terminal states.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Channel) {
		c.metrics = m
	}
}

// Channel is one live generation stream.
type Channel struct {
	sceneID string
	kind    string
	dial    Dialer
	hooks   Hooks
	buffer  int
	logger  *slog.Logger
	metrics *observability.Metrics

	ctx    context.Context
	cancel context.CancelFunc
	chunks chan Chunk
	done   chan struct{}

	mu     sync.Mutex
	state  State
	err    error
	closed bool
	body   io.ReadCloser

	emitMu     sync.Mutex
	inCallback atomic.Bool
}

// Open binds a channel to sceneID and starts connecting in the background.
// The caller must call Close on every exit path.
func Open(ctx context.Context, sceneID string, dial Dialer, opts ...Option) *Channel {
	c := &Channel{
		sceneID: sceneID,
		kind:    "generate",
		dial:    dial,
		buffer:  DefaultBuffer,
		logger:  logging.NewNop(),
		state:   Idle,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.chunks = make(chan Chunk, c.buffer)

	c.setState(Connecting)
	c.metrics.StreamOpened(c.kind)
	go c.run()
	return c
}

// FromTransport adapts a transport stream request into a Dialer.
func FromTransport(client *transport.Client, req transport.Request) Dialer {
	return func(ctx context.Context) (io.ReadCloser, error) {
		resp, err := client.Stream(ctx, req)
		if err != nil {
			return nil, err
		}
		return resp.Body, nil
	}
}

// SceneID is the scene this channel is bound to.
func (c *Channel) SceneID() string { return c.sceneID }

// Chunks yields every chunk in arrival order and is closed when the channel ends.
func (c *Channel) Chunks() <-chan Chunk { return c.chunks }

// Done is closed once the channel goroutine has exited.
func (c *Channel) Done() <-chan struct{} { return c.done }

// State returns the current lifecycle state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the failure that moved the channel to Errored, or nil.
func (c *Channel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close stops the channel. It is idempotent and needs no server acknowledgment.
// Once it returns no hook fires and Chunks yields nothing more.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	prev := c.state
	if !prev.Terminal() {
		c.state = Closed
	}
	body := c.body
	c.mu.Unlock()

	c.cancel()
	if body != nil {
		_ = body.Close()
	}
	// Wait for an in-flight delivery unless we are inside one.
	if !c.inCallback.Load() {
		c.emitMu.Lock()
		c.emitMu.Unlock()
	}
	c.drain()

	if !prev.Terminal() {
		c.logger.Debug("stream closed by consumer", "scene_id", c.sceneID, "kind", c.kind, "from", prev)
		c.metrics.StreamEnded(c.kind, Closed.String())
	}
	return nil
}

// Collect reads the channel to the end and returns the concatenated text.
func (c *Channel) Collect(ctx context.Context) (string, error) {
	var b strings.Builder
	for {
		select {
		case <-ctx.Done():
			_ = c.Close()
			return b.String(), ctx.Err()
		case chunk, ok := <-c.chunks:
			if !ok {
				<-c.done
				return b.String(), c.Err()
			}
			b.WriteString(chunk.Text)
		}
	}
}

func (c *Channel) run() {
	defer close(c.done)
	defer close(c.chunks)

	body, err := c.dial(c.ctx)
	if err != nil {
		if c.ctx.Err() != nil {
			c.abandon()
			return
		}
		c.fail(fmt.Errorf("%w: connect %s: %w", ErrStream, c.sceneID, err))
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = body.Close()
		return
	}
	c.body = body
	c.mu.Unlock()
	defer body.Close()

	if !c.setState(Opened) {
		return
	}
	c.emit(c.hooks.OnOpen)

	dec := newDecoder(body)
	for {
		ev, err := dec.Next()
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				c.end()
			case c.ctx.Err() != nil:
				c.abandon()
			default:
				c.fail(fmt.Errorf("%w: read %s: %w", ErrStream, c.sceneID, err))
			}
			return
		}

		f := parse(ev)
		switch f.kind {
		case frameSkip:
			continue
		case frameError:
			c.fail(fmt.Errorf("%w: %s", ErrStream, f.err))
			return
		case frameDone:
			if f.sceneID != "" && f.sceneID != c.sceneID {
				c.logger.Warn("stream done for another scene", "scene_id", c.sceneID, "reported", f.sceneID)
			}
			c.end()
			return
		}

		if !c.setState(Receiving) {
			return
		}
		if !c.send(f.chunk) {
			return
		}
		if c.hooks.OnData != nil {
			c.emit(func() { c.hooks.OnData(f.chunk) })
		}
		c.metrics.StreamChunk(c.kind)

		if !c.setState(Opened) {
			return
		}
	}
}

// setState applies a non-terminal transition. It fails once the channel is closed or terminal.
func (c *Channel) setState(s State) bool {
	c.mu.Lock()
	if c.closed || c.state.Terminal() {
		c.mu.Unlock()
		return false
	}
	prev := c.state
	c.state = s
	c.mu.Unlock()

	if prev != s {
		c.logger.Debug("stream state", "scene_id", c.sceneID, "kind", c.kind, "from", prev, "to", s)
	}
	return true
}

// terminate moves to a terminal state unless the consumer already closed the channel.
func (c *Channel) terminate(s State, err error) bool {
	c.mu.Lock()
	if c.closed || c.state.Terminal() {
		c.mu.Unlock()
		return false
	}
	c.state = s
	c.err = err
	c.mu.Unlock()

	c.metrics.StreamEnded(c.kind, s.String())
	return true
}

func (c *Channel) end() {
	if c.terminate(Closed, nil) {
		c.logger.Debug("stream ended by server", "scene_id", c.sceneID, "kind", c.kind)
		c.emit(c.hooks.OnClose)
	}
}

func (c *Channel) fail(err error) {
	if c.terminate(Errored, err) {
		c.logger.Warn("stream failed", "scene_id", c.sceneID, "kind", c.kind, "error", err)
		if c.hooks.OnError != nil {
			c.emit(func() { c.hooks.OnError(err) })
		}
	}
}

// abandon handles cancellation of the parent context.
func (c *Channel) abandon() {
	if c.terminate(Closed, nil) {
		c.logger.Debug("stream context canceled", "scene_id", c.sceneID, "kind", c.kind)
	}
}

func (c *Channel) send(chunk Chunk) bool {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	if c.isClosed() {
		return false
	}
	select {
	case c.chunks <- chunk:
		return true
	case <-c.ctx.Done():
		return false
	}
}

func (c *Channel) emit(fn func()) {
	if fn == nil {
		return
	}
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	if c.isClosed() {
		return
	}
	c.inCallback.Store(true)
	defer c.inCallback.Store(false)
	fn()
}

func (c *Channel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Channel) drain() {
	for {
		select {
		case _, ok := <-c.chunks:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
