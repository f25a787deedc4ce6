package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipeOpener dials channels whose server side stays in the test's hands.
type pipeOpener struct {
	mu      sync.Mutex
	writers []*io.PipeWriter
}

func (p *pipeOpener) open(sceneID string) OpenFunc {
	return func(ctx context.Context) (*stream.Channel, error) {
		r, w := io.Pipe()
		p.mu.Lock()
		p.writers = append(p.writers, w)
		p.mu.Unlock()
		dial := func(context.Context) (io.ReadCloser, error) { return r, nil }
		return stream.Open(ctx, sceneID, dial), nil
	}
}

func (p *pipeOpener) writer(i int) *io.PipeWriter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writers[i]
}

func (p *pipeOpener) closeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, w := range p.writers {
		_ = w.Close()
	}
}

func TestManager_OpenRegisters(t *testing.T) {
	m := NewManager()
	p := &pipeOpener{}
	defer p.closeAll()

	ch, err := m.Open(context.Background(), "s1", p.open("s1"))
	require.NoError(t, err)
	defer ch.Close()

	got, ok := m.Active("s1")
	require.True(t, ok)
	assert.Same(t, ch, got)
	assert.Equal(t, 1, m.Len())

	_, ok = m.Active("s2")
	assert.False(t, ok)
}

func TestManager_OpenReplacesLiveChannel(t *testing.T) {
	m := NewManager()
	p := &pipeOpener{}
	defer p.closeAll()
	ctx := context.Background()

	first, err := m.Open(ctx, "s1", p.open("s1"))
	require.NoError(t, err)
	second, err := m.Open(ctx, "s1", p.open("s1"))
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, stream.Closed, first.State())
	got, ok := m.Active("s1")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, m.Len())
}

func TestManager_FinishedChannelIsForgotten(t *testing.T) {
	m := NewManager()
	p := &pipeOpener{}
	defer p.closeAll()

	ch, err := m.Open(context.Background(), "s1", p.open("s1"))
	require.NoError(t, err)

	go func() {
		w := p.writer(0)
		_, _ = io.WriteString(w, "data: {\"chunk\": \"Hi\"}\n\ndata: {\"done\": true}\n\n")
		_ = w.Close()
	}()

	text, err := ch.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hi", text)

	assert.Equal(t, 0, m.Len())
	_, ok := m.Active("s1")
	assert.False(t, ok)
}

func TestManager_LenSkipsChannelsClosedByConsumer(t *testing.T) {
	m := NewManager()
	p := &pipeOpener{}
	defer p.closeAll()
	ctx := context.Background()

	a, err := m.Open(ctx, "s1", p.open("s1"))
	require.NoError(t, err)
	b, err := m.Open(ctx, "s2", p.open("s2"))
	require.NoError(t, err)
	defer b.Close()
	require.Equal(t, 2, m.Len())

	require.NoError(t, a.Close())
	assert.Equal(t, 1, m.Len())
	_, ok := m.Active("s1")
	assert.False(t, ok)
	_, ok = m.Active("s2")
	assert.True(t, ok)
}

func TestManager_Close(t *testing.T) {
	m := NewManager()
	p := &pipeOpener{}
	defer p.closeAll()
	ctx := context.Background()

	a, err := m.Open(ctx, "a", p.open("a"))
	require.NoError(t, err)
	b, err := m.Open(ctx, "b", p.open("b"))
	require.NoError(t, err)

	assert.True(t, m.Close("a"))
	assert.False(t, m.Close("a"))
	assert.Equal(t, stream.Closed, a.State())
	assert.Equal(t, 1, m.Len())

	m.CloseAll()
	assert.Equal(t, stream.Closed, b.State())
	assert.Equal(t, 0, m.Len())
}

func TestManager_OpenFailure(t *testing.T) {
	m := NewManager()
	boom := errors.New("boom")

	_, err := m.Open(context.Background(), "s1", func(context.Context) (*stream.Channel, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, m.Len())

	_, err = m.Open(context.Background(), "", func(context.Context) (*stream.Channel, error) {
		t.Fatal("opened without a scene")
		return nil, nil
	})
	assert.ErrorIs(t, err, domain.ErrEmptyID)
}

func TestManager_LockLifecycle(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		id := fmt.Sprintf("scene-%d", i)
		_ = m.WithLock(ctx, id, func(context.Context) error { return nil })
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.locks, "locks must be released once unused")
}

func TestManager_WithLockSerializes(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		inside  int
		maxSeen int
		mu      sync.Mutex
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.WithLock(ctx, "same", func(context.Context) error {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()
				time.Sleep(time.Millisecond)
				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}
