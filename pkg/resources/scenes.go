package resources

import (
	"context"
	"net/http"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/aretw0/folio/pkg/stream"
	"github.com/aretw0/folio/pkg/transport"
)

var _ ports.SceneAPI = (*Scenes)(nil)

// Scenes is the scene façade, including the streaming actions.
type Scenes struct {
	client     *transport.Client
	c          collection[domain.Scene]
	streamOpts []stream.Option
}

func NewScenes(client *transport.Client, opts ...stream.Option) *Scenes {
	return &Scenes{
		client:     client,
		c:          collection[domain.Scene]{client: client, base: "/scenes"},
		streamOpts: opts,
	}
}

// List returns the scenes of a chapter. chapterID is required.
func (s *Scenes) List(ctx context.Context, chapterID string) ([]domain.Scene, error) {
	return s.c.scopedList(ctx, "chapter_id", chapterID, true)
}

func (s *Scenes) Get(ctx context.Context, id string) (*domain.Scene, error) {
	return s.c.get(ctx, id)
}

func (s *Scenes) Create(ctx context.Context, in domain.SceneInput) (*domain.Scene, error) {
	return s.c.create(ctx, in)
}

func (s *Scenes) Update(ctx context.Context, id string, in domain.SceneUpdate) (*domain.Scene, error) {
	return s.c.update(ctx, id, in)
}

func (s *Scenes) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}

// Summarize asks the service to summarize the scene content.
func (s *Scenes) Summarize(ctx context.Context, sceneID string) (*domain.SceneSummary, error) {
	p, err := s.c.item(sceneID, "/summarize")
	if err != nil {
		return nil, err
	}
	out := new(domain.SceneSummary)
	if err := action(ctx, s.client, p, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Generate opens a generation stream for the scene. The channel lives until the server
// finishes, ctx is canceled or Close is called.
func (s *Scenes) Generate(ctx context.Context, sceneID string, opts ...stream.Option) (*stream.Channel, error) {
	p, err := s.c.item(sceneID, "/generate")
	if err != nil {
		return nil, err
	}
	dial := stream.FromTransport(s.client, transport.Request{Method: http.MethodGet, Path: p})
	return stream.Open(ctx, sceneID, dial, s.options("generate", opts)...), nil
}

// Chat sends a message about the scene and streams the reply.
func (s *Scenes) Chat(ctx context.Context, sceneID, message string, opts ...stream.Option) (*stream.Channel, error) {
	p, err := s.c.item(sceneID, "/chat")
	if err != nil {
		return nil, err
	}
	dial := stream.FromTransport(s.client, transport.Request{
		Method: http.MethodPost,
		Path:   p,
		Body:   domain.ChatMessage{Message: message},
	})
	return stream.Open(ctx, sceneID, dial, s.options("chat", opts)...), nil
}

func (s *Scenes) options(kind string, extra []stream.Option) []stream.Option {
	opts := make([]stream.Option, 0, len(s.streamOpts)+len(extra)+1)
	opts = append(opts, stream.WithKind(kind))
	opts = append(opts, s.streamOpts...)
	return append(opts, extra...)
}
