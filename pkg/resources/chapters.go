package resources

import (
	"context"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/aretw0/folio/pkg/transport"
)

var _ ports.ChapterAPI = (*Chapters)(nil)

// Chapters is the chapter façade.
type Chapters struct {
	client *transport.Client
	c      collection[domain.Chapter]
}

func NewChapters(client *transport.Client) *Chapters {
	return &Chapters{client: client, c: collection[domain.Chapter]{client: client, base: "/chapters"}}
}

// List returns the chapters of a novel. novelID is required.
func (ch *Chapters) List(ctx context.Context, novelID string) ([]domain.Chapter, error) {
	return ch.c.scopedList(ctx, "novel_id", novelID, true)
}

func (ch *Chapters) Get(ctx context.Context, id string) (*domain.Chapter, error) {
	return ch.c.get(ctx, id)
}

func (ch *Chapters) Create(ctx context.Context, in domain.ChapterInput) (*domain.Chapter, error) {
	return ch.c.create(ctx, in)
}

func (ch *Chapters) Update(ctx context.Context, id string, in domain.ChapterUpdate) (*domain.Chapter, error) {
	return ch.c.update(ctx, id, in)
}

func (ch *Chapters) Delete(ctx context.Context, id string) error {
	return ch.c.delete(ctx, id)
}

// GenerateBeats asks the service to draft scene beats for the chapter.
func (ch *Chapters) GenerateBeats(ctx context.Context, chapterID string, params domain.BeatsParams) ([]domain.Scene, error) {
	p, err := ch.c.item(chapterID, "/beats")
	if err != nil {
		return nil, err
	}
	var out []domain.Scene
	if err := action(ctx, ch.client, p, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Summarize asks the service to summarize the chapter from its scenes.
func (ch *Chapters) Summarize(ctx context.Context, chapterID string) (*domain.ChapterSummary, error) {
	p, err := ch.c.item(chapterID, "/summarize")
	if err != nil {
		return nil, err
	}
	out := new(domain.ChapterSummary)
	if err := action(ctx, ch.client, p, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
