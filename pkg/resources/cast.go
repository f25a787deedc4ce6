package resources

import (
	"context"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/aretw0/folio/pkg/transport"
)

var (
	_ ports.CharacterAPI = (*Characters)(nil)
	_ ports.LoreAPI      = (*Lore)(nil)
)

// Characters is the character façade.
type Characters struct {
	c collection[domain.Character]
}

func NewCharacters(client *transport.Client) *Characters {
	return &Characters{c: collection[domain.Character]{client: client, base: "/characters"}}
}

// List returns characters, scoped to a novel when novelID is not empty.
func (ch *Characters) List(ctx context.Context, novelID string) ([]domain.Character, error) {
	return ch.c.scopedList(ctx, "novel_id", novelID, false)
}

func (ch *Characters) Get(ctx context.Context, id string) (*domain.Character, error) {
	return ch.c.get(ctx, id)
}

func (ch *Characters) Create(ctx context.Context, in domain.CharacterInput) (*domain.Character, error) {
	return ch.c.create(ctx, in)
}

func (ch *Characters) Update(ctx context.Context, id string, in domain.CharacterUpdate) (*domain.Character, error) {
	return ch.c.update(ctx, id, in)
}

func (ch *Characters) Delete(ctx context.Context, id string) error {
	return ch.c.delete(ctx, id)
}

// Lore is the lore façade. The service offers no item read or update.
type Lore struct {
	c collection[domain.Lore]
}

func NewLore(client *transport.Client) *Lore {
	return &Lore{c: collection[domain.Lore]{client: client, base: "/lore"}}
}

// List returns lore entries, scoped to a novel when novelID is not empty.
func (l *Lore) List(ctx context.Context, novelID string) ([]domain.Lore, error) {
	return l.c.scopedList(ctx, "novel_id", novelID, false)
}

func (l *Lore) Create(ctx context.Context, in domain.LoreInput) (*domain.Lore, error) {
	return l.c.create(ctx, in)
}

func (l *Lore) Delete(ctx context.Context, id string) error {
	return l.c.delete(ctx, id)
}

// Relationships is read-only; the service derives relationships from the story.
type Relationships struct {
	c collection[domain.Relationship]
}

func NewRelationships(client *transport.Client) *Relationships {
	return &Relationships{c: collection[domain.Relationship]{client: client, base: "/relationships"}}
}

// List returns relationships, scoped to a novel when novelID is not empty.
func (r *Relationships) List(ctx context.Context, novelID string) ([]domain.Relationship, error) {
	return r.c.scopedList(ctx, "novel_id", novelID, false)
}
