package resources

import (
	"github.com/aretw0/folio/pkg/ports"
	"github.com/aretw0/folio/pkg/stream"
	"github.com/aretw0/folio/pkg/transport"
)

// Set bundles every façade over one transport client.
type Set struct {
	Novels        *Novels
	Chapters      *Chapters
	Scenes        *Scenes
	Characters    *Characters
	Lore          *Lore
	Relationships *Relationships
}

// Option configures a Set.
type Option func(*setConfig)

type setConfig struct {
	streamOpts []stream.Option
}

// WithStreamOptions applies to every channel opened by Scenes.
func WithStreamOptions(opts ...stream.Option) Option {
	return func(c *setConfig) {
		c.streamOpts = append(c.streamOpts, opts...)
	}
}

// New creates all façades sharing client.
func New(client *transport.Client, opts ...Option) *Set {
	var cfg setConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Set{
		Novels:        NewNovels(client),
		Chapters:      NewChapters(client),
		Scenes:        NewScenes(client, cfg.streamOpts...),
		Characters:    NewCharacters(client),
		Lore:          NewLore(client),
		Relationships: NewRelationships(client),
	}
}

// Remote exposes the façades as the store's ports.
func (s *Set) Remote() ports.Remote {
	return ports.Remote{
		Novels:     s.Novels,
		Chapters:   s.Chapters,
		Scenes:     s.Scenes,
		Characters: s.Characters,
		Lores:      s.Lore,
	}
}
