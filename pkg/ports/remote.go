package ports

import (
	"context"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/transport"
)

// NovelAPI is the subset of novel operations the store drives.
type NovelAPI interface {
	Get(ctx context.Context, id string) (*domain.Novel, error)
	Create(ctx context.Context, in domain.NovelInput) (*domain.Novel, error)

	// GenerateOutline runs the outline action and returns the chapters it produced.
	GenerateOutline(ctx context.Context, novelID string, params domain.OutlineParams) ([]domain.Chapter, error)

	// Export returns the full response; the body is opaque.
	Export(ctx context.Context, novelID string) (*transport.Response, error)
}

// ChapterAPI is the subset of chapter operations the store drives.
type ChapterAPI interface {
	List(ctx context.Context, novelID string) ([]domain.Chapter, error)
	GenerateBeats(ctx context.Context, chapterID string, params domain.BeatsParams) ([]domain.Scene, error)
	Summarize(ctx context.Context, chapterID string) (*domain.ChapterSummary, error)
}

// SceneAPI is the subset of scene operations the store drives.
type SceneAPI interface {
	List(ctx context.Context, chapterID string) ([]domain.Scene, error)
	// Update returns the scene as stored by the service.
	Update(ctx context.Context, sceneID string, in domain.SceneUpdate) (*domain.Scene, error)
}

// CharacterAPI lists characters of a novel.
type CharacterAPI interface {
	List(ctx context.Context, novelID string) ([]domain.Character, error)
}

// LoreAPI lists lore entries of a novel.
type LoreAPI interface {
	List(ctx context.Context, novelID string) ([]domain.Lore, error)
}

// Remote bundles every port the store needs.
type Remote struct {
	Novels     NovelAPI
	Chapters   ChapterAPI
	Scenes     SceneAPI
	Characters CharacterAPI
	Lores      LoreAPI
}
