package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/folio/internal/logging"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/aretw0/folio/pkg/transport"
)

// Observer receives every cache change, after the cache lock is released.
type Observer func(domain.Change)

type subscription struct {
	id int
	fn Observer
}

// Store caches the session's domain state. Create one per session with New and share it.
type Store struct {
	remote ports.Remote
	logger *slog.Logger

	mu    sync.RWMutex
	state domain.Snapshot

	subMu  sync.Mutex
	subs   []subscription
	nextID int
}

// Option configures the Store.
type Option func(*Store)

// WithLogger configures a logger for the Store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates an empty store over the given remote ports.
func New(remote ports.Remote, opts ...Option) *Store {
	s := &Store{
		remote: remote,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadNovel fetches the novel and makes it the current novel.
func (s *Store) LoadNovel(ctx context.Context, id string) (*domain.Novel, error) {
	novel, err := s.remote.Novels.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mutate("load_novel", func(st *domain.Snapshot) {
		st.CurrentNovel = domain.ClonePtr(novel)
	})
	return novel, nil
}

// LoadChapters replaces the cached chapters with the novel's chapters.
func (s *Store) LoadChapters(ctx context.Context, novelID string) ([]domain.Chapter, error) {
	chapters, err := s.remote.Chapters.List(ctx, novelID)
	if err != nil {
		return nil, err
	}
	s.mutate("load_chapters", func(st *domain.Snapshot) {
		st.Chapters = domain.CloneSlice(chapters)
	})
	s.logger.Debug("chapters loaded", "novel_id", novelID, "count", len(chapters))
	return chapters, nil
}

// LoadCharacters replaces the cached characters with the novel's characters.
func (s *Store) LoadCharacters(ctx context.Context, novelID string) ([]domain.Character, error) {
	characters, err := s.remote.Characters.List(ctx, novelID)
	if err != nil {
		return nil, err
	}
	s.mutate("load_characters", func(st *domain.Snapshot) {
		st.Characters = domain.CloneSlice(characters)
	})
	s.logger.Debug("characters loaded", "novel_id", novelID, "count", len(characters))
	return characters, nil
}

// LoadLores replaces the cached lore entries with the novel's entries.
func (s *Store) LoadLores(ctx context.Context, novelID string) ([]domain.Lore, error) {
	lores, err := s.remote.Lores.List(ctx, novelID)
	if err != nil {
		return nil, err
	}
	s.mutate("load_lores", func(st *domain.Snapshot) {
		st.Lores = domain.CloneSlice(lores)
	})
	s.logger.Debug("lores loaded", "novel_id", novelID, "count", len(lores))
	return lores, nil
}

// LoadScenes replaces the cached scenes with the chapter's scenes.
func (s *Store) LoadScenes(ctx context.Context, chapterID string) ([]domain.Scene, error) {
	scenes, err := s.remote.Scenes.List(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	s.mutate("load_scenes", func(st *domain.Snapshot) {
		st.Scenes = domain.CloneScenes(scenes)
	})
	s.logger.Debug("scenes loaded", "chapter_id", chapterID, "count", len(scenes))
	return scenes, nil
}

// GenerateOutline runs the outline action, then reloads the novel's chapters.
// It returns the action's own result. If the reload fails, the result is returned
// together with the reload error and the cached chapters are left as they were.
func (s *Store) GenerateOutline(ctx context.Context, novelID string, params domain.OutlineParams) ([]domain.Chapter, error) {
	generated, err := s.remote.Novels.GenerateOutline(ctx, novelID, params)
	if err != nil {
		return nil, err
	}
	if _, err := s.LoadChapters(ctx, novelID); err != nil {
		return generated, fmt.Errorf("failed to reload chapters after outline: %w", err)
	}
	return generated, nil
}

// GenerateBeats runs the beats action, then reloads the chapter's scenes.
func (s *Store) GenerateBeats(ctx context.Context, chapterID string, params domain.BeatsParams) ([]domain.Scene, error) {
	generated, err := s.remote.Chapters.GenerateBeats(ctx, chapterID, params)
	if err != nil {
		return nil, err
	}
	if _, err := s.LoadScenes(ctx, chapterID); err != nil {
		return generated, fmt.Errorf("failed to reload scenes after beats: %w", err)
	}
	return generated, nil
}

// SummarizeChapter runs the summarize action and patches the summary of the matching
// cached chapter and of the current chapter when it is the same one.
func (s *Store) SummarizeChapter(ctx context.Context, chapterID string) (*domain.ChapterSummary, error) {
	res, err := s.remote.Chapters.Summarize(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	s.mutate("summarize_chapter", func(st *domain.Snapshot) {
		patched := false
		for i := range st.Chapters {
			if st.Chapters[i].ID == chapterID {
				st.Chapters[i].Summary = res.Summary
				patched = true
				break
			}
		}
		if st.CurrentChapter != nil && st.CurrentChapter.ID == chapterID {
			st.CurrentChapter.Summary = res.Summary
			patched = true
		}
		if !patched {
			s.logger.Debug("summarized chapter not cached", "chapter_id", chapterID)
		}
	})
	return res, nil
}

// UpdateScene sends the update and replaces the matching cached scene with the
// service's answer, so fields changed server-side are reflected too.
func (s *Store) UpdateScene(ctx context.Context, sceneID string, in domain.SceneUpdate) (*domain.Scene, error) {
	updated, err := s.remote.Scenes.Update(ctx, sceneID, in)
	if err != nil {
		return nil, err
	}
	s.mutate("update_scene", func(st *domain.Snapshot) {
		patched := false
		for i := range st.Scenes {
			if st.Scenes[i].ID == sceneID {
				st.Scenes[i] = *domain.CloneScene(updated)
				patched = true
				break
			}
		}
		if st.CurrentScene != nil && st.CurrentScene.ID == sceneID {
			st.CurrentScene = domain.CloneScene(updated)
			patched = true
		}
		if !patched {
			s.logger.Debug("updated scene not cached", "scene_id", sceneID)
		}
	})
	return updated, nil
}

// CreateNovel creates a novel. The cache is not touched; reload a list to see it.
func (s *Store) CreateNovel(ctx context.Context, in domain.NovelInput) (*domain.Novel, error) {
	return s.remote.Novels.Create(ctx, in)
}

// ExportNovel returns the full export response; the filename travels in its headers.
func (s *Store) ExportNovel(ctx context.Context, novelID string) (*transport.Response, error) {
	return s.remote.Novels.Export(ctx, novelID)
}

// Reset clears every cached field. Calling it on an empty store is a no-op.
func (s *Store) Reset() {
	s.mutate("reset", func(st *domain.Snapshot) {
		*st = domain.Snapshot{}
	})
}

// mutate applies fn under the cache lock and publishes the resulting change, if any.
func (s *Store) mutate(op string, fn func(*domain.Snapshot)) {
	s.mu.Lock()
	before := s.state.Clone()
	fn(&s.state)
	change := domain.Diff(&before, &s.state)
	if change != nil {
		change.Snapshot = s.state.Clone()
	}
	s.mu.Unlock()

	if change == nil {
		return
	}
	s.logger.Debug("cache changed", "op", op, "fields", change.Fields)
	s.publish(*change)
}
