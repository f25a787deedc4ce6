package store

import (
	"github.com/aretw0/folio/pkg/domain"
)

// SetCurrentNovel selects the current novel; nil clears it.
func (s *Store) SetCurrentNovel(n *domain.Novel) {
	s.mutate("set_current_novel", func(st *domain.Snapshot) {
		st.CurrentNovel = domain.ClonePtr(n)
	})
}

// SetCurrentChapter selects the current chapter; nil clears it.
func (s *Store) SetCurrentChapter(c *domain.Chapter) {
	s.mutate("set_current_chapter", func(st *domain.Snapshot) {
		st.CurrentChapter = domain.ClonePtr(c)
	})
}

// SetCurrentScene selects the current scene; nil clears it.
func (s *Store) SetCurrentScene(sc *domain.Scene) {
	s.mutate("set_current_scene", func(st *domain.Snapshot) {
		st.CurrentScene = domain.CloneScene(sc)
	})
}

// Snapshot returns a copy of the whole cache.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) CurrentNovel() *domain.Novel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ClonePtr(s.state.CurrentNovel)
}

func (s *Store) CurrentChapter() *domain.Chapter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ClonePtr(s.state.CurrentChapter)
}

func (s *Store) CurrentScene() *domain.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneScene(s.state.CurrentScene)
}

func (s *Store) Chapters() []domain.Chapter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneSlice(s.state.Chapters)
}

func (s *Store) Characters() []domain.Character {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneSlice(s.state.Characters)
}

func (s *Store) Lores() []domain.Lore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneSlice(s.state.Lores)
}

func (s *Store) Scenes() []domain.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneScenes(s.state.Scenes)
}

// Chapter returns the cached chapter with the given id.
func (s *Store) Chapter(id string) (domain.Chapter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.state.Chapters {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Chapter{}, false
}

// Scene returns the cached scene with the given id.
func (s *Store) Scene(id string) (domain.Scene, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.state.Scenes {
		if s.state.Scenes[i].ID == id {
			return *domain.CloneScene(&s.state.Scenes[i]), true
		}
	}
	return domain.Scene{}, false
}
