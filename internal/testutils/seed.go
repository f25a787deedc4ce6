package testutils

import (
	"github.com/aretw0/folio/pkg/domain"
)

// SeedNovel stores n, assigning an ID when empty, and returns the stored value.
func (f *FakeService) SeedNovel(n domain.Novel) domain.Novel {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n.ID == "" {
		n.ID = newID()
	}
	f.novels = append(f.novels, n)
	return n
}

func (f *FakeService) SeedChapter(c domain.Chapter) domain.Chapter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == "" {
		c.ID = newID()
	}
	f.chapters = append(f.chapters, c)
	return c
}

func (f *FakeService) SeedScene(s domain.Scene) domain.Scene {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == "" {
		s.ID = newID()
	}
	if s.Status == "" {
		s.Status = domain.SceneDraft
	}
	f.scenes = append(f.scenes, *domain.CloneScene(&s))
	return s
}

func (f *FakeService) SeedCharacter(c domain.Character) domain.Character {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == "" {
		c.ID = newID()
	}
	f.characters = append(f.characters, c)
	return c
}

func (f *FakeService) SeedLore(l domain.Lore) domain.Lore {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l.ID == "" {
		l.ID = newID()
	}
	f.lores = append(f.lores, l)
	return l
}

func (f *FakeService) SeedRelationship(r domain.Relationship) domain.Relationship {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == "" {
		r.ID = newID()
	}
	f.relationships = append(f.relationships, r)
	return r
}

func (f *FakeService) SeedRAGSummary(novelID string, doc domain.RAGSummary) domain.RAGSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	if doc.ID == "" {
		doc.ID = newID()
	}
	f.rag[novelID] = append(f.rag[novelID], doc)
	return doc
}

// EditScene changes a stored scene behind the client's back. It reports whether the scene exists.
func (f *FakeService) EditScene(id string, fn func(*domain.Scene)) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.sceneIndex(id)
	if i < 0 {
		return false
	}
	fn(&f.scenes[i])
	return true
}

// EditChapter changes a stored chapter behind the client's back.
func (f *FakeService) EditChapter(id string, fn func(*domain.Chapter)) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.chapterIndex(id)
	if i < 0 {
		return false
	}
	fn(&f.chapters[i])
	return true
}

// Chapters returns the stored chapters of a novel, ordered as the list route returns them.
func (f *FakeService) Chapters(novelID string) []domain.Chapter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chaptersOf(novelID)
}

// Scenes returns the stored scenes of a chapter, ordered as the list route returns them.
func (f *FakeService) Scenes(chapterID string) []domain.Scene {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scenesOf(chapterID)
}

// Scene returns one stored scene.
func (f *FakeService) Scene(id string) (domain.Scene, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.sceneIndex(id)
	if i < 0 {
		return domain.Scene{}, false
	}
	return *domain.CloneScene(&f.scenes[i]), true
}
