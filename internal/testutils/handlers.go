package testutils

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/go-chi/chi/v5"
)

func (f *FakeService) routes(r chi.Router) {
	r.Route("/novels", func(r chi.Router) {
		r.Get("/", f.listNovels)
		r.Post("/", f.createNovel)
		r.Get("/{id}", f.getNovel)
		r.Put("/{id}", f.updateNovel)
		r.Delete("/{id}", f.deleteNovel)
		r.Post("/{id}/outline", f.generateOutline)
		r.Get("/{id}/export", f.exportNovel)
		r.Get("/{id}/rag/summaries", f.listRAG)
		r.Put("/{id}/rag/summaries/{doc_id}", f.updateRAG)
		r.Delete("/{id}/rag/summaries/{doc_id}", f.deleteRAG)
	})
	r.Route("/chapters", func(r chi.Router) {
		r.Get("/", f.listChapters)
		r.Post("/", f.createChapter)
		r.Get("/{id}", f.getChapter)
		r.Put("/{id}", f.updateChapter)
		r.Delete("/{id}", f.deleteChapter)
		r.Post("/{id}/beats", f.generateBeats)
		r.Post("/{id}/summarize", f.summarizeChapter)
	})
	r.Route("/scenes", func(r chi.Router) {
		r.Get("/", f.listScenes)
		r.Post("/", f.createScene)
		r.Get("/{id}", f.getScene)
		r.Put("/{id}", f.updateScene)
		r.Delete("/{id}", f.deleteScene)
		r.Get("/{id}/generate", f.generateScene)
		r.Post("/{id}/summarize", f.summarizeScene)
		r.Post("/{id}/chat", f.chatScene)
	})
	r.Route("/characters", func(r chi.Router) {
		r.Get("/", f.listCharacters)
		r.Post("/", f.createCharacter)
		r.Get("/{id}", f.getCharacter)
		r.Put("/{id}", f.updateCharacter)
		r.Delete("/{id}", f.deleteCharacter)
	})
	r.Route("/lore", func(r chi.Router) {
		r.Get("/", f.listLore)
		r.Post("/", f.createLore)
		r.Delete("/{id}", f.deleteLore)
	})
	r.Get("/relationships/", f.listRelationships)
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, it := range items {
		if match(it) {
			return i
		}
	}
	return -1
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := []T{}
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Novels

func (f *FakeService) listNovels(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, filter(f.novels, func(domain.Novel) bool { return true }))
}

func (f *FakeService) createNovel(w http.ResponseWriter, r *http.Request) {
	var in domain.NovelInput
	if !decode(w, r, &in) {
		return
	}
	writeJSON(w, http.StatusOK, f.SeedNovel(domain.Novel{
		Title:         in.Title,
		Premise:       in.Premise,
		Genre:         in.Genre,
		Tone:          in.Tone,
		Worldbuilding: in.Worldbuilding,
	}))
}

func (f *FakeService) getNovel(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.novelIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "Novel")
		return
	}
	writeJSON(w, http.StatusOK, f.novels[i])
}

func (f *FakeService) updateNovel(w http.ResponseWriter, r *http.Request) {
	var in domain.NovelUpdate
	if !decode(w, r, &in) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.novelIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "Novel")
		return
	}
	n := &f.novels[i]
	set(&n.Title, in.Title)
	set(&n.Premise, in.Premise)
	set(&n.Genre, in.Genre)
	set(&n.Tone, in.Tone)
	set(&n.Worldbuilding, in.Worldbuilding)
	writeJSON(w, http.StatusOK, *n)
}

func (f *FakeService) deleteNovel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.novelIndex(id)
	if i < 0 {
		notFound(w, "Novel")
		return
	}
	f.novels = append(f.novels[:i], f.novels[i+1:]...)
	f.dropChapters(id)
	f.characters = filter(f.characters, func(c domain.Character) bool { return c.NovelID != id })
	f.lores = filter(f.lores, func(l domain.Lore) bool { return l.NovelID != id })
	delete(f.rag, id)
	writeJSON(w, http.StatusOK, domain.ActionResult{Message: "Novel deleted", ID: id})
}

// generateOutline replaces the novel's chapters with NumChapters new ones (default 3).
func (f *FakeService) generateOutline(w http.ResponseWriter, r *http.Request) {
	var params domain.OutlineParams
	if !decode(w, r, &params) {
		return
	}
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.novelIndex(id)
	if i < 0 {
		notFound(w, "Novel")
		return
	}
	novel := &f.novels[i]
	if params.Premise != "" {
		novel.Premise = params.Premise
	}
	n := params.NumChapters
	if n <= 0 {
		n = 3
	}

	f.dropChapters(id)
	created := make([]domain.Chapter, 0, n)
	for k := 1; k <= n; k++ {
		ch := domain.Chapter{
			ID:         newID(),
			NovelID:    id,
			OrderIndex: k,
			Title:      fmt.Sprintf("Chapter %d", k),
			Summary:    fmt.Sprintf("Part %d of %s", k, novel.Title),
		}
		f.chapters = append(f.chapters, ch)
		created = append(created, ch)
	}
	writeJSON(w, http.StatusOK, created)
}

func (f *FakeService) exportNovel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.novelIndex(id)
	if i < 0 {
		notFound(w, "Novel")
		return
	}
	novel := f.novels[i]

	var b strings.Builder
	b.WriteString(novel.Title + "\n\n")
	for _, ch := range f.chaptersOf(id) {
		fmt.Fprintf(&b, "%s\n\n", ch.Title)
		for _, sc := range f.scenesOf(ch.ID) {
			if sc.Content != "" {
				b.WriteString(sc.Content + "\n\n")
			}
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename*=utf-8''"+url.PathEscape(novel.Title+".txt"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.String()))
}

func (f *FakeService) listRAG(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	docs := f.rag[chi.URLParam(r, "id")]
	if docs == nil {
		docs = []domain.RAGSummary{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (f *FakeService) updateRAG(w http.ResponseWriter, r *http.Request) {
	var in domain.RAGSummaryUpdate
	if !decode(w, r, &in) {
		return
	}
	novelID, docID := chi.URLParam(r, "id"), chi.URLParam(r, "doc_id")
	f.mu.Lock()
	defer f.mu.Unlock()
	docs := f.rag[novelID]
	i := indexOf(docs, func(d domain.RAGSummary) bool { return d.ID == docID })
	if i < 0 {
		notFound(w, "Summary")
		return
	}
	docs[i].Text = in.Text
	writeJSON(w, http.StatusOK, domain.ActionResult{Message: "Summary updated", ID: docID})
}

func (f *FakeService) deleteRAG(w http.ResponseWriter, r *http.Request) {
	novelID, docID := chi.URLParam(r, "id"), chi.URLParam(r, "doc_id")
	f.mu.Lock()
	defer f.mu.Unlock()
	docs := f.rag[novelID]
	i := indexOf(docs, func(d domain.RAGSummary) bool { return d.ID == docID })
	if i < 0 {
		notFound(w, "Summary")
		return
	}
	f.rag[novelID] = append(docs[:i], docs[i+1:]...)
	writeJSON(w, http.StatusOK, domain.ActionResult{Message: "Summary deleted"})
}

// Chapters

func (f *FakeService) listChapters(w http.ResponseWriter, r *http.Request) {
	novelID := r.URL.Query().Get("novel_id")
	if novelID == "" {
		missingQuery(w, "novel_id")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.chaptersOf(novelID))
}

func (f *FakeService) createChapter(w http.ResponseWriter, r *http.Request) {
	var in domain.ChapterInput
	if !decode(w, r, &in) {
		return
	}
	writeJSON(w, http.StatusOK, f.SeedChapter(domain.Chapter{
		NovelID:    in.NovelID,
		OrderIndex: in.OrderIndex,
		Title:      in.Title,
		Summary:    in.Summary,
	}))
}

func (f *FakeService) getChapter(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.chapterIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "Chapter")
		return
	}
	writeJSON(w, http.StatusOK, f.withSceneCount(f.chapters[i]))
}

func (f *FakeService) updateChapter(w http.ResponseWriter, r *http.Request) {
	var in domain.ChapterUpdate
	if !decode(w, r, &in) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.chapterIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "Chapter")
		return
	}
	set(&f.chapters[i].Title, in.Title)
	set(&f.chapters[i].Summary, in.Summary)
	writeJSON(w, http.StatusOK, f.withSceneCount(f.chapters[i]))
}

func (f *FakeService) deleteChapter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.chapterIndex(id)
	if i < 0 {
		notFound(w, "Chapter")
		return
	}
	f.chapters = append(f.chapters[:i], f.chapters[i+1:]...)
	f.scenes = filter(f.scenes, func(s domain.Scene) bool { return s.ChapterID != id })
	writeJSON(w, http.StatusOK, domain.ActionResult{Message: "Chapter deleted", ID: id})
}

// generateBeats replaces the chapter's scenes with NumBeats new drafts (default 3).
func (f *FakeService) generateBeats(w http.ResponseWriter, r *http.Request) {
	var params domain.BeatsParams
	if !decode(w, r, &params) {
		return
	}
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.chapterIndex(id)
	if i < 0 {
		notFound(w, "Chapter")
		return
	}
	n := params.NumBeats
	if n <= 0 {
		n = 3
	}

	f.scenes = filter(f.scenes, func(s domain.Scene) bool { return s.ChapterID != id })
	created := make([]domain.Scene, 0, n)
	for k := 1; k <= n; k++ {
		sc := domain.Scene{
			ID:              newID(),
			ChapterID:       id,
			OrderIndex:      k,
			Title:           fmt.Sprintf("%s, scene %d", f.chapters[i].Title, k),
			BeatDescription: fmt.Sprintf("Beat %d of %s", k, f.chapters[i].Title),
			Status:          domain.SceneDraft,
			TensionLevel:    k,
		}
		f.scenes = append(f.scenes, sc)
		created = append(created, sc)
	}
	writeJSON(w, http.StatusOK, created)
}

func (f *FakeService) summarizeChapter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.chapterIndex(id)
	if i < 0 {
		notFound(w, "Chapter")
		return
	}
	summary := fmt.Sprintf("%s told in %d scenes.", f.chapters[i].Title, len(f.scenesOf(id)))
	f.chapters[i].Summary = summary
	writeJSON(w, http.StatusOK, domain.ChapterSummary{ID: id, Summary: summary})
}

// Scenes

func (f *FakeService) listScenes(w http.ResponseWriter, r *http.Request) {
	chapterID := r.URL.Query().Get("chapter_id")
	if chapterID == "" {
		missingQuery(w, "chapter_id")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.scenesOf(chapterID))
}

func (f *FakeService) createScene(w http.ResponseWriter, r *http.Request) {
	var in domain.SceneInput
	if !decode(w, r, &in) {
		return
	}
	writeJSON(w, http.StatusOK, f.SeedScene(domain.Scene{
		ChapterID:       in.ChapterID,
		OrderIndex:      in.OrderIndex,
		Location:        in.Location,
		BeatDescription: in.BeatDescription,
	}))
}

func (f *FakeService) getScene(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.sceneIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "Scene")
		return
	}
	writeJSON(w, http.StatusOK, f.scenes[i])
}

func (f *FakeService) updateScene(w http.ResponseWriter, r *http.Request) {
	var in domain.SceneUpdate
	if !decode(w, r, &in) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.sceneIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "Scene")
		return
	}
	sc := &f.scenes[i]
	set(&sc.Title, in.Title)
	set(&sc.Location, in.Location)
	set(&sc.BeatDescription, in.BeatDescription)
	set(&sc.Content, in.Content)
	set(&sc.Summary, in.Summary)
	if in.CharactersPresent != nil {
		sc.CharactersPresent = append([]string(nil), in.CharactersPresent...)
	}
	if in.Status != nil {
		sc.Status = *in.Status
	}
	writeJSON(w, http.StatusOK, *sc)
}

func (f *FakeService) deleteScene(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.sceneIndex(id)
	if i < 0 {
		notFound(w, "Scene")
		return
	}
	f.scenes = append(f.scenes[:i], f.scenes[i+1:]...)
	writeJSON(w, http.StatusOK, domain.ActionResult{Message: "Scene deleted", ID: id})
}

// summarizeScene also indexes the summary for retrieval, like the real service.
func (f *FakeService) summarizeScene(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.sceneIndex(id)
	if i < 0 {
		notFound(w, "Scene")
		return
	}
	sc := &f.scenes[i]
	sc.Summary = fmt.Sprintf("Summary of %s.", sc.Title)

	if ci := f.chapterIndex(sc.ChapterID); ci >= 0 {
		novelID := f.chapters[ci].NovelID
		docID := "scene_" + id
		docs := filter(f.rag[novelID], func(d domain.RAGSummary) bool { return d.ID != docID })
		f.rag[novelID] = append(docs, domain.RAGSummary{
			ID:   docID,
			Text: sc.Summary,
			Metadata: map[string]any{
				"scene_id":   id,
				"chapter_id": sc.ChapterID,
				"novel_id":   novelID,
				"type":       "scene_summary",
			},
		})
	}
	writeJSON(w, http.StatusOK, domain.SceneSummary{SceneID: id, Summary: sc.Summary})
}

// Characters, lore, relationships

func (f *FakeService) listCharacters(w http.ResponseWriter, r *http.Request) {
	novelID := r.URL.Query().Get("novel_id")
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, filter(f.characters, func(c domain.Character) bool {
		return novelID == "" || c.NovelID == novelID
	}))
}

func (f *FakeService) createCharacter(w http.ResponseWriter, r *http.Request) {
	var in domain.CharacterInput
	if !decode(w, r, &in) {
		return
	}
	writeJSON(w, http.StatusOK, f.SeedCharacter(domain.Character{
		NovelID:     in.NovelID,
		Name:        in.Name,
		Bio:         in.Bio,
		Personality: in.Personality,
		Appearance:  in.Appearance,
		Role:        in.Role,
	}))
}

func (f *FakeService) getCharacter(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := indexOf(f.characters, func(c domain.Character) bool { return c.ID == chi.URLParam(r, "id") })
	if i < 0 {
		notFound(w, "Character")
		return
	}
	writeJSON(w, http.StatusOK, f.characters[i])
}

func (f *FakeService) updateCharacter(w http.ResponseWriter, r *http.Request) {
	var in domain.CharacterUpdate
	if !decode(w, r, &in) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := indexOf(f.characters, func(c domain.Character) bool { return c.ID == chi.URLParam(r, "id") })
	if i < 0 {
		notFound(w, "Character")
		return
	}
	c := &f.characters[i]
	set(&c.Name, in.Name)
	set(&c.Bio, in.Bio)
	set(&c.Personality, in.Personality)
	set(&c.Appearance, in.Appearance)
	set(&c.Role, in.Role)
	writeJSON(w, http.StatusOK, *c)
}

func (f *FakeService) deleteCharacter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	i := indexOf(f.characters, func(c domain.Character) bool { return c.ID == id })
	if i < 0 {
		notFound(w, "Character")
		return
	}
	f.characters = append(f.characters[:i], f.characters[i+1:]...)
	writeJSON(w, http.StatusOK, domain.ActionResult{Message: "Character deleted", ID: id})
}

func (f *FakeService) listLore(w http.ResponseWriter, r *http.Request) {
	novelID := r.URL.Query().Get("novel_id")
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, filter(f.lores, func(l domain.Lore) bool {
		return novelID == "" || l.NovelID == novelID
	}))
}

func (f *FakeService) createLore(w http.ResponseWriter, r *http.Request) {
	var in domain.LoreInput
	if !decode(w, r, &in) {
		return
	}
	writeJSON(w, http.StatusOK, f.SeedLore(domain.Lore{
		NovelID:  in.NovelID,
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
	}))
}

func (f *FakeService) deleteLore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	i := indexOf(f.lores, func(l domain.Lore) bool { return l.ID == id })
	if i < 0 {
		notFound(w, "Lore")
		return
	}
	f.lores = append(f.lores[:i], f.lores[i+1:]...)
	writeJSON(w, http.StatusOK, domain.ActionResult{Message: "Lore deleted", ID: id})
}

func (f *FakeService) listRelationships(w http.ResponseWriter, r *http.Request) {
	novelID := r.URL.Query().Get("novel_id")
	f.mu.Lock()
	defer f.mu.Unlock()

	var ids map[string]bool
	if novelID != "" {
		ids = make(map[string]bool)
		for _, c := range f.characters {
			if c.NovelID == novelID {
				ids[c.ID] = true
			}
		}
	}
	writeJSON(w, http.StatusOK, filter(f.relationships, func(rel domain.Relationship) bool {
		return ids == nil || ids[rel.CharacterAID] || ids[rel.CharacterBID]
	}))
}

// helpers; callers hold f.mu

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (f *FakeService) novelIndex(id string) int {
	return indexOf(f.novels, func(n domain.Novel) bool { return n.ID == id })
}

func (f *FakeService) chapterIndex(id string) int {
	return indexOf(f.chapters, func(c domain.Chapter) bool { return c.ID == id })
}

func (f *FakeService) sceneIndex(id string) int {
	return indexOf(f.scenes, func(s domain.Scene) bool { return s.ID == id })
}

func (f *FakeService) chaptersOf(novelID string) []domain.Chapter {
	out := filter(f.chapters, func(c domain.Chapter) bool { return c.NovelID == novelID })
	for i := range out {
		out[i] = f.withSceneCount(out[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

func (f *FakeService) scenesOf(chapterID string) []domain.Scene {
	out := filter(f.scenes, func(s domain.Scene) bool { return s.ChapterID == chapterID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return domain.CloneScenes(out)
}

func (f *FakeService) withSceneCount(c domain.Chapter) domain.Chapter {
	c.SceneCount = len(filter(f.scenes, func(s domain.Scene) bool { return s.ChapterID == c.ID }))
	return c
}

func (f *FakeService) dropChapters(novelID string) {
	gone := make(map[string]bool)
	f.chapters = filter(f.chapters, func(c domain.Chapter) bool {
		if c.NovelID == novelID {
			gone[c.ID] = true
			return false
		}
		return true
	})
	f.scenes = filter(f.scenes, func(s domain.Scene) bool { return !gone[s.ChapterID] })
}
