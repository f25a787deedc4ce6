package domain

// Snapshot holds every field cached by the store.
// The zero value is the empty, uninitialized cache.
type Snapshot struct {
	CurrentNovel   *Novel      `json:"current_novel,omitempty"`
	Chapters       []Chapter   `json:"chapters"`
	Characters     []Character `json:"characters"`
	Lores          []Lore      `json:"lores"`
	CurrentChapter *Chapter    `json:"current_chapter,omitempty"`
	CurrentScene   *Scene      `json:"current_scene,omitempty"`
	Scenes         []Scene     `json:"scenes"`
}

// Clone returns a deep copy so callers cannot reach the cached values by pointer.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		CurrentNovel:   ClonePtr(s.CurrentNovel),
		Chapters:       CloneSlice(s.Chapters),
		Characters:     CloneSlice(s.Characters),
		Lores:          CloneSlice(s.Lores),
		CurrentChapter: ClonePtr(s.CurrentChapter),
		CurrentScene:   CloneScene(s.CurrentScene),
		Scenes:         CloneScenes(s.Scenes),
	}
}

// IsEmpty reports whether the snapshot equals the reset state.
func (s Snapshot) IsEmpty() bool {
	return s.CurrentNovel == nil &&
		s.CurrentChapter == nil &&
		s.CurrentScene == nil &&
		len(s.Chapters) == 0 &&
		len(s.Characters) == 0 &&
		len(s.Lores) == 0 &&
		len(s.Scenes) == 0
}

// ClonePtr copies a flat struct behind a pointer.
func ClonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// CloneSlice copies a slice of flat structs. Nil stays nil.
func CloneSlice[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// CloneScene copies a scene including its characters list.
func CloneScene(s *Scene) *Scene {
	if s == nil {
		return nil
	}
	c := *s
	c.CharactersPresent = CloneSlice(s.CharactersPresent)
	return &c
}

// CloneScenes copies scenes including their characters lists.
func CloneScenes(scenes []Scene) []Scene {
	if scenes == nil {
		return nil
	}
	out := make([]Scene, len(scenes))
	for i := range scenes {
		out[i] = *CloneScene(&scenes[i])
	}
	return out
}
