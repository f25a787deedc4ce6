package domain

// Novel is the top-level container of a story.
type Novel struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Premise       string `json:"premise,omitempty"`
	Genre         string `json:"genre,omitempty"`
	Tone          string `json:"tone,omitempty"`
	Worldbuilding string `json:"worldbuilding,omitempty"`
}

// NovelInput is the body of a novel creation.
type NovelInput struct {
	Title         string `json:"title"`
	Premise       string `json:"premise,omitempty"`
	Genre         string `json:"genre,omitempty"`
	Tone          string `json:"tone,omitempty"`
	Worldbuilding string `json:"worldbuilding,omitempty"`
}

// NovelUpdate is a partial update; nil fields are left untouched by the service.
type NovelUpdate struct {
	Title         *string `json:"title,omitempty"`
	Premise       *string `json:"premise,omitempty"`
	Genre         *string `json:"genre,omitempty"`
	Tone          *string `json:"tone,omitempty"`
	Worldbuilding *string `json:"worldbuilding,omitempty"`
}

// Chapter belongs to exactly one Novel and owns Scenes.
type Chapter struct {
	ID         string `json:"id"`
	NovelID    string `json:"novel_id"`
	OrderIndex int    `json:"order_index"`
	Title      string `json:"title,omitempty"`
	Summary    string `json:"summary,omitempty"`
	SceneCount int    `json:"scene_count,omitempty"`
}

// ChapterInput is the body of a chapter creation.
type ChapterInput struct {
	NovelID    string `json:"novel_id"`
	OrderIndex int    `json:"order_index"`
	Title      string `json:"title"`
	Summary    string `json:"summary,omitempty"`
}

// ChapterUpdate is a partial chapter update.
type ChapterUpdate struct {
	Title   *string `json:"title,omitempty"`
	Summary *string `json:"summary,omitempty"`
}

// SceneStatus tracks the editorial state of a scene.
type SceneStatus string

const (
	SceneDraft    SceneStatus = "draft"
	SceneApproved SceneStatus = "approved"
)

// Scene belongs to exactly one Chapter. It is the unit on which
// streaming generation and chat operate.
type Scene struct {
	ID                string      `json:"id"`
	ChapterID         string      `json:"chapter_id"`
	OrderIndex        int         `json:"order_index"`
	Title             string      `json:"title,omitempty"`
	Location          string      `json:"location,omitempty"`
	CharactersPresent []string    `json:"characters_present,omitempty"`
	BeatDescription   string      `json:"beat_description,omitempty"`
	Content           string      `json:"content,omitempty"`
	Summary           string      `json:"summary,omitempty"`
	Status            SceneStatus `json:"status,omitempty"`
	TensionLevel      int         `json:"tension_level,omitempty"`
	EmotionalTarget   string      `json:"emotional_target,omitempty"`
	ContextSummary    string      `json:"context_summary,omitempty"`
}

// SceneInput is the body of a scene creation.
type SceneInput struct {
	ChapterID       string `json:"chapter_id"`
	OrderIndex      int    `json:"order_index"`
	Location        string `json:"location,omitempty"`
	BeatDescription string `json:"beat_description,omitempty"`
}

// SceneUpdate is a partial scene update; the service answers with the full scene.
type SceneUpdate struct {
	Title             *string      `json:"title,omitempty"`
	Location          *string      `json:"location,omitempty"`
	BeatDescription   *string      `json:"beat_description,omitempty"`
	CharactersPresent []string     `json:"characters_present,omitempty"`
	Content           *string      `json:"content,omitempty"`
	Summary           *string      `json:"summary,omitempty"`
	Status            *SceneStatus `json:"status,omitempty"`
}

// Character is a novel-scoped cast member.
type Character struct {
	ID          string `json:"id"`
	NovelID     string `json:"novel_id"`
	Name        string `json:"name"`
	Bio         string `json:"bio,omitempty"`
	Personality string `json:"personality,omitempty"`
	Appearance  string `json:"appearance,omitempty"`
	Role        string `json:"role,omitempty"`
}

// CharacterInput is the body of a character creation.
type CharacterInput struct {
	NovelID     string `json:"novel_id"`
	Name        string `json:"name"`
	Bio         string `json:"bio,omitempty"`
	Personality string `json:"personality,omitempty"`
	Appearance  string `json:"appearance,omitempty"`
	Role        string `json:"role,omitempty"`
}

// CharacterUpdate is a partial character update.
type CharacterUpdate struct {
	Name        *string `json:"name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Personality *string `json:"personality,omitempty"`
	Appearance  *string `json:"appearance,omitempty"`
	Role        *string `json:"role,omitempty"`
}

// Lore is a worldbuilding entry (power systems, places, artifacts).
type Lore struct {
	ID       string `json:"id"`
	NovelID  string `json:"novel_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category,omitempty"`
}

// LoreInput is the body of a lore creation.
type LoreInput struct {
	NovelID  string `json:"novel_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category,omitempty"`
}

// CharacterRef is the short form of a character embedded in a Relationship.
type CharacterRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Relationship is derived by the service from the story; clients only list it.
type Relationship struct {
	ID            string        `json:"id"`
	CharacterAID  string        `json:"character_a_id"`
	CharacterBID  string        `json:"character_b_id"`
	CharacterA    *CharacterRef `json:"character_a,omitempty"`
	CharacterB    *CharacterRef `json:"character_b,omitempty"`
	AffinityScore int           `json:"affinity_score"`
	CoreConflict  string        `json:"core_conflict,omitempty"`
}
