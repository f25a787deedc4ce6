package domain

// OutlineParams drives outline generation for a novel.
type OutlineParams struct {
	Premise     string `json:"premise"`
	Genre       string `json:"genre,omitempty"`
	Tone        string `json:"tone,omitempty"`
	NumChapters int    `json:"num_chapters,omitempty"`
}

// BeatsParams drives scene beat generation for a chapter.
type BeatsParams struct {
	NumBeats int `json:"num_beats,omitempty"`
}

// ChapterSummary is the result of summarizing a chapter.
type ChapterSummary struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

// SceneSummary is the result of summarizing a scene.
type SceneSummary struct {
	SceneID string `json:"scene_id"`
	Summary string `json:"summary"`
}

// ChatMessage is the body of a scene chat request.
type ChatMessage struct {
	Message string `json:"message"`
}

// ActionResult is the acknowledgement returned by mutating actions without an entity body.
type ActionResult struct {
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
}
