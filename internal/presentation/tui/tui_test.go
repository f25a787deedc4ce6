package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_PlainOutsideTerminal(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf)
	require.NoError(t, err)
	assert.False(t, r.TTY())

	out, err := r.Render(Novel(domain.Novel{Title: "Dune", Genre: "sf", Premise: "Spice must flow"}))
	require.NoError(t, err)
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "Spice must flow")
}

func TestMarkdown_Listings(t *testing.T) {
	chapters := Chapters([]domain.Chapter{
		{ID: "c1", OrderIndex: 1, Title: "Arrakis", SceneCount: 2, Summary: "Arrival"},
		{ID: "c2", OrderIndex: 2},
	})
	assert.Contains(t, chapters, "1. **Arrakis** `c1` (2 scenes)")
	assert.Contains(t, chapters, "2. **Untitled** `c2`")

	scenes := Scenes([]domain.Scene{{ID: "s1", OrderIndex: 1, Title: "a|b", Status: domain.SceneDraft}})
	assert.Contains(t, scenes, `| 1 | s1 | a\|b | draft |`)

	assert.Contains(t, Chapters(nil), "Generate an outline")
	assert.Contains(t, Scenes(nil), "Generate beats")
}

func TestMarkdown_Cast(t *testing.T) {
	rels := Relationships([]domain.Relationship{{
		CharacterAID:  "a",
		CharacterBID:  "b",
		CharacterA:    &domain.CharacterRef{ID: "a", Name: "Paul"},
		AffinityScore: -40,
		CoreConflict:  "Succession",
	}})
	assert.Contains(t, rels, "| Paul | b | -40 | Succession |")

	chars := Characters([]domain.Character{{Name: "Jessica", Role: "mother", Bio: "Bene Gesserit"}})
	assert.Contains(t, chars, "- **Jessica** (mother): Bene Gesserit")

	docs := RAGSummaries([]domain.RAGSummary{{
		ID:       "scene_1",
		Text:     "Paul arrives.",
		Metadata: map[string]any{"type": "scene_summary"},
	}})
	assert.Contains(t, docs, "- `scene_1` [scene_summary] Paul arrives.")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3\n")
	assert.Contains(t, buf.String(), "v1.2.3")
}

func TestStateLabel(t *testing.T) {
	assert.Contains(t, StateLabel(stream.Errored), "errored")
	assert.Contains(t, StateLabel(stream.Idle), "idle")
}
