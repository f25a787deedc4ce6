package ports

import (
	"context"
	"testing"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRemoteContract verifies that a Remote implementation honors the invariants the
// store relies on. The backend must start empty and generate at least one chapter
// per outline and one scene per beats request.
func RunRemoteContract(t *testing.T, remote Remote) {
	ctx := context.Background()

	novel, err := remote.Novels.Create(ctx, domain.NovelInput{
		Title:   "Contract Novel",
		Premise: "A cartographer maps a city that rearranges itself.",
		Genre:   "fantasy",
	})
	require.NoError(t, err)
	require.NotEmpty(t, novel.ID, "server assigns identifiers")

	t.Run("Get returns created fields", func(t *testing.T) {
		got, err := remote.Novels.Get(ctx, novel.ID)
		require.NoError(t, err)
		assert.Equal(t, "Contract Novel", got.Title)
		assert.Equal(t, "fantasy", got.Genre)
	})

	var chapters []domain.Chapter
	t.Run("Outline chapters belong to the novel", func(t *testing.T) {
		generated, err := remote.Novels.GenerateOutline(ctx, novel.ID, domain.OutlineParams{NumChapters: 2})
		require.NoError(t, err)
		require.NotEmpty(t, generated)

		chapters, err = remote.Chapters.List(ctx, novel.ID)
		require.NoError(t, err)
		require.Len(t, chapters, len(generated))
		for _, ch := range chapters {
			assert.Equal(t, novel.ID, ch.NovelID)
		}
	})
	require.NotEmpty(t, chapters)
	chapterID := chapters[0].ID

	var scenes []domain.Scene
	t.Run("Beats scenes belong to the chapter", func(t *testing.T) {
		_, err := remote.Chapters.GenerateBeats(ctx, chapterID, domain.BeatsParams{NumBeats: 2})
		require.NoError(t, err)

		scenes, err = remote.Scenes.List(ctx, chapterID)
		require.NoError(t, err)
		require.NotEmpty(t, scenes)
		for _, s := range scenes {
			assert.Equal(t, chapterID, s.ChapterID)
		}
	})

	t.Run("Summarize targets the chapter", func(t *testing.T) {
		summary, err := remote.Chapters.Summarize(ctx, chapterID)
		require.NoError(t, err)
		assert.Equal(t, chapterID, summary.ID)
		assert.NotEmpty(t, summary.Summary)
	})

	t.Run("Update returns the stored scene", func(t *testing.T) {
		require.NotEmpty(t, scenes)
		content := "Rewritten."
		updated, err := remote.Scenes.Update(ctx, scenes[0].ID, domain.SceneUpdate{Content: &content})
		require.NoError(t, err)
		assert.Equal(t, scenes[0].ID, updated.ID)
		assert.Equal(t, content, updated.Content)
		assert.Equal(t, scenes[0].Title, updated.Title, "fields not sent are kept")
	})

	t.Run("Scoped lists", func(t *testing.T) {
		_, err := remote.Characters.List(ctx, novel.ID)
		require.NoError(t, err)
		_, err = remote.Lores.List(ctx, novel.ID)
		require.NoError(t, err)
	})

	t.Run("Export", func(t *testing.T) {
		resp, err := remote.Novels.Export(ctx, novel.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Body)
	})
}
