package store_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/aretw0/folio/internal/testutils"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/resources"
	"github.com/aretw0/folio/pkg/store"
	"github.com/aretw0/folio/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*testutils.FakeService, *store.Store) {
	t.Helper()
	fake := testutils.NewFakeService(t)
	set := resources.New(fake.Client(t))
	return fake, store.New(set.Remote())
}

func TestScenario_OutlineFillsChapters(t *testing.T) {
	fake, s := newStore(t)
	ctx := context.Background()
	n1 := fake.SeedNovel(domain.Novel{Title: "Dune"})

	_, err := s.LoadNovel(ctx, n1.ID)
	require.NoError(t, err)
	chapters, err := s.LoadChapters(ctx, n1.ID)
	require.NoError(t, err)
	assert.Empty(t, chapters)
	assert.Empty(t, s.Chapters())

	generated, err := s.GenerateOutline(ctx, n1.ID, domain.OutlineParams{Premise: "A desert planet", NumChapters: 3})
	require.NoError(t, err)
	assert.Len(t, generated, 3)

	assert.NotEmpty(t, s.Chapters())
	assert.Equal(t, fake.Chapters(n1.ID), s.Chapters())
	for _, ch := range s.Chapters() {
		assert.Equal(t, n1.ID, ch.NovelID)
	}

	assert.Equal(t, []string{
		"GET /novels/{id}",
		"GET /chapters/",
		"POST /novels/{id}/outline",
		"GET /chapters/",
	}, fake.Patterns())
	assert.Empty(t, fake.Violations())
}

func TestScenario_CreateThenReload(t *testing.T) {
	fake, s := newStore(t)
	ctx := context.Background()

	created, err := s.CreateNovel(ctx, domain.NovelInput{Title: "Children of Dune", Genre: "sf", Tone: "somber"})
	require.NoError(t, err)
	assert.Nil(t, s.CurrentNovel(), "create does not touch the cache")

	loaded, err := s.LoadNovel(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, loaded)
	assert.Equal(t, "somber", s.CurrentNovel().Tone)
	assert.Empty(t, fake.Violations())
}

func TestScenario_BeatsSummarizeUpdate(t *testing.T) {
	fake, s := newStore(t)
	ctx := context.Background()
	n := fake.SeedNovel(domain.Novel{Title: "Dune"})
	ch := fake.SeedChapter(domain.Chapter{NovelID: n.ID, OrderIndex: 1, Title: "Arrakis"})
	other := fake.SeedChapter(domain.Chapter{NovelID: n.ID, OrderIndex: 2, Title: "Sietch", Summary: "untouched"})

	_, err := s.LoadChapters(ctx, n.ID)
	require.NoError(t, err)
	current, ok := s.Chapter(ch.ID)
	require.True(t, ok)
	s.SetCurrentChapter(&current)

	_, err = s.GenerateBeats(ctx, ch.ID, domain.BeatsParams{NumBeats: 2})
	require.NoError(t, err)
	require.Len(t, s.Scenes(), 2)
	assert.Equal(t, fake.Scenes(ch.ID), s.Scenes())

	res, err := s.SummarizeChapter(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, "Arrakis told in 2 scenes.", res.Summary)
	assert.Equal(t, res.Summary, s.CurrentChapter().Summary)
	got, _ := s.Chapter(ch.ID)
	assert.Equal(t, res.Summary, got.Summary)
	got, _ = s.Chapter(other.ID)
	assert.Equal(t, "untouched", got.Summary)

	// Server-side changes not in the update body show up after UpdateScene.
	target := s.Scenes()[0]
	fake.EditScene(target.ID, func(sc *domain.Scene) { sc.Location = "Carthag" })
	approved := domain.SceneApproved
	updated, err := s.UpdateScene(ctx, target.ID, domain.SceneUpdate{Status: &approved})
	require.NoError(t, err)
	cached, ok := s.Scene(target.ID)
	require.True(t, ok)
	assert.Equal(t, *updated, cached)
	assert.Equal(t, "Carthag", cached.Location)
	assert.Equal(t, domain.SceneApproved, cached.Status)
}

func TestScenario_RemoteErrorsSurfaceUnchanged(t *testing.T) {
	fake, s := newStore(t)
	ctx := context.Background()
	n := fake.SeedNovel(domain.Novel{Title: "Dune"})
	fake.Fail(http.MethodPost, "/novels/{id}/outline", http.StatusBadGateway, "model unavailable")

	_, err := s.GenerateOutline(ctx, n.ID, domain.OutlineParams{})
	var re *transport.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "model unavailable", re.Detail)
	assert.Equal(t, []string{"POST /novels/{id}/outline"}, fake.Patterns(), "no reload after a failed action")
}

func TestScenario_Export(t *testing.T) {
	fake, s := newStore(t)
	n := fake.SeedNovel(domain.Novel{Title: "Dune"})

	resp, err := s.ExportNovel(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune.txt", resp.Filename())
	assert.Contains(t, string(resp.Body), "Dune")
}
