package store

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func TestStore_LoadOverwrites(t *testing.T) {
	m, remote := newMocks()
	s := New(remote)

	m.chapters.On("List", mock.Anything, "n1").Return([]domain.Chapter{{ID: "c1", NovelID: "n1"}, {ID: "c2", NovelID: "n1"}}, nil).Once()
	m.chapters.On("List", mock.Anything, "n1").Return([]domain.Chapter{{ID: "c3", NovelID: "n1"}}, nil).Once()

	got, err := s.LoadChapters(ctx, "n1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Len(t, s.Chapters(), 2)

	_, err = s.LoadChapters(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Chapter{{ID: "c3", NovelID: "n1"}}, s.Chapters())
	m.chapters.AssertExpectations(t)
}

func TestStore_LoadFailureKeepsCache(t *testing.T) {
	m, remote := newMocks()
	s := New(remote)
	boom := &transport.RemoteError{StatusCode: http.StatusInternalServerError}

	m.scenes.On("List", mock.Anything, "c1").Return([]domain.Scene{{ID: "s1", ChapterID: "c1"}}, nil).Once()
	m.scenes.On("List", mock.Anything, "c1").Return(nil, boom).Once()

	_, err := s.LoadScenes(ctx, "c1")
	require.NoError(t, err)
	_, err = s.LoadScenes(ctx, "c1")
	assert.ErrorIs(t, err, transport.ErrRemote)
	assert.Len(t, s.Scenes(), 1, "failed load must not clear the cache")
}

func TestStore_LoadNovelSetsCurrent(t *testing.T) {
	m, remote := newMocks()
	s := New(remote)
	m.novels.On("Get", mock.Anything, "n1").Return(&domain.Novel{ID: "n1", Title: "Dune"}, nil)
	m.characters.On("List", mock.Anything, "n1").Return([]domain.Character{{ID: "ch1", NovelID: "n1", Name: "Paul"}}, nil)
	m.lores.On("List", mock.Anything, "n1").Return([]domain.Lore{{ID: "l1", NovelID: "n1", Title: "Spice"}}, nil)

	_, err := s.LoadNovel(ctx, "n1")
	require.NoError(t, err)
	_, err = s.LoadCharacters(ctx, "n1")
	require.NoError(t, err)
	_, err = s.LoadLores(ctx, "n1")
	require.NoError(t, err)

	assert.Equal(t, "Dune", s.CurrentNovel().Title)
	assert.Equal(t, "Paul", s.Characters()[0].Name)
	assert.Equal(t, "Spice", s.Lores()[0].Title)
}

func TestStore_GenerateOutline_ReloadsAfterAction(t *testing.T) {
	m, remote := newMocks()
	s := New(remote)

	var order []string
	generated := []domain.Chapter{{ID: "c1", NovelID: "n1", OrderIndex: 1}}
	m.novels.On("GenerateOutline", mock.Anything, "n1", domain.OutlineParams{Premise: "spice"}).
		Run(func(mock.Arguments) { order = append(order, "outline") }).
		Return(generated, nil)
	m.chapters.On("List", mock.Anything, "n1").
		Run(func(mock.Arguments) { order = append(order, "list") }).
		Return(generated, nil)

	res, err := s.GenerateOutline(ctx, "n1", domain.OutlineParams{Premise: "spice"})
	require.NoError(t, err)
	assert.Equal(t, generated, res)
	assert.Equal(t, []string{"outline", "list"}, order)
	assert.Equal(t, generated, s.Chapters())
}

func TestStore_GenerateOutline_ActionFailureSkipsReload(t *testing.T) {
	m, remote := newMocks()
	s := New(remote)
	boom := errors.New("boom")
	m.novels.On("GenerateOutline", mock.Anything, "n1", mock.Anything).Return(nil, boom)

	_, err := s.GenerateOutline(ctx, "n1", domain.OutlineParams{})
	assert.ErrorIs(t, err, boom)
	m.chapters.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestStore_GenerateOutline_ReloadFailurePropagates(t *testing.T) {
	m, remote := newMocks()
	s := New(remote)
	boom := errors.New("list failed")
	generated := []domain.Chapter{{ID: "c1", NovelID: "n1"}}
	m.novels.On("GenerateOutline", mock.Anything, "n1", mock.Anything).Return(generated, nil)
	m.chapters.On("List", mock.Anything, "n1").Return(nil, boom)

	res, err := s.GenerateOutline(ctx, "n1", domain.OutlineParams{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, generated, res)
	assert.Empty(t, s.Chapters())
}

func TestStore_GenerateBeats_ReloadsScenes(t *testing.T) {
	m, remote := newMocks()
	s := New(remote)
	scenes := []domain.Scene{{ID: "s1", ChapterID: "c1"}, {ID: "s2", ChapterID: "c1"}}
	m.chapters.On("GenerateBeats", mock.Anything, "c1", domain.BeatsParams{NumBeats: 2}).Return(scenes, nil)
	m.scenes.On("List", mock.Anything, "c1").Return(scenes, nil)

	_, err := s.GenerateBeats(ctx, "c1", domain.BeatsParams{NumBeats: 2})
	require.NoError(t, err)
	assert.Equal(t, scenes, s.Scenes())
	m.scenes.AssertExpectations(t)
}

func TestStore_SummarizeChapter_Patches(t *testing.T) {
	m, remote := newMocks()
	s := New(remote)
	m.chapters.On("List", mock.Anything, "n1").Return([]domain.Chapter{
		{ID: "c1", NovelID: "n1", Summary: "one"},
		{ID: "c2", NovelID: "n1", Summary: "two"},
	}, nil)
	m.chapters.On("Summarize", mock.Anything, "c2").Return(&domain.ChapterSummary{ID: "c2", Summary: "fresh"}, nil)

	_, err := s.LoadChapters(ctx, "n1")
	require.NoError(t, err)
	s.SetCurrentChapter(&domain.Chapter{ID: "c2", NovelID: "n1", Summary: "two"})

	_, err = s.SummarizeChapter(ctx, "c2")
	require.NoError(t, err)

	chapters := s.Chapters()
	assert.Equal(t, "one", chapters[0].Summary, "other entries untouched")
	assert.Equal(t, "fresh", chapters[1].Summary)
	assert.Equal(t, "fresh", s.CurrentChapter().Summary)
}

func TestStore_SummarizeChapter_NotCachedIsNoop(t *testing.T) {
	m, remote := newMocks()
	s := New(remote)
	m.chapters.On("Summarize", mock.Anything, "c9").Return(&domain.ChapterSummary{ID: "c9", Summary: "x"}, nil)
	s.SetCurrentChapter(&domain.Chapter{ID: "c1", Summary: "keep"})

	var changes int
	s.Subscribe(func(domain.Change) { changes++ })

	res, err := s.SummarizeChapter(ctx, "c9")
	require.NoError(t, err)
	assert.Equal(t, "x", res.Summary)
	assert.Equal(t, "keep", s.CurrentChapter().Summary)
	assert.Zero(t, changes)
}

func TestStore_UpdateScene_ReplacesWholeEntry(t *testing.T) {
	m, remote := newMocks()
	s := New(remote)
	m.scenes.On("List", mock.Anything, "c1").Return([]domain.Scene{
		{ID: "s1", ChapterID: "c1", Title: "old", Content: "draft"},
		{ID: "s2", ChapterID: "c1", Title: "other"},
	}, nil)
	content := "final"
	// The service also bumped the title and status.
	stored := &domain.Scene{ID: "s1", ChapterID: "c1", Title: "renamed", Content: "final", Status: domain.SceneApproved}
	m.scenes.On("Update", mock.Anything, "s1", domain.SceneUpdate{Content: &content}).Return(stored, nil)

	_, err := s.LoadScenes(ctx, "c1")
	require.NoError(t, err)
	s.SetCurrentScene(&domain.Scene{ID: "s1", Title: "old"})

	_, err = s.UpdateScene(ctx, "s1", domain.SceneUpdate{Content: &content})
	require.NoError(t, err)

	got, ok := s.Scene("s1")
	require.True(t, ok)
	assert.Equal(t, *stored, got)
	assert.Equal(t, "other", s.Scenes()[1].Title)
	assert.Equal(t, "renamed", s.CurrentScene().Title)
}

func TestStore_UpdateScene_FailureLeavesCache(t *testing.T) {
	m, remote := newMocks()
	s := New(remote)
	s.SetCurrentScene(&domain.Scene{ID: "s1", Content: "draft"})
	m.scenes.On("Update", mock.Anything, "s1", mock.Anything).Return(nil, transport.ErrTransport)

	_, err := s.UpdateScene(ctx, "s1", domain.SceneUpdate{})
	assert.ErrorIs(t, err, transport.ErrTransport)
	assert.Equal(t, "draft", s.CurrentScene().Content)
}

func TestStore_CreateNovelDoesNotTouchCache(t *testing.T) {
	m, remote := newMocks()
	s := New(remote)
	m.novels.On("Create", mock.Anything, domain.NovelInput{Title: "Dune"}).Return(&domain.Novel{ID: "n1", Title: "Dune"}, nil)

	var changes int
	s.Subscribe(func(domain.Change) { changes++ })

	n, err := s.CreateNovel(ctx, domain.NovelInput{Title: "Dune"})
	require.NoError(t, err)
	assert.Equal(t, "n1", n.ID)
	assert.True(t, s.Snapshot().IsEmpty())
	assert.Zero(t, changes)
}

func TestStore_ExportNovelPassesResponseThrough(t *testing.T) {
	m, remote := newMocks()
	s := New(remote)
	resp := &transport.Response{StatusCode: 200, Header: http.Header{"Content-Disposition": {"attachment; filename*=utf-8''Dune.txt"}}, Body: []byte("text")}
	m.novels.On("Export", mock.Anything, "n1").Return(resp, nil)

	got, err := s.ExportNovel(ctx, "n1")
	require.NoError(t, err)
	assert.Same(t, resp, got)
	assert.Equal(t, "Dune.txt", got.Filename())
}

func TestStore_ResetIsIdempotent(t *testing.T) {
	m, remote := newMocks()
	s := New(remote)
	m.chapters.On("List", mock.Anything, "n1").Return([]domain.Chapter{{ID: "c1", NovelID: "n1"}}, nil)
	_, err := s.LoadChapters(ctx, "n1")
	require.NoError(t, err)
	s.SetCurrentNovel(&domain.Novel{ID: "n1"})
	s.SetCurrentScene(&domain.Scene{ID: "s1"})

	var changes []domain.Change
	s.Subscribe(func(c domain.Change) { changes = append(changes, c) })

	s.Reset()
	first := s.Snapshot()
	s.Reset()

	assert.True(t, first.IsEmpty())
	assert.Equal(t, first, s.Snapshot())
	require.Len(t, changes, 1, "second reset changes nothing")
	assert.ElementsMatch(t, []domain.Field{domain.FieldCurrentNovel, domain.FieldChapters, domain.FieldCurrentScene}, changes[0].Fields)
}

func TestStore_GettersReturnCopies(t *testing.T) {
	_, remote := newMocks()
	s := New(remote)
	s.SetCurrentScene(&domain.Scene{ID: "s1", CharactersPresent: []string{"Paul"}})

	sc := s.CurrentScene()
	sc.Title = "mutated"
	sc.CharactersPresent[0] = "Feyd"

	assert.Empty(t, s.CurrentScene().Title)
	assert.Equal(t, "Paul", s.CurrentScene().CharactersPresent[0])

	snap := s.Snapshot()
	snap.CurrentScene.Title = "mutated"
	assert.Empty(t, s.CurrentScene().Title)
}

func TestStore_Subscribe(t *testing.T) {
	m, remote := newMocks()
	s := New(remote)
	m.chapters.On("List", mock.Anything, "n1").Return([]domain.Chapter{{ID: "c1", NovelID: "n1"}}, nil)

	var got []domain.Change
	unsubscribe := s.Subscribe(func(c domain.Change) {
		// Observers run after the lock is released, so reading is safe.
		_ = s.Chapters()
		got = append(got, c)
	})

	_, err := s.LoadChapters(ctx, "n1")
	require.NoError(t, err)
	_, err = s.LoadChapters(ctx, "n1") // same data, no change
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, []domain.Field{domain.FieldChapters}, got[0].Fields)
	assert.Equal(t, "c1", got[0].Snapshot.Chapters[0].ID)

	unsubscribe()
	s.Reset()
	assert.Len(t, got, 1)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	m, remote := newMocks()
	s := New(remote)
	m.chapters.On("List", mock.Anything, mock.Anything).Return([]domain.Chapter{{ID: "c1"}}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.LoadChapters(ctx, "n1")
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
			s.SetCurrentChapter(&domain.Chapter{ID: "c1"})
		}()
	}
	wg.Wait()
	assert.Equal(t, "c1", s.Chapters()[0].ID)
}
