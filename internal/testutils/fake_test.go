package testutils

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeService_ServesDocumentedRoutes(t *testing.T) {
	f := NewFakeService(t)
	c := f.Client(t)
	ctx := context.Background()

	var novel domain.Novel
	_, err := c.Do(ctx, transport.Request{Method: http.MethodPost, Path: "/novels/", Body: domain.NovelInput{Title: "Dune"}}, &novel)
	require.NoError(t, err)
	require.NotEmpty(t, novel.ID)

	var chapters []domain.Chapter
	_, err = c.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/novels/" + novel.ID + "/outline",
		Body:   domain.OutlineParams{NumChapters: 2},
	}, &chapters)
	require.NoError(t, err)
	assert.Len(t, chapters, 2)

	assert.Equal(t, []string{"POST /novels/", "POST /novels/{id}/outline"}, f.Patterns())
	assert.Empty(t, f.Violations())
	assert.NotEmpty(t, f.Requests()[0].RequestID)
}

func TestFakeService_RejectsUndocumentedRoute(t *testing.T) {
	f := NewFakeService(t)
	f.Handle(http.MethodGet, "/secret", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := f.Client(t).Do(context.Background(), transport.Request{Path: "/secret"}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotImplemented, transport.StatusCode(err))
	assert.Equal(t, []string{"GET /secret"}, f.Violations())
}

func TestFakeService_Fail(t *testing.T) {
	f := NewFakeService(t)
	n := f.SeedNovel(domain.Novel{Title: "Dune"})
	f.Fail(http.MethodGet, "/novels/{id}", http.StatusServiceUnavailable, "model overloaded")

	c := f.Client(t)
	_, err := c.Do(context.Background(), transport.Request{Path: "/novels/" + n.ID}, nil)
	var re *transport.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "model overloaded", re.Detail)

	// Failures are one-shot.
	_, err = c.Do(context.Background(), transport.Request{Path: "/novels/" + n.ID}, nil)
	assert.NoError(t, err)
}

func TestFakeService_ListRequiresScope(t *testing.T) {
	f := NewFakeService(t)
	_, err := f.Client(t).Do(context.Background(), transport.Request{Path: "/chapters/"}, nil)
	var re *transport.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusUnprocessableEntity, re.StatusCode)
	assert.Contains(t, re.Detail, "field required")
}

func TestFakeService_GenerateStoresContent(t *testing.T) {
	f := NewFakeService(t)
	s := f.SeedScene(domain.Scene{ChapterID: "c1", BeatDescription: "the storm breaks"})

	resp, err := f.Client(t).Stream(context.Background(), transport.Request{Path: "/scenes/" + s.ID + "/generate"})
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.True(t, strings.HasPrefix(string(body), "event: ping\n"))
	assert.Contains(t, string(body), `"done":true`)

	stored, ok := f.Scene(s.ID)
	require.True(t, ok)
	assert.Equal(t, "The scene unfolds: the storm breaks.", stored.Content)
}
