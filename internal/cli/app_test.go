package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/folio/internal/config"
	"github.com/aretw0/folio/internal/testutils"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/stream"
	"github.com/aretw0/folio/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, jsonMode bool) (*testutils.FakeService, *App, *bytes.Buffer) {
	t.Helper()
	fake := testutils.NewFakeService(t)
	cfg := config.Default()
	cfg.Endpoint = fake.URL()

	var out bytes.Buffer
	app, err := Bootstrap(cfg, Options{JSON: jsonMode, Out: &out})
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return fake, app, &out
}

func TestNewApp_EndpointOverride(t *testing.T) {
	t.Chdir(t.TempDir())

	app, err := NewApp(Options{Endpoint: "http://writer.example:9000", Out: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, "http://writer.example:9000", app.Config.Endpoint)

	_, err = NewApp(Options{Endpoint: "writer"})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestBootstrap_RejectsLogFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Format = "xml"
	_, err := Bootstrap(cfg, Options{Out: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestApp_Outline(t *testing.T) {
	fake, app, out := newTestApp(t, true)
	novel := fake.SeedNovel(domain.Novel{Title: "Dune"})

	require.NoError(t, app.Outline(context.Background(), novel.ID, domain.OutlineParams{Premise: "Spice", NumChapters: 2}))

	var chapters []domain.Chapter
	require.NoError(t, json.Unmarshal(out.Bytes(), &chapters))
	assert.Len(t, chapters, 2)
	assert.Equal(t, chapters, app.Client.Store.Chapters())
}

func TestApp_ListChaptersMarkdown(t *testing.T) {
	fake, app, out := newTestApp(t, false)
	novel := fake.SeedNovel(domain.Novel{Title: "Dune"})
	fake.SeedChapter(domain.Chapter{NovelID: novel.ID, OrderIndex: 1, Title: "Arrakis"})

	require.NoError(t, app.ListChapters(context.Background(), novel.ID))
	assert.Contains(t, out.String(), "Arrakis")
}

func TestApp_Write(t *testing.T) {
	fake, app, out := newTestApp(t, false)
	novel := fake.SeedNovel(domain.Novel{Title: "Dune"})
	ch := fake.SeedChapter(domain.Chapter{NovelID: novel.ID})
	sc := fake.SeedScene(domain.Scene{ChapterID: ch.ID})
	fake.Script(sc.ID, testutils.StreamScript{Chunks: []string{"Night ", "fell."}})

	require.NoError(t, app.Write(context.Background(), sc.ID))
	assert.Contains(t, out.String(), "Night fell.")
	assert.Contains(t, out.String(), ">>> Stream")
}

func TestApp_WriteJSON(t *testing.T) {
	fake, app, out := newTestApp(t, true)
	novel := fake.SeedNovel(domain.Novel{Title: "Dune"})
	ch := fake.SeedChapter(domain.Chapter{NovelID: novel.ID})
	sc := fake.SeedScene(domain.Scene{ChapterID: ch.ID})
	fake.Script(sc.ID, testutils.StreamScript{Chunks: []string{"Night ", "fell."}})

	require.NoError(t, app.Write(context.Background(), sc.ID))

	var texts []string
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var chunk stream.Chunk
		require.NoError(t, json.Unmarshal([]byte(line), &chunk))
		texts = append(texts, chunk.Text)
	}
	assert.Equal(t, "Night fell.", strings.Join(texts, ""))
}

func TestApp_WriteFailure(t *testing.T) {
	fake, app, _ := newTestApp(t, false)
	novel := fake.SeedNovel(domain.Novel{Title: "Dune"})
	ch := fake.SeedChapter(domain.Chapter{NovelID: novel.ID})
	sc := fake.SeedScene(domain.Scene{ChapterID: ch.ID})
	fake.Script(sc.ID, testutils.StreamScript{Error: "quota exceeded"})

	err := app.Write(context.Background(), sc.ID)
	assert.ErrorIs(t, err, stream.ErrStream)
}

func TestApp_WriteInterrupted(t *testing.T) {
	fake, app, _ := newTestApp(t, false)
	novel := fake.SeedNovel(domain.Novel{Title: "Dune"})
	ch := fake.SeedChapter(domain.Chapter{NovelID: novel.ID})
	sc := fake.SeedScene(domain.Scene{ChapterID: ch.ID})
	fake.Script(sc.ID, testutils.StreamScript{Chunks: []string{"Waiting"}, Hold: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		for ctx.Err() == nil {
			if _, ok := app.Client.Sessions.Active(sc.ID); ok {
				cancel()
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()
	assert.NoError(t, app.Write(ctx, sc.ID))
}

func TestApp_Export(t *testing.T) {
	fake, app, _ := newTestApp(t, false)
	novel := fake.SeedNovel(domain.Novel{Title: "Dune"})
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, app.Export(context.Background(), novel.ID, ""))
	data, err := os.ReadFile(filepath.Join(dir, "Dune.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Dune")

	target := filepath.Join(dir, "manuscript.txt")
	require.NoError(t, app.Export(context.Background(), novel.ID, target))
	assert.FileExists(t, target)
}

func TestApp_ExportStaysInWorkingDir(t *testing.T) {
	fake, app, _ := newTestApp(t, false)
	novel := fake.SeedNovel(domain.Novel{Title: "../escaped"})
	parent := t.TempDir()
	dir := filepath.Join(parent, "work")
	require.NoError(t, os.Mkdir(dir, 0o755))
	t.Chdir(dir)

	require.NoError(t, app.Export(context.Background(), novel.ID, ""))
	assert.FileExists(t, filepath.Join(dir, "escaped.txt"))
	assert.NoFileExists(t, filepath.Join(parent, "escaped.txt"))
}

func TestExportName(t *testing.T) {
	tests := []struct {
		suggested string
		want      string
	}{
		{"Dune.txt", "Dune.txt"},
		{"../escaped.txt", "escaped.txt"},
		{"/etc/passwd", "passwd"},
		{`..\..\evil.txt`, "evil.txt"},
		{"", "n1.txt"},
		{".", "n1.txt"},
		{"..", "n1.txt"},
		{"/", "n1.txt"},
	}
	for _, tt := range tests {
		if got := exportName(tt.suggested, "n1"); got != tt.want {
			t.Errorf("exportName(%q) = %q, want %q", tt.suggested, got, tt.want)
		}
	}
}

func TestApp_EditRAGLongSummary(t *testing.T) {
	fake, app, out := newTestApp(t, true)
	novel := fake.SeedNovel(domain.Novel{Title: "Dune"})
	fake.SeedRAGSummary(novel.ID, domain.RAGSummary{ID: "scene_1", Text: "Old"})
	ctx := context.Background()

	long := strings.Repeat("The spice must flow. ", 1000)
	require.Greater(t, len(long), domain.MaxMessageSize)
	require.NoError(t, app.EditRAG(ctx, novel.ID, "scene_1", long))

	out.Reset()
	require.NoError(t, app.ListRAG(ctx, novel.ID))
	var docs []domain.RAGSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, long, docs[0].Text)

	err := app.EditRAG(ctx, novel.ID, "scene_1", strings.Repeat("a", domain.MaxProseSize+1))
	assert.ErrorIs(t, err, domain.ErrInputTooLarge)
}

func TestApp_RAG(t *testing.T) {
	fake, app, out := newTestApp(t, true)
	novel := fake.SeedNovel(domain.Novel{Title: "Dune"})
	fake.SeedRAGSummary(novel.ID, domain.RAGSummary{ID: "scene_1", Text: "Old"})
	ctx := context.Background()

	require.NoError(t, app.EditRAG(ctx, novel.ID, "scene_1", "New"))
	out.Reset()
	require.NoError(t, app.ListRAG(ctx, novel.ID))

	var docs []domain.RAGSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "New", docs[0].Text)
}

func TestApp_RemoteError(t *testing.T) {
	_, app, _ := newTestApp(t, false)
	err := app.ShowNovel(context.Background(), "missing")
	assert.ErrorIs(t, err, transport.ErrRemote)
	assert.Equal(t, 404, transport.StatusCode(err))
}

func TestApp_ServeMetricsDisabled(t *testing.T) {
	_, app, _ := newTestApp(t, false)
	assert.NoError(t, app.ServeMetrics(context.Background()))
}

func TestApp_Map(t *testing.T) {
	fake, app, out := newTestApp(t, false)
	novel := fake.SeedNovel(domain.Novel{Title: "Dune"})
	ch := fake.SeedChapter(domain.Chapter{NovelID: novel.ID, OrderIndex: 1, Title: "Arrakis"})
	fake.SeedScene(domain.Scene{ChapterID: ch.ID, Title: "Arrival"})

	require.NoError(t, app.Map(context.Background(), novel.ID))
	assert.Contains(t, out.String(), "graph TD")
	assert.Contains(t, out.String(), `"1. Arrakis"`)
	assert.Contains(t, out.String(), `"Arrival"`)
}
