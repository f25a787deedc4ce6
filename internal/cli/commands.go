package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/folio/internal/presentation/graph"
	"github.com/aretw0/folio/internal/presentation/tui"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/stream"
)

func (a *App) ListNovels(ctx context.Context) error {
	novels, err := a.Client.Resources.Novels.List(ctx)
	if err != nil {
		return err
	}
	return a.emit(novels, tui.Novels(novels))
}

func (a *App) ShowNovel(ctx context.Context, id string) error {
	n, err := a.Client.Store.LoadNovel(ctx, id)
	if err != nil {
		return err
	}
	return a.emit(n, tui.Novel(*n))
}

func (a *App) CreateNovel(ctx context.Context, in domain.NovelInput) error {
	n, err := a.Client.Store.CreateNovel(ctx, in)
	if err != nil {
		return err
	}
	return a.emit(n, tui.Novel(*n))
}

func (a *App) DeleteNovel(ctx context.Context, id string) error {
	if err := a.Client.Resources.Novels.Delete(ctx, id); err != nil {
		return err
	}
	a.printSystemMessage("Novel '%s' deleted.", id)
	return nil
}

func (a *App) ListChapters(ctx context.Context, novelID string) error {
	chapters, err := a.Client.Store.LoadChapters(ctx, novelID)
	if err != nil {
		return err
	}
	return a.emit(chapters, tui.Chapters(chapters))
}

// Outline generates the outline and prints the chapters as reloaded by the store.
func (a *App) Outline(ctx context.Context, novelID string, params domain.OutlineParams) error {
	if _, err := a.Client.Store.GenerateOutline(ctx, novelID, params); err != nil {
		return err
	}
	chapters := a.Client.Store.Chapters()
	return a.emit(chapters, tui.Chapters(chapters))
}

// Beats generates scene beats and prints the scenes as reloaded by the store.
func (a *App) Beats(ctx context.Context, chapterID string, params domain.BeatsParams) error {
	if _, err := a.Client.Store.GenerateBeats(ctx, chapterID, params); err != nil {
		return err
	}
	scenes := a.Client.Store.Scenes()
	return a.emit(scenes, tui.Scenes(scenes))
}

func (a *App) SummarizeChapter(ctx context.Context, chapterID string) error {
	sum, err := a.Client.Store.SummarizeChapter(ctx, chapterID)
	if err != nil {
		return err
	}
	return a.emit(sum, "## Chapter summary\n\n"+sum.Summary+"\n")
}

func (a *App) SummarizeScene(ctx context.Context, sceneID string) error {
	sum, err := a.Client.Resources.Scenes.Summarize(ctx, sceneID)
	if err != nil {
		return err
	}
	return a.emit(sum, "## Scene summary\n\n"+sum.Summary+"\n")
}

func (a *App) ListScenes(ctx context.Context, chapterID string) error {
	scenes, err := a.Client.Store.LoadScenes(ctx, chapterID)
	if err != nil {
		return err
	}
	return a.emit(scenes, tui.Scenes(scenes))
}

func (a *App) ShowScene(ctx context.Context, sceneID string) error {
	sc, err := a.Client.Resources.Scenes.Get(ctx, sceneID)
	if err != nil {
		return err
	}
	a.Client.Store.SetCurrentScene(sc)
	return a.emit(sc, tui.Scene(*sc))
}

// Write streams the prose of a scene to the output as it arrives.
func (a *App) Write(ctx context.Context, sceneID string) error {
	ch, err := a.Client.Generate(ctx, sceneID, a.streamHooks())
	if err != nil {
		return err
	}
	return a.pipe(ctx, ch)
}

// Chat streams the assistant's reply about a scene.
func (a *App) Chat(ctx context.Context, sceneID, message string) error {
	message, err := domain.Sanitize(message, domain.MaxMessageSize)
	if err != nil {
		return err
	}
	ch, err := a.Client.Chat(ctx, sceneID, message, a.streamHooks())
	if err != nil {
		return err
	}
	return a.pipe(ctx, ch)
}

func (a *App) streamHooks() stream.Option {
	return stream.WithHooks(stream.Hooks{
		OnOpen: func() {
			a.Logger.Debug("stream open")
		},
		OnError: func(err error) {
			a.Logger.Debug("stream error", "err", err)
		},
	})
}

// pipe copies chunks to the output. In --json mode each chunk is one JSON line.
// An interrupt closes the channel and is not reported as a failure.
func (a *App) pipe(ctx context.Context, ch *stream.Channel) error {
	defer ch.Close()

	enc := json.NewEncoder(a.out)
	for {
		select {
		case <-ctx.Done():
			_ = ch.Close()
			a.finish(ch)
			return nil
		case chunk, ok := <-ch.Chunks():
			if !ok {
				<-ch.Done()
				a.finish(ch)
				return ch.Err()
			}
			if a.json {
				if err := enc.Encode(chunk); err != nil {
					return err
				}
				continue
			}
			if _, err := io.WriteString(a.out, chunk.Text); err != nil {
				return err
			}
		}
	}
}

func (a *App) finish(ch *stream.Channel) {
	if a.json {
		return
	}
	fmt.Fprintln(a.out)
	a.printSystemMessage("Stream %s for scene '%s'.", tui.StateLabel(ch.State()), ch.SceneID())
}

// Export downloads the manuscript. An empty path uses the service's filename; "-" writes to the output.
func (a *App) Export(ctx context.Context, novelID, path string) error {
	resp, err := a.Client.Store.ExportNovel(ctx, novelID)
	if err != nil {
		return err
	}
	if path == "-" {
		_, err := a.out.Write(resp.Body)
		return err
	}
	if path == "" {
		path = exportName(resp.Filename(), novelID)
	}
	if err := os.WriteFile(path, resp.Body, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	abs, _ := filepath.Abs(path)
	a.printSystemMessage("Exported %d bytes to %s", len(resp.Body), abs)
	return nil
}

// exportName keeps only the last element of the suggested filename so the service
// cannot direct the write outside the working directory.
func exportName(suggested, novelID string) string {
	name := filepath.Base(filepath.FromSlash(strings.ReplaceAll(suggested, `\`, "/")))
	switch name {
	case "", ".", "..", string(filepath.Separator):
		return novelID + ".txt"
	}
	return name
}

func (a *App) ListRAG(ctx context.Context, novelID string) error {
	docs, err := a.Client.Resources.Novels.RAGSummaries(ctx, novelID)
	if err != nil {
		return err
	}
	return a.emit(docs, tui.RAGSummaries(docs))
}

func (a *App) EditRAG(ctx context.Context, novelID, docID, text string) error {
	text, err := domain.Sanitize(text, domain.MaxProseSize)
	if err != nil {
		return err
	}
	res, err := a.Client.Resources.Novels.UpdateRAGSummary(ctx, novelID, docID, text)
	if err != nil {
		return err
	}
	if a.json {
		return a.emit(res, "")
	}
	a.printSystemMessage("Summary '%s' updated.", docID)
	return nil
}

func (a *App) DeleteRAG(ctx context.Context, novelID, docID string) error {
	res, err := a.Client.Resources.Novels.DeleteRAGSummary(ctx, novelID, docID)
	if err != nil {
		return err
	}
	if a.json {
		return a.emit(res, "")
	}
	a.printSystemMessage("Summary '%s' deleted.", docID)
	return nil
}

func (a *App) ListCharacters(ctx context.Context, novelID string) error {
	chars, err := a.Client.Store.LoadCharacters(ctx, novelID)
	if err != nil {
		return err
	}
	return a.emit(chars, tui.Characters(chars))
}

func (a *App) ListLore(ctx context.Context, novelID string) error {
	entries, err := a.Client.Store.LoadLores(ctx, novelID)
	if err != nil {
		return err
	}
	return a.emit(entries, tui.Lore(entries))
}

func (a *App) ListRelationships(ctx context.Context, novelID string) error {
	rels, err := a.Client.Resources.Relationships.List(ctx, novelID)
	if err != nil {
		return err
	}
	return a.emit(rels, tui.Relationships(rels))
}

// Map prints the novel structure as a Mermaid flowchart.
func (a *App) Map(ctx context.Context, novelID string) error {
	novel, err := a.Client.Store.LoadNovel(ctx, novelID)
	if err != nil {
		return err
	}
	chapters, err := a.Client.Store.LoadChapters(ctx, novelID)
	if err != nil {
		return err
	}

	s := graph.Structure{Novel: *novel, Chapters: chapters, Scenes: make(map[string][]domain.Scene, len(chapters))}
	for _, ch := range chapters {
		scenes, err := a.Client.Resources.Scenes.List(ctx, ch.ID)
		if err != nil {
			return err
		}
		s.Scenes[ch.ID] = scenes
	}
	if a.json {
		return a.emit(s, "")
	}

	overlay := &graph.Overlay{}
	if c := a.Client.Store.CurrentChapter(); c != nil {
		overlay.CurrentChapter = c.ID
	}
	if sc := a.Client.Store.CurrentScene(); sc != nil {
		overlay.CurrentScene = sc.ID
	}
	_, err = io.WriteString(a.out, graph.GenerateMermaid(s, overlay))
	return err
}
