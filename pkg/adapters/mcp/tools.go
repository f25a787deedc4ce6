package mcp

import (
	"context"
	"fmt"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/stream"
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool arguments. Field names follow the service's JSON.

type NovelArgs struct {
	NovelID string `json:"novel_id"`
}

type ChapterArgs struct {
	ChapterID string `json:"chapter_id"`
}

type SceneArgs struct {
	SceneID string `json:"scene_id"`
}

type OutlineArgs struct {
	NovelID     string `json:"novel_id"`
	Premise     string `json:"premise"`
	Genre       string `json:"genre,omitempty"`
	Tone        string `json:"tone,omitempty"`
	NumChapters int    `json:"num_chapters,omitempty"`
}

type BeatsArgs struct {
	ChapterID string `json:"chapter_id"`
	NumBeats  int    `json:"num_beats,omitempty"`
}

type UpdateSceneArgs struct {
	SceneID         string  `json:"scene_id"`
	Title           *string `json:"title,omitempty"`
	Location        *string `json:"location,omitempty"`
	BeatDescription *string `json:"beat_description,omitempty"`
	Content         *string `json:"content,omitempty"`
	Status          *string `json:"status,omitempty"`
}

type ChatArgs struct {
	SceneID string `json:"scene_id"`
	Message string `json:"message"`
}

// Tool results.

type NovelResult struct {
	Novel *domain.Novel `json:"novel" jsonschema_description:"The loaded novel"`
}

type ChaptersResult struct {
	NovelID  string           `json:"novel_id"`
	Chapters []domain.Chapter `json:"chapters" jsonschema_description:"Chapters cached for the novel"`
}

type ScenesResult struct {
	ChapterID string         `json:"chapter_id"`
	Scenes    []domain.Scene `json:"scenes" jsonschema_description:"Scenes cached for the chapter"`
}

type SceneResult struct {
	Scene *domain.Scene `json:"scene"`
}

type SummaryResult struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

// StreamResult is the text a stream produced before it ended.
type StreamResult struct {
	SceneID string `json:"scene_id"`
	Text    string `json:"text"`
	State   string `json:"state" jsonschema_description:"Terminal state of the stream"`
}

type ExportResult struct {
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Text        string `json:"text"`
}

type ResetResult struct {
	Reset bool `json:"reset"`
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("load_novel",
		mcp.WithDescription("Fetch a novel and make it the current novel."),
		mcp.WithString("novel_id", mcp.Required(), mcp.Description("Novel identifier")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOutputSchema[NovelResult](),
	), mcp.NewStructuredToolHandler(s.handleLoadNovel))

	s.mcpServer.AddTool(mcp.NewTool("load_chapters",
		mcp.WithDescription("List the chapters of a novel and cache them."),
		mcp.WithString("novel_id", mcp.Required(), mcp.Description("Novel identifier")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOutputSchema[ChaptersResult](),
	), mcp.NewStructuredToolHandler(s.handleLoadChapters))

	s.mcpServer.AddTool(mcp.NewTool("generate_outline",
		mcp.WithDescription("Generate the chapter outline of a novel. Existing chapters are replaced."),
		mcp.WithString("novel_id", mcp.Required(), mcp.Description("Novel identifier")),
		mcp.WithString("premise", mcp.Required(), mcp.Description("Story premise")),
		mcp.WithString("genre", mcp.Description("Genre hint")),
		mcp.WithString("tone", mcp.Description("Tone hint")),
		mcp.WithNumber("num_chapters", mcp.Min(1), mcp.Description("Chapters to generate")),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithOutputSchema[ChaptersResult](),
	), mcp.NewStructuredToolHandler(s.handleGenerateOutline))

	s.mcpServer.AddTool(mcp.NewTool("generate_beats",
		mcp.WithDescription("Generate the scene beats of a chapter. Existing scenes are replaced."),
		mcp.WithString("chapter_id", mcp.Required(), mcp.Description("Chapter identifier")),
		mcp.WithNumber("num_beats", mcp.Min(1), mcp.Description("Scenes to generate")),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithOutputSchema[ScenesResult](),
	), mcp.NewStructuredToolHandler(s.handleGenerateBeats))

	s.mcpServer.AddTool(mcp.NewTool("summarize_chapter",
		mcp.WithDescription("Summarize a chapter and patch the cached copy."),
		mcp.WithString("chapter_id", mcp.Required(), mcp.Description("Chapter identifier")),
		mcp.WithOutputSchema[SummaryResult](),
	), mcp.NewStructuredToolHandler(s.handleSummarizeChapter))

	s.mcpServer.AddTool(mcp.NewTool("summarize_scene",
		mcp.WithDescription("Summarize a scene and index it for retrieval."),
		mcp.WithString("scene_id", mcp.Required(), mcp.Description("Scene identifier")),
		mcp.WithOutputSchema[SummaryResult](),
	), mcp.NewStructuredToolHandler(s.handleSummarizeScene))

	s.mcpServer.AddTool(mcp.NewTool("load_scenes",
		mcp.WithDescription("List the scenes of a chapter and cache them."),
		mcp.WithString("chapter_id", mcp.Required(), mcp.Description("Chapter identifier")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOutputSchema[ScenesResult](),
	), mcp.NewStructuredToolHandler(s.handleLoadScenes))

	s.mcpServer.AddTool(mcp.NewTool("update_scene",
		mcp.WithDescription("Apply a partial update to a scene. Omitted fields are left untouched."),
		mcp.WithString("scene_id", mcp.Required(), mcp.Description("Scene identifier")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("location", mcp.Description("New location")),
		mcp.WithString("beat_description", mcp.Description("New beat")),
		mcp.WithString("content", mcp.Description("New prose")),
		mcp.WithString("status", mcp.Enum(string(domain.SceneDraft), string(domain.SceneApproved))),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOutputSchema[SceneResult](),
	), mcp.NewStructuredToolHandler(s.handleUpdateScene))

	s.mcpServer.AddTool(mcp.NewTool("generate_scene",
		mcp.WithDescription("Stream the prose of a scene to completion and return it."),
		mcp.WithString("scene_id", mcp.Required(), mcp.Description("Scene identifier")),
		mcp.WithOutputSchema[StreamResult](),
	), mcp.NewStructuredToolHandler(s.handleGenerateScene))

	s.mcpServer.AddTool(mcp.NewTool("chat_scene",
		mcp.WithDescription("Ask the writing assistant about a scene and return the streamed reply."),
		mcp.WithString("scene_id", mcp.Required(), mcp.Description("Scene identifier")),
		mcp.WithString("message", mcp.Required(), mcp.Description("Message to the assistant")),
		mcp.WithOutputSchema[StreamResult](),
	), mcp.NewStructuredToolHandler(s.handleChatScene))

	s.mcpServer.AddTool(mcp.NewTool("export_novel",
		mcp.WithDescription("Export the manuscript of a novel."),
		mcp.WithString("novel_id", mcp.Required(), mcp.Description("Novel identifier")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOutputSchema[ExportResult](),
	), mcp.NewStructuredToolHandler(s.handleExportNovel))

	s.mcpServer.AddTool(mcp.NewTool("reset_store",
		mcp.WithDescription("Drop every cached entity."),
		mcp.WithOutputSchema[ResetResult](),
	), mcp.NewStructuredToolHandler(s.handleReset))
}

func (s *Server) handleLoadNovel(ctx context.Context, request mcp.CallToolRequest, args NovelArgs) (NovelResult, error) {
	n, err := s.store.LoadNovel(ctx, args.NovelID)
	if err != nil {
		return NovelResult{}, fmt.Errorf("load novel: %w", err)
	}
	return NovelResult{Novel: n}, nil
}

func (s *Server) handleLoadChapters(ctx context.Context, request mcp.CallToolRequest, args NovelArgs) (ChaptersResult, error) {
	chapters, err := s.store.LoadChapters(ctx, args.NovelID)
	if err != nil {
		return ChaptersResult{}, fmt.Errorf("load chapters: %w", err)
	}
	return ChaptersResult{NovelID: args.NovelID, Chapters: chapters}, nil
}

func (s *Server) handleGenerateOutline(ctx context.Context, request mcp.CallToolRequest, args OutlineArgs) (ChaptersResult, error) {
	if args.Premise == "" {
		return ChaptersResult{}, fmt.Errorf("premise is required")
	}
	_, err := s.store.GenerateOutline(ctx, args.NovelID, domain.OutlineParams{
		Premise:     args.Premise,
		Genre:       args.Genre,
		Tone:        args.Tone,
		NumChapters: args.NumChapters,
	})
	if err != nil {
		return ChaptersResult{}, fmt.Errorf("generate outline: %w", err)
	}
	return ChaptersResult{NovelID: args.NovelID, Chapters: s.store.Chapters()}, nil
}

func (s *Server) handleGenerateBeats(ctx context.Context, request mcp.CallToolRequest, args BeatsArgs) (ScenesResult, error) {
	_, err := s.store.GenerateBeats(ctx, args.ChapterID, domain.BeatsParams{NumBeats: args.NumBeats})
	if err != nil {
		return ScenesResult{}, fmt.Errorf("generate beats: %w", err)
	}
	return ScenesResult{ChapterID: args.ChapterID, Scenes: s.store.Scenes()}, nil
}

func (s *Server) handleSummarizeChapter(ctx context.Context, request mcp.CallToolRequest, args ChapterArgs) (SummaryResult, error) {
	sum, err := s.store.SummarizeChapter(ctx, args.ChapterID)
	if err != nil {
		return SummaryResult{}, fmt.Errorf("summarize chapter: %w", err)
	}
	return SummaryResult{ID: sum.ID, Summary: sum.Summary}, nil
}

func (s *Server) handleSummarizeScene(ctx context.Context, request mcp.CallToolRequest, args SceneArgs) (SummaryResult, error) {
	sum, err := s.scenes.Summarize(ctx, args.SceneID)
	if err != nil {
		return SummaryResult{}, fmt.Errorf("summarize scene: %w", err)
	}
	return SummaryResult{ID: sum.SceneID, Summary: sum.Summary}, nil
}

func (s *Server) handleLoadScenes(ctx context.Context, request mcp.CallToolRequest, args ChapterArgs) (ScenesResult, error) {
	scenes, err := s.store.LoadScenes(ctx, args.ChapterID)
	if err != nil {
		return ScenesResult{}, fmt.Errorf("load scenes: %w", err)
	}
	return ScenesResult{ChapterID: args.ChapterID, Scenes: scenes}, nil
}

func (s *Server) handleUpdateScene(ctx context.Context, request mcp.CallToolRequest, args UpdateSceneArgs) (SceneResult, error) {
	in := domain.SceneUpdate{
		Title:           args.Title,
		Location:        args.Location,
		BeatDescription: args.BeatDescription,
	}
	if args.Content != nil {
		content, err := domain.Sanitize(*args.Content, domain.MaxProseSize)
		if err != nil {
			s.logger.Warn("MCP update_scene: content rejected", "err", err, "size", len(*args.Content))
			return SceneResult{}, fmt.Errorf("content rejected: %w", err)
		}
		in.Content = &content
	}
	if args.Status != nil {
		st := domain.SceneStatus(*args.Status)
		in.Status = &st
	}
	sc, err := s.store.UpdateScene(ctx, args.SceneID, in)
	if err != nil {
		return SceneResult{}, fmt.Errorf("update scene: %w", err)
	}
	return SceneResult{Scene: sc}, nil
}

func (s *Server) handleGenerateScene(ctx context.Context, request mcp.CallToolRequest, args SceneArgs) (StreamResult, error) {
	res, err := s.collect(ctx, args.SceneID, func(ctx context.Context) (*stream.Channel, error) {
		return s.scenes.Generate(ctx, args.SceneID)
	})
	if err != nil {
		return res, fmt.Errorf("generate scene: %w", err)
	}

	// The service persisted the prose; refresh the cached chapter if it holds the scene.
	if sc, ok := s.store.Scene(args.SceneID); ok {
		if _, err := s.store.LoadScenes(ctx, sc.ChapterID); err != nil {
			s.logger.Warn("refresh scenes after generation", "scene_id", args.SceneID, "err", err)
		}
	}
	return res, nil
}

func (s *Server) handleChatScene(ctx context.Context, request mcp.CallToolRequest, args ChatArgs) (StreamResult, error) {
	if args.Message == "" {
		return StreamResult{}, fmt.Errorf("message is required")
	}
	msg, err := domain.Sanitize(args.Message, domain.MaxMessageSize)
	if err != nil {
		s.logger.Warn("MCP chat_scene: message rejected", "err", err, "size", len(args.Message))
		return StreamResult{}, fmt.Errorf("message rejected: %w", err)
	}
	res, err := s.collect(ctx, args.SceneID, func(ctx context.Context) (*stream.Channel, error) {
		return s.scenes.Chat(ctx, args.SceneID, msg)
	})
	if err != nil {
		return res, fmt.Errorf("chat scene: %w", err)
	}
	return res, nil
}

func (s *Server) handleExportNovel(ctx context.Context, request mcp.CallToolRequest, args NovelArgs) (ExportResult, error) {
	resp, err := s.store.ExportNovel(ctx, args.NovelID)
	if err != nil {
		return ExportResult{}, fmt.Errorf("export novel: %w", err)
	}
	return ExportResult{
		Filename:    resp.Filename(),
		ContentType: resp.ContentType(),
		Text:        string(resp.Body),
	}, nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, args struct{}) (ResetResult, error) {
	s.sessions.CloseAll()
	s.store.Reset()
	return ResetResult{Reset: true}, nil
}
