package main

import (
	"context"
	"fmt"

	"github.com/aretw0/folio/internal/cli"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/spf13/cobra"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "Inspect chapters",
}

var chaptersListCmd = &cobra.Command{
	Use:   "ls <novel-id>",
	Short: "List the chapters of a novel",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.ListChapters(ctx, args[0])
	}),
}

var outlineParams domain.OutlineParams

var outlineCmd = &cobra.Command{
	Use:   "outline <novel-id>",
	Short: "Generate the chapter outline of a novel (replaces existing chapters)",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.Outline(ctx, args[0], outlineParams)
	}),
}

var beatsParams domain.BeatsParams

var beatsCmd = &cobra.Command{
	Use:   "beats <chapter-id>",
	Short: "Generate the scene beats of a chapter (replaces existing scenes)",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.Beats(ctx, args[0], beatsParams)
	}),
}

var summarizeCmd = &cobra.Command{
	Use:       "summarize <chapter|scene> <id>",
	Short:     "Summarize a chapter or a scene",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"chapter", "scene"},
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		switch args[0] {
		case "chapter":
			return app.SummarizeChapter(ctx, args[1])
		case "scene":
			return app.SummarizeScene(ctx, args[1])
		default:
			return fmt.Errorf("unknown kind %q: want chapter or scene", args[0])
		}
	}),
}

func init() {
	rootCmd.AddCommand(chaptersCmd, outlineCmd, beatsCmd, summarizeCmd)
	chaptersCmd.AddCommand(chaptersListCmd)

	f := outlineCmd.Flags()
	f.StringVar(&outlineParams.Premise, "premise", "", "Premise the outline expands")
	f.StringVar(&outlineParams.Genre, "genre", "", "Genre hint")
	f.StringVar(&outlineParams.Tone, "tone", "", "Tone hint")
	f.IntVar(&outlineParams.NumChapters, "chapters", 0, "Number of chapters (service default when 0)")
	_ = outlineCmd.MarkFlagRequired("premise")

	beatsCmd.Flags().IntVar(&beatsParams.NumBeats, "beats", 0, "Number of scenes (service default when 0)")
}

var mapCmd = &cobra.Command{
	Use:   "map <novel-id>",
	Short: "Print the novel structure as a Mermaid flowchart",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.Map(ctx, args[0])
	}),
}

func init() {
	rootCmd.AddCommand(mapCmd)
}
