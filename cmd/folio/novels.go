package main

import (
	"context"

	"github.com/aretw0/folio/internal/cli"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/spf13/cobra"
)

var novelsCmd = &cobra.Command{
	Use:     "novels",
	Aliases: []string{"novel"},
	Short:   "Manage novels",
}

var novelsListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List every novel",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.ListNovels(ctx)
	}),
}

var novelsShowCmd = &cobra.Command{
	Use:   "show <novel-id>",
	Short: "Show a novel",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.ShowNovel(ctx, args[0])
	}),
}

var novelsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a novel",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.CreateNovel(ctx, novelInput)
	}),
}

var novelsRemoveCmd = &cobra.Command{
	Use:   "rm <novel-id>",
	Short: "Delete a novel and everything it owns",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.DeleteNovel(ctx, args[0])
	}),
}

var novelInput domain.NovelInput

func init() {
	rootCmd.AddCommand(novelsCmd)
	novelsCmd.AddCommand(novelsListCmd, novelsShowCmd, novelsCreateCmd, novelsRemoveCmd)

	f := novelsCreateCmd.Flags()
	f.StringVar(&novelInput.Title, "title", "", "Title of the novel")
	f.StringVar(&novelInput.Premise, "premise", "", "One-paragraph premise")
	f.StringVar(&novelInput.Genre, "genre", "", "Genre")
	f.StringVar(&novelInput.Tone, "tone", "", "Tone")
	f.StringVar(&novelInput.Worldbuilding, "world", "", "Worldbuilding notes")
	_ = novelsCreateCmd.MarkFlagRequired("title")
}
