package main

import (
	"context"

	"github.com/aretw0/folio/internal/cli"
	"github.com/spf13/cobra"
)

var charactersCmd = &cobra.Command{
	Use:   "characters",
	Short: "Inspect the cast of a novel",
}

var charactersListCmd = &cobra.Command{
	Use:   "ls <novel-id>",
	Short: "List characters",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.ListCharacters(ctx, args[0])
	}),
}

var loreCmd = &cobra.Command{
	Use:   "lore",
	Short: "Inspect worldbuilding entries",
}

var loreListCmd = &cobra.Command{
	Use:   "ls <novel-id>",
	Short: "List lore entries",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.ListLore(ctx, args[0])
	}),
}

var relationshipsCmd = &cobra.Command{
	Use:   "relationships",
	Short: "Inspect character relationships",
}

var relationshipsListCmd = &cobra.Command{
	Use:   "ls <novel-id>",
	Short: "List relationships derived by the service",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.ListRelationships(ctx, args[0])
	}),
}

func init() {
	rootCmd.AddCommand(charactersCmd, loreCmd, relationshipsCmd)
	charactersCmd.AddCommand(charactersListCmd)
	loreCmd.AddCommand(loreListCmd)
	relationshipsCmd.AddCommand(relationshipsListCmd)
}
