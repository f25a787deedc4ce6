package main

import (
	"context"
	"strings"

	"github.com/aretw0/folio/internal/cli"
	"github.com/spf13/cobra"
)

var ragCmd = &cobra.Command{
	Use:   "rag",
	Short: "Inspect and correct the summaries indexed for retrieval",
}

var ragListCmd = &cobra.Command{
	Use:   "ls <novel-id>",
	Short: "List indexed summaries",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.ListRAG(ctx, args[0])
	}),
}

var ragEditCmd = &cobra.Command{
	Use:   "edit <novel-id> <doc-id> <text...>",
	Short: "Replace the text of an indexed summary",
	Args:  cobra.MinimumNArgs(3),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.EditRAG(ctx, args[0], args[1], strings.Join(args[2:], " "))
	}),
}

var ragRemoveCmd = &cobra.Command{
	Use:   "rm <novel-id> <doc-id>",
	Short: "Remove an indexed summary",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.DeleteRAG(ctx, args[0], args[1])
	}),
}

func init() {
	rootCmd.AddCommand(ragCmd)
	ragCmd.AddCommand(ragListCmd, ragEditCmd, ragRemoveCmd)
}
