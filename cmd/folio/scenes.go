package main

import (
	"context"
	"strings"

	"github.com/aretw0/folio/internal/cli"
	"github.com/spf13/cobra"
)

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "Inspect scenes",
}

var scenesListCmd = &cobra.Command{
	Use:   "ls <chapter-id>",
	Short: "List the scenes of a chapter",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.ListScenes(ctx, args[0])
	}),
}

var scenesShowCmd = &cobra.Command{
	Use:   "show <scene-id>",
	Short: "Show a scene and its prose",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.ShowScene(ctx, args[0])
	}),
}

var writeCmd = &cobra.Command{
	Use:   "write <scene-id>",
	Short: "Stream the prose of a scene (Ctrl-C stops the stream)",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.Write(ctx, args[0])
	}),
}

var chatCmd = &cobra.Command{
	Use:   "chat <scene-id> <message...>",
	Short: "Ask the writing assistant about a scene",
	Args:  cobra.MinimumNArgs(2),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.Chat(ctx, args[0], strings.Join(args[1:], " "))
	}),
}

func init() {
	rootCmd.AddCommand(scenesCmd, writeCmd, chatCmd)
	scenesCmd.AddCommand(scenesListCmd, scenesShowCmd)
}
