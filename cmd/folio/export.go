package main

import (
	"context"

	"github.com/aretw0/folio/internal/cli"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <novel-id>",
	Short: "Download the manuscript of a novel",
	Long: `Downloads the manuscript. Without -o the file is named after the service's
Content-Disposition header; "-o -" writes to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		return app.Export(ctx, args[0], exportOutput)
	}),
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Destination file")
}
