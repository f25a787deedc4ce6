package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/aretw0/folio/internal/cli"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "folio drives a fiction authoring service from the terminal",
	Long: `folio talks to the authoring service's API: it lists and edits novels, generates
outlines and scene beats, streams scene prose and exports manuscripts.

Configuration is read from folio.yaml, then FOLIO_* environment variables (a .env file
is loaded first), then flags.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env not loaded: %v\n", err)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file (default ./folio.yaml)")
	rootCmd.PersistentFlags().String("endpoint", "", "Service endpoint, overrides the configuration")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logs on stderr")
	rootCmd.PersistentFlags().Bool("json", false, "Print JSON instead of rendered markdown")
}

// withApp builds the App from the global flags and runs fn under a signal-aware context.
func withApp(fn func(ctx context.Context, app *cli.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		endpoint, _ := cmd.Flags().GetString("endpoint")
		debug, _ := cmd.Flags().GetBool("debug")
		jsonMode, _ := cmd.Flags().GetBool("json")

		app, err := cli.NewApp(cli.Options{
			ConfigPath: configPath,
			Endpoint:   endpoint,
			Debug:      debug,
			JSON:       jsonMode,
			Out:        cmd.OutOrStdout(),
		})
		if err != nil {
			return err
		}
		defer app.Close()

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		go func() {
			if err := app.ServeMetrics(sc); err != nil {
				app.Logger.Error("metrics listener failed", "err", err)
			}
		}()

		err = fn(sc, app, args)
		if sc.Signal() != nil && cli.IsInterrupted(err) {
			return nil
		}
		return err
	}
}
