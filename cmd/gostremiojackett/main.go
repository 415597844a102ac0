package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/amaumene/gostremiojackett/internal/constants"
)

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          "gostremiojackett",
		Short:        "Stremio addon serving torrent streams from Jackett indexers",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configFile)
		},
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", constants.DefaultConfigFile, "Path to the YAML config file")

	root.AddCommand(runServeCommand(&configFile))
	root.AddCommand(runSearchCommand(&configFile))
	return root
}

func runServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the addon HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configFile)
		},
	}
}
