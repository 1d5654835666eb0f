package main

import (
	"github.com/spf13/cobra"

	"movie-library/config"
	"movie-library/database"
	"movie-library/internal/catalog/codec"
	"movie-library/internal/catalog/exporter"
	"movie-library/internal/catalog/importer"
	"movie-library/internal/catalog/resolve"
	"movie-library/internal/fsio"
	"movie-library/internal/store"
)

func newRootCommand() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "movielibctl",
		Short:         "Movie library bulk import/export",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnvFile(envFile)
			database.InitDB()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to the dotenv file")

	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newExportCommand())

	return rootCmd
}

// newPipeline wires the run-scoped pipeline pieces: one resolver cache per
// invocation, discarded when the command exits.
func newPipeline() (*importer.Importer, *exporter.Exporter) {
	st := store.New(database.DB)
	resolver := resolve.NewResolver(st, st, st, resolve.NewCache())
	c := codec.New(resolver)

	im := importer.New(st, resolver, c)
	ex := exporter.New(st, resolver, c, fsio.OS{}, config.UPLOAD_ROOT)
	return im, ex
}
