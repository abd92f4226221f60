// Package cli wires the audioscript commands.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree. Running it without a subcommand serves the API.
func NewRootCommand() *cobra.Command {
	var envFiles []string

	serve := newServeCommand(&envFiles)

	root := &cobra.Command{
		Use:   "audioscript",
		Short: "Transcribe audio into timestamped sentences",
		Long: `AudioScript accepts audio uploads, sends them to a speech-to-text provider
and returns the raw transcript along with a sentence-per-line version
prefixed with HH:MM:SS.mmm timestamps.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         serve.RunE,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files to load before reading the environment")

	root.AddCommand(serve)
	root.AddCommand(newFormatCommand())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}
