package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/scriptkid03/audioscript/internal/formatter"
	"github.com/scriptkid03/audioscript/models"
)

func newFormatCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "format <transcript.json>",
		Short: "Format a saved transcript into timestamped sentences",
		Long: `Reads a transcript of the form {"text": ..., "words": [{"text": ..., "start": ms}]}
and prints one "HH:MM:SS.mmm sentence" line per sentence. Use "-" to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transcript, err := readTranscript(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			formatted, err := formatter.Format(*transcript)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(models.TranscribeResponse{
					Text:          transcript.Text,
					FormattedText: formatted,
				})
			}
			if formatted == "" {
				return nil
			}
			_, err = fmt.Fprintln(out, formatted)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the API response body instead of plain lines")
	return cmd
}

func readTranscript(stdin io.Reader, path string) (*models.Transcript, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open transcript: %w", err)
		}
		defer f.Close()
		r = f
	}

	var t models.Transcript
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode transcript %s: %w", path, err)
	}
	return &t, nil
}
