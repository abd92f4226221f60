package main

import (
	"os"

	"github.com/scriptkid03/audioscript/internal/cli"
)

// @title AudioScript API
// @version 1.0
// @description Uploads audio to a speech-to-text provider and returns timestamped transcripts.
// @BasePath /
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
