package aiclient

import (
	"context"
	"fmt"
	"io"
	"os"

	assemblyai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/sirupsen/logrus"

	"github.com/scriptkid03/audioscript/models"
)

const assemblyAIName = "assemblyai"

// transcriptService is the subset of *assemblyai.TranscriptService we use.
type transcriptService interface {
	TranscribeFromReader(ctx context.Context, reader io.Reader, params *assemblyai.TranscriptOptionalParams) (assemblyai.Transcript, error)
	TranscribeFromURL(ctx context.Context, audioURL string, params *assemblyai.TranscriptOptionalParams) (assemblyai.Transcript, error)
}

// AssemblyAIClient transcribes audio with the AssemblyAI API.
type AssemblyAIClient struct {
	transcripts transcriptService
	logger      *logrus.Logger
}

// NewAssemblyAIClient creates a client authenticated with apiKey.
func NewAssemblyAIClient(apiKey string, logger *logrus.Logger) *AssemblyAIClient {
	client := assemblyai.NewClient(apiKey)
	return &AssemblyAIClient{transcripts: client.Transcripts, logger: logger}
}

// Name returns the provider name.
func (c *AssemblyAIClient) Name() string {
	return assemblyAIName
}

// TranscribeFile uploads the file at filePath and waits for the transcript.
func (c *AssemblyAIClient) TranscribeFile(ctx context.Context, filePath string, language string) (*models.Transcript, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	c.logger.WithFields(logrus.Fields{"file": filePath, "language": language}).Debug("assemblyai: transcribing file")
	transcript, err := c.transcripts.TranscribeFromReader(ctx, f, params(language))
	if err != nil {
		return nil, providerError(assemblyAIName, err)
	}
	return fromAssemblyAI(transcript)
}

// TranscribeURL asks AssemblyAI to fetch and transcribe a public audio URL.
func (c *AssemblyAIClient) TranscribeURL(ctx context.Context, audioURL string, language string) (*models.Transcript, error) {
	c.logger.WithFields(logrus.Fields{"url": audioURL, "language": language}).Debug("assemblyai: transcribing url")
	transcript, err := c.transcripts.TranscribeFromURL(ctx, audioURL, params(language))
	if err != nil {
		return nil, providerError(assemblyAIName, err)
	}
	return fromAssemblyAI(transcript)
}

func params(language string) *assemblyai.TranscriptOptionalParams {
	return &assemblyai.TranscriptOptionalParams{
		LanguageCode: assemblyai.TranscriptLanguageCode(language),
	}
}

// fromAssemblyAI maps the SDK transcript onto our model. A transcript that
// finished with status "error" is a provider failure.
func fromAssemblyAI(t assemblyai.Transcript) (*models.Transcript, error) {
	if t.Status == assemblyai.TranscriptStatusError {
		msg := "transcription failed"
		if t.Error != nil && *t.Error != "" {
			msg = *t.Error
		}
		return nil, &ProviderError{Provider: assemblyAIName, Message: msg}
	}

	out := &models.Transcript{Words: make([]models.Word, 0, len(t.Words))}
	if t.Text != nil {
		out.Text = *t.Text
	}
	for _, w := range t.Words {
		var word models.Word
		if w.Text != nil {
			word.Text = *w.Text
		}
		if w.Start != nil {
			word.Start = *w.Start
		}
		out.Words = append(out.Words, word)
	}
	return requireText(out)
}
