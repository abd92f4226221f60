package aiclient

import (
	"context"
	"errors"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/scriptkid03/audioscript/models"
)

const openAIName = "openai"

// audioTranscriber is the subset of *openai.Client we use.
type audioTranscriber interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// OpenAIClient transcribes audio with Whisper or any OpenAI-compatible server.
type OpenAIClient struct {
	audio  audioTranscriber
	model  string
	logger *logrus.Logger
}

// NewOpenAIClient creates a Whisper client. baseURL may point at a
// compatible self-hosted server; empty means api.openai.com.
func NewOpenAIClient(apiKey, model, baseURL string, logger *logrus.Logger) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAIClient{audio: openai.NewClientWithConfig(cfg), model: model, logger: logger}
}

// Name returns the provider name.
func (c *OpenAIClient) Name() string {
	return openAIName
}

// TranscribeFile sends the file with word-level timestamps requested.
func (c *OpenAIClient) TranscribeFile(ctx context.Context, filePath string, language string) (*models.Transcript, error) {
	c.logger.WithFields(logrus.Fields{"file": filePath, "language": language, "model": c.model}).Debug("openai: transcribing file")

	resp, err := c.audio.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: filePath,
		Language: whisperLanguage(language),
		Format:   openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularityWord,
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &ProviderError{Provider: openAIName, Message: apiErr.Message, Err: err}
		}
		return nil, providerError(openAIName, err)
	}

	out := &models.Transcript{Text: strings.TrimSpace(resp.Text), Words: make([]models.Word, 0, len(resp.Words))}
	for _, w := range resp.Words {
		out.Words = append(out.Words, models.Word{
			Text:  w.Word,
			Start: int64(math.Round(w.Start * 1000)),
		})
	}
	return requireText(out)
}

// TranscribeURL is not offered by the OpenAI audio API.
func (c *OpenAIClient) TranscribeURL(context.Context, string, string) (*models.Transcript, error) {
	return nil, ErrUnsupported
}

// whisperLanguage reduces codes like "en_us" to the ISO-639-1 part Whisper expects.
func whisperLanguage(language string) string {
	if i := strings.IndexAny(language, "_-"); i > 0 {
		return language[:i]
	}
	return language
}
