// Package aiclient talks to third-party speech-to-text providers.
package aiclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/scriptkid03/audioscript/config"
	"github.com/scriptkid03/audioscript/models"
)

var (
	// ErrUnsupported is returned when a provider cannot serve a kind of input.
	ErrUnsupported = errors.New("operation not supported by provider")
	// ErrEmptyTranscript is returned when the provider finished without any text.
	ErrEmptyTranscript = errors.New("no transcription result received")
)

// Transcriber converts audio into a Transcript.
type Transcriber interface {
	TranscribeFile(ctx context.Context, filePath string, language string) (*models.Transcript, error)
	TranscribeURL(ctx context.Context, audioURL string, language string) (*models.Transcript, error)
	Name() string
}

// ProviderError carries the provider's own failure message.
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func providerError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Provider: provider, Message: err.Error(), Err: err}
}

// New returns the transcriber selected by cfg.Provider.
func New(cfg *config.Config, logger *logrus.Logger) (Transcriber, error) {
	switch cfg.Provider {
	case config.ProviderAssemblyAI:
		return NewAssemblyAIClient(cfg.AssemblyAIKey, logger), nil
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, logger), nil
	default:
		return nil, fmt.Errorf("unknown transcription provider %q", cfg.Provider)
	}
}

func requireText(t *models.Transcript) (*models.Transcript, error) {
	if t == nil || strings.TrimSpace(t.Text) == "" {
		return nil, ErrEmptyTranscript
	}
	return t, nil
}
