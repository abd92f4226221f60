package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/scriptkid03/audioscript/internal/worker"
	"github.com/scriptkid03/audioscript/models"
)

// DefaultTranscribeTimeout bounds a provider call when none is configured.
const DefaultTranscribeTimeout = 10 * time.Minute

// TranscriberInterface defines the operations handlers expect from a speech-to-text client.
type TranscriberInterface interface {
	TranscribeFile(ctx context.Context, filePath string, language string) (*models.Transcript, error)
	TranscribeURL(ctx context.Context, audioURL string, language string) (*models.Transcript, error)
	Name() string
}

// HistoryStore persists and lists completed transcriptions.
type HistoryStore interface {
	SaveTranscription(record models.TranscriptionRecord) error
	RecentTranscriptions(limit int) ([]models.TranscriptionRecord, error)
	GetTranscription(id uuid.UUID) (*models.TranscriptionRecord, error)
}

// JobSubmitter queues background work.
type JobSubmitter interface {
	SubmitJob(job worker.Job) error
}

// DurationProber reads the duration of an audio file.
type DurationProber interface {
	Duration(ctx context.Context, filePath string) (time.Duration, error)
}

// ApplicationHandler holds shared dependencies for handlers.
// History, Jobs and Prober are optional; nil disables the feature.
type ApplicationHandler struct {
	Transcriber       TranscriberInterface
	Logger            *logrus.Logger
	History           HistoryStore
	Jobs              JobSubmitter
	Prober            DurationProber
	TranscribeTimeout time.Duration
	TempDir           string
}

// NewApplicationHandler creates a new ApplicationHandler with the required dependencies.
func NewApplicationHandler(transcriber TranscriberInterface, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		Transcriber:       transcriber,
		Logger:            logger,
		TranscribeTimeout: DefaultTranscribeTimeout,
	}
}
