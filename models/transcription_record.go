package models

import (
	"time"

	"github.com/google/uuid"
)

// TranscriptionRecord represents a completed transcription in the history table.
type TranscriptionRecord struct {
	ID              uuid.UUID `json:"id"`
	Source          string    `json:"source"`
	Language        string    `json:"language"`
	Provider        string    `json:"provider"`
	Text            string    `json:"text"`
	FormattedText   string    `json:"formatted_text"`
	AudioDurationMs *int64    `json:"audio_duration_ms,omitempty"` // Nullable BIGINT
	CreatedAt       time.Time `json:"created_at"`
}
