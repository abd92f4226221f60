package jobs

import (
	"fmt"

	"github.com/scriptkid03/audioscript/models"
)

// TranscriptionSaver persists a finished transcription.
type TranscriptionSaver interface {
	SaveTranscription(record models.TranscriptionRecord) error
}

// RecordTranscriptionJob writes one transcription to the history store.
type RecordTranscriptionJob struct {
	Record models.TranscriptionRecord
	Saver  TranscriptionSaver
}

// NewRecordTranscriptionJob creates a job for the given record.
func NewRecordTranscriptionJob(saver TranscriptionSaver, record models.TranscriptionRecord) *RecordTranscriptionJob {
	return &RecordTranscriptionJob{Record: record, Saver: saver}
}

// ID returns the record ID.
func (j *RecordTranscriptionJob) ID() string {
	return j.Record.ID.String()
}

// Execute saves the record.
func (j *RecordTranscriptionJob) Execute() error {
	if err := j.Saver.SaveTranscription(j.Record); err != nil {
		return fmt.Errorf("record transcription %s: %w", j.Record.ID, err)
	}
	return nil
}
