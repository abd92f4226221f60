package jobs

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/scriptkid03/audioscript/models"
)

type saverFunc func(models.TranscriptionRecord) error

func (f saverFunc) SaveTranscription(r models.TranscriptionRecord) error { return f(r) }

func TestRecordTranscriptionJob(t *testing.T) {
	t.Parallel()

	record := models.TranscriptionRecord{ID: uuid.New(), Source: "clip.m4a"}

	var saved models.TranscriptionRecord
	job := NewRecordTranscriptionJob(saverFunc(func(r models.TranscriptionRecord) error {
		saved = r
		return nil
	}), record)

	require.Equal(t, record.ID.String(), job.ID())
	require.NoError(t, job.Execute())
	require.Equal(t, record, saved)

	boom := errors.New("insert failed")
	failing := NewRecordTranscriptionJob(saverFunc(func(models.TranscriptionRecord) error { return boom }), record)
	require.ErrorIs(t, failing.Execute(), boom)
}
