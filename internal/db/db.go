package db

import (
	"errors"
	"fmt"

	postgrest "github.com/supabase-community/postgrest-go"

	"github.com/google/uuid"

	"github.com/scriptkid03/audioscript/models"
)

const transcriptionsTable = "transcriptions"

// ErrNotFound is returned when no record matches the requested ID.
var ErrNotFound = errors.New("transcription not found")

// MaxListLimit caps how many history records one query may return.
const MaxListLimit = 100

// TableClient is satisfied by both *supabase.Client and *postgrest.Client.
type TableClient interface {
	From(table string) *postgrest.QueryBuilder
}

// Store persists transcription history in the Supabase "transcriptions" table.
type Store struct {
	client TableClient
}

// NewStore wraps a Supabase or PostgREST client.
func NewStore(client TableClient) *Store {
	return &Store{client: client}
}

// SaveTranscription inserts a completed transcription record.
func (s *Store) SaveTranscription(record models.TranscriptionRecord) error {
	var results []models.TranscriptionRecord
	// return=representation makes PostgREST echo the inserted row back.
	_, err := s.client.From(transcriptionsTable).
		Insert(record, false, "", "representation", "").
		ExecuteTo(&results)
	if err != nil {
		return fmt.Errorf("insert transcription %s: %w", record.ID, err)
	}

	if len(results) == 0 {
		return fmt.Errorf("no record returned after insert, id: %s", record.ID)
	}
	return nil
}

// RecentTranscriptions returns up to limit records, newest first.
func (s *Store) RecentTranscriptions(limit int) ([]models.TranscriptionRecord, error) {
	if limit < 1 {
		return nil, errors.New("limit must be positive")
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	var records []models.TranscriptionRecord
	_, err := s.client.From(transcriptionsTable).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		ExecuteTo(&records)
	if err != nil {
		return nil, fmt.Errorf("list transcriptions: %w", err)
	}
	return records, nil
}

// GetTranscription returns the record with the given ID.
func (s *Store) GetTranscription(id uuid.UUID) (*models.TranscriptionRecord, error) {
	var records []models.TranscriptionRecord
	_, err := s.client.From(transcriptionsTable).
		Select("*", "", false).
		Eq("id", id.String()).
		Limit(1, "").
		ExecuteTo(&records)
	if err != nil {
		return nil, fmt.Errorf("get transcription %s: %w", id, err)
	}

	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return &records[0], nil
}
