package db

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	postgrest "github.com/supabase-community/postgrest-go"

	"github.com/scriptkid03/audioscript/models"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := postgrest.NewClient(server.URL+"/rest/v1", "", map[string]string{
		"apikey":        "service-key",
		"Authorization": "Bearer service-key",
	})
	require.NoError(t, client.ClientError)
	return NewStore(client)
}

func TestSaveTranscription(t *testing.T) {
	t.Parallel()

	record := models.TranscriptionRecord{
		ID:            uuid.New(),
		Source:        "meeting.mp3",
		Language:      "en",
		Provider:      "assemblyai",
		Text:          "Hello world.",
		FormattedText: "00:00:00.000 Hello world.",
		CreatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/rest/v1/transcriptions", r.URL.Path)
		require.Contains(t, r.Header.Get("Prefer"), "return=representation")
		require.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var got models.TranscriptionRecord
		require.NoError(t, json.Unmarshal(body, &got))
		require.Equal(t, record.ID, got.ID)
		require.Nil(t, got.AudioDurationMs)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]models.TranscriptionRecord{got})
	})

	require.NoError(t, store.SaveTranscription(record))
}

func TestSaveTranscriptionEmptyResponse(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[]`))
	})

	require.Error(t, store.SaveTranscription(models.TranscriptionRecord{ID: uuid.New()}))
}

func TestRecentTranscriptions(t *testing.T) {
	t.Parallel()

	duration := int64(4200)
	fixture := []models.TranscriptionRecord{
		{ID: uuid.New(), Source: "b.wav", Language: "en", Provider: "openai", AudioDurationMs: &duration},
		{ID: uuid.New(), Source: "a.wav", Language: "de", Provider: "assemblyai"},
	}

	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/rest/v1/transcriptions", r.URL.Path)
		query := r.URL.Query()
		require.Equal(t, "*", query.Get("select"))
		require.True(t, strings.HasPrefix(query.Get("order"), "created_at.desc"), query.Get("order"))
		require.Equal(t, "100", query.Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(fixture)
	})

	records, err := store.RecentTranscriptions(500)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "b.wav", records[0].Source)
	require.EqualValues(t, 4200, *records[0].AudioDurationMs)

	_, err = store.RecentTranscriptions(0)
	require.Error(t, err)
}

func TestGetTranscription(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/v1/transcriptions", r.URL.Path)
		query := r.URL.Query()
		require.Equal(t, "1", query.Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		if query.Get("id") == "eq."+id.String() {
			_ = json.NewEncoder(w).Encode([]models.TranscriptionRecord{{ID: id, Source: "call.m4a"}})
			return
		}
		_, _ = io.WriteString(w, "[]")
	})

	record, err := store.GetTranscription(id)
	require.NoError(t, err)
	require.Equal(t, id, record.ID)
	require.Equal(t, "call.m4a", record.Source)

	_, err = store.GetTranscription(uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}
