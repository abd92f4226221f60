package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func mapEnv(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := load(mapEnv(map[string]string{"ASSEMBLYAI_API_KEY": "secret"}))
	require.NoError(t, err)
	require.Equal(t, ProviderAssemblyAI, cfg.Provider)
	require.Equal(t, 8000, cfg.Port)
	require.Equal(t, ":8000", cfg.ListenAddr())
	require.Equal(t, DefaultAllowOrigins, cfg.AllowOrigins)
	require.Equal(t, 10*time.Minute, cfg.TranscribeTimeout)
	require.Equal(t, "whisper-1", cfg.OpenAIModel)
	require.False(t, cfg.HistoryEnabled())
}

func TestLoadRequiresProviderCredential(t *testing.T) {
	t.Parallel()

	_, err := load(mapEnv(nil))
	require.Error(t, err)
	require.Contains(t, err.Error(), "AssemblyAIKey")

	_, err = load(mapEnv(map[string]string{
		"TRANSCRIPTION_PROVIDER": "openai",
		"ASSEMBLYAI_API_KEY":     "unused",
	}))
	require.Error(t, err)
	require.Contains(t, err.Error(), "OpenAIKey")

	cfg, err := load(mapEnv(map[string]string{
		"TRANSCRIPTION_PROVIDER": "OpenAI",
		"OPENAI_API_KEY":         "sk-test",
	}))
	require.NoError(t, err)
	require.Equal(t, ProviderOpenAI, cfg.Provider)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Parallel()

	_, err := load(mapEnv(map[string]string{"ASSEMBLYAI_API_KEY": "k", "PORT": "eighty"}))
	require.ErrorContains(t, err, "PORT")

	_, err = load(mapEnv(map[string]string{"ASSEMBLYAI_API_KEY": "k", "TRANSCRIBE_TIMEOUT": "soon"}))
	require.ErrorContains(t, err, "TRANSCRIBE_TIMEOUT")

	_, err = load(mapEnv(map[string]string{"ASSEMBLYAI_API_KEY": "k", "TRANSCRIPTION_PROVIDER": "vosk"}))
	require.ErrorContains(t, err, "Provider")

	_, err = load(mapEnv(map[string]string{"ASSEMBLYAI_API_KEY": "k", "SUPABASE_URL": "https://x.supabase.co"}))
	require.ErrorContains(t, err, "SupabaseKey")
}

func TestLoadHistoryEnabled(t *testing.T) {
	t.Parallel()

	cfg, err := load(mapEnv(map[string]string{
		"ASSEMBLYAI_API_KEY":   "k",
		"SUPABASE_URL":         "https://x.supabase.co",
		"SUPABASE_SERVICE_KEY": "service",
		"HISTORY_WORKERS":      "4",
	}))
	require.NoError(t, err)
	require.True(t, cfg.HistoryEnabled())
	require.Equal(t, 4, cfg.HistoryWorkers)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("AUDIOSCRIPT_DOTENV_PROBE=loaded\n"), 0o600))
	t.Setenv("AUDIOSCRIPT_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("AUDIOSCRIPT_DOTENV_PROBE"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	require.Equal(t, "loaded", os.Getenv("AUDIOSCRIPT_DOTENV_PROBE"))
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := newLogger(&buf, "debug", "json")
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("component", "test").Info("hello")
	require.Contains(t, buf.String(), `"component":"test"`)

	_, err = newLogger(&buf, "loud", "json")
	require.Error(t, err)
	_, err = newLogger(&buf, "info", "xml")
	require.Error(t, err)
}
