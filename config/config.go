package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/scriptkid03/audioscript/utils"
)

const (
	ProviderAssemblyAI = "assemblyai"
	ProviderOpenAI     = "openai"
)

// DefaultAllowOrigins are the frontends allowed to call the API when
// CORS_ALLOW_ORIGINS is not set.
const DefaultAllowOrigins = "http://localhost:4200,https://audioscript-rho.vercel.app"

// Config holds everything the service reads from the environment.
type Config struct {
	Provider      string `validate:"oneof=assemblyai openai"`
	AssemblyAIKey string `validate:"required_if=Provider assemblyai"`
	OpenAIKey     string `validate:"required_if=Provider openai"`
	OpenAIModel   string
	OpenAIBaseURL string `validate:"omitempty,url"`

	Port              int           `validate:"min=1,max=65535"`
	AllowOrigins      string        `validate:"required"`
	LogLevel          string        `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat         string        `validate:"oneof=json text"`
	MaxUploadMB       int           `validate:"min=1"`
	TranscribeTimeout time.Duration `validate:"min=1s"`

	SupabaseURL      string `validate:"omitempty,url"`
	SupabaseKey      string `validate:"required_with=SupabaseURL"`
	HistoryWorkers   int    `validate:"min=1"`
	HistoryQueueSize int    `validate:"min=1"`

	GRPCHealthAddr string
}

// HistoryEnabled reports whether transcription records should be persisted.
func (c *Config) HistoryEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// ListenAddr returns the address Fiber listens on.
func (c *Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.Port)
}

// LoadDotEnv loads variables from the given files (default ".env") without
// overriding ones already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the configuration from the process environment and validates it.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	var errs []error
	envInt := func(key string, fallback int) int {
		raw := env(key, "")
		if raw == "" {
			return fallback
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return fallback
		}
		return v
	}

	cfg := &Config{
		Provider:         strings.ToLower(env("TRANSCRIPTION_PROVIDER", ProviderAssemblyAI)),
		AssemblyAIKey:    env("ASSEMBLYAI_API_KEY", ""),
		OpenAIKey:        env("OPENAI_API_KEY", ""),
		OpenAIModel:      env("OPENAI_MODEL", "whisper-1"),
		OpenAIBaseURL:    env("OPENAI_BASE_URL", ""),
		Port:             envInt("PORT", 8000),
		AllowOrigins:     env("CORS_ALLOW_ORIGINS", DefaultAllowOrigins),
		LogLevel:         strings.ToLower(env("LOG_LEVEL", "info")),
		LogFormat:        strings.ToLower(env("LOG_FORMAT", "json")),
		MaxUploadMB:      envInt("MAX_UPLOAD_MB", 100),
		SupabaseURL:      env("SUPABASE_URL", ""),
		SupabaseKey:      env("SUPABASE_SERVICE_KEY", ""),
		HistoryWorkers:   envInt("HISTORY_WORKERS", 2),
		HistoryQueueSize: envInt("HISTORY_QUEUE_SIZE", 100),
		GRPCHealthAddr:   env("GRPC_HEALTH_ADDR", ""),
	}

	timeout, err := time.ParseDuration(env("TRANSCRIBE_TIMEOUT", "10m"))
	if err != nil {
		errs = append(errs, fmt.Errorf("TRANSCRIBE_TIMEOUT: %w", err))
	}
	cfg.TranscribeTimeout = timeout

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := utils.Validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(utils.FormatValidationErrors(err), "; "))
	}
	return cfg, nil
}
