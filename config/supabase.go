package config

import (
	"fmt"

	supa "github.com/supabase-community/supabase-go"
)

// NewSupabaseClient builds a Supabase client for the history table.
// It returns nil when history persistence is not configured.
func NewSupabaseClient(cfg *Config) (*supa.Client, error) {
	if !cfg.HistoryEnabled() {
		return nil, nil
	}

	client, err := supa.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, nil)
	if err != nil {
		return nil, fmt.Errorf("initialize supabase client: %w", err)
	}
	return client, nil
}
