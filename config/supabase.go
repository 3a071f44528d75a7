package config

import (
	"fmt"

	supa "github.com/supabase-community/supabase-go"
)

// NewSupabaseClient initializes a Supabase client from the loaded config.
// Returns nil without error when no Supabase URL is configured; the caller
// falls back to the in-memory stores in that case.
func NewSupabaseClient(cfg *Config) (*supa.Client, error) {
	if cfg.SupabaseURL == "" {
		return nil, nil
	}
	if cfg.SupabaseKey == "" {
		return nil, fmt.Errorf("supabase: SUPABASE_URL is set but SUPABASE_SERVICE_KEY is empty")
	}

	client, err := supa.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, nil)
	if err != nil {
		return nil, fmt.Errorf("supabase: initialize client: %w", err)
	}
	return client, nil
}
