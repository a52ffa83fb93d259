package config

import (
	"os"
	"testing"
	"time"
)

func validTestConfig() *Config {
	return &Config{
		DatabaseURL:         "postgres://localhost:5432/lyrafy",
		SpotifyClientID:     "test-client-id",
		SpotifyClientSecret: "test-client-secret",
		DeezerBaseURL:       "https://api.deezer.com",
		APIPort:             "8000",
		HealthPort:          "8080",
		HealthCheckEnabled:  true,
		RecommendConfig: RecommendConfig{
			MinTracksForProfile:  10,
			MinCandidates:        20,
			CandidateCap:         300,
			QueryLimit:           30,
			PreviewBatchSize:     3,
			PreviewEnrichTimeout: 10 * time.Second,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.DatabaseURL = "" },
			wantErr: true,
		},
		{
			name:    "missing spotify client id",
			mutate:  func(c *Config) { c.SpotifyClientID = "" },
			wantErr: true,
		},
		{
			name:    "missing spotify client secret",
			mutate:  func(c *Config) { c.SpotifyClientSecret = "" },
			wantErr: true,
		},
		{
			name:    "missing deezer base url",
			mutate:  func(c *Config) { c.DeezerBaseURL = "" },
			wantErr: true,
		},
		{
			name:    "invalid api port",
			mutate:  func(c *Config) { c.APIPort = "not-a-port" },
			wantErr: true,
		},
		{
			name:    "out of range health port",
			mutate:  func(c *Config) { c.HealthPort = "70000" },
			wantErr: true,
		},
		{
			name: "health port ignored when health check disabled",
			mutate: func(c *Config) {
				c.HealthCheckEnabled = false
				c.HealthPort = "not-a-port"
			},
			wantErr: false,
		},
		{
			name:    "zero min tracks",
			mutate:  func(c *Config) { c.RecommendConfig.MinTracksForProfile = 0 },
			wantErr: true,
		},
		{
			name:    "candidate cap below min candidates",
			mutate:  func(c *Config) { c.RecommendConfig.CandidateCap = 10 },
			wantErr: true,
		},
		{
			name:    "zero query limit",
			mutate:  func(c *Config) { c.RecommendConfig.QueryLimit = 0 },
			wantErr: true,
		},
		{
			name:    "zero preview batch size",
			mutate:  func(c *Config) { c.RecommendConfig.PreviewBatchSize = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validTestConfig()
			tt.mutate(config)

			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// safeSetEnv безопасно устанавливает переменную окружения
func safeSetEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("Failed to set env var %s: %v", key, err)
	}
}

// safeUnsetEnv безопасно удаляет переменную окружения
func safeUnsetEnv(t *testing.T, key string) {
	t.Helper()
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("Failed to unset env var %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	safeSetEnv(t, "DB_DSN", "postgres://localhost:5432/lyrafy")
	safeSetEnv(t, "SPOTIFY_CLIENT_ID", "test-client-id")
	safeSetEnv(t, "SPOTIFY_CLIENT_SECRET", "test-client-secret")
	defer func() {
		safeUnsetEnv(t, "DB_DSN")
		safeUnsetEnv(t, "SPOTIFY_CLIENT_ID")
		safeUnsetEnv(t, "SPOTIFY_CLIENT_SECRET")
	}()

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if config.DeezerBaseURL != "https://api.deezer.com" {
		t.Errorf("Expected default deezer base url, got %s", config.DeezerBaseURL)
	}
	if config.APIPort != "8000" {
		t.Errorf("Expected default API port 8000, got %s", config.APIPort)
	}
	if config.RecommendConfig.MinTracksForProfile != 10 {
		t.Errorf("Expected min tracks 10, got %d", config.RecommendConfig.MinTracksForProfile)
	}
	if config.RecommendConfig.CandidateCap != 300 {
		t.Errorf("Expected candidate cap 300, got %d", config.RecommendConfig.CandidateCap)
	}
	if config.RecommendConfig.PreviewBatchSize != 3 {
		t.Errorf("Expected preview batch size 3, got %d", config.RecommendConfig.PreviewBatchSize)
	}
	if config.RecommendConfig.PreviewEnrichTimeout != 10*time.Second {
		t.Errorf("Expected preview enrich timeout 10s, got %v", config.RecommendConfig.PreviewEnrichTimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	safeSetEnv(t, "DB_DSN", "postgres://localhost:5432/lyrafy")
	safeSetEnv(t, "SPOTIFY_CLIENT_ID", "test-client-id")
	safeSetEnv(t, "SPOTIFY_CLIENT_SECRET", "test-client-secret")
	safeSetEnv(t, "API_PORT", "9000")
	safeSetEnv(t, "RECOMMEND_CANDIDATE_CAP", "100")
	defer func() {
		safeUnsetEnv(t, "DB_DSN")
		safeUnsetEnv(t, "SPOTIFY_CLIENT_ID")
		safeUnsetEnv(t, "SPOTIFY_CLIENT_SECRET")
		safeUnsetEnv(t, "API_PORT")
		safeUnsetEnv(t, "RECOMMEND_CANDIDATE_CAP")
	}()

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if config.APIPort != "9000" {
		t.Errorf("Expected API port 9000, got %s", config.APIPort)
	}
	if config.RecommendConfig.CandidateCap != 100 {
		t.Errorf("Expected candidate cap 100, got %d", config.RecommendConfig.CandidateCap)
	}
}
