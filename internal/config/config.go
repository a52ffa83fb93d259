// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config представляет конфигурацию приложения
type Config struct {
	// Database
	DatabaseURL string

	// Spotify (основной каталог)
	SpotifyClientID     string
	SpotifyClientSecret string

	// Deezer (резервный каталог превью)
	DeezerBaseURL string

	// API
	APIPort string

	// Health
	HealthPort         string
	HealthCheckEnabled bool

	// Logging
	LogLevel string

	// HTTP Client
	HTTPClientConfig HTTPClientConfig

	// Retry
	RetryConfig RetryConfig

	// Recommendation pipeline
	RecommendConfig RecommendConfig

	// App Data Directory
	AppDataDir string
}

// HTTPClientConfig представляет конфигурацию HTTP клиента
type HTTPClientConfig struct {
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	DisableKeepAlives     bool
}

// RetryConfig представляет конфигурацию retry механизма
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// RecommendConfig представляет настройки пайплайна рекомендаций
type RecommendConfig struct {
	// Минимальное число треков для построения профиля вкуса
	MinTracksForProfile int
	// Минимальное число уникальных кандидатов до расширенного раунда запросов
	MinCandidates int
	// Жесткий предел накопленных кандидатов
	CandidateCap int
	// Лимит результатов одного поискового запроса к каталогу
	QueryLimit int
	// Число одновременных запросов к резервному каталогу за превью
	PreviewBatchSize int
	// Таймаут фонового обогащения превью в одном запросе API
	PreviewEnrichTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	if err := godotenv.Load(); err != nil {
		// Игнорируем ошибку если файл не найден
	}

	config := &Config{
		DatabaseURL:         getEnv("DB_DSN", ""),
		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		DeezerBaseURL:       getEnv("DEEZER_BASE_URL", "https://api.deezer.com"),
		APIPort:             getEnv("API_PORT", "8000"),
		HealthPort:          getEnv("HEALTH_PORT", "8080"),
		HealthCheckEnabled:  getEnvBool("HEALTH_CHECK_ENABLED", true),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		HTTPClientConfig: HTTPClientConfig{
			MaxIdleConns:          getEnvInt("HTTP_MAX_IDLE_CONNS", 100),
			MaxIdleConnsPerHost:   getEnvInt("HTTP_MAX_IDLE_CONNS_PER_HOST", 10),
			IdleConnTimeout:       getEnvDuration("HTTP_IDLE_CONN_TIMEOUT", 90*time.Second),
			TLSHandshakeTimeout:   getEnvDuration("HTTP_TLS_HANDSHAKE_TIMEOUT", 10*time.Second),
			ResponseHeaderTimeout: getEnvDuration("HTTP_RESPONSE_HEADER_TIMEOUT", 30*time.Second),
			DisableKeepAlives:     getEnvBool("HTTP_DISABLE_KEEP_ALIVES", false),
		},
		RetryConfig: RetryConfig{
			MaxRetries:        getEnvInt("RETRY_MAX_RETRIES", 3),
			InitialDelay:      getEnvDuration("RETRY_INITIAL_DELAY", 1*time.Second),
			MaxDelay:          getEnvDuration("RETRY_MAX_DELAY", 30*time.Second),
			BackoffMultiplier: getEnvFloat("RETRY_BACKOFF_MULTIPLIER", 2.0),
		},
		RecommendConfig: RecommendConfig{
			MinTracksForProfile:  getEnvInt("RECOMMEND_MIN_TRACKS_FOR_PROFILE", 10),
			MinCandidates:        getEnvInt("RECOMMEND_MIN_CANDIDATES", 20),
			CandidateCap:         getEnvInt("RECOMMEND_CANDIDATE_CAP", 300),
			QueryLimit:           getEnvInt("RECOMMEND_QUERY_LIMIT", 30),
			PreviewBatchSize:     getEnvInt("RECOMMEND_PREVIEW_BATCH_SIZE", 3),
			PreviewEnrichTimeout: getEnvDuration("RECOMMEND_PREVIEW_ENRICH_TIMEOUT", 10*time.Second),
		},
		AppDataDir: getEnv("APP_DATA_DIR", "./data"),
	}

	// Валидация обязательных полей
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.SpotifyClientID == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_ID is required")
	}
	if c.SpotifyClientSecret == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_SECRET is required")
	}
	if c.DeezerBaseURL == "" {
		return fmt.Errorf("DEEZER_BASE_URL is required")
	}

	if err := validatePort(c.APIPort, "API_PORT"); err != nil {
		return err
	}
	if c.HealthCheckEnabled {
		if err := validatePort(c.HealthPort, "HEALTH_PORT"); err != nil {
			return err
		}
	}

	if c.RecommendConfig.MinTracksForProfile < 1 {
		return fmt.Errorf("RECOMMEND_MIN_TRACKS_FOR_PROFILE must be positive")
	}
	if c.RecommendConfig.CandidateCap < c.RecommendConfig.MinCandidates {
		return fmt.Errorf("RECOMMEND_CANDIDATE_CAP must not be below RECOMMEND_MIN_CANDIDATES")
	}
	if c.RecommendConfig.QueryLimit < 1 {
		return fmt.Errorf("RECOMMEND_QUERY_LIMIT must be positive")
	}
	if c.RecommendConfig.PreviewBatchSize < 1 {
		return fmt.Errorf("RECOMMEND_PREVIEW_BATCH_SIZE must be positive")
	}

	return nil
}

// GetAppDataDir возвращает директорию данных приложения
func (c *Config) GetAppDataDir() string {
	return c.AppDataDir
}

func validatePort(port, name string) error {
	value, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("%s must be numeric: %w", name, err)
	}
	if value < 1 || value > 65535 {
		return fmt.Errorf("%s must be in range 1-65535", name)
	}
	return nil
}

// getEnv получает строковую переменную окружения со значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает целочисленную переменную окружения
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool получает логическую переменную окружения
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvFloat получает вещественную переменную окружения
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения с длительностью
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
