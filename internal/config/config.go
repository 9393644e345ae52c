// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort string
	DBPath  string

	AIServiceURL string
	AITimeout    time.Duration
	DefaultLang  string

	ExportDir string

	SMTPHost    string
	SMTPPort    int
	SMTPFrom    string
	NotifyEmail string

	ReminderPollInterval time.Duration
	SummaryThreshold     int
	CommandVerbs         []string

	// Semantic search is enabled only when QdrantURL is set.
	QdrantURL        string
	QdrantCollection string
	EmbeddingBaseURL string
	EmbeddingModel   string
	VectorSize       int

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables and returns a
// Config struct, applying defaults for optional fields. A .env file in
// the current directory or a parent is loaded first; variables already
// set in the environment take precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// Walk up from the working directory looking for a project .env.
	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:          getEnv("API_PORT", "8000"),
		DBPath:           getEnv("DB_PATH", "./data/digitalbrain.db"),
		AIServiceURL:     getEnv("AI_SERVICE_URL", "http://localhost:8001"),
		DefaultLang:      getEnv("DEFAULT_LANG", "es"),
		ExportDir:        getEnv("EXPORT_DIR", "./data/brain"),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPFrom:         getEnv("SMTP_FROM", ""),
		NotifyEmail:      getEnv("NOTIFY_EMAIL", ""),
		QdrantURL:        getEnv("QDRANT_URL", ""),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "entries"),
		EmbeddingBaseURL: getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "granite-embedding-278m-multilingual"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.AITimeout, err = getDuration("AI_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.ReminderPollInterval, err = getDuration("REMINDER_POLL_INTERVAL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = getInt("SMTP_PORT", 25); err != nil {
		return nil, err
	}
	if cfg.SummaryThreshold, err = getInt("SUMMARY_THRESHOLD", 10); err != nil {
		return nil, err
	}
	if cfg.VectorSize, err = getInt("VECTOR_SIZE", 1024); err != nil {
		return nil, err
	}

	if verbs := getEnv("COMMAND_VERBS", ""); verbs != "" {
		for _, v := range strings.Split(verbs, ",") {
			if v = strings.TrimSpace(v); v != "" {
				cfg.CommandVerbs = append(cfg.CommandVerbs, strings.ToLower(v))
			}
		}
	}

	if cfg.SMTPHost != "" && (cfg.SMTPFrom == "" || cfg.NotifyEmail == "") {
		return nil, fmt.Errorf("SMTP_FROM and NOTIFY_EMAIL are required when SMTP_HOST is set")
	}

	for _, dir := range []string{filepath.Dir(cfg.DBPath), cfg.ExportDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	// Accept either a Go duration string or a plain number of seconds.
	if d, err := time.ParseDuration(raw); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("%s must be positive", key)
		}
		return d, nil
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return 0, fmt.Errorf("%s must be a duration or a positive number of seconds", key)
	}
	return time.Duration(secs) * time.Second, nil
}
