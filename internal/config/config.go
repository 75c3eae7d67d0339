package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

type Config struct {
	Environment    string
	AppName        string
	Port           string
	LogLevel       slog.Level
	SQLitePath     string
	MigrationsPath string

	FetchUserAgent string
	FetchTimeout   time.Duration

	Tuning Tuning

	CoverMirrorDir     string
	CoverMirrorBaseURL string
	NotifyWebhookURL   string
}

type Tuning struct {
	SweepBatchSize           int           `yaml:"sweep_batch_size"`
	CoverBatchSize           int           `yaml:"cover_batch_size"`
	BatchDelay               time.Duration `yaml:"batch_delay"`
	GenreSimilarityThreshold float64       `yaml:"genre_similarity_threshold"`
	TitleSimilarityThreshold float64       `yaml:"title_similarity_threshold"`
	SimilarityCacheTTL       time.Duration `yaml:"similarity_cache_ttl"`
}

func DefaultTuning() Tuning {
	return Tuning{
		SweepBatchSize:           3,
		CoverBatchSize:           10,
		BatchDelay:               time.Second,
		GenreSimilarityThreshold: 0.75,
		TitleSimilarityThreshold: 0.70,
		SimilarityCacheTTL:       5 * time.Minute,
	}
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:        getEnv("APP_ENV", "development"),
		AppName:            getEnv("APP_NAME", "reading-tracker"),
		Port:               getEnv("APP_PORT", "8080"),
		SQLitePath:         getEnv("SQLITE_PATH", "./data/app.sqlite"),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", ""),
		FetchUserAgent:     getEnv("FETCH_USER_AGENT", defaultUserAgent),
		FetchTimeout:       getEnvAsDuration("FETCH_TIMEOUT", 15*time.Second),
		CoverMirrorDir:     getEnv("COVER_MIRROR_DIR", "./data/covers"),
		CoverMirrorBaseURL: getEnv("COVER_MIRROR_BASE_URL", "/covers"),
		NotifyWebhookURL:   getEnv("NOTIFY_WEBHOOK_URL", ""),
	}

	tuning, err := LoadTuningFile(getEnv("TUNING_FILE", ""), DefaultTuning())
	if err != nil {
		return Config{}, err
	}
	cfg.Tuning = applyTuningEnv(tuning)

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "INFO"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

func applyTuningEnv(t Tuning) Tuning {
	t.SweepBatchSize = getEnvAsInt("SWEEP_BATCH_SIZE", t.SweepBatchSize)
	t.CoverBatchSize = getEnvAsInt("COVER_BATCH_SIZE", t.CoverBatchSize)
	t.BatchDelay = getEnvAsDuration("BATCH_DELAY", t.BatchDelay)
	t.GenreSimilarityThreshold = getEnvAsFloat("GENRE_SIMILARITY_THRESHOLD", t.GenreSimilarityThreshold)
	t.TitleSimilarityThreshold = getEnvAsFloat("TITLE_SIMILARITY_THRESHOLD", t.TitleSimilarityThreshold)
	t.SimilarityCacheTTL = getEnvAsDuration("SIMILARITY_CACHE_TTL", t.SimilarityCacheTTL)
	return t.normalized()
}

func (t Tuning) normalized() Tuning {
	defaults := DefaultTuning()
	if t.SweepBatchSize <= 0 {
		t.SweepBatchSize = defaults.SweepBatchSize
	}
	if t.CoverBatchSize <= 0 {
		t.CoverBatchSize = defaults.CoverBatchSize
	}
	if t.BatchDelay < 0 {
		t.BatchDelay = defaults.BatchDelay
	}
	if t.GenreSimilarityThreshold <= 0 || t.GenreSimilarityThreshold > 1 {
		t.GenreSimilarityThreshold = defaults.GenreSimilarityThreshold
	}
	if t.TitleSimilarityThreshold <= 0 || t.TitleSimilarityThreshold > 1 {
		t.TitleSimilarityThreshold = defaults.TitleSimilarityThreshold
	}
	if t.SimilarityCacheTTL < 0 {
		t.SimilarityCacheTTL = defaults.SimilarityCacheTTL
	}
	return t
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch raw {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q, expected DEBUG|INFO|WARN|ERROR", raw)
	}
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
