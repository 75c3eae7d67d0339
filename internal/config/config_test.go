package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadTuningFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	content := `
sweep_batch_size: 5
batch_delay: 250ms
genre_similarity_threshold: 0.8
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write tuning file: %v", err)
	}

	tuning, err := LoadTuningFile(path, DefaultTuning())
	if err != nil {
		t.Fatalf("load tuning: %v", err)
	}
	if tuning.SweepBatchSize != 5 {
		t.Fatalf("expected sweep batch size 5, got %d", tuning.SweepBatchSize)
	}
	if tuning.BatchDelay != 250*time.Millisecond {
		t.Fatalf("expected batch delay 250ms, got %s", tuning.BatchDelay)
	}
	if tuning.GenreSimilarityThreshold != 0.8 {
		t.Fatalf("expected genre threshold 0.8, got %v", tuning.GenreSimilarityThreshold)
	}
	if tuning.CoverBatchSize != 10 {
		t.Fatalf("expected cover batch size to keep default 10, got %d", tuning.CoverBatchSize)
	}
	if tuning.TitleSimilarityThreshold != 0.70 {
		t.Fatalf("expected title threshold to keep default 0.70, got %v", tuning.TitleSimilarityThreshold)
	}
}

func TestLoadTuningFileMissingKeepsBase(t *testing.T) {
	tuning, err := LoadTuningFile(filepath.Join(t.TempDir(), "missing.yaml"), DefaultTuning())
	if err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
	if tuning != DefaultTuning() {
		t.Fatalf("expected defaults, got %+v", tuning)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("SWEEP_BATCH_SIZE", "4")
	t.Setenv("TITLE_SIMILARITY_THRESHOLD", "0.9")
	t.Setenv("BATCH_DELAY", "2s")
	t.Setenv("COVER_BATCH_SIZE", "-1")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Tuning.SweepBatchSize != 4 {
		t.Fatalf("expected sweep batch size 4, got %d", cfg.Tuning.SweepBatchSize)
	}
	if cfg.Tuning.TitleSimilarityThreshold != 0.9 {
		t.Fatalf("expected title threshold 0.9, got %v", cfg.Tuning.TitleSimilarityThreshold)
	}
	if cfg.Tuning.BatchDelay != 2*time.Second {
		t.Fatalf("expected batch delay 2s, got %s", cfg.Tuning.BatchDelay)
	}
	if cfg.Tuning.CoverBatchSize != 10 {
		t.Fatalf("expected invalid cover batch size to fall back to 10, got %d", cfg.Tuning.CoverBatchSize)
	}
	if cfg.FetchUserAgent != defaultUserAgent {
		t.Fatalf("expected default user agent, got %q", cfg.FetchUserAgent)
	}
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "LOUD")
	if _, err := Load(); err == nil {
		t.Fatalf("expected invalid log level to fail")
	}
}
