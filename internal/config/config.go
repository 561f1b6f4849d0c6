package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth; empty disables the API key check (local use).
	APIKey string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentFiles int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// File discovery and report output
	FileSuffix   string
	ReportSuffix string

	// Analysis
	Directionality bool
}

func Load() Config {
	// Optional .env for local development; real deployments set the env.
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("RSTREPORT_API_KEY"),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentFiles: envInt("MAX_CONCURRENT_FILES", 8),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		FileSuffix:   envOr("FILE_SUFFIX", ".rs3"),
		ReportSuffix: envOr("REPORT_SUFFIX", "_analysis.txt"),

		Directionality: envBool("DIRECTIONALITY", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentFiles <= 0 {
		cfg.MaxConcurrentFiles = 8
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.FileSuffix == "" {
		cfg.FileSuffix = ".rs3"
	}
	if cfg.ReportSuffix == "" {
		cfg.ReportSuffix = "_analysis.txt"
	}

	return cfg
}

func (c Config) Validate() error {
	// A report suffix ending in the file suffix would make reports rediscovered
	// as inputs on the next scan.
	if strings.HasSuffix(c.ReportSuffix, c.FileSuffix) {
		return fmt.Errorf("REPORT_SUFFIX %q must not end with FILE_SUFFIX %q", c.ReportSuffix, c.FileSuffix)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
