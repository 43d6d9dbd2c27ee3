package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           int    `validate:"min=1,max=65535"`
	DatabaseURL    string `validate:"required"`
	DatabaseType   string `validate:"oneof=sqlite postgres"`
	AudioRoot      string `validate:"required"`
	AudioBaseURL   string `validate:"required"`
	CatalogFile    string
	MaxConcurrency int    `validate:"min=1,max=64"`
	LogLevel       string `validate:"oneof=debug info warn error"`
}

var configValidator = validator.New()

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// A missing .env is fine; real environment variables always win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	fs := flag.NewFlagSet("audio-rating", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Catalog
	fs.StringVar(&cfg.AudioRoot, "audio-root", "", "Directory holding one folder per participant")
	fs.StringVar(&cfg.AudioBaseURL, "audio-base-url", "", "Public base URL for audio files")
	fs.StringVar(&cfg.CatalogFile, "catalog", "", "YAML participant manifest to sync at startup")

	fs.IntVar(&cfg.MaxConcurrency, "concurrency", 0, "Max participants loaded in parallel")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}

	if cfg.AudioRoot == "" {
		cfg.AudioRoot = os.Getenv("AUDIO_ROOT")
		if cfg.AudioRoot == "" {
			cfg.AudioRoot = "audio-files"
		}
	}
	if cfg.AudioBaseURL == "" {
		cfg.AudioBaseURL = os.Getenv("AUDIO_BASE_URL")
		if cfg.AudioBaseURL == "" {
			cfg.AudioBaseURL = "http://localhost:" + strconv.Itoa(cfg.Port) + "/audio"
		}
	}
	if cfg.CatalogFile == "" {
		cfg.CatalogFile = os.Getenv("CATALOG_FILE")
	}

	if cfg.MaxConcurrency == 0 {
		if s := os.Getenv("MAX_CONCURRENCY"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid MAX_CONCURRENCY env variable")
			}
			cfg.MaxConcurrency = n
		} else {
			cfg.MaxConcurrency = 8
		}
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("LOG_LEVEL")
		if cfg.LogLevel == "" {
			cfg.LogLevel = "info"
		}
	}

	if err := configValidator.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
