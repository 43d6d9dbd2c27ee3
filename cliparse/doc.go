// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: sqlite path or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AudioRoot: directory with one folder per participant (default: audio-files)
  - AudioBaseURL: public prefix for audio URLs (default: http://localhost:<port>/audio)
  - CatalogFile: optional YAML participant manifest
  - MaxConcurrency: participants loaded in parallel (default: 8)
  - LogLevel: debug, info, warn or error (default: info)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	--audio-root     Audio directory
	--audio-base-url Audio URL prefix
	--catalog        Participant manifest
	--concurrency    Load concurrency
	--log-level      Log level

# Environment Variables

Flags fall back to environment variables. A .env file in the working
directory is loaded first (via godotenv) and never overrides variables that
are already set:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	AUDIO_ROOT      → --audio-root
	AUDIO_BASE_URL  → --audio-base-url
	CATALOG_FILE    → --catalog
	MAX_CONCURRENCY → --concurrency
	LOG_LEVEL       → --log-level

CLI flags take precedence over environment variables.

# Validation

The final Config is checked with go-playground/validator; ParseFlags returns
an error if DATABASE_URL is missing or a value is out of range.
*/
package cliparse
