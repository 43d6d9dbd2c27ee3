// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the audio rating API server.

Raters listen to audio clips grouped by participant and give each clip a
similarity rating from 1 to 5. The server stores one rating per
(rater, participant, clip) and reports each rater's completion progress.

# Starting the Server

With no settings the server uses a SQLite database given by DATABASE_URL:

	DATABASE_URL=ratings.db go run .

Or with flags, against PostgreSQL:

	go run . -p 3318 -t postgres -d "postgres://..." -catalog catalog.yaml

# Configuration

Settings come from flags, then environment variables, then a .env file:

  - DATABASE_URL (-d): database path or connection string (required)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - PORT (-p): server port (default: 3318)
  - AUDIO_ROOT (-audio-root): one folder per participant (default: audio-files)
  - AUDIO_BASE_URL (-audio-base-url): public prefix for clip URLs
  - CATALOG_FILE (-catalog): YAML participant manifest synced at startup
  - MAX_CONCURRENCY (-concurrency): parallel fetches per progress load (default: 8)
  - LOG_LEVEL (-log-level): debug, info, warn or error (default: info)

# Architecture

  - engine: loading, optimistic rating sessions and progress
  - catalog: participants and audio folder listings
  - store: rating persistence
  - identity: rater get-or-create by name
  - handlers, router, middleware: HTTP API
  - metrics: Prometheus collectors
  - client, localstate, cmd/ratectl: terminal client
  - db, cliparse, models: schema, configuration and types

See package documentation for each component.
*/
package main
