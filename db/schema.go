// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is valid for both PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Participants (managed externally, seeded from the catalog manifest)
CREATE TABLE IF NOT EXISTS participant (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    folder_key TEXT NOT NULL UNIQUE
);

-- Raters
CREATE TABLE IF NOT EXISTS rater (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Ratings, one row per (rater, participant, audio file)
CREATE TABLE IF NOT EXISTS rating (
    rater_id TEXT NOT NULL REFERENCES rater(id) ON DELETE CASCADE,
    participant_id INTEGER NOT NULL REFERENCES participant(id) ON DELETE CASCADE,
    audio_name TEXT NOT NULL,
    rating INTEGER NOT NULL CHECK (rating >= 1 AND rating <= 5),
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (rater_id, participant_id, audio_name)
);

CREATE INDEX IF NOT EXISTS idx_rating_rater_participant ON rating(rater_id, participant_id);
CREATE INDEX IF NOT EXISTS idx_rating_participant ON rating(participant_id);
`
