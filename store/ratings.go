// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/audio-rating/models"
)

// RatingStore persists ratings keyed by (rater, participant, audio name)
type RatingStore struct {
	db *sql.DB
}

func NewRatingStore(db *sql.DB) *RatingStore {
	return &RatingStore{db: db}
}

// Upsert writes one rating. A second write for the same key replaces the
// value in place; there is never more than one row per key.
func (s *RatingStore) Upsert(ctx context.Context, r models.Rating) error {
	updatedAt := r.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rating (rater_id, participant_id, audio_name, rating, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (rater_id, participant_id, audio_name) DO UPDATE SET
			rating = excluded.rating,
			updated_at = excluded.updated_at
	`, r.RaterID, r.ParticipantID, r.AudioName, r.Value, updatedAt)
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// ListByRater returns the rater's ratings, optionally limited to one
// participant, ordered by participant then audio name.
func (s *RatingStore) ListByRater(ctx context.Context, raterID string, participantID *int) ([]models.Rating, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if participantID != nil {
		rows, err = s.db.QueryContext(ctx, `
			SELECT rater_id, participant_id, audio_name, rating, updated_at
			FROM rating
			WHERE rater_id = $1 AND participant_id = $2
			ORDER BY participant_id, audio_name
		`, raterID, *participantID)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT rater_id, participant_id, audio_name, rating, updated_at
			FROM rating
			WHERE rater_id = $1
			ORDER BY participant_id, audio_name
		`, raterID)
	}
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	ratings := []models.Rating{}
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.RaterID, &r.ParticipantID, &r.AudioName, &r.Value, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return ratings, nil
}
