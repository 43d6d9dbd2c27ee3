// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sort"

	"github.com/danielhkuo/audio-rating/catalog"
	"github.com/danielhkuo/audio-rating/cliparse"
	"github.com/danielhkuo/audio-rating/middleware"
	"github.com/danielhkuo/audio-rating/models"
)

// lowRating is the highest rating counted towards LowShare
const lowRating = 2

type SummaryHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	catalog *catalog.Store
}

func NewSummaryHandler(db *sql.DB, cfg cliparse.Config) *SummaryHandler {
	return &SummaryHandler{
		db:      db,
		cfg:     cfg,
		catalog: catalog.NewStore(db, cfg.AudioRoot, cfg.AudioBaseURL),
	}
}

// Get handles GET /participants/{id}/summary
// Aggregates all raters' ratings per audio item, most similar first
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid participant id")
		return
	}

	p, err := h.catalog.Participant(r.Context(), id)
	if err != nil {
		writeEngineError(w, err, "summarize ratings")
		return
	}

	items, err := h.catalog.ListAudioItems(r.Context(), p.FolderKey)
	if err != nil {
		writeEngineError(w, err, "summarize ratings")
		return
	}

	summary, raters, err := ComputeRatingSummary(r.Context(), h.db, p.ID, items)
	if err != nil {
		writeEngineError(w, err, "summarize ratings")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ParticipantSummaryResponse{
		Participant: p,
		Raters:      raters,
		AudioItems:  summary,
	})
}

// ComputeRatingSummary ranks a participant's audio items by the ratings
// all raters gave them. Items without ratings are included with zero
// statistics; ratings for names not in items are ignored. Also returns
// how many distinct raters rated at least one item.
func ComputeRatingSummary(ctx context.Context, db *sql.DB, participantID int, items []models.AudioItem) ([]models.AudioSummary, int, error) {
	scores, ratedBy, err := getAudioScores(ctx, db, participantID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get audio scores: %w", err)
	}

	stats := make([]models.AudioSummary, 0, len(items))
	seen := make(map[string]bool, len(items))
	raters := make(map[string]bool)
	for _, item := range items {
		if seen[item.Name] {
			continue
		}
		seen[item.Name] = true
		for _, id := range ratedBy[item.Name] {
			raters[id] = true
		}

		values := scores[item.Name]
		sort.Float64s(values)

		stats = append(stats, models.AudioSummary{
			AudioName: item.Name,
			Count:     len(values),
			Median:    percentile(values, 0.5),
			P10:       percentile(values, 0.1),
			P90:       percentile(values, 0.9),
			Mean:      mean(values),
			LowShare:  lowShare(values),
		})
	}

	// Lexicographic order
	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]

		// 1. Rated items come first
		if (a.Count == 0) != (b.Count == 0) {
			return a.Count > 0
		}

		// 2. Higher median wins
		if a.Median != b.Median {
			return a.Median > b.Median
		}

		// 3. Higher p10 wins
		if a.P10 != b.P10 {
			return a.P10 > b.P10
		}

		// 4. Higher mean wins
		if a.Mean != b.Mean {
			return a.Mean > b.Mean
		}

		// 5. Stable tie-breaking by name
		return a.AudioName < b.AudioName
	})

	for i := range stats {
		stats[i].Rank = i + 1
	}

	return stats, len(raters), nil
}

// getAudioScores retrieves every rating for a participant grouped by audio
// name, plus the raters behind each name
func getAudioScores(ctx context.Context, db *sql.DB, participantID int) (map[string][]float64, map[string][]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT rater_id, audio_name, rating
		FROM rating
		WHERE participant_id = $1
		ORDER BY audio_name
	`, participantID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	scores := make(map[string][]float64)
	ratedBy := make(map[string][]string)
	for rows.Next() {
		var raterID, audioName string
		var value int
		if err := rows.Scan(&raterID, &audioName, &value); err != nil {
			return nil, nil, err
		}
		scores[audioName] = append(scores[audioName], float64(value))
		ratedBy[audioName] = append(ratedBy[audioName], raterID)
	}

	return scores, ratedBy, rows.Err()
}

// percentile calculates the p-th percentile of sorted data
// p should be in range [0, 1]
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0.0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	// Linear interpolation between closest ranks
	rank := p * float64(len(sorted)-1)
	lower := int(rank)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// mean calculates the arithmetic mean
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// lowShare calculates the fraction of ratings at or below lowRating
func lowShare(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}

	low := 0
	for _, v := range values {
		if v <= lowRating {
			low++
		}
	}
	return float64(low) / float64(len(values))
}
