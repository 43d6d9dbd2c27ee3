// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/audio-rating/catalog"
	"github.com/danielhkuo/audio-rating/cliparse"
	"github.com/danielhkuo/audio-rating/identity"
	"github.com/danielhkuo/audio-rating/middleware"
	"github.com/danielhkuo/audio-rating/models"
	"github.com/danielhkuo/audio-rating/store"
)

type RatingHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	ratings  *store.RatingStore
	catalog  *catalog.Store
	identity *identity.Provider
}

func NewRatingHandler(db *sql.DB, cfg cliparse.Config) *RatingHandler {
	return &RatingHandler{
		db:       db,
		cfg:      cfg,
		ratings:  store.NewRatingStore(db),
		catalog:  catalog.NewStore(db, cfg.AudioRoot, cfg.AudioBaseURL),
		identity: identity.NewProvider(db),
	}
}

// Upsert handles PUT /ratings
// Creates or replaces the rating for (rater_id, participant_id, audio_name)
func (h *RatingHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertRatingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	ctx := r.Context()

	if _, err := h.identity.Get(ctx, req.RaterID); err != nil {
		writeEngineError(w, err, "save rating")
		return
	}
	if _, err := h.catalog.Participant(ctx, *req.ParticipantID); err != nil {
		writeEngineError(w, err, "save rating")
		return
	}

	rating := models.Rating{
		RaterID:       req.RaterID,
		ParticipantID: *req.ParticipantID,
		AudioName:     req.AudioName,
		Value:         req.Rating,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := h.ratings.Upsert(ctx, rating); err != nil {
		writeEngineError(w, err, "save rating")
		return
	}

	slog.Info("rating upserted",
		"rater_id", rating.RaterID,
		"participant_id", rating.ParticipantID,
		"audio_name", rating.AudioName,
		"rating", rating.Value,
	)

	middleware.JSONResponse(w, http.StatusOK, rating)
}

// List handles GET /raters/{id}/ratings
// Optional ?participant_id= narrows the list to one participant
func (h *RatingHandler) List(w http.ResponseWriter, r *http.Request) {
	raterID := r.PathValue("id")

	var participantID *int
	if raw := r.URL.Query().Get("participant_id"); raw != "" {
		pid, err := strconv.Atoi(raw)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid participant_id")
			return
		}
		participantID = &pid
	}

	ratings, err := h.ratings.ListByRater(r.Context(), raterID, participantID)
	if err != nil {
		writeEngineError(w, err, "list ratings")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListRatingsResponse{Ratings: ratings})
}
