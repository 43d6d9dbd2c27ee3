// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/audio-rating/cliparse"
	"github.com/danielhkuo/audio-rating/engine"
	"github.com/danielhkuo/audio-rating/identity"
	"github.com/danielhkuo/audio-rating/middleware"
	"github.com/danielhkuo/audio-rating/models"
)

type ProgressHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	engine   *engine.Engine
	identity *identity.Provider
}

func NewProgressHandler(db *sql.DB, cfg cliparse.Config) *ProgressHandler {
	return &ProgressHandler{
		db:       db,
		cfg:      cfg,
		engine:   newEngine(db, cfg),
		identity: identity.NewProvider(db),
	}
}

// Overview handles GET /raters/{id}/progress
// Returns every participant with this rater's progress and the overall rollup
func (h *ProgressHandler) Overview(w http.ResponseWriter, r *http.Request) {
	raterID := r.PathValue("id")
	if _, err := h.identity.Get(r.Context(), raterID); err != nil {
		writeEngineError(w, err, "load progress")
		return
	}

	overview, err := h.engine.LoadParticipants(r.Context(), raterID)
	if err != nil {
		writeEngineError(w, err, "load progress")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProgressResponse{
		Participants: overview.Participants,
		Progress:     overview.Progress,
		Overall:      overview.Overall,
		Degraded:     overview.Degraded,
	})
}

// Detail handles GET /raters/{id}/participants/{pid}
// Returns one participant's audio items with this rater's ratings
func (h *ProgressHandler) Detail(w http.ResponseWriter, r *http.Request) {
	raterID := r.PathValue("id")
	pid, ok := pathInt(r, "pid")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid participant id")
		return
	}

	if _, err := h.identity.Get(r.Context(), raterID); err != nil {
		writeEngineError(w, err, "load participant")
		return
	}

	detail, err := h.engine.LoadParticipantDetail(r.Context(), raterID, pid)
	if err != nil {
		writeEngineError(w, err, "load participant")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ParticipantDetailResponse{
		Participant: detail.Participant,
		AudioItems:  detail.AudioItems,
		Ratings:     detail.RatingMap,
		Progress:    detail.Progress,
		Degraded:    detail.Degraded,
	})
}
