// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/audio-rating/cliparse"
	"github.com/danielhkuo/audio-rating/engine"
	"github.com/danielhkuo/audio-rating/identity"
	"github.com/danielhkuo/audio-rating/middleware"
	"github.com/danielhkuo/audio-rating/models"
)

type RaterHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	engine   *engine.Engine
	identity *identity.Provider
}

func NewRaterHandler(db *sql.DB, cfg cliparse.Config) *RaterHandler {
	return &RaterHandler{
		db:       db,
		cfg:      cfg,
		engine:   newEngine(db, cfg),
		identity: identity.NewProvider(db),
	}
}

// Resolve handles POST /raters
// Returns the rater with the given name, creating it on first use
func (h *RaterHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req models.ResolveRaterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	rater, err := h.engine.Identify(r.Context(), req.Name)
	if err != nil {
		writeEngineError(w, err, "resolve rater")
		return
	}

	slog.Info("rater resolved", "rater_id", rater.ID)
	middleware.JSONResponse(w, http.StatusOK, rater)
}

// Get handles GET /raters/{id}
func (h *RaterHandler) Get(w http.ResponseWriter, r *http.Request) {
	rater, err := h.identity.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err, "get rater")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, rater)
}
