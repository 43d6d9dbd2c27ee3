// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"path/filepath"

	"github.com/danielhkuo/audio-rating/catalog"
	"github.com/danielhkuo/audio-rating/cliparse"
	"github.com/danielhkuo/audio-rating/middleware"
	"github.com/danielhkuo/audio-rating/models"
)

type CatalogHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	catalog *catalog.Store
}

func NewCatalogHandler(db *sql.DB, cfg cliparse.Config) *CatalogHandler {
	return &CatalogHandler{
		db:      db,
		cfg:     cfg,
		catalog: catalog.NewStore(db, cfg.AudioRoot, cfg.AudioBaseURL),
	}
}

// ListParticipants handles GET /participants
func (h *CatalogHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.catalog.ListParticipants(r.Context())
	if err != nil {
		writeEngineError(w, err, "list participants")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListParticipantsResponse{
		Participants: participants,
	})
}

// GetParticipant handles GET /participants/{id}
func (h *CatalogHandler) GetParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid participant id")
		return
	}

	p, err := h.catalog.Participant(r.Context(), id)
	if err != nil {
		writeEngineError(w, err, "get participant")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, p)
}

// ListAudio handles GET /participants/{id}/audio
func (h *CatalogHandler) ListAudio(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid participant id")
		return
	}

	p, err := h.catalog.Participant(r.Context(), id)
	if err != nil {
		writeEngineError(w, err, "get participant")
		return
	}

	items, err := h.catalog.ListAudioItems(r.Context(), p.FolderKey)
	if err != nil {
		writeEngineError(w, err, "list audio")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListAudioItemsResponse{AudioItems: items})
}

// ServeAudio handles GET /audio/{folder}/{file}
// Serves one audio file from the audio root, with range support
func (h *CatalogHandler) ServeAudio(w http.ResponseWriter, r *http.Request) {
	folder := r.PathValue("folder")
	file := r.PathValue("file")

	if !filepath.IsLocal(folder) || !filepath.IsLocal(file) || !catalog.IsAudioFile(file) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Audio file not found")
		return
	}

	http.ServeFile(w, r, filepath.Join(h.cfg.AudioRoot, folder, file))
}
