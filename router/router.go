// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/audio-rating/cliparse"
	"github.com/danielhkuo/audio-rating/handlers"
	"github.com/danielhkuo/audio-rating/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	raterHandler := handlers.NewRaterHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(db, cfg)
	ratingHandler := handlers.NewRatingHandler(db, cfg)
	progressHandler := handlers.NewProgressHandler(db, cfg)
	summaryHandler := handlers.NewSummaryHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Raters
	mux.HandleFunc("POST /raters", middleware.WithLogging(raterHandler.Resolve))
	mux.HandleFunc("GET /raters/{id}", middleware.WithLogging(raterHandler.Get))

	// Catalog
	mux.HandleFunc("GET /participants", middleware.WithLogging(catalogHandler.ListParticipants))
	mux.HandleFunc("GET /participants/{id}", middleware.WithLogging(catalogHandler.GetParticipant))
	mux.HandleFunc("GET /participants/{id}/audio", middleware.WithLogging(catalogHandler.ListAudio))
	mux.HandleFunc("GET /participants/{id}/summary", middleware.WithLogging(summaryHandler.Get))
	mux.HandleFunc("GET /audio/{folder}/{file}", middleware.WithLogging(catalogHandler.ServeAudio))

	// Ratings
	mux.HandleFunc("PUT /ratings", middleware.WithLogging(ratingHandler.Upsert))
	mux.HandleFunc("GET /raters/{id}/ratings", middleware.WithLogging(ratingHandler.List))

	// Progress
	mux.HandleFunc("GET /raters/{id}/progress", middleware.WithLogging(progressHandler.Overview))
	mux.HandleFunc("GET /raters/{id}/participants/{pid}", middleware.WithLogging(progressHandler.Detail))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio-rating API v1"))
	})

	return mux
}
