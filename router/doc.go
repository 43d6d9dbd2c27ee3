// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the audio rating API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Raters:

	POST /raters      - Resolve a name to a rater (created on first use)
	GET  /raters/{id} - Rater info

Catalog:

	GET /participants              - All participants by id
	GET /participants/{id}         - One participant
	GET /participants/{id}/audio   - Playable clips for a participant
	GET /participants/{id}/summary - Ratings across raters per clip
	GET /audio/{folder}/{file}     - Audio file contents

Ratings and progress:

	PUT /ratings                          - Create or replace one rating
	GET /raters/{id}/ratings              - Rater's ratings (?participant_id=)
	GET /raters/{id}/progress             - Progress per participant and overall
	GET /raters/{id}/participants/{pid}   - Clips with the rater's ratings

# Handler Initialization

The router creates handler instances with dependency injection:

	raterHandler := handlers.NewRaterHandler(db, cfg)
	ratingHandler := handlers.NewRatingHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
