// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the audio rating API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - RaterHandler: Rater resolution by name and lookup by id
  - CatalogHandler: Participants, audio listings and audio file serving
  - RatingHandler: Rating upsert and listing
  - ProgressHandler: Per-rater progress overview and participant detail
  - SummaryHandler: Cross-rater statistics per audio item

Handlers are created via constructor functions that accept *sql.DB and Config:

	ratingHandler := handlers.NewRatingHandler(db, cfg)

# Rating Flow

	POST /raters                       → Resolve (get-or-create by name)
	GET  /raters/{id}/progress         → Overview
	GET  /raters/{id}/participants/{pid} → Detail
	PUT  /ratings                      → Upsert

Ratings are keyed by (rater_id, participant_id, audio_name); a second PUT
for the same key replaces the value. Ratings must be integers from 1 to 5.

# Progress

Progress is computed by the engine package. A participant whose listing or
rating fetch fails is reported with zero progress and its id appears in the
response's degraded list rather than failing the request.

# Summary

ComputeRatingSummary ranks a participant's clips by median rating across
raters, breaking ties by p10, then mean, then name.

	GET /participants/{id}/summary → Get
*/
package handlers
