// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types shared by the
server, the rating engine, and the HTTP client.

# Request Types

Types for parsing incoming JSON (validated with go-playground/validator):

  - ResolveRaterRequest: name (2-50 characters)
  - UpsertRatingRequest: rater_id, participant_id, audio_name, rating (1-5)

# Response Types

  - ListParticipantsResponse: participants
  - ListAudioItemsResponse: audio_items
  - ListRatingsResponse: ratings
  - ProgressResponse: participants, progress by id, overall, degraded ids
  - ParticipantDetailResponse: participant, audio_items, ratings, progress
  - ErrorResponse: error, message

# Domain Types

  - Participant: a group of audio clips stored under one folder
  - AudioItem: clip name and playable URL
  - Rater: the person giving ratings
  - Rating: one 1-5 score per (rater, participant, audio name)
  - ProgressEntry: rated/total/percentage, derived and never stored

# Constants

	MinRating = 1
	MaxRating = 5
*/
package models
