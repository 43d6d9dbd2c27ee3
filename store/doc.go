// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the SQL-backed rating store.

	s := store.NewRatingStore(db)
	err := s.Upsert(ctx, models.Rating{RaterID: id, ParticipantID: 7, AudioName: "clip1.mp3", Value: 4})
	all, err := s.ListByRater(ctx, id, nil)
	one, err := s.ListByRater(ctx, id, &participantID)

Upsert uses INSERT ... ON CONFLICT (rater_id, participant_id, audio_name)
DO UPDATE, never read-then-write, so repeated or racing submissions for a
key always leave a single row holding the last written value.
*/
package store
