// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package engine keeps a rater's view of the catalog in step with their
stored ratings.

# Loading

LoadParticipants fetches every participant's audio listing and the rater's
ratings for it concurrently, bounded by the engine's concurrency limit, and
returns per-participant and overall progress. One participant failing does
not fail the others: its progress drops to zero and its id is listed in
Overview.Degraded.

LoadParticipantDetail returns one participant's items and a map from audio
name to the rater's committed rating. Ratings for names no longer in the
listing are dropped. An unknown participant id returns ErrNotFound.

# Submitting

Open wraps a detail in a Session. Session.Submit moves an item through

	Unrated -> Pending -> Rated
	Pending -> previous state   (upsert failed)

Out-of-range ratings are rejected before the store is called. While an
upsert is in flight the item is Pending with the submitted value as its
Tentative value; the committed value only changes when the store confirms.
Resubmitting the same item while it is pending queues behind the earlier
submission, so the last value submitted is the one stored and shown.

# Progress

Progress, CountRated and Rollup are pure. A participant with no items
reports 0 percent. Sessions recount progress from their committed ratings
after every successful submit.
*/
package engine
