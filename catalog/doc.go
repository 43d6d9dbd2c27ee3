// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package catalog is the read-only source of participants and their audio
clips.

Participants live in the participant table, ordered by id. Each participant
owns one folder under the audio root; its clips are the files in that folder
whose extension is .mp3, .wav or .ogg (any case). Placeholder files and
subdirectories are skipped, listings are sorted by name and capped at
MaxListing entries. Each AudioItem carries a URL under the configured
public base URL.

	c := catalog.NewStore(db, "/srv/audio", "https://example.org/audio")
	participants, err := c.ListParticipants(ctx)
	items, err := c.ListAudioItems(ctx, "peserta_1")

Participants are seeded from a YAML manifest at startup:

	m, err := catalog.LoadManifest("catalog.yaml")
	err = catalog.SyncParticipants(ctx, db, m.Participants)
*/
package catalog
