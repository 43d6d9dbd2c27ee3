// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Opening

Open selects the driver from the configured type, pings, and creates the
schema:

	conn, err := db.Open(db.TypeSQLite, "data/ratings.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

SQLite connections enable foreign keys, WAL journaling and a busy timeout
through DSN pragmas, and the pool is limited to one connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - participant: id, display name, storage folder key
  - rater: uuid id, unique name
  - rating: one 1-5 value per (rater_id, participant_id, audio_name)

# Relationships

	rater 1──* rating
	participant 1──* rating

All foreign keys use ON DELETE CASCADE.

# Constraints

The composite primary key on rating is the conflict target for upserts, and
the UNIQUE constraint on rater.name is the conflict target for get-or-create.
*/
package db
