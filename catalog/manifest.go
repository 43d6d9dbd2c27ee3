// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/audio-rating/models"
)

// Manifest lists the participants to load into the catalog.
//
//	participants:
//	  - id: 1
//	    name: Peserta 1
//	    folder: peserta_1
type Manifest struct {
	Participants []models.Participant `yaml:"participants"`
}

// LoadManifest reads and validates a YAML manifest file
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return parseManifest(data)
}

func parseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	ids := make(map[int]bool, len(m.Participants))
	folders := make(map[string]bool, len(m.Participants))
	for i, p := range m.Participants {
		if p.ID <= 0 {
			return nil, fmt.Errorf("participant %d: id must be positive", i)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("participant %d: name is required", p.ID)
		}
		if p.FolderKey == "" || !filepath.IsLocal(p.FolderKey) {
			return nil, fmt.Errorf("participant %d: %w %q", p.ID, ErrInvalidFolder, p.FolderKey)
		}
		if ids[p.ID] {
			return nil, fmt.Errorf("participant %d: duplicate id", p.ID)
		}
		if folders[p.FolderKey] {
			return nil, fmt.Errorf("participant %d: duplicate folder %q", p.ID, p.FolderKey)
		}
		ids[p.ID] = true
		folders[p.FolderKey] = true
	}
	return &m, nil
}

// SyncParticipants upserts every manifest participant in one transaction.
// Participants missing from the manifest are left untouched so their
// ratings survive.
func SyncParticipants(ctx context.Context, db *sql.DB, participants []models.Participant) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range participants {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO participant (id, name, folder_key)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				folder_key = excluded.folder_key
		`, p.ID, p.Name, p.FolderKey)
		if err != nil {
			return fmt.Errorf("upsert participant %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit participants: %w", err)
	}
	return nil
}
