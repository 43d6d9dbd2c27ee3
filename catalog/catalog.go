// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/danielhkuo/audio-rating/models"
)

// MaxListing caps how many directory entries one listing reads. The cap
// applies before filtering, so a folder may yield fewer playable items.
const MaxListing = 100

// PlaceholderName marks an otherwise empty storage folder
const PlaceholderName = ".emptyFolderPlaceholder"

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrInvalidFolder       = errors.New("invalid folder key")
)

var audioExtensions = []string{".mp3", ".wav", ".ogg"}

// IsAudioFile reports whether name has an allowed audio extension
// (case-insensitive) and is not a folder placeholder.
func IsAudioFile(name string) bool {
	if name == PlaceholderName {
		return false
	}
	return slices.Contains(audioExtensions, strings.ToLower(filepath.Ext(name)))
}

// Store reads participants from the database and audio items from a
// directory holding one folder per participant.
type Store struct {
	db        *sql.DB
	audioRoot string
	baseURL   string

	listings singleflight.Group
}

func NewStore(db *sql.DB, audioRoot, baseURL string) *Store {
	return &Store{
		db:        db,
		audioRoot: audioRoot,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// ListParticipants returns all participants ordered by id
func (s *Store) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, folder_key FROM participant ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.FolderKey); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return participants, nil
}

// Participant looks a participant up by id
func (s *Store) Participant(ctx context.Context, id int) (models.Participant, error) {
	var p models.Participant
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, folder_key FROM participant WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.FolderKey)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Participant{}, ErrParticipantNotFound
	}
	if err != nil {
		return models.Participant{}, fmt.Errorf("query participant: %w", err)
	}
	return p, nil
}

// ListAudioItems lists the playable files in one participant folder, sorted
// by name. A folder that does not exist yet lists as empty.
// Concurrent listings of the same folder share one directory read.
func (s *Store) ListAudioItems(ctx context.Context, folderKey string) ([]models.AudioItem, error) {
	if folderKey == "" || !filepath.IsLocal(folderKey) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFolder, folderKey)
	}

	ch := s.listings.DoChan(folderKey, func() (interface{}, error) {
		return s.readFolder(folderKey)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// The shared result must not be handed out for mutation
		return slices.Clone(res.Val.([]models.AudioItem)), nil
	}
}

func (s *Store) readFolder(folderKey string) ([]models.AudioItem, error) {
	entries, err := os.ReadDir(filepath.Join(s.audioRoot, folderKey))
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("no files found in folder", "folder", folderKey)
		return []models.AudioItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing audio folder %s: %w", folderKey, err)
	}

	// os.ReadDir returns entries sorted by filename
	if len(entries) > MaxListing {
		entries = entries[:MaxListing]
	}

	items := []models.AudioItem{}
	for _, e := range entries {
		if e.IsDir() || !IsAudioFile(e.Name()) {
			continue
		}
		items = append(items, models.AudioItem{
			Name: e.Name(),
			URL:  s.PublicURL(folderKey, e.Name()),
		})
	}

	slog.Debug("listed audio folder", "folder", folderKey, "count", len(items))
	return items, nil
}

// PublicURL builds the playable location of one file
func (s *Store) PublicURL(folderKey, name string) string {
	return s.baseURL + "/" + url.PathEscape(folderKey) + "/" + url.PathEscape(name)
}
