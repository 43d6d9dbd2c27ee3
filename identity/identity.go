// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/danielhkuo/audio-rating/models"
)

// Name length bounds in characters
const (
	MinNameLength = 2
	MaxNameLength = 50
)

var (
	ErrInvalidName   = errors.New("invalid rater name")
	ErrRaterNotFound = errors.New("rater not found")
)

// NormalizeName trims surrounding space and converts the name to NFC so the
// same visible name always maps to the same rater. Comparison stays
// case-sensitive.
func NormalizeName(name string) (string, error) {
	n := norm.NFC.String(strings.TrimSpace(name))
	length := utf8.RuneCountInString(n)
	if length < MinNameLength || length > MaxNameLength {
		return "", fmt.Errorf("%w: must be %d-%d characters", ErrInvalidName, MinNameLength, MaxNameLength)
	}
	return n, nil
}

// NewRaterID creates a random UUID for a new rater
func NewRaterID() string {
	return uuid.NewString()
}

// Provider resolves display names to stable rater records
type Provider struct {
	db *sql.DB
}

func NewProvider(db *sql.DB) *Provider {
	return &Provider{db: db}
}

// Resolve returns the rater with the given name, creating it if needed.
// The UNIQUE constraint on rater.name makes the insert conflict-tolerant, so
// two first-time resolutions of the same new name end up on one row.
func (p *Provider) Resolve(ctx context.Context, name string) (models.Rater, error) {
	normalized, err := NormalizeName(name)
	if err != nil {
		return models.Rater{}, err
	}

	res, err := p.db.ExecContext(ctx, `
		INSERT INTO rater (id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
	`, NewRaterID(), normalized, time.Now().UTC())
	if err != nil {
		return models.Rater{}, fmt.Errorf("insert rater: %w", err)
	}

	var rater models.Rater
	err = p.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM rater WHERE name = $1
	`, normalized).Scan(&rater.ID, &rater.Name, &rater.CreatedAt)
	if err != nil {
		return models.Rater{}, fmt.Errorf("select rater: %w", err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		slog.Info("rater created", "rater_id", rater.ID, "name", rater.Name)
	}

	return rater, nil
}

// Get looks a rater up by id
func (p *Provider) Get(ctx context.Context, id string) (models.Rater, error) {
	var rater models.Rater
	err := p.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM rater WHERE id = $1
	`, id).Scan(&rater.ID, &rater.Name, &rater.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Rater{}, ErrRaterNotFound
	}
	if err != nil {
		return models.Rater{}, fmt.Errorf("select rater: %w", err)
	}
	return rater, nil
}
