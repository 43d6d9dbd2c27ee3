// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/audio-rating/identity"
	"github.com/danielhkuo/audio-rating/metrics"
	"github.com/danielhkuo/audio-rating/models"
)

// DefaultMaxConcurrency bounds concurrent fetches during a load
const DefaultMaxConcurrency = 8

// CatalogStore lists participants and their audio items
type CatalogStore interface {
	// ListParticipants returns participants ordered by id
	ListParticipants(ctx context.Context) ([]models.Participant, error)
	ListAudioItems(ctx context.Context, folderKey string) ([]models.AudioItem, error)
}

// RatingStore persists ratings keyed by (rater, participant, audio name)
type RatingStore interface {
	Upsert(ctx context.Context, r models.Rating) error
	ListByRater(ctx context.Context, raterID string, participantID *int) ([]models.Rating, error)
}

// IdentityProvider resolves a display name to a stable rater
type IdentityProvider interface {
	Resolve(ctx context.Context, name string) (models.Rater, error)
}

// Overview is the participant list with per-participant progress.
// Degraded lists participants whose fetches failed and report zero progress.
type Overview struct {
	Participants []models.Participant
	Progress     map[int]models.ProgressEntry
	Overall      models.ProgressEntry
	Degraded     []int
}

// Detail is one participant's items and the rater's committed ratings
type Detail struct {
	Participant models.Participant
	AudioItems  []models.AudioItem
	RatingMap   map[string]int
	Progress    models.ProgressEntry
	Degraded    bool
}

// Engine reconciles the catalog with a rater's stored ratings
type Engine struct {
	catalog        CatalogStore
	ratings        RatingStore
	identity       IdentityProvider
	maxConcurrency int
	tracer         trace.Tracer
	now            func() time.Time
}

// New creates an engine. maxConcurrency <= 0 selects DefaultMaxConcurrency.
func New(catalog CatalogStore, ratings RatingStore, identity IdentityProvider, maxConcurrency int) *Engine {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	return &Engine{
		catalog:        catalog,
		ratings:        ratings,
		identity:       identity,
		maxConcurrency: maxConcurrency,
		tracer:         otel.Tracer("audio-rating/engine"),
		now:            time.Now,
	}
}

// Identify resolves a display name to a rater, creating one if needed
func (e *Engine) Identify(ctx context.Context, name string) (models.Rater, error) {
	if e.identity == nil {
		return models.Rater{}, &PersistenceError{Op: "resolve rater", Err: fmt.Errorf("no identity provider configured")}
	}

	// Name rule failures never reach the provider
	if _, err := identity.NormalizeName(name); err != nil {
		return models.Rater{}, &ValidationError{Field: "name", Value: name, Err: err}
	}

	ctx, span := e.tracer.Start(ctx, "Engine.Identify")
	defer span.End()

	start := time.Now()
	rater, err := e.identity.Resolve(ctx, name)
	metrics.ObserveStore("resolve_rater", start)
	if errors.Is(err, identity.ErrInvalidName) {
		return models.Rater{}, &ValidationError{Field: "name", Value: name, Err: err}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve failed")
		return models.Rater{}, &PersistenceError{Op: "resolve rater", Err: err}
	}
	return rater, nil
}

// participantLoad holds both fetches for one participant until they settle
type participantLoad struct {
	items      []models.AudioItem
	itemsErr   error
	ratings    []models.Rating
	ratingsErr error
}

// LoadParticipants lists every participant with the rater's progress.
// A participant whose audio listing or rating fetch fails still appears,
// with zero progress, and is reported in Overview.Degraded. Only a failure
// to list participants at all is returned as an error.
func (e *Engine) LoadParticipants(ctx context.Context, raterID string) (*Overview, error) {
	if raterID == "" {
		return nil, ErrNoRater
	}

	ctx, span := e.tracer.Start(ctx, "Engine.LoadParticipants",
		trace.WithAttributes(attribute.String("rater_id", raterID)))
	defer span.End()

	participants, err := e.listParticipants(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list participants failed")
		return nil, err
	}

	loads := make([]participantLoad, len(participants))

	// Errors never cancel siblings, so the group has no shared context
	var g errgroup.Group
	g.SetLimit(e.maxConcurrency)
	for i, p := range participants {
		g.Go(func() error {
			loads[i].items, loads[i].itemsErr = e.listAudioItems(ctx, p.FolderKey)
			return nil
		})
		g.Go(func() error {
			loads[i].ratings, loads[i].ratingsErr = e.listRatings(ctx, raterID, &p.ID)
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	overview := &Overview{
		Participants: participants,
		Progress:     make(map[int]models.ProgressEntry, len(participants)),
		Degraded:     []int{},
	}
	for i, p := range participants {
		entry, degraded := e.mergeLoad(raterID, p, loads[i])
		overview.Progress[p.ID] = entry
		if degraded {
			overview.Degraded = append(overview.Degraded, p.ID)
		}
	}
	overview.Overall = Rollup(overview.Progress)

	span.SetAttributes(
		attribute.Int("participants", len(participants)),
		attribute.Int("degraded", len(overview.Degraded)),
	)
	slog.Debug("participants loaded",
		"rater_id", raterID,
		"participants", len(participants),
		"rated", overview.Overall.Rated,
		"total", overview.Overall.Total,
		"degraded", len(overview.Degraded),
	)

	return overview, nil
}

// mergeLoad turns both fetch results into a progress entry, degrading
// whichever side failed to zero
func (e *Engine) mergeLoad(raterID string, p models.Participant, load participantLoad) (models.ProgressEntry, bool) {
	degraded := false
	items := load.items
	ratings := load.ratings

	if load.itemsErr != nil {
		degraded = true
		items = nil
		metrics.DegradedLoads.WithLabelValues(metrics.StageCatalog).Inc()
		slog.Warn("audio listing failed, reporting zero total",
			"participant_id", p.ID,
			"folder", p.FolderKey,
			"error", load.itemsErr,
		)
	}
	if load.ratingsErr != nil {
		degraded = true
		ratings = nil
		metrics.DegradedLoads.WithLabelValues(metrics.StageRatings).Inc()
		slog.Warn("rating fetch failed, reporting zero rated",
			"participant_id", p.ID,
			"rater_id", raterID,
			"error", load.ratingsErr,
		)
	}

	ratingMap := BuildRatingMap(ratings, items)
	return Progress(CountRated(ratingMap, items), len(items)), degraded
}

// LoadParticipantDetail loads one participant's items and the rater's
// ratings for it. An id that does not resolve fails with ErrNotFound.
// Failed item or rating fetches degrade to empty and set Detail.Degraded.
func (e *Engine) LoadParticipantDetail(ctx context.Context, raterID string, participantID int) (*Detail, error) {
	if raterID == "" {
		return nil, ErrNoRater
	}

	ctx, span := e.tracer.Start(ctx, "Engine.LoadParticipantDetail",
		trace.WithAttributes(
			attribute.String("rater_id", raterID),
			attribute.Int("participant_id", participantID),
		))
	defer span.End()

	participants, err := e.listParticipants(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list participants failed")
		return nil, err
	}

	var participant models.Participant
	found := false
	for _, p := range participants {
		if p.ID == participantID {
			participant = p
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("participant %d: %w", participantID, ErrNotFound)
	}

	var load participantLoad
	var g errgroup.Group
	g.Go(func() error {
		load.items, load.itemsErr = e.listAudioItems(ctx, participant.FolderKey)
		return nil
	})
	g.Go(func() error {
		load.ratings, load.ratingsErr = e.listRatings(ctx, raterID, &participant.ID)
		return nil
	})
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	progress, degraded := e.mergeLoad(raterID, participant, load)
	detail := &Detail{
		Participant: participant,
		AudioItems:  load.items,
		Progress:    progress,
		Degraded:    degraded,
	}
	if load.itemsErr != nil || detail.AudioItems == nil {
		detail.AudioItems = []models.AudioItem{}
	}
	if load.ratingsErr != nil {
		detail.RatingMap = map[string]int{}
	} else {
		detail.RatingMap = BuildRatingMap(load.ratings, detail.AudioItems)
	}

	return detail, nil
}

// Open loads a participant and returns a live rating session for it
func (e *Engine) Open(ctx context.Context, raterID string, participantID int) (*Session, error) {
	detail, err := e.LoadParticipantDetail(ctx, raterID, participantID)
	if err != nil {
		return nil, err
	}
	return newSession(e, raterID, detail), nil
}

func (e *Engine) listParticipants(ctx context.Context) ([]models.Participant, error) {
	start := time.Now()
	participants, err := e.catalog.ListParticipants(ctx)
	metrics.ObserveStore("list_participants", start)
	if err != nil {
		return nil, &PersistenceError{Op: "list participants", Err: err}
	}
	return participants, nil
}

func (e *Engine) listAudioItems(ctx context.Context, folderKey string) ([]models.AudioItem, error) {
	start := time.Now()
	items, err := e.catalog.ListAudioItems(ctx, folderKey)
	metrics.ObserveStore("list_audio_items", start)
	if err != nil {
		return nil, &PersistenceError{Op: "list audio items", Err: err}
	}
	return items, nil
}

func (e *Engine) listRatings(ctx context.Context, raterID string, participantID *int) ([]models.Rating, error) {
	start := time.Now()
	ratings, err := e.ratings.ListByRater(ctx, raterID, participantID)
	metrics.ObserveStore("list_ratings", start)
	if err != nil {
		return nil, &PersistenceError{Op: "list ratings", Err: err}
	}
	return ratings, nil
}
