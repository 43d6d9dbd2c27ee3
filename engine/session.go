// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/danielhkuo/audio-rating/metrics"
	"github.com/danielhkuo/audio-rating/models"
)

// ItemState is where one audio item sits in the submit cycle
type ItemState int

const (
	Unrated ItemState = iota
	Pending
	Rated
)

func (s ItemState) String() string {
	switch s {
	case Unrated:
		return "unrated"
	case Pending:
		return "pending"
	case Rated:
		return "rated"
	default:
		return "unknown"
	}
}

// ItemView is the displayable state of one audio item.
// Value is the committed rating (0 when none). While Pending, Tentative
// holds the most recently submitted value.
type ItemView struct {
	models.AudioItem
	State     ItemState
	Value     int
	Tentative int
	LastError error
	SavedAt   time.Time
}

// Snapshot is a consistent copy of a session's state
type Snapshot struct {
	RaterID     string
	Participant models.Participant
	Items       []ItemView
	Progress    models.ProgressEntry
}

// Session holds one rater's state for one participant.
//
// Submissions for the same audio name are chained: each waits for the one
// before it to settle, so upserts reach the store in submission order and
// the last submitted value is the one stored. Different names proceed
// independently. The mutex is never held across a store call.
type Session struct {
	engine      *Engine
	raterID     string
	participant models.Participant
	items       []models.AudioItem
	known       map[string]bool

	mu        sync.Mutex
	committed map[string]int
	queued    map[string]int
	tails     map[string]chan struct{}
	tentative map[string]int
	lastErr   map[string]error
	savedAt   map[string]time.Time
	progress  models.ProgressEntry
}

func newSession(e *Engine, raterID string, detail *Detail) *Session {
	s := &Session{
		engine:      e,
		raterID:     raterID,
		participant: detail.Participant,
		items:       detail.AudioItems,
		known:       make(map[string]bool, len(detail.AudioItems)),
		committed:   make(map[string]int, len(detail.RatingMap)),
		queued:      make(map[string]int),
		tails:       make(map[string]chan struct{}),
		tentative:   make(map[string]int),
		lastErr:     make(map[string]error),
		savedAt:     make(map[string]time.Time),
	}
	for _, item := range detail.AudioItems {
		s.known[item.Name] = true
	}
	for name, value := range detail.RatingMap {
		if s.known[name] {
			s.committed[name] = value
		}
	}
	s.recomputeLocked()
	return s
}

// Submit rates one audio item. Out-of-range ratings fail with a
// *ValidationError and unknown names with ErrUnknownAudio; neither touches
// the store or the session. A failed upsert leaves the committed value as
// it was, records the error on the item and returns a *PersistenceError.
// A submission still queued behind an earlier one for the same name when
// ctx ends fails the same way without reaching the store. There is no retry.
func (s *Session) Submit(ctx context.Context, audioName string, rating int) error {
	if !validRating(rating) {
		metrics.Submissions.WithLabelValues(metrics.StatusInvalid).Inc()
		return &ValidationError{Field: "rating", Value: rating, Err: ErrInvalidRating}
	}

	s.mu.Lock()
	if !s.known[audioName] {
		s.mu.Unlock()
		metrics.Submissions.WithLabelValues(metrics.StatusInvalid).Inc()
		return &ValidationError{Field: "audio name", Value: audioName, Err: ErrUnknownAudio}
	}
	prev := s.tails[audioName]
	done := make(chan struct{})
	s.tails[audioName] = done
	s.queued[audioName]++
	s.tentative[audioName] = rating
	delete(s.lastErr, audioName)
	s.mu.Unlock()

	// Later submissions for this name wait on done. A submission whose
	// context ends while queued gives up, but done still closes only after
	// prev so the chain stays ordered.
	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			go func() {
				<-prev
				s.release(audioName, done)
			}()
			perr := &PersistenceError{Op: "upsert rating", Err: ctx.Err()}
			s.settle(audioName, 0, perr)
			metrics.Submissions.WithLabelValues(metrics.StatusFailed).Inc()
			slog.Warn("rating not saved",
				"rater_id", s.raterID,
				"participant_id", s.participant.ID,
				"audio_name", audioName,
				"error", ctx.Err(),
			)
			return perr
		}
	}
	defer s.release(audioName, done)

	ctx, span := s.engine.tracer.Start(ctx, "Session.Submit",
		trace.WithAttributes(
			attribute.String("rater_id", s.raterID),
			attribute.Int("participant_id", s.participant.ID),
			attribute.String("audio_name", audioName),
			attribute.Int("rating", rating),
		))
	defer span.End()

	start := time.Now()
	err := s.engine.ratings.Upsert(ctx, models.Rating{
		RaterID:       s.raterID,
		ParticipantID: s.participant.ID,
		AudioName:     audioName,
		Value:         rating,
		UpdatedAt:     s.engine.now().UTC(),
	})
	metrics.ObserveStore("upsert_rating", start)

	if err != nil {
		perr := &PersistenceError{Op: "upsert rating", Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
		s.settle(audioName, 0, perr)
		metrics.Submissions.WithLabelValues(metrics.StatusFailed).Inc()
		slog.Warn("rating not saved",
			"rater_id", s.raterID,
			"participant_id", s.participant.ID,
			"audio_name", audioName,
			"error", err,
		)
		return perr
	}

	s.settle(audioName, rating, nil)
	metrics.Submissions.WithLabelValues(metrics.StatusOK).Inc()
	slog.Info("rating saved",
		"rater_id", s.raterID,
		"participant_id", s.participant.ID,
		"audio_name", audioName,
		"rating", rating,
	)
	return nil
}

// settle applies one finished submission. The pending marker stays while
// newer submissions for the name are still queued.
func (s *Session) settle(name string, rating int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastErr[name] = err
	} else {
		s.committed[name] = rating
		s.savedAt[name] = s.engine.now()
		delete(s.lastErr, name)
		s.recomputeLocked()
	}

	s.queued[name]--
	if s.queued[name] == 0 {
		delete(s.queued, name)
		delete(s.tentative, name)
	}
}

// release lets the next queued submission for name proceed
func (s *Session) release(name string, done chan struct{}) {
	s.mu.Lock()
	if s.tails[name] == done {
		delete(s.tails, name)
	}
	s.mu.Unlock()
	close(done)
}

// recomputeLocked recounts progress from the committed map
func (s *Session) recomputeLocked() {
	s.progress = Progress(CountRated(s.committed, s.items), len(s.items))
}

// Snapshot copies the current state, items in catalog order
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]ItemView, 0, len(s.items))
	for _, item := range s.items {
		view := ItemView{
			AudioItem: item,
			Value:     s.committed[item.Name],
			LastError: s.lastErr[item.Name],
			SavedAt:   s.savedAt[item.Name],
		}
		_, rated := s.committed[item.Name]
		switch {
		case s.queued[item.Name] > 0:
			view.State = Pending
			view.Tentative = s.tentative[item.Name]
		case rated:
			view.State = Rated
		default:
			view.State = Unrated
		}
		views = append(views, view)
	}

	return Snapshot{
		RaterID:     s.raterID,
		Participant: s.participant,
		Items:       views,
		Progress:    s.progress,
	}
}

// RatingMap copies the committed ratings
func (s *Session) RatingMap() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int, len(s.committed))
	for name, value := range s.committed {
		out[name] = value
	}
	return out
}

// Progress returns the participant's current progress
func (s *Session) Progress() models.ProgressEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Participant returns the session's participant
func (s *Session) Participant() models.Participant {
	return s.participant
}
