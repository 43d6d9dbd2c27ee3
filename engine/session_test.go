// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/audio-rating/models"
	"github.com/danielhkuo/audio-rating/store"
	"github.com/danielhkuo/audio-rating/testutil"
)

func participant7Catalog() *fakeCatalog {
	return &fakeCatalog{
		participants: []models.Participant{{ID: 7, Name: "Peserta 7", FolderKey: "peserta_7"}},
		items: map[string][]models.AudioItem{
			"peserta_7": audioItems("clip1.mp3", "clip2.mp3", "clip3.mp3"),
		},
	}
}

func openSession(t *testing.T, ratings RatingStore) *Session {
	t.Helper()
	s, err := New(participant7Catalog(), ratings, nil, 0).Open(context.Background(), rater, 7)
	require.NoError(t, err)
	return s
}

func itemView(t *testing.T, s *Session, name string) ItemView {
	t.Helper()
	for _, v := range s.Snapshot().Items {
		if v.Name == name {
			return v
		}
	}
	t.Fatalf("item %s not in snapshot", name)
	return ItemView{}
}

func TestSubmitEveryValidRating(t *testing.T) {
	for r := models.MinRating; r <= models.MaxRating; r++ {
		t.Run(fmt.Sprintf("rating %d", r), func(t *testing.T) {
			ratings := newFakeRatings()
			s := openSession(t, ratings)

			require.NoError(t, s.Submit(context.Background(), "clip1.mp3", r))

			stored, ok := ratings.value(rater, 7, "clip1.mp3")
			require.True(t, ok)
			assert.Equal(t, r, stored)

			v := itemView(t, s, "clip1.mp3")
			assert.Equal(t, Rated, v.State)
			assert.Equal(t, r, v.Value)
			assert.False(t, v.SavedAt.IsZero())
		})
	}
}

func TestSubmitInvalidRatingMakesNoCall(t *testing.T) {
	for _, r := range []int{0, 6, -1, 100} {
		ratings := newFakeRatings()
		s := openSession(t, ratings)
		before := s.Snapshot()

		err := s.Submit(context.Background(), "clip1.mp3", r)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ErrorIs(t, err, ErrInvalidRating)
		assert.Empty(t, ratings.callValues(), "rating %d reached the store", r)
		assert.Equal(t, before, s.Snapshot())
	}
}

func TestSubmitUnknownAudio(t *testing.T) {
	ratings := newFakeRatings()
	s := openSession(t, ratings)

	err := s.Submit(context.Background(), "nope.mp3", 3)
	assert.ErrorIs(t, err, ErrUnknownAudio)
	assert.Empty(t, ratings.callValues())
}

func TestSubmitTwiceSameValue(t *testing.T) {
	ratings := newFakeRatings()
	s := openSession(t, ratings)

	require.NoError(t, s.Submit(context.Background(), "clip1.mp3", 4))
	require.NoError(t, s.Submit(context.Background(), "clip1.mp3", 4))

	assert.Len(t, ratings.rows, 1)
	assert.Equal(t, map[string]int{"clip1.mp3": 4}, s.RatingMap())
	assert.Equal(t, 1, s.Progress().Rated)
}

func TestSubmitSequentialLastWriteWins(t *testing.T) {
	ratings := newFakeRatings()
	s := openSession(t, ratings)

	require.NoError(t, s.Submit(context.Background(), "clip1.mp3", 3))
	require.NoError(t, s.Submit(context.Background(), "clip1.mp3", 5))

	stored, _ := ratings.value(rater, 7, "clip1.mp3")
	assert.Equal(t, 5, stored)
	assert.Equal(t, 5, itemView(t, s, "clip1.mp3").Value)
}

func TestSubmitLoadsExistingRating(t *testing.T) {
	ratings := newFakeRatings()
	ratings.seed(rater, 7, "clip2.mp3", 4)
	s := openSession(t, ratings)

	assert.Equal(t, map[string]int{"clip2.mp3": 4}, s.RatingMap())
	snap := s.Snapshot()
	require.Len(t, snap.Items, 3)
	assert.Equal(t, Unrated, snap.Items[0].State)
	assert.Equal(t, Rated, snap.Items[1].State)
	assert.Equal(t, Unrated, snap.Items[2].State)
	assert.Equal(t, models.ProgressEntry{Rated: 1, Total: 3, Percentage: 100.0 / 3}, snap.Progress)
}

func TestSubmitPendingWhileInFlight(t *testing.T) {
	ratings := newBlockingRatings()
	ratings.seed(rater, 7, "clip1.mp3", 1)
	s := openSession(t, ratings)

	errs := make(chan error, 1)
	go func() { errs <- s.Submit(context.Background(), "clip1.mp3", 4) }()
	<-ratings.started

	v := itemView(t, s, "clip1.mp3")
	assert.Equal(t, Pending, v.State)
	assert.Equal(t, 4, v.Tentative)
	assert.Equal(t, 1, v.Value, "committed value changes only on success")
	assert.Equal(t, 1, s.Progress().Rated)

	ratings.release <- struct{}{}
	require.NoError(t, <-errs)

	v = itemView(t, s, "clip1.mp3")
	assert.Equal(t, Rated, v.State)
	assert.Equal(t, 4, v.Value)
	assert.Zero(t, v.Tentative)
}

func TestSubmitRapidResubmissionLastSubmittedWins(t *testing.T) {
	ratings := newBlockingRatings()
	s := openSession(t, ratings)
	ctx := context.Background()

	errs := make(chan error, 2)
	go func() { errs <- s.Submit(ctx, "clip1.mp3", 5) }()
	first := <-ratings.started
	assert.Equal(t, 5, first.Value)

	go func() { errs <- s.Submit(ctx, "clip1.mp3", 2) }()
	require.Eventually(t, func() bool {
		return itemView(t, s, "clip1.mp3").Tentative == 2
	}, time.Second, time.Millisecond)

	select {
	case r := <-ratings.started:
		t.Fatalf("second upsert (%d) started before the first settled", r.Value)
	case <-time.After(20 * time.Millisecond):
	}

	ratings.release <- struct{}{}
	second := <-ratings.started
	assert.Equal(t, 2, second.Value)
	assert.Equal(t, Pending, itemView(t, s, "clip1.mp3").State, "still pending while the newer submission is in flight")

	ratings.release <- struct{}{}
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)

	assert.Equal(t, []int{5, 2}, ratings.callValues())
	stored, _ := ratings.value(rater, 7, "clip1.mp3")
	assert.Equal(t, 2, stored)
	assert.Len(t, ratings.rows, 1)

	v := itemView(t, s, "clip1.mp3")
	assert.Equal(t, Rated, v.State)
	assert.Equal(t, 2, v.Value)
}

func TestSubmitQueuedGivesUpWhenContextEnds(t *testing.T) {
	ratings := newBlockingRatings()
	s := openSession(t, ratings)

	errs := make(chan error, 2)
	go func() { errs <- s.Submit(context.Background(), "clip1.mp3", 5) }()
	<-ratings.started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	began := time.Now()
	err := s.Submit(ctx, "clip1.mp3", 2)
	assert.Less(t, time.Since(began), time.Second)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	v := itemView(t, s, "clip1.mp3")
	assert.Equal(t, Pending, v.State, "the first submission is still in flight")
	assert.Error(t, v.LastError)

	// A later submission still waits for the held one
	go func() { errs <- s.Submit(context.Background(), "clip1.mp3", 3) }()
	require.Eventually(t, func() bool {
		return itemView(t, s, "clip1.mp3").Tentative == 3
	}, time.Second, time.Millisecond)

	select {
	case r := <-ratings.started:
		t.Fatalf("upsert (%d) started before the held one settled", r.Value)
	case <-time.After(20 * time.Millisecond):
	}

	ratings.release <- struct{}{}
	third := <-ratings.started
	assert.Equal(t, 3, third.Value)
	ratings.release <- struct{}{}

	require.NoError(t, <-errs)
	require.NoError(t, <-errs)

	assert.Equal(t, []int{5, 3}, ratings.callValues())
	stored, _ := ratings.value(rater, 7, "clip1.mp3")
	assert.Equal(t, 3, stored)

	v = itemView(t, s, "clip1.mp3")
	assert.Equal(t, Rated, v.State)
	assert.Equal(t, 3, v.Value)
	assert.NoError(t, v.LastError)
}

func TestSubmitRapidResubmissionAgainstDatabase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateTestParticipant(t, db, 7, "Peserta 7", "peserta_7")
	raterID := testutil.CreateTestRater(t, db, "Budi")

	e := New(participant7Catalog(), store.NewRatingStore(db), nil, 0)
	s, err := e.Open(context.Background(), raterID, 7)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, r := range []int{5, 2} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Submit(context.Background(), "clip1.mp3", r))
		}()
		// issue in order without waiting for settlement
		require.Eventually(t, func() bool {
			return itemView(t, s, "clip1.mp3").Tentative == r || itemView(t, s, "clip1.mp3").Value == r
		}, time.Second, time.Millisecond)
	}
	wg.Wait()

	assert.Equal(t, 1, testutil.CountRatings(t, db, raterID, 7, "clip1.mp3"))
	var stored int
	require.NoError(t, db.QueryRow(`
		SELECT rating FROM rating WHERE rater_id = $1 AND participant_id = $2 AND audio_name = $3
	`, raterID, 7, "clip1.mp3").Scan(&stored))
	assert.Equal(t, 2, stored)
	assert.Equal(t, 2, s.RatingMap()["clip1.mp3"])
}

func TestSubmitFailureReverts(t *testing.T) {
	ratings := newFakeRatings()
	ratings.seed(rater, 7, "clip2.mp3", 4)
	s := openSession(t, ratings)

	ratings.failNext = 1
	err := s.Submit(context.Background(), "clip2.mp3", 1)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "upsert rating", perr.Op)
	assert.ErrorIs(t, err, errBackend)

	v := itemView(t, s, "clip2.mp3")
	assert.Equal(t, Rated, v.State)
	assert.Equal(t, 4, v.Value)
	assert.Error(t, v.LastError)

	ratings.failNext = 1
	require.Error(t, s.Submit(context.Background(), "clip1.mp3", 5))
	v = itemView(t, s, "clip1.mp3")
	assert.Equal(t, Unrated, v.State)
	assert.Zero(t, v.Value)
	assert.Equal(t, 1, s.Progress().Rated)

	// No retry happened; a fresh submit clears the error
	assert.Equal(t, []int{1, 5}, ratings.callValues())
	require.NoError(t, s.Submit(context.Background(), "clip1.mp3", 5))
	v = itemView(t, s, "clip1.mp3")
	assert.Equal(t, Rated, v.State)
	assert.NoError(t, v.LastError)
}

func TestProgressTracksDistinctRatedNames(t *testing.T) {
	ratings := newFakeRatings()
	s := openSession(t, ratings)
	ctx := context.Background()

	steps := []struct {
		name  string
		value int
		rated int
	}{
		{"clip1.mp3", 3, 1},
		{"clip1.mp3", 5, 1},
		{"clip2.mp3", 2, 2},
		{"clip3.mp3", 1, 3},
		{"clip2.mp3", 4, 3},
	}
	for _, step := range steps {
		require.NoError(t, s.Submit(ctx, step.name, step.value))
		p := s.Progress()
		assert.Equal(t, step.rated, p.Rated)
		assert.LessOrEqual(t, p.Rated, p.Total)
	}
	assert.Equal(t, 100.0, s.Progress().Percentage)
}

func TestSubmitDifferentKeysConcurrently(t *testing.T) {
	ratings := newFakeRatings()
	s := openSession(t, ratings)

	var wg sync.WaitGroup
	for i, name := range []string{"clip1.mp3", "clip2.mp3", "clip3.mp3"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Submit(context.Background(), name, i+1))
		}()
	}
	wg.Wait()

	assert.Equal(t, map[string]int{"clip1.mp3": 1, "clip2.mp3": 2, "clip3.mp3": 3}, s.RatingMap())
	assert.Equal(t, 3, s.Progress().Rated)
}

func TestOpenUnknownParticipant(t *testing.T) {
	_, err := New(participant7Catalog(), newFakeRatings(), nil, 0).Open(context.Background(), rater, 8)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemStateString(t *testing.T) {
	assert.Equal(t, "unrated", Unrated.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "rated", Rated.String())
	assert.Equal(t, "unknown", ItemState(9).String())
}
