// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/danielhkuo/audio-rating/models"
)

var errBackend = errors.New("backend unavailable")

type fakeCatalog struct {
	participants    []models.Participant
	participantsErr error
	items           map[string][]models.AudioItem
	itemsErr        map[string]error
}

func (c *fakeCatalog) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	if c.participantsErr != nil {
		return nil, c.participantsErr
	}
	return c.participants, nil
}

func (c *fakeCatalog) ListAudioItems(ctx context.Context, folderKey string) ([]models.AudioItem, error) {
	if err := c.itemsErr[folderKey]; err != nil {
		return nil, err
	}
	return c.items[folderKey], nil
}

type ratingKey struct {
	raterID       string
	participantID int
	audioName     string
}

// fakeRatings is an in-memory rating store. With hold set, every Upsert
// announces itself on started and then blocks until released.
type fakeRatings struct {
	mu       sync.Mutex
	rows     map[ratingKey]int
	calls    []models.Rating
	failNext int
	listErr  map[int]error

	hold    bool
	started chan models.Rating
	release chan struct{}
}

func newFakeRatings() *fakeRatings {
	return &fakeRatings{
		rows:    make(map[ratingKey]int),
		listErr: make(map[int]error),
	}
}

func newBlockingRatings() *fakeRatings {
	r := newFakeRatings()
	r.hold = true
	r.started = make(chan models.Rating, 16)
	r.release = make(chan struct{})
	return r
}

func (f *fakeRatings) Upsert(ctx context.Context, r models.Rating) error {
	if f.hold {
		f.started <- r
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, r)
	if f.failNext > 0 {
		f.failNext--
		return errBackend
	}
	f.rows[ratingKey{r.RaterID, r.ParticipantID, r.AudioName}] = r.Value
	return nil
}

func (f *fakeRatings) ListByRater(ctx context.Context, raterID string, participantID *int) ([]models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if participantID != nil {
		if err := f.listErr[*participantID]; err != nil {
			return nil, err
		}
	}

	out := []models.Rating{}
	for k, v := range f.rows {
		if k.raterID != raterID {
			continue
		}
		if participantID != nil && k.participantID != *participantID {
			continue
		}
		out = append(out, models.Rating{RaterID: k.raterID, ParticipantID: k.participantID, AudioName: k.audioName, Value: v})
	}
	return out, nil
}

func (f *fakeRatings) seed(raterID string, participantID int, audioName string, value int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[ratingKey{raterID, participantID, audioName}] = value
}

func (f *fakeRatings) value(raterID string, participantID int, audioName string) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.rows[ratingKey{raterID, participantID, audioName}]
	return v, ok
}

func (f *fakeRatings) callValues() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	values := make([]int, 0, len(f.calls))
	for _, c := range f.calls {
		values = append(values, c.Value)
	}
	return values
}

type fakeIdentity struct {
	err   error
	calls int
}

func (f *fakeIdentity) Resolve(ctx context.Context, name string) (models.Rater, error) {
	f.calls++
	if f.err != nil {
		return models.Rater{}, f.err
	}
	return models.Rater{ID: "id-" + name, Name: name}, nil
}

func audioItems(names ...string) []models.AudioItem {
	items := make([]models.AudioItem, 0, len(names))
	for _, n := range names {
		items = append(items, models.AudioItem{Name: n, URL: "http://x/audio/" + n})
	}
	return items
}
