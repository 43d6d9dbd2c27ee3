// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/danielhkuo/audio-rating/models"
)

// Default request pacing
const (
	DefaultRate  = rate.Limit(20)
	DefaultBurst = 10
)

var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx API response
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
}

// Is matches ErrNotFound for 404 responses
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to the rating API. It provides the catalog, rating and
// identity operations the engine needs, so an engine can run against a
// remote server.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter

	mu      sync.Mutex
	folders map[string]int
}

// New creates a client for the API at baseURL
func New(baseURL string, limit rate.Limit, burst int) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(limit, burst),
		folders: make(map[string]int),
	}
}

// do sends one request and decodes a JSON response into out when non-nil
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr models.ErrorResponse
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return &StatusError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// ListParticipants returns all participants ordered by id
func (c *Client) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	var resp models.ListParticipantsResponse
	if err := c.do(ctx, http.MethodGet, "/participants", nil, &resp); err != nil {
		return nil, err
	}

	c.mu.Lock()
	for _, p := range resp.Participants {
		c.folders[p.FolderKey] = p.ID
	}
	c.mu.Unlock()

	return resp.Participants, nil
}

// ListAudioItems lists a participant's clips by folder key. The folder is
// mapped to its participant through the last participant listing.
func (c *Client) ListAudioItems(ctx context.Context, folderKey string) ([]models.AudioItem, error) {
	id, ok := c.participantForFolder(folderKey)
	if !ok {
		if _, err := c.ListParticipants(ctx); err != nil {
			return nil, err
		}
		if id, ok = c.participantForFolder(folderKey); !ok {
			return nil, fmt.Errorf("folder %q: %w", folderKey, ErrNotFound)
		}
	}

	var resp models.ListAudioItemsResponse
	if err := c.do(ctx, http.MethodGet, "/participants/"+strconv.Itoa(id)+"/audio", nil, &resp); err != nil {
		return nil, err
	}
	return resp.AudioItems, nil
}

func (c *Client) participantForFolder(folderKey string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.folders[folderKey]
	return id, ok
}

// Upsert creates or replaces one rating
func (c *Client) Upsert(ctx context.Context, r models.Rating) error {
	pid := r.ParticipantID
	return c.do(ctx, http.MethodPut, "/ratings", models.UpsertRatingRequest{
		RaterID:       r.RaterID,
		ParticipantID: &pid,
		AudioName:     r.AudioName,
		Rating:        r.Value,
	}, nil)
}

// ListByRater returns a rater's ratings, optionally for one participant
func (c *Client) ListByRater(ctx context.Context, raterID string, participantID *int) ([]models.Rating, error) {
	path := "/raters/" + url.PathEscape(raterID) + "/ratings"
	if participantID != nil {
		path += "?participant_id=" + strconv.Itoa(*participantID)
	}

	var resp models.ListRatingsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Ratings, nil
}

// Resolve returns the rater with the given name, creating it if needed
func (c *Client) Resolve(ctx context.Context, name string) (models.Rater, error) {
	var rater models.Rater
	err := c.do(ctx, http.MethodPost, "/raters", models.ResolveRaterRequest{Name: name}, &rater)
	return rater, err
}

// Rater looks a rater up by id
func (c *Client) Rater(ctx context.Context, id string) (models.Rater, error) {
	var rater models.Rater
	err := c.do(ctx, http.MethodGet, "/raters/"+url.PathEscape(id), nil, &rater)
	return rater, err
}
