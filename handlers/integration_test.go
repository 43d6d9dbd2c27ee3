// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/audio-rating/models"
	"github.com/danielhkuo/audio-rating/testutil"
)

// TestFullRatingWorkflow tests the complete end-to-end workflow:
// 1. Resolve a rater by name
// 2. Load overall progress
// 3. Open one participant
// 4. Rate a clip, then re-rate it
// 5. Verify progress and stored ratings
func TestFullRatingWorkflow(t *testing.T) {
	db, cfg := setupCatalog(t)
	raterHandler := NewRaterHandler(db, cfg)
	ratingHandler := NewRatingHandler(db, cfg)
	progressHandler := NewProgressHandler(db, cfg)

	// Step 1: Resolve rater
	req := testutil.MakeRequest("POST", "/raters", models.ResolveRaterRequest{Name: "Integration Tester"}, nil)
	w := httptest.NewRecorder()
	raterHandler.Resolve(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 1 - Resolve rater failed: %d - %s", w.Code, w.Body.String())
	}
	var rater models.Rater
	testutil.AssertJSON(t, w, &rater)
	t.Logf("Step 1 - Resolved rater: %s", rater.ID)

	overview := func() models.ProgressResponse {
		req := httptest.NewRequest("GET", "/raters/"+rater.ID+"/progress", nil)
		req.SetPathValue("id", rater.ID)
		w := httptest.NewRecorder()
		progressHandler.Overview(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("Load progress failed: %d - %s", w.Code, w.Body.String())
		}
		var resp models.ProgressResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	// Step 2: Nothing rated yet
	if got := overview().Overall; got.Rated != 0 || got.Total != 3 {
		t.Fatalf("Step 2 - Unexpected initial progress: %+v", got)
	}

	// Step 3: Open participant 7
	req = httptest.NewRequest("GET", "/raters/"+rater.ID+"/participants/7", nil)
	req.SetPathValue("id", rater.ID)
	req.SetPathValue("pid", "7")
	w = httptest.NewRecorder()
	progressHandler.Detail(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Load participant failed: %d - %s", w.Code, w.Body.String())
	}
	var detail models.ParticipantDetailResponse
	testutil.AssertJSON(t, w, &detail)
	if len(detail.AudioItems) != 3 || len(detail.Ratings) != 0 {
		t.Fatalf("Step 3 - Unexpected detail: %+v", detail)
	}

	// Step 4: Rate clip1 with 3, then 5
	pid := 7
	for _, value := range []int{3, 5} {
		req = testutil.MakeRequest("PUT", "/ratings", models.UpsertRatingRequest{
			RaterID:       rater.ID,
			ParticipantID: &pid,
			AudioName:     detail.AudioItems[0].Name,
			Rating:        value,
		}, nil)
		w = httptest.NewRecorder()
		ratingHandler.Upsert(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("Step 4 - Rating %d failed: %d - %s", value, w.Code, w.Body.String())
		}
	}

	// Step 5: One of three rated, last value kept
	progress := overview()
	if got := progress.Progress[7]; got.Rated != 1 || got.Total != 3 {
		t.Errorf("Step 5 - Unexpected participant progress: %+v", got)
	}

	req = httptest.NewRequest("GET", "/raters/"+rater.ID+"/ratings?participant_id=7", nil)
	req.SetPathValue("id", rater.ID)
	w = httptest.NewRecorder()
	ratingHandler.List(w, req)
	var ratings models.ListRatingsResponse
	testutil.AssertJSON(t, w, &ratings)
	if len(ratings.Ratings) != 1 || ratings.Ratings[0].Value != 5 {
		t.Errorf("Step 5 - Expected a single rating of 5, got %+v", ratings.Ratings)
	}
}

// TestRatingsForRemovedClipsAreIgnored checks that ratings for files no
// longer in the folder do not count towards progress
func TestRatingsForRemovedClipsAreIgnored(t *testing.T) {
	db, cfg := setupCatalog(t)
	handler := NewProgressHandler(db, cfg)
	raterID := testutil.CreateTestRater(t, db, "Budi")
	testutil.CreateTestRating(t, db, raterID, 7, "deleted.mp3", 5)

	req := httptest.NewRequest("GET", "/raters/"+raterID+"/progress", nil)
	req.SetPathValue("id", raterID)
	w := httptest.NewRecorder()
	handler.Overview(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.ProgressResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Progress[7].Rated != 0 {
		t.Errorf("Expected removed clip to be ignored, got %+v", resp.Progress[7])
	}
}
