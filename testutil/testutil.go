// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/audio-rating/cliparse"
	"github.com/danielhkuo/audio-rating/db"
	"github.com/danielhkuo/audio-rating/identity"
)

// TestAudioBaseURL is the audio URL prefix used by GetTestConfig
const TestAudioBaseURL = "http://localhost:3318/audio"

// SetupTestDB creates a fresh SQLite database with the full schema.
// The database lives in a per-test temporary directory and is closed on cleanup.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration rooted at audioRoot
func GetTestConfig(audioRoot string) cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    "file:test.db",
		DatabaseType:   db.TypeSQLite,
		AudioRoot:      audioRoot,
		AudioBaseURL:   TestAudioBaseURL,
		MaxConcurrency: 4,
		LogLevel:       "info",
	}
}

// CreateTestParticipant inserts a participant row
func CreateTestParticipant(t *testing.T, db *sql.DB, id int, name, folderKey string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO participant (id, name, folder_key)
		VALUES ($1, $2, $3)
	`, id, name, folderKey)
	if err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}
}

// CreateTestRater inserts a rater and returns its ID
func CreateTestRater(t *testing.T, db *sql.DB, name string) string {
	t.Helper()

	raterID := identity.NewRaterID()
	_, err := db.Exec(`
		INSERT INTO rater (id, name, created_at)
		VALUES ($1, $2, $3)
	`, raterID, name, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test rater: %v", err)
	}

	return raterID
}

// CreateTestRating inserts one rating row
func CreateTestRating(t *testing.T, db *sql.DB, raterID string, participantID int, audioName string, value int) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO rating (rater_id, participant_id, audio_name, rating, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, raterID, participantID, audioName, value, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test rating: %v", err)
	}
}

// CountRatings returns how many rows exist for one composite key
func CountRatings(t *testing.T, db *sql.DB, raterID string, participantID int, audioName string) int {
	t.Helper()

	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM rating
		WHERE rater_id = $1 AND participant_id = $2 AND audio_name = $3
	`, raterID, participantID, audioName).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count ratings: %v", err)
	}
	return count
}

// CreateAudioFolder writes empty files into root/folderKey
func CreateAudioFolder(t *testing.T, root, folderKey string, files ...string) {
	t.Helper()

	dir := filepath.Join(root, folderKey)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create audio folder: %v", err)
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("RIFF"), 0o644); err != nil {
			t.Fatalf("Failed to create audio file: %v", err)
		}
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
