package models

import "time"

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Request types

type ResolveRaterRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

// Composite key plus value. ParticipantID is a pointer so a missing field
// is distinguishable from participant 0.
type UpsertRatingRequest struct {
	RaterID       string `json:"rater_id" validate:"required"`
	ParticipantID *int   `json:"participant_id" validate:"required"`
	AudioName     string `json:"audio_name" validate:"required"`
	Rating        int    `json:"rating" validate:"min=1,max=5"`
}

// Response types

type ListParticipantsResponse struct {
	Participants []Participant `json:"participants"`
}

type ListAudioItemsResponse struct {
	AudioItems []AudioItem `json:"audio_items"`
}

type ListRatingsResponse struct {
	Ratings []Rating `json:"ratings"`
}

type ProgressResponse struct {
	Participants []Participant        `json:"participants"`
	Progress     map[int]ProgressEntry `json:"progress"`
	Overall      ProgressEntry        `json:"overall"`
	Degraded     []int                `json:"degraded,omitempty"`
}

type ParticipantSummaryResponse struct {
	Participant Participant    `json:"participant"`
	Raters      int            `json:"raters"`
	AudioItems  []AudioSummary `json:"audio_items"`
}

type ParticipantDetailResponse struct {
	Participant Participant    `json:"participant"`
	AudioItems  []AudioItem    `json:"audio_items"`
	Ratings     map[string]int `json:"ratings"`
	Progress    ProgressEntry  `json:"progress"`
	Degraded    bool           `json:"degraded,omitempty"`
}

// Domain types

type Participant struct {
	ID        int    `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	FolderKey string `json:"folder_key" yaml:"folder"`
}

type AudioItem struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Rater struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Rating is keyed by (RaterID, ParticipantID, AudioName).
type Rating struct {
	RaterID       string    `json:"rater_id"`
	ParticipantID int       `json:"participant_id"`
	AudioName     string    `json:"audio_name"`
	Value         int       `json:"rating"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ProgressEntry struct {
	Rated      int     `json:"rated"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// AudioSummary aggregates every rater's rating of one audio item.
// LowShare is the fraction of ratings at or below 2.
type AudioSummary struct {
	AudioName string  `json:"audio_name"`
	Count     int     `json:"count"`
	Median    float64 `json:"median"`
	P10       float64 `json:"p10"`
	P90       float64 `json:"p90"`
	Mean      float64 `json:"mean"`
	LowShare  float64 `json:"low_share"`
	Rank      int     `json:"rank"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
