package domain

import "time"

type FestivalStatus string

const (
	FestivalDraft     FestivalStatus = "DRAFT"
	FestivalPublished FestivalStatus = "PUBLISHED"
	FestivalArchived  FestivalStatus = "ARCHIVED"
)

type Festival struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	// Slug is an optional URL-friendly handle for the festival.
	Slug        string         `json:"slug,omitempty"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	StartsAt    time.Time      `json:"starts_at"`
	EndsAt      time.Time      `json:"ends_at"`
	Status      FestivalStatus `json:"status"`
	// TokenName is the display name of the in-app currency, e.g. "jetons".
	TokenName   string    `json:"token_name"`
	APIKey      string    `json:"api_key,omitempty"`
	OrganizerID uint      `json:"organizer_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FestivalUpdate carries the partial-update fields; nil fields are
// left untouched.
type FestivalUpdate struct {
	Name        *string
	Slug        *string
	Description *string
	Location    *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Status      *FestivalStatus
	TokenName   *string
}
