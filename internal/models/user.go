package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered member of the app. External identity comes
// from the auth provider; xp/level/streak are owned by the progression
// engine. Level is a cached projection of xp and is always rewritten in the
// same transaction as xp.
type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ExternalID    string    `json:"external_id" db:"external_id"`
	Name          string    `json:"name" db:"name"`
	Email         string    `json:"email" db:"email"`
	Username      string    `json:"username" db:"username"`
	AvatarURL     *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	XP            int       `json:"xp" db:"xp"`
	Level         int       `json:"level" db:"level"`
	Streak        int       `json:"streak" db:"streak"`
	LongestStreak int       `json:"longest_streak" db:"longest_streak"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// UserUpdateRequest is the request body for PATCH /api/users/me
type UserUpdateRequest struct {
	Name      *string `json:"name,omitempty"`
	Username  *string `json:"username,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// UserSearchResult is the trimmed-down shape returned by user search
type UserSearchResult struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Level     int       `json:"level"`
	Streak    int       `json:"streak"`
}
