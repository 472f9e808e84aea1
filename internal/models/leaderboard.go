package models

import "github.com/google/uuid"

// Leaderboard filter windows.
const (
	LeaderboardAll    = "all"
	LeaderboardDaily  = "daily"
	LeaderboardWeekly = "weekly"
)

// LeaderboardEntry represents a user's position on the leaderboard
type LeaderboardEntry struct {
	Rank      int       `json:"rank"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Level     int       `json:"level"`
	XP        int       `json:"xp"`
	WindowXP  int       `json:"window_xp"`
	Streak    int       `json:"streak"`
	IsSelf    bool      `json:"is_self"`
}

// LeaderboardResponse is the API response for leaderboards
type LeaderboardResponse struct {
	Filter      string             `json:"filter"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	TotalUsers  int                `json:"total_users"`
}
