package models

import (
	"time"

	"github.com/google/uuid"
)

// HabitCategories is the fixed set of valid habit categories.
var HabitCategories = []string{"prayer", "quran", "dhikr", "charity", "character", "fasting"}

// ValidCategory reports whether a category is one of the fixed enumeration.
func ValidCategory(category string) bool {
	for _, c := range HabitCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Habit is a trackable daily habit. Default habits are seeded once, shared
// by everyone and read-only; custom habits belong to exactly one user.
type Habit struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Category    string     `json:"category" db:"category"`
	Description *string    `json:"description,omitempty" db:"description"`
	XPReward    int        `json:"xp_reward" db:"xp_reward"`
	Icon        *string    `json:"icon,omitempty" db:"icon"`
	SortOrder   int        `json:"order" db:"sort_order"`
	IsDefault   bool       `json:"is_default" db:"is_default"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// HabitCreateRequest is the request body for POST /api/habits
type HabitCreateRequest struct {
	Title       string  `json:"title" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Description *string `json:"description,omitempty"`
	XPReward    int     `json:"xp_reward" binding:"required,gt=0"`
	Icon        *string `json:"icon,omitempty"`
}

// HabitUpdateRequest is the request body for PATCH /api/habits/:id
type HabitUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	XPReward    *int    `json:"xp_reward,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}
