package models

import (
	"time"

	"github.com/google/uuid"
)

// CompletionRecord is one row of the completion ledger: the state of one
// habit for one user on one calendar date. At most one record exists per
// (user, habit, date); records are flipped by toggling, never deleted.
type CompletionRecord struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	HabitID     uuid.UUID  `json:"habit_id" db:"habit_id"`
	Date        string     `json:"date" db:"date"`
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// ToggleResponse is returned by the habit toggle endpoint so the UI can
// animate the applied XP delta.
type ToggleResponse struct {
	Completed bool `json:"completed"`
	XPChange  int  `json:"xp_change"`
}

// TodayStats summarizes one day's progress for the dashboard.
type TodayStats struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
	XPEarned   int `json:"xp_earned"`
}

// StreakCheckResponse is returned by the streak evaluation endpoint.
type StreakCheckResponse struct {
	Streak       int  `json:"streak"`
	AllCompleted bool `json:"all_completed"`
}
