package models

import (
	"time"

	"github.com/google/uuid"
)

// Badge records that a user earned an achievement. At most one badge exists
// per (user, badge type), backed by a unique index.
type Badge struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	BadgeType string    `json:"badge_type" db:"badge_type"`
	EarnedAt  time.Time `json:"earned_at" db:"earned_at"`
}
