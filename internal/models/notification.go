package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	NotificationFriendRequest   = "friend_request"
	NotificationChallengeInvite = "challenge_invite"
	NotificationAchievement     = "achievement"
	NotificationStreak          = "streak"
)

// Notification is an append-only, human-readable event for one user.
// Only the read flag is ever mutated; the owner may delete.
type Notification struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	Type          string     `json:"type" db:"type"`
	Message       string     `json:"message" db:"message"`
	Read          bool       `json:"read" db:"read"`
	RelatedUserID *uuid.UUID `json:"related_user_id,omitempty" db:"related_user_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// RelatedUser is the profile snippet attached to an enriched notification.
type RelatedUser struct {
	Name      string  `json:"name"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// NotificationResponse is a notification enriched with the related user's
// profile, when one is referenced.
type NotificationResponse struct {
	Notification
	RelatedUser *RelatedUser `json:"related_user,omitempty"`
}
