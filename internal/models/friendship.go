package models

import (
	"time"

	"github.com/google/uuid"
)

// Friendship statuses. Declined or removed friendships are deleted outright,
// so no terminal "rejected" status exists.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friendship is the single record governing both a pending request and an
// accepted relationship between two users. At most one record exists per
// unordered pair, checked in both directions before insert.
type Friendship struct {
	ID         uuid.UUID `json:"id" db:"id"`
	SenderID   uuid.UUID `json:"sender_id" db:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id" db:"receiver_id"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// FriendRequest is the request body for POST /api/friends/requests
type FriendRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
}

// FriendResponse is one accepted friend with their progression stats.
type FriendResponse struct {
	FriendshipID  uuid.UUID `json:"friendship_id"`
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	Username      string    `json:"username"`
	AvatarURL     *string   `json:"avatar_url,omitempty"`
	Level         int       `json:"level"`
	XP            int       `json:"xp"`
	Streak        int       `json:"streak"`
	LongestStreak int       `json:"longest_streak"`
}

// PendingRequestResponse is one pending request enriched with the other
// party's profile (the sender for received requests, the receiver for sent).
type PendingRequestResponse struct {
	FriendshipID uuid.UUID `json:"friendship_id"`
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	Level        int       `json:"level"`
	Streak       int       `json:"streak"`
	CreatedAt    time.Time `json:"created_at"`
}

// FriendshipStatusResponse describes the relationship between the caller
// and another user, if any.
type FriendshipStatusResponse struct {
	FriendshipID uuid.UUID `json:"friendship_id"`
	Status       string    `json:"status"`
	Direction    string    `json:"direction"` // "sent" or "received"
}
