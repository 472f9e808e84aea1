package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Challenge statuses. A missing status means active; completed is terminal.
const (
	ChallengeActive    = "active"
	ChallengeCompleted = "completed"
)

// Challenge is a time-boxed group goal. The creator is permanently a
// participant and can only delete, never leave.
type Challenge struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	CreatorID      uuid.UUID   `json:"creator_id" db:"creator_id"`
	Title          string      `json:"title" db:"title"`
	Description    *string     `json:"description,omitempty" db:"description"`
	HabitID        *uuid.UUID  `json:"habit_id,omitempty" db:"habit_id"`
	StartDate      string      `json:"start_date" db:"start_date"`
	EndDate        string      `json:"end_date" db:"end_date"`
	ParticipantIDs []uuid.UUID `json:"participant_ids" db:"participant_ids"`
	Status         string      `json:"status" db:"status"`
	CompletedAt    *time.Time  `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
}

// ChallengeCreateRequest is the request body for POST /api/challenges
type ChallengeCreateRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description,omitempty"`
	HabitID     *uuid.UUID `json:"habit_id,omitempty"`
	StartDate   string     `json:"start_date" binding:"required"`
	EndDate     string     `json:"end_date" binding:"required"`
}

// ChallengeInviteRequest is the request body for POST /api/challenges/:id/invite
type ChallengeInviteRequest struct {
	FriendID uuid.UUID `json:"friend_id" binding:"required"`
}

// ChallengeListItem is one challenge in a list view, enriched with creator
// info and participant count.
type ChallengeListItem struct {
	Challenge
	CreatorName      string  `json:"creator_name"`
	CreatorAvatarURL *string `json:"creator_avatar_url,omitempty"`
	ParticipantCount int     `json:"participant_count"`
	HabitTitle       *string `json:"habit_title,omitempty"`
	IsCreator        bool    `json:"is_creator"`
}

// ChallengeParticipant is one participant's progress within a challenge's
// date window.
type ChallengeParticipant struct {
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	Username      string    `json:"username"`
	AvatarURL     *string   `json:"avatar_url,omitempty"`
	Level         int       `json:"level"`
	CompletedDays int       `json:"completed_days"`
	TotalDays     int       `json:"total_days"`
	Percentage    int       `json:"percentage"`
}

// ChallengeDetailResponse is the full challenge view with ranked
// participants.
type ChallengeDetailResponse struct {
	Challenge
	CreatorName   string                 `json:"creator_name"`
	HabitTitle    *string                `json:"habit_title,omitempty"`
	Participants  []ChallengeParticipant `json:"participants"`
	IsCreator     bool                   `json:"is_creator"`
	IsParticipant bool                   `json:"is_participant"`
}

// RankParticipants orders participants by completed days descending for
// display. Ties keep their existing relative order, which the handlers make
// deterministic by loading participants in user-id order.
func RankParticipants(participants []ChallengeParticipant) {
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].CompletedDays > participants[j].CompletedDays
	})
}
