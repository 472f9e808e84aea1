package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	for _, c := range HabitCategories {
		assert.True(t, ValidCategory(c), c)
	}
	assert.False(t, ValidCategory("fitness"))
	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("Prayer"))
}

func TestRankParticipants(t *testing.T) {
	a := ChallengeParticipant{UserID: uuid.New(), Username: "a", CompletedDays: 3}
	b := ChallengeParticipant{UserID: uuid.New(), Username: "b", CompletedDays: 10}
	c := ChallengeParticipant{UserID: uuid.New(), Username: "c", CompletedDays: 3}

	participants := []ChallengeParticipant{a, b, c}
	RankParticipants(participants)

	assert.Equal(t, "b", participants[0].Username)
	// Ties keep input order
	assert.Equal(t, "a", participants[1].Username)
	assert.Equal(t, "c", participants[2].Username)
}

func TestRankParticipants_Empty(t *testing.T) {
	participants := []ChallengeParticipant{}
	RankParticipants(participants)
	assert.Empty(t, participants)
}
