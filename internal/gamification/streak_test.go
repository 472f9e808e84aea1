package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextStreak(t *testing.T) {
	assert.Equal(t, 6, NextStreak(true, 5), "completed yesterday extends the streak")
	assert.Equal(t, 1, NextStreak(false, 5), "missed yesterday resets to 1")
	assert.Equal(t, 1, NextStreak(true, 0), "first ever full day on a zero streak")
}

func TestEvaluateStreak(t *testing.T) {
	// First evaluation of a day moves the streak.
	streak, write := EvaluateStreak("2024-03-04", "2024-03-05", true, 5)
	assert.True(t, write)
	assert.Equal(t, 6, streak)

	// Re-running the same day keeps the streak and writes nothing, so a
	// retry cannot double-count or re-pay a milestone bonus.
	streak, write = EvaluateStreak("2024-03-05", "2024-03-05", true, 6)
	assert.False(t, write)
	assert.Equal(t, 6, streak)

	// A fresh user has no counted day yet.
	streak, write = EvaluateStreak("", "2024-03-05", false, 0)
	assert.True(t, write)
	assert.Equal(t, 1, streak)
}

func TestAllHabitsCompleted(t *testing.T) {
	assert.True(t, AllHabitsCompleted(3, 3))
	assert.True(t, AllHabitsCompleted(4, 3), "extra completions still count as all done")
	assert.False(t, AllHabitsCompleted(2, 3))
	assert.False(t, AllHabitsCompleted(0, 0), "no habits means no full day")
}

func TestStreakBonusXP(t *testing.T) {
	milestones := map[int]int{3: 50, 7: 100, 10: 150, 14: 200, 21: 300, 30: 500}
	for streak, want := range milestones {
		assert.Equal(t, want, StreakBonusXP(streak), "streak %d", streak)
	}
	assert.Equal(t, 0, StreakBonusXP(1))
	assert.Equal(t, 0, StreakBonusXP(15), "badge milestone without a bonus")
	assert.Equal(t, 0, StreakBonusXP(31))
}

func TestStreakBadge(t *testing.T) {
	assert.Equal(t, BadgeConsistent, StreakBadge(7))
	assert.Equal(t, BadgeHalfwayThere, StreakBadge(15))
	assert.Equal(t, BadgeRamadanChampion, StreakBadge(30))
	assert.Equal(t, "", StreakBadge(3), "bonus milestone without a badge")
	assert.Equal(t, "", StreakBadge(29))
}

func TestDailyCompletionPercentage(t *testing.T) {
	assert.Equal(t, 0, DailyCompletionPercentage(0, 0))
	assert.Equal(t, 50, DailyCompletionPercentage(1, 2))
	assert.Equal(t, 67, DailyCompletionPercentage(2, 3))
	assert.Equal(t, 100, DailyCompletionPercentage(3, 3))
}
