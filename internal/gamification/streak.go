package gamification

// Badge types awarded by the progression engine. Each is awarded at most
// once per user, ever.
const (
	BadgeFirstStep       = "first_step"
	BadgeConsistent      = "consistent"
	BadgeHalfwayThere    = "halfway_there"
	BadgeRamadanChampion = "ramadan_champion"
	BadgeSocialButterfly = "social_butterfly"
	BadgeChallengeMaster = "challenge_master"
)

const (
	// SocialButterflyThreshold is the accepted-friend count that earns
	// the social_butterfly badge.
	SocialButterflyThreshold = 5

	// ChallengeMasterThreshold is the lifetime completed-challenge count
	// that earns the challenge_master badge.
	ChallengeMasterThreshold = 3

	// ChallengeCompletionBonusXP is paid to every participant when a
	// challenge is completed.
	ChallengeCompletionBonusXP = 50
)

// streakBonusXP maps streak milestones to their one-time bonus XP. The
// bonus fires whenever a streak recomputation lands exactly on a milestone,
// even if the user has hit it on a previous run.
var streakBonusXP = map[int]int{
	3:  50,
	7:  100,
	10: 150,
	14: 200,
	21: 300,
	30: 500,
}

// streakBadges maps streak values to the badge they unlock.
var streakBadges = map[int]string{
	7:  BadgeConsistent,
	15: BadgeHalfwayThere,
	30: BadgeRamadanChampion,
}

// StreakBonusXP returns the milestone bonus for a streak value, or 0 if the
// value is not a milestone.
func StreakBonusXP(streak int) int {
	return streakBonusXP[streak]
}

// StreakBadge returns the badge type unlocked at a streak value, or "" if
// none.
func StreakBadge(streak int) string {
	return streakBadges[streak]
}

// NextStreak computes the new streak after a day becomes fully completed.
// Continuity depends only on whether the prior calendar day was also fully
// completed.
func NextStreak(allCompletedYesterday bool, currentStreak int) int {
	if allCompletedYesterday {
		return currentStreak + 1
	}
	return 1
}

// EvaluateStreak computes the streak after a fully-completed day and
// reports whether the result should be persisted. A date that already moved
// the streak is a no-op, so re-running the evaluation for the same day never
// double-counts (and never re-pays milestone bonuses).
func EvaluateStreak(lastCountedDate, date string, allCompletedYesterday bool, currentStreak int) (int, bool) {
	if lastCountedDate == date {
		return currentStreak, false
	}
	return NextStreak(allCompletedYesterday, currentStreak), true
}

// AllHabitsCompleted reports whether a day counts as fully completed: every
// eligible habit done, and at least one habit to do.
func AllHabitsCompleted(completed, total int) bool {
	return total > 0 && completed >= total
}

// DailyCompletionPercentage returns the rounded percentage of habits
// completed for a day. Zero habits is 0%, not a division error.
func DailyCompletionPercentage(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(completed)/float64(total)*100 + 0.5)
}
