package gamification

import "math"

const (
	// XPPerLevel is the base multiplier for the triangular level curve.
	// Reaching level N requires 100 * N*(N+1)/2 cumulative XP.
	XPPerLevel = 100

	// MaxLevel caps progression at the 30-day observance length.
	MaxLevel = 30

	// MinLevel is where every new user starts.
	MinLevel = 1
)

// CalculateLevel returns the level for a cumulative XP total, solving the
// triangular threshold inverse with the quadratic formula and clamping to
// [MinLevel, MaxLevel]. Zero or negative XP is level 1.
func CalculateLevel(totalXP int) int {
	if totalXP <= 0 {
		return MinLevel
	}

	discriminant := 1 + (8*float64(totalXP))/float64(XPPerLevel)
	level := int(math.Floor((-1 + math.Sqrt(discriminant)) / 2))

	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// XPForLevel returns the cumulative XP threshold for a level.
func XPForLevel(level int) int {
	return level * (level + 1) / 2 * XPPerLevel
}

// LevelProgress describes how far a user has progressed within their
// current level.
type LevelProgress struct {
	Level          int     `json:"level"`
	CurrentLevelXP int     `json:"current_level_xp"`
	NextLevelXP    int     `json:"next_level_xp"`
	Percentage     float64 `json:"percentage"`
}

// CalculateLevelProgress returns the level progress view for a cumulative
// XP total. Percentage is capped at 100.
func CalculateLevelProgress(totalXP int) LevelProgress {
	level := CalculateLevel(totalXP)
	currentThreshold := XPForLevel(level)
	nextThreshold := XPForLevel(level + 1)

	xpInLevel := totalXP - currentThreshold
	if xpInLevel < 0 {
		xpInLevel = 0
	}
	xpNeeded := nextThreshold - currentThreshold

	percentage := float64(xpInLevel) / float64(xpNeeded) * 100
	if percentage > 100 {
		percentage = 100
	}

	return LevelProgress{
		Level:          level,
		CurrentLevelXP: xpInLevel,
		NextLevelXP:    xpNeeded,
		Percentage:     percentage,
	}
}

// ApplyXP applies a signed XP delta to a cumulative total, clamping the
// result at zero, and returns the new total with its recomputed level.
// Level must never be persisted without going through this recomputation.
func ApplyXP(totalXP, delta int) (newXP, newLevel int) {
	newXP = totalXP + delta
	if newXP < 0 {
		newXP = 0
	}
	return newXP, CalculateLevel(newXP)
}
