package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateLevel_Bounds(t *testing.T) {
	assert.Equal(t, 1, CalculateLevel(0))
	assert.Equal(t, 1, CalculateLevel(-50))
	assert.Equal(t, 1, CalculateLevel(1))

	// Absurdly large totals still clamp at the max level.
	assert.Equal(t, MaxLevel, CalculateLevel(100_000_000))
}

func TestCalculateLevel_Thresholds(t *testing.T) {
	// Level 2 requires 100 * 2*3/2 = 300 cumulative XP.
	assert.Equal(t, 1, CalculateLevel(299))
	assert.Equal(t, 2, CalculateLevel(300))

	// Level 3 requires 100 * 3*4/2 = 600.
	assert.Equal(t, 2, CalculateLevel(599))
	assert.Equal(t, 3, CalculateLevel(600))

	// One 20-XP habit, then five more: stays level 1 until 300.
	assert.Equal(t, 1, CalculateLevel(20))
	assert.Equal(t, 1, CalculateLevel(120))
}

func TestCalculateLevel_Monotonic(t *testing.T) {
	prev := CalculateLevel(0)
	for xp := 0; xp <= 50_000; xp += 7 {
		level := CalculateLevel(xp)
		require.GreaterOrEqual(t, level, prev, "level regressed at xp=%d", xp)
		require.GreaterOrEqual(t, level, MinLevel)
		require.LessOrEqual(t, level, MaxLevel)
		prev = level
	}
}

func TestXPForLevel_BracketsCalculateLevel(t *testing.T) {
	// Below the level-1 threshold the clamp holds the level at MinLevel, so
	// the bracket property only applies from that threshold up.
	for xp := 0; xp < XPForLevel(MinLevel); xp++ {
		require.Equal(t, MinLevel, CalculateLevel(xp))
	}

	for xp := XPForLevel(MinLevel); xp <= 40_000; xp += 13 {
		level := CalculateLevel(xp)
		if level >= MaxLevel {
			continue
		}
		require.LessOrEqual(t, XPForLevel(level), xp, "threshold above xp at xp=%d", xp)
		require.Greater(t, XPForLevel(level+1), xp, "next threshold not above xp at xp=%d", xp)
	}
}

func TestCalculateLevelProgress_Values(t *testing.T) {
	// Progress within level 1 is measured against the 100..300 span.
	p := CalculateLevelProgress(150)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 50, p.CurrentLevelXP)
	assert.Equal(t, 200, p.NextLevelXP)
	assert.InDelta(t, 25.0, p.Percentage, 0.001)

	// Exactly at a threshold: 0% into the new level.
	p = CalculateLevelProgress(300)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 0, p.CurrentLevelXP)
	assert.Equal(t, 300, p.NextLevelXP)
	assert.InDelta(t, 0.0, p.Percentage, 0.001)

	// Max level: percentage never exceeds 100.
	p = CalculateLevelProgress(10_000_000)
	assert.Equal(t, MaxLevel, p.Level)
	assert.InDelta(t, 100.0, p.Percentage, 0.001)
}

func TestApplyXP_ClampsAtZero(t *testing.T) {
	xp, level := ApplyXP(10, -25)
	assert.Equal(t, 0, xp)
	assert.Equal(t, 1, level)

	xp, level = ApplyXP(280, 20)
	assert.Equal(t, 300, xp)
	assert.Equal(t, 2, level)

	// Round trip with no clamping nets to zero.
	xp, _ = ApplyXP(500, 20)
	xp, level = ApplyXP(xp, -20)
	assert.Equal(t, 500, xp)
	assert.Equal(t, CalculateLevel(500), level)
}
