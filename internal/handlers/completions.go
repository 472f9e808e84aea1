package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/gamification"
	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/middleware"
	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ToggleRequest is the request body for toggling a habit on a date
type ToggleRequest struct {
	Date string `json:"date" binding:"required"`
}

// ToggleHabit flips a habit's completion state for a calendar date and
// applies the XP delta. The log write, XP clamp and level recompute happen
// in one transaction so concurrent toggles serialize on the store.
func ToggleHabit(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	userID, ok := middleware.GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	habitIDParam := c.Param("id")
	habitID, err := uuid.Parse(habitIDParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid habit ID format"})
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if _, err := gamification.ParseDate(req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := db.Begin(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback(c.Request.Context())

	// Load the habit and check the caller may track it
	var (
		xpReward  int
		isDefault bool
		ownerID   *uuid.UUID
	)
	err = tx.QueryRow(c.Request.Context(),
		"SELECT xp_reward, is_default, user_id FROM habits WHERE id = $1",
		habitID,
	).Scan(&xpReward, &isDefault, &ownerID)

	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query habit", "details": err.Error()})
		}
		return
	}

	if !isDefault && (ownerID == nil || *ownerID != userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to track this habit"})
		return
	}

	// Find the existing log for this (habit, date), if any
	var (
		logID        uuid.UUID
		wasCompleted bool
	)
	err = tx.QueryRow(c.Request.Context(),
		"SELECT id, completed FROM habit_logs WHERE user_id = $1 AND habit_id = $2 AND date = $3",
		userID, habitID, req.Date,
	).Scan(&logID, &wasCompleted)

	var completed bool
	var xpChange int

	switch {
	case err == pgx.ErrNoRows:
		// First toggle for this day: create as completed
		_, err = tx.Exec(c.Request.Context(), `
			INSERT INTO habit_logs (id, user_id, habit_id, date, completed, completed_at)
			VALUES ($1, $2, $3, $4, true, $5)
		`, uuid.New(), userID, habitID, req.Date, time.Now())
		completed = true
		xpChange = xpReward

	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query habit log", "details": err.Error()})
		return

	case wasCompleted:
		// Uncomplete
		_, err = tx.Exec(c.Request.Context(),
			"UPDATE habit_logs SET completed = false, completed_at = NULL WHERE id = $1",
			logID,
		)
		completed = false
		xpChange = -xpReward

	default:
		// Re-complete
		_, err = tx.Exec(c.Request.Context(),
			"UPDATE habit_logs SET completed = true, completed_at = $1 WHERE id = $2",
			time.Now(), logID,
		)
		completed = true
		xpChange = xpReward
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update habit log", "details": err.Error()})
		return
	}

	if err := applyXPDelta(c.Request.Context(), tx, userID, xpChange); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update XP", "details": err.Error()})
		return
	}

	// First ever completed record earns first_step
	if completed {
		var completedCount int
		err = tx.QueryRow(c.Request.Context(),
			"SELECT COUNT(*) FROM habit_logs WHERE user_id = $1 AND completed = true",
			userID,
		).Scan(&completedCount)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count completions", "details": err.Error()})
			return
		}
		if completedCount == 1 {
			if err := awardBadge(c.Request.Context(), tx, userID, gamification.BadgeFirstStep); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to award badge", "details": err.Error()})
				return
			}
		}
	}

	if err = tx.Commit(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, models.ToggleResponse{
		Completed: completed,
		XPChange:  xpChange,
	})
}

// CheckStreak re-evaluates the caller's streak after a completion. It only
// moves the streak when every eligible habit is completed for the given
// date; a partial day leaves the streak untouched. Idempotent given the
// current ledger state, so a failed run can simply be retried.
func CheckStreak(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	userID, ok := middleware.GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	yesterday, err := gamification.PreviousDay(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := db.Begin(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback(c.Request.Context())

	var currentStreak int
	var lastCountedDate string
	err = tx.QueryRow(c.Request.Context(),
		"SELECT streak, COALESCE(last_streak_date, '') FROM users WHERE id = $1",
		userID,
	).Scan(&currentStreak, &lastCountedDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query user", "details": err.Error()})
		return
	}

	totalHabits, err := countEligibleHabits(c.Request.Context(), tx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count habits", "details": err.Error()})
		return
	}

	completedToday, err := countCompletedOn(c.Request.Context(), tx, userID, req.Date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count completions", "details": err.Error()})
		return
	}

	if !gamification.AllHabitsCompleted(completedToday, totalHabits) {
		c.JSON(http.StatusOK, models.StreakCheckResponse{
			Streak:       currentStreak,
			AllCompleted: false,
		})
		return
	}

	completedYesterday, err := countCompletedOn(c.Request.Context(), tx, userID, yesterday)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count completions", "details": err.Error()})
		return
	}

	allYesterday := gamification.AllHabitsCompleted(completedYesterday, totalHabits)
	newStreak, shouldWrite := gamification.EvaluateStreak(lastCountedDate, req.Date, allYesterday, currentStreak)

	// Retry on an already-counted day: nothing to write, no double bonus.
	if !shouldWrite {
		c.JSON(http.StatusOK, models.StreakCheckResponse{
			Streak:       newStreak,
			AllCompleted: true,
		})
		return
	}

	_, err = tx.Exec(c.Request.Context(), `
		UPDATE users
		SET streak = $1,
			longest_streak = GREATEST(longest_streak, $1),
			last_streak_date = $2
		WHERE id = $3
	`, newStreak, req.Date, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update streak", "details": err.Error()})
		return
	}

	// Milestone bonus XP and streak badges
	if bonus := gamification.StreakBonusXP(newStreak); bonus > 0 {
		if err := applyXPDelta(c.Request.Context(), tx, userID, bonus); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply bonus XP", "details": err.Error()})
			return
		}
		if err := insertNotification(c.Request.Context(), tx, userID, models.NotificationStreak,
			streakMilestoneMessage(newStreak, bonus), nil); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification", "details": err.Error()})
			return
		}
	}

	if badgeType := gamification.StreakBadge(newStreak); badgeType != "" {
		if err := awardBadge(c.Request.Context(), tx, userID, badgeType); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to award badge", "details": err.Error()})
			return
		}
	}

	if err = tx.Commit(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, models.StreakCheckResponse{
		Streak:       newStreak,
		AllCompleted: true,
	})
}

// GetCompletions returns the caller's completion records, optionally
// filtered to one date.
func GetCompletions(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	userID, ok := middleware.GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	query := `
		SELECT id, user_id, habit_id, date, completed, completed_at
		FROM habit_logs
		WHERE user_id = $1
	`
	params := []interface{}{userID}

	if date := c.Query("date"); date != "" {
		if _, err := gamification.ParseDate(date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		query += " AND date = $2"
		params = append(params, date)
	}

	query += " ORDER BY date, habit_id"

	rows, err := db.Query(c.Request.Context(), query, params...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query completions", "details": err.Error()})
		return
	}
	defer rows.Close()

	records := []models.CompletionRecord{}
	for rows.Next() {
		var record models.CompletionRecord
		err := rows.Scan(
			&record.ID, &record.UserID, &record.HabitID,
			&record.Date, &record.Completed, &record.CompletedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse completion data"})
			return
		}
		records = append(records, record)
	}

	c.JSON(http.StatusOK, gin.H{
		"completions": records,
		"count":       len(records),
	})
}

// GetTodayStats returns completed/total habit counts and XP earned for a
// date.
func GetTodayStats(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	userID, ok := middleware.GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	date := c.Query("date")
	if _, err := gamification.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var stats models.TodayStats

	err := db.QueryRow(c.Request.Context(),
		"SELECT COUNT(*) FROM habits WHERE is_default = true OR user_id = $1",
		userID,
	).Scan(&stats.Total)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count habits", "details": err.Error()})
		return
	}

	err = db.QueryRow(c.Request.Context(), `
		SELECT COUNT(*), COALESCE(SUM(h.xp_reward), 0)
		FROM habit_logs l
		JOIN habits h ON h.id = l.habit_id
		WHERE l.user_id = $1 AND l.date = $2 AND l.completed = true
	`, userID, date).Scan(&stats.Completed, &stats.XPEarned)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query stats", "details": err.Error()})
		return
	}

	stats.Percentage = gamification.DailyCompletionPercentage(stats.Completed, stats.Total)

	c.JSON(http.StatusOK, stats)
}

func streakMilestoneMessage(streak, bonus int) string {
	return fmt.Sprintf("%d-day streak! Keep it up: +%d bonus XP", streak, bonus)
}
