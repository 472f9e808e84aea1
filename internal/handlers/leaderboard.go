package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/cache"
	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/gamification"
	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/middleware"
	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/models"
	"github.com/gin-gonic/gin"
)

const leaderboardCacheTTL = 30 * time.Second

// GetLeaderboard ranks the caller and their accepted friends. The filter
// query param selects the XP window: "all" (lifetime), "daily" (today) or
// "weekly" (last 7 days). Responses are cached briefly per user and filter.
func GetLeaderboard(store *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		filter := c.DefaultQuery("filter", models.LeaderboardAll)
		if filter != models.LeaderboardAll && filter != models.LeaderboardDaily && filter != models.LeaderboardWeekly {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter, must be all, daily or weekly"})
			return
		}

		cacheKey := fmt.Sprintf("leaderboard:%s:%s", userID, filter)
		if payload, hit := store.Get(c.Request.Context(), cacheKey); hit {
			c.Data(http.StatusOK, "application/json", payload)
			return
		}

		now := time.Now()
		var windowStart, windowEnd string
		switch filter {
		case models.LeaderboardDaily:
			windowStart = now.Format(gamification.DateLayout)
			windowEnd = windowStart
		case models.LeaderboardWeekly:
			windowStart = now.AddDate(0, 0, -6).Format(gamification.DateLayout)
			windowEnd = now.Format(gamification.DateLayout)
		}

		// Lifetime stats for the board plus XP earned inside the window.
		// For the "all" filter the window clause matches nothing and the
		// ranking falls back to lifetime XP.
		rows, err := db.Query(c.Request.Context(), `
			SELECT u.id, u.name, u.username, u.avatar_url, u.level, u.xp, u.streak,
				COALESCE(SUM(h.xp_reward) FILTER (
					WHERE hl.completed AND $2 != '' AND hl.date BETWEEN $2 AND $3
				), 0) AS window_xp
			FROM users u
			LEFT JOIN habit_logs hl ON hl.user_id = u.id
			LEFT JOIN habits h ON h.id = hl.habit_id
			WHERE u.id = $1
			   OR u.id IN (
					SELECT CASE WHEN f.sender_id = $1 THEN f.receiver_id ELSE f.sender_id END
					FROM friendships f
					WHERE (f.sender_id = $1 OR f.receiver_id = $1) AND f.status = 'accepted'
			   )
			GROUP BY u.id, u.name, u.username, u.avatar_url, u.level, u.xp, u.streak
			ORDER BY window_xp DESC, u.xp DESC, u.id ASC
		`, userID, windowStart, windowEnd)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query leaderboard", "details": err.Error()})
			return
		}
		defer rows.Close()

		entries := []models.LeaderboardEntry{}
		for rows.Next() {
			var e models.LeaderboardEntry
			err := rows.Scan(
				&e.UserID, &e.Name, &e.Username, &e.AvatarURL,
				&e.Level, &e.XP, &e.Streak, &e.WindowXP,
			)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse leaderboard data"})
				return
			}
			e.Rank = len(entries) + 1
			e.IsSelf = e.UserID == userID
			entries = append(entries, e)
		}

		resp := models.LeaderboardResponse{
			Filter:      filter,
			Leaderboard: entries,
			TotalUsers:  len(entries),
		}

		if payload, err := json.Marshal(resp); err == nil {
			store.Set(c.Request.Context(), cacheKey, payload, leaderboardCacheTTL)
		}

		c.JSON(http.StatusOK, resp)
	}
}
