package handlers

import (
	"net/http"

	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/middleware"
	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/models"
	"github.com/gin-gonic/gin"
)

// ListBadges returns the caller's earned badges, newest first.
func ListBadges(c *gin.Context) {
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

	rows, err := db.Query(c.Request.Context(), `
		SELECT id, user_id, badge_type, earned_at
		FROM badges
		WHERE user_id = $1
		ORDER BY earned_at DESC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query badges", "details": err.Error()})
		return
	}
	defer rows.Close()

	badges := []models.Badge{}
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.UserID, &b.BadgeType, &b.EarnedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse badge data"})
			return
		}
		badges = append(badges, b)
	}

	c.JSON(http.StatusOK, gin.H{
		"badges": badges,
		"count":  len(badges),
	})
}
