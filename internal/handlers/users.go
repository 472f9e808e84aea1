package handlers

import (
	"net/http"
	"strconv"

	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/gamification"
	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/middleware"
	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// GetCurrentUser returns the caller's profile along with level progress.
func GetCurrentUser(c *gin.Context) {
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

	var user models.User
	err := db.QueryRow(c.Request.Context(), `
		SELECT id, external_id, username, email, name, avatar_url, xp, level, streak, longest_streak, created_at
		FROM users WHERE id = $1
	`, userID).Scan(
		&user.ID, &user.ExternalID, &user.Username, &user.Email, &user.Name,
		&user.AvatarURL, &user.XP, &user.Level, &user.Streak, &user.LongestStreak,
		&user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query user", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     user,
		"progress": gamification.CalculateLevelProgress(user.XP),
	})
}

// SyncUser refreshes the caller's profile fields from their token claims.
// The client calls this after sign-in so display data tracks the identity
// provider.
func SyncUser(c *gin.Context) {
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

	claims, ok := middleware.GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	_, err := db.Exec(c.Request.Context(), `
		UPDATE users
		SET name = COALESCE(NULLIF($1, ''), name),
			email = COALESCE(NULLIF($2, ''), email),
			avatar_url = COALESCE(NULLIF($3, ''), avatar_url)
		WHERE id = $4
	`, claims.Name, claims.Email, claims.AvatarURL, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User synced successfully"})
}

// UpdateCurrentUser edits the caller's own profile.
func UpdateCurrentUser(c *gin.Context) {
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

	var req models.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	_, err := db.Exec(c.Request.Context(), `
		UPDATE users
		SET username = COALESCE($1, username),
			name = COALESCE($2, name),
			avatar_url = COALESCE($3, avatar_url)
		WHERE id = $4
	`, req.Username, req.Name, req.AvatarURL, userID)
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// GetLevelProgress computes the level view for an XP total, so clients can
// render progress bars without duplicating the curve.
func GetLevelProgress(c *gin.Context) {
	xp, err := strconv.Atoi(c.DefaultQuery("xp", "0"))
	if err != nil || xp < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "xp must be a non-negative integer"})
		return
	}

	c.JSON(http.StatusOK, gamification.CalculateLevelProgress(xp))
}

// SearchUsers finds users by username, email or display name. Used to
// send friend requests.
func SearchUsers(c *gin.Context) {
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

	term := c.Query("q")
	if len(term) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search term must be at least 2 characters"})
		return
	}

	rows, err := db.Query(c.Request.Context(), `
		SELECT id, name, username, avatar_url, level, streak
		FROM users
		WHERE id != $1
		  AND (username ILIKE '%' || $2 || '%'
		   OR email ILIKE '%' || $2 || '%'
		   OR name ILIKE '%' || $2 || '%')
		ORDER BY username
		LIMIT 10
	`, userID, term)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users", "details": err.Error()})
		return
	}
	defer rows.Close()

	results := []models.UserSearchResult{}
	for rows.Next() {
		var r models.UserSearchResult
		if err := rows.Scan(&r.ID, &r.Name, &r.Username, &r.AvatarURL, &r.Level, &r.Streak); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse user data"})
			return
		}
		results = append(results, r)
	}

	c.JSON(http.StatusOK, gin.H{
		"users": results,
		"count": len(results),
	})
}
