package handlers

import (
	"net/http"

	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/middleware"
	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListHabits returns all habits available to the caller: the shared
// defaults plus their own custom habits, in checklist order.
func ListHabits(c *gin.Context) {
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
		SELECT id, user_id, title, category, description, xp_reward, icon, sort_order, is_default, created_at
		FROM habits
		WHERE is_default = true OR user_id = $1
	`
	params := []interface{}{userID}

	if category := c.Query("category"); category != "" {
		if !models.ValidCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		query += " AND category = $2"
		params = append(params, category)
	}

	query += " ORDER BY sort_order, title"

	rows, err := db.Query(c.Request.Context(), query, params...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query habits", "details": err.Error()})
		return
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		var habit models.Habit
		err := rows.Scan(
			&habit.ID, &habit.UserID, &habit.Title, &habit.Category,
			&habit.Description, &habit.XPReward, &habit.Icon,
			&habit.SortOrder, &habit.IsDefault, &habit.CreatedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse habit data"})
			return
		}
		habits = append(habits, habit)
	}

	c.JSON(http.StatusOK, gin.H{
		"habits": habits,
		"count":  len(habits),
	})
}

// ListDefaultHabits returns the shared catalog only.
func ListDefaultHabits(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	rows, err := db.Query(c.Request.Context(), `
		SELECT id, user_id, title, category, description, xp_reward, icon, sort_order, is_default, created_at
		FROM habits
		WHERE is_default = true
		ORDER BY sort_order
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query habits", "details": err.Error()})
		return
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		var habit models.Habit
		err := rows.Scan(
			&habit.ID, &habit.UserID, &habit.Title, &habit.Category,
			&habit.Description, &habit.XPReward, &habit.Icon,
			&habit.SortOrder, &habit.IsDefault, &habit.CreatedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse habit data"})
			return
		}
		habits = append(habits, habit)
	}

	c.JSON(http.StatusOK, gin.H{
		"habits": habits,
		"count":  len(habits),
	})
}

// CreateHabit adds a custom habit owned by the caller.
func CreateHabit(c *gin.Context) {
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

	var req models.HabitCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if !models.ValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	// New custom habits sort after everything else
	var maxOrder int
	err := db.QueryRow(c.Request.Context(),
		"SELECT COALESCE(MAX(sort_order), 0) FROM habits",
	).Scan(&maxOrder)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query habits", "details": err.Error()})
		return
	}

	habitID := uuid.New()
	_, err = db.Exec(c.Request.Context(), `
		INSERT INTO habits (id, user_id, title, category, description, xp_reward, icon, sort_order, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false)
	`, habitID, userID, req.Title, req.Category, req.Description, req.XPReward, req.Icon, maxOrder+1)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create habit", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Habit created successfully",
		"habit_id": habitID,
	})
}

// UpdateHabit edits a custom habit. Defaults and other users' habits are
// off limits.
func UpdateHabit(c *gin.Context) {
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

	habitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid habit ID format"})
		return
	}

	var req models.HabitUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.Category != nil && !models.ValidCategory(*req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}
	if req.XPReward != nil && *req.XPReward <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "XP reward must be positive"})
		return
	}

	var isDefault bool
	var ownerID *uuid.UUID
	err = db.QueryRow(c.Request.Context(),
		"SELECT is_default, user_id FROM habits WHERE id = $1",
		habitID,
	).Scan(&isDefault, &ownerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query habit", "details": err.Error()})
		}
		return
	}

	if isDefault || ownerID == nil || *ownerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot edit this habit"})
		return
	}

	_, err = db.Exec(c.Request.Context(), `
		UPDATE habits
		SET title = COALESCE($1, title),
			category = COALESCE($2, category),
			description = COALESCE($3, description),
			xp_reward = COALESCE($4, xp_reward),
			icon = COALESCE($5, icon)
		WHERE id = $6
	`, req.Title, req.Category, req.Description, req.XPReward, req.Icon, habitID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update habit", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Habit updated successfully"})
}

// DeleteHabit removes a custom habit owned by the caller.
func DeleteHabit(c *gin.Context) {
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

	habitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid habit ID format"})
		return
	}

	var isDefault bool
	var ownerID *uuid.UUID
	err = db.QueryRow(c.Request.Context(),
		"SELECT is_default, user_id FROM habits WHERE id = $1",
		habitID,
	).Scan(&isDefault, &ownerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query habit", "details": err.Error()})
		}
		return
	}

	if isDefault || ownerID == nil || *ownerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete this habit"})
		return
	}

	_, err = db.Exec(c.Request.Context(), "DELETE FROM habits WHERE id = $1", habitID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete habit", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Habit deleted successfully"})
}
