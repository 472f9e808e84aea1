package handlers

import (
	"net/http"

	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/middleware"
	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListNotifications returns the caller's most recent notifications, newest
// first, enriched with the related user's profile where present.
func ListNotifications(c *gin.Context) {
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
		SELECT n.id, n.user_id, n.type, n.message, n.read, n.related_user_id, n.created_at,
			u.name, u.username, u.avatar_url
		FROM notifications n
		LEFT JOIN users u ON u.id = n.related_user_id
		WHERE n.user_id = $1
		ORDER BY n.created_at DESC
		LIMIT 50
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query notifications", "details": err.Error()})
		return
	}
	defer rows.Close()

	notifications := []models.NotificationResponse{}
	for rows.Next() {
		var n models.NotificationResponse
		var relName, relUsername *string
		var relAvatar *string
		err := rows.Scan(
			&n.ID, &n.UserID, &n.Type, &n.Message, &n.Read, &n.RelatedUserID, &n.CreatedAt,
			&relName, &relUsername, &relAvatar,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse notification data"})
			return
		}
		if n.RelatedUserID != nil && relName != nil && relUsername != nil {
			n.RelatedUser = &models.RelatedUser{
				Name:      *relName,
				Username:  *relUsername,
				AvatarURL: relAvatar,
			}
		}
		notifications = append(notifications, n)
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// GetUnreadCount returns the number of unread notifications.
func GetUnreadCount(c *gin.Context) {
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

	var count int
	err := db.QueryRow(c.Request.Context(),
		"SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = false", userID,
	).Scan(&count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// MarkNotificationRead marks one notification read. Owner only.
func MarkNotificationRead(c *gin.Context) {
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

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID format"})
		return
	}

	var ownerID uuid.UUID
	err = db.QueryRow(c.Request.Context(),
		"SELECT user_id FROM notifications WHERE id = $1", notificationID,
	).Scan(&ownerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query notification", "details": err.Error()})
		}
		return
	}

	if ownerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your notification"})
		return
	}

	_, err = db.Exec(c.Request.Context(),
		"UPDATE notifications SET read = true WHERE id = $1", notificationID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead marks every unread notification read.
func MarkAllNotificationsRead(c *gin.Context) {
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

	tag, err := db.Exec(c.Request.Context(),
		"UPDATE notifications SET read = true WHERE user_id = $1 AND read = false", userID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "All notifications marked as read",
		"updated": tag.RowsAffected(),
	})
}

// DeleteNotification removes one notification. Owner only.
func DeleteNotification(c *gin.Context) {
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

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID format"})
		return
	}

	var ownerID uuid.UUID
	err = db.QueryRow(c.Request.Context(),
		"SELECT user_id FROM notifications WHERE id = $1", notificationID,
	).Scan(&ownerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query notification", "details": err.Error()})
		}
		return
	}

	if ownerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your notification"})
		return
	}

	_, err = db.Exec(c.Request.Context(),
		"DELETE FROM notifications WHERE id = $1", notificationID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
