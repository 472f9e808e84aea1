package handlers

import (
	"fmt"
	"net/http"

	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/gamification"
	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/middleware"
	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SendFriendRequest creates a pending friendship and notifies the receiver.
func SendFriendRequest(c *gin.Context) {
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

	var req models.FriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.ReceiverID == userID {
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot send a friend request to yourself"})
		return
	}

	tx, err := db.Begin(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback(c.Request.Context())

	var receiverExists bool
	err = tx.QueryRow(c.Request.Context(),
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", req.ReceiverID,
	).Scan(&receiverExists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query user", "details": err.Error()})
		return
	}
	if !receiverExists {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// One record per pair, either direction
	var existing int
	err = tx.QueryRow(c.Request.Context(), `
		SELECT COUNT(*) FROM friendships
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
	`, userID, req.ReceiverID).Scan(&existing)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query friendships", "details": err.Error()})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Friendship or request already exists"})
		return
	}

	friendshipID := uuid.New()
	_, err = tx.Exec(c.Request.Context(), `
		INSERT INTO friendships (id, sender_id, receiver_id, status)
		VALUES ($1, $2, $3, $4)
	`, friendshipID, userID, req.ReceiverID, models.FriendshipPending)
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Friendship or request already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create friend request", "details": err.Error()})
		return
	}

	senderName := userDisplayName(c.Request.Context(), tx, userID)
	message := fmt.Sprintf("%s sent you a friend request", senderName)
	if err := insertNotification(c.Request.Context(), tx, req.ReceiverID, models.NotificationFriendRequest, message, &userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification", "details": err.Error()})
		return
	}

	if err := tx.Commit(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Friend request sent",
		"friendship_id": friendshipID,
	})
}

// AcceptFriendRequest lets the receiver accept a pending request. Both
// parties are checked for the social butterfly badge afterwards.
func AcceptFriendRequest(c *gin.Context) {
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

	friendshipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid friendship ID format"})
		return
	}

	tx, err := db.Begin(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback(c.Request.Context())

	var friendship models.Friendship
	err = tx.QueryRow(c.Request.Context(), `
		SELECT id, sender_id, receiver_id, status FROM friendships WHERE id = $1
	`, friendshipID).Scan(&friendship.ID, &friendship.SenderID, &friendship.ReceiverID, &friendship.Status)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query friendship", "details": err.Error()})
		}
		return
	}

	if friendship.ReceiverID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the receiver can accept this request"})
		return
	}
	if friendship.Status != models.FriendshipPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request is not pending"})
		return
	}

	_, err = tx.Exec(c.Request.Context(),
		"UPDATE friendships SET status = $1 WHERE id = $2",
		models.FriendshipAccepted, friendshipID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept friend request", "details": err.Error()})
		return
	}

	accepterName := userDisplayName(c.Request.Context(), tx, userID)
	message := fmt.Sprintf("%s accepted your friend request", accepterName)
	if err := insertNotification(c.Request.Context(), tx, friendship.SenderID, models.NotificationFriendRequest, message, &userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification", "details": err.Error()})
		return
	}

	for _, party := range []uuid.UUID{friendship.SenderID, friendship.ReceiverID} {
		count, err := acceptedFriendCount(c.Request.Context(), tx, party)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count friends", "details": err.Error()})
			return
		}
		if count >= gamification.SocialButterflyThreshold {
			if err := awardBadge(c.Request.Context(), tx, party, gamification.BadgeSocialButterfly); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to award badge", "details": err.Error()})
				return
			}
		}
	}

	if err := tx.Commit(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend request accepted"})
}

// DeclineFriendRequest lets the receiver delete a pending request.
func DeclineFriendRequest(c *gin.Context) {
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

	friendshipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid friendship ID format"})
		return
	}

	var receiverID uuid.UUID
	var status string
	err = db.QueryRow(c.Request.Context(),
		"SELECT receiver_id, status FROM friendships WHERE id = $1", friendshipID,
	).Scan(&receiverID, &status)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query friendship", "details": err.Error()})
		}
		return
	}

	if receiverID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the receiver can decline this request"})
		return
	}
	if status != models.FriendshipPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request is not pending"})
		return
	}

	_, err = db.Exec(c.Request.Context(), "DELETE FROM friendships WHERE id = $1", friendshipID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decline friend request", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend request declined"})
}

// RemoveFriend deletes an accepted friendship. Either party may remove.
func RemoveFriend(c *gin.Context) {
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

	friendshipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid friendship ID format"})
		return
	}

	var senderID, receiverID uuid.UUID
	err = db.QueryRow(c.Request.Context(),
		"SELECT sender_id, receiver_id FROM friendships WHERE id = $1", friendshipID,
	).Scan(&senderID, &receiverID)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Friendship not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query friendship", "details": err.Error()})
		}
		return
	}

	if senderID != userID && receiverID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this friendship"})
		return
	}

	_, err = db.Exec(c.Request.Context(), "DELETE FROM friendships WHERE id = $1", friendshipID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove friend", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend removed"})
}

// ListFriends returns the caller's accepted friends with their stats.
func ListFriends(c *gin.Context) {
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
		SELECT f.id, u.id, u.name, u.username, u.avatar_url, u.level, u.xp, u.streak, u.longest_streak
		FROM friendships f
		JOIN users u ON u.id = CASE WHEN f.sender_id = $1 THEN f.receiver_id ELSE f.sender_id END
		WHERE (f.sender_id = $1 OR f.receiver_id = $1) AND f.status = $2
		ORDER BY u.username
	`, userID, models.FriendshipAccepted)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query friends", "details": err.Error()})
		return
	}
	defer rows.Close()

	friends := []models.FriendResponse{}
	for rows.Next() {
		var f models.FriendResponse
		err := rows.Scan(
			&f.FriendshipID, &f.UserID, &f.Name, &f.Username, &f.AvatarURL,
			&f.Level, &f.XP, &f.Streak, &f.LongestStreak,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse friend data"})
			return
		}
		friends = append(friends, f)
	}

	c.JSON(http.StatusOK, gin.H{
		"friends": friends,
		"count":   len(friends),
	})
}

// ListReceivedRequests returns pending requests where the caller is the
// receiver, enriched with the sender's profile.
func ListReceivedRequests(c *gin.Context) {
	listPendingRequests(c, "receiver")
}

// ListSentRequests returns pending requests the caller has sent, enriched
// with the receiver's profile.
func ListSentRequests(c *gin.Context) {
	listPendingRequests(c, "sender")
}

func listPendingRequests(c *gin.Context, role string) {
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

	// Join the other party's profile onto each pending record
	query := `
		SELECT f.id, u.id, u.name, u.username, u.avatar_url, u.level, u.streak, f.created_at
		FROM friendships f
		JOIN users u ON u.id = f.sender_id
		WHERE f.receiver_id = $1 AND f.status = $2
		ORDER BY f.created_at DESC
	`
	if role == "sender" {
		query = `
			SELECT f.id, u.id, u.name, u.username, u.avatar_url, u.level, u.streak, f.created_at
			FROM friendships f
			JOIN users u ON u.id = f.receiver_id
			WHERE f.sender_id = $1 AND f.status = $2
			ORDER BY f.created_at DESC
		`
	}

	rows, err := db.Query(c.Request.Context(), query, userID, models.FriendshipPending)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query friend requests", "details": err.Error()})
		return
	}
	defer rows.Close()

	requests := []models.PendingRequestResponse{}
	for rows.Next() {
		var r models.PendingRequestResponse
		err := rows.Scan(
			&r.FriendshipID, &r.UserID, &r.Name, &r.Username, &r.AvatarURL,
			&r.Level, &r.Streak, &r.CreatedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse request data"})
			return
		}
		requests = append(requests, r)
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"count":    len(requests),
	})
}

// GetFriendshipStatus reports the relationship between the caller and
// another user, if one exists.
func GetFriendshipStatus(c *gin.Context) {
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

	otherID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	var friendship models.Friendship
	err = db.QueryRow(c.Request.Context(), `
		SELECT id, sender_id, receiver_id, status FROM friendships
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
	`, userID, otherID).Scan(&friendship.ID, &friendship.SenderID, &friendship.ReceiverID, &friendship.Status)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusOK, gin.H{"status": "none"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query friendship", "details": err.Error()})
		}
		return
	}

	direction := "sent"
	if friendship.ReceiverID == userID {
		direction = "received"
	}

	c.JSON(http.StatusOK, models.FriendshipStatusResponse{
		FriendshipID: friendship.ID,
		Status:       friendship.Status,
		Direction:    direction,
	})
}
