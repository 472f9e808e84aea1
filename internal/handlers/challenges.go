package handlers

import (
	"context"
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

// CreateChallenge creates a group challenge with the caller as creator and
// first participant.
func CreateChallenge(c *gin.Context) {
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

	var req models.ChallengeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if _, err := gamification.InclusiveDays(req.StartDate, req.EndDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.HabitID != nil {
		var exists bool
		err := db.QueryRow(c.Request.Context(),
			"SELECT EXISTS(SELECT 1 FROM habits WHERE id = $1 AND (is_default = true OR user_id = $2))",
			req.HabitID, userID,
		).Scan(&exists)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query habit", "details": err.Error()})
			return
		}
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Linked habit not found"})
			return
		}
	}

	challengeID := uuid.New()
	_, err := db.Exec(c.Request.Context(), `
		INSERT INTO challenges (id, creator_id, title, description, habit_id, start_date, end_date, participant_ids, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, challengeID, userID, req.Title, req.Description, req.HabitID,
		req.StartDate, req.EndDate, []uuid.UUID{userID}, models.ChallengeActive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create challenge", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Challenge created successfully",
		"challenge_id": challengeID,
	})
}

// ListMyChallenges returns challenges the caller participates in.
func ListMyChallenges(c *gin.Context) {
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
		SELECT ch.id, ch.creator_id, ch.title, ch.description, ch.habit_id,
			ch.start_date, ch.end_date, ch.participant_ids, ch.status, ch.completed_at, ch.created_at,
			u.name, u.avatar_url, h.title
		FROM challenges ch
		JOIN users u ON u.id = ch.creator_id
		LEFT JOIN habits h ON h.id = ch.habit_id
		WHERE $1 = ANY(ch.participant_ids)
		ORDER BY ch.created_at DESC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query challenges", "details": err.Error()})
		return
	}
	defer rows.Close()

	challenges, err := scanChallengeList(rows, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse challenge data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"challenges": challenges,
		"count":      len(challenges),
	})
}

// ListAvailableChallenges returns active challenges created by the caller's
// friends that the caller has not joined.
func ListAvailableChallenges(c *gin.Context) {
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
		SELECT ch.id, ch.creator_id, ch.title, ch.description, ch.habit_id,
			ch.start_date, ch.end_date, ch.participant_ids, ch.status, ch.completed_at, ch.created_at,
			u.name, u.avatar_url, h.title
		FROM challenges ch
		JOIN users u ON u.id = ch.creator_id
		LEFT JOIN habits h ON h.id = ch.habit_id
		WHERE ch.status = 'active'
		  AND NOT ($1 = ANY(ch.participant_ids))
		  AND ch.creator_id IN (
				SELECT CASE WHEN f.sender_id = $1 THEN f.receiver_id ELSE f.sender_id END
				FROM friendships f
				WHERE (f.sender_id = $1 OR f.receiver_id = $1) AND f.status = 'accepted'
		  )
		ORDER BY ch.created_at DESC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query challenges", "details": err.Error()})
		return
	}
	defer rows.Close()

	challenges, err := scanChallengeList(rows, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse challenge data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"challenges": challenges,
		"count":      len(challenges),
	})
}

func scanChallengeList(rows pgx.Rows, userID uuid.UUID) ([]models.ChallengeListItem, error) {
	challenges := []models.ChallengeListItem{}
	for rows.Next() {
		var item models.ChallengeListItem
		err := rows.Scan(
			&item.ID, &item.CreatorID, &item.Title, &item.Description, &item.HabitID,
			&item.StartDate, &item.EndDate, &item.ParticipantIDs, &item.Status,
			&item.CompletedAt, &item.CreatedAt,
			&item.CreatorName, &item.CreatorAvatarURL, &item.HabitTitle,
		)
		if err != nil {
			return nil, err
		}
		item.ParticipantCount = len(item.ParticipantIDs)
		item.IsCreator = item.CreatorID == userID
		challenges = append(challenges, item)
	}
	return challenges, rows.Err()
}

// GetChallengeDetails returns a challenge with each participant's progress,
// ranked by completed days.
func GetChallengeDetails(c *gin.Context) {
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

	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID format"})
		return
	}

	var detail models.ChallengeDetailResponse
	err = db.QueryRow(c.Request.Context(), `
		SELECT ch.id, ch.creator_id, ch.title, ch.description, ch.habit_id,
			ch.start_date, ch.end_date, ch.participant_ids, ch.status, ch.completed_at, ch.created_at,
			u.name, h.title
		FROM challenges ch
		JOIN users u ON u.id = ch.creator_id
		LEFT JOIN habits h ON h.id = ch.habit_id
		WHERE ch.id = $1
	`, challengeID).Scan(
		&detail.ID, &detail.CreatorID, &detail.Title, &detail.Description, &detail.HabitID,
		&detail.StartDate, &detail.EndDate, &detail.ParticipantIDs, &detail.Status,
		&detail.CompletedAt, &detail.CreatedAt,
		&detail.CreatorName, &detail.HabitTitle,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query challenge", "details": err.Error()})
		}
		return
	}

	detail.IsCreator = detail.CreatorID == userID
	for _, pid := range detail.ParticipantIDs {
		if pid == userID {
			detail.IsParticipant = true
			break
		}
	}

	totalDays, err := gamification.InclusiveDays(detail.StartDate, detail.EndDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute challenge window", "details": err.Error()})
		return
	}

	participants, err := loadParticipantProgress(c.Request.Context(), db, detail.Challenge, totalDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query participants", "details": err.Error()})
		return
	}
	models.RankParticipants(participants)
	detail.Participants = participants

	c.JSON(http.StatusOK, detail)
}

// loadParticipantProgress computes each participant's completed days within
// the challenge window. With a linked habit that habit's completions count;
// without one, any day with at least one completion counts.
func loadParticipantProgress(ctx context.Context, q querier, ch models.Challenge, totalDays int) ([]models.ChallengeParticipant, error) {
	var rows pgx.Rows
	var err error
	if ch.HabitID != nil {
		rows, err = q.Query(ctx, `
			SELECT u.id, u.name, u.username, u.avatar_url, u.level,
				COUNT(hl.id) FILTER (WHERE hl.completed)
			FROM users u
			LEFT JOIN habit_logs hl ON hl.user_id = u.id
				AND hl.habit_id = $2
				AND hl.date BETWEEN $3 AND $4
			WHERE u.id = ANY($1)
			GROUP BY u.id, u.name, u.username, u.avatar_url, u.level
			ORDER BY u.id
		`, ch.ParticipantIDs, ch.HabitID, ch.StartDate, ch.EndDate)
	} else {
		rows, err = q.Query(ctx, `
			SELECT u.id, u.name, u.username, u.avatar_url, u.level,
				COUNT(DISTINCT hl.date) FILTER (WHERE hl.completed)
			FROM users u
			LEFT JOIN habit_logs hl ON hl.user_id = u.id
				AND hl.date BETWEEN $2 AND $3
			WHERE u.id = ANY($1)
			GROUP BY u.id, u.name, u.username, u.avatar_url, u.level
			ORDER BY u.id
		`, ch.ParticipantIDs, ch.StartDate, ch.EndDate)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := []models.ChallengeParticipant{}
	for rows.Next() {
		var p models.ChallengeParticipant
		if err := rows.Scan(&p.UserID, &p.Name, &p.Username, &p.AvatarURL, &p.Level, &p.CompletedDays); err != nil {
			return nil, err
		}
		p.TotalDays = totalDays
		p.Percentage = gamification.ProgressPercentage(p.CompletedDays, totalDays)
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// JoinChallenge adds the caller to an active challenge's participants.
func JoinChallenge(c *gin.Context) {
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

	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID format"})
		return
	}

	tx, err := db.Begin(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback(c.Request.Context())

	var creatorID uuid.UUID
	var title, status string
	var participantIDs []uuid.UUID
	err = tx.QueryRow(c.Request.Context(),
		"SELECT creator_id, title, status, participant_ids FROM challenges WHERE id = $1 FOR UPDATE", challengeID,
	).Scan(&creatorID, &title, &status, &participantIDs)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query challenge", "details": err.Error()})
		}
		return
	}

	if status != models.ChallengeActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Challenge is not active"})
		return
	}
	for _, pid := range participantIDs {
		if pid == userID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Already a participant"})
			return
		}
	}

	_, err = tx.Exec(c.Request.Context(),
		"UPDATE challenges SET participant_ids = array_append(participant_ids, $1) WHERE id = $2",
		userID, challengeID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join challenge", "details": err.Error()})
		return
	}

	joinerName := userDisplayName(c.Request.Context(), tx, userID)
	message := fmt.Sprintf("%s joined your challenge %q", joinerName, title)
	if err := insertNotification(c.Request.Context(), tx, creatorID, models.NotificationChallengeInvite, message, &userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification", "details": err.Error()})
		return
	}

	if err := tx.Commit(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Joined challenge"})
}

// LeaveChallenge removes the caller from a challenge. The creator cannot
// leave, only delete.
func LeaveChallenge(c *gin.Context) {
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

	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID format"})
		return
	}

	var creatorID uuid.UUID
	var participantIDs []uuid.UUID
	err = db.QueryRow(c.Request.Context(),
		"SELECT creator_id, participant_ids FROM challenges WHERE id = $1", challengeID,
	).Scan(&creatorID, &participantIDs)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query challenge", "details": err.Error()})
		}
		return
	}

	if creatorID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Creator cannot leave a challenge, delete it instead"})
		return
	}

	isParticipant := false
	for _, pid := range participantIDs {
		if pid == userID {
			isParticipant = true
			break
		}
	}
	if !isParticipant {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not a participant"})
		return
	}

	_, err = db.Exec(c.Request.Context(),
		"UPDATE challenges SET participant_ids = array_remove(participant_ids, $1) WHERE id = $2",
		userID, challengeID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave challenge", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left challenge"})
}

// DeleteChallenge removes a challenge. Creator only.
func DeleteChallenge(c *gin.Context) {
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

	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID format"})
		return
	}

	var creatorID uuid.UUID
	err = db.QueryRow(c.Request.Context(),
		"SELECT creator_id FROM challenges WHERE id = $1", challengeID,
	).Scan(&creatorID)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query challenge", "details": err.Error()})
		}
		return
	}

	if creatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator can delete this challenge"})
		return
	}

	_, err = db.Exec(c.Request.Context(), "DELETE FROM challenges WHERE id = $1", challengeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete challenge", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Challenge deleted"})
}

// InviteToChallenge notifies a friend about a challenge. Participants only,
// and the invitee must be an accepted friend of the caller.
func InviteToChallenge(c *gin.Context) {
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

	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID format"})
		return
	}

	var req models.ChallengeInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	var title string
	var status string
	var participantIDs []uuid.UUID
	err = db.QueryRow(c.Request.Context(),
		"SELECT title, status, participant_ids FROM challenges WHERE id = $1", challengeID,
	).Scan(&title, &status, &participantIDs)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query challenge", "details": err.Error()})
		}
		return
	}

	if status != models.ChallengeActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Challenge is not active"})
		return
	}

	isParticipant := false
	for _, pid := range participantIDs {
		if pid == userID {
			isParticipant = true
		}
		if pid == req.FriendID {
			c.JSON(http.StatusConflict, gin.H{"error": "User is already a participant"})
			return
		}
	}
	if !isParticipant {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only participants can invite"})
		return
	}

	var friends bool
	err = db.QueryRow(c.Request.Context(), `
		SELECT EXISTS(
			SELECT 1 FROM friendships
			WHERE ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
			  AND status = 'accepted'
		)
	`, userID, req.FriendID).Scan(&friends)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query friendship", "details": err.Error()})
		return
	}
	if !friends {
		c.JSON(http.StatusForbidden, gin.H{"error": "Can only invite accepted friends"})
		return
	}

	inviterName := userDisplayName(c.Request.Context(), db, userID)
	message := fmt.Sprintf("%s invited you to the challenge %q", inviterName, title)
	if err := insertNotification(c.Request.Context(), db, req.FriendID, models.NotificationChallengeInvite, message, &userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invite sent"})
}

// CompleteChallenge marks a challenge completed and pays every participant
// the completion bonus. Creator only, one time, irreversible.
func CompleteChallenge(c *gin.Context) {
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

	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID format"})
		return
	}

	tx, err := db.Begin(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback(c.Request.Context())

	var creatorID uuid.UUID
	var title, status string
	var participantIDs []uuid.UUID
	err = tx.QueryRow(c.Request.Context(),
		"SELECT creator_id, title, status, participant_ids FROM challenges WHERE id = $1 FOR UPDATE",
		challengeID,
	).Scan(&creatorID, &title, &status, &participantIDs)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query challenge", "details": err.Error()})
		}
		return
	}

	if creatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator can complete this challenge"})
		return
	}
	if status == models.ChallengeCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Challenge is already completed"})
		return
	}

	_, err = tx.Exec(c.Request.Context(),
		"UPDATE challenges SET status = $1, completed_at = $2 WHERE id = $3",
		models.ChallengeCompleted, time.Now(), challengeID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete challenge", "details": err.Error()})
		return
	}

	message := fmt.Sprintf("Challenge %q completed! +%d XP", title, gamification.ChallengeCompletionBonusXP)
	for _, pid := range participantIDs {
		if err := applyXPDelta(c.Request.Context(), tx, pid, gamification.ChallengeCompletionBonusXP); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to award XP", "details": err.Error()})
			return
		}

		if pid != userID {
			if err := insertNotification(c.Request.Context(), tx, pid, models.NotificationAchievement, message, &userID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification", "details": err.Error()})
				return
			}
		}

		var completedCount int
		err = tx.QueryRow(c.Request.Context(),
			"SELECT COUNT(*) FROM challenges WHERE status = $1 AND $2 = ANY(participant_ids)",
			models.ChallengeCompleted, pid,
		).Scan(&completedCount)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count challenges", "details": err.Error()})
			return
		}
		if completedCount >= gamification.ChallengeMasterThreshold {
			if err := awardBadge(c.Request.Context(), tx, pid, gamification.BadgeChallengeMaster); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to award badge", "details": err.Error()})
				return
			}
		}
	}

	if err := tx.Commit(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Challenge completed",
		"xp_awarded":   gamification.ChallengeCompletionBonusXP,
		"participants": len(participantIDs),
	})
}
