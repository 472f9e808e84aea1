package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/gamification"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the slice of pgx satisfied by both *pgxpool.Pool and pgx.Tx,
// so the engine helpers run equally inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// applyXPDelta applies a signed XP delta to a user with a floor of zero and
// rewrites the cached level from the new total. Level is never written
// except through here.
func applyXPDelta(ctx context.Context, q querier, userID uuid.UUID, delta int) error {
	var newXP int
	err := q.QueryRow(ctx, `
		UPDATE users
		SET xp = GREATEST(0, xp + $1)
		WHERE id = $2
		RETURNING xp
	`, delta, userID).Scan(&newXP)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx,
		"UPDATE users SET level = $1 WHERE id = $2",
		gamification.CalculateLevel(newXP), userID,
	)
	return err
}

// awardBadge inserts a badge unless the user already has one of this type.
// A unique-constraint violation from a concurrent award is a benign no-op.
func awardBadge(ctx context.Context, q querier, userID uuid.UUID, badgeType string) error {
	_, err := q.Exec(ctx, `
		INSERT INTO badges (id, user_id, badge_type, earned_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, badge_type) DO NOTHING
	`, uuid.New(), userID, badgeType, time.Now())

	if isUniqueViolation(err) {
		return nil
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// insertNotification appends one notification for a user.
func insertNotification(ctx context.Context, q querier, userID uuid.UUID, notifType, message string, relatedUserID *uuid.UUID) error {
	_, err := q.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, message, read, related_user_id, created_at)
		VALUES ($1, $2, $3, $4, false, $5, $6)
	`, uuid.New(), userID, notifType, message, relatedUserID, time.Now())
	return err
}

// countEligibleHabits counts the habits available to a user: the shared
// defaults plus their own custom habits.
func countEligibleHabits(ctx context.Context, q querier, userID uuid.UUID) (int, error) {
	var count int
	err := q.QueryRow(ctx,
		"SELECT COUNT(*) FROM habits WHERE is_default = true OR user_id = $1",
		userID,
	).Scan(&count)
	return count, err
}

// countCompletedOn counts a user's completed records on one date.
func countCompletedOn(ctx context.Context, q querier, userID uuid.UUID, date string) (int, error) {
	var count int
	err := q.QueryRow(ctx,
		"SELECT COUNT(*) FROM habit_logs WHERE user_id = $1 AND date = $2 AND completed = true",
		userID, date,
	).Scan(&count)
	return count, err
}

// acceptedFriendCount counts accepted friendships in both directions for a
// user.
func acceptedFriendCount(ctx context.Context, q querier, userID uuid.UUID) (int, error) {
	var count int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM friendships
		WHERE status = $1 AND (sender_id = $2 OR receiver_id = $2)
	`, "accepted", userID).Scan(&count)
	return count, err
}

// userDisplayName fetches a user's display name, falling back to "Someone"
// for notification text when the row is missing.
func userDisplayName(ctx context.Context, q querier, userID uuid.UUID) string {
	var name string
	if err := q.QueryRow(ctx, "SELECT name FROM users WHERE id = $1", userID).Scan(&name); err != nil {
		return "Someone"
	}
	return name
}
