package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	authClaimsKey = "auth_claims"
	authUserKey   = "auth_user_id"
)

// RequireAuth validates the bearer token from the external identity
// provider and resolves the internal user record, creating it on first
// sight. Handlers downstream can rely on GetAuthUserID succeeding.
func RequireAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Check for Bearer token format
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format. Use: Bearer <token>"})
			c.Abort()
			return
		}

		tokenString := parts[1]

		// Validate token
		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			c.Abort()
			return
		}

		db, ok := GetDB(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
			c.Abort()
			return
		}

		userID, err := ensureUser(c.Request.Context(), db, claims)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user", "details": err.Error()})
			c.Abort()
			return
		}

		c.Set(authClaimsKey, claims)
		c.Set(authUserKey, userID)

		c.Next()
	}
}

// ensureUser maps the external subject to an internal user id, inserting a
// fresh record with default progression state on first sight.
func ensureUser(ctx context.Context, db *pgxpool.Pool, claims *auth.Claims) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(ctx,
		"SELECT id FROM users WHERE external_id = $1",
		claims.Subject,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, err
	}

	id = uuid.New()
	name := claims.Name
	if name == "" {
		name = "User"
	}

	_, err = db.Exec(ctx, `
		INSERT INTO users (id, external_id, name, email, username, avatar_url, xp, level, streak, longest_streak)
		VALUES ($1, $2, $3, $4, $5, $6, 0, 1, 0, 0)
		ON CONFLICT (external_id) DO NOTHING
	`, id, claims.Subject, name, claims.Email, usernameFor(claims), nullable(claims.AvatarURL))

	if err != nil {
		var pgErr *pgconn.PgError
		// Username collision: retry once with a generated suffix.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			_, err = db.Exec(ctx, `
				INSERT INTO users (id, external_id, name, email, username, avatar_url, xp, level, streak, longest_streak)
				VALUES ($1, $2, $3, $4, $5, $6, 0, 1, 0, 0)
				ON CONFLICT (external_id) DO NOTHING
			`, id, claims.Subject, name, claims.Email, fallbackUsername(), nullable(claims.AvatarURL))
		}
		if err != nil {
			return uuid.Nil, err
		}
	}

	// Re-read in case a concurrent request won the insert race.
	err = db.QueryRow(ctx,
		"SELECT id FROM users WHERE external_id = $1",
		claims.Subject,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

// usernameFor picks a username from the identity claims: preferred
// username, then the email local part, then a generated fallback.
func usernameFor(claims *auth.Claims) string {
	if claims.Username != "" {
		return claims.Username
	}
	if claims.Email != "" {
		if at := strings.Index(claims.Email, "@"); at > 0 {
			return claims.Email[:at]
		}
	}
	return fallbackUsername()
}

func fallbackUsername() string {
	return "user_" + strings.ReplaceAll(time.Now().Format("20060102150405.000"), ".", "")
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetAuthUserID retrieves the authenticated internal user ID from context
func GetAuthUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(authUserKey)
	if !exists {
		return uuid.Nil, false
	}
	return userID.(uuid.UUID), true
}

// GetAuthClaims retrieves the validated identity claims from context
func GetAuthClaims(c *gin.Context) (*auth.Claims, bool) {
	claims, exists := c.Get(authClaimsKey)
	if !exists {
		return nil, false
	}
	return claims.(*auth.Claims), true
}
