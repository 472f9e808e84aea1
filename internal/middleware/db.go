package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbKey = "db"

// WithDB stores the application connection pool on every request context so
// handlers can fetch it without package-level globals.
func WithDB(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dbKey, pool)
		c.Next()
	}
}

// GetDB retrieves the database connection pool from context
func GetDB(c *gin.Context) (*pgxpool.Pool, bool) {
	val, exists := c.Get(dbKey)
	if !exists {
		return nil, false
	}
	pool, ok := val.(*pgxpool.Pool)
	return pool, ok
}
