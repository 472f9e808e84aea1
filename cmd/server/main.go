package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/auth"
	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/cache"
	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/config"
	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/database"
	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/handlers"
	"github.com/Syed-Ahmed02/Ramadan-Habits/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	if err := database.SeedDefaultHabits(ctx, pool); err != nil {
		log.Fatalf("Failed to seed default habits: %v", err)
	}

	store, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer store.Close()
	if store == nil {
		log.Println("Redis not configured, response caching disabled")
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer)

	// Initialize Gin
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.WithDB(pool))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": Version,
		})
	})

	// Version endpoint
	r.GET("/api/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version": Version,
			"service": "ramadan-habits",
		})
	})

	// Root endpoint
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Ramadan Habits API",
			"version": Version,
		})
	})

	api := r.Group("/api")
	api.Use(middleware.RequireAuth(jwtService))
	{
		api.GET("/users/me", handlers.GetCurrentUser)
		api.PATCH("/users/me", handlers.UpdateCurrentUser)
		api.POST("/users/sync", handlers.SyncUser)
		api.GET("/users/search", handlers.SearchUsers)

		api.GET("/habits", handlers.ListHabits)
		api.GET("/habits/defaults", handlers.ListDefaultHabits)
		api.POST("/habits", handlers.CreateHabit)
		api.PATCH("/habits/:id", handlers.UpdateHabit)
		api.DELETE("/habits/:id", handlers.DeleteHabit)

		api.POST("/habits/:id/toggle", handlers.ToggleHabit)
		api.GET("/completions", handlers.GetCompletions)
		api.GET("/stats/today", handlers.GetTodayStats)
		api.POST("/streak/check", handlers.CheckStreak)
		api.GET("/progress/level", handlers.GetLevelProgress)

		api.GET("/friends", handlers.ListFriends)
		api.POST("/friends/requests", handlers.SendFriendRequest)
		api.GET("/friends/requests", handlers.ListReceivedRequests)
		api.GET("/friends/requests/sent", handlers.ListSentRequests)
		api.POST("/friends/requests/:id/accept", handlers.AcceptFriendRequest)
		api.POST("/friends/requests/:id/decline", handlers.DeclineFriendRequest)
		api.DELETE("/friends/:id", handlers.RemoveFriend)
		api.GET("/friends/status/:userId", handlers.GetFriendshipStatus)

		api.GET("/leaderboard", handlers.GetLeaderboard(store))

		api.POST("/challenges", handlers.CreateChallenge)
		api.GET("/challenges", handlers.ListMyChallenges)
		api.GET("/challenges/available", handlers.ListAvailableChallenges)
		api.GET("/challenges/:id", handlers.GetChallengeDetails)
		api.POST("/challenges/:id/join", handlers.JoinChallenge)
		api.POST("/challenges/:id/leave", handlers.LeaveChallenge)
		api.POST("/challenges/:id/invite", handlers.InviteToChallenge)
		api.POST("/challenges/:id/complete", handlers.CompleteChallenge)
		api.DELETE("/challenges/:id", handlers.DeleteChallenge)

		api.GET("/notifications", handlers.ListNotifications)
		api.GET("/notifications/unread-count", handlers.GetUnreadCount)
		api.POST("/notifications/:id/read", handlers.MarkNotificationRead)
		api.POST("/notifications/read-all", handlers.MarkAllNotificationsRead)
		api.DELETE("/notifications/:id", handlers.DeleteNotification)

		api.GET("/badges", handlers.ListBadges)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited")
}
