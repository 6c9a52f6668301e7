package api

import (
	"context"  // Health check deadlines
	"net/http" // HTTP status codes
	"time"     // Health check timeout

	"feedback_board/internal/web" // Rendering

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// HomeHandler renders the landing page
func HomeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		web.Render(c, http.StatusOK, "home.tmpl", gin.H{"Title": "Home"})
	}
}

// HealthHandler reports whether the database and Redis answer
func HealthHandler(db *gorm.DB, rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		dbOK := false
		if sqlDB, err := db.DB(); err == nil {
			dbOK = sqlDB.PingContext(ctx) == nil
		}
		redisOK := rdb.Ping(ctx).Err() == nil
		status := http.StatusOK
		if !dbOK || !redisOK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"ok": dbOK && redisOK, "db": dbOK, "redis": redisOK})
	}
}
