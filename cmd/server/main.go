package main

import (
	"context"   // Shutdown deadline and Redis ping
	"errors"    // Server close detection
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Signal notification
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"feedback_board/internal/api"        // Custom package for API handlers
	"feedback_board/internal/auth"       // Session authenticator
	"feedback_board/internal/config"     // Custom package for configuration
	"feedback_board/internal/db"         // Database connection and migrations
	"feedback_board/internal/middleware" // Session cookie settings
	"feedback_board/internal/session"    // Redis session store
	"feedback_board/internal/store"      // Identity and feedback stores

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	setupLogger(cfg)
	if cfg.Session.Secret == "" {
		logrus.Fatal("SESSION_SECRET is required")
	}

	conn, err := db.Open(cfg.DB, cfg.IsProd)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	err = redisClient.Ping(pingCtx).Err()
	cancelPing()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	users := store.NewUserStore(conn)
	authn, err := auth.NewAuthenticator(users, session.NewStore(redisClient, cfg.Session.TTL), cfg.Session.Secret, cfg.Session.BcryptCost)
	if err != nil {
		logrus.Fatalf("authenticator: %v", err)
	}

	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := api.NewRouter(api.Deps{
		DB:       conn,
		Redis:    redisClient,
		Users:    users,
		Feedback: store.NewFeedbackStore(conn),
		Auth:     authn,
		Cookie: middleware.SessionCookie{
			MaxAge: authn.CookieMaxAge(),
			Secure: cfg.Session.CookieSecure,
		},
		Secret: cfg.Session.Secret,
	})
	if err != nil {
		logrus.Fatalf("router: %v", err)
	}

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}
	go func() {
		logrus.Infof("Server running on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("shutdown: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		logrus.Errorf("redis close: %v", err)
	}
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logrus.Info("Server stopped")
}

// setupLogger configures the global logrus logger
func setupLogger(cfg *config.Config) {
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
