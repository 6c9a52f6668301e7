package main

import (
	"feedback_board/internal/config" // Custom import path (Config)
	"feedback_board/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logging
)

// Main entry point for migration
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	conn, err := db.Open(cfg.DB, cfg.IsProd)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
}
