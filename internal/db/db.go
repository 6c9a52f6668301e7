package db

import (
	"fmt"     // Error wrapping
	"strings" // DSN inspection
	"time"    // Pool and logger timings

	"feedback_board/internal/config" // Custom import path (Config)

	"github.com/glebarez/sqlite" // Pure-Go SQLite driver for GORM
	"github.com/sirupsen/logrus" // Logrus as the GORM log writer
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/driver/postgres"    // PostgreSQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger
)

// Open connects to the configured database
func Open(cfg config.DBConfig, isProd bool) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.Driver, cfg.DataSource())
	if err != nil {
		return nil, err
	}
	level := logger.Info
	if isProd {
		level = logger.Warn
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true, // Unique violations surface as gorm.ErrDuplicatedKey
		Logger: logger.New(logrus.StandardLogger(), logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql handle: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1) // SQLite allows a single writer
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case config.DriverMySQL:
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(withForeignKeys(dsn)), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// withForeignKeys turns on SQLite foreign key enforcement so ON DELETE CASCADE applies
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}
