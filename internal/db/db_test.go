package db

import (
	"testing"

	"feedback_board/internal/config"
	"feedback_board/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithForeignKeys(t *testing.T) {
	tests := []struct {
		dsn, want string
	}{
		{"feedback.db", "feedback.db?_pragma=foreign_keys(1)"},
		{"file::memory:?cache=shared", "file::memory:?cache=shared&_pragma=foreign_keys(1)"},
		{"x.db?_pragma=foreign_keys(0)", "x.db?_pragma=foreign_keys(0)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, withForeignKeys(tt.dsn))
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(config.DBConfig{Driver: "oracle"}, true)
	assert.Error(t, err)
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	conn, err := Open(config.DBConfig{Driver: config.DriverSQLite, DSN: "file::memory:"}, true)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := conn.DB()
		_ = sqlDB.Close()
	})

	require.NoError(t, Migrate(conn))
	require.NoError(t, Migrate(conn), "migrations are repeatable")

	assert.True(t, conn.Migrator().HasTable(&domain.User{}))
	assert.True(t, conn.Migrator().HasTable(&domain.Feedback{}))
	assert.True(t, conn.Migrator().HasIndex(&domain.User{}, "Email"))
}
