package config

import (
	"fmt"  // Error formatting
	"time" // Durations for sessions and HTTP timeouts

	"github.com/ilyakaznacheev/cleanenv" // Struct-tag environment parsing
	"github.com/joho/godotenv"           // For loading .env files
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the application configuration
type Config struct {
	AppPort  string `env:"APP_PORT" env-default:"5000"`  // Application port
	IsProd   bool   `env:"IS_PROD" env-default:"false"`  // Is production environment
	LogLevel string `env:"LOG_LEVEL" env-default:"info"` // Logrus level name
	DB       DBConfig
	Redis    RedisConfig
	Session  SessionConfig
	HTTP     HTTPConfig
}

// DBConfig describes the relational store
type DBConfig struct {
	Driver   string `env:"DB_DRIVER" env-default:"mysql"` // mysql, postgres or sqlite
	User     string `env:"DB_USER"`                       // Database user
	Password string `env:"DB_PASSWORD"`                   // Database password
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     string `env:"DB_PORT"`                        // Database port, driver default when empty
	Name     string `env:"DB_NAME" env-default:"feedback"` // Database name
	DSN      string `env:"DB_DSN"`                         // Full DSN, overrides the fields above
}

// RedisConfig describes the session backend
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"` // Redis server address
	Password string `env:"REDIS_PASS"`                              // Redis password
	DB       int    `env:"REDIS_DB" env-default:"0"`                // Redis database number
}

// SessionConfig controls session cookies and password hashing
type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET"`                    // HMAC key for session tokens
	TTL          time.Duration `env:"SESSION_TTL" env-default:"24h"`     // Session lifetime
	CookieSecure bool          `env:"COOKIE_SECURE" env-default:"false"` // Send cookies over HTTPS only
	BcryptCost   int           `env:"BCRYPT_COST" env-default:"10"`      // Password hashing cost
}

// HTTPConfig holds server timeouts
type HTTPConfig struct {
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// LoadConfig loads configuration from the environment, after an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	switch cfg.DB.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("DB_DRIVER must be mysql, postgres or sqlite, got %q", cfg.DB.Driver)
	}
	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}
	return &cfg, nil
}

// DataSource returns the DSN for the configured driver
func (c DBConfig) DataSource() string {
	if c.DSN != "" {
		return c.DSN
	}
	switch c.Driver {
	case DriverPostgres:
		port := c.Port
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.Host, c.User, c.Password, c.Name, port)
	case DriverSQLite:
		return c.Name + ".db"
	default:
		port := c.Port
		if port == "" {
			port = "3306"
		}
		// Same shape the MySQL driver expects: user:pass@tcp(host:port)/name
		return c.User + ":" + c.Password + "@tcp(" + c.Host + ":" + port + ")/" + c.Name + "?parseTime=true"
	}
}
