// Package config loads process configuration from the environment.
package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds the process-level configuration. Business parameters such as
// ticket prices or the QR code lifetime are not here: they live in the
// settings table and are loaded per request.
type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Database DatabaseConfig `env:",prefix=DB_"`
	Redis    RedisConfig    `env:",prefix=REDIS_"`
	NATS     NATSConfig     `env:",prefix=NATS_"`
	Auth     AuthConfig     `env:",prefix=JWT_"`

	Environment      string        `env:"ENV,default=development"`
	SettingsCacheTTL time.Duration `env:"SETTINGS_CACHE_TTL,default=30s"`
}

type ServerConfig struct {
	Port         string `env:"PORT,default=3000"`
	AllowOrigins string `env:"ALLOW_ORIGINS,default=http://localhost:5173"`
	LoginLimit   int    `env:"LOGIN_LIMIT,default=5"`
	QRLimit      int    `env:"QR_LIMIT,default=10"`
}

// DatabaseConfig holds PostgreSQL connection and pool settings.
type DatabaseConfig struct {
	Host            string        `env:"HOST,default=localhost"`
	Port            string        `env:"PORT,default=5432"`
	User            string        `env:"USER,default=postgres"`
	Password        string        `env:"PASSWORD,default=postgres"`
	Name            string        `env:"NAME,default=mutralo"`
	SSLMode         string        `env:"SSL_MODE,default=disable"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS,default=10"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS,default=100"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME,default=1h"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME,default=30m"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB,default=0"`
}

// NATSConfig configures the domain event bus. An empty URL disables publishing.
type NATSConfig struct {
	URL string `env:"URL"`
}

type AuthConfig struct {
	Secret        string        `env:"SECRET,default=mutralo"`
	RefreshSecret string        `env:"REFRESH_SECRET,default=mutralo-refresh"`
	AccessTTL     time.Duration `env:"ACCESS_TTL,default=15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TTL,default=168h"`
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load decodes the environment into a Config.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsProduction checks if the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
