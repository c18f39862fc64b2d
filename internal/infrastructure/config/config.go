package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT   JWTConfig
	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
}

type JWTConfig struct {
	// Secret must be at least 32 bytes; the token issuer refuses to start
	// otherwise.
	Secret     string `env:"JWT_SECRET"`
	Issuer     string `env:"JWT_ISSUER,      default=cargotrack-identity"`
	Audience   string `env:"JWT_AUDIENCE,    default=cargotrack"`
	ExpireDays int    `env:"JWT_EXPIRE_DAYS, default=7"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity"`
}

type RedisConfig struct {
	Addr              string `env:"REDIS_ADDR, default=localhost:6379"`
	DB                int    `env:"REDIS_DB,   default=0"`
	PermissionTTLSecs int    `env:"PERMISSION_CACHE_TTL_SECONDS, default=60"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST,      default=localhost"`
	Port     int    `env:"SMTP_PORT,      default=25"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM,      default=no-reply@cargotrack.io"`
	FromName string `env:"SMTP_FROM_NAME, default=CargoTrack"`
	Workers  int    `env:"SMTP_WORKERS,   default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
