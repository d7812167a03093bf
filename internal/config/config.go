package config

import (
	"os"
	"strconv"
	"strings"
)

// Config is loaded once at startup and treated as immutable afterwards.
// Secrets are only ever read from here; no core function reaches back
// into the environment.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Session  SessionConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Addr string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type RedisConfig struct {
	URL             string
	CacheTTLMinutes int
}

type AuthConfig struct {
	// JWTKey signs session tokens (HS256).
	JWTKey string
	// JWTExpirationHours bounds the lifetime of every issued token.
	JWTExpirationHours int
	// SaltSecret masks per-record salts before password hashing.
	SaltSecret string
}

type SessionConfig struct {
	Name           string
	TimeoutMinutes int
	Secure         bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Addr: getenv("SERVER_ADDR", "127.0.0.1:3000"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:             os.Getenv("REDIS_URL"),
			CacheTTLMinutes: getenvInt("CACHE_TTL", 15),
		},
		Auth: AuthConfig{
			JWTKey:             os.Getenv("JWT_KEY"),
			JWTExpirationHours: getenvInt("JWT_EXPIRATION", 24),
			SaltSecret:         os.Getenv("AUTH_SALT"),
		},
		Session: SessionConfig{
			Name:           getenv("SESSION_NAME", "auth"),
			TimeoutMinutes: getenvInt("SESSION_TIMEOUT", 20),
			Secure:         getenvBool("SESSION_SECURE", false),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(val string) []string {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
